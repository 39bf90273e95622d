// Package pipeline owns the detection job's file I/O and wires C1-C7
// together: it reads the NDVI and coal rasters, cleans the NDVI stack,
// estimates percentile bounds, synthesizes templates, classifies every
// pixel in parallel, spatially filters the result, and writes the
// seven output GeoTIFFs.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"github.com/ndvi-mining/minedetect/internal/classify"
	"github.com/ndvi-mining/minedetect/internal/parallel"
	"github.com/ndvi-mining/minedetect/internal/percentile"
	"github.com/ndvi-mining/minedetect/internal/raster"
	"github.com/ndvi-mining/minedetect/internal/reshape"
	"github.com/ndvi-mining/minedetect/internal/spatialfilter"
	"github.com/ndvi-mining/minedetect/internal/template"
)

// outputNames lists the seven rasters Detect writes, in the order
// they're produced; the returned map uses these as keys and
// "<name>.tif" basenames under outDir.
var outputNames = []string{
	"mining_disturbance_mask",
	"mining_disturbance_year",
	"mining_recovery_year",
	"potential_disturbance",
	"res_disturbance_type",
	"year_disturbance_raw",
	"year_recovery_raw",
}

// Result is the per-job summary Detect logs alongside the output
// paths: how many pixels degraded to (0,0,0) because of a per-pixel
// compute failure, per spec's "no pixel poisons the batch" rule.
type Result struct {
	Paths        map[string]string
	FailedPixels int
}

// Detect runs the full detection pipeline against ndviPath and
// coalPath, writing seven GeoTIFFs under outDir, and returns the
// output name -> path map. cfg's zero value uses the documented
// defaults (Config.Get* accessors).
//
// Any error other than cancellation removes whatever output files
// were already written before returning; a cancelled run leaves
// partial output in place, unlabelled, per spec §7.
func Detect(ctx context.Context, ndviPath, coalPath, outDir string, cfg Config) (map[string]string, error) {
	res, err := detect(ctx, ndviPath, coalPath, outDir, cfg)
	if res != nil {
		return res.Paths, err
	}

	return nil, err
}

func detect(ctx context.Context, ndviPath, coalPath, outDir string, cfg Config) (*Result, error) {
	written := make([]string, 0, len(outputNames))
	cleanup := func() {
		for _, p := range written {
			_ = os.Remove(p)
		}
	}

	if _, err := os.Stat(ndviPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, ndviPath)
	}

	ndvi, err := raster.ReadStack(ndviPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRaster, err)
	}
	if len(ndvi.Bands) == 0 {
		return nil, fmt.Errorf("%w: ndvi stack has zero bands", ErrInvalidRaster)
	}

	cleanNDVI(ndvi.Bands)

	bounds, err := percentile.Estimate(flattenBands(ndvi.Bands))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInsufficientData, err)
	}
	mean, stddev := percentile.Summary(flattenBands(ndvi.Bands))
	log.Printf("pipeline: valid NDVI population mean=%.4f stddev=%.4f low=%.4f high=%.4f",
		mean, stddev, bounds.Low, bounds.High)

	rows, cols := ndvi.Height, ndvi.Width
	pixelSeries := reshape.ToPixelMajor(ndvi.Bands, rows, cols)
	numPixels := rows * cols
	bandCount := len(ndvi.Bands)

	templates := template.Generate(bounds, bandCount, cfg.GetP1(), cfg.GetP2())

	active := make([]int, 0, numPixels)
	for p, series := range pixelSeries {
		if !allMissing(series) {
			active = append(active, p)
		}
	}

	labels := make([]int, numPixels)
	yd := make([]int, numPixels)
	yr := make([]int, numPixels)
	var failed int64

	workers := cfg.GetWorkers()
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	exec := parallel.Executor{Workers: workers, ChunkSize: cfg.GetChunkSize()}

	work := func(i int) (err error) {
		p := active[i]
		defer func() {
			if r := recover(); r != nil {
				atomic.AddInt64(&failed, 1)
				labels[p], yd[p], yr[p] = 0, 0, 0
			}
		}()

		result := classify.Classify(pixelSeries[p], templates)
		labels[p] = result.Label
		yd[p] = result.Yd
		yr[p] = result.Yr

		return nil
	}

	if err := parallel.Run(ctx, len(active), exec, work); err != nil {
		if ctx.Err() != nil {
			return &Result{}, ErrCancelled
		}

		cleanup()

		return nil, fmt.Errorf("%w: %v", ErrComputeError, err)
	}

	log.Printf("pipeline: classified %d/%d pixels (%d degraded to label 0)", len(active), numPixels, atomic.LoadInt64(&failed))

	labelsRowMajor := reshape.ScalarsToRowMajor(labels, rows, cols)
	ydRowMajor := reshape.ScalarsToRowMajor(yd, rows, cols)
	yrRowMajor := reshape.ScalarsToRowMajor(yr, rows, cols)

	if _, err := os.Stat(coalPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, coalPath)
	}

	coal, err := raster.ReadStack(coalPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRaster, err)
	}
	if len(coal.Bands) == 0 {
		return nil, fmt.Errorf("%w: coal raster has zero bands", ErrInvalidRaster)
	}

	resampledCoal := make([][]float64, len(coal.Bands))
	for b, band := range coal.Bands {
		resampledCoal[b] = raster.ResampleNearestNeighbor(band, coal, ndvi)
	}

	coalMask := spatialfilter.BinarizeCoalBands(resampledCoal)
	coalMask = spatialfilter.MedianFilter5x5(coalMask, cols, rows)

	mask := spatialfilter.Mask(labelsRowMajor)
	opened := spatialfilter.Open(mask, cols, rows)
	potential, numComponents := spatialfilter.Label8(opened, cols, rows)

	keep := spatialfilter.GateRegions(potential, numComponents, coalMask)

	startYear := cfg.GetStartYear()
	disturbanceYear := spatialfilter.ApplyYearMask(ydRowMajor, keep, startYear)
	recoveryYear := spatialfilter.ApplyYearMask(yrRowMajor, keep, startYear)

	outputs := map[string][]int{
		"mining_disturbance_mask":  keep,
		"mining_disturbance_year":  disturbanceYear,
		"mining_recovery_year":     recoveryYear,
		"potential_disturbance":    potential,
		"res_disturbance_type":     labelsRowMajor,
		"year_disturbance_raw":     ydRowMajor,
		"year_recovery_raw":        yrRowMajor,
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create output dir: %v", ErrInvalidRaster, err)
	}

	paths := make(map[string]string, len(outputNames))
	for _, name := range outputNames {
		path := filepath.Join(outDir, name+".tif")
		data := intsToFloat64(outputs[name])

		if err := raster.WriteSingleBand(path, data, ndvi); err != nil {
			cleanup()

			return nil, fmt.Errorf("%w: write %s: %v", ErrComputeError, name, err)
		}
		written = append(written, path)
		paths[name] = path
	}

	return &Result{Paths: paths, FailedPixels: int(failed)}, nil
}

// cleanNDVI applies the spec's NDVI validity rules in place: exact
// zero is the missing sentinel and is itself mapped to NaN (matching
// the reference's `a[a==0]=np.nan` first cleaning step), values >= 1
// are likewise invalidated to NaN, and values < -1 are clamped to 0
// rather than invalidated (the reference implementation's asymmetry,
// preserved per spec §9 open question a).
func cleanNDVI(bands [][]float64) {
	for _, band := range bands {
		for i, v := range band {
			switch {
			case v == 0 || v >= 1:
				band[i] = math.NaN()
			case v < -1:
				band[i] = 0
			}
		}
	}
}

// flattenBands concatenates every band into one slice for the
// percentile estimator, which itself drops zero/NaN entries.
func flattenBands(bands [][]float64) []float64 {
	total := 0
	for _, b := range bands {
		total += len(b)
	}
	out := make([]float64, 0, total)
	for _, b := range bands {
		out = append(out, b...)
	}

	return out
}

// allMissing reports whether every entry of series is NaN (cleanNDVI's
// sentinel for "missing" after cleaning); such pixels are skipped by
// the classifier and left at their zero-value (0,0,0) result, per spec
// §4.8.
func allMissing(series []float64) bool {
	for _, v := range series {
		if !math.IsNaN(v) {
			return false
		}
	}

	return true
}

func intsToFloat64(xs []int) []float64 {
	out := make([]float64, len(xs))
	for i, v := range xs {
		out[i] = float64(v)
	}

	return out
}
