// Package raster handles GeoTIFF input/output for the detection
// pipeline: reading a multi-band NDVI or coal-probability stack and
// writing single-band LZW-compressed result rasters that preserve the
// source's coordinate reference system and geotransform.
package raster

import (
	"fmt"
	"math"

	"github.com/airbusgeo/godal"
)

func init() {
	godal.RegisterAll()
}

// Stack holds a multi-band raster read into memory, band-major: each
// entry of Bands is one band's pixel values in row-major order,
// length Width*Height.
type Stack struct {
	Width, Height int
	Bands         [][]float64

	GeoTransform [6]float64
	Projection   string
}

// ReadStack opens path and reads every band as float64.
func ReadStack(path string) (*Stack, error) {
	ds, err := godal.Open(path)
	if err != nil {
		return nil, fmt.Errorf("raster: open %s: %w", path, err)
	}
	defer ds.Close()

	st := ds.Structure()
	gt, err := ds.GeoTransform()
	if err != nil {
		return nil, fmt.Errorf("raster: geotransform %s: %w", path, err)
	}
	proj := ds.Projection()

	bands := make([][]float64, st.NBands)
	for b := 0; b < st.NBands; b++ {
		data := make([]float64, st.SizeX*st.SizeY)
		if err := ds.Read(0, 0, data, st.SizeX, st.SizeY, godal.Bands(b)); err != nil {
			return nil, fmt.Errorf("raster: read band %d of %s: %w", b, path, err)
		}
		bands[b] = data
	}

	return &Stack{
		Width:        st.SizeX,
		Height:       st.SizeY,
		Bands:        bands,
		GeoTransform: gt,
		Projection:   proj,
	}, nil
}

// WriteSingleBand writes a single-band, LZW-compressed GeoTIFF at
// path, reusing the geotransform and projection of a reference Stack
// (typically the input NDVI stack, so every output raster stays
// co-registered with it).
func WriteSingleBand(path string, data []float64, ref *Stack) error {
	ds, err := godal.Create(godal.GTiff, path, 1, godal.Float64, ref.Width, ref.Height,
		godal.CreationOption("COMPRESS=LZW"))
	if err != nil {
		return fmt.Errorf("raster: create %s: %w", path, err)
	}
	defer ds.Close()

	if err := ds.SetGeoTransform(ref.GeoTransform); err != nil {
		return fmt.Errorf("raster: set geotransform on %s: %w", path, err)
	}
	if err := ds.SetProjection(ref.Projection); err != nil {
		return fmt.Errorf("raster: set projection on %s: %w", path, err)
	}
	if err := ds.Write(0, 0, data, ref.Width, ref.Height); err != nil {
		return fmt.Errorf("raster: write %s: %w", path, err)
	}

	return nil
}

// ResampleNearestNeighbor resamples one band of srcStack onto dstStack's
// grid using nearest-neighbour sampling. When both stacks carry an
// invertible affine GeoTransform, each destination pixel's centre is
// projected to world coordinates via dstStack's transform and back to a
// source pixel via the inverse of srcStack's transform, so grids that
// differ in origin, pixel size, or orientation (not just shape) still
// line up. If either transform is degenerate (zero determinant, as in
// a Stack built without one), it falls back to proportional
// shape-ratio sampling. Used to align the coal-probability raster onto
// the NDVI grid.
func ResampleNearestNeighbor(src []float64, srcStack, dstStack *Stack) []float64 {
	srcWidth, srcHeight := srcStack.Width, srcStack.Height
	dstWidth, dstHeight := dstStack.Width, dstStack.Height

	if srcWidth == dstWidth && srcHeight == dstHeight && srcStack.GeoTransform == dstStack.GeoTransform {
		out := make([]float64, len(src))
		copy(out, src)

		return out
	}

	invSrc, invertible := invertGeoTransform(srcStack.GeoTransform)
	if _, dstOK := invertGeoTransform(dstStack.GeoTransform); !dstOK {
		invertible = false
	}

	out := make([]float64, dstWidth*dstHeight)
	for y := 0; y < dstHeight; y++ {
		for x := 0; x < dstWidth; x++ {
			var sx, sy int
			if invertible {
				wx, wy := applyGeoTransform(dstStack.GeoTransform, float64(x)+0.5, float64(y)+0.5)
				fx, fy := applyGeoTransform(invSrc, wx, wy)
				sx, sy = int(math.Floor(fx)), int(math.Floor(fy))
			} else {
				sx = int(float64(x) * float64(srcWidth) / float64(dstWidth))
				sy = int(float64(y) * float64(srcHeight) / float64(dstHeight))
			}

			out[y*dstWidth+x] = src[clampInt(sy, 0, srcHeight-1)*srcWidth+clampInt(sx, 0, srcWidth-1)]
		}
	}

	return out
}

// applyGeoTransform maps a (pixel, line) coordinate to world (x, y)
// through the GDAL-convention affine GeoTransform gt.
func applyGeoTransform(gt [6]float64, px, py float64) (x, y float64) {
	x = gt[0] + px*gt[1] + py*gt[2]
	y = gt[3] + px*gt[4] + py*gt[5]

	return x, y
}

// invertGeoTransform computes the affine GeoTransform mapping world
// coordinates back to (pixel, line) coordinates, i.e. the inverse of
// gt under applyGeoTransform. Returns ok=false if gt is degenerate
// (zero determinant).
func invertGeoTransform(gt [6]float64) (inv [6]float64, ok bool) {
	det := gt[1]*gt[5] - gt[2]*gt[4]
	if det == 0 {
		return inv, false
	}

	inv[1] = gt[5] / det
	inv[2] = -gt[2] / det
	inv[4] = -gt[4] / det
	inv[5] = gt[1] / det
	inv[0] = -(inv[1]*gt[0] + inv[2]*gt[3])
	inv[3] = -(inv[4]*gt[0] + inv[5]*gt[3])

	return inv, true
}

func clampInt(v, lo, hi int) int {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}
