// Package classify assigns each pixel's NDVI trajectory one of 49
// canonical disturbance/recovery labels via nearest-neighbour DTW
// matching, and extracts the disturbance/recovery band indices implied
// by the winning template.
package classify

import (
	"math"

	"github.com/ndvi-mining/minedetect/dtw"
	"github.com/ndvi-mining/minedetect/internal/denoise"
	"github.com/ndvi-mining/minedetect/internal/mathutil"
	"gonum.org/v1/gonum/mat"
)

// Result is a single pixel's classification outcome. Label 0 marks a
// pixel whose series was entirely missing; Yd and Yr are 1-based band
// indices into the original (pre-NaN-removal) series, or 0 when the
// winning label's group does not define that axis.
type Result struct {
	Label int
	Yd    int
	Yr    int
}

// Classify assigns series x (length L, NaN marks missing observations)
// a label by nearest-neighbour DTW match against the rows of
// templates (a 49x(L+1) table as produced by internal/template), and
// extracts yd/yr from the winning template's warping path.
func Classify(x []float64, templates *mat.Dense) Result {
	idNaN := make([]int, 0)
	clean := make([]float64, 0, len(x))
	for i, v := range x {
		if math.IsNaN(v) {
			idNaN = append(idNaN, i+1)

			continue
		}
		clean = append(clean, v)
	}

	if len(clean) == 0 {
		return Result{}
	}

	smoothed := denoise.Smooth(denoise.RemoveSpikes(clean))

	numTemplates, cols := templates.Dims()
	L := cols - 1

	bestIdx := -1
	bestDist := math.Inf(1)
	distOpts := dtw.DefaultOptions()
	distOpts.MemoryMode = dtw.TwoRows

	row := make([]float64, L)
	for r := 0; r < numTemplates; r++ {
		for c := 0; c < L; c++ {
			row[c] = templates.At(r, c)
		}
		d, _, err := dtw.DTW(row, smoothed, &distOpts)
		if err != nil {
			continue
		}
		if d < bestDist {
			bestDist = d
			bestIdx = r
		}
	}

	if bestIdx < 0 {
		return Result{}
	}

	for c := 0; c < L; c++ {
		row[c] = templates.At(bestIdx, c)
	}
	label := int(templates.At(bestIdx, L))

	fullOpts := dtw.DefaultOptions()
	fullOpts.MemoryMode = dtw.FullMatrix
	fullOpts.ReturnPath = true
	_, path, err := dtw.DTW(row, smoothed, &fullOpts)
	if err != nil {
		return Result{Label: label}
	}

	if !isFlatLabel(label) {
		path = adjustPathForNaN(path, idNaN)
	}

	ydCol, yrCol := labelGroupColumns(label, L)
	yd := lookupTestIndex(path, ydCol)
	yr := lookupTestIndex(path, yrCol)

	return Result{Label: label, Yd: yd, Yr: yr}
}

// isFlatLabel reports whether label is one of the four constant
// (no-disturbance, no-recovery) templates, which never need NaN
// position adjustment since their path carries no year semantics.
func isFlatLabel(label int) bool {
	return label >= 37 && label <= 40
}

// adjustPathForNaN re-inserts gaps removed by NaN stripping: for each
// original NaN position q (1-based, in ascending order), the first
// path entry whose test-index equals q, and every entry after it, has
// its test-index incremented by one.
func adjustPathForNaN(path []dtw.Coord, idNaN []int) []dtw.Coord {
	if len(idNaN) == 0 {
		return path
	}

	adjusted := make([]dtw.Coord, len(path))
	copy(adjusted, path)

	for _, q := range idNaN {
		found := -1
		for i, c := range adjusted {
			if c.J == q {
				found = i

				break
			}
		}
		if found < 0 {
			continue
		}
		for i := found; i < len(adjusted); i++ {
			adjusted[i].J++
		}
	}

	return adjusted
}

// lookupTestIndex finds the first path entry whose template-index (I)
// equals col and returns its test-index (J). Returns 0 if col is 0
// (axis not defined for this label's group) or not found in the path.
func lookupTestIndex(path []dtw.Coord, col int) int {
	if col <= 0 {
		return 0
	}
	for _, c := range path {
		if c.I == col {
			return c.J
		}
	}

	return 0
}

// labelGroupColumns returns the (ydCol, yrCol) template-axis columns
// to look up in the winning path, per the label's group. A returned 0
// means that axis is not defined for the label.
func labelGroupColumns(label int, L int) (ydCol, yrCol int) {
	r25 := mathutil.RoundHalfAwayFromZero(0.25 * float64(L))
	r50 := mathutil.RoundHalfAwayFromZero(0.5 * float64(L))
	r75 := mathutil.RoundHalfAwayFromZero(0.75 * float64(L))

	switch {
	case inSet(label, 1, 4, 7):
		return r25, 0
	case inSet(label, 2, 5, 8):
		return r50, 0
	case inSet(label, 3, 6, 9):
		return r75, 0
	case inSet(label, 10, 13, 16, 19, 22, 25, 28, 31, 34):
		return r25, r25 + mathutil.RoundHalfAwayFromZero(0.375*float64(L)-0.5)
	case inSet(label, 11, 14, 17, 20, 23, 26, 29, 32, 35):
		return r50, r50 + mathutil.RoundHalfAwayFromZero(0.25*float64(L)-0.5)
	case inSet(label, 12, 15, 18, 21, 24, 27, 30, 33, 36):
		return r75, r75 + mathutil.RoundHalfAwayFromZero(0.125*float64(L)-0.5)
	case isFlatLabel(label):
		return 0, 0
	case inSet(label, 41, 44, 47):
		return 0, r25
	case inSet(label, 42, 45, 48):
		return 0, r50
	case inSet(label, 43, 46, 49):
		return 0, r75
	default:
		return 0, 0
	}
}

func inSet(v int, set ...int) bool {
	for _, s := range set {
		if v == s {
			return true
		}
	}

	return false
}
