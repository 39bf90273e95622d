// Package mathutil provides small numeric primitives shared by the
// detection pipeline: MATLAB-compatible rounding, used by the template
// generator and classifier, and robust statistics (median, median
// absolute deviation) used by the wavelet denoiser.
package mathutil

import "math"

// RoundHalfAwayFromZero rounds x to the nearest integer, breaking ties
// away from zero: RoundHalfAwayFromZero(0.5) == 1, RoundHalfAwayFromZero(1.5) == 2,
// RoundHalfAwayFromZero(-0.5) == -1.
//
// Go's math.Round already rounds half away from zero, but the pipeline's
// template geometry (drop positions at 25/50/75% of a band count) is
// laden with exact half-integers, so this wrapper exists to make that
// choice explicit and keep every call site free of accidental banker's
// rounding from float formatting or integer division.
func RoundHalfAwayFromZero(x float64) int {
	if x >= 0 {
		return int(math.Floor(x + 0.5))
	}

	return int(math.Ceil(x - 0.5))
}
