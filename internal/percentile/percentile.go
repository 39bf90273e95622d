// Package percentile computes the robust [low, high] NDVI bounds used
// to synthesize the 49 classification templates (internal/template).
package percentile

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientData is returned when fewer than minValidSamples
// non-zero, non-missing NDVI values remain after cleaning.
var ErrInsufficientData = errors.New("percentile: fewer than 200 valid NDVI samples")

// minValidSamples is the minimum population size Estimate requires
// before it will report percentile bounds.
const minValidSamples = 200

// Bounds holds the low (0.5th percentile) and high (99.5th percentile)
// NDVI cutoffs used to synthesize disturbance/recovery templates.
type Bounds struct {
	Low, High float64
}

// Estimate computes Bounds over a flattened NDVI population: zero and
// NaN entries are dropped, the remainder sorted ascending, and the low
// and high cutoffs picked at indices floor(0.005*N)-1 and
// floor(0.995*N)-1 (0-based, converted from the reference's 1-based
// MATLAB indexing). Returns ErrInsufficientData if fewer than 200
// valid samples remain.
//
// Estimate does not compute or log summary statistics; Summary reports
// mean/stddev of the same valid population via gonum/stat for logging,
// and those values play no role in the returned Bounds, which must
// match the reference's exact indexing rule bit-for-bit.
func Estimate(values []float64) (Bounds, error) {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if v == 0 || math.IsNaN(v) {
			continue
		}
		valid = append(valid, v)
	}

	if len(valid) < minValidSamples {
		return Bounds{}, ErrInsufficientData
	}

	sort.Float64s(valid)

	n := len(valid)
	lowIdx := int(math.Floor(float64(n)*0.005)) - 1
	highIdx := int(math.Floor(float64(n)*0.995)) - 1
	lowIdx = clamp(lowIdx, 0, n-1)
	highIdx = clamp(highIdx, 0, n-1)

	return Bounds{Low: valid[lowIdx], High: valid[highIdx]}, nil
}

// Summary reports the mean and standard deviation of the valid
// population backing a set of Bounds, for logging only.
func Summary(values []float64) (mean, stddev float64) {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if v == 0 || math.IsNaN(v) {
			continue
		}
		valid = append(valid, v)
	}
	if len(valid) == 0 {
		return 0, 0
	}

	mean, stddev = stat.MeanStdDev(valid, nil)

	return mean, stddev
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
