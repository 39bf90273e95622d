package percentile_test

import (
	"math"
	"testing"

	"github.com/ndvi-mining/minedetect/internal/percentile"
	"github.com/stretchr/testify/require"
)

func TestEstimate_InsufficientData(t *testing.T) {
	values := make([]float64, 50)
	for i := range values {
		values[i] = 0.5
	}
	_, err := percentile.Estimate(values)
	require.ErrorIs(t, err, percentile.ErrInsufficientData)
}

func TestEstimate_DropsZeroAndNaN(t *testing.T) {
	values := make([]float64, 0, 1000)
	for i := 0; i < 1000; i++ {
		values = append(values, float64(i)/1000.0) // 0.000 .. 0.999
	}
	values = append(values, 0, 0, 0, math.NaN(), math.NaN())

	bounds, err := percentile.Estimate(values)
	require.NoError(t, err)
	// With 999 valid non-zero samples in [0.001, 0.999], the low/high
	// cutoffs should sit near the extremes, never at exactly 0.
	require.Greater(t, bounds.Low, 0.0)
	require.Less(t, bounds.High, 1.0)
	require.Less(t, bounds.Low, bounds.High)
}

func TestEstimate_KnownIndices(t *testing.T) {
	// N=200 valid samples: 1..200. low_idx = floor(200*0.005)-1 = 0,
	// high_idx = floor(200*0.995)-1 = 198 (0-based into sorted values).
	values := make([]float64, 200)
	for i := range values {
		values[i] = float64(i + 1)
	}
	bounds, err := percentile.Estimate(values)
	require.NoError(t, err)
	require.Equal(t, 1.0, bounds.Low)
	require.Equal(t, 199.0, bounds.High)
}
