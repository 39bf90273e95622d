package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanNDVI_AppliesValidityRules(t *testing.T) {
	bands := [][]float64{
		{0, 0.5, 1.0, -1.0, -1.5, 1.2, -0.999},
	}

	cleanNDVI(bands)

	got := bands[0]
	require.True(t, math.IsNaN(got[0]), "exact zero is the missing sentinel and becomes NaN")
	require.Equal(t, 0.5, got[1], "in-range values are untouched")
	require.True(t, math.IsNaN(got[2]), ">= 1 is invalidated to NaN")
	require.Equal(t, -1.0, got[3], "-1 is exactly in range and untouched")
	require.Equal(t, 0.0, got[4], "< -1 is clamped to 0, not NaN")
	require.True(t, math.IsNaN(got[5]))
	require.Equal(t, -0.999, got[6])
}

func TestAllMissing(t *testing.T) {
	nan := math.NaN()
	require.True(t, allMissing([]float64{nan, nan, nan}))
	require.False(t, allMissing([]float64{nan, nan, 0.001}))
	require.False(t, allMissing([]float64{0, 0, 0}), "zeros left by the < -1 clamp are valid values")
}

func TestFlattenBands(t *testing.T) {
	bands := [][]float64{{1, 2}, {3, 4, 5}}
	got := flattenBands(bands)
	require.Equal(t, []float64{1, 2, 3, 4, 5}, got)
}

func TestIntsToFloat64(t *testing.T) {
	require.Equal(t, []float64{1, -2, 0}, intsToFloat64([]int{1, -2, 0}))
}
