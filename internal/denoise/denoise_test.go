package denoise_test

import (
	"testing"

	"github.com/ndvi-mining/minedetect/internal/denoise"
	"github.com/stretchr/testify/require"
)

func TestRemoveSpikes_FlattensDip(t *testing.T) {
	xs := []float64{0.5, 0.5, 0.1, 0.5, 0.5}
	out := denoise.RemoveSpikes(xs)
	require.InDelta(t, 0.5, out[2], 1e-9)
	require.InDelta(t, xs[0], out[0], 1e-9)
	require.InDelta(t, xs[4], out[4], 1e-9)
}

func TestRemoveSpikes_ReferenceVector(t *testing.T) {
	out := denoise.RemoveSpikes([]float64{0.8, 0.3, 0.8, 0.7, 0.75})
	require.InDelta(t, 0.8, out[1], 1e-9)
}

func TestRemoveSpikes_IgnoresUpwardBump(t *testing.T) {
	// The rule only fires when both edges drop (p1, p2 > 0); a sample
	// that rises above its neighbours is left untouched.
	xs := []float64{0.3, 0.3, 0.9, 0.3, 0.3}
	out := denoise.RemoveSpikes(xs)
	require.Equal(t, xs, out)
}

func TestRemoveSpikes_LeavesSmoothSeriesAlone(t *testing.T) {
	xs := []float64{0.1, 0.2, 0.3, 0.4, 0.5}
	out := denoise.RemoveSpikes(xs)
	require.Equal(t, xs, out)
}

func TestRemoveSpikes_DoesNotTouchEndpoints(t *testing.T) {
	xs := []float64{10.0, 0.1, 10.0}
	out := denoise.RemoveSpikes(xs)
	require.Equal(t, 10.0, out[0])
	require.Equal(t, 10.0, out[2])
}

func TestRemoveSpikes_HandlesMultipleIndependentDips(t *testing.T) {
	xs := []float64{0.5, 0.1, 0.5, 0.5, 0.1, 0.5}
	out := denoise.RemoveSpikes(xs)
	require.InDelta(t, 0.5, out[1], 1e-9)
	require.InDelta(t, 0.5, out[4], 1e-9)
}

func TestSmooth_ReturnsExtendedLength(t *testing.T) {
	xs := make([]float64, 46)
	for i := range xs {
		xs[i] = 0.3 + 0.2*float64(i%5)
	}
	out := denoise.Smooth(xs)
	require.Len(t, out, len(xs)+1)
}

func TestSmooth_EmptyInput(t *testing.T) {
	require.Empty(t, denoise.Smooth(nil))
}

func TestSmooth_ReducesVarianceOnNoisySignal(t *testing.T) {
	xs := make([]float64, 60)
	for i := range xs {
		base := 0.5
		if i%2 == 0 {
			base += 0.02
		} else {
			base -= 0.02
		}
		xs[i] = base
	}
	out := denoise.Smooth(xs)

	variance := func(v []float64) float64 {
		var mean float64
		for _, x := range v {
			mean += x
		}
		mean /= float64(len(v))
		var sum float64
		for _, x := range v {
			sum += (x - mean) * (x - mean)
		}
		return sum / float64(len(v))
	}

	require.Less(t, variance(out), variance(xs))
}
