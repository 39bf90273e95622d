package mathutil_test

import (
	"testing"

	"github.com/ndvi-mining/minedetect/internal/mathutil"
	"github.com/stretchr/testify/require"
)

// TestRoundHalfAwayFromZero pins down the half-integer tie-break that the
// whole template/year-extraction pipeline depends on: away from zero,
// never banker's rounding.
func TestRoundHalfAwayFromZero(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{0.5, 1},
		{1.5, 2},
		{2.5, 3},
		{-0.5, -1},
		{-1.5, -2},
		{0.0, 0},
		{0.49, 0},
		{-0.49, 0},
		{100.5, 101},
		{-100.5, -101},
	}
	for _, c := range cases {
		require.Equal(t, c.want, mathutil.RoundHalfAwayFromZero(c.in), "round(%v)", c.in)
	}
}

// TestRoundHalfAwayFromZero_Grid sweeps every integer-plus-half in
// [-100, 100] to make sure the tie-break never flips, matching the
// invariant the detection pipeline's reference implementation pins down.
func TestRoundHalfAwayFromZero_Grid(t *testing.T) {
	for i := -100; i <= 100; i++ {
		x := float64(i) + 0.5
		got := mathutil.RoundHalfAwayFromZero(x)
		// Away-from-zero: for x>=0 rounds up to i+1, for x<0 rounds down to i.
		if x >= 0 {
			require.Equal(t, i+1, got, "round(%v)", x)
		} else {
			require.Equal(t, i, got, "round(%v)", x)
		}
	}
}
