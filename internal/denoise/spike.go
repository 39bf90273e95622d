package denoise

// RemoveSpikes flattens lone downward spikes (dips) in a 1-D series
// using a sliding triplet rule; upward bumps are left alone. For each
// window (a[i], a[i+1], a[i+2]) with both endpoints non-zero, it
// computes the relative drop at each edge and the ratio of the two edge
// deltas; when both edges drop by more than 20% and the second edge is
// more than 40% as steep as the first,
// the middle sample is replaced by the average of its neighbours. The
// sweep runs forward and reuses samples already overwritten by earlier
// iterations, so a run of adjacent spikes is smoothed left to right
// rather than independently.
func RemoveSpikes(xs []float64) []float64 {
	out := make([]float64, len(xs))
	copy(out, xs)

	for i := 0; i+2 < len(out); i++ {
		c0, c1, c2 := out[i], out[i+1], out[i+2]
		if c0 == 0 || c2 == 0 {
			continue
		}

		p4 := c0 - c1
		if p4 == 0 {
			continue
		}

		p1 := (c0 - c1) / c0
		p2 := (c2 - c1) / c2
		p3 := c2 - c1

		if p1 > 0.2 && p2 > 0.2 && p3/p4 > 0.4 {
			out[i+1] = (c0 + c2) / 2
		}
	}

	return out
}
