// Package template synthesizes the 49 canonical NDVI disturbance and
// recovery trajectories used as nearest-neighbour templates by the
// DTW-based classifier (internal/classify).
package template

import (
	"math"

	"github.com/ndvi-mining/minedetect/internal/mathutil"
	"github.com/ndvi-mining/minedetect/internal/percentile"
	"gonum.org/v1/gonum/mat"
)

// NumTemplates is the fixed number of canonical templates (labels 1..49).
const NumTemplates = 49

// recoveryGroup describes one (dist_amp, rec_target) amplitude
// combination used for labels 10..36, in the fixed order the
// reference implementation cycles through them.
type recoveryGroup struct {
	distAmp    float64
	recTarget  [2]float64
	startLabel int
}

// recoveryOnlyGroup describes one rec_target used for labels 41..49.
type recoveryOnlyGroup struct {
	recTarget  [2]float64
	startLabel int
}

// Generate builds the 49x(L+1) template table for band count length
// and percentile bounds s, using amplitude factors p1 and p2 (typically
// 0.8 and 0.6). Column L (0-based: L) holds the label 1..49.
//
// Row construction always writes exactly L+1 entries; any rounding
// edge case from the 25/50/75% drop-position arithmetic is absorbed by
// padding or truncating the constructed row, never by renumbering the
// label.
func Generate(s percentile.Bounds, length int, p1, p2 float64) *mat.Dense {
	L := length
	table := mat.NewDense(NumTemplates, L+1, nil)

	setLabel := func(row int, label int) {
		table.Set(row, L, float64(label))
	}

	// Labels 1-9: step down, no recovery, at 25/50/75% for three
	// pre-drop amplitudes (1*high, p1*high, p2*high).
	dropPositions := []int{
		mathutil.RoundHalfAwayFromZero(0.25 * float64(L)),
		mathutil.RoundHalfAwayFromZero(float64(L) / 2),
		mathutil.RoundHalfAwayFromZero(0.75 * float64(L)),
	}
	amps := []float64{1.0, p1, p2}
	label := 1
	for _, amp := range amps {
		for _, dp := range dropPositions {
			writeStepRow(table, label-1, amp*s.High, dp-1, s.Low, L-(dp-1), L)
			setLabel(label-1, label)
			label++
		}
	}

	// Labels 10-36: step down + exponential recovery, nine amplitude
	// combinations, three drop positions each.
	groups := []recoveryGroup{
		{distAmp: 1.0, recTarget: [2]float64{s.Low, s.High}, startLabel: 10},
		{distAmp: p1, recTarget: [2]float64{s.Low, s.High}, startLabel: 13},
		{distAmp: 1.0, recTarget: [2]float64{s.Low, p1 * s.High}, startLabel: 16},
		{distAmp: p1, recTarget: [2]float64{s.Low, p1 * s.High}, startLabel: 19},
		{distAmp: p2, recTarget: [2]float64{s.Low, s.High}, startLabel: 22},
		{distAmp: 1.0, recTarget: [2]float64{s.Low, p2 * s.High}, startLabel: 25},
		{distAmp: p2, recTarget: [2]float64{s.Low, p2 * s.High}, startLabel: 28},
		{distAmp: p2, recTarget: [2]float64{s.Low, p1 * s.High}, startLabel: 31},
		{distAmp: p1, recTarget: [2]float64{s.Low, p2 * s.High}, startLabel: 34},
	}
	for _, g := range groups {
		fillRecoveryGroup(table, s, L, g)
	}

	// Label 37: constant low. Labels 38-40: constant high, p1*high, p2*high.
	fillConstantRow(table, 36, s.Low, L)
	setLabel(36, 37)
	fillConstantRow(table, 37, s.High, L)
	setLabel(37, 38)
	fillConstantRow(table, 38, p1*s.High, L)
	setLabel(38, 39)
	fillConstantRow(table, 39, p2*s.High, L)
	setLabel(39, 40)

	// Labels 41-49: recovery only (no prior disturbance), three
	// recovery targets, three drop positions each.
	onlyGroups := []recoveryOnlyGroup{
		{recTarget: [2]float64{s.Low, s.High}, startLabel: 41},
		{recTarget: [2]float64{s.Low, p1 * s.High}, startLabel: 44},
		{recTarget: [2]float64{s.Low, p2 * s.High}, startLabel: 47},
	}
	for _, g := range onlyGroups {
		fillRecoveryOnlyGroup(table, L, g)
	}

	return table
}

// recoveryCurve evaluates rec(a,b) = (a[0]-a[1])*exp(-0.5*b) + a[1] for
// b = 1..n (1-based per the reference's MATLAB lineage).
func recoveryCurve(a [2]float64, n int) []float64 {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		b := float64(i + 1)
		out[i] = (a[0]-a[1])*math.Exp(-0.5*b) + a[1]
	}

	return out
}

// writeStepRow writes val1 repeated len1 times followed by val2
// repeated len2 times into row, clipped/padded to exactly total entries
// (columns [0,total)); column total (the label column) is left untouched.
func writeStepRow(table *mat.Dense, row int, val1 float64, len1 int, val2 float64, len2 int, total int) {
	seg := make([]float64, 0, total)
	for i := 0; i < len1 && i < total; i++ {
		seg = append(seg, val1)
	}
	for i := 0; i < len2 && len(seg) < total; i++ {
		seg = append(seg, val2)
	}
	writeRow(table, row, seg, total)
}

// fillConstantRow writes a constant value across all L columns of row.
func fillConstantRow(table *mat.Dense, row int, val float64, L int) {
	for c := 0; c < L; c++ {
		table.Set(row, c, val)
	}
}

// fillRecoveryGroup fills the three rows (drop at 25/50/75%) for one
// (dist_amp, rec_target) combination starting at g.startLabel.
func fillRecoveryGroup(table *mat.Dense, s percentile.Bounds, L int, g recoveryGroup) {
	type config struct {
		dropPos   int
		stableLen int
	}
	configs := []config{
		{dropPos: mathutil.RoundHalfAwayFromZero(0.25 * float64(L)), stableLen: mathutil.RoundHalfAwayFromZero(0.375*float64(L) - 0.5)},
		{dropPos: mathutil.RoundHalfAwayFromZero(float64(L) / 2), stableLen: mathutil.RoundHalfAwayFromZero(0.25*float64(L) - 0.5)},
		{dropPos: mathutil.RoundHalfAwayFromZero(0.75 * float64(L)), stableLen: mathutil.RoundHalfAwayFromZero(0.125*float64(L) - 0.5)},
	}

	for i, c := range configs {
		label := g.startLabel + i
		preLen := c.dropPos - 1
		if preLen < 0 {
			preLen = 0
		}
		stableLen := c.stableLen
		if stableLen < 0 {
			stableLen = 0
		}
		recLen := L - preLen - stableLen
		if recLen < 1 {
			recLen = 1
		}

		seg := make([]float64, 0, L)
		for i := 0; i < preLen && len(seg) < L; i++ {
			seg = append(seg, g.distAmp*s.High)
		}
		for i := 0; i < stableLen && len(seg) < L; i++ {
			seg = append(seg, s.Low)
		}
		rec := recoveryCurve(g.recTarget, recLen)
		for _, v := range rec {
			if len(seg) >= L {
				break
			}
			seg = append(seg, v)
		}

		writeRow(table, label-1, seg, L)
		table.Set(label-1, L, float64(label))
	}
}

// fillRecoveryOnlyGroup fills the three rows (recovery onset at
// 25/50/75%, no prior disturbance) for one rec_target starting at
// g.startLabel.
func fillRecoveryOnlyGroup(table *mat.Dense, L int, g recoveryOnlyGroup) {
	positions := []int{
		mathutil.RoundHalfAwayFromZero(0.25 * float64(L)),
		mathutil.RoundHalfAwayFromZero(float64(L) / 2),
		mathutil.RoundHalfAwayFromZero(0.75 * float64(L)),
	}

	for i, pos := range positions {
		label := g.startLabel + i
		preLen := pos - 1
		if preLen < 0 {
			preLen = 0
		}
		recLen := L - preLen
		if recLen < 1 {
			recLen = 1
		}

		seg := make([]float64, 0, L)
		for i := 0; i < preLen && len(seg) < L; i++ {
			seg = append(seg, g.recTarget[0])
		}
		rec := recoveryCurve(g.recTarget, recLen)
		for _, v := range rec {
			if len(seg) >= L {
				break
			}
			seg = append(seg, v)
		}

		writeRow(table, label-1, seg, L)
		table.Set(label-1, L, float64(label))
	}
}

// writeRow copies seg into table row row, columns [0,total); if seg is
// shorter than total the remaining columns keep their zero value
// (mat.NewDense zero-initializes), matching the reference's
// zero-padding of under-length rows.
func writeRow(table *mat.Dense, row int, seg []float64, total int) {
	n := len(seg)
	if n > total {
		n = total
	}
	for c := 0; c < n; c++ {
		table.Set(row, c, seg[c])
	}
}
