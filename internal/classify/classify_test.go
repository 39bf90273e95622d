package classify_test

import (
	"math"
	"testing"

	"github.com/ndvi-mining/minedetect/internal/classify"
	"github.com/ndvi-mining/minedetect/internal/percentile"
	"github.com/ndvi-mining/minedetect/internal/template"
	"github.com/stretchr/testify/require"
)

func TestClassify_AllNaNYieldsZeroTriple(t *testing.T) {
	L := 15
	x := make([]float64, L)
	for i := range x {
		x[i] = math.NaN()
	}

	got := classify.Classify(x, template.Generate(percentile.Bounds{Low: 0.1, High: 0.8}, L, 0.8, 0.6))
	require.Equal(t, classify.Result{}, got)
}

func TestClassify_ConstantHighMatchesFlatGroup(t *testing.T) {
	L := 15
	s := percentile.Bounds{Low: 0.15, High: 0.75}
	x := make([]float64, L)
	for i := range x {
		x[i] = 0.75
	}

	got := classify.Classify(x, template.Generate(s, L, 0.8, 0.6))
	require.Contains(t, []int{38, 39, 40}, got.Label)
}

func TestClassify_ConstantLowMatchesLabel37(t *testing.T) {
	L := 15
	s := percentile.Bounds{Low: 0.15, High: 0.75}
	x := make([]float64, L)
	for i := range x {
		x[i] = 0.15
	}

	got := classify.Classify(x, template.Generate(s, L, 0.8, 0.6))
	require.Equal(t, 37, got.Label)
}

func TestClassify_StepDownMatchesFlatDropGroup(t *testing.T) {
	// Seven high-plateau samples followed by eight low-plateau
	// samples: a step-down at roughly the midpoint, no recovery.
	L := 15
	s := percentile.Bounds{Low: 0.18, High: 0.72}
	x := make([]float64, L)
	for i := range x {
		if i < 7 {
			x[i] = 0.72
		} else {
			x[i] = 0.18
		}
	}

	got := classify.Classify(x, template.Generate(s, L, 0.8, 0.6))
	require.Contains(t, []int{2, 5, 8}, got.Label)
}

func TestClassify_DropThenRecoveryMatchesRecoveryGroup(t *testing.T) {
	// Drop to the low value at 25% of the series, then an exponential
	// climb back toward the high plateau: the canonical
	// disturbance+recovery shape.
	L := 24
	s := percentile.Bounds{Low: 0.15, High: 0.75}
	dropAt := L / 4

	x := make([]float64, L)
	for i := range x {
		switch {
		case i < dropAt:
			x[i] = s.High
		default:
			b := float64(i - dropAt)
			x[i] = (s.Low-s.High)*math.Exp(-0.5*b) + s.High
		}
	}

	got := classify.Classify(x, template.Generate(s, L, 0.8, 0.6))
	require.GreaterOrEqual(t, got.Label, 10)
	require.LessOrEqual(t, got.Label, 36)
}

func TestClassify_RecoveryOnlyMatchesRecoveryOnlyGroup(t *testing.T) {
	// Flat low plateau for the first quarter, then recovery toward
	// high with no prior disturbance plateau.
	L := 24
	s := percentile.Bounds{Low: 0.15, High: 0.75}
	recAt := L / 4

	x := make([]float64, L)
	for i := range x {
		switch {
		case i < recAt:
			x[i] = s.Low
		default:
			b := float64(i - recAt + 1)
			x[i] = (s.Low-s.High)*math.Exp(-0.5*b) + s.High
		}
	}

	got := classify.Classify(x, template.Generate(s, L, 0.8, 0.6))
	require.GreaterOrEqual(t, got.Label, 41)
	require.LessOrEqual(t, got.Label, 49)
}

func TestClassify_TemplatesAreSelfConsistent(t *testing.T) {
	L := 23
	s := percentile.Bounds{Low: 0.1, High: 0.8}
	templates := template.Generate(s, L, 0.8, 0.6)

	rows, cols := templates.Dims()
	for r := 0; r < rows; r++ {
		row := make([]float64, cols-1)
		for c := 0; c < cols-1; c++ {
			row[c] = templates.At(r, c)
		}
		wantLabel := int(templates.At(r, cols-1))

		got := classify.Classify(row, templates)
		require.Equal(t, wantLabel, got.Label, "template row %d should self-classify", r)
	}
}
