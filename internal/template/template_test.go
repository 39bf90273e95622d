package template_test

import (
	"testing"

	"github.com/ndvi-mining/minedetect/internal/percentile"
	"github.com/ndvi-mining/minedetect/internal/template"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Shape(t *testing.T) {
	s := percentile.Bounds{Low: 0.1, High: 0.8}
	table := template.Generate(s, 23, 0.8, 0.6)
	r, c := table.Dims()
	require.Equal(t, template.NumTemplates, r)
	require.Equal(t, 24, c)
}

func TestGenerate_LabelColumn(t *testing.T) {
	s := percentile.Bounds{Low: 0.1, High: 0.8}
	L := 23
	table := template.Generate(s, L, 0.8, 0.6)
	for row := 0; row < template.NumTemplates; row++ {
		require.Equal(t, float64(row+1), table.At(row, L), "row %d label column", row)
	}
}

func TestGenerate_StepRowsStartHighEndLow(t *testing.T) {
	s := percentile.Bounds{Low: 0.1, High: 0.8}
	L := 23
	table := template.Generate(s, L, 0.8, 0.6)

	// Label 1: dist_amp=1.0, drop at 25%. First sample should sit at
	// the high plateau, last sample at the low plateau.
	require.InDelta(t, s.High, table.At(0, 0), 1e-9)
	require.InDelta(t, s.Low, table.At(0, L-1), 1e-9)
}

func TestGenerate_ConstantRows(t *testing.T) {
	s := percentile.Bounds{Low: 0.1, High: 0.8}
	L := 23
	table := template.Generate(s, L, 0.8, 0.6)

	// Label 37 (row 36): constant low across all L columns.
	for c := 0; c < L; c++ {
		require.InDelta(t, s.Low, table.At(36, c), 1e-9)
	}
	// Label 38 (row 37): constant high.
	for c := 0; c < L; c++ {
		require.InDelta(t, s.High, table.At(37, c), 1e-9)
	}
}

func TestGenerate_RecoveryRowsApproachTarget(t *testing.T) {
	s := percentile.Bounds{Low: 0.1, High: 0.8}
	L := 40
	table := template.Generate(s, L, 0.8, 0.6)

	// Label 10 (row 9): dist_amp=1.0, rec_target=[low,high]; the final
	// sample should be close to the recovery target's upper value.
	last := table.At(9, L-1)
	require.InDelta(t, s.High, last, 0.05)
}

func TestGenerate_RecoveryOnlyRows(t *testing.T) {
	s := percentile.Bounds{Low: 0.1, High: 0.8}
	L := 40
	table := template.Generate(s, L, 0.8, 0.6)

	// Label 41 (row 40): recovery-only toward [low,high], pre-recovery
	// plateau sits at low, converges toward high by the end.
	require.InDelta(t, s.Low, table.At(40, 0), 1e-9)
	require.Greater(t, table.At(40, L-1), table.At(40, 0))
}
