package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSynthesizeQuartersAnnualFiler tests that an annual filer gains three cloned quarters
func TestSynthesizeQuartersAnnualFiler(t *testing.T) {
	annual := record("A2", 2024, 2, map[string]float64{FieldLossRatio: 0.5})
	out := SynthesizeQuarters([]Record{annual})
	require.Len(t, out, 4)

	quarters := map[int]bool{}
	replicated := 0
	for _, r := range out {
		quarters[r.Quarter] = true
		assert.Equal(t, CadenceAnnual, r.Cadence)
		assert.Equal(t, Some(0.5), r.Value(FieldLossRatio))
		assert.NotEmpty(t, r.PeriodLabel)
		if r.Replicated {
			replicated++
		}
	}
	assert.Len(t, quarters, 4)
	assert.Equal(t, 3, replicated)
	assert.False(t, out[0].Replicated)
	assert.Equal(t, 2, out[0].Quarter)
	assert.Equal(t, []int{1, 3, 4}, []int{out[1].Quarter, out[2].Quarter, out[3].Quarter})
}

// TestSynthesizeQuartersQuarterlyFiler tests that quarterly filers are only tagged
func TestSynthesizeQuartersQuarterlyFiler(t *testing.T) {
	in := []Record{
		record("Q", 2024, 1, map[string]float64{FieldLossRatio: 0.7}),
		record("Q", 2024, 3, map[string]float64{FieldLossRatio: 0.8}),
	}
	out := SynthesizeQuarters(in)
	require.Len(t, out, 2)
	for i, r := range out {
		assert.Equal(t, CadenceQuarterly, r.Cadence)
		assert.False(t, r.Replicated)
		assert.Equal(t, in[i].Quarter, r.Quarter)
		assert.Equal(t, in[i].Value(FieldLossRatio), r.Value(FieldLossRatio))
	}
}

// TestSynthesizeQuartersClonesAreIndependent tests that clones can be edited safely
func TestSynthesizeQuartersClonesAreIndependent(t *testing.T) {
	annual := record("A2", 2024, 4, map[string]float64{FieldLossRatio: 0.5})
	out := SynthesizeQuarters([]Record{annual})
	require.Len(t, out, 4)
	out[1].Indicators[FieldLossRatio] = Some(0.1)
	assert.Equal(t, Some(0.5), annual.Value(FieldLossRatio))
	assert.Equal(t, Some(0.5), out[2].Value(FieldLossRatio))
}

// TestSynthesizeQuartersMixed tests group detection per entity and year
func TestSynthesizeQuartersMixed(t *testing.T) {
	in := []Record{
		record("B", 2023, 4, nil),
		record("A", 2024, 1, nil),
		record("A", 2024, 2, nil),
		record("B", 2024, 4, nil),
	}
	out := SynthesizeQuarters(in)
	require.Len(t, out, 10)
	assert.Equal(t, []string{"B", "A", "A", "B"}, ids(out[:4]))
	for _, r := range out[4:] {
		assert.Equal(t, "B", r.EntityID)
		assert.True(t, r.Replicated)
	}
	assert.Equal(t, 2023, out[4].Year)
	assert.Equal(t, 2024, out[9].Year)
	assert.Empty(t, SynthesizeQuarters(nil))
}

// TestReplicationWeighting documents that a replicated annual value weighs four
// times in per-period averages across the year.
func TestReplicationWeighting(t *testing.T) {
	in := []Record{
		record("Q", 2024, 1, map[string]float64{FieldLossRatio: 0.9}),
		record("Q", 2024, 2, map[string]float64{FieldLossRatio: 0.9}),
		record("A", 2024, 4, map[string]float64{FieldLossRatio: 0.5}),
	}
	out := SynthesizeQuarters(in)
	require.Len(t, out, 6)
	assert.InDelta(t, (2*0.9+4*0.5)/6, mean(out, FieldLossRatio).Value, 1e-12)
}
