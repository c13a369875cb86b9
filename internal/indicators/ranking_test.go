package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMinRank tests min-method ties and missing values
func TestMinRank(t *testing.T) {
	tests := []struct {
		name   string
		values []Number
		higher bool
		want   []int
	}{
		{"descending ties", []Number{Some(0.10), Some(0.10), Some(0.05)}, true, []int{1, 1, 3}},
		{"ascending ties", []Number{Some(0.10), Some(0.10), Some(0.05)}, false, []int{2, 2, 1}},
		{"missing unranked", []Number{Some(0.2), Missing, Some(0.3)}, true, []int{2, 0, 1}},
		{"empty", nil, true, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MinRank(tt.values, tt.higher))
		})
	}
}

func rankingRow(id string, quarter int, loss, roe float64) Record {
	return record(id, 2024, quarter, map[string]float64{
		FieldLossRatio:        loss,
		FieldReturnOnEquity:   roe,
		FieldCurrentLiquidity: 1.1,
	})
}

// TestRankLatest tests ordering at the latest period
func TestRankLatest(t *testing.T) {
	missingROE := rankingRow("E", 4, 0.5, 0)
	missingROE.Indicators[FieldReturnOnEquity] = Missing

	table := []Record{
		rankingRow("OLD", 3, 0.1, 0.5),
		missingROE,
		rankingRow("A", 4, 0.80, 0.10),
		rankingRow("B", 4, 0.70, 0.10),
		rankingRow("C", 4, 0.60, 0.05),
		rankingRow("D", 4, 0.70, 0.10),
	}
	got := RankLatest(table)
	require.True(t, got.Ready())
	assert.Equal(t, Period{2024, 4}, got.Period)
	assert.Equal(t, "Quarterly ranking (Q4/2024)", got.Title)

	require.Len(t, got.Rows, 5)
	assert.Equal(t, []string{"B", "D", "A", "C", "E"}, []string{
		got.Rows[0].EntityID, got.Rows[1].EntityID, got.Rows[2].EntityID,
		got.Rows[3].EntityID, got.Rows[4].EntityID,
	})
	assert.Equal(t, 1, got.Rows[0].ProfitabilityRank)
	assert.Equal(t, 3, got.Rows[0].LossRatioRank)
	assert.Equal(t, 1, got.Rows[2].ProfitabilityRank)
	assert.Equal(t, 5, got.Rows[2].LossRatioRank)
	assert.Equal(t, 4, got.Rows[3].ProfitabilityRank)
	assert.Equal(t, 0, got.Rows[4].ProfitabilityRank)
	assert.Equal(t, "2024Q4", got.Rows[0].PeriodLabel)
	assert.Equal(t, "70.00%", got.Rows[0].LossRatioText)
	assert.Equal(t, "1.10", got.Rows[0].CurrentLiquidityText)
	assert.Equal(t, "Operator B", got.Rows[0].EntityName)
}

// TestRankLatestUnavailable tests the empty and missing-column states
func TestRankLatestUnavailable(t *testing.T) {
	assert.Equal(t, StateNoRows, RankLatest(nil).State)

	table := []Record{record("A", 2024, 1, map[string]float64{FieldLossRatio: 0.5})}
	got := RankLatest(table)
	assert.Equal(t, StateRankingUnavailable, got.State)
	assert.Empty(t, got.Rows)
}
