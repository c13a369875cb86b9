package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClassify tests every ladder at and around its thresholds
func TestClassify(t *testing.T) {
	tests := []struct {
		field string
		value float64
		want  string
	}{
		{FieldLossRatio, 0.75, "Excellent"},
		{FieldLossRatio, 0.750001, "Adequate"},
		{FieldLossRatio, 0.85, "Adequate"},
		{FieldLossRatio, 0.86, "Critical"},
		{FieldAdminExpenseRatio, 0.10, "Lean"},
		{FieldAdminExpenseRatio, 0.12, "Controlled"},
		{FieldAdminExpenseRatio, 0.2, "Pressured"},
		{"commercial_expense_ratio", 0.07, "Competitive"},
		{"commercial_expense_ratio", 0.1, "Attention"},
		{"commercial_expense_ratio", 0.13, "Elevated"},
		{"tax_expense_ratio", 0.03, "Controlled"},
		{"tax_expense_ratio", 0.04, "Attention"},
		{"tax_expense_ratio", 0.06, "Pressured"},
		{"operating_expense_ratio", 0.9, "Controlled"},
		{"operating_expense_ratio", 1.0, "Limit"},
		{"operating_expense_ratio", 1.01, "Unfavorable"},
		{"financial_result_index", 0.02, "Positive"},
		{"financial_result_index", 0, "Neutral"},
		{"financial_result_index", -0.01, "Negative"},
		{FieldCurrentLiquidity, 1.2, "Solid"},
		{FieldCurrentLiquidity, 1.0, "Comfortable"},
		{FieldCurrentLiquidity, 0.8, "Alert"},
		{FieldCurrentLiquidity, 0.79, "At-risk"},
		{"quick_liquidity", 1.1, "Comfortable"},
		{"leverage_ratio", 1.0, "Low"},
		{"leverage_ratio", 2.0, "Moderate"},
		{"leverage_ratio", 2.5, "High"},
		{"equity_immobilization", 0.6, "Adequate"},
		{"equity_immobilization", 0.7, "Attention"},
		{"equity_immobilization", 0.9, "High"},
		{FieldReturnOnEquity, 0.08, "Excellent"},
		{FieldReturnOnEquity, 0.04, "Adequate"},
		{FieldReturnOnEquity, 0, "Attention"},
		{FieldReturnOnEquity, -0.02, "Negative"},
		{"net_financial_margin", 0.05, "Healthy"},
		{"operating_margin", 0, "Break-even"},
		{"net_profit_margin", -0.1, "Loss"},
		{"technical_reserve_coverage", 1.0, "Covered"},
		{"technical_reserve_coverage", 0.9, "Attention"},
		{"technical_reserve_coverage", 0.89, "Uncovered"},
		{"solvency_margin", 1.0, "Meets"},
		{"solvency_margin", 0.8, "Attention"},
		{"solvency_margin", 0.5, "Insufficient"},
		{"average_collection_days", 60, "Short"},
		{"average_claim_days", 90, "Medium"},
		{"average_claim_days", 91, "Long"},
	}
	for _, tt := range tests {
		t.Run(tt.field+"/"+tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.field, Some(tt.value)))
		})
	}
}

// TestClassifyMissing tests missing values and unknown fields
func TestClassifyMissing(t *testing.T) {
	assert.Equal(t, StatusNoData, Classify(FieldLossRatio, Missing))
	assert.Equal(t, StatusNoData, Classify(FieldLossRatio, Some(math.NaN())))
	assert.Equal(t, "", Classify("unknown_field", Some(1)))
	assert.Equal(t, StatusNoData, Classify("unknown_field", Missing))
}

// TestLadderForReturnsCopy tests that edits to a returned ladder leave the catalog intact
func TestLadderForReturnsCopy(t *testing.T) {
	l, ok := LadderFor(FieldLossRatio)
	require.True(t, ok)
	require.NotEmpty(t, l.Rungs)

	l.Rungs[0] = Rung{Bound: 10, Label: "tampered"}
	assert.Equal(t, "Critical", Classify(FieldLossRatio, Some(0.9)))
	assert.Equal(t, "Excellent", Classify(FieldLossRatio, Some(0.7)))

	again, _ := LadderFor(FieldLossRatio)
	assert.Equal(t, Rung{Bound: 0.75, Label: "Excellent"}, again.Rungs[0])

	_, ok = LadderFor("unknown")
	assert.False(t, ok)
}
