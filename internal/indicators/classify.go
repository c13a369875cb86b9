package indicators

import "slices"

// StatusNoData is the label for a missing value
const StatusNoData = "No data"

// Direction tells whether a ladder rewards low or high values
type Direction int

const (
	// LowerIsBetter ladders match when value <= bound
	LowerIsBetter Direction = iota
	// HigherIsBetter ladders match when value >= bound
	HigherIsBetter
)

// Rung is one threshold of a ladder
type Rung struct {
	Bound float64
	Label string
}

// Ladder is an ordered list of thresholds with a fallback label
type Ladder struct {
	Direction Direction
	Rungs     []Rung
	Otherwise string
}

// Classify returns the label of the first rung v satisfies
func (l Ladder) Classify(v float64) string {
	for _, rung := range l.Rungs {
		switch l.Direction {
		case LowerIsBetter:
			if v <= rung.Bound {
				return rung.Label
			}
		case HigherIsBetter:
			if v >= rung.Bound {
				return rung.Label
			}
		}
	}
	return l.Otherwise
}

func lower(otherwise string, rungs ...Rung) Ladder {
	return Ladder{Direction: LowerIsBetter, Rungs: rungs, Otherwise: otherwise}
}

func higher(otherwise string, rungs ...Rung) Ladder {
	return Ladder{Direction: HigherIsBetter, Rungs: rungs, Otherwise: otherwise}
}

var (
	liquidityLadder = higher("At-risk", Rung{1.2, "Solid"}, Rung{1.0, "Comfortable"}, Rung{0.8, "Alert"})
	marginLadder    = higher("Loss", Rung{0.05, "Healthy"}, Rung{0, "Break-even"})
	daysLadder      = lower("Long", Rung{60, "Short"}, Rung{90, "Medium"})
)

var ladders = map[string]Ladder{
	FieldLossRatio:               lower("Critical", Rung{0.75, "Excellent"}, Rung{0.85, "Adequate"}),
	FieldAdminExpenseRatio:       lower("Pressured", Rung{0.10, "Lean"}, Rung{0.15, "Controlled"}),
	"commercial_expense_ratio":   lower("Elevated", Rung{0.07, "Competitive"}, Rung{0.12, "Attention"}),
	"tax_expense_ratio":          lower("Pressured", Rung{0.03, "Controlled"}, Rung{0.05, "Attention"}),
	"operating_expense_ratio":    lower("Unfavorable", Rung{0.90, "Controlled"}, Rung{1.00, "Limit"}),
	"financial_result_index":     higher("Negative", Rung{0.02, "Positive"}, Rung{0, "Neutral"}),
	FieldCurrentLiquidity:        liquidityLadder,
	"quick_liquidity":            liquidityLadder,
	"leverage_ratio":             lower("High", Rung{1.0, "Low"}, Rung{2.0, "Moderate"}),
	"equity_immobilization":      lower("High", Rung{0.6, "Adequate"}, Rung{0.8, "Attention"}),
	FieldReturnOnEquity:          higher("Negative", Rung{0.08, "Excellent"}, Rung{0.04, "Adequate"}, Rung{0, "Attention"}),
	"net_financial_margin":       marginLadder,
	"operating_margin":           marginLadder,
	"net_profit_margin":          marginLadder,
	"technical_reserve_coverage": higher("Uncovered", Rung{1.0, "Covered"}, Rung{0.9, "Attention"}),
	"solvency_margin":            higher("Insufficient", Rung{1.0, "Meets"}, Rung{0.8, "Attention"}),
	"average_collection_days":    daysLadder,
	"average_claim_days":         daysLadder,
}

// Classify maps an indicator value to its status label.
// Missing values yield StatusNoData; fields without a ladder yield "".
func Classify(field string, v Number) string {
	if !v.Valid {
		return StatusNoData
	}
	ladder, ok := ladders[field]
	if !ok {
		return ""
	}
	return ladder.Classify(v.Value)
}

// LadderFor returns a copy of the ladder used for field
func LadderFor(field string) (Ladder, bool) {
	l, ok := ladders[field]
	if !ok {
		return Ladder{}, false
	}
	l.Rungs = slices.Clone(l.Rungs)
	return l, true
}
