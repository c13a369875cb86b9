package indicators

import (
	"encoding/json"
	"maps"
	"math"
	"slices"
	"time"
)

// Kind determines how an indicator is formatted and compared
type Kind string

const (
	// KindPercentage is a fraction displayed as a percentage
	KindPercentage Kind = "pct"
	// KindRatio is a plain ratio
	KindRatio Kind = "ratio"
	// KindDays is a day count
	KindDays Kind = "days"
	// KindCurrency is a raw accounting value in BRL
	KindCurrency Kind = "currency"
)

// Number is a nullable real value. The zero value is missing.
type Number struct {
	Value float64
	Valid bool
}

// Missing is the missing Number
var Missing = Number{}

// Some wraps v. NaN and infinities are stored as missing.
func Some(v float64) Number {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Missing
	}
	return Number{Value: v, Valid: true}
}

// Float returns the value, or NaN when missing
func (n Number) Float() float64 {
	if !n.Valid {
		return math.NaN()
	}
	return n.Value
}

// Sub returns n - o, missing when either operand is missing
func (n Number) Sub(o Number) Number {
	if !n.Valid || !o.Valid {
		return Missing
	}
	return Some(n.Value - o.Value)
}

// MarshalJSON encodes a missing value as null
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// UnmarshalJSON decodes null as missing
func (n *Number) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = Missing
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Some(v)
	return nil
}

// Indicator is a static catalog entry
type Indicator struct {
	Name  string `json:"name"`
	Field string `json:"field"`
	Kind  Kind   `json:"kind"`
}

// Component is a raw currency account reported alongside the indicators
type Component struct {
	Name    string `json:"name"`
	Field   string `json:"field"`
	Tooltip string `json:"tooltip,omitempty"`
}

// Field keys of the indicators the pipeline refers to directly
const (
	FieldLossRatio         = "loss_ratio"
	FieldAdminExpenseRatio = "admin_expense_ratio"
	FieldReturnOnEquity    = "return_on_equity"
	FieldCurrentLiquidity  = "current_liquidity"
)

var catalog = []Indicator{
	{"Loss Ratio", FieldLossRatio, KindPercentage},
	{"Administrative Expenses", FieldAdminExpenseRatio, KindPercentage},
	{"Commercial Expenses", "commercial_expense_ratio", KindPercentage},
	{"Tax Expenses", "tax_expense_ratio", KindPercentage},
	{"Operating Expenses", "operating_expense_ratio", KindPercentage},
	{"Financial Result Index", "financial_result_index", KindPercentage},
	{"Net Financial Margin", "net_financial_margin", KindPercentage},
	{"Operating Margin", "operating_margin", KindPercentage},
	{"Net Profit Margin", "net_profit_margin", KindPercentage},
	{"Current Liquidity", FieldCurrentLiquidity, KindRatio},
	{"Quick Liquidity", "quick_liquidity", KindRatio},
	{"Leverage", "leverage_ratio", KindRatio},
	{"Equity Immobilization", "equity_immobilization", KindRatio},
	{"Return on Equity", FieldReturnOnEquity, KindPercentage},
	{"Technical Reserve Coverage", "technical_reserve_coverage", KindRatio},
	{"Solvency Margin", "solvency_margin", KindRatio},
	{"Average Collection Period", "average_collection_days", KindDays},
	{"Average Claim Payment Period", "average_claim_days", KindDays},
}

var components = []Component{
	{"Consideration Revenue", "consideration_revenue", "Net premiums and consideration earned in the quarter"},
	{"Claim Expenses", "claim_expenses", "Indemnifiable events net of recoveries"},
	{"Administrative Expenses", "administrative_expenses", ""},
	{"Net Result", "net_result", "Net income for the quarter"},
}

// Catalog returns the indicator catalog in display order
func Catalog() []Indicator {
	return slices.Clone(catalog)
}

// Components returns the currency component catalog in display order
func Components() []Component {
	return slices.Clone(components)
}

// Lookup returns the catalog entry for field
func Lookup(field string) (Indicator, bool) {
	for _, ind := range catalog {
		if ind.Field == field {
			return ind, true
		}
	}
	return Indicator{}, false
}

// Cadence is the reporting cadence of an (entity, year) group
type Cadence string

const (
	CadenceQuarterly Cadence = "Quarterly"
	CadenceAnnual    Cadence = "Annual"
)

// Record is one (entity, year, quarter) observation.
// Indicator and component maps are shared between copies and must be treated as
// read-only; use Clone before writing to them.
type Record struct {
	EntityID      string            `json:"entity_id"`
	DisplayName   string            `json:"display_name,omitempty"`
	LegalName     string            `json:"legal_name,omitempty"`
	Modality      string            `json:"modality"`
	SizeClass     string            `json:"size_class"`
	Beneficiaries float64           `json:"beneficiaries"`
	Year          int               `json:"year"`
	Quarter       int               `json:"quarter"`
	Indicators    map[string]Number `json:"indicators"`
	Components    map[string]Number `json:"components,omitempty"`

	// Set by Normalize
	PeriodEnd   time.Time `json:"period_end"`
	PeriodLabel string    `json:"period_label,omitempty"`
	EntityLabel string    `json:"entity_label,omitempty"`

	// Set by SynthesizeQuarters
	Cadence    Cadence `json:"cadence,omitempty"`
	Replicated bool    `json:"replicated"`
}

// Value returns the indicator or component value stored under field
func (r Record) Value(field string) Number {
	if v, ok := r.Indicators[field]; ok {
		return v
	}
	return r.Components[field]
}

// Has reports whether the record carries a column named field
func (r Record) Has(field string) bool {
	if _, ok := r.Indicators[field]; ok {
		return true
	}
	_, ok := r.Components[field]
	return ok
}

// Clone returns a deep copy of the record
func (r Record) Clone() Record {
	r.Indicators = maps.Clone(r.Indicators)
	r.Components = maps.Clone(r.Components)
	return r
}

// EntitySet is a set of entity ids, used for the flagged allow-list
type EntitySet map[string]struct{}

// NewEntitySet builds a set from ids, ignoring blanks
func NewEntitySet(ids ...string) EntitySet {
	set := make(EntitySet, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

// Contains reports whether id is in the set
func (s EntitySet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the ids in ascending order
func (s EntitySet) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// mean averages the valid values of field over records
func mean(records []Record, field string) Number {
	var sum float64
	var n int
	for _, r := range records {
		if v := r.Value(field); v.Valid {
			sum += v.Value
			n++
		}
	}
	if n == 0 {
		return Missing
	}
	return Some(sum / float64(n))
}

// hasColumn reports whether any record carries field
func hasColumn(records []Record, field string) bool {
	for _, r := range records {
		if r.Has(field) {
			return true
		}
	}
	return false
}
