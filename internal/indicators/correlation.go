package indicators

import (
	"math"
	"slices"
)

// CorrelationPoint is one entity in the expense versus profitability scatter
type CorrelationPoint struct {
	EntityID              string  `json:"entity_id"`
	EntityLabel           string  `json:"entity_label"`
	Modality              string  `json:"modality"`
	AdminExpenseRatio     Number  `json:"admin_expense_ratio"`
	ReturnOnEquity        Number  `json:"return_on_equity"`
	Beneficiaries         float64 `json:"beneficiaries"`
	AdminExpenseRatioText string  `json:"admin_expense_ratio_text"`
	ReturnOnEquityText    string  `json:"return_on_equity_text"`
	BeneficiariesText     string  `json:"beneficiaries_text"`
}

// CorrelationPanel is the administrative expense versus ROE view
type CorrelationPanel struct {
	Outcome
	Periods     []string           `json:"periods,omitempty"`
	Period      string             `json:"period,omitempty"`
	Points      []CorrelationPoint `json:"points,omitempty"`
	Coefficient Number             `json:"coefficient"`
}

// BuildCorrelation collects the admin expense ratio and ROE of every row of the
// chosen period. An unknown or blank periodLabel selects the latest period.
func BuildCorrelation(records []Record, periodLabel string) CorrelationPanel {
	if len(records) == 0 {
		return CorrelationPanel{Outcome: unavailable(StateNoRows, "No data available for the correlation analysis.")}
	}
	if !hasColumn(records, FieldAdminExpenseRatio) || !hasColumn(records, FieldReturnOnEquity) {
		return CorrelationPanel{Outcome: unavailable(StateDataUnavailable, "Indicators required for the correlation are missing.")}
	}

	seen := make(map[Period]struct{})
	var periods []Period
	for _, r := range records {
		p := PeriodOf(r)
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			periods = append(periods, p)
		}
	}
	slices.SortFunc(periods, func(a, b Period) int { return b.Compare(a) })

	labels := make([]string, len(periods))
	chosen := periods[0]
	for i, p := range periods {
		labels[i] = p.Label()
		if labels[i] == periodLabel {
			chosen = p
		}
	}

	var xs, ys []float64
	rows := InPeriod(records, chosen)
	points := make([]CorrelationPoint, 0, len(rows))
	for _, r := range rows {
		da := r.Value(FieldAdminExpenseRatio)
		roe := r.Value(FieldReturnOnEquity)
		if da.Valid && roe.Valid {
			xs = append(xs, da.Value)
			ys = append(ys, roe.Value)
		}
		points = append(points, CorrelationPoint{
			EntityID:              r.EntityID,
			EntityLabel:           EntityLabel(r),
			Modality:              r.Modality,
			AdminExpenseRatio:     da,
			ReturnOnEquity:        roe,
			Beneficiaries:         r.Beneficiaries,
			AdminExpenseRatioText: FormatMetric(da, KindPercentage),
			ReturnOnEquityText:    FormatMetric(roe, KindPercentage),
			BeneficiariesText:     FormatCount(r.Beneficiaries),
		})
	}

	return CorrelationPanel{
		Outcome:     ready(),
		Periods:     labels,
		Period:      chosen.Label(),
		Points:      points,
		Coefficient: Pearson(xs, ys),
	}
}

// Pearson returns the correlation coefficient of paired samples.
// Fewer than two pairs or a constant sample yields missing.
func Pearson(xs, ys []float64) Number {
	n := min(len(xs), len(ys))
	if n < 2 {
		return Missing
	}
	var sx, sy float64
	for i := 0; i < n; i++ {
		sx += xs[i]
		sy += ys[i]
	}
	mx, my := sx/float64(n), sy/float64(n)
	var cov, vx, vy float64
	for i := 0; i < n; i++ {
		dx, dy := xs[i]-mx, ys[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return Missing
	}
	return Some(cov / math.Sqrt(vx*vy))
}
