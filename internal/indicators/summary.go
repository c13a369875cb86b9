package indicators

// IndicatorStatus is the average of one indicator over a row set with its label
type IndicatorStatus struct {
	Indicator string `json:"indicator"`
	Field     string `json:"field"`
	Kind      Kind   `json:"kind"`
	Mean      Number `json:"mean"`
	MeanText  string `json:"mean_text"`
	Status    string `json:"status"`
}

// StatusTable is the indicator status view
type StatusTable struct {
	Outcome
	Rows []IndicatorStatus `json:"rows,omitempty"`
}

// Summarize averages every catalog indicator over records and classifies the mean
func Summarize(records []Record) StatusTable {
	if len(records) == 0 {
		return StatusTable{Outcome: unavailable(StateNoRows, "Indicators unavailable for the selected filters.")}
	}
	rows := make([]IndicatorStatus, 0, len(catalog))
	for _, ind := range catalog {
		m := mean(records, ind.Field)
		rows = append(rows, IndicatorStatus{
			Indicator: ind.Name,
			Field:     ind.Field,
			Kind:      ind.Kind,
			Mean:      m,
			MeanText:  FormatMetric(m, ind.Kind),
			Status:    Classify(ind.Field, m),
		})
	}
	return StatusTable{Outcome: ready(), Rows: rows}
}

// ComponentTotal is the sum of one currency component
type ComponentTotal struct {
	Component string `json:"component"`
	Field     string `json:"field"`
	Tooltip   string `json:"tooltip,omitempty"`
	Total     Number `json:"total"`
	TotalText string `json:"total_text"`
}

// ComponentTotals is the component summary view
type ComponentTotals struct {
	Outcome
	Rows []ComponentTotal `json:"rows,omitempty"`
}

// SumComponents totals the currency components present in records.
// Missing values count as zero; a component column nobody carries is skipped.
func SumComponents(records []Record) ComponentTotals {
	if len(records) == 0 {
		return ComponentTotals{Outcome: unavailable(StateNoRows, "No data available for the selected filters.")}
	}
	var rows []ComponentTotal
	for _, c := range components {
		if !hasColumn(records, c.Field) {
			continue
		}
		total := sum(records, c.Field)
		rows = append(rows, ComponentTotal{
			Component: c.Name,
			Field:     c.Field,
			Tooltip:   c.Tooltip,
			Total:     total,
			TotalText: FormatCurrency(total),
		})
	}
	if len(rows) == 0 {
		return ComponentTotals{Outcome: unavailable(StateComponentsUnavailable, "Financial components are not available in the current dataset.")}
	}
	return ComponentTotals{Outcome: ready(), Rows: rows}
}

func sum(records []Record, field string) Number {
	var total float64
	for _, r := range records {
		if v := r.Value(field); v.Valid {
			total += v.Value
		}
	}
	return Some(total)
}
