package indicators

import (
	"cmp"
	"slices"
)

// FinancialRow is one (entity, period, account) value in long format
type FinancialRow struct {
	Entity        string `json:"entity"`
	PeriodLabel   string `json:"period_label"`
	Account       string `json:"account"`
	Field         string `json:"field"`
	Value         Number `json:"value"`
	Previous      Number `json:"previous"`
	Variation     Number `json:"variation"`
	ValueText     string `json:"value_text"`
	VariationText string `json:"variation_text"`

	period Period
}

// FinancialPanel is the financial components view
type FinancialPanel struct {
	Outcome
	Entity string         `json:"entity"`
	Rows   []FinancialRow `json:"rows,omitempty"`
}

// BuildFinancialPanel lays out the currency components of records.
// With a blank entityID the components are summed per period across entities,
// otherwise only the rows of entityID are used. Each row carries the previous
// period's value of the same account and the relative variation, which is missing
// when the previous value is missing or zero.
func BuildFinancialPanel(records []Record, entityID string) FinancialPanel {
	if len(records) == 0 {
		return FinancialPanel{Outcome: unavailable(StateNoRows, "No data available for the selected filters.")}
	}
	var available []Component
	for _, c := range components {
		if hasColumn(records, c.Field) {
			available = append(available, c)
		}
	}
	if len(available) == 0 {
		return FinancialPanel{Outcome: unavailable(StateComponentsUnavailable, "Financial components are not available in the current dataset.")}
	}

	type point struct {
		period Period
		record Record
	}
	var points []point
	entity := ConsolidatedSeries
	if entityID == "" {
		sums := make(map[Period]map[string]Number)
		var periods []Period
		for _, r := range records {
			p := PeriodOf(r)
			acc, ok := sums[p]
			if !ok {
				acc = make(map[string]Number, len(available))
				sums[p] = acc
				periods = append(periods, p)
			}
			for _, c := range available {
				prev := acc[c.Field]
				cur := r.Value(c.Field)
				if cur.Valid {
					acc[c.Field] = Some(prev.Value + cur.Value)
				} else if !prev.Valid {
					acc[c.Field] = Some(0)
				}
			}
		}
		for _, p := range periods {
			points = append(points, point{period: p, record: Record{Components: sums[p]}})
		}
	} else {
		for _, r := range records {
			if r.EntityID != entityID {
				continue
			}
			if len(points) == 0 {
				entity = r.EntityID + " • " + EntityName(r)
			}
			points = append(points, point{period: PeriodOf(r), record: r})
		}
		if len(points) == 0 {
			return FinancialPanel{
				Outcome: unavailable(StateEntityWithoutData, "The selected operator has no data for the chosen filters."),
				Entity:  entityID,
			}
		}
	}

	rows := make([]FinancialRow, 0, len(points)*len(available))
	for _, c := range available {
		for _, pt := range points {
			rows = append(rows, FinancialRow{
				Entity:      entity,
				PeriodLabel: pt.period.Label(),
				Account:     c.Name,
				Field:       c.Field,
				Value:       pt.record.Value(c.Field),
				period:      pt.period,
			})
		}
	}
	slices.SortStableFunc(rows, func(a, b FinancialRow) int {
		if c := cmp.Compare(a.Account, b.Account); c != 0 {
			return c
		}
		return a.period.Compare(b.period)
	})

	for i := range rows {
		if i > 0 && rows[i-1].Account == rows[i].Account {
			rows[i].Previous = rows[i-1].Value
		}
		rows[i].Variation = variation(rows[i].Value, rows[i].Previous)
		rows[i].ValueText = FormatCurrency(rows[i].Value)
		rows[i].VariationText = FormatVariation(rows[i].Variation)
	}
	return FinancialPanel{Outcome: ready(), Entity: entity, Rows: rows}
}

func variation(cur, prev Number) Number {
	if !cur.Valid || !prev.Valid || prev.Value == 0 {
		return Missing
	}
	return Some((cur.Value - prev.Value) / prev.Value)
}
