package exporter

import "rn518panel/internal/indicators"

var detailHeaders = []string{"Period", "ANS Registry", "Operator", "Modality", "Size", "Beneficiaries"}

// IndicatorsTable holds the raw indicator values of the filtered rows
func IndicatorsTable(records []indicators.Record) Table {
	catalog := indicators.Catalog()
	headers := append([]string{}, detailHeaders...)
	for _, ind := range catalog {
		headers = append(headers, ind.Name)
	}

	rows := make([][]any, 0, len(records))
	for _, r := range records {
		row := []any{r.PeriodLabel, r.EntityID, r.DisplayName, r.Modality, r.SizeClass, r.Beneficiaries}
		for _, ind := range catalog {
			row = append(row, number(r.Value(ind.Field)))
		}
		rows = append(rows, row)
	}
	return Table{Name: "rn518_indicators", Sheet: "Indicators", Headers: headers, Rows: rows}
}

// ComponentsTable holds the currency components carried by the rows. It
// reports false when no component column is present.
func ComponentsTable(records []indicators.Record) (Table, bool) {
	var present []indicators.Component
	for _, c := range indicators.Components() {
		for _, r := range records {
			if r.Has(c.Field) {
				present = append(present, c)
				break
			}
		}
	}
	if len(present) == 0 {
		return Table{}, false
	}

	headers := append([]string{}, detailHeaders[:5]...)
	for _, c := range present {
		headers = append(headers, c.Name)
	}
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		row := []any{r.PeriodLabel, r.EntityID, r.DisplayName, r.Modality, r.SizeClass}
		for _, c := range present {
			row = append(row, number(r.Value(c.Field)))
		}
		rows = append(rows, row)
	}
	return Table{Name: "rn518_components", Sheet: "Components", Headers: headers, Rows: rows}, true
}

// StatusTable holds the indicator averages and their status labels
func StatusTable(status indicators.StatusTable, totals indicators.ComponentTotals) Table {
	rows := make([][]any, 0, len(status.Rows)+len(totals.Rows))
	for _, s := range status.Rows {
		rows = append(rows, []any{s.Indicator, number(s.Mean), s.MeanText, s.Status})
	}
	for _, c := range totals.Rows {
		rows = append(rows, []any{c.Component, number(c.Total), c.TotalText, ""})
	}
	return Table{
		Name:    "rn518_status",
		Sheet:   "Status",
		Headers: []string{"Indicator", "Mean", "Formatted", "Status"},
		Rows:    rows,
	}
}

// RankingTable holds the ranking at the latest period
func RankingTable(ranking indicators.RankingTable) Table {
	rows := make([][]any, 0, len(ranking.Rows))
	for _, r := range ranking.Rows {
		rows = append(rows, []any{
			r.PeriodLabel,
			rank(r.ProfitabilityRank),
			rank(r.LossRatioRank),
			r.EntityID,
			r.EntityName,
			r.Modality,
			r.SizeClass,
			number(r.LossRatio),
			number(r.ReturnOnEquity),
			number(r.CurrentLiquidity),
		})
	}
	return Table{
		Name:  "rn518_ranking",
		Sheet: "Ranking",
		Headers: []string{
			"Period", "Profitability Rank", "Loss Ratio Rank", "ANS Registry", "Operator",
			"Modality", "Size", "Loss Ratio", "Return on Equity", "Current Liquidity",
		},
		Rows: rows,
	}
}

// ComparisonTable holds an entity against its modality and size segments
func ComparisonTable(c indicators.Comparison) Table {
	rows := make([][]any, 0, len(c.Rows))
	for _, r := range c.Rows {
		rows = append(rows, []any{
			r.Indicator,
			r.EntityText,
			r.ModalityMeanText,
			r.ModalityDeltaText,
			r.SizeMeanText,
			r.SizeDeltaText,
		})
	}
	return Table{
		Name:  "rn518_comparison",
		Sheet: "Comparison",
		Headers: []string{
			"Indicator", "Operator", "Modality Mean", "Difference vs Modality",
			"Size Mean", "Difference vs Size",
		},
		Rows: rows,
	}
}

// FinancialTable holds the financial panel in long format
func FinancialTable(p indicators.FinancialPanel) Table {
	rows := make([][]any, 0, len(p.Rows))
	for _, r := range p.Rows {
		rows = append(rows, []any{
			r.Entity,
			r.PeriodLabel,
			r.Account,
			number(r.Value),
			number(r.Previous),
			number(r.Variation),
		})
	}
	return Table{
		Name:    "rn518_financial",
		Sheet:   "Financial",
		Headers: []string{"Operator", "Period", "Account", "Value", "Previous", "Variation"},
		Rows:    rows,
	}
}
