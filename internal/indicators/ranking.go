package indicators

import (
	"fmt"
	"slices"
)

var rankingColumns = []string{FieldLossRatio, FieldReturnOnEquity, FieldCurrentLiquidity}

// RankedRow is one entity at the latest period. A zero rank means unranked.
type RankedRow struct {
	PeriodLabel          string `json:"period_label"`
	ProfitabilityRank    int    `json:"profitability_rank,omitempty"`
	LossRatioRank        int    `json:"loss_ratio_rank,omitempty"`
	EntityID             string `json:"entity_id"`
	EntityName           string `json:"entity_name"`
	Modality             string `json:"modality"`
	SizeClass            string `json:"size_class"`
	LossRatio            Number `json:"loss_ratio"`
	ReturnOnEquity       Number `json:"return_on_equity"`
	CurrentLiquidity     Number `json:"current_liquidity"`
	LossRatioText        string `json:"loss_ratio_text"`
	ReturnOnEquityText   string `json:"return_on_equity_text"`
	CurrentLiquidityText string `json:"current_liquidity_text"`
}

// RankingTable is the ranking view
type RankingTable struct {
	Outcome
	Period Period      `json:"period"`
	Title  string      `json:"title,omitempty"`
	Rows   []RankedRow `json:"rows"`
}

// MinRank ranks values with the min method: ties share the lowest position and
// the next distinct value skips ahead. Missing values get rank 0.
func MinRank(values []Number, higherIsBetter bool) []int {
	ranks := make([]int, len(values))
	for i, v := range values {
		if !v.Valid {
			continue
		}
		better := 0
		for _, o := range values {
			if !o.Valid {
				continue
			}
			if (higherIsBetter && o.Value > v.Value) || (!higherIsBetter && o.Value < v.Value) {
				better++
			}
		}
		ranks[i] = better + 1
	}
	return ranks
}

// RankLatest ranks entities at the latest period present in records by return on
// equity (highest first) with the loss ratio rank (lowest first) as tie breaker.
// Rows without a rank sort after ranked rows; the original order is kept otherwise.
func RankLatest(records []Record) RankingTable {
	latest, ok := LatestPeriod(records)
	if !ok {
		return RankingTable{Outcome: unavailable(StateNoRows, "No data available to build the ranking.")}
	}
	for _, col := range rankingColumns {
		if !hasColumn(records, col) {
			return RankingTable{Outcome: unavailable(StateRankingUnavailable, "Ranking unavailable for the selected data.")}
		}
	}

	rows := InPeriod(records, latest)
	roe := make([]Number, len(rows))
	loss := make([]Number, len(rows))
	for i, r := range rows {
		roe[i] = r.Value(FieldReturnOnEquity)
		loss[i] = r.Value(FieldLossRatio)
	}
	roeRank := MinRank(roe, true)
	lossRank := MinRank(loss, false)

	label := latest.Label()
	table := make([]RankedRow, len(rows))
	for i, r := range rows {
		liquidity := r.Value(FieldCurrentLiquidity)
		table[i] = RankedRow{
			PeriodLabel:          label,
			ProfitabilityRank:    roeRank[i],
			LossRatioRank:        lossRank[i],
			EntityID:             r.EntityID,
			EntityName:           EntityName(r),
			Modality:             r.Modality,
			SizeClass:            r.SizeClass,
			LossRatio:            loss[i],
			ReturnOnEquity:       roe[i],
			CurrentLiquidity:     liquidity,
			LossRatioText:        FormatMetric(loss[i], KindPercentage),
			ReturnOnEquityText:   FormatMetric(roe[i], KindPercentage),
			CurrentLiquidityText: FormatMetric(liquidity, KindRatio),
		}
	}
	slices.SortStableFunc(table, func(a, b RankedRow) int {
		if c := compareRank(a.ProfitabilityRank, b.ProfitabilityRank); c != 0 {
			return c
		}
		return compareRank(a.LossRatioRank, b.LossRatioRank)
	})

	return RankingTable{
		Outcome: ready(),
		Period:  latest,
		Title:   fmt.Sprintf("Quarterly ranking (Q%d/%d)", latest.Quarter, latest.Year),
		Rows:    table,
	}
}

// compareRank orders ranks ascending with unranked last
func compareRank(a, b int) int {
	switch {
	case a == b:
		return 0
	case a == 0:
		return 1
	case b == 0:
		return -1
	case a < b:
		return -1
	default:
		return 1
	}
}
