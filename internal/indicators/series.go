package indicators

import (
	"cmp"
	"slices"
	"time"
)

// SeriesMode selects how a time series aggregates entities
type SeriesMode string

const (
	// SeriesConsolidated averages all entities per period
	SeriesConsolidated SeriesMode = "consolidated"
	// SeriesByEntity averages per period and entity label
	SeriesByEntity SeriesMode = "entity"
)

// ParseSeriesMode maps user input to a mode, defaulting to consolidated
func ParseSeriesMode(s string) SeriesMode {
	if SeriesMode(s) == SeriesByEntity {
		return SeriesByEntity
	}
	return SeriesConsolidated
}

// SeriesPoint is one value of a series
type SeriesPoint struct {
	PeriodEnd   time.Time `json:"period_end"`
	PeriodLabel string    `json:"period_label"`
	Series      string    `json:"series"`
	Value       Number    `json:"value"`
	ValueText   string    `json:"value_text"`
}

// Series is the time series view
type Series struct {
	Outcome
	Field     string        `json:"field"`
	Indicator string        `json:"indicator,omitempty"`
	Kind      Kind          `json:"kind,omitempty"`
	Mode      SeriesMode    `json:"mode"`
	Points    []SeriesPoint `json:"points,omitempty"`
}

// ConsolidatedSeries is the series name used for the consolidated mode
const ConsolidatedSeries = "Consolidated"

type seriesKey struct {
	period Period
	series string
}

// BuildSeries averages field per period, or per period and entity label in
// SeriesByEntity mode. Points are ordered by period then series name.
func BuildSeries(records []Record, field string, mode SeriesMode) Series {
	out := Series{Field: field, Mode: mode}
	ind, ok := Lookup(field)
	if !ok {
		out.Outcome = unavailable(StateDataUnavailable, "Unknown indicator for the time series.")
		return out
	}
	out.Indicator = ind.Name
	out.Kind = ind.Kind
	if len(records) == 0 {
		out.Outcome = unavailable(StateNoRows, "Not enough history to build the time series.")
		return out
	}

	buckets := make(map[seriesKey][]Record)
	var keys []seriesKey
	for _, r := range records {
		k := seriesKey{period: PeriodOf(r), series: ConsolidatedSeries}
		if mode == SeriesByEntity {
			k.series = EntityLabel(r)
		}
		if _, seen := buckets[k]; !seen {
			keys = append(keys, k)
		}
		buckets[k] = append(buckets[k], r)
	}
	slices.SortFunc(keys, func(a, b seriesKey) int {
		if c := a.period.Compare(b.period); c != 0 {
			return c
		}
		return cmp.Compare(a.series, b.series)
	})

	out.Points = make([]SeriesPoint, 0, len(keys))
	for _, k := range keys {
		v := mean(buckets[k], field)
		out.Points = append(out.Points, SeriesPoint{
			PeriodEnd:   k.period.End(),
			PeriodLabel: k.period.Label(),
			Series:      k.series,
			Value:       v,
			ValueText:   FormatMetric(v, ind.Kind),
		})
	}
	out.Outcome = ready()
	return out
}
