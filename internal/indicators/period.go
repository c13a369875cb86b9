package indicators

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Period identifies a reporting quarter
type Period struct {
	Year    int `json:"year"`
	Quarter int `json:"quarter"`
}

// PeriodOf returns the period of a record
func PeriodOf(r Record) Period {
	return Period{Year: r.Year, Quarter: r.Quarter}
}

// End returns the last instant of the quarter in UTC
func (p Period) End() time.Time {
	start := time.Date(p.Year, time.Month(3*p.Quarter+1), 1, 0, 0, 0, 0, time.UTC)
	return start.Add(-time.Nanosecond)
}

// Label returns the period label, e.g. 2024Q1
func (p Period) Label() string {
	return fmt.Sprintf("%dQ%d", p.Year, p.Quarter)
}

// Compare orders periods chronologically
func (p Period) Compare(o Period) int {
	if c := cmp.Compare(p.Year, o.Year); c != 0 {
		return c
	}
	return cmp.Compare(p.Quarter, o.Quarter)
}

// EntityName returns the first non-blank of display name, legal name and entity id
func EntityName(r Record) string {
	candidates := []string{r.DisplayName, r.LegalName, r.EntityID}
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return ""
}

// EntityLabel returns "{entity_id} • {name}"
func EntityLabel(r Record) string {
	return r.EntityID + " • " + EntityName(r)
}

// Normalize returns copies of records with the period key, period label and
// entity label populated. Order is preserved.
func Normalize(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		p := PeriodOf(r)
		r.PeriodEnd = p.End()
		r.PeriodLabel = p.Label()
		r.EntityLabel = EntityLabel(r)
		out[i] = r
	}
	return out
}

// SortForDisplay orders records by year desc, quarter desc, entity id asc
func SortForDisplay(records []Record) []Record {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b Record) int {
		if c := PeriodOf(b).Compare(PeriodOf(a)); c != 0 {
			return c
		}
		return cmp.Compare(a.EntityID, b.EntityID)
	})
	return out
}

// LatestPeriod returns the maximum period present in records
func LatestPeriod(records []Record) (Period, bool) {
	if len(records) == 0 {
		return Period{}, false
	}
	latest := PeriodOf(records[0])
	for _, r := range records[1:] {
		if p := PeriodOf(r); p.Compare(latest) > 0 {
			latest = p
		}
	}
	return latest, true
}

// InPeriod returns the records belonging to p
func InPeriod(records []Record, p Period) []Record {
	var out []Record
	for _, r := range records {
		if PeriodOf(r) == p {
			out = append(out, r)
		}
	}
	return out
}
