package indicators

import (
	"cmp"
	"slices"
)

type filerKey struct {
	entity string
	year   int
}

type filerGroup struct {
	key      filerKey
	first    Record
	quarters map[int]struct{}
}

// SynthesizeQuarters fills the missing quarters of annual filers.
//
// An (entity, year) group reporting at most one distinct quarter is annual. Each
// annual group gets a clone of its first row for every quarter of the year it does
// not report, with Replicated set. Clones follow the source rows, and the whole
// result is passed through Normalize. A replicated annual value counts four times
// in any later per-period average.
func SynthesizeQuarters(records []Record) []Record {
	if len(records) == 0 {
		return []Record{}
	}

	groups := make(map[filerKey]*filerGroup)
	for _, r := range records {
		k := filerKey{entity: r.EntityID, year: r.Year}
		g, ok := groups[k]
		if !ok {
			g = &filerGroup{key: k, first: r, quarters: make(map[int]struct{})}
			groups[k] = g
		}
		g.quarters[r.Quarter] = struct{}{}
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		r.Replicated = false
		r.Cadence = CadenceQuarterly
		if isAnnual(groups[filerKey{entity: r.EntityID, year: r.Year}]) {
			r.Cadence = CadenceAnnual
		}
		out = append(out, r)
	}

	var annual []*filerGroup
	for _, g := range groups {
		if isAnnual(g) {
			annual = append(annual, g)
		}
	}
	slices.SortFunc(annual, func(a, b *filerGroup) int {
		if c := cmp.Compare(a.key.entity, b.key.entity); c != 0 {
			return c
		}
		return cmp.Compare(a.key.year, b.key.year)
	})

	for _, g := range annual {
		for q := 1; q <= 4; q++ {
			if _, ok := g.quarters[q]; ok {
				continue
			}
			clone := g.first.Clone()
			clone.Quarter = q
			clone.Cadence = CadenceAnnual
			clone.Replicated = true
			out = append(out, clone)
		}
	}
	return Normalize(out)
}

func isAnnual(g *filerGroup) bool {
	return g != nil && len(g.quarters) <= 1
}
