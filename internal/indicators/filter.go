package indicators

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// FilterSpec is the user's selection. Empty sets mean no constraint.
type FilterSpec struct {
	Years             []int    `json:"years,omitempty"`
	Quarters          []int    `json:"quarters,omitempty"`
	Modalities        []string `json:"modalities,omitempty"`
	SizeClasses       []string `json:"size_classes,omitempty"`
	EntityIDs         []string `json:"entity_ids,omitempty"`
	RestrictToFlagged bool     `json:"restrict_to_flagged,omitempty"`
}

// Active reports whether any key constrains the table
func (s FilterSpec) Active() bool {
	return len(s.Years) > 0 || len(s.Quarters) > 0 || len(s.Modalities) > 0 ||
		len(s.SizeClasses) > 0 || len(s.EntityIDs) > 0 || s.RestrictToFlagged
}

// WithoutEntities returns a copy of the spec with the entity selection cleared
func (s FilterSpec) WithoutEntities() FilterSpec {
	s.EntityIDs = nil
	return s
}

// Key returns a canonical representation usable as a cache key.
// Two specs selecting the same rows in any order share a key.
func (s FilterSpec) Key() string {
	ints := func(v []int) string {
		out := slices.Clone(v)
		slices.Sort(out)
		out = slices.Compact(out)
		parts := make([]string, len(out))
		for i, n := range out {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, ",")
	}
	strs := func(v []string) string {
		out := slices.Clone(v)
		slices.Sort(out)
		return strings.Join(slices.Compact(out), ",")
	}
	return fmt.Sprintf("y=%s|q=%s|m=%s|s=%s|e=%s|f=%t",
		ints(s.Years), ints(s.Quarters), strs(s.Modalities),
		strs(s.SizeClasses), strs(s.EntityIDs), s.RestrictToFlagged)
}

// ParseInts converts tokens to integers, dropping anything malformed.
// Each token may itself be a comma separated list.
func ParseInts(tokens []string) []int {
	var out []int
	for _, tok := range splitTokens(tokens) {
		n, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

// ParseStrings trims tokens and drops blanks.
// Each token may itself be a comma separated list.
func ParseStrings(tokens []string) []string {
	return splitTokens(tokens)
}

func splitTokens(tokens []string) []string {
	var out []string
	for _, tok := range tokens {
		for _, part := range strings.Split(tok, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// FilterEngine applies filter specs against a fixed flagged allow-list
type FilterEngine struct {
	flagged EntitySet
}

// NewFilterEngine creates an engine bound to the flagged allow-list
func NewFilterEngine(flagged EntitySet) *FilterEngine {
	if flagged == nil {
		flagged = EntitySet{}
	}
	return &FilterEngine{flagged: flagged}
}

// Flagged returns the allow-list the engine was built with
func (e *FilterEngine) Flagged() EntitySet {
	return e.flagged
}

// Apply returns the records matching every active key of spec.
// When ignorePeriodFilters is set the years and quarters keys are not applied.
// The input slice is never modified.
func (e *FilterEngine) Apply(records []Record, spec FilterSpec, ignorePeriodFilters bool) []Record {
	if len(records) == 0 || !spec.Active() {
		return slices.Clone(records)
	}
	if ignorePeriodFilters {
		spec.Years = nil
		spec.Quarters = nil
	}

	years := toSet(spec.Years)
	quarters := toSet(spec.Quarters)
	modalities := toSet(spec.Modalities)
	sizes := toSet(spec.SizeClasses)
	entities := toSet(spec.EntityIDs)

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if !member(years, r.Year) || !member(quarters, r.Quarter) ||
			!member(modalities, r.Modality) || !member(sizes, r.SizeClass) ||
			!member(entities, r.EntityID) {
			continue
		}
		if spec.RestrictToFlagged && !e.flagged.Contains(r.EntityID) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func toSet[T comparable](values []T) map[T]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[T]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// member treats an empty set as no constraint
func member[T comparable](set map[T]struct{}, v T) bool {
	if len(set) == 0 {
		return true
	}
	_, ok := set[v]
	return ok
}
