package indicators

import (
	"cmp"
	"maps"
	"slices"
	"strings"
)

// EntityOption is one selectable entity
type EntityOption struct {
	EntityID  string `json:"entity_id"`
	Name      string `json:"name"`
	Modality  string `json:"modality"`
	SizeClass string `json:"size_class"`
	Flagged   bool   `json:"flagged"`
	Label     string `json:"label"`
}

// Options lists the values available to each filter
type Options struct {
	Years       []int          `json:"years"`
	Quarters    []int          `json:"quarters"`
	Modalities  []string       `json:"modalities"`
	SizeClasses []string       `json:"size_classes"`
	Entities    []EntityOption `json:"entities"`
	FlaggedIDs  []string       `json:"flagged_ids"`
}

// BuildOptions derives the filter options from the full table.
// When restrictToFlagged is set the modality and size lists only consider
// flagged entities.
func BuildOptions(records []Record, flagged EntitySet, restrictToFlagged bool) Options {
	years := make(map[int]struct{})
	quarters := make(map[int]struct{})
	modalities := make(map[string]struct{})
	sizes := make(map[string]struct{})
	seen := make(map[string]struct{})
	var entities []EntityOption

	for _, r := range records {
		years[r.Year] = struct{}{}
		quarters[r.Quarter] = struct{}{}
		if !restrictToFlagged || flagged.Contains(r.EntityID) {
			if m := strings.TrimSpace(r.Modality); m != "" {
				modalities[m] = struct{}{}
			}
			if s := strings.TrimSpace(r.SizeClass); s != "" {
				sizes[s] = struct{}{}
			}
		}
		if _, ok := seen[r.EntityID]; ok {
			continue
		}
		seen[r.EntityID] = struct{}{}
		entities = append(entities, EntityOption{
			EntityID:  r.EntityID,
			Name:      r.DisplayName,
			Modality:  r.Modality,
			SizeClass: r.SizeClass,
			Flagged:   flagged.Contains(r.EntityID),
		})
	}

	slices.SortStableFunc(entities, func(a, b EntityOption) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.EntityID, b.EntityID)
	})
	for i := range entities {
		if strings.TrimSpace(entities[i].Name) == "" {
			entities[i].Name = entities[i].EntityID
		}
		entities[i].Label = optionLabel(entities[i])
	}

	yearList := slices.Sorted(maps.Keys(years))
	slices.Reverse(yearList)

	return Options{
		Years:       yearList,
		Quarters:    slices.Sorted(maps.Keys(quarters)),
		Modalities:  slices.Sorted(maps.Keys(modalities)),
		SizeClasses: slices.Sorted(maps.Keys(sizes)),
		Entities:    entities,
		FlaggedIDs:  flagged.Sorted(),
	}
}

func optionLabel(o EntityOption) string {
	var b strings.Builder
	b.WriteString(o.EntityID)
	b.WriteString(" • ")
	b.WriteString(o.Name)
	if o.Flagged {
		b.WriteString(" [Flagged]")
	}
	if m := strings.TrimSpace(o.Modality); m != "" {
		b.WriteString(" – ")
		b.WriteString(m)
	}
	if s := strings.TrimSpace(o.SizeClass); s != "" {
		b.WriteString(" / ")
		b.WriteString(s)
	}
	return b.String()
}
