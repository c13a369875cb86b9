package indicators

import (
	"slices"
	"strings"
)

// ComparisonRow compares one indicator of an entity with its peer segments
type ComparisonRow struct {
	Indicator         string `json:"indicator"`
	Field             string `json:"field"`
	Kind              Kind   `json:"kind"`
	Entity            Number `json:"entity"`
	ModalityMean      Number `json:"modality_mean"`
	ModalityDelta     Number `json:"modality_delta"`
	SizeMean          Number `json:"size_mean"`
	SizeDelta         Number `json:"size_delta"`
	EntityText        string `json:"entity_text"`
	ModalityMeanText  string `json:"modality_mean_text"`
	ModalityDeltaText string `json:"modality_delta_text"`
	SizeMeanText      string `json:"size_mean_text"`
	SizeDeltaText     string `json:"size_delta_text"`
}

// Comparison is the segment comparison view
type Comparison struct {
	Outcome
	EntityID    string          `json:"entity_id,omitempty"`
	EntityLabel string          `json:"entity_label,omitempty"`
	Modality    string          `json:"modality,omitempty"`
	SizeClass   string          `json:"size_class,omitempty"`
	Choices     []string        `json:"choices,omitempty"`
	Rows        []ComparisonRow `json:"rows,omitempty"`
}

// Compare builds one row per catalog indicator with the entity mean, the mean of
// segment rows sharing its modality and the mean of segment rows sharing its size
// class, plus the signed deltas entity minus segment. A blank segment key or a
// segment without values leaves that mean and delta missing.
func Compare(entityRows, segmentRows []Record, modality, sizeClass string) Comparison {
	modality = strings.TrimSpace(modality)
	sizeClass = strings.TrimSpace(sizeClass)

	var modalityRows, sizeRows []Record
	for _, r := range segmentRows {
		if modality != "" && r.Modality == modality {
			modalityRows = append(modalityRows, r)
		}
		if sizeClass != "" && r.SizeClass == sizeClass {
			sizeRows = append(sizeRows, r)
		}
	}

	rows := make([]ComparisonRow, 0, len(catalog))
	for _, ind := range catalog {
		entity := mean(entityRows, ind.Field)
		row := ComparisonRow{
			Indicator:    ind.Name,
			Field:        ind.Field,
			Kind:         ind.Kind,
			Entity:       entity,
			ModalityMean: mean(modalityRows, ind.Field),
			SizeMean:     mean(sizeRows, ind.Field),
		}
		row.ModalityDelta = entity.Sub(row.ModalityMean)
		row.SizeDelta = entity.Sub(row.SizeMean)
		row.EntityText = FormatMetric(row.Entity, ind.Kind)
		row.ModalityMeanText = FormatMetric(row.ModalityMean, ind.Kind)
		row.ModalityDeltaText = FormatDifference(row.ModalityDelta, ind.Kind)
		row.SizeMeanText = FormatMetric(row.SizeMean, ind.Kind)
		row.SizeDeltaText = FormatDifference(row.SizeDelta, ind.Kind)
		rows = append(rows, row)
	}

	return Comparison{
		Outcome:   ready(),
		Modality:  modality,
		SizeClass: sizeClass,
		Rows:      rows,
	}
}

// CompareSelection resolves which entity to compare and builds the comparison.
// filtered is the user's filtered table, segment the same filter without the entity
// selection. Only selected entities with rows in filtered are choices; chosen picks
// one of them and the first choice is used when chosen is blank or not a choice.
func CompareSelection(filtered, segment []Record, selected []string, chosen string) Comparison {
	if len(filtered) == 0 {
		return Comparison{Outcome: unavailable(StateNoRows, "No data available to compare for the current filters.")}
	}
	if len(selected) == 0 {
		return Comparison{Outcome: unavailable(StateNoEntitySelected, "Select an operator in the filters to compare it with its segments.")}
	}

	available := make(map[string]struct{}, len(filtered))
	for _, r := range filtered {
		available[r.EntityID] = struct{}{}
	}
	var choices []string
	for _, id := range selected {
		if _, ok := available[id]; ok && !slices.Contains(choices, id) {
			choices = append(choices, id)
		}
	}
	if len(choices) == 0 {
		return Comparison{
			Outcome:  unavailable(StateEntityWithoutData, "The selected operator has no data for the chosen filters."),
			EntityID: selected[0],
		}
	}

	target := choices[0]
	if slices.Contains(choices, chosen) {
		target = chosen
	}

	var entityRows []Record
	for _, r := range filtered {
		if r.EntityID == target {
			entityRows = append(entityRows, r)
		}
	}

	cmp := Compare(entityRows, segment, firstNonBlank(entityRows, modalityOf), firstNonBlank(entityRows, sizeOf))
	cmp.EntityID = target
	cmp.EntityLabel = EntityLabel(entityRows[0])
	cmp.Choices = choices
	return cmp
}

func modalityOf(r Record) string { return r.Modality }

func sizeOf(r Record) string { return r.SizeClass }

func firstNonBlank(records []Record, get func(Record) string) string {
	for _, r := range records {
		if v := strings.TrimSpace(get(r)); v != "" {
			return v
		}
	}
	return ""
}
