// Package api contains the request and response contracts of the panel HTTP API.
// Version v1 represents the current stable API version.
package api

// PanelQuery holds the query parameters shared by every panel view.
// Filter parameters are repeatable or comma separated; malformed filter tokens
// are dropped rather than rejected. View selectors are validated.
type PanelQuery struct {
	Years      []string `json:"year,omitempty" query:"year"`
	Quarters   []string `json:"quarter,omitempty" query:"quarter"`
	Modalities []string `json:"modality,omitempty" query:"modality"`
	Sizes      []string `json:"size,omitempty" query:"size"`
	Entities   []string `json:"entity,omitempty" query:"entity"`
	Flagged    bool     `json:"flagged,omitempty" query:"flagged"`

	// Focus picks the operator for the comparison and financial views
	Focus  string `json:"focus,omitempty" query:"focus" validate:"omitempty,entity_id"`
	Field  string `json:"field,omitempty" query:"field" validate:"omitempty,indicator"`
	Mode   string `json:"mode,omitempty" query:"mode" validate:"omitempty,oneof=consolidated entity"`
	Period string `json:"period,omitempty" query:"period" validate:"omitempty,period_label"`
}
