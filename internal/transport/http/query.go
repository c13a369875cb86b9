package http

import (
	"net/http"
	"net/url"
	"strconv"

	"rn518panel/internal/indicators"
	"rn518panel/internal/middleware"
	"rn518panel/internal/services"
	api "rn518panel/pkg/contracts/api/v1"
)

// decodePanelQuery reads the panel query parameters from values
func decodePanelQuery(values url.Values) api.PanelQuery {
	flagged, _ := strconv.ParseBool(values.Get("flagged"))
	return api.PanelQuery{
		Years:      values["year"],
		Quarters:   values["quarter"],
		Modalities: values["modality"],
		Sizes:      values["size"],
		Entities:   indicators.ParseStrings(values["entity"]),
		Flagged:    flagged,
		Focus:      values.Get("focus"),
		Field:      values.Get("field"),
		Mode:       values.Get("mode"),
		Period:     values.Get("period"),
	}
}

// viewRequest converts a validated query into a service request
func viewRequest(q api.PanelQuery) services.ViewRequest {
	return services.ViewRequest{
		Filter: indicators.FilterSpec{
			Years:             indicators.ParseInts(q.Years),
			Quarters:          indicators.ParseInts(q.Quarters),
			Modalities:        indicators.ParseStrings(q.Modalities),
			SizeClasses:       indicators.ParseStrings(q.Sizes),
			EntityIDs:         q.Entities,
			RestrictToFlagged: q.Flagged,
		},
		Field:  q.Field,
		Mode:   indicators.ParseSeriesMode(q.Mode),
		Entity: q.Focus,
		Period: q.Period,
	}
}

// parseViewRequest decodes and validates the query of r
func parseViewRequest(r *http.Request, v *middleware.QueryValidator) (services.ViewRequest, error) {
	q := decodePanelQuery(r.URL.Query())
	if err := v.ValidateStruct(q); err != nil {
		return services.ViewRequest{}, err
	}
	return viewRequest(q), nil
}
