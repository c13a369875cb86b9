package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "rn518panel/internal/errors"
	panelmw "rn518panel/internal/middleware"
	"rn518panel/internal/services"
	api "rn518panel/pkg/contracts/api/v1"
)

// PanelHandler serves the panel views as JSON
type PanelHandler struct {
	service      PanelServiceInterface
	validator    *panelmw.QueryValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewPanelHandler creates a new panel handler
func NewPanelHandler(service PanelServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *PanelHandler {
	return &PanelHandler{
		service:      service,
		validator:    panelmw.NewQueryValidator(logger),
		logger:       logger.With(slog.String("component", "panel_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the panel routes
func (h *PanelHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/options", h.GetOptions)
	r.Get("/indicators", h.GetIndicators)
	r.Get("/status", h.GetStatus)
	r.Get("/series", h.GetSeries)
	r.Get("/ranking", h.GetRanking)
	r.Get("/comparison", h.GetComparison)
	r.Get("/financial", h.GetFinancial)
	r.Get("/correlation", h.GetCorrelation)
	r.Get("/dashboard", h.GetDashboard)
	r.Post("/reload", h.Reload)

	return r
}

// GetOptions handles GET /api/v1/options
func (h *PanelHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	flagged, _ := strconv.ParseBool(r.URL.Query().Get("flagged"))
	options, err := h.service.Options(r.Context(), flagged)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, api.NewDataResponse(options))
}

// GetIndicators handles GET /api/v1/indicators
func (h *PanelHandler) GetIndicators(w http.ResponseWriter, r *http.Request) {
	req, ok := h.request(w, r)
	if !ok {
		return
	}
	rows, err := h.service.Indicators(r.Context(), req.Filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, api.NewListResponse(rows, len(rows)))
}

// GetStatus handles GET /api/v1/status
func (h *PanelHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	req, ok := h.request(w, r)
	if !ok {
		return
	}
	status, err := h.service.Status(r.Context(), req.Filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, api.NewDataResponse(status))
}

// GetSeries handles GET /api/v1/series
func (h *PanelHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	req, ok := h.request(w, r)
	if !ok {
		return
	}
	series, err := h.service.Series(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, api.NewDataResponse(series))
}

// GetRanking handles GET /api/v1/ranking
func (h *PanelHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
	req, ok := h.request(w, r)
	if !ok {
		return
	}
	ranking, err := h.service.Ranking(r.Context(), req.Filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, api.NewListResponse(ranking, len(ranking.Rows)))
}

// GetComparison handles GET /api/v1/comparison
func (h *PanelHandler) GetComparison(w http.ResponseWriter, r *http.Request) {
	req, ok := h.request(w, r)
	if !ok {
		return
	}
	comparison, err := h.service.Comparison(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, api.NewDataResponse(comparison))
}

// GetFinancial handles GET /api/v1/financial
func (h *PanelHandler) GetFinancial(w http.ResponseWriter, r *http.Request) {
	req, ok := h.request(w, r)
	if !ok {
		return
	}
	panel, err := h.service.Financial(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, api.NewDataResponse(panel))
}

// GetCorrelation handles GET /api/v1/correlation
func (h *PanelHandler) GetCorrelation(w http.ResponseWriter, r *http.Request) {
	req, ok := h.request(w, r)
	if !ok {
		return
	}
	panel, err := h.service.Correlation(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, api.NewDataResponse(panel))
}

// GetDashboard handles GET /api/v1/dashboard
func (h *PanelHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	req, ok := h.request(w, r)
	if !ok {
		return
	}
	dashboard, err := h.service.Dashboard(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, api.NewDataResponse(dashboard))
}

// Reload handles POST /api/v1/reload
func (h *PanelHandler) Reload(w http.ResponseWriter, r *http.Request) {
	ds, err := h.service.Reload(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "dataset reloaded on request",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Int("records", ds.Len()))

	render.JSON(w, r, api.NewDataResponse(api.ReloadResponse{
		Source:   ds.Source,
		Records:  ds.Len(),
		Flagged:  len(ds.Flagged),
		LoadedAt: ds.LoadedAt,
	}))
}

// request parses the view request, answering 400 on invalid selectors
func (h *PanelHandler) request(w http.ResponseWriter, r *http.Request) (services.ViewRequest, bool) {
	req, err := parseViewRequest(r, h.validator)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return services.ViewRequest{}, false
	}
	return req, true
}

// fail maps service errors to API errors
func (h *PanelHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.errorHandler.HandleError(w, r, mapServiceError(err))
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, services.ErrDatasetNotLoaded):
		return apierrors.ErrDatasetUnavailable
	case errors.Is(err, services.ErrReloadInProgress):
		return apierrors.New(http.StatusConflict, "RELOAD_IN_PROGRESS", "A dataset reload is already running")
	}
	return err
}
