package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apierrors "rn518panel/internal/errors"
	"rn518panel/internal/exporter"
	"rn518panel/internal/infrastructure"
	panelmw "rn518panel/internal/middleware"
)

// ExportHandler streams panel views as CSV or XLSX downloads
type ExportHandler struct {
	service      PanelServiceInterface
	validator    *panelmw.QueryValidator
	metrics      *infrastructure.PanelMetrics
	bom          bool
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates an export handler. bom prefixes CSV output with a
// UTF-8 byte order mark so spreadsheet tools detect the encoding.
func NewExportHandler(service PanelServiceInterface, metrics *infrastructure.PanelMetrics, bom bool, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		service:      service,
		validator:    panelmw.NewQueryValidator(logger),
		metrics:      metrics,
		bom:          bom,
		logger:       logger.With(slog.String("component", "export_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the export routes
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{view}.{format}", h.Export)
	return r
}

// Export handles GET /api/v1/export/{view}.{format}
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, err := exporter.ParseView(chi.URLParam(r, "view"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameter("view", chi.URLParam(r, "view")))
		return
	}
	format, err := exporter.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameter("format", chi.URLParam(r, "format")))
		return
	}

	req, err := parseViewRequest(r, h.validator)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	table, err := h.service.Export(ctx, view, req)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	var buf bytes.Buffer
	switch format {
	case exporter.FormatXLSX:
		err = exporter.WriteXLSX(&buf, table)
	default:
		err = exporter.WriteCSVTo(&buf, table, h.bom)
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ExportError(string(format), err))
		return
	}

	h.metrics.RecordExport(ctx, string(view), string(format))
	h.logger.InfoContext(ctx, "view exported",
		slog.String("view", string(view)),
		slog.String("format", string(format)),
		slog.Int("rows", len(table.Rows)),
		slog.String("request_id", middleware.GetReqID(ctx)))

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", table.FileName(format)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.WarnContext(ctx, "export write interrupted", slog.String("error", err.Error()))
	}
}
