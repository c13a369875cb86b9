package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"rn518panel/internal/dataset"
	"rn518panel/internal/indicators"
	"rn518panel/internal/infrastructure"
)

// DatasetLoader reads the dataset file
type DatasetLoader interface {
	Load(ctx context.Context, path string) (*dataset.Dataset, error)
}

// ViewRequest carries the filter and the per-view selections of a request
type ViewRequest struct {
	Filter indicators.FilterSpec `json:"filter"`
	Field  string                `json:"field,omitempty"`
	Mode   indicators.SeriesMode `json:"mode,omitempty"`
	Entity string                `json:"entity,omitempty"`
	Period string                `json:"period,omitempty"`
}

// seriesField returns the requested series indicator, loss ratio by default
func (r ViewRequest) seriesField() string {
	if r.Field == "" {
		return indicators.FieldLossRatio
	}
	return r.Field
}

// StatusView combines indicator averages with component totals
type StatusView struct {
	Indicators indicators.StatusTable     `json:"indicators"`
	Components indicators.ComponentTotals `json:"components"`
}

// PanelService computes panel views over the loaded dataset
type PanelService struct {
	loader  DatasetLoader
	path    string
	current atomic.Pointer[snapshot]
	cache   *ResultCache
	metrics *infrastructure.PanelMetrics
	tracer  trace.Tracer
	logger  *slog.Logger
	reload  sync.Mutex
}

// snapshot pairs a dataset with the generation that keys its cached results
type snapshot struct {
	gen uint64
	ds  *dataset.Dataset
}

// PanelOption configures a PanelService
type PanelOption func(*PanelService)

// WithPanelLogger sets the service logger
func WithPanelLogger(logger *slog.Logger) PanelOption {
	return func(s *PanelService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics the service records to
func WithMetrics(m *infrastructure.PanelMetrics) PanelOption {
	return func(s *PanelService) { s.metrics = m }
}

// WithCache replaces the default result cache
func WithCache(c *ResultCache) PanelOption {
	return func(s *PanelService) { s.cache = c }
}

// NewPanelService creates a service reading path through loader. The dataset
// is not read until Reload is called.
func NewPanelService(loader DatasetLoader, path string, opts ...PanelOption) *PanelService {
	s := &PanelService{
		loader: loader,
		path:   path,
		tracer: otel.Tracer(infrastructure.MeterName),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = NewResultCache(15*time.Minute, 256)
	}
	if s.metrics == nil {
		s.metrics = infrastructure.NewNoopMetrics()
	}
	s.logger = s.logger.With(slog.String("component", "panel_service"))
	return s
}

// Reload reads the dataset from disk, swaps it in and clears cached results.
// The previous dataset stays in place when loading fails.
func (s *PanelService) Reload(ctx context.Context) (*dataset.Dataset, error) {
	if !s.reload.TryLock() {
		return nil, ErrReloadInProgress
	}
	defer s.reload.Unlock()

	ctx, span := s.tracer.Start(ctx, "panel.Reload")
	defer span.End()

	start := time.Now()
	ds, err := s.loader.Load(ctx, s.path)
	s.metrics.RecordDatasetLoad(ctx, ds.Len(), err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.ErrorContext(ctx, "dataset reload failed",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	s.Swap(ds)
	s.logger.InfoContext(ctx, "dataset reloaded",
		slog.String("path", s.path),
		slog.Int("records", ds.Len()),
		slog.Duration("duration", time.Since(start)))
	return ds, nil
}

// Swap installs ds as the current dataset and invalidates cached results
func (s *PanelService) Swap(ds *dataset.Dataset) {
	for {
		old := s.current.Load()
		next := &snapshot{gen: 1, ds: ds}
		if old != nil {
			next.gen = old.gen + 1
		}
		if s.current.CompareAndSwap(old, next) {
			break
		}
	}
	s.cache.Clear()
}

// Dataset returns the current dataset
func (s *PanelService) Dataset() (*dataset.Dataset, error) {
	snap, err := s.loaded()
	if err != nil {
		return nil, err
	}
	return snap.ds, nil
}

// loaded returns the current dataset with its generation
func (s *PanelService) loaded() (*snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrDatasetNotLoaded
	}
	return snap, nil
}

// Ready reports whether a dataset is loaded
func (s *PanelService) Ready() bool {
	return s.current.Load() != nil
}

// CacheStats returns result cache statistics
func (s *PanelService) CacheStats() CacheStats {
	return s.cache.Stats()
}

// Close stops background cache maintenance
func (s *PanelService) Close() {
	s.cache.Stop()
}

// records returns the filtered rows for spec sorted for display and normalized
func (s *PanelService) records(ctx context.Context, spec indicators.FilterSpec, ignorePeriod bool) ([]indicators.Record, error) {
	snap, err := s.loaded()
	if err != nil {
		return nil, err
	}
	return s.recordsAt(ctx, snap, spec, ignorePeriod)
}

// recordsAt is records over a fixed snapshot. Cached rows are keyed by the
// generation of the dataset they were computed from.
func (s *PanelService) recordsAt(ctx context.Context, snap *snapshot, spec indicators.FilterSpec, ignorePeriod bool) ([]indicators.Record, error) {
	key := fmt.Sprintf("%d|rows|%t|%s", snap.gen, ignorePeriod, spec.Key())
	v, hit, err := s.cache.GetOrLoad(key, func() (any, error) {
		engine := indicators.NewFilterEngine(snap.ds.Flagged)
		filtered := engine.Apply(snap.ds.Records, spec, ignorePeriod)
		return indicators.Normalize(indicators.SortForDisplay(filtered)), nil
	})
	s.metrics.RecordCacheLookup(ctx, hit)
	if err != nil {
		return nil, err
	}
	return v.([]indicators.Record), nil
}

// seriesRecords returns the replicated rows for spec with period filters ignored
func (s *PanelService) seriesRecords(ctx context.Context, spec indicators.FilterSpec) ([]indicators.Record, error) {
	snap, err := s.loaded()
	if err != nil {
		return nil, err
	}
	rows, err := s.recordsAt(ctx, snap, spec, true)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%d|series|%s", snap.gen, spec.Key())
	v, hit, err := s.cache.GetOrLoad(key, func() (any, error) {
		return indicators.SynthesizeQuarters(rows), nil
	})
	s.metrics.RecordCacheLookup(ctx, hit)
	if err != nil {
		return nil, err
	}
	return v.([]indicators.Record), nil
}

// observe records a view computation on the current span and metrics
func (s *PanelService) observe(ctx context.Context, view string, start time.Time, outcome indicators.Outcome) {
	s.metrics.RecordPipelineRun(ctx, view, string(outcome.State), time.Since(start))
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("panel.view", view),
		attribute.String("panel.state", string(outcome.State)),
	)
	s.logger.DebugContext(ctx, "view computed",
		slog.String("view", view),
		slog.String("state", string(outcome.State)),
		slog.Duration("duration", time.Since(start)))
}

// Options returns the filter choices over the whole dataset
func (s *PanelService) Options(ctx context.Context, restrictToFlagged bool) (indicators.Options, error) {
	snap, err := s.loaded()
	if err != nil {
		return indicators.Options{}, err
	}
	key := fmt.Sprintf("%d|options|%t", snap.gen, restrictToFlagged)
	v, hit, err := s.cache.GetOrLoad(key, func() (any, error) {
		return indicators.BuildOptions(snap.ds.Records, snap.ds.Flagged, restrictToFlagged), nil
	})
	s.metrics.RecordCacheLookup(ctx, hit)
	if err != nil {
		return indicators.Options{}, err
	}
	return v.(indicators.Options), nil
}

// Indicators returns the filtered detail rows
func (s *PanelService) Indicators(ctx context.Context, spec indicators.FilterSpec) ([]indicators.Record, error) {
	ctx, span := s.tracer.Start(ctx, "panel.Indicators")
	defer span.End()

	start := time.Now()
	rows, err := s.records(ctx, spec, false)
	if err != nil {
		return nil, err
	}
	outcome := indicators.Outcome{State: indicators.StateReady}
	if len(rows) == 0 {
		outcome.State = indicators.StateNoRows
	}
	s.observe(ctx, "indicators", start, outcome)
	return rows, nil
}

// Status returns indicator averages with status labels and component totals
func (s *PanelService) Status(ctx context.Context, spec indicators.FilterSpec) (StatusView, error) {
	ctx, span := s.tracer.Start(ctx, "panel.Status")
	defer span.End()

	start := time.Now()
	rows, err := s.records(ctx, spec, false)
	if err != nil {
		return StatusView{}, err
	}
	view := StatusView{
		Indicators: indicators.Summarize(rows),
		Components: indicators.SumComponents(rows),
	}
	s.observe(ctx, "status", start, view.Indicators.Outcome)
	return view, nil
}

// Series returns the time series of one indicator over the replicated rows
func (s *PanelService) Series(ctx context.Context, req ViewRequest) (indicators.Series, error) {
	ctx, span := s.tracer.Start(ctx, "panel.Series")
	defer span.End()

	start := time.Now()
	rows, err := s.seriesRecords(ctx, req.Filter)
	if err != nil {
		return indicators.Series{}, err
	}
	series := indicators.BuildSeries(rows, req.seriesField(), indicators.ParseSeriesMode(string(req.Mode)))
	s.observe(ctx, "series", start, series.Outcome)
	return series, nil
}

// Ranking ranks the entities at the latest period of the replicated rows
func (s *PanelService) Ranking(ctx context.Context, spec indicators.FilterSpec) (indicators.RankingTable, error) {
	ctx, span := s.tracer.Start(ctx, "panel.Ranking")
	defer span.End()

	start := time.Now()
	rows, err := s.seriesRecords(ctx, spec)
	if err != nil {
		return indicators.RankingTable{}, err
	}
	ranking := indicators.RankLatest(rows)
	s.observe(ctx, "ranking", start, ranking.Outcome)
	return ranking, nil
}

// Comparison compares the chosen entity with its modality and size segments
func (s *PanelService) Comparison(ctx context.Context, req ViewRequest) (indicators.Comparison, error) {
	ctx, span := s.tracer.Start(ctx, "panel.Comparison")
	defer span.End()

	start := time.Now()
	filtered, err := s.records(ctx, req.Filter, false)
	if err != nil {
		return indicators.Comparison{}, err
	}
	segment, err := s.records(ctx, req.Filter.WithoutEntities(), false)
	if err != nil {
		return indicators.Comparison{}, err
	}
	comparison := indicators.CompareSelection(filtered, segment, req.Filter.EntityIDs, req.Entity)
	s.observe(ctx, "comparison", start, comparison.Outcome)
	return comparison, nil
}

// Financial returns the component panel, consolidated when entity is empty
func (s *PanelService) Financial(ctx context.Context, req ViewRequest) (indicators.FinancialPanel, error) {
	ctx, span := s.tracer.Start(ctx, "panel.Financial")
	defer span.End()

	start := time.Now()
	rows, err := s.records(ctx, req.Filter, false)
	if err != nil {
		return indicators.FinancialPanel{}, err
	}
	panel := indicators.BuildFinancialPanel(rows, req.Entity)
	s.observe(ctx, "financial", start, panel.Outcome)
	return panel, nil
}

// Correlation returns the admin expense against ROE panel for one period
func (s *PanelService) Correlation(ctx context.Context, req ViewRequest) (indicators.CorrelationPanel, error) {
	ctx, span := s.tracer.Start(ctx, "panel.Correlation")
	defer span.End()

	start := time.Now()
	rows, err := s.records(ctx, req.Filter, false)
	if err != nil {
		return indicators.CorrelationPanel{}, err
	}
	panel := indicators.BuildCorrelation(rows, req.Period)
	s.observe(ctx, "correlation", start, panel.Outcome)
	return panel, nil
}
