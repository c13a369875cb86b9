package http

import (
	"context"

	"rn518panel/internal/dataset"
	"rn518panel/internal/exporter"
	"rn518panel/internal/indicators"
	"rn518panel/internal/services"
)

// PanelServiceInterface defines the panel operations served over HTTP
type PanelServiceInterface interface {
	Options(ctx context.Context, restrictToFlagged bool) (indicators.Options, error)
	Indicators(ctx context.Context, spec indicators.FilterSpec) ([]indicators.Record, error)
	Status(ctx context.Context, spec indicators.FilterSpec) (services.StatusView, error)
	Series(ctx context.Context, req services.ViewRequest) (indicators.Series, error)
	Ranking(ctx context.Context, spec indicators.FilterSpec) (indicators.RankingTable, error)
	Comparison(ctx context.Context, req services.ViewRequest) (indicators.Comparison, error)
	Financial(ctx context.Context, req services.ViewRequest) (indicators.FinancialPanel, error)
	Correlation(ctx context.Context, req services.ViewRequest) (indicators.CorrelationPanel, error)
	Dashboard(ctx context.Context, req services.ViewRequest) (*services.Dashboard, error)
	Export(ctx context.Context, view exporter.View, req services.ViewRequest) (exporter.Table, error)
	Reload(ctx context.Context) (*dataset.Dataset, error)
}
