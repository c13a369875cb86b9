package services

import (
	"context"
	"fmt"

	apperrors "rn518panel/internal/errors"
	"rn518panel/internal/exporter"
)

// Export flattens one view into a table ready for CSV or XLSX output
func (s *PanelService) Export(ctx context.Context, view exporter.View, req ViewRequest) (exporter.Table, error) {
	ctx, span := s.tracer.Start(ctx, "panel.Export")
	defer span.End()

	switch view {
	case exporter.ViewIndicators:
		rows, err := s.Indicators(ctx, req.Filter)
		if err != nil {
			return exporter.Table{}, err
		}
		return exporter.IndicatorsTable(rows), nil
	case exporter.ViewComponents:
		rows, err := s.Indicators(ctx, req.Filter)
		if err != nil {
			return exporter.Table{}, err
		}
		table, ok := exporter.ComponentsTable(rows)
		if !ok {
			return exporter.Table{}, apperrors.NewNotFoundError("financial components in the current dataset")
		}
		return table, nil
	case exporter.ViewStatus:
		status, err := s.Status(ctx, req.Filter)
		if err != nil {
			return exporter.Table{}, err
		}
		return exporter.StatusTable(status.Indicators, status.Components), nil
	case exporter.ViewRanking:
		ranking, err := s.Ranking(ctx, req.Filter)
		if err != nil {
			return exporter.Table{}, err
		}
		return exporter.RankingTable(ranking), nil
	case exporter.ViewComparison:
		comparison, err := s.Comparison(ctx, req)
		if err != nil {
			return exporter.Table{}, err
		}
		return exporter.ComparisonTable(comparison), nil
	case exporter.ViewFinancial:
		panel, err := s.Financial(ctx, req)
		if err != nil {
			return exporter.Table{}, err
		}
		return exporter.FinancialTable(panel), nil
	}
	return exporter.Table{}, apperrors.NewAppValidationError(fmt.Sprintf("unknown export view %q", view))
}
