package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"rn518panel/internal/indicators"
)

// Dashboard holds every view for one filter selection
type Dashboard struct {
	indicators.Outcome
	Filter      indicators.FilterSpec        `json:"filter"`
	Records     int                          `json:"records"`
	Status      *StatusView                  `json:"status,omitempty"`
	Series      *indicators.Series           `json:"series,omitempty"`
	Ranking     *indicators.RankingTable     `json:"ranking,omitempty"`
	Comparison  *indicators.Comparison       `json:"comparison,omitempty"`
	Financial   *indicators.FinancialPanel   `json:"financial,omitempty"`
	Correlation *indicators.CorrelationPanel `json:"correlation,omitempty"`
	Rows        []indicators.Record          `json:"rows,omitempty"`
	GeneratedAt time.Time                    `json:"generated_at"`
}

// Dashboard builds every view for req. At least one year and one quarter
// must be selected; views are computed concurrently over shared tables.
func (s *PanelService) Dashboard(ctx context.Context, req ViewRequest) (*Dashboard, error) {
	ctx, span := s.tracer.Start(ctx, "panel.Dashboard")
	defer span.End()

	start := time.Now()
	d := &Dashboard{Filter: req.Filter, GeneratedAt: start.UTC()}

	if len(req.Filter.Years) == 0 || len(req.Filter.Quarters) == 0 {
		d.Outcome = indicators.Outcome{
			State:   indicators.StateSelectPeriod,
			Message: "Select at least one year and one quarter to display the panel.",
		}
		s.observe(ctx, "dashboard", start, d.Outcome)
		return d, nil
	}

	rows, err := s.records(ctx, req.Filter, false)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		d.Outcome = indicators.Outcome{
			State:   indicators.StateNoRows,
			Message: "No records found for the applied filters.",
		}
		s.observe(ctx, "dashboard", start, d.Outcome)
		return d, nil
	}
	d.Records = len(rows)
	d.Rows = rows

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.Status(gctx, req.Filter)
		d.Status = &v
		return err
	})
	g.Go(func() error {
		v, err := s.Series(gctx, req)
		d.Series = &v
		return err
	})
	g.Go(func() error {
		v, err := s.Ranking(gctx, req.Filter)
		d.Ranking = &v
		return err
	})
	g.Go(func() error {
		v, err := s.Comparison(gctx, req)
		d.Comparison = &v
		return err
	})
	g.Go(func() error {
		v, err := s.Financial(gctx, req)
		d.Financial = &v
		return err
	})
	g.Go(func() error {
		v, err := s.Correlation(gctx, req)
		d.Correlation = &v
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.Outcome = indicators.Outcome{State: indicators.StateReady}
	s.observe(ctx, "dashboard", start, d.Outcome)
	return d, nil
}
