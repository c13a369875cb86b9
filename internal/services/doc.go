// Package services implements the application layer of the panel. It sits
// between the HTTP handlers and the indicator pipeline.
//
// # Panel Service
//
// PanelService owns the loaded dataset behind an atomic pointer and computes
// every view for a filter selection:
//
//	svc := services.NewPanelService(dataset.NewLoader(), "data/indicators.csv",
//	    services.WithPanelLogger(logger),
//	    services.WithMetrics(metrics),
//	)
//	if _, err := svc.Reload(ctx); err != nil {
//	    return err
//	}
//	ranking, err := svc.Ranking(ctx, indicators.FilterSpec{Years: []int{2024}})
//
// Filtered and replicated tables are cached per filter key in a ResultCache
// with a fixed TTL. Concurrent misses on one key share a single computation.
// Reloading the dataset swaps the pointer and drops every cached table.
//
// Dashboard builds all views of one selection concurrently with errgroup.
//
// # Scheduled Reload
//
// Reloader re-reads the dataset file on a cron schedule:
//
//	r := services.NewReloader(svc.Reloadable(), time.Minute, logger)
//	err := r.Start("@every 30m")
//	defer r.Stop()
//
// # Health
//
// HealthService reports liveness, readiness (a dataset is loaded) and version.
package services
