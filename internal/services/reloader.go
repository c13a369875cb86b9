package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Reloadable is anything that can re-read its dataset
type Reloadable interface {
	Reload(ctx context.Context) error
}

// ReloadFunc adapts a function to Reloadable
type ReloadFunc func(ctx context.Context) error

// Reload calls f
func (f ReloadFunc) Reload(ctx context.Context) error { return f(ctx) }

// Reloader re-reads the dataset on a cron schedule
type Reloader struct {
	target  Reloadable
	cron    *cron.Cron
	timeout time.Duration
	logger  *slog.Logger
}

// NewReloader creates a reloader for target. Each run is bounded by timeout.
func NewReloader(target Reloadable, timeout time.Duration, logger *slog.Logger) *Reloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reloader{
		target:  target,
		cron:    cron.New(),
		timeout: timeout,
		logger:  logger.With(slog.String("component", "reloader")),
	}
}

// Start schedules reloads. An empty schedule leaves the reloader idle.
func (r *Reloader) Start(schedule string) error {
	if schedule == "" {
		return nil
	}

	if _, err := r.cron.AddFunc(schedule, r.run); err != nil {
		return fmt.Errorf("invalid reload schedule %q: %w", schedule, err)
	}

	r.cron.Start()
	r.logger.Info("Dataset reload scheduler started", slog.String("schedule", schedule))
	return nil
}

// Stop stops the scheduler and waits for a running reload to finish
func (r *Reloader) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info("Dataset reload scheduler stopped")
}

// Next returns the time of the next scheduled reload
func (r *Reloader) Next() (time.Time, bool) {
	entries := r.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}, false
	}
	return entries[0].Next, true
}

func (r *Reloader) run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	start := time.Now()
	if err := r.target.Reload(ctx); err != nil {
		if errors.Is(err, ErrReloadInProgress) {
			r.logger.Warn("Scheduled reload skipped, another reload is running")
			return
		}
		r.logger.Error("Scheduled reload failed", slog.String("error", err.Error()))
		return
	}
	r.logger.Info("Scheduled reload completed", slog.Duration("duration", time.Since(start)))
}

// Reloadable adapts the service to the reloader
func (s *PanelService) Reloadable() Reloadable {
	return ReloadFunc(func(ctx context.Context) error {
		_, err := s.Reload(ctx)
		return err
	})
}
