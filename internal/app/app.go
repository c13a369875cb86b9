package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"rn518panel/internal/config"
	"rn518panel/internal/dataset"
	apierrors "rn518panel/internal/errors"
	"rn518panel/internal/infrastructure"
	panelmw "rn518panel/internal/middleware"
	"rn518panel/internal/services"
	handlers "rn518panel/internal/transport/http"
	"rn518panel/pkg/contracts"
)

// Application wires configuration, services and the HTTP server together
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.PanelMetrics
	Panel         *services.PanelService
	HealthService *services.HealthService
	Reloader      *services.Reloader
	ErrorHandler  *apierrors.ErrorHandler
}

// NewApplication creates a new application instance with dependency injection
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	otelCfg := infrastructure.OTelConfigFrom(cfg.Telemetry)
	otelProviders, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreatePanelMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	logger.Info("Application initialized",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version),
		slog.String("dataset", paths.DatasetFile),
		slog.String("config_file", cfg.File))
	return app, nil
}

// initializeServices creates the panel, health and reload services
func (a *Application) initializeServices() {
	opts := []dataset.Option{dataset.WithLogger(a.Logger)}
	if a.Config.Data.Sheet != "" {
		opts = append(opts, dataset.WithSheet(a.Config.Data.Sheet))
	}
	if a.Paths.FlaggedFile != "" {
		opts = append(opts, dataset.WithFlaggedList(a.Paths.FlaggedFile))
	}
	loader := dataset.NewLoader(opts...)

	a.Panel = services.NewPanelService(loader, a.Paths.DatasetFile,
		services.WithPanelLogger(a.Logger),
		services.WithMetrics(a.Metrics),
		services.WithCache(services.NewResultCache(a.Config.Data.CacheTTL, a.Config.Data.CacheSize)),
	)
	a.HealthService = services.NewHealthService(contracts.Version, contracts.BuildTime, a.Panel, a.Logger)
	a.Reloader = services.NewReloader(a.Panel.Reloadable(), a.Config.Server.RequestTimeout, a.Logger)
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// RequestID → RealIP → Tracing → Metrics → Logger → Recoverer → Security → CORS → RateLimit
	r.Use(panelmw.RequestID)
	r.Use(panelmw.RealIP)
	r.Use(panelmw.Tracing(a.OTelProviders))
	r.Use(panelmw.NewOTelMiddleware(a.Metrics, a.Logger).Handler)
	r.Use(panelmw.StructuredLogger(a.Logger))
	r.Use(apierrors.NewErrorMiddleware(a.ErrorHandler, a.Logger).Handler)

	secure := panelmw.DefaultSecureHeaders()
	secure.DevMode = a.Config.Logging.Development
	r.Use(secure.Handler)

	if a.Config.Security.EnableCORS {
		r.Use(panelmw.CORS(panelmw.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			Logger:         a.Logger,
		}))
	}
	if a.Config.Security.RateLimit.Enabled {
		r.Use(panelmw.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.ErrorHandler,
			a.Logger,
		).Handler)
	}

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	a.setupAPIRoutes(r)

	r.Handle(config.MetricsEndpoint, handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP))

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
	panelHandler := handlers.NewPanelHandler(a.Panel, a.Logger, a.ErrorHandler)
	exportHandler := handlers.NewExportHandler(a.Panel, a.Metrics, a.Config.Export.BOMPrefix, a.Logger, a.ErrorHandler)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(render.SetContentType(render.ContentTypeJSON))
			r.Get("/health", healthHandler.HealthCheck)
			r.Get("/health/ready", healthHandler.ReadinessCheck)
			r.Get("/version", healthHandler.Version)
		})

		r.Route("/v1", func(r chi.Router) {
			r.Use(panelmw.Timeout(a.Config.Server.RequestTimeout))
			r.Use(panelmw.Compress(5))
			r.Use(panelmw.AuditLog(a.Logger))

			r.Mount("/export", exportHandler.Routes())
			r.Mount("/", panelHandler.Routes())
		})
	})
}

// createServer builds the HTTP server from the server config
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Addr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// LoadDataset performs the initial dataset load. A failure leaves the server
// running and not ready so a later reload can recover.
func (a *Application) LoadDataset(ctx context.Context) error {
	ds, err := a.Panel.Reload(ctx)
	if err != nil {
		a.Logger.ErrorContext(ctx, "Initial dataset load failed",
			slog.String("path", a.Paths.DatasetFile),
			slog.String("error", err.Error()))
		return err
	}
	a.Logger.InfoContext(ctx, "Dataset loaded",
		slog.Int("records", ds.Len()),
		slog.Int("flagged", len(ds.Flagged)))
	return nil
}

// Start loads the dataset, starts the reload scheduler and the HTTP server.
// Server failures are reported on the returned channel.
func (a *Application) Start(ctx context.Context) (<-chan error, error) {
	_ = a.LoadDataset(ctx)

	if err := a.Reloader.Start(a.Config.Data.ReloadSchedule); err != nil {
		return nil, err
	}
	if next, ok := a.Reloader.Next(); ok {
		a.Logger.InfoContext(ctx, "Next dataset reload scheduled", slog.Time("at", next))
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", a.Server.Addr),
		slog.String("version", contracts.Version))
	return serverErr, nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	a.Reloader.Stop()
	a.Panel.Close()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("telemetry shutdown error: %w", err))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}

// Run runs the application until interrupted or the server fails
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr, err := a.Start(ctx)
	if err != nil {
		return err
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("Received interrupt signal")
	case err, ok := <-serverErr:
		if ok {
			runErr = fmt.Errorf("server error: %w", err)
		}
	}

	// Detached from the cancelled signal context so shutdown gets its full timeout
	stopCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout+5*time.Second)
	defer cancel()
	return errors.Join(runErr, a.Stop(stopCtx))
}
