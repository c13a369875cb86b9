package infrastructure

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"rn518panel/internal/config"
)

// TestOTelConfigFrom tests mapping of the telemetry config section
func TestOTelConfigFrom(t *testing.T) {
	cfg := OTelConfigFrom(config.TelemetryConfig{Enabled: false, ServiceName: "panel-test"})
	assert.Equal(t, "panel-test", cfg.ServiceName)
	assert.False(t, cfg.EnableMetrics)
	assert.Equal(t, "none", cfg.MetricExporter)
	assert.False(t, cfg.EnableTracing)

	cfg = OTelConfigFrom(config.TelemetryConfig{Enabled: true, TraceToStdout: true})
	assert.Equal(t, ServiceName, cfg.ServiceName)
	assert.True(t, cfg.EnableTracing)
	assert.Equal(t, "stdout", cfg.TraceExporter)
}

// TestInitializeOTelDisabled tests that disabled telemetry still yields usable providers
func TestInitializeOTelDisabled(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:    ServiceName,
		ServiceVersion: "test",
		TraceExporter:  "none",
		MetricExporter: "none",
	}, nil)
	require.NoError(t, err)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)
	assert.Nil(t, providers.PrometheusHTTP)

	metrics, err := CreatePanelMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.RecordCacheLookup(context.Background(), true)
	require.NoError(t, providers.Shutdown(context.Background()))
}

// TestInitializeOTelUnsupportedExporter tests exporter validation
func TestInitializeOTelUnsupportedExporter(t *testing.T) {
	_, err := InitializeOTel(&OTelConfig{EnableTracing: true, TraceExporter: "jaeger"}, nil)
	assert.Error(t, err)
}

// TestPanelMetrics tests that recorded values reach a meter provider
func TestPanelMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := CreatePanelMetrics(mp.Meter(MeterName))
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordPipelineRun(ctx, "ranking", "ready", 20*time.Millisecond)
	metrics.RecordCacheLookup(ctx, true)
	metrics.RecordCacheLookup(ctx, false)
	metrics.RecordDatasetLoad(ctx, 42, nil)
	metrics.RecordDatasetLoad(ctx, 0, errors.New("boom"))
	metrics.RecordExport(ctx, "ranking", "csv")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	names := map[string]bool{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		names[m.Name] = true
	}
	for _, want := range []string{
		"pipeline_runs_total", "pipeline_duration_seconds", "cache_hits_total",
		"cache_misses_total", "dataset_records", "dataset_reloads_total", "exports_total",
	} {
		assert.True(t, names[want], want)
	}
}

// TestPanelMetricsNil tests that a nil metrics set is safe to use
func TestPanelMetricsNil(t *testing.T) {
	var metrics *PanelMetrics
	assert.NotPanics(t, func() {
		metrics.RecordPipelineRun(context.Background(), "status", "ready", time.Second)
		metrics.RecordCacheLookup(context.Background(), false)
		metrics.RecordDatasetLoad(context.Background(), 1, nil)
		metrics.RecordExport(context.Background(), "status", "xlsx")
	})
	assert.NotNil(t, NewNoopMetrics())
}
