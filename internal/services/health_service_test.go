package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHealthService tests liveness, readiness and version reporting
func TestHealthService(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&stubLoader{ds: sampleDataset()})
	defer svc.Close()

	hs := NewHealthService("1.2.3", "2025-01-01T00:00:00Z", svc, nil)

	health := hs.HealthCheck(ctx)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "1.2.3", health.Version)

	ready := hs.ReadinessCheck(ctx)
	assert.Equal(t, "not_ready", ready.Status)
	assert.Equal(t, "not_ready", ready.Services["dataset"].Status)

	_, err := svc.Reload(ctx)
	require.NoError(t, err)
	ready = hs.ReadinessCheck(ctx)
	assert.Equal(t, "ready", ready.Status)
	assert.Equal(t, "ready", ready.Services["cache"].Status)

	version := hs.Version()
	assert.Equal(t, "1.2.3", version["version"])
	assert.Equal(t, "2025-01-01T00:00:00Z", version["build_time"])

	empty := NewHealthService("dev", "", nil, nil)
	assert.Equal(t, "not_ready", empty.ReadinessCheck(ctx).Status)
	_, hasBuildTime := empty.Version()["build_time"]
	assert.False(t, hasBuildTime)
}
