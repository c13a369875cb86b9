package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "rn518panel/internal/errors"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestDefault tests the default configuration is valid
func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.validate())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DefaultCacheTTL, cfg.Data.CacheTTL)
	assert.Equal(t, ":8080", cfg.Addr())
}

// TestLoad tests defaults, files and environment precedence
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		content     string
		env         map[string]string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "yaml file",
			file: "config.yaml",
			content: `
server:
  port: 9090
  read_timeout: 5s
data:
  dataset_path: data/rn518.xlsx
  sheet: Indicadores
  cache_ttl: 10m
  reload_schedule: "@every 30m"
logging:
  level: debug
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, "data/rn518.xlsx", cfg.Data.DatasetPath)
				assert.Equal(t, "Indicadores", cfg.Data.Sheet)
				assert.Equal(t, 10*time.Minute, cfg.Data.CacheTTL)
				assert.Equal(t, "@every 30m", cfg.Data.ReloadSchedule)
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
		},
		{
			name: "toml file",
			file: "config.toml",
			content: `
[server]
port = 7070
idle_timeout = "2m"

[data]
dataset_path = "data/rn518.csv"
flagged_path = "data/flagged.txt"
cache_size = 16

[security]
allowed_origins = ["http://a.example", "http://b.example"]
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, 2*time.Minute, cfg.Server.IdleTimeout)
				assert.Equal(t, "data/flagged.txt", cfg.Data.FlaggedPath)
				assert.Equal(t, 16, cfg.Data.CacheSize)
				assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Security.AllowedOrigins)
			},
		},
		{
			name:    "environment overrides file",
			file:    "config.yaml",
			content: "server:\n  port: 9090\n",
			env: map[string]string{
				"PANEL_SERVER_PORT":              "9191",
				"PANEL_DATA_CACHE_TTL":           "1m",
				"PANEL_SECURITY_ALLOWED_ORIGINS": "http://x.example,http://y.example",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9191, cfg.Server.Port)
				assert.Equal(t, time.Minute, cfg.Data.CacheTTL)
				assert.Equal(t, []string{"http://x.example", "http://y.example"}, cfg.Security.AllowedOrigins)
			},
		},
		{
			name:    "invalid port",
			file:    "config.yaml",
			content: "server:\n  port: 70000\n",
			wantErr: true,
		},
		{
			name:    "invalid log level",
			file:    "config.yaml",
			content: "logging:\n  level: loud\n",
			wantErr: true,
		},
		{
			name:    "invalid schedule",
			file:    "config.yaml",
			content: "data:\n  reload_schedule: every now and then\n",
			wantErr: true,
		},
		{
			name:    "unsupported dataset format",
			file:    "config.yaml",
			content: "data:\n  dataset_path: data/indicators.parquet\n",
			wantErr: true,
		},
		{
			name:    "unsupported config format",
			file:    "config.json",
			content: "{}",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "config.yaml",
			content: "server: [port",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := writeConfig(t, tt.file, tt.content)

			cfg, err := Load(path)
			if tt.wantErr {
				var appErr *apperrors.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, apperrors.ErrTypeConfig, appErr.Type)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, path, cfg.File)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

// TestResolvePaths tests resolution relative to the config file
func TestResolvePaths(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.File = filepath.Join(dir, "config.yaml")
	cfg.Data.FlaggedPath = "/abs/flagged.txt"

	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultDatasetPath), paths.DatasetFile)
	assert.Equal(t, "/abs/flagged.txt", paths.FlaggedFile)
	assert.Equal(t, filepath.Join(dir, DefaultExportDir), paths.ExportDir)

	require.NoError(t, paths.EnsureDirectories())
	assert.True(t, FileExists(paths.ExportDir))
	assert.True(t, FileExists(filepath.Dir(paths.LogFile)))
}
