package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds the absolute filesystem locations used at runtime
type Paths struct {
	BaseDir     string
	DatasetFile string
	FlaggedFile string
	ExportDir   string
	LogFile     string
}

// ResolvePaths makes every configured path absolute. Relative paths are taken
// from the directory of the config file, or the working directory without one.
func (c *Config) ResolvePaths() (*Paths, error) {
	base := ""
	if c.File != "" {
		base = filepath.Dir(c.File)
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(abs, p)
	}

	return &Paths{
		BaseDir:     abs,
		DatasetFile: resolve(c.Data.DatasetPath),
		FlaggedFile: resolve(c.Data.FlaggedPath),
		ExportDir:   resolve(c.Export.Dir),
		LogFile:     resolve(c.Logging.FilePath),
	}, nil
}

// EnsureDirectories creates the writable directories
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.ExportDir}
	if p.LogFile != "" {
		dirs = append(dirs, filepath.Dir(p.LogFile))
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
