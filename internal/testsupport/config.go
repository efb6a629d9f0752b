package testsupport

import (
	"path/filepath"
	"testing"

	"roomclip/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkspaceDir = filepath.Join(base, "work")
	cfg.Paths.StorageDir = filepath.Join(base, "storage")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Storage.BaseURL = "http://media.test"
	cfg.API.Bind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithBaseURL overrides the clip base URL on the test config.
func WithBaseURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Storage.BaseURL = url
	}
}

// WithT0Policy overrides the baseline policy on the test config.
func WithT0Policy(policy string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Slicing.T0Policy = policy
	}
}
