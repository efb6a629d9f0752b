package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkspaceDir string `toml:"workspace_dir"`
	StorageDir   string `toml:"storage_dir"`
	LogDir       string `toml:"log_dir"`
}

// Storage contains configuration for the clip object store.
type Storage struct {
	BaseURL string `toml:"base_url"`
}

// Slicing contains configuration for the cutting pipeline.
type Slicing struct {
	// T0Policy selects how the session baseline is resolved:
	// "baseline" or "earliest-event".
	T0Policy   string `toml:"t0_policy"`
	CutTimeout int    `toml:"cut_timeout"`
}

// Worker contains configuration for the discovery loop.
type Worker struct {
	PollInterval       int `toml:"poll_interval"`
	ClaimTimeout       int `toml:"claim_timeout"`
	ErrorRetryInterval int `toml:"error_retry_interval"`
}

// API contains configuration for the HTTP trigger server.
type API struct {
	Enabled bool   `toml:"enabled"`
	Bind    string `toml:"bind"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for roomclip.
//
// Sections by subsystem:
//   - Paths: attempt workspaces, clip storage root, logs + session database
//   - Storage: public URL derivation for uploaded clips
//   - Slicing: t0 baseline policy and cut timeout
//   - Worker: poll/claim/retry intervals
//   - API: HTTP trigger bind address
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Storage Storage `toml:"storage"`
	Slicing Slicing `toml:"slicing"`
	Worker  Worker  `toml:"worker"`
	API     API     `toml:"api"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/roomclip/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("roomclip.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// applyEnvOverrides honors a small deployment-oriented set of env vars so
// containers can run without editing the TOML file.
func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("ROOMCLIP_STORAGE_DIR")); v != "" {
		c.Paths.StorageDir = v
	}
	if v := strings.TrimSpace(os.Getenv("ROOMCLIP_BASE_URL")); v != "" {
		c.Storage.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("ROOMCLIP_API_BIND")); v != "" {
		c.API.Bind = v
	}
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkspaceDir, c.Paths.StorageDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the session database location under the log dir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.LogDir, "sessions.db")
}

// FFmpegBinary returns the ffmpeg executable name used for clip cuts.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
