package config

import (
	"fmt"
	"strings"
)

// normalize expands and cleans every path-valued field in place. It must run
// before Validate so validation sees final values.
func (c *Config) normalize() error {
	var err error

	if c.Paths.WorkspaceDir, err = expandPath(c.Paths.WorkspaceDir); err != nil {
		return fmt.Errorf("paths.workspace_dir: %w", err)
	}
	if c.Paths.StorageDir, err = expandPath(c.Paths.StorageDir); err != nil {
		return fmt.Errorf("paths.storage_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}

	c.Storage.BaseURL = strings.TrimRight(strings.TrimSpace(c.Storage.BaseURL), "/")
	c.Slicing.T0Policy = strings.ToLower(strings.TrimSpace(c.Slicing.T0Policy))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.API.Bind = strings.TrimSpace(c.API.Bind)

	return nil
}
