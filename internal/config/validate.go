package config

import (
	"fmt"
	"net"
)

// Validate checks the configuration for invalid or inconsistent values.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateSlicing(); err != nil {
		return err
	}
	if err := c.validateWorker(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.WorkspaceDir == "" {
		return fmt.Errorf("paths.workspace_dir is required")
	}
	if c.Paths.StorageDir == "" {
		return fmt.Errorf("paths.storage_dir is required")
	}
	if c.Paths.LogDir == "" {
		return fmt.Errorf("paths.log_dir is required")
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Storage.BaseURL == "" {
		return fmt.Errorf("storage.base_url is required")
	}
	return nil
}

func (c *Config) validateSlicing() error {
	switch c.Slicing.T0Policy {
	case "baseline", "earliest-event":
	default:
		return fmt.Errorf("slicing.t0_policy must be \"baseline\" or \"earliest-event\", got %q", c.Slicing.T0Policy)
	}
	if c.Slicing.CutTimeout <= 0 {
		return fmt.Errorf("slicing.cut_timeout must be positive, got %d", c.Slicing.CutTimeout)
	}
	return nil
}

func (c *Config) validateWorker() error {
	if c.Worker.PollInterval <= 0 {
		return fmt.Errorf("worker.poll_interval must be positive, got %d", c.Worker.PollInterval)
	}
	if c.Worker.ClaimTimeout <= 0 {
		return fmt.Errorf("worker.claim_timeout must be positive, got %d", c.Worker.ClaimTimeout)
	}
	if c.Worker.ErrorRetryInterval <= 0 {
		return fmt.Errorf("worker.error_retry_interval must be positive, got %d", c.Worker.ErrorRetryInterval)
	}
	return nil
}

func (c *Config) validateAPI() error {
	if !c.API.Enabled {
		return nil
	}
	if c.API.Bind == "" {
		return fmt.Errorf("api.bind is required when api.enabled is true")
	}
	if _, _, err := net.SplitHostPort(c.API.Bind); err != nil {
		return fmt.Errorf("api.bind must be host:port, got %q", c.API.Bind)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}
