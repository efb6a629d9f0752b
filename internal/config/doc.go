// Package config loads, validates, and normalizes roomclip configuration
// from TOML files with environment overrides for containerized deployments.
package config
