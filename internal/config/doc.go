// Package config provides centralized configuration management for TodoTally,
// combining a YAML configuration file with environment variable overrides. The
// URI variable takes precedence over any configured source endpoint so the
// hosting runtime can repoint the aggregation without a redeploy.
package config
