package config

import (
	"github.com/sdejongh/ddupe/pkg/models"
	"github.com/sdejongh/ddupe/pkg/ratelimit"
)

// Config represents the application configuration
type Config struct {
	Scan        ScanConfig        `yaml:"scan" toml:"scan"`
	Performance PerformanceConfig `yaml:"performance" toml:"performance"`
	Output      OutputConfig      `yaml:"output" toml:"output"`
	Logging     LoggingConfig     `yaml:"logging" toml:"logging"`
	Exclude     []string          `yaml:"exclude" toml:"exclude"`
}

// ScanConfig holds hashing and grouping settings
type ScanConfig struct {
	Algorithm       models.DigestAlgorithm `yaml:"algorithm" toml:"algorithm"`
	SizePrefilter   bool                   `yaml:"size_prefilter" toml:"size_prefilter"`
	PrefixPrefilter bool                   `yaml:"prefix_prefilter" toml:"prefix_prefilter"`
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	MaxWorkers     int    `yaml:"max_workers" toml:"max_workers"`
	BufferSize     int    `yaml:"buffer_size" toml:"buffer_size"`
	BandwidthLimit string `yaml:"bandwidth_limit" toml:"bandwidth_limit"` // e.g. "10M", empty = unlimited
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format" toml:"format"`     // "human" or "json"
	Progress bool   `yaml:"progress" toml:"progress"` // Show a hashing progress bar
	Quiet    bool   `yaml:"quiet" toml:"quiet"`       // Suppress non-error output
	Color    string `yaml:"color" toml:"color"`       // "auto", "always" or "never"
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Format  string `yaml:"format" toml:"format"` // "json" or "text"
	Level   string `yaml:"level" toml:"level"`   // "debug", "info", "warn", "error"
	File    string `yaml:"file" toml:"file"`     // Log file path (empty = default state path)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			Algorithm:       models.AlgorithmSHA256,
			SizePrefilter:   true,
			PrefixPrefilter: true,
		},
		Performance: PerformanceConfig{
			MaxWorkers:     1,
			BufferSize:     8192,
			BandwidthLimit: "",
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
			Quiet:    false,
			Color:    "auto",
		},
		Logging: LoggingConfig{
			Enabled: false,
			Format:  "json",
			Level:   "info",
			File:    "",
		},
		Exclude: []string{},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := models.ParseDigestAlgorithm(string(c.Scan.Algorithm)); err != nil {
		return &models.ValidationError{
			Field:   "scan.algorithm",
			Message: "must be 'sha256' or 'blake3'",
		}
	}

	if c.Performance.MaxWorkers < 1 {
		return &models.ValidationError{
			Field:   "performance.max_workers",
			Message: "must be at least 1",
		}
	}

	if c.Performance.BufferSize < 1024 {
		return &models.ValidationError{
			Field:   "performance.buffer_size",
			Message: "must be at least 1024 bytes",
		}
	}

	if _, err := c.BandwidthBytes(); err != nil {
		return &models.ValidationError{
			Field:   "performance.bandwidth_limit",
			Message: err.Error(),
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validColors := map[string]bool{"auto": true, "always": true, "never": true}
	if !validColors[c.Output.Color] {
		return &models.ValidationError{
			Field:   "output.color",
			Message: "must be 'auto', 'always', or 'never'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}

// BandwidthBytes returns the bandwidth limit in bytes per second, 0 for unlimited
func (c *Config) BandwidthBytes() (int64, error) {
	return ratelimit.ParseBandwidth(c.Performance.BandwidthLimit)
}
