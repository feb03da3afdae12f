// filepath: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dustin/go-humanize"
)

const (
	// DefaultQueueCapacity is the number of chunks buffered between ingest and persistence.
	DefaultQueueCapacity = 3
	// DefaultReadBufferSize caps the size of a single chunk read from a request body.
	DefaultReadBufferSize = "64KB"
)

// Config holds the application's configuration.
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Storage      StorageConfig      `toml:"storage"`
	Database     DatabaseConfig     `toml:"database"`
	Logging      LoggingConfig      `toml:"logging"`
	Housekeeping HousekeepingConfig `toml:"housekeeping"`
	Metrics      MetricsConfig      `toml:"metrics"`

	ReadBufferSizeBytes  int           `toml:"-"` // Runtime computed value
	HousekeepingInterval time.Duration `toml:"-"` // Runtime computed value
	OrphanMinAge         time.Duration `toml:"-"` // Runtime computed value
}

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	ReadBufferSize string `toml:"read_buffer_size"` // e.g. "64KB", "1MB"
}

// StorageConfig holds the scratch directory and pipeline settings.
type StorageConfig struct {
	// ScratchDir is where artifacts are written. Empty means <temp root>/streamstore.
	ScratchDir    string `toml:"scratch_dir"`
	QueueCapacity int    `toml:"queue_capacity"`
}

// DatabaseConfig holds the upload history database configuration.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig holds the logging configuration.
type LoggingConfig struct {
	Level string `toml:"level"`
	// TraceStatus prints the interleaved ingest/persist progress markers to stdout.
	TraceStatus  bool `toml:"trace_status"`
	AuditEnabled bool `toml:"audit_enabled"`
}

// HousekeepingConfig controls the orphan sweeper.
type HousekeepingConfig struct {
	Interval     string `toml:"interval"`
	OrphanMinAge string `toml:"orphan_min_age"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// LoadConfig loads the configuration from a TOML file.
func LoadConfig(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveConfig writes the current configuration back to a TOML file.
func SaveConfig(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file for saving: %w", err)
	}
	defer f.Close()
	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config to file: %w", err)
	}
	return nil
}

// ParseAndValidate processes configuration strings into runtime values.
// It sets defaults if values are missing and parses human-readable sizes and durations.
func (c *Config) ParseAndValidate() error {
	if c.Server.ReadBufferSize == "" {
		c.Server.ReadBufferSize = DefaultReadBufferSize
	}
	sizeBytes, err := humanize.ParseBytes(c.Server.ReadBufferSize)
	if err != nil {
		return fmt.Errorf("invalid read_buffer_size: %w", err)
	}
	if sizeBytes == 0 || sizeBytes > 64<<20 {
		return fmt.Errorf("invalid read_buffer_size: %s must be between 1B and 64MiB", c.Server.ReadBufferSize)
	}
	c.ReadBufferSizeBytes = int(sizeBytes)

	if c.Storage.QueueCapacity == 0 {
		c.Storage.QueueCapacity = DefaultQueueCapacity
	}
	if c.Storage.QueueCapacity < 1 {
		return fmt.Errorf("invalid queue_capacity: %d (must be >= 1)", c.Storage.QueueCapacity)
	}

	if c.Housekeeping.Interval == "" {
		c.Housekeeping.Interval = "10m"
	}
	if c.HousekeepingInterval, err = ParseDuration(c.Housekeeping.Interval); err != nil {
		return fmt.Errorf("invalid housekeeping interval: %w", err)
	}
	if c.HousekeepingInterval <= 0 {
		return fmt.Errorf("invalid housekeeping interval: %s", c.Housekeeping.Interval)
	}

	if c.Housekeeping.OrphanMinAge == "" {
		c.Housekeeping.OrphanMinAge = "1m"
	}
	if c.OrphanMinAge, err = ParseDuration(c.Housekeeping.OrphanMinAge); err != nil {
		return fmt.Errorf("invalid orphan_min_age: %w", err)
	}
	if c.OrphanMinAge < 0 {
		return fmt.Errorf("invalid orphan_min_age: %s", c.Housekeeping.OrphanMinAge)
	}

	return nil
}
