// Package config defines service configuration and its defaults.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
	_ "time/tzdata" // zones resolve without a system database

	"github.com/okian/fairway/internal/domain/model"
)

// Store drivers accepted by StoreDriver.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreDriver selects memory, sqlite or postgres persistence.
	StoreDriver string `koanf:"store_driver"`
	// StoreDSN is a file path for sqlite and a connection string for postgres.
	StoreDSN string `koanf:"store_dsn"`

	// MaxUploadBytes caps the multipart request body.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`
	// UploadRatePerSec and UploadBurst throttle POST /api/sessions/upload.
	UploadRatePerSec float64 `koanf:"upload_rate_per_sec"`
	UploadBurst      int     `koanf:"upload_burst"`

	// SummaryQueueSize bounds the summary job queue.
	SummaryQueueSize int `koanf:"summary_queue_size"`
	// WorkerCount sets the number of summary workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeUploads, when set, rejects a file already ingested for the same source.
	DedupeUploads bool `koanf:"dedupe_uploads"`
	DedupeSize    int  `koanf:"dedupe_size"`

	// Timezone names the IANA zone Awesome Golf timestamps are read in.
	Timezone string `koanf:"timezone"`
	// DefaultSource applies when an upload names no source.
	DefaultSource string `koanf:"default_source"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":8080",
		StoreDriver:      StoreMemory,
		MaxUploadBytes:   10 << 20,
		UploadRatePerSec: 5,
		UploadBurst:      10,
		SummaryQueueSize: 1024,
		WorkerCount:      runtime.NumCPU(),
		DedupeUploads:    false,
		DedupeSize:       10_000,
		Timezone:         "UTC",
		DefaultSource:    string(model.SourceGarminR10),
	}
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %w", ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}

// Validate checks values that would otherwise fail at startup.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxUploadBytes <= 0:
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	case c.UploadRatePerSec <= 0 || c.UploadBurst <= 0:
		return fmt.Errorf("%w: upload rate and burst must be positive", ErrInvalidConfig)
	case c.SummaryQueueSize <= 0:
		return fmt.Errorf("%w: summary_queue_size must be positive", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	}

	switch strings.ToLower(c.StoreDriver) {
	case StoreMemory:
	case StoreSQLite, StorePostgres:
		if c.StoreDSN == "" {
			return fmt.Errorf("%w: store_dsn is required for %s", ErrInvalidConfig, c.StoreDriver)
		}
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}

	if _, err := model.ParseSource(c.DefaultSource); err != nil {
		return fmt.Errorf("%w: default_source: %w", ErrInvalidConfig, err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}
