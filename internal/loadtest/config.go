// Package loadtest generates synthetic session files, uploads them to a
// running server and checks the statistics it reports.
package loadtest

import (
	"time"

	"github.com/okian/fairway/internal/domain/model"
)

// Config holds configuration for a load test run.
type Config struct {
	BaseURL         string        // Base URL of the service
	Sessions        int           // Number of session files to upload
	ShotsPerSession int           // Shots in each generated file
	Source          model.Source  // Empty alternates between sources
	Workers         int           // Concurrent uploads
	Timeout         time.Duration // HTTP request timeout
	Seed            uint64        // Generator seed
	OutputDir       string        // Keeps generated files when set
	Cleanup         bool          // Delete uploaded sessions afterwards
}

// Stats holds run statistics.
type Stats struct {
	Generated  int
	Uploaded   int
	Duplicate  int
	Failed     int
	Verified   int
	Mismatched int
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}
