package repository

import (
	"time"

	"github.com/google/uuid"
)

const defaultMetricsInterval = 5 * time.Second

type options struct {
	metricsInterval time.Duration
	newID           func() string
}

func defaultOptions() options {
	return options{
		metricsInterval: defaultMetricsInterval,
		newID:           uuid.NewString,
	}
}

// Option configures a store.
type Option func(*options)

// WithMetricsUpdateInterval sets how often the stored session gauge is refreshed.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(o *options) {
		if interval > 0 {
			o.metricsInterval = interval
		}
	}
}

// WithIDGenerator replaces the uuid based session identity generator.
func WithIDGenerator(gen func() string) Option {
	return func(o *options) {
		if gen != nil {
			o.newID = gen
		}
	}
}
