package ingest

import (
	"time"

	"github.com/okian/fairway/pkg/logger"
)

// Option configures an Ingestor.
type Option func(*Ingestor)

// WithLogger sets the logger used for skipped rows and persisted sessions.
func WithLogger(l logger.Logger) Option {
	return func(i *Ingestor) {
		if l != nil {
			i.log = l
		}
	}
}

// WithClock overrides the time source for upload and fallback session dates.
func WithClock(now func() time.Time) Option {
	return func(i *Ingestor) {
		if now != nil {
			i.now = now
		}
	}
}

// WithLocation sets the zone positional shot times are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(i *Ingestor) {
		if loc != nil {
			i.loc = loc
		}
	}
}

// WithMaxSkipDetails bounds how many skipped rows are described in an Outcome.
// Every skip is still counted.
func WithMaxSkipDetails(n int) Option {
	return func(i *Ingestor) {
		if n >= 0 {
			i.maxSkipDetails = n
		}
	}
}
