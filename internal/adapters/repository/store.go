// Package repository stores sessions and their shots.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/okian/fairway/internal/domain/model"
	"github.com/okian/fairway/pkg/metrics"
)

// Store provides persistence for sessions. A session and its shots are
// written and deleted together.
type Store interface {
	// Save assigns an identity and persists the session with all its shots.
	Save(ctx context.Context, s *model.Session) (*model.Session, error)
	// Get returns the session with its shots in file order.
	Get(ctx context.Context, id string) (*model.Session, error)
	// List returns every session without shots, newest upload first.
	List(ctx context.Context) ([]model.Session, error)
	// Search lists sessions whose title contains title, ignoring case.
	Search(ctx context.Context, title string) ([]model.Session, error)
	// Update applies a metadata patch and returns the session without shots.
	Update(ctx context.Context, id string, patch model.SessionPatch) (*model.Session, error)
	// Delete removes the session and its shots.
	Delete(ctx context.Context, id string) error
	// Shots returns a session's shots ordered by shot number; unnumbered shots come last.
	Shots(ctx context.Context, id string) ([]model.Shot, error)
	// Count returns the number of stored sessions.
	Count(ctx context.Context) int
	Close() error
}

func validateForSave(s *model.Session) error {
	if s == nil || len(s.Shots) == 0 {
		return ErrNoShots
	}
	return nil
}

// observe records latency and failure of one store operation.
func observe(op string, start time.Time, err error) {
	metrics.RecordStoreLatency(op, float64(time.Since(start).Microseconds())/1000)
	if err != nil && !errors.Is(err, ErrNotFound) {
		metrics.RecordStoreError(op)
	}
}
