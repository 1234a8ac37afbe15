package loadtest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/fairway/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o600
)

// Run executes the complete load test: health check, generation, concurrent
// upload and verification of every session's statistics.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	log := logger.Named("loadtest")
	st := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting load test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("sessions", cfg.Sessions),
		logger.Int("shotsPerSession", cfg.ShotsPerSession),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout))

	client := NewClient(cfg.BaseURL, cfg.Timeout)
	if err := client.Health(ctx); err != nil {
		return st, err
	}

	samples, err := generate(cfg)
	if err != nil {
		return st, fmt.Errorf("generate sessions: %w", err)
	}
	st.Generated = len(samples)

	if cfg.OutputDir != "" {
		if err := Save(cfg.OutputDir, samples); err != nil {
			log.Warn(ctx, "failed to save generated files", logger.Error(err))
		}
	}

	var uploaded, duplicate, failed, verified, mismatched atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for _, s := range samples {
		g.Go(func() error {
			res, err := client.Upload(gctx, s)
			switch {
			case errors.Is(err, ErrDuplicate):
				duplicate.Add(1)
				return nil
			case err != nil:
				failed.Add(1)
				log.Warn(gctx, "upload failed", logger.String("file", s.Filename), logger.Error(err))
				return nil
			}
			uploaded.Add(1)

			if err := verify(gctx, client, s, res.SessionID); err != nil {
				mismatched.Add(1)
				log.Warn(gctx, "verification failed",
					logger.String("file", s.Filename),
					logger.String("session_id", res.SessionID),
					logger.Error(err))
			} else {
				verified.Add(1)
			}

			if cfg.Cleanup {
				if err := client.Delete(gctx, res.SessionID); err != nil {
					log.Warn(gctx, "cleanup failed", logger.String("session_id", res.SessionID), logger.Error(err))
				}
			}
			return gctx.Err()
		})
	}
	waitErr := g.Wait()

	st.Uploaded = int(uploaded.Load())
	st.Duplicate = int(duplicate.Load())
	st.Failed = int(failed.Load())
	st.Verified = int(verified.Load())
	st.Mismatched = int(mismatched.Load())
	st.EndTime = time.Now()
	st.Duration = st.EndTime.Sub(st.StartTime)
	logStats(ctx, log, st)

	switch {
	case waitErr != nil:
		return st, waitErr
	case st.Mismatched > 0:
		return st, fmt.Errorf("%w: %d of %d sessions", ErrMismatch, st.Mismatched, st.Uploaded)
	case st.Failed > 0:
		return st, fmt.Errorf("%w: %d uploads failed", ErrRequest, st.Failed)
	}
	return st, nil
}

func generate(cfg *Config) ([]Sample, error) {
	gen := NewGenerator(cfg.Seed)
	samples := make([]Sample, 0, cfg.Sessions)
	for i := 0; i < cfg.Sessions; i++ {
		s, err := gen.Sample(i, cfg.Source, cfg.ShotsPerSession)
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, nil
}

func verify(ctx context.Context, client *Client, s Sample, id string) error {
	want, err := Expected(ctx, s)
	if err != nil {
		return err
	}
	got, err := client.Stats(ctx, id)
	if err != nil {
		return err
	}
	return Compare(want, got)
}

// Save writes samples into dir, one file each.
func Save(dir string, samples []Sample) error {
	if err := os.MkdirAll(dir, directoryPermission); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	for _, s := range samples {
		if err := os.WriteFile(filepath.Join(dir, s.Filename), s.Data, filePermission); err != nil {
			return fmt.Errorf("write %s: %w", s.Filename, err)
		}
	}
	return nil
}

func logStats(ctx context.Context, log logger.Logger, st *Stats) {
	var perSecond float64
	if st.Duration > 0 {
		perSecond = float64(st.Uploaded) / st.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("generated", st.Generated),
		logger.Int("uploaded", st.Uploaded),
		logger.Int("duplicate", st.Duplicate),
		logger.Int("failed", st.Failed),
		logger.Int("verified", st.Verified),
		logger.Int("mismatched", st.Mismatched),
		logger.Duration("duration", st.Duration),
		logger.Float64("uploadsPerSecond", perSecond))
}
