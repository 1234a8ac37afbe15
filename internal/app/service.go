// Package service wires ingestion, storage and the summary pipeline into the
// operations the HTTP API exposes.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/okian/fairway/internal/adapters/export"
	"github.com/okian/fairway/internal/adapters/mq/queue"
	"github.com/okian/fairway/internal/adapters/mq/worker"
	"github.com/okian/fairway/internal/adapters/repository"
	"github.com/okian/fairway/internal/domain/dedupe"
	"github.com/okian/fairway/internal/domain/ingest"
	"github.com/okian/fairway/internal/domain/model"
	"github.com/okian/fairway/internal/domain/stats"
	"github.com/okian/fairway/internal/domain/types"
	"github.com/okian/fairway/pkg/logger"
	"github.com/okian/fairway/pkg/metrics"
)

const stopTimeout = 10 * time.Second

// UploadRequest is one file to ingest with its session metadata.
type UploadRequest struct {
	File     ingest.Upload
	Title    string
	Location string
	// Source selects the parser; empty means the configured default.
	Source model.Source
}

// UpdateRequest edits session metadata; nil fields are left alone.
type UpdateRequest struct {
	Title       *string
	Location    *string
	SessionDate *time.Time
}

// Service implements the API dependencies for session ingestion.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	ingestor *ingest.Ingestor
	deduper  dedupe.Deduper
	queue    *queue.InMemoryQueue
	pool     *worker.Pool

	// Configuration
	workerCount   int
	queueSize     int
	dedupeEnabled bool
	dedupeSize    int
	location      *time.Location
	defaultSource model.Source
	now           func() time.Time

	// Summary cache, queued summary jobs and upload digests, by session id.
	cacheMu   sync.RWMutex
	summaries map[string]model.Summary
	pending   map[string]struct{}
	digests   map[string]string

	started bool
	logger  logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   runtime.NumCPU(),
		queueSize:     1024,
		dedupeEnabled: false,
		dedupeSize:    10_000,
		location:      time.UTC,
		defaultSource: model.SourceGarminR10,
		now:           time.Now,
		summaries:     make(map[string]model.Summary),
		pending:       make(map[string]struct{}),
		digests:       make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the components and starts the summary workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting ingestion service...")

	if s.store == nil {
		s.store = repository.NewMemStore(ctx)
		s.logger.Info(ctx, "using memory store")
	}
	if s.dedupeEnabled {
		s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	}
	s.ingestor = ingest.New(s.store,
		ingest.WithLogger(s.logger.Named("ingest")),
		ingest.WithLocation(s.location),
		ingest.WithClock(s.now),
	)
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s.store, s,
		worker.WithLogger(s.logger.Named("summary")))
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "ingestion service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Bool("dedupe", s.dedupeEnabled),
		logger.String("location", s.location.String()),
	)
	return nil
}

// Stop drains the summary queue and closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping ingestion service...")
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "summary workers did not stop cleanly", logger.Error(err))
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error(ctx, "error closing store", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "ingestion service stopped")
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Upload ingests one file. A file already ingested for the same source is
// rejected with ErrDuplicateUpload while de-duplication is on.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (*ingest.Outcome, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	source := req.Source
	if source == "" {
		source = s.defaultSource
	}

	digest, err := s.recordDigest(ctx, source, req.File)
	if err != nil {
		return nil, err
	}

	out, err := s.ingestor.Ingest(ctx, req.File, req.Title, req.Location, source)
	if err != nil {
		if digest != "" {
			s.deduper.Unrecord(ctx, digest)
		}
		return nil, err
	}

	id := out.Session.ID
	s.cacheMu.Lock()
	if digest != "" {
		s.digests[id] = digest
	}
	s.pending[id] = struct{}{}
	s.cacheMu.Unlock()

	if err := s.queue.Enqueue(ctx, queue.SummaryJob{SessionID: id, Source: source}); err != nil {
		// The listing computes it on demand instead.
		s.cacheMu.Lock()
		delete(s.pending, id)
		s.cacheMu.Unlock()
		s.logger.Warn(ctx, "summary not queued",
			logger.String("session_id", id),
			logger.Error(err))
	}
	return out, nil
}

func (s *Service) recordDigest(ctx context.Context, source model.Source, up ingest.Upload) (string, error) {
	if s.deduper == nil || up == nil || up.Size() == 0 || !source.Valid() {
		return "", nil
	}
	rc, err := up.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ingest.ErrRead, err)
	}
	defer rc.Close()

	digest, err := dedupe.Digest(source, rc)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ingest.ErrRead, err)
	}
	if s.deduper.SeenAndRecord(ctx, digest) {
		metrics.RecordUploadDuplicate()
		s.logger.Info(ctx, "duplicate upload rejected",
			logger.String("filename", up.Filename()),
			logger.String("source_type", source.String()))
		return "", ErrDuplicateUpload
	}
	return digest, nil
}

// PutSummary stores a summary computed for a queued job. Summaries for
// sessions deleted in the meantime are dropped.
func (s *Service) PutSummary(_ context.Context, id string, sum model.Summary) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if _, ok := s.pending[id]; !ok {
		return
	}
	delete(s.pending, id)
	s.summaries[id] = sum
}

func (s *Service) summary(ctx context.Context, id string) (model.Summary, error) {
	s.cacheMu.RLock()
	sum, ok := s.summaries[id]
	s.cacheMu.RUnlock()
	if ok {
		return sum, nil
	}

	shots, err := s.store.Shots(ctx, id)
	if err != nil {
		return model.Summary{}, err
	}
	sum = stats.Summarize(shots)
	s.cacheMu.Lock()
	s.summaries[id] = sum
	s.cacheMu.Unlock()
	return sum, nil
}

// List returns every session with its summary, newest upload first.
func (s *Service) List(ctx context.Context) ([]types.SessionSummary, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	sessions, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, sessions)
}

// Search lists sessions whose title contains title, ignoring case.
func (s *Service) Search(ctx context.Context, title string) ([]types.SessionSummary, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	sessions, err := s.store.Search(ctx, ingest.Sanitize(title))
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, sessions)
}

func (s *Service) summarize(ctx context.Context, sessions []model.Session) ([]types.SessionSummary, error) {
	out := make([]types.SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		sum, err := s.summary(ctx, sess.ID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, types.NewSessionSummary(sess, sum))
	}
	return out, nil
}

// Get returns a session with its shots.
func (s *Service) Get(ctx context.Context, id string) (*model.Session, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

// Update edits session metadata under the same rules as upload.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*model.Session, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	patch := model.SessionPatch{SessionDate: req.SessionDate}
	if req.Title != nil {
		title := ingest.Sanitize(*req.Title)
		switch {
		case title == "":
			return nil, ingest.ErrEmptyTitle
		case utf8.RuneCountInString(title) > ingest.MaxTitleLength:
			return nil, ingest.ErrTitleTooLong
		}
		patch.Title = &title
	}
	if req.Location != nil {
		location := ingest.Sanitize(*req.Location)
		if utf8.RuneCountInString(location) > ingest.MaxLocationLength {
			return nil, ingest.ErrLocationTooLong
		}
		patch.Location = &location
	}
	return s.store.Update(ctx, id, patch)
}

// Delete removes a session, its shots and its cached summary. The file may
// be uploaded again afterwards.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.cacheMu.Lock()
	delete(s.summaries, id)
	delete(s.pending, id)
	digest, ok := s.digests[id]
	delete(s.digests, id)
	s.cacheMu.Unlock()

	if ok && s.deduper != nil {
		s.deduper.Unrecord(ctx, digest)
	}
	return nil
}

// Shots returns a session's shots ordered by shot number.
func (s *Service) Shots(ctx context.Context, id string) ([]model.Shot, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.store.Shots(ctx, id)
}

// Stats computes the statistics map for a session.
func (s *Service) Stats(ctx context.Context, id string) (map[string]any, error) {
	shots, err := s.Shots(ctx, id)
	if err != nil {
		return nil, err
	}
	return stats.Compute(shots), nil
}

// Export writes a session in format f.
func (s *Service) Export(ctx context.Context, id string, f export.Format, w io.Writer) (*model.Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch f {
	case export.FormatCSV:
		err = export.WriteCSV(w, sess)
	case export.FormatXLSX:
		err = export.WriteXLSX(w, sess, stats.Compute(sess.Shots))
	default:
		err = fmt.Errorf("%w: %q", export.ErrUnknownFormat, f)
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[string]any{
		"started":       s.started,
		"workerCount":   s.workerCount,
		"queueSize":     s.queueSize,
		"dedupeEnabled": s.dedupeEnabled,
		"dedupeSize":    s.dedupeSize,
		"timezone":      s.location.String(),
		"defaultSource": s.defaultSource,
	}

	if s.started {
		ctx := context.Background()
		stored := s.store.Count(ctx)
		out["queueLength"] = s.queue.Len()
		out["storedSessions"] = stored
		out["dedupeEntries"] = s.size()

		s.cacheMu.RLock()
		out["cachedSummaries"] = len(s.summaries)
		s.cacheMu.RUnlock()

		metrics.UpdateStoredSessions(stored)
		metrics.UpdateWorkerCount(s.workerCount)
	}
	return out
}

// Size returns the current number of remembered upload digests.
func (s *Service) Size() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size()
}

func (s *Service) size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
