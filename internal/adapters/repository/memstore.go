package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/okian/fairway/internal/domain/model"
	"github.com/okian/fairway/pkg/metrics"
)

// MemStore keeps sessions in memory. Values are copied on the way in and out.
type MemStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
	opts     options

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewMemStore creates an empty store and starts its metrics updater.
func NewMemStore(ctx context.Context, opts ...Option) *MemStore {
	s := &MemStore{
		sessions: make(map[string]*model.Session),
		opts:     defaultOptions(),
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(&s.opts)
	}
	startMetricsUpdater(ctx, &s.wg, s.stopChan, s.opts.metricsInterval, s.Count)
	return s
}

func (s *MemStore) Save(_ context.Context, in *model.Session) (out *model.Session, err error) {
	defer func(start time.Time) { observe("save", start, err) }(time.Now())
	if err := validateForSave(in); err != nil {
		return nil, err
	}

	c := in.Clone()
	if c.ID == "" {
		c.ID = s.opts.newID()
	}
	c.ShotCount = len(c.Shots)
	for i := range c.Shots {
		c.Shots[i].SessionID = c.ID
	}

	s.mu.Lock()
	s.sessions[c.ID] = c
	s.mu.Unlock()
	return c.Clone(), nil
}

func (s *MemStore) Get(_ context.Context, id string) (out *model.Session, err error) {
	defer func(start time.Time) { observe("get", start, err) }(time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess.Clone(), nil
}

func (s *MemStore) List(_ context.Context) ([]model.Session, error) {
	defer func(start time.Time) { observe("list", start, nil) }(time.Now())
	return s.collect(func(*model.Session) bool { return true }), nil
}

func (s *MemStore) Search(_ context.Context, title string) ([]model.Session, error) {
	defer func(start time.Time) { observe("search", start, nil) }(time.Now())
	needle := strings.ToLower(title)
	return s.collect(func(sess *model.Session) bool {
		return strings.Contains(strings.ToLower(sess.Title), needle)
	}), nil
}

func (s *MemStore) collect(keep func(*model.Session) bool) []model.Session {
	s.mu.RLock()
	out := make([]model.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		if keep(sess) {
			out = append(out, sess.Header())
		}
	}
	s.mu.RUnlock()
	sortNewestFirst(out)
	return out
}

func (s *MemStore) Update(_ context.Context, id string, patch model.SessionPatch) (out *model.Session, err error) {
	defer func(start time.Time) { observe("update", start, err) }(time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Title != nil {
		sess.Title = *patch.Title
	}
	if patch.Location != nil {
		sess.Location = *patch.Location
	}
	if patch.SessionDate != nil {
		sess.SessionDate = *patch.SessionDate
	}
	h := sess.Header()
	return &h, nil
}

func (s *MemStore) Delete(_ context.Context, id string) (err error) {
	defer func(start time.Time) { observe("delete", start, err) }(time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *MemStore) Shots(ctx context.Context, id string) ([]model.Shot, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sortByShotNumber(sess.Shots)
	return sess.Shots, nil
}

func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the metrics updater.
func (s *MemStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

func sortNewestFirst(sessions []model.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if !sessions[i].UploadDate.Equal(sessions[j].UploadDate) {
			return sessions[i].UploadDate.After(sessions[j].UploadDate)
		}
		return sessions[i].ID < sessions[j].ID
	})
}

// sortByShotNumber orders by number, keeping file order for ties and putting unnumbered shots last.
func sortByShotNumber(shots []model.Shot) {
	sort.SliceStable(shots, func(i, j int) bool {
		a, b := shots[i].ShotNumber, shots[j].ShotNumber
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return *a < *b
	})
}

func startMetricsUpdater(ctx context.Context, wg *sync.WaitGroup, stop <-chan struct{}, interval time.Duration, count func(context.Context) int) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-ticker.C:
				metrics.UpdateStoredSessions(count(ctx))
			}
		}
	}()
}
