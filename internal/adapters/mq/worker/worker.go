// Package worker computes session summaries off the upload path.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/fairway/internal/adapters/mq/queue"
	"github.com/okian/fairway/internal/adapters/repository"
	"github.com/okian/fairway/internal/domain/model"
	"github.com/okian/fairway/internal/domain/stats"
	"github.com/okian/fairway/pkg/logger"
	"github.com/okian/fairway/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.SummaryJob
}

// ShotReader loads the shots of a stored session.
type ShotReader interface {
	Shots(ctx context.Context, sessionID string) ([]model.Shot, error)
}

// SummarySink receives computed summaries.
type SummarySink interface {
	PutSummary(ctx context.Context, sessionID string, summary model.Summary)
}

// Worker drains summary jobs until its queue closes or it is stopped.
type Worker struct {
	queue  Queue
	shots  ShotReader
	sink   SummarySink
	name   string
	logger logger.Logger
	active *atomic.Int64

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}
}

// New creates a worker.
func New(q Queue, shots ShotReader, sink SummarySink, opts ...Option) *Worker {
	s := settings{name: "worker", logger: logger.Discard()}
	for _, opt := range opts {
		opt(&s)
	}
	return &Worker{
		queue:    q,
		shots:    shots,
		sink:     sink,
		name:     s.name,
		logger:   s.logger.Named(s.name),
		active:   new(atomic.Int64),
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run processes jobs until ctx is canceled, Shutdown is called or the queue closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, job); err != nil {
				w.logger.Error(ctx, "summary job failed",
					logger.String("session_id", job.SessionID),
					logger.Error(err))
			}
		}
	}
}

// Shutdown stops the worker and waits for the current job.
func (w *Worker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *Worker) process(ctx context.Context, job queue.SummaryJob) error {
	metrics.UpdateWorkerActiveCount(int(w.active.Add(1)))
	start := time.Now()
	defer func() {
		metrics.UpdateWorkerActiveCount(int(w.active.Add(-1)))
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	shots, err := w.shots.Shots(ctx, job.SessionID)
	if errors.Is(err, repository.ErrNotFound) {
		// Deleted before the job ran.
		w.logger.Debug(ctx, "session gone", logger.String("session_id", job.SessionID))
		return nil
	}
	if err != nil {
		metrics.RecordWorkerError()
		return fmt.Errorf("failed to load shots for %s: %w", job.SessionID, err)
	}

	w.sink.PutSummary(ctx, job.SessionID, stats.Summarize(shots))
	return nil
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*Worker
	queue   Queue
	logger  logger.Logger
	active  atomic.Int64
}

// NewPool creates workerCount workers; a count below one means one per CPU.
func NewPool(workerCount int, q Queue, shots ShotReader, sink SummarySink, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	s := settings{logger: logger.Discard()}
	for _, opt := range opts {
		opt(&s)
	}

	p := &Pool{
		workers: make([]*Worker, workerCount),
		queue:   q,
		logger:  s.logger.Named("worker-pool"),
	}
	for i := range p.workers {
		w := New(q, shots, sink, WithName("worker-"+strconv.Itoa(i)), WithLogger(s.logger))
		w.active = &p.active
		p.workers[i] = w
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(0)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue, lets workers drain it and waits for them.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
		}
	}
	return nil
}
