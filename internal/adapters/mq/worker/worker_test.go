package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/fairway/internal/adapters/mq/queue"
	worker "github.com/okian/fairway/internal/adapters/mq/worker"
	"github.com/okian/fairway/internal/adapters/repository"
	model "github.com/okian/fairway/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

type mockShots struct {
	mu     sync.RWMutex
	shots  map[string][]model.Shot
	errors map[string]error
}

func newMockShots() *mockShots {
	return &mockShots{shots: map[string][]model.Shot{}, errors: map[string]error{}}
}

func (m *mockShots) Shots(_ context.Context, id string) ([]model.Shot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err, ok := m.errors[id]; ok {
		return nil, err
	}
	shots, ok := m.shots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return shots, nil
}

func (m *mockShots) add(id string, carries ...float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range carries {
		var s model.Shot
		s.Set(model.FieldCarryDistance, c)
		m.shots[id] = append(m.shots[id], s)
	}
}

func (m *mockShots) fail(id string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[id] = err
}

type mockSink struct {
	mu        sync.Mutex
	summaries map[string]model.Summary
}

func newMockSink() *mockSink { return &mockSink{summaries: map[string]model.Summary{}} }

func (m *mockSink) PutSummary(_ context.Context, id string, s model.Summary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries[id] = s
}

func (m *mockSink) get(id string) (model.Summary, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.summaries[id]
	return s, ok
}

func (m *mockSink) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.summaries)
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestWorker(t *testing.T) {
	convey.Convey("Given a running worker", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(10))
		shots := newMockShots()
		sink := newMockSink()
		w := worker.New(q, shots, sink, worker.WithName("test-worker"))

		ctx, cancel := context.WithCancel(context.Background())
		convey.Reset(cancel)
		go w.Run(ctx)

		convey.Convey("When a job for a stored session arrives", func() {
			shots.add("s1", 100, 150)
			convey.So(q.Enqueue(ctx, queue.SummaryJob{SessionID: "s1"}), convey.ShouldBeNil)

			convey.Convey("Then its summary is written", func() {
				convey.So(eventually(func() bool { _, ok := sink.get("s1"); return ok }), convey.ShouldBeTrue)
				sum, _ := sink.get("s1")
				convey.So(sum.ShotCount, convey.ShouldEqual, 2)
				convey.So(sum.AvgCarryDistance, convey.ShouldEqual, 125.0)
			})
		})

		convey.Convey("When the session was deleted or loading fails", func() {
			shots.fail("broken", errors.New("disk"))
			convey.So(q.Enqueue(ctx, queue.SummaryJob{SessionID: "gone"}), convey.ShouldBeNil)
			convey.So(q.Enqueue(ctx, queue.SummaryJob{SessionID: "broken"}), convey.ShouldBeNil)
			shots.add("after", 90)
			convey.So(q.Enqueue(ctx, queue.SummaryJob{SessionID: "after"}), convey.ShouldBeNil)

			convey.Convey("Then nothing is written for them and the worker keeps going", func() {
				convey.So(eventually(func() bool { _, ok := sink.get("after"); return ok }), convey.ShouldBeTrue)
				_, gone := sink.get("gone")
				_, broken := sink.get("broken")
				convey.So(gone, convey.ShouldBeFalse)
				convey.So(broken, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When shutting down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
			defer shutdownCancel()

			convey.Convey("Then it stops gracefully and twice is harmless", func() {
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a started pool", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(100))
		shots := newMockShots()
		sink := newMockSink()
		pool := worker.NewPool(4, q, shots, sink)
		convey.So(pool.Size(), convey.ShouldEqual, 4)

		ctx, cancel := context.WithCancel(context.Background())
		convey.Reset(cancel)
		pool.Start(ctx)

		convey.Convey("When many jobs are queued and the pool shuts down", func() {
			for i := 0; i < 50; i++ {
				id := fmt.Sprintf("s%d", i)
				shots.add(id, float64(i))
				convey.So(q.Enqueue(ctx, queue.SummaryJob{SessionID: id}), convey.ShouldBeNil)
			}
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer shutdownCancel()
			err := pool.Shutdown(shutdownCtx)

			convey.Convey("Then pending jobs are drained first", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(sink.len(), convey.ShouldEqual, 50)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given a pool with no explicit size", t, func() {
		pool := worker.NewPool(0, queue.NewInMemoryQueue(), newMockShots(), newMockSink())

		convey.Convey("Then it has at least one worker", func() {
			convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
		})
	})
}
