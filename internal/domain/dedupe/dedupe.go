// Package dedupe remembers recently ingested uploads so the same file is not imported twice.
package dedupe

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sync"

	"github.com/okian/fairway/internal/domain/model"
)

const defaultMaxSize = 10000

// Deduper records upload digests.
type Deduper interface {
	// SeenAndRecord reports whether key was already recorded, recording it if not.
	SeenAndRecord(ctx context.Context, key string) bool
	// Unrecord forgets key so a failed ingestion can be retried.
	Unrecord(ctx context.Context, key string)
	Size() int64
}

// Digest returns the key for an upload: sha256 over the source tag and the file bytes.
func Digest(source model.Source, r io.Reader) (string, error) {
	h := sha256.New()
	h.Write([]byte(source))
	h.Write([]byte{0})
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("digest upload: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// memoryDeduper keeps keys in insertion order; when full the oldest key is evicted.
// A maxSize of zero or less disables eviction.
type memoryDeduper struct {
	mu      sync.Mutex
	keys    map[string]*list.Element
	order   *list.List // front = newest
	maxSize int
}

// NewInMemoryDeduper creates a bounded in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &memoryDeduper{
		keys:    make(map[string]*list.Element),
		order:   list.New(),
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *memoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.keys[key]; ok {
		return true
	}
	if d.maxSize > 0 && d.order.Len() >= d.maxSize {
		oldest := d.order.Back()
		d.order.Remove(oldest)
		delete(d.keys, oldest.Value.(string))
	}
	d.keys[key] = d.order.PushFront(key)
	return false
}

func (d *memoryDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if e, ok := d.keys[key]; ok {
		d.order.Remove(e)
		delete(d.keys, key)
	}
}

func (d *memoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(d.order.Len())
}
