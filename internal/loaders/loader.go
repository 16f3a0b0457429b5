package loaders

import (
	"context"
	"sync"
	"time"

	"ideagraph.backend/pkg/metrics"
)

// BatchFunc resolves many keys in one call. Keys absent from the map resolve
// to the zero value of V.
type BatchFunc[K comparable, V any] func(ctx context.Context, keys []K) (map[K]V, error)

// Config tunes batching. Wait is how long the first key of a batch waits for
// company; MaxBatch dispatches early once that many keys are pending.
type Config struct {
	Wait     time.Duration
	MaxBatch int
}

type result[V any] struct {
	value V
	err   error
	done  chan struct{}
}

type batch[K comparable, V any] struct {
	keys    []K
	results []*result[V]
	timer   *time.Timer
}

// Loader coalesces single-key lookups made within one batch window and caches
// every result for its own lifetime. It is meant to live for one request.
type Loader[K comparable, V any] struct {
	ctx     context.Context
	name    string
	fetch   BatchFunc[K, V]
	cfg     Config
	metrics *metrics.Metrics

	mu      sync.Mutex
	cache   map[K]*result[V]
	pending *batch[K, V]
}

// New creates a loader whose batches run with ctx
func New[K comparable, V any](ctx context.Context, name string, cfg Config, m *metrics.Metrics, fetch BatchFunc[K, V]) *Loader[K, V] {
	if cfg.Wait <= 0 {
		cfg.Wait = 2 * time.Millisecond
	}
	if cfg.MaxBatch <= 0 {
		cfg.MaxBatch = 100
	}
	return &Loader[K, V]{
		ctx:     ctx,
		name:    name,
		fetch:   fetch,
		cfg:     cfg,
		metrics: m,
		cache:   make(map[K]*result[V]),
	}
}

// Load returns the value for key, joining the current batch if one is open
func (l *Loader[K, V]) Load(ctx context.Context, key K) (V, error) {
	l.mu.Lock()
	r, ok := l.cache[key]
	if !ok {
		r = &result[V]{done: make(chan struct{})}
		l.cache[key] = r
		l.enqueue(key, r)
	}
	l.mu.Unlock()

	select {
	case <-r.done:
		return r.value, r.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// LoadAll loads every key and returns the values in key order
func (l *Loader[K, V]) LoadAll(ctx context.Context, keys []K) ([]V, error) {
	type slot struct {
		value V
		err   error
	}
	slots := make([]slot, len(keys))
	var wg sync.WaitGroup
	for i, key := range keys {
		wg.Add(1)
		go func(i int, key K) {
			defer wg.Done()
			slots[i].value, slots[i].err = l.Load(ctx, key)
		}(i, key)
	}
	wg.Wait()

	out := make([]V, len(keys))
	for i, s := range slots {
		if s.err != nil {
			return nil, s.err
		}
		out[i] = s.value
	}
	return out, nil
}

// Prime seeds the cache with a known value
func (l *Loader[K, V]) Prime(key K, value V) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.cache[key]; ok {
		return
	}
	r := &result[V]{value: value, done: make(chan struct{})}
	close(r.done)
	l.cache[key] = r
}

// enqueue must be called with mu held
func (l *Loader[K, V]) enqueue(key K, r *result[V]) {
	if l.pending == nil {
		b := &batch[K, V]{}
		b.timer = time.AfterFunc(l.cfg.Wait, func() { l.flush(b) })
		l.pending = b
	}
	b := l.pending
	b.keys = append(b.keys, key)
	b.results = append(b.results, r)

	if len(b.keys) >= l.cfg.MaxBatch {
		b.timer.Stop()
		l.pending = nil
		go l.dispatch(b)
	}
}

func (l *Loader[K, V]) flush(b *batch[K, V]) {
	l.mu.Lock()
	if l.pending != b {
		l.mu.Unlock()
		return
	}
	l.pending = nil
	l.mu.Unlock()
	l.dispatch(b)
}

func (l *Loader[K, V]) dispatch(b *batch[K, V]) {
	l.metrics.ObserveBatch(l.name, len(b.keys))

	values, err := l.fetch(l.ctx, b.keys)
	for i, key := range b.keys {
		r := b.results[i]
		if err != nil {
			r.err = err
		} else {
			r.value = values[key]
		}
		close(r.done)
	}
}
