package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	apperrors "github.com/kbukum/poolfetch/errors"
	"github.com/kbukum/poolfetch/logger"
	"github.com/kbukum/poolfetch/observability"
)

// State is the registry lifecycle state. It only moves forward.
type State int32

const (
	StateActive State = iota
	StateShuttingDown
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateShuttingDown:
		return "shutting_down"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ErrRegistryClosed is returned by GetPool once shutdown has begun.
var ErrRegistryClosed = apperrors.PoolClosed("pool registry")

type entry struct {
	pool       *Pool
	createdAt  time.Time
	lastUsedAt time.Time
}

// RegistryStats counts pools over the registry's lifetime.
type RegistryStats struct {
	Created int64
	Evicted int64
}

// Registry maps origins to pools. It is safe for concurrent use.
type Registry struct {
	cfg      Config
	log      *logger.Logger
	metrics  *observability.Metrics
	now      func() time.Time
	poolOpts []PoolOption

	mu      sync.Mutex
	entries map[string]*entry
	state   atomic.Int32

	created atomic.Int64
	evicted atomic.Int64

	evictMu     sync.Mutex
	evictCancel context.CancelFunc
	evictDone   chan struct{}
}

// NewRegistry creates an empty registry whose pools share cfg.
func NewRegistry(cfg Config, opts ...RegistryOption) (*Registry, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Registry{
		cfg:     cfg,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Get("pool")
	}
	return r, nil
}

// Config returns the configuration shared by every pool.
func (r *Registry) Config() Config { return r.cfg }

// State returns the current lifecycle state.
func (r *Registry) State() State { return State(r.state.Load()) }

// Len returns the number of registered pools.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Stats returns lifetime counters.
func (r *Registry) Stats() RegistryStats {
	return RegistryStats{Created: r.created.Load(), Evicted: r.evicted.Load()}
}

// GetPool returns the pool for origin, creating it on first use. origin may
// be a full URL. Concurrent first calls for the same origin all receive the
// same pool.
func (r *Registry) GetPool(origin string) (*Pool, error) {
	if r.State() != StateActive {
		return nil, ErrRegistryClosed
	}
	key, err := ParseOrigin(origin)
	if err != nil {
		return nil, err
	}

	now := r.now()

	r.mu.Lock()
	if r.State() != StateActive {
		r.mu.Unlock()
		return nil, ErrRegistryClosed
	}
	if e, ok := r.entries[key]; ok {
		if now.After(e.lastUsedAt) {
			e.lastUsedAt = now
		}
		r.mu.Unlock()
		return e.pool, nil
	}

	opts := append([]PoolOption{WithPoolLogger(r.log), WithPoolClock(r.now)}, r.poolOpts...)
	p, err := NewPool(key, r.cfg, opts...)
	if err != nil {
		r.mu.Unlock()
		if apperrors.IsCode(err, apperrors.ErrCodeInvalidOrigin) {
			return nil, err
		}
		return nil, apperrors.PoolCreateFailed(key, err)
	}
	r.entries[key] = &entry{pool: p, createdAt: now, lastUsedAt: now}
	r.mu.Unlock()

	r.created.Add(1)
	r.metrics.RecordPoolCreated(context.Background(), key)
	r.log.Debug("Created connection pool", logger.Fields(
		logger.FieldOrigin, key,
		logger.FieldPoolID, p.ID(),
	))
	return p, nil
}

// EvictIdle removes and closes every pool unused for longer than IdleTimeout
// and returns how many were evicted. Close failures are logged.
func (r *Registry) EvictIdle(ctx context.Context) int {
	now := r.now()

	r.mu.Lock()
	var stale []*Pool
	for origin, e := range r.entries {
		if now.Sub(e.lastUsedAt) > r.cfg.IdleTimeout {
			stale = append(stale, e.pool)
			delete(r.entries, origin)
		}
	}
	r.mu.Unlock()

	if len(stale) == 0 {
		return 0
	}

	r.closePools(ctx, stale, observability.ReasonIdle)
	r.evicted.Add(int64(len(stale)))
	r.log.Debug("Evicted idle connection pools", logger.Fields(logger.FieldCount, len(stale)))
	return len(stale)
}

// StartEviction runs EvictIdle every EvictionInterval until StopEviction or
// CloseAll. Calling it while already running is a no-op.
func (r *Registry) StartEviction() {
	r.evictMu.Lock()
	defer r.evictMu.Unlock()
	if r.evictCancel != nil || r.State() != StateActive {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	r.evictCancel = cancel
	r.evictDone = done
	go r.evictLoop(ctx, done)
}

// StopEviction stops the eviction schedule and waits for it to exit.
func (r *Registry) StopEviction() {
	r.evictMu.Lock()
	defer r.evictMu.Unlock()
	if r.evictCancel == nil {
		return
	}
	r.evictCancel()
	<-r.evictDone
	r.evictCancel = nil
	r.evictDone = nil
}

// EvictionRunning reports whether the eviction schedule is active.
func (r *Registry) EvictionRunning() bool {
	r.evictMu.Lock()
	defer r.evictMu.Unlock()
	return r.evictCancel != nil
}

func (r *Registry) evictLoop(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(r.cfg.EvictionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.EvictIdle(ctx)
		}
	}
}

// CloseAll stops eviction and closes every pool. The registry never reopens:
// later GetPool calls fail with ErrRegistryClosed. Close failures are logged,
// not returned. Calling CloseAll again is a no-op.
func (r *Registry) CloseAll(ctx context.Context) {
	if !r.state.CompareAndSwap(int32(StateActive), int32(StateShuttingDown)) {
		return
	}
	r.StopEviction()

	r.mu.Lock()
	pools := make([]*Pool, 0, len(r.entries))
	for _, e := range r.entries {
		pools = append(pools, e.pool)
	}
	r.entries = make(map[string]*entry)
	r.mu.Unlock()

	r.closePools(ctx, pools, observability.ReasonShutdown)
	r.state.Store(int32(StateClosed))
	r.log.Info("Closed all connection pools", logger.Fields(logger.FieldCount, len(pools)))
}

// closePools closes pools concurrently and waits for all of them.
func (r *Registry) closePools(ctx context.Context, pools []*Pool, reason string) {
	var wg sync.WaitGroup
	for _, p := range pools {
		wg.Add(1)
		go func(p *Pool) {
			defer wg.Done()
			if err := p.Close(ctx); err != nil {
				r.log.Warn("Failed to close connection pool", logger.Fields(
					logger.FieldOrigin, p.Origin(),
					logger.FieldPoolID, p.ID(),
					logger.FieldError, err.Error(),
				))
			}
		}(p)
	}
	wg.Wait()
	r.metrics.RecordPoolsClosed(ctx, len(pools), reason)
}
