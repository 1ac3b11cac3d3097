package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Errors returned when a slot cannot be obtained.
var (
	ErrBulkheadFull    = errors.New("bulkhead is full")
	ErrBulkheadTimeout = errors.New("bulkhead wait timeout")
)

// BulkheadConfig configures a bulkhead.
type BulkheadConfig struct {
	// Name is passed to OnReject.
	Name string
	// MaxConcurrent is the number of slots. Values below 1 mean 1.
	MaxConcurrent int
	// MaxWait bounds the wait for a free slot. Zero fails at once when full.
	MaxWait time.Duration
	// OnReject, when set, observes every failed Acquire.
	OnReject func(name string, err error)
}

// Bulkhead is a counting semaphore over a fixed number of slots.
type Bulkhead struct {
	name     string
	maxWait  time.Duration
	onReject func(string, error)
	slots    chan struct{}
}

// NewBulkhead creates a bulkhead from cfg.
func NewBulkhead(cfg BulkheadConfig) *Bulkhead {
	n := max(cfg.MaxConcurrent, 1)
	return &Bulkhead{
		name:     cfg.Name,
		maxWait:  cfg.MaxWait,
		onReject: cfg.OnReject,
		slots:    make(chan struct{}, n),
	}
}

// Acquire takes a slot and returns the function that gives it back. The
// release function may be called more than once. A canceled ctx never
// acquires, even when a slot is free.
func (b *Bulkhead) Acquire(ctx context.Context) (release func(), err error) {
	if err = b.take(ctx); err != nil {
		if b.onReject != nil {
			b.onReject(b.name, err)
		}
		return nil, err
	}
	var once sync.Once
	return func() { once.Do(func() { <-b.slots }) }, nil
}

func (b *Bulkhead) take(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case b.slots <- struct{}{}:
		return nil
	default:
		if b.maxWait <= 0 {
			return ErrBulkheadFull
		}
	}

	timer := time.NewTimer(b.maxWait)
	defer timer.Stop()
	select {
	case b.slots <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrBulkheadTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InUse returns the number of held slots.
func (b *Bulkhead) InUse() int { return len(b.slots) }

// Capacity returns the total number of slots.
func (b *Bulkhead) Capacity() int { return cap(b.slots) }
