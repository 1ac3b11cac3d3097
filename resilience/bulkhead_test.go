package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func mustAcquire(t *testing.T, b *Bulkhead) func() {
	t.Helper()
	release, err := b.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	return release
}

func TestBulkheadCapacity(t *testing.T) {
	tests := []struct {
		name string
		max  int
		want int
	}{
		{"explicit", 30, 30},
		{"zero", 0, 1},
		{"negative", -4, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NewBulkhead(BulkheadConfig{MaxConcurrent: tc.max}).Capacity(); got != tc.want {
				t.Errorf("Capacity() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestBulkheadConcurrentHolders(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 3, MaxWait: time.Second})

	var wg sync.WaitGroup
	var mu sync.Mutex
	peak := 0
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := b.Acquire(context.Background())
			if err != nil {
				t.Errorf("Acquire failed: %v", err)
				return
			}
			mu.Lock()
			peak = max(peak, b.InUse())
			mu.Unlock()
			time.Sleep(2 * time.Millisecond)
			release()
		}()
	}
	wg.Wait()

	if peak > 3 {
		t.Errorf("observed %d slots in use, capacity is 3", peak)
	}
	if b.InUse() != 0 {
		t.Errorf("expected every slot returned, %d in use", b.InUse())
	}
}

func TestBulkheadRejections(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name    string
		maxWait time.Duration
		ctx     context.Context
		want    error
	}{
		{"full without wait", 0, context.Background(), ErrBulkheadFull},
		{"wait times out", 10 * time.Millisecond, context.Background(), ErrBulkheadTimeout},
		{"canceled context", time.Second, canceled, context.Canceled},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var rejected error
			b := NewBulkhead(BulkheadConfig{
				Name:          "https://api.example.com",
				MaxConcurrent: 1,
				MaxWait:       tc.maxWait,
				OnReject: func(name string, err error) {
					if name == "https://api.example.com" {
						rejected = err
					}
				},
			})
			release := mustAcquire(t, b)
			defer release()

			_, err := b.Acquire(tc.ctx)
			if !errors.Is(err, tc.want) {
				t.Errorf("Acquire() error = %v, want %v", err, tc.want)
			}
			if !errors.Is(rejected, tc.want) {
				t.Errorf("OnReject saw %v, want %v", rejected, tc.want)
			}
		})
	}
}

func TestBulkheadCanceledContextNeverAcquires(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 5})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := b.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if b.InUse() != 0 {
		t.Errorf("expected no slot in use, got %d", b.InUse())
	}
}

func TestBulkheadWaiterGetsReleasedSlot(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1, MaxWait: time.Second})
	release := mustAcquire(t, b)

	go func() {
		time.Sleep(10 * time.Millisecond)
		release()
	}()
	next, err := b.Acquire(context.Background())
	if err != nil {
		t.Fatalf("expected waiter to get the slot, got %v", err)
	}
	next()
}

func TestBulkheadReleaseIsIdempotent(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 2})
	first := mustAcquire(t, b)
	second := mustAcquire(t, b)
	defer second()

	first()
	first()
	if b.InUse() != 1 {
		t.Errorf("double release must free one slot only, in use = %d", b.InUse())
	}
}
