// Package resilience provides concurrency limiting for outbound calls.
//
// A Bulkhead caps the number of calls in flight and optionally lets callers
// queue for a bounded time. Connection pools use one bulkhead each so that a
// saturated origin rejects work quickly instead of queueing without bound:
//
//	bh := resilience.NewBulkhead(resilience.BulkheadConfig{
//	    Name: origin, MaxConcurrent: 30, MaxWait: 30 * time.Second,
//	})
//	release, err := bh.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer release()
package resilience
