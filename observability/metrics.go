package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Dispatch outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Pool close reasons.
const (
	ReasonIdle     = "idle"
	ReasonShutdown = "shutdown"
)

// Metrics holds the pool and dispatch instruments. All methods are no-ops
// on a nil receiver.
type Metrics struct {
	poolsCreated     metric.Int64Counter
	poolsClosed      metric.Int64Counter
	poolsActive      metric.Int64UpDownCounter
	dispatchTotal    metric.Int64Counter
	dispatchDuration metric.Float64Histogram
	fallbackTotal    metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	poolsCreated, err := meter.Int64Counter("poolfetch.pools.created",
		metric.WithDescription("Connection pools created"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pools.created counter: %w", err)
	}

	poolsClosed, err := meter.Int64Counter("poolfetch.pools.closed",
		metric.WithDescription("Connection pools closed, by reason"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pools.closed counter: %w", err)
	}

	poolsActive, err := meter.Int64UpDownCounter("poolfetch.pools.active",
		metric.WithDescription("Connection pools currently registered"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pools.active gauge: %w", err)
	}

	dispatchTotal, err := meter.Int64Counter("poolfetch.dispatch.total",
		metric.WithDescription("Pooled dispatches, by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dispatch.total counter: %w", err)
	}

	dispatchDuration, err := meter.Float64Histogram("poolfetch.dispatch.duration",
		metric.WithDescription("Duration of pooled dispatches"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dispatch.duration histogram: %w", err)
	}

	fallbackTotal, err := meter.Int64Counter("poolfetch.fallback.total",
		metric.WithDescription("Unpooled fallback requests, by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fallback.total counter: %w", err)
	}

	return &Metrics{
		poolsCreated:     poolsCreated,
		poolsClosed:      poolsClosed,
		poolsActive:      poolsActive,
		dispatchTotal:    dispatchTotal,
		dispatchDuration: dispatchDuration,
		fallbackTotal:    fallbackTotal,
	}, nil
}

// RecordPoolCreated counts a new pool for origin.
func (m *Metrics) RecordPoolCreated(ctx context.Context, origin string) {
	if m == nil {
		return
	}
	m.poolsCreated.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrOrigin, origin)))
	m.poolsActive.Add(ctx, 1)
}

// RecordPoolsClosed counts n pools removed from the registry.
func (m *Metrics) RecordPoolsClosed(ctx context.Context, n int, reason string) {
	if m == nil || n == 0 {
		return
	}
	m.poolsClosed.Add(ctx, int64(n), metric.WithAttributes(attribute.String("reason", reason)))
	m.poolsActive.Add(ctx, int64(-n))
}

// RecordDispatch records one pooled dispatch.
func (m *Metrics) RecordDispatch(ctx context.Context, origin, method, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(AttrOrigin, origin),
		attribute.String("http.request.method", method),
		attribute.String(AttrOutcome, outcome),
	)
	m.dispatchTotal.Add(ctx, 1, attrs)
	m.dispatchDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordFallback records one unpooled fallback request.
func (m *Metrics) RecordFallback(ctx context.Context, origin, outcome string) {
	if m == nil {
		return
	}
	m.fallbackTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrOrigin, origin),
		attribute.String(AttrOutcome, outcome),
	))
}
