package pool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"

	apperrors "github.com/kbukum/poolfetch/errors"
	"github.com/kbukum/poolfetch/logger"
	"github.com/kbukum/poolfetch/observability"
	"github.com/kbukum/poolfetch/resilience"
)

const tlsHandshakeTimeout = 10 * time.Second

// Request is a request dispatched through a pool. Path is resolved against
// the pool's origin and may carry a query string.
type Request struct {
	Path   string
	Method string
	Header http.Header
	Body   []byte
}

// Response is a fully read pooled response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Pool is a persistent set of connections to a single origin.
type Pool struct {
	id        string
	origin    string
	cfg       Config
	transport *http.Transport
	client    *http.Client
	bulkhead  *resilience.Bulkhead
	conns     *connCounter
	log       *logger.Logger
	now       func() time.Time
	createdAt time.Time

	mu          sync.Mutex
	closed      bool
	lastRecycle time.Time
	inflight    sync.WaitGroup
}

// NewPool builds a pool for origin. origin may be a full URL; only its
// scheme, host and port are kept.
func NewPool(origin string, cfg Config, opts ...PoolOption) (*Pool, error) {
	canonical, err := ParseOrigin(origin)
	if err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, apperrors.PoolCreateFailed(canonical, err)
	}

	p := &Pool{
		id:     uuid.New().String(),
		origin: canonical,
		cfg:    cfg,
		conns:  &connCounter{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.Get("pool")
	}
	p.log = p.log.WithFields(logger.Fields(logger.FieldOrigin, canonical, logger.FieldPoolID, p.id))
	p.createdAt = p.now()
	p.lastRecycle = p.createdAt

	p.transport = p.newTransport()
	p.client = &http.Client{
		Transport:     p.transport,
		CheckRedirect: redirectPolicy(cfg.RedirectLimit()),
	}
	p.bulkhead = resilience.NewBulkhead(resilience.BulkheadConfig{
		Name:          canonical,
		MaxConcurrent: cfg.MaxInFlight(),
		MaxWait:       cfg.HeadersTimeout,
		OnReject: func(name string, err error) {
			p.log.Debug("Dispatch rejected", logger.Fields(logger.FieldError, err.Error()))
		},
	})
	return p, nil
}

func (p *Pool) newTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   p.cfg.ConnectTimeout,
		KeepAlive: p.cfg.KeepAliveTimeout,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           p.conns.dialContext(dialer),
		MaxConnsPerHost:       p.cfg.MaxConnections,
		MaxIdleConns:          p.cfg.MaxConnections,
		MaxIdleConnsPerHost:   p.cfg.MaxConnections,
		IdleConnTimeout:       p.cfg.KeepAliveTimeout,
		ResponseHeaderTimeout: p.cfg.HeadersTimeout,
		TLSHandshakeTimeout:   tlsHandshakeTimeout,
		ExpectContinueTimeout: time.Second,
	}
}

func redirectPolicy(limit int) func(req *http.Request, via []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if limit <= 0 {
			return http.ErrUseLastResponse
		}
		if len(via) > limit {
			return fmt.Errorf("stopped after %d redirects", limit)
		}
		return nil
	}
}

// ID returns the pool's unique identifier.
func (p *Pool) ID() string { return p.id }

// Origin returns the canonical origin the pool connects to.
func (p *Pool) Origin() string { return p.origin }

// Config returns the pool's configuration.
func (p *Pool) Config() Config { return p.cfg }

// CreatedAt returns when the pool was built.
func (p *Pool) CreatedAt() time.Time { return p.createdAt }

// OpenConnections returns the number of live transport connections.
func (p *Pool) OpenConnections() int { return int(p.conns.open.Load()) }

// InFlight returns the number of dispatches holding a slot.
func (p *Pool) InFlight() int { return p.bulkhead.InUse() }

// IsClosed reports whether Close has been called.
func (p *Pool) IsClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Dispatch sends req to the pool's origin and reads the whole response.
// Failures are returned as AppErrors with a dispatch code.
func (p *Pool) Dispatch(ctx context.Context, req Request) (*Response, error) {
	if err := p.begin(); err != nil {
		return nil, err
	}
	defer p.inflight.Done()

	ctx, span := observability.StartSpan(ctx, observability.SpanDispatch,
		attribute.String(observability.AttrOrigin, p.origin),
		attribute.String(observability.AttrPoolID, p.id),
	)

	resp, err := p.dispatch(ctx, req)
	if err != nil {
		observability.EndSpan(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	observability.EndSpan(span, nil)
	return resp, nil
}

// begin registers an in-flight dispatch unless the pool is closed.
func (p *Pool) begin() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return apperrors.PoolClosed("pool for " + p.origin)
	}
	p.inflight.Add(1)
	p.recycleLocked()
	return nil
}

// recycleLocked drops idle connections once they may have outlived
// KeepAliveMaxTimeout.
func (p *Pool) recycleLocked() {
	now := p.now()
	if now.Sub(p.lastRecycle) < p.cfg.KeepAliveMaxTimeout {
		return
	}
	p.transport.CloseIdleConnections()
	p.lastRecycle = now
	p.log.Debug("Recycled idle connections")
}

func (p *Pool) dispatch(ctx context.Context, req Request) (*Response, error) {
	release, err := p.bulkhead.Acquire(ctx)
	if err != nil {
		return nil, translateError(p.origin, phaseHeaders, err)
	}
	defer release()

	reqCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	httpReq, err := p.newRequest(reqCtx, req)
	if err != nil {
		return nil, err
	}
	observability.InjectHeaders(ctx, propagation.HeaderCarrier(httpReq.Header))

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, translateError(p.origin, phaseHeaders, err)
	}
	defer func() { _ = resp.Body.Close() }()

	timer := time.AfterFunc(p.cfg.BodyTimeout, func() { cancel(errBodyTimeout) })
	defer timer.Stop()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(context.Cause(reqCtx), errBodyTimeout) {
			err = errors.Join(errBodyTimeout, err)
		}
		return nil, translateError(p.origin, phaseBody, err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func (p *Pool) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	path := req.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, p.origin+path, body)
	if err != nil {
		return nil, apperrors.InvalidInput("request", err.Error()).WithCause(err)
	}
	if req.Header != nil {
		httpReq.Header = req.Header.Clone()
	}
	return httpReq, nil
}

// Close stops accepting dispatches, waits for in-flight ones to finish or
// ctx to end, then closes idle connections. Calling Close again is a no-op.
func (p *Pool) Close(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		p.transport.CloseIdleConnections()
		return apperrors.Timeout("closing pool for "+p.origin, ctx.Err())
	}

	p.transport.CloseIdleConnections()
	p.log.Debug("Closed connection pool")
	return nil
}
