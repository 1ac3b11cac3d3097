package httpclient

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/kbukum/poolfetch/errors"
	"github.com/kbukum/poolfetch/logger"
	"github.com/kbukum/poolfetch/observability"
	"github.com/kbukum/poolfetch/pool"
	"github.com/kbukum/poolfetch/util"
)

// Client dispatches requests through a pool registry with a single direct
// fallback per call.
type Client struct {
	registry *pool.Registry
	config   Config
	fallback *http.Client
	log      *logger.Logger
	metrics  *observability.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithMetrics records dispatch and fallback metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithFallbackClient replaces the unpooled client used for fallback requests.
func WithFallbackClient(hc *http.Client) Option {
	return func(c *Client) { c.fallback = hc }
}

// New creates a client that resolves pools from registry.
func New(registry *pool.Registry, cfg Config, opts ...Option) (*Client, error) {
	if registry == nil {
		return nil, apperrors.InvalidInput("registry", "pool registry is required")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Headers = util.CloneMap(cfg.Headers)

	c := &Client{
		registry: registry,
		config:   cfg,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Get("httpclient")
	}
	if c.fallback == nil {
		c.fallback = newFallbackClient(cfg.FallbackTimeout)
	}
	return c, nil
}

// Config returns the client configuration.
func (c *Client) Config() Config { return c.config }

// Registry returns the registry pools are taken from.
func (c *Client) Registry() *pool.Registry { return c.registry }

// Fetch requests rawURL. Without init the configured default method and
// headers are used.
func (c *Client) Fetch(ctx context.Context, rawURL string, init *Init) (*Response, error) {
	out, err := c.fromURL(rawURL, init)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, out)
}

// FetchRequest sends req, with init overriding its method, headers and body.
func (c *Client) FetchRequest(ctx context.Context, req *http.Request, init *Init) (*Response, error) {
	out, err := c.fromRequest(req, init)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, out)
}

func (c *Client) do(ctx context.Context, out *outbound) (resp *Response, err error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanFetch,
		attribute.String(observability.AttrOrigin, out.origin()),
		attribute.String("http.request.method", out.method),
	)
	defer func() {
		if resp != nil {
			span.SetAttributes(
				attribute.Bool(observability.AttrFallback, resp.Fallback),
				attribute.Int("http.response.status_code", resp.StatusCode),
			)
		}
		observability.EndSpan(span, err)
	}()

	p, err := c.registry.GetPool(out.url.String())
	if err != nil {
		if !errors.Is(err, pool.ErrRegistryClosed) {
			return nil, err
		}
		return c.fallbackFetch(ctx, out, err)
	}

	start := time.Now()
	pooled, err := p.Dispatch(ctx, pool.Request{
		Path:   out.url.RequestURI(),
		Method: out.method,
		Header: out.header,
		Body:   out.body,
	})
	if err != nil {
		c.metrics.RecordDispatch(ctx, p.Origin(), out.method, observability.OutcomeFailure, time.Since(start))
		return c.fallbackFetch(ctx, out, err)
	}
	c.metrics.RecordDispatch(ctx, p.Origin(), out.method, observability.OutcomeSuccess, time.Since(start))

	return &Response{
		StatusCode: pooled.StatusCode,
		StatusText: StatusText(pooled.StatusCode),
		Header:     pooled.Header,
		Body:       pooled.Body,
	}, nil
}
