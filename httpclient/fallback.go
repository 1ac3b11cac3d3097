package httpclient

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"

	"github.com/kbukum/poolfetch/logger"
	"github.com/kbukum/poolfetch/observability"
	"github.com/kbukum/poolfetch/util"
)

// Headers added to every fallback request.
const (
	HeaderFallbackFetch = "X-Fallback-Fetch"
	HeaderOriginalError = "X-Original-Error"
	HeaderService       = "X-Service"
)

// newFallbackClient returns a client that opens a fresh connection per request.
func newFallbackClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout: 30 * time.Second,
		}).DialContext,
		DisableKeepAlives:   true,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}

// fallbackFetch reissues out once without a pool. Its error, if any, is
// returned unchanged.
func (c *Client) fallbackFetch(ctx context.Context, out *outbound, cause error) (*Response, error) {
	c.log.Debug("Pooled fetch failed, falling back to direct request", logger.Fields(
		logger.FieldURL, out.url.String(),
		logger.FieldMethod, out.method,
		logger.FieldError, cause.Error(),
	))

	ctx, span := observability.StartSpan(ctx, observability.SpanFallback,
		attribute.String(observability.AttrOrigin, out.origin()),
	)

	resp, err := c.sendFallback(ctx, out, cause)
	outcome := observability.OutcomeSuccess
	if err != nil {
		outcome = observability.OutcomeFailure
	}
	c.metrics.RecordFallback(ctx, out.origin(), outcome)
	observability.EndSpan(span, err)
	return resp, err
}

func (c *Client) sendFallback(ctx context.Context, out *outbound, cause error) (*Response, error) {
	var body io.Reader
	if out.body != nil {
		body = bytes.NewReader(out.body)
	}
	req, err := http.NewRequestWithContext(ctx, out.method, out.url.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header = out.header.Clone()
	req.Header.Set(HeaderFallbackFetch, "true")
	req.Header.Set(HeaderOriginalError, util.SanitizeHeaderValue(cause.Error()))
	req.Header.Set(HeaderService, c.config.ServiceName)
	observability.InjectHeaders(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.fallback.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode,
		StatusText: fallbackStatusText(resp),
		Header:     resp.Header,
		Body:       data,
		Fallback:   true,
	}, nil
}
