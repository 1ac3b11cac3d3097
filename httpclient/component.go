package httpclient

import (
	"context"
	"fmt"

	"github.com/kbukum/poolfetch/component"
	"github.com/kbukum/poolfetch/pool"
)

// compile-time assertions
var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// Component exposes a Client to the component registry. Its health reflects
// the pool registry.
type Component struct {
	client *Client
}

// NewComponent wraps client.
func NewComponent(client *Client) *Component {
	return &Component{client: client}
}

// Name returns the component name.
func (c *Component) Name() string { return "httpclient" }

// Start is a no-op; pools are created on first use.
func (c *Component) Start(_ context.Context) error { return nil }

// Stop releases idle fallback connections.
func (c *Component) Stop(_ context.Context) error {
	c.client.fallback.CloseIdleConnections()
	return nil
}

// Health maps the pool registry health onto a component health.
func (c *Component) Health(_ context.Context) component.Health {
	h := c.client.registry.Health()
	status := component.StatusHealthy
	if h.Status == pool.HealthWarning {
		status = component.StatusDegraded
	}
	return component.Health{
		Name:    c.Name(),
		Status:  status,
		Message: h.Status,
		Details: map[string]any{
			"pool_count":         h.PoolCount,
			"total_connections":  h.TotalConnections,
			"oldest_pool_age_ms": h.OldestPoolAgeMs,
		},
	}
}

// Describe returns component description for the bootstrap summary.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    c.Name(),
		Type:    "http-client",
		Details: fmt.Sprintf("service=%s method=%s", c.client.config.ServiceName, c.client.config.DefaultMethod),
	}
}
