package pool

import "time"

// Registry health statuses.
const (
	HealthHealthy = "healthy"
	HealthWarning = "warning"
)

const (
	warnPoolCount = 10
	warnPoolAge   = time.Hour
)

// Health is a point-in-time snapshot of the registry.
type Health struct {
	Status           string `json:"status"`
	PoolCount        int    `json:"poolCount"`
	TotalConnections int    `json:"totalConnections"`
	OldestPoolAgeMs  int64  `json:"oldestPoolAgeMs"`
}

// Health reports pool count, live connections and the age of the oldest
// pool. Status is warning when there are more than 10 pools or the oldest
// is older than an hour.
func (r *Registry) Health() Health {
	now := r.now()

	r.mu.Lock()
	h := Health{PoolCount: len(r.entries)}
	var oldest time.Duration
	for _, e := range r.entries {
		h.TotalConnections += e.pool.OpenConnections()
		if age := now.Sub(e.createdAt); age > oldest {
			oldest = age
		}
	}
	r.mu.Unlock()

	h.OldestPoolAgeMs = oldest.Milliseconds()
	h.Status = HealthHealthy
	if h.PoolCount > warnPoolCount || oldest > warnPoolAge {
		h.Status = HealthWarning
	}
	return h
}
