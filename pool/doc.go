// Package pool keeps one persistent HTTP connection pool per network origin.
//
// A Registry hands out pools by origin, creating them on first use and
// recycling the ones that sit idle. Each Pool owns a dedicated transport
// sized from Config and bounds in-flight work with a bulkhead.
//
//	reg, err := pool.NewRegistry(pool.Config{})
//	p, err := reg.GetPool("https://api.example.com/v1/items")
//	resp, err := p.Dispatch(ctx, pool.Request{Path: "/v1/items"})
package pool
