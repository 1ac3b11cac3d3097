// Package httpclient routes outbound HTTP calls through per-origin
// connection pools and falls back to a direct request when pooled
// dispatch fails.
//
// # Basic Usage
//
//	reg, _ := pool.NewRegistry(pool.DefaultConfig("production"))
//	client, _ := httpclient.New(reg, httpclient.Config{ServiceName: "catalog"})
//
//	resp, err := client.Fetch(ctx, "https://api.example.com/v1/items", nil)
//
// # Fallback
//
// Any pooled dispatch failure (timeout, refused connection, exhausted or
// closed pool) is retried exactly once through an unpooled client. The
// fallback request carries the original method, body and headers plus
// X-Fallback-Fetch, X-Original-Error and X-Service. Errors from the
// fallback are returned unchanged.
package httpclient
