// Package poolfetch is a pooled HTTP client with a one-shot fallback.
//
// Requests are dispatched through one connection pool per origin. When a
// pooled dispatch fails, the request is retried once without the pool and
// marked with X-Fallback-Fetch, X-Original-Error and X-Service headers.
//
//	resp, err := poolfetch.Fetch(ctx, "https://api.example.com/v1/items", nil)
//	if err != nil {
//	    return err
//	}
//	defer poolfetch.CloseAll(ctx)
//
// The package-level functions share a process-wide App built on first use
// from the environment (see bootstrap.LoadSettings). Call Init beforehand to
// supply settings explicitly, or build a bootstrap.App of your own.
package poolfetch
