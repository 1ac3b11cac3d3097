// Package testutil provides test helpers for code that talks to HTTP
// upstreams through connection pools.
//
// An Upstream is an httptest server that records every request it sees and
// follows the component lifecycle, so it can be started and stopped with
// the same helpers as production components:
//
//	func TestFetch(t *testing.T) {
//	    up := testutil.NewUpstream(testutil.JSONHandler(200, `{"items":[]}`))
//	    testutil.T(t).Setup(up)
//
//	    resp, err := client.Fetch(ctx, up.URL()+"/v1/items", nil)
//	    last := up.Last()
//	}
//
// UnreachableURL returns an origin that refuses connections, which drives
// pooled dispatch into its fallback path.
package testutil
