package poolfetch

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/kbukum/poolfetch/bootstrap"
	"github.com/kbukum/poolfetch/httpclient"
	"github.com/kbukum/poolfetch/logger"
	"github.com/kbukum/poolfetch/pool"
	"github.com/kbukum/poolfetch/testutil"
)

func noopTrigger(stop func()) func() { return func() {} }

func configureDefault(t *testing.T) {
	t.Helper()
	settings := &bootstrap.Settings{
		Pool:   pool.Config{MaxConnections: 5},
		Client: httpclient.Config{ServiceName: "catalog-api"},
	}
	err := Configure(settings,
		bootstrap.WithLogger(logger.NewNop()),
		bootstrap.WithTrigger(noopTrigger),
		bootstrap.WithSummaryWriter(io.Discard),
	)
	if err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	t.Cleanup(func() { _ = reset(context.Background()) })
}

func TestFetchThroughDefaultApp(t *testing.T) {
	up := testutil.NewUpstream(testutil.JSONHandler(http.StatusOK, `{"items":[]}`))
	testutil.T(t).Setup(up)
	configureDefault(t)

	ctx := context.Background()
	resp, err := Fetch(ctx, up.URL()+"/v1/items", nil)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK || resp.Text() != `{"items":[]}` {
		t.Errorf("unexpected response %d %q", resp.StatusCode, resp.Text())
	}
	if resp.Fallback {
		t.Error("expected pooled response")
	}

	app, err := Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}
	if got := app.Registry.Config().MaxConnections; got != 5 {
		t.Errorf("MaxConnections = %d, want 5", got)
	}

	h, err := GetHealth()
	if err != nil {
		t.Fatalf("GetHealth failed: %v", err)
	}
	if h.Status != pool.HealthHealthy || h.PoolCount != 1 {
		t.Errorf("unexpected health %+v", h)
	}

	again, _ := Default()
	if again != app {
		t.Error("Default must return the same App")
	}
	if err := Configure(&bootstrap.Settings{}); err == nil {
		t.Error("Configure after first use must fail")
	}
}

func TestCloseAllSwitchesToFallback(t *testing.T) {
	up := testutil.NewUpstream(testutil.EchoHandler())
	testutil.T(t).Setup(up)
	configureDefault(t)

	ctx := context.Background()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, up.URL()+"/v1/items", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := FetchRequest(ctx, req, &Init{Body: "first"}); err != nil {
		t.Fatalf("FetchRequest failed: %v", err)
	}

	if err := CloseAll(ctx); err != nil {
		t.Fatalf("CloseAll failed: %v", err)
	}

	resp, err := Fetch(ctx, up.URL()+"/v1/items", &Init{Method: http.MethodPost, Body: "second"})
	if err != nil {
		t.Fatalf("Fetch after CloseAll failed: %v", err)
	}
	if !resp.Fallback || resp.Text() != "second" {
		t.Errorf("expected fallback echo, got fallback=%v body=%q", resp.Fallback, resp.Text())
	}

	last, ok := up.Last()
	if !ok {
		t.Fatal("expected a recorded request")
	}
	if last.Header.Get("X-Fallback-Fetch") != "true" {
		t.Errorf("expected X-Fallback-Fetch header, got %v", last.Header)
	}
	if last.Header.Get("X-Service") != "catalog-api" {
		t.Errorf("expected X-Service catalog-api, got %q", last.Header.Get("X-Service"))
	}
	if last.Header.Get("X-Original-Error") == "" {
		t.Error("expected X-Original-Error header")
	}
}

func TestCloseAllWithoutDefaultApp(t *testing.T) {
	_ = reset(context.Background())
	if err := CloseAll(context.Background()); err != nil {
		t.Errorf("CloseAll on unbuilt default returned %v", err)
	}
}

func TestDefaultAppLeavesSignalsToHost(t *testing.T) {
	up := testutil.NewUpstream(testutil.JSONHandler(http.StatusOK, `{}`))
	testutil.T(t).Setup(up)
	err := Configure(&bootstrap.Settings{},
		bootstrap.WithLogger(logger.NewNop()),
		bootstrap.WithSummaryWriter(io.Discard),
	)
	if err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	t.Cleanup(func() { _ = reset(context.Background()) })

	if _, err := Fetch(context.Background(), up.URL(), nil); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	app, _ := Default()
	if app.Lifecycle.TriggerInstalled() {
		t.Error("default app must not subscribe to termination signals")
	}
	if app.Lifecycle.State() != pool.StateActive {
		t.Errorf("expected active state, got %s", app.Lifecycle.State())
	}
	if installed := app.Lifecycle.Health(context.Background()).Details["trigger"]; installed != false {
		t.Errorf("expected trigger=false in health details, got %v", installed)
	}
}

func TestDefaultAppTriggerOptIn(t *testing.T) {
	up := testutil.NewUpstream(testutil.EchoHandler())
	testutil.T(t).Setup(up)

	var stop func()
	trigger := func(s func()) func() {
		stop = s
		return func() {}
	}
	err := Configure(&bootstrap.Settings{Client: httpclient.Config{ServiceName: "catalog-api"}},
		bootstrap.WithLogger(logger.NewNop()),
		bootstrap.WithTrigger(trigger),
		bootstrap.WithSummaryWriter(io.Discard),
	)
	if err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	t.Cleanup(func() { _ = reset(context.Background()) })

	app, err := Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}
	if stop == nil || !app.Lifecycle.TriggerInstalled() {
		t.Fatal("expected the configured trigger to be installed")
	}

	stop()
	<-app.Lifecycle.Done()
	if app.Lifecycle.State() != pool.StateClosed {
		t.Errorf("expected closed state, got %s", app.Lifecycle.State())
	}
	resp, err := Fetch(context.Background(), up.URL(), nil)
	if err != nil {
		t.Fatalf("Fetch after trigger failed: %v", err)
	}
	if !resp.Fallback {
		t.Error("expected fallback once the trigger closed the pools")
	}
}
