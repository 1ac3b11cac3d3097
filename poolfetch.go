package poolfetch

import (
	"context"
	"net/http"
	"sync"

	"github.com/kbukum/poolfetch/bootstrap"
	apperrors "github.com/kbukum/poolfetch/errors"
	"github.com/kbukum/poolfetch/httpclient"
	"github.com/kbukum/poolfetch/pool"
)

// Re-exported for callers that only import the root package.
type (
	Init     = httpclient.Init
	Response = httpclient.Response
	Health   = pool.Health
)

var (
	mu         sync.Mutex
	defaultApp *bootstrap.App
	pending    *bootstrap.Settings
	pendingOpt []bootstrap.Option
)

// Configure sets the settings and options used to build the default App.
// It fails once the default App exists.
func Configure(settings *bootstrap.Settings, opts ...bootstrap.Option) error {
	mu.Lock()
	defer mu.Unlock()
	if defaultApp != nil {
		return apperrors.InvalidInput("settings", "default app already initialized")
	}
	pending = settings
	pendingOpt = opts
	return nil
}

// Default returns the process-wide App, building and starting it on first
// call. A failed build is not cached, so a later call may succeed.
//
// The default App installs no termination trigger: the host owns its
// signals and calls CloseAll when it shuts down. Pass
// bootstrap.WithTrigger to Configure to opt in.
func Default() (*bootstrap.App, error) {
	mu.Lock()
	defer mu.Unlock()
	if defaultApp != nil {
		return defaultApp, nil
	}

	settings := pending
	if settings == nil {
		loaded, err := bootstrap.LoadSettings()
		if err != nil {
			return nil, err
		}
		settings = loaded
	}

	opts := append([]bootstrap.Option{bootstrap.WithoutTrigger()}, pendingOpt...)
	app, err := bootstrap.NewApp(settings, opts...)
	if err != nil {
		return nil, err
	}
	if err := app.Start(context.Background()); err != nil {
		_ = app.Shutdown(context.Background())
		return nil, err
	}
	defaultApp = app
	return app, nil
}

// Fetch sends a request for rawURL through the default App.
func Fetch(ctx context.Context, rawURL string, init *Init) (*Response, error) {
	app, err := Default()
	if err != nil {
		return nil, err
	}
	return app.Client.Fetch(ctx, rawURL, init)
}

// FetchRequest sends req through the default App.
func FetchRequest(ctx context.Context, req *http.Request, init *Init) (*Response, error) {
	app, err := Default()
	if err != nil {
		return nil, err
	}
	return app.Client.FetchRequest(ctx, req, init)
}

// GetHealth reports the default App's pool health.
func GetHealth() (Health, error) {
	app, err := Default()
	if err != nil {
		return Health{}, err
	}
	return app.Health(), nil
}

// CloseAll closes every pool of the default App. Later fetches use the
// fallback path. It does nothing if the default App was never built.
func CloseAll(ctx context.Context) error {
	mu.Lock()
	app := defaultApp
	mu.Unlock()
	if app == nil {
		return nil
	}
	return app.Lifecycle.Shutdown(ctx)
}

// reset discards the default App after shutting it down.
func reset(ctx context.Context) error {
	mu.Lock()
	app := defaultApp
	defaultApp, pending, pendingOpt = nil, nil, nil
	mu.Unlock()
	if app == nil {
		return nil
	}
	return app.Shutdown(ctx)
}
