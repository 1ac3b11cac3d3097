// Package bootstrap wires the pool registry, HTTP client, lifecycle
// controller and telemetry into a single App.
//
//	settings, err := bootstrap.LoadSettings()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	app, err := bootstrap.NewApp(settings)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	resp, err := app.Client.Fetch(ctx, "https://api.example.com/v1/items", nil)
//
// In self-managed mode the App shuts down on SIGINT or SIGTERM. Run blocks
// until that happens or ctx is canceled.
package bootstrap
