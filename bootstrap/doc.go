// Package bootstrap runs the signup service lifecycle.
//
//	app, err := bootstrap.NewApp(cfg)
//	app.RegisterComponent(sseComponent)
//	app.RegisterComponent(serverComponent)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*Config]) error {
//	    return nil
//	})
//	err = app.Run(ctx)
//
// Run starts every component, runs the OnStart hooks and the configure
// callbacks, checks readiness, runs OnReady, prints the startup summary and
// blocks until SIGINT/SIGTERM. Shutdown runs OnStop and then stops the
// components in reverse order within the graceful timeout.
package bootstrap
