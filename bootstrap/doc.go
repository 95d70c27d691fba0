// Package bootstrap runs a service through its lifecycle: start components,
// run configure callbacks, check readiness, block until a signal, then stop
// everything in reverse order.
//
//	app, err := bootstrap.NewApp(&cfg)
//	_ = app.RegisterComponent(db)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*AppConfig]) error {
//	    return wireHandlers(a)
//	})
//	err = app.Run(ctx)
package bootstrap
