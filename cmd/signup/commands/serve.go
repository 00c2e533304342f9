package commands

import (
	"context"
	"fmt"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/kbukum/signup/auth/supabase"
	"github.com/kbukum/signup/bootstrap"
	"github.com/kbukum/signup/i18n"
	"github.com/kbukum/signup/logger"
	"github.com/kbukum/signup/observability"
	"github.com/kbukum/signup/registration"
	"github.com/kbukum/signup/server"
	"github.com/kbukum/signup/server/endpoint"
	"github.com/kbukum/signup/server/middleware"
	"github.com/kbukum/signup/sse"
	"github.com/kbukum/signup/version"
	"github.com/kbukum/signup/web"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the registration pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			app, err := newServeApp(cfg)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}
}

// newServeApp wires the service. Components stop in reverse order: the SSE
// hub closes open streams first so the HTTP server can drain, then the
// session store cancels background submissions.
func newServeApp(cfg *Config) (*bootstrap.App[*Config], error) {
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return nil, err
	}
	log := app.Logger

	telemetry := observability.NewComponent(cfg.Observability, cfg.Name, version.Get().String(), cfg.Environment)
	if err := app.RegisterComponent(telemetry); err != nil {
		return nil, err
	}
	if cfg.Observability.Enabled {
		app.Summary.TrackClient("otlp", cfg.Observability.Endpoint, "telemetry")
	}

	provider, client, err := newProvider(cfg, log)
	if err != nil {
		return nil, err
	}
	if client != nil {
		if err := app.RegisterComponent(supabase.NewComponent(client)); err != nil {
			return nil, err
		}
	}

	opts, err := controllerOptions(cfg, log)
	if err != nil {
		return nil, err
	}
	hub := sse.NewHub(log.WithComponent("sse"))
	store := web.NewStore(cfg.Sessions.TTL, func(loc *i18n.Localizer) *registration.Controller {
		return registration.New(provider, append(slices.Clip(opts), registration.WithLocalizer(loc))...)
	}, hub, log.WithComponent("sessions"))

	httpMetrics, err := observability.NewHTTPMetrics(observability.Meter(observability.InstrumentationName))
	if err != nil {
		return nil, fmt.Errorf("http metrics: %w", err)
	}
	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware(httpMetrics)
	srv.RegisterDefaultEndpoints(cfg.Name, app.Components.HealthAll,
		endpoint.Gauge{Name: "registration_sessions", Value: store.Len},
		endpoint.Gauge{Name: "sse_clients", Value: hub.ClientCount},
	)

	handler, err := web.NewHandler(cfg.Sessions, store, hub,
		web.WithLoginRoute(cfg.Registration.LoginRoute),
		web.WithLogger(log.WithComponent("web")))
	if err != nil {
		return nil, err
	}
	var guards []gin.HandlerFunc
	var sweeps []func() int
	if cfg.Server.RateLimitPerMinute > 0 {
		rl := middleware.NewRateLimit(middleware.RateLimitConfig{
			RequestsPerMinute: cfg.Server.RateLimitPerMinute,
			Burst:             cfg.Server.RateLimitBurst,
		})
		guards = append(guards, rl.Handler())
		sweeps = append(sweeps, rl.Sweep)
	}
	handler.Register(srv.GinEngine(), guards...)

	if err := app.RegisterComponent(web.NewSweeperComponent(store, cfg.Sessions.SweepInterval, sweeps...)); err != nil {
		return nil, err
	}
	if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
		return nil, err
	}
	if err := app.RegisterComponent(sse.NewComponent(hub, web.RegisterRoute+"/events")); err != nil {
		return nil, err
	}

	app.OnReady(func(context.Context) error {
		log.Info("registration page available", logger.Fields("url", "http://"+srv.Addr()+web.RegisterRoute))
		return nil
	})
	return app, nil
}
