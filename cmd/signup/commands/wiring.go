package commands

import (
	"fmt"

	"github.com/kbukum/signup/auth"
	"github.com/kbukum/signup/auth/memory"
	"github.com/kbukum/signup/auth/supabase"
	"github.com/kbukum/signup/logger"
	"github.com/kbukum/signup/observability"
	"github.com/kbukum/signup/registration"
)

// newProvider builds the account provider selected by auth.provider. The
// supabase client is returned separately so callers can register its
// component.
func newProvider(cfg *Config, log *logger.Logger) (auth.Provider, *supabase.Client, error) {
	providers := auth.NewRegistry()
	providers.Register(auth.ProviderMemory, memory.New())

	var client *supabase.Client
	if cfg.Auth.Provider == auth.ProviderSupabase {
		c, err := supabase.New(cfg.Supabase, supabase.WithLogger(log.WithComponent("supabase")))
		if err != nil {
			return nil, nil, err
		}
		providers.Register(auth.ProviderSupabase, c)
		client = c
	}
	if err := providers.SetDefault(cfg.Auth.Provider); err != nil {
		return nil, nil, err
	}
	p, err := providers.Default()
	if err != nil {
		return nil, nil, err
	}
	return p, client, nil
}

// controllerOptions maps the registration section to controller options.
func controllerOptions(cfg *Config, log *logger.Logger) ([]registration.Option, error) {
	policy, err := registration.ParsePolicy(cfg.Registration.ProviderErrorPolicy)
	if err != nil {
		return nil, err
	}
	metrics, err := observability.NewRegistrationMetrics(observability.Meter(observability.InstrumentationName))
	if err != nil {
		return nil, fmt.Errorf("registration metrics: %w", err)
	}
	return []registration.Option{
		registration.WithRedirectDelay(cfg.Registration.RedirectDelay),
		registration.WithLoginRoute(cfg.Registration.LoginRoute),
		registration.WithProviderErrorPolicy(policy),
		registration.WithLogger(log.WithComponent("registration")),
		registration.WithMetrics(metrics),
	}, nil
}
