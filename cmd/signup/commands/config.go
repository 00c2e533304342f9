package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/kbukum/signup/auth"
	"github.com/kbukum/signup/auth/supabase"
	"github.com/kbukum/signup/config"
	"github.com/kbukum/signup/observability"
	"github.com/kbukum/signup/registration"
	"github.com/kbukum/signup/server"
	"github.com/kbukum/signup/web"
)

const serviceName = "signup"

// Config is the configuration of the signup service.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Auth          auth.Config          `yaml:"auth" mapstructure:"auth"`
	Supabase      supabase.Config      `yaml:"supabase" mapstructure:"supabase"`
	Registration  RegistrationConfig   `yaml:"registration" mapstructure:"registration"`
	Sessions      web.Config           `yaml:"sessions" mapstructure:"sessions"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// RegistrationConfig tunes the registration controllers.
type RegistrationConfig struct {
	RedirectDelay time.Duration `yaml:"redirect_delay" mapstructure:"redirect_delay"`
	LoginRoute    string        `yaml:"login_route" mapstructure:"login_route"`
	// ProviderErrorPolicy is "surface" or "ignore".
	ProviderErrorPolicy string `yaml:"provider_error_policy" mapstructure:"provider_error_policy"`
}

// ApplyDefaults fills every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Auth.ApplyDefaults()
	if c.Auth.Provider == auth.ProviderSupabase {
		c.Supabase.ApplyDefaults()
	}
	if c.Registration.RedirectDelay == 0 {
		c.Registration.RedirectDelay = registration.DefaultRedirectDelay
	}
	if c.Registration.LoginRoute == "" {
		c.Registration.LoginRoute = registration.DefaultLoginRoute
	}
	c.Sessions.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	add := func(section string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", section, err))
		}
	}
	add("service", c.ServiceConfig.Validate())
	add("server", c.Server.Validate())
	add("auth", c.Auth.Validate())
	if c.Auth.Provider == auth.ProviderSupabase {
		add("supabase", c.Supabase.Validate())
	}
	if _, err := registration.ParsePolicy(c.Registration.ProviderErrorPolicy); err != nil {
		add("registration", err)
	}
	if c.Registration.RedirectDelay < 0 {
		add("registration", fmt.Errorf("redirect_delay must be non-negative (got: %s)", c.Registration.RedirectDelay))
	}
	add("sessions", c.Sessions.Validate())
	add("observability", c.Observability.Validate())
	return errors.Join(errs...)
}

// loadConfig reads config.yml and .env, then the fixed-name provider
// variables (SUPABASE_URL, SUPABASE_KEY).
func loadConfig() (*Config, error) {
	var opts []config.LoaderOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}

	cfg := &Config{}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	if err := config.ParseEnv(&cfg.Supabase); err != nil {
		return nil, err
	}
	return cfg, nil
}
