package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv fills the `env`-tagged fields of dst from the process
// environment. It runs after LoadConfig so that fixed-name variables win
// over config.yml.
//
// Fields without a matching variable keep their current value.
func ParseEnv(dst any) error {
	if err := env.Parse(dst); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

// ParseEnvWith is ParseEnv over an explicit environment, used by tests and
// by callers that already hold a snapshot.
func ParseEnvWith(dst any, environ map[string]string) error {
	if err := env.ParseWithOptions(dst, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}
