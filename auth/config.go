package auth

import (
	"fmt"
	"slices"
)

// Provider names understood by Config.
const (
	ProviderSupabase = "supabase"
	ProviderMemory   = "memory"
)

// Config selects the account provider.
type Config struct {
	// Provider is "supabase" (default) or "memory".
	Provider string `yaml:"provider" mapstructure:"provider"`
}

// ApplyDefaults sets the provider to supabase when empty.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderSupabase
	}
}

// Validate rejects unknown provider names.
func (c *Config) Validate() error {
	if !slices.Contains([]string{ProviderSupabase, ProviderMemory}, c.Provider) {
		return fmt.Errorf("auth.provider must be %q or %q (got: %q)", ProviderSupabase, ProviderMemory, c.Provider)
	}
	return nil
}
