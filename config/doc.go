// Package config loads service configuration.
//
// Values are layered: config.yml (found under cmd/<service>/ or passed
// explicitly), then a .env file, then the process environment. Environment
// variables are mapped onto nested keys, so SERVER_PORT overrides
// server.port. Secrets that existing deployments export under fixed names
// (SUPABASE_URL, SUPABASE_KEY) are read with ParseEnv.
//
// Application configs embed ServiceConfig:
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Server server.Config `yaml:"server" mapstructure:"server"`
//	}
package config
