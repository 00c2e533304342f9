package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem abstracts the lookups the loader performs.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// OSFileSystem is the FileSystem backed by the real disk.
type OSFileSystem struct{}

func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv loads a dotenv file without overriding variables already set.
func (OSFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Files are the config and dotenv files chosen for a service.
type Files struct {
	ConfigFile string
	EnvFile    string
}

type loaderOptions struct {
	fs         FileSystem
	configFile string
	envFile    string
}

// LoaderOption configures LoadConfig.
type LoaderOption func(*loaderOptions)

// WithFileSystem replaces the disk lookups.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(o *loaderOptions) { o.fs = fs }
}

// WithConfigFile pins the YAML file instead of searching for it.
func WithConfigFile(path string) LoaderOption {
	return func(o *loaderOptions) { o.configFile = path }
}

// WithEnvFile pins the dotenv file instead of searching for it.
func WithEnvFile(path string) LoaderOption {
	return func(o *loaderOptions) { o.envFile = path }
}

// Resolve returns the files LoadConfig would read for service.
func Resolve(service string, opts ...LoaderOption) Files {
	o := buildOptions(opts)
	return resolve(service, o)
}

// LoadConfig reads the configuration of service into cfg.
func LoadConfig(service string, cfg any, opts ...LoaderOption) error {
	o := buildOptions(opts)
	files := resolve(service, o)

	v := viper.New()
	if files.ConfigFile != "" {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", files.ConfigFile, err)
		}
	}
	if files.EnvFile != "" {
		if err := o.fs.LoadEnv(files.EnvFile); err != nil {
			return fmt.Errorf("config: load %s: %w", files.EnvFile, err)
		}
	}
	bindEnviron(v, os.Environ())

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config: unmarshal %s: %w", service, err)
	}
	return nil
}

func buildOptions(opts []LoaderOption) *loaderOptions {
	o := &loaderOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.fs == nil {
		o.fs = OSFileSystem{}
	}
	return o
}

func resolve(service string, o *loaderOptions) Files {
	files := Files{ConfigFile: o.configFile, EnvFile: o.envFile}
	if files.ConfigFile == "" {
		files.ConfigFile = firstExisting(o.fs, configCandidates(service))
	}
	if files.EnvFile == "" {
		files.EnvFile = firstExisting(o.fs, envCandidates(service))
	}
	return files
}

func configCandidates(service string) []string {
	var paths []string
	for _, up := range []string{"./", "../", "../../"} {
		paths = append(paths, fmt.Sprintf("%scmd/%s/config.yml", up, service))
	}
	return append(paths, "./config/config.yml", "./config.yml")
}

func envCandidates(service string) []string {
	var paths []string
	for _, name := range []string{".env." + service, ".env"} {
		for _, dir := range []string{"./cmd/" + service, "../cmd/" + service, ".", ".."} {
			paths = append(paths, dir+"/"+name)
		}
	}
	return paths
}

func firstExisting(fs FileSystem, paths []string) string {
	for _, p := range paths {
		if fs.Exists(p) {
			return p
		}
	}
	return ""
}

// bindEnviron sets every nesting of each variable name on v, so
// REGISTRATION_REDIRECT_DELAY reaches registration.redirect_delay.
func bindEnviron(v *viper.Viper, environ []string) {
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" || strings.HasPrefix(key, "_") {
			continue
		}
		for _, variant := range keyVariants(key) {
			v.Set(variant, value)
		}
	}
}

// keyVariants lists the dotted spellings of an environment variable name.
// SERVER_RATE_LIMIT becomes server_rate_limit, server.rate.limit,
// server.rate_limit and server_rate.limit.
func keyVariants(envKey string) []string {
	lower := strings.ToLower(envKey)
	parts := strings.Split(lower, "_")
	if len(parts) == 1 {
		return []string{lower}
	}

	seen := make(map[string]struct{})
	var out []string
	add := func(s string) {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	add(lower)
	add(strings.Join(parts, "."))
	for i := 1; i < len(parts); i++ {
		add(strings.Join(parts[:i], ".") + "." + strings.Join(parts[i:], "_"))
		add(strings.Join(parts[:i], "_") + "." + strings.Join(parts[i:], "."))
	}
	return out
}
