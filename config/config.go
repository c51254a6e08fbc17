package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Authentication mode and dev identity
//   - provider.go: Identity provider settings and endpoint resolution
//   - http.go: Loopback UI server configuration
//   - storage.go: Local session storage configuration
//   - logging.go: Logger configuration
type AppConfig struct {
	// IsDev switches the default log format to text and the default level to debug.
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Authentication mode configuration
	Auth AuthConfig

	// Identity provider settings from the environment. These are the
	// runtime-injected layer of provider resolution; see ResolveProvider.
	Provider ProviderSettings `envPrefix:"AUTH_"`

	// Loopback UI server configuration
	HTTP HTTPConfig

	// Local session storage configuration
	Storage StorageConfig `envPrefix:"SESSION_"`

	// Logging configuration
	Logging LoggingConfig `envPrefix:"LOG_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	// Check NODE_ENV for dev mode
	c.detectDevMode()

	c.HTTP.Sanitize()
	c.Storage.Sanitize()
	c.applyDevLogging()
	c.Logging.Sanitize()
	c.Provider = c.Provider.trimmed()
}

// applyDevLogging fills unset logging options with dev-friendly values.
func (c *AppConfig) applyDevLogging() {
	if !c.IsDev {
		return
	}
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = "text"
	}
	if _, set := os.LookupEnv("LOG_LEVEL"); !set {
		c.Logging.Level = "debug"
	}
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// ResolveProvider resolves the provider configuration. Each field is taken from
// the first non-empty source: overrides (e.g. CLI flags), the environment,
// build-time settings, and finally the computed defaults.
func (c *AppConfig) ResolveProvider(overrides ProviderSettings) ProviderConfig {
	return Resolve(c.HTTP.Origin, overrides, c.Provider, BuildSettings())
}
