package config

import (
	"strings"
	"time"
)

// HTTPConfig contains loopback UI server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the loopback UI server to.
	Addr string `env:"HTTP_ADDR" envDefault:"localhost:3000"`

	// Origin is the public origin of the UI (e.g., "http://localhost:3000").
	// Redirect URIs default to values derived from it.
	Origin string `env:"APP_ORIGIN" envDefault:"http://localhost:3000"`

	// CallbackSuccessDelay is how long the callback page shows before moving to /home.
	CallbackSuccessDelay time.Duration `env:"CALLBACK_SUCCESS_DELAY" envDefault:"500ms"`

	// CallbackFailureDelay is how long the callback error notice shows before moving to /login.
	CallbackFailureDelay time.Duration `env:"CALLBACK_FAILURE_DELAY" envDefault:"3s"`

	// ProviderTimeout bounds each token/userinfo request. Zero leaves the
	// transport default (no client-side timeout).
	ProviderTimeout time.Duration `env:"PROVIDER_HTTP_TIMEOUT" envDefault:"30s"`

	// LoginTimeout bounds how long the CLI waits for the browser to come back.
	LoginTimeout time.Duration `env:"LOGIN_TIMEOUT" envDefault:"5m"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	h.Addr = strings.TrimSpace(h.Addr)
	if h.Addr == "" {
		h.Addr = "localhost:3000"
	}
	h.Origin = strings.TrimRight(strings.TrimSpace(h.Origin), "/")
	if h.Origin == "" {
		h.Origin = DefaultOrigin
	}
	if h.CallbackSuccessDelay < 0 {
		h.CallbackSuccessDelay = 0
	}
	if h.CallbackFailureDelay < 0 {
		h.CallbackFailureDelay = 0
	}
	if h.ProviderTimeout < 0 {
		h.ProviderTimeout = 0
	}
	if h.LoginTimeout <= 0 {
		h.LoginTimeout = 5 * time.Minute
	}
}
