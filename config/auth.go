package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses the configured OIDC provider.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	Username      string        `env:"USERNAME"       envDefault:"dev-user"`
	Name          string        `env:"NAME"           envDefault:"Dev User"`
	Email         string        `env:"EMAIL"          envDefault:"dev@example.com"`
	Roles         []string      `env:"ROLES"          envDefault:"admin;viewer"    envSeparator:";"`
	TokenLifetime time.Duration `env:"TOKEN_LIFETIME" envDefault:"8h"`
}

// AuthConfig groups authentication mode configuration.
type AuthConfig struct {
	// Mode determines which identity provider adapter to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`
}
