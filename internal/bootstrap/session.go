package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/target/finance-auth-client/config"
	"github.com/target/finance-auth-client/internal/adapters/devauth"
	"github.com/target/finance-auth-client/internal/adapters/filestore"
	"github.com/target/finance-auth-client/internal/adapters/jwtclaims"
	"github.com/target/finance-auth-client/internal/adapters/keyring"
	"github.com/target/finance-auth-client/internal/adapters/oidc"
	"github.com/target/finance-auth-client/internal/adapters/sessionstore"
	"github.com/target/finance-auth-client/internal/ports"
	"github.com/target/finance-auth-client/internal/service"
)

// SessionConfig contains configuration for the session manager.
type SessionConfig struct {
	App config.AppConfig
	// Overrides is the highest-precedence provider layer (CLI flags).
	Overrides config.ProviderSettings
	// Backend replaces the configured storage backend when set.
	Backend    ports.SlotBackend
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// BuildSessionManager resolves the provider configuration and wires the session
// manager to the configured identity provider and storage backend.
func BuildSessionManager(cfg SessionConfig) (*service.SessionManager, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	backend := cfg.Backend
	if backend == nil {
		var err error
		backend, err = BuildSlotBackend(cfg.App.Storage, logger)
		if err != nil {
			return nil, err
		}
	}

	providerCfg := cfg.App.ResolveProvider(cfg.Overrides)
	provider, providerCfg, err := BuildIdentityProvider(IdentityProviderConfig{
		Auth:       cfg.App.Auth,
		Provider:   providerCfg,
		HTTPClient: cfg.HTTPClient,
		Timeout:    cfg.App.HTTP.ProviderTimeout,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	return service.NewSessionManager(service.SessionManagerOptions{
		Config:   providerCfg,
		Provider: provider,
		Store:    sessionstore.New(sessionstore.Options{Backend: backend, Logger: logger}),
		Decoder:  jwtclaims.Decoder{},
		Logger:   logger,
	}), nil
}

// BuildSlotBackend creates the durable backend selected by cfg.Backend.
func BuildSlotBackend(cfg config.StorageConfig, logger *slog.Logger) (ports.SlotBackend, error) {
	switch cfg.Backend {
	case config.StorageMemory:
		logger.Warn("session storage is in-memory; sessions end with the process")
		return sessionstore.NewMemoryBackend(), nil

	case config.StorageKeyring:
		if err := keyring.Probe(cfg.AppName); err != nil {
			return nil, err
		}
		return keyring.New(cfg.AppName), nil

	case config.StorageFile, "":
		path := cfg.File
		if path == "" {
			var err error
			if path, err = filestore.DefaultPath(cfg.AppName); err != nil {
				return nil, err
			}
		}
		return filestore.New(filestore.Options{Path: path, LockTimeout: cfg.LockTimeout, Logger: logger})

	default:
		return nil, fmt.Errorf("unsupported session backend %q", cfg.Backend)
	}
}

// IdentityProviderConfig contains configuration for the identity provider adapter.
type IdentityProviderConfig struct {
	Auth       config.AuthConfig
	Provider   config.ProviderConfig
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *slog.Logger
}

// BuildIdentityProvider creates the provider adapter for the configured auth mode.
// In mock mode the returned configuration points the authorize and registration
// endpoints back at the client's own callback.
func BuildIdentityProvider(cfg IdentityProviderConfig) (ports.IdentityProvider, config.ProviderConfig, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		logger.Warn("using dev auth provider; tokens are unsigned", "username", cfg.Auth.DevAuth.Username)
		prov, err := devauth.NewProvider(devauth.Config{
			Username:      cfg.Auth.DevAuth.Username,
			Name:          cfg.Auth.DevAuth.Name,
			Email:         cfg.Auth.DevAuth.Email,
			Roles:         cfg.Auth.DevAuth.Roles,
			TokenLifetime: cfg.Auth.DevAuth.TokenLifetime,
		})
		if err != nil {
			return nil, config.ProviderConfig{}, fmt.Errorf("dev auth provider: %w", err)
		}
		return prov, cfg.Provider.WithLocalAuthorize(devauth.Code), nil

	case config.AuthModeOAuth, "":
		client := cfg.HTTPClient
		if client == nil {
			client = &http.Client{Timeout: cfg.Timeout}
		}
		p := cfg.Provider
		prov, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:    p.ClientID,
			RedirectURL: p.RedirectURI,
			IssuerURL:   p.Issuer(),
			AuthURL:     p.Endpoints.Authorize,
			TokenURL:    p.Endpoints.Token,
			UserInfoURL: p.Endpoints.UserInfo,
			Scopes:      []string{"openid", "profile", "email"},
			HTTPClient:  client,
		})
		if err != nil {
			return nil, config.ProviderConfig{}, fmt.Errorf("oidc provider: %w", err)
		}
		return prov, p, nil

	default:
		return nil, config.ProviderConfig{}, errors.New("unsupported auth mode: " + string(cfg.Auth.Mode))
	}
}
