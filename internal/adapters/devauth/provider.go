package devauth

// Package devauth provides a simple, config-driven IdentityProvider for local development.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	domainauth "github.com/target/finance-auth-client/internal/domain/auth"
)

// Code is the authorization code the local authorize shortcut hands back.
const Code = "dev"

// Config controls the dev auth provider behavior.
// Username is required; the other fields may be empty.
type Config struct {
	Username      string
	Name          string
	Email         string
	Roles         []string
	TokenLifetime time.Duration // default 8h when zero
}

// Provider implements ports.IdentityProvider without an identity provider.
// Exchange ignores the code and mints an unsigned access token that carries the
// configured roles, so the rest of the client runs exactly as it would against
// a real provider. Never enable it outside local development.
type Provider struct {
	cfg Config
	now func() time.Time
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Username == "" {
		return nil, errors.New("dev auth: Username is required")
	}
	if cfg.TokenLifetime == 0 {
		cfg.TokenLifetime = 8 * time.Hour
	}
	cfg.Roles = append([]string(nil), cfg.Roles...)
	return &Provider{cfg: cfg, now: time.Now}, nil
}

type devClaims struct {
	jwt.RegisteredClaims
	PreferredUsername string `json:"preferred_username"`
	RealmAccess       struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`
}

// Exchange returns a fresh unsigned token for the configured user.
func (p *Provider) Exchange(_ context.Context, code string) (domainauth.TokenSet, error) {
	if code == "" {
		return domainauth.TokenSet{}, domainauth.ErrMissingCode
	}

	now := p.now()
	claims := devClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.subject(),
			Issuer:    "devauth",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.cfg.TokenLifetime)),
		},
		PreferredUsername: p.cfg.Username,
	}
	claims.RealmAccess.Roles = p.cfg.Roles

	access, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		return domainauth.TokenSet{}, fmt.Errorf("%w: mint dev token: %w", domainauth.ErrExchangeFailed, err)
	}

	return domainauth.TokenSet{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int64(p.cfg.TokenLifetime / time.Second),
		Scope:       "openid profile email",
	}, nil
}

// UserInfo returns the configured identity.
func (p *Provider) UserInfo(_ context.Context, accessToken string) (domainauth.UserInfo, error) {
	if accessToken == "" {
		return domainauth.UserInfo{}, domainauth.ErrMissingToken
	}
	return domainauth.UserInfo{
		Subject:           p.subject(),
		Name:              p.cfg.Name,
		PreferredUsername: p.cfg.Username,
		Email:             p.cfg.Email,
	}, nil
}

func (p *Provider) subject() string { return "dev:" + p.cfg.Username }
