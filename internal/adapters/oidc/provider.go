package oidc

// Package oidc talks to the identity provider's token and userinfo endpoints.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	domainauth "github.com/target/finance-auth-client/internal/domain/auth"
	"golang.org/x/oauth2"
)

// Provider implements ports.IdentityProvider for a public OIDC client using the
// authorization-code grant. Endpoints are fixed at construction; no discovery
// document is fetched.
type Provider struct {
	config     *oauth2.Config
	httpClient *http.Client

	// go-oidc provider built from static endpoints, used for userinfo
	oidcProvider *gooidc.Provider
}

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID    string
	RedirectURL string
	IssuerURL   string
	AuthURL     string
	TokenURL    string
	UserInfoURL string
	Scopes      []string
	HTTPClient  *http.Client // Optional, defaults to a client with a 30s timeout
}

// NewProvider creates a new OIDC provider.
func NewProvider(config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if config.TokenURL == "" {
		return nil, errors.New("token URL is required")
	}
	if config.UserInfoURL == "" {
		return nil, errors.New("userinfo URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	ctx := gooidc.ClientContext(context.Background(), httpClient)
	op := (&gooidc.ProviderConfig{
		IssuerURL:   config.IssuerURL,
		AuthURL:     config.AuthURL,
		TokenURL:    config.TokenURL,
		UserInfoURL: config.UserInfoURL,
	}).NewProvider(ctx)

	return &Provider{
		httpClient:   httpClient,
		oidcProvider: op,
		config: &oauth2.Config{
			ClientID:    config.ClientID,
			RedirectURL: config.RedirectURL,
			Scopes:      config.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  config.AuthURL,
				TokenURL: config.TokenURL,
				// Public client: client_id travels in the form body, no secret.
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
	}, nil
}

// Exchange posts grant_type=authorization_code, client_id, redirect_uri and code
// to the token endpoint.
func (p *Provider) Exchange(ctx context.Context, code string) (domainauth.TokenSet, error) {
	if code == "" {
		return domainauth.TokenSet{}, domainauth.ErrMissingCode
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			return domainauth.TokenSet{}, fmt.Errorf("%w: token endpoint returned %d: %w",
				domainauth.ErrExchangeFailed, re.Response.StatusCode, err)
		}
		return domainauth.TokenSet{}, fmt.Errorf("%w: %w", domainauth.ErrExchangeFailed, err)
	}

	return tokenSetFromOAuth2(token), nil
}

// UserInfo fetches the userinfo document with a bearer token.
func (p *Provider) UserInfo(ctx context.Context, accessToken string) (domainauth.UserInfo, error) {
	if accessToken == "" {
		return domainauth.UserInfo{}, domainauth.ErrMissingToken
	}

	ctx = gooidc.ClientContext(ctx, p.httpClient)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	ui, err := p.oidcProvider.UserInfo(ctx, src)
	if err != nil {
		return domainauth.UserInfo{}, fmt.Errorf("%w: %w", domainauth.ErrUserInfoFailed, err)
	}

	var info domainauth.UserInfo
	if claimsErr := ui.Claims(&info); claimsErr != nil {
		return domainauth.UserInfo{}, fmt.Errorf("%w: decode user info: %w", domainauth.ErrUserInfoFailed, claimsErr)
	}
	return info, nil
}

// tokenSetFromOAuth2 maps the oauth2 token into the persisted TokenSet.
func tokenSetFromOAuth2(tok *oauth2.Token) domainauth.TokenSet {
	ts := domainauth.TokenSet{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		ExpiresIn:    tok.ExpiresIn,
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		ts.Scope = scope
	}
	if ts.ExpiresIn == 0 && !tok.Expiry.IsZero() {
		ts.ExpiresIn = int64(time.Until(tok.Expiry).Round(time.Second).Seconds())
	}
	return ts
}
