package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/target/finance-auth-client/config"
	domainauth "github.com/target/finance-auth-client/internal/domain/auth"
	"github.com/target/finance-auth-client/internal/ports"
)

// SessionManagerOptions groups dependencies for SessionManager.
type SessionManagerOptions struct {
	Config   config.ProviderConfig
	Provider ports.IdentityProvider
	Store    ports.SessionStore
	Decoder  ports.ClaimsDecoder
	Now      func() time.Time
	Logger   *slog.Logger
}

// SessionManager orchestrates the browser authentication flow: provider redirects,
// the callback exchange, userinfo retrieval, and the local session lifecycle.
//
// The provider configuration is captured at construction and never changes.
// Operations are not serialized; concurrent callers race on the store and the
// last writer wins.
type SessionManager struct {
	cfg      config.ProviderConfig
	provider ports.IdentityProvider
	store    ports.SessionStore
	decoder  ports.ClaimsDecoder
	now      func() time.Time
	logger   *slog.Logger
}

// NewSessionManager constructs a new SessionManager.
func NewSessionManager(opts SessionManagerOptions) *SessionManager {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		cfg:      opts.Config,
		provider: opts.Provider,
		store:    opts.Store,
		decoder:  opts.Decoder,
		now:      now,
		logger:   logger.With("component", "session_manager"),
	}
}

// Config returns the provider configuration the manager was built with.
func (m *SessionManager) Config() config.ProviderConfig { return m.cfg }

// Login returns the navigation to the provider's authorization endpoint.
func (m *SessionManager) Login() domainauth.Navigation {
	return domainauth.Navigation{Kind: domainauth.NavigateLogin, URL: m.cfg.Endpoints.Authorize}
}

// Register returns the navigation to the provider's registration endpoint.
func (m *SessionManager) Register() domainauth.Navigation {
	return domainauth.Navigation{Kind: domainauth.NavigateRegister, URL: m.cfg.Endpoints.Register}
}

// Logout clears every local slot and returns the navigation to the provider's logout
// endpoint. When clearing fails no navigation is returned, so the caller never ends
// the provider session while local tokens survive.
func (m *SessionManager) Logout(ctx context.Context) (domainauth.Navigation, error) {
	if err := m.store.ClearAll(ctx); err != nil {
		return domainauth.Navigation{}, fmt.Errorf("clear session: %w", err)
	}
	m.logger.InfoContext(ctx, "local session cleared")
	return domainauth.Navigation{Kind: domainauth.NavigateLogout, URL: m.cfg.LogoutURL()}, nil
}

// ExchangeCodeForToken trades an authorization code for tokens and persists them.
// Nothing is persisted when the exchange fails.
func (m *SessionManager) ExchangeCodeForToken(ctx context.Context, code string) (domainauth.TokenSet, error) {
	tokens, err := m.provider.Exchange(ctx, code)
	if err != nil {
		return domainauth.TokenSet{}, fmt.Errorf("exchange authorization code: %w", err)
	}
	if err := m.store.SaveTokens(ctx, tokens); err != nil {
		return domainauth.TokenSet{}, fmt.Errorf("save tokens: %w", err)
	}
	return tokens, nil
}

// FetchUserInfo loads the profile for the stored access token, merges it with the
// roles carried by the token, and caches the result.
func (m *SessionManager) FetchUserInfo(ctx context.Context) (domainauth.UserProfile, error) {
	token, err := m.store.AccessToken(ctx)
	if err != nil {
		return domainauth.UserProfile{}, fmt.Errorf("read access token: %w", err)
	}
	if token == "" {
		return domainauth.UserProfile{}, domainauth.ErrMissingToken
	}

	info, err := m.provider.UserInfo(ctx, token)
	if err != nil {
		return domainauth.UserProfile{}, fmt.Errorf("fetch userinfo: %w", err)
	}

	profile := domainauth.MergeProfile(info, m.rolesFromToken(ctx, token))
	if err := m.store.SaveProfile(ctx, profile); err != nil {
		return domainauth.UserProfile{}, fmt.Errorf("save profile: %w", err)
	}
	return profile, nil
}

// HandleCallback completes the flow for a provider redirect back to the client.
// The callback URL must carry a code; a provider error parameter is reported as
// domainauth.ErrProviderDenied. No network call is made in either case.
func (m *SessionManager) HandleCallback(ctx context.Context, callbackURL *url.URL) (domainauth.UserProfile, error) {
	var q url.Values
	if callbackURL != nil {
		q = callbackURL.Query()
	}

	if providerErr := q.Get("error"); providerErr != "" {
		if desc := q.Get("error_description"); desc != "" {
			return domainauth.UserProfile{}, fmt.Errorf("%w: %s: %s", domainauth.ErrProviderDenied, providerErr, desc)
		}
		return domainauth.UserProfile{}, fmt.Errorf("%w: %s", domainauth.ErrProviderDenied, providerErr)
	}

	code := q.Get("code")
	if code == "" {
		return domainauth.UserProfile{}, domainauth.ErrMissingCode
	}

	if _, err := m.ExchangeCodeForToken(ctx, code); err != nil {
		m.logger.WarnContext(ctx, "callback exchange failed", "error", err)
		return domainauth.UserProfile{}, err
	}

	profile, err := m.FetchUserInfo(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "callback userinfo failed", "error", err)
		return domainauth.UserProfile{}, err
	}

	m.logger.InfoContext(ctx, "login completed", "username", profile.Username, "roles", len(profile.Roles))
	return profile, nil
}

// IsAuthenticated reports whether a stored access token exists whose exp is
// strictly after now. Read and decode failures count as unauthenticated.
func (m *SessionManager) IsAuthenticated(ctx context.Context) bool {
	claims, ok := m.currentClaims(ctx)
	return ok && claims.ValidAt(m.now())
}

// GetCurrentUser returns the cached profile, or nil when none is stored.
// The profile is returned even after the token has expired.
func (m *SessionManager) GetCurrentUser(ctx context.Context) (*domainauth.UserProfile, error) {
	profile, err := m.store.ReadProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	return profile, nil
}

// HasRole reports whether the cached profile lists role.
func (m *SessionManager) HasRole(ctx context.Context, role string) bool {
	profile, err := m.GetCurrentUser(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "role check could not read profile", "error", err)
		return false
	}
	return profile != nil && profile.HasRole(role)
}

// AccessToken returns the stored access token, or domainauth.ErrMissingToken.
func (m *SessionManager) AccessToken(ctx context.Context) (string, error) {
	token, err := m.store.AccessToken(ctx)
	if err != nil {
		return "", fmt.Errorf("read access token: %w", err)
	}
	if token == "" {
		return "", domainauth.ErrMissingToken
	}
	return token, nil
}

// Status summarizes the local session.
type Status struct {
	Authenticated bool                    `json:"authenticated"`
	Stale         bool                    `json:"stale"`
	ExpiresAt     *time.Time              `json:"expires_at,omitempty"`
	User          *domainauth.UserProfile `json:"user,omitempty"`
}

// Status reports authentication state together with the cached profile.
// Stale is set when a profile is cached but the token is no longer valid.
func (m *SessionManager) Status(ctx context.Context) Status {
	var st Status
	if claims, ok := m.currentClaims(ctx); ok {
		st.Authenticated = claims.ValidAt(m.now())
		if claims.HasExpiry() {
			exp := claims.ExpiresAt.UTC()
			st.ExpiresAt = &exp
		}
	}

	profile, err := m.GetCurrentUser(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "status could not read profile", "error", err)
	}
	st.User = profile
	st.Stale = profile != nil && !st.Authenticated
	return st
}

func (m *SessionManager) currentClaims(ctx context.Context) (domainauth.Claims, bool) {
	token, err := m.store.AccessToken(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "read access token failed", "error", err)
		return domainauth.Claims{}, false
	}
	if strings.TrimSpace(token) == "" {
		return domainauth.Claims{}, false
	}
	claims, err := m.decoder.Decode(token)
	if err != nil {
		m.logger.DebugContext(ctx, "access token claims unreadable", "error", err)
		return domainauth.Claims{}, false
	}
	return claims, true
}

func (m *SessionManager) rolesFromToken(ctx context.Context, token string) []string {
	claims, err := m.decoder.Decode(token)
	if err != nil {
		m.logger.DebugContext(ctx, "access token roles unreadable", "error", err)
		return []string{}
	}
	return claims.Roles
}
