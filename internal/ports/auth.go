package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/target/finance-auth-client/internal/domain/auth"
)

// IdentityProvider talks to the OIDC provider's token and userinfo endpoints.
type IdentityProvider interface {
	// Exchange trades an authorization code for tokens. Non-success responses
	// are reported as domainauth.ErrExchangeFailed.
	Exchange(ctx context.Context, code string) (domainauth.TokenSet, error)

	// UserInfo fetches the profile for accessToken. Non-success responses
	// are reported as domainauth.ErrUserInfoFailed.
	UserInfo(ctx context.Context, accessToken string) (domainauth.UserInfo, error)
}

// SessionStore persists the local session: access token, refresh token, and cached profile.
type SessionStore interface {
	// SaveTokens writes the access token, and the refresh token only when it is non-empty.
	SaveTokens(ctx context.Context, tokens domainauth.TokenSet) error
	SaveProfile(ctx context.Context, profile domainauth.UserProfile) error
	// ReadProfile returns nil when no profile is stored or the stored value is unreadable.
	ReadProfile(ctx context.Context) (*domainauth.UserProfile, error)
	// AccessToken returns "" when absent.
	AccessToken(ctx context.Context) (string, error)
	// RefreshToken returns "" when absent.
	RefreshToken(ctx context.Context) (string, error)
	// ClearAll removes every slot.
	ClearAll(ctx context.Context) error
}

// SlotBackend is the durable key/value medium underneath a SessionStore.
type SlotBackend interface {
	// Get returns ok=false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// Delete removes all keys in one operation where the medium allows it.
	Delete(ctx context.Context, keys ...string) error
}

// ClaimsDecoder extracts unverified claims from a compact token.
type ClaimsDecoder interface {
	Decode(token string) (domainauth.Claims, error)
}

// Navigator performs a terminating navigation.
type Navigator interface {
	Navigate(ctx context.Context, nav domainauth.Navigation) error
}
