package httpx

import (
	"context"

	domainauth "github.com/target/finance-auth-client/internal/domain/auth"
)

// Unexported context key types avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same keys.
type (
	profileKey   struct{}
	requestIDKey struct{}
)

// SetProfileInContext returns a child context that carries the given profile.
// If profile is nil, the original ctx is returned unchanged.
func SetProfileInContext(ctx context.Context, profile *domainauth.UserProfile) context.Context {
	if profile == nil {
		return ctx
	}
	return context.WithValue(ctx, profileKey{}, profile)
}

// GetProfileFromContext returns the cached profile attached by RequireAuthBrowser.
func GetProfileFromContext(ctx context.Context) (*domainauth.UserProfile, bool) {
	if p, ok := ctx.Value(profileKey{}).(*domainauth.UserProfile); ok && p != nil {
		return p, true
	}
	return nil, false
}

// SetRequestIDInContext returns a child context carrying id.
func SetRequestIDInContext(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request ID, or "" outside a request.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
