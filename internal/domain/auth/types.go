package auth

// Package auth contains domain-level types for the authentication session.
// It is pure and free of framework/adapter concerns.

import (
	"slices"
	"time"
)

// UserProfile is the cached view of the authenticated identity.
// It is derived from the most recent successful token exchange and is not
// re-validated on read, so it can outlive the access token it came from.
type UserProfile struct {
	DisplayName string   `json:"name"`
	Email       string   `json:"email"`
	Username    string   `json:"username"`
	Roles       []string `json:"roles"`
	SubjectID   string   `json:"sub,omitempty"`
}

// HasRole reports whether role appears in the profile's role list.
func (p UserProfile) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

// TokenSet is the token endpoint response persisted by the session store.
type TokenSet struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// Claims holds the subset of access token claims the client cares about.
// Every field is optional; a zero ExpiresAt means the token carried no exp claim.
type Claims struct {
	ExpiresAt         time.Time
	Roles             []string
	Subject           string
	PreferredUsername string
	Issuer            string
}

// HasExpiry reports whether the token carried an exp claim.
func (c Claims) HasExpiry() bool { return !c.ExpiresAt.IsZero() }

// ValidAt reports whether the claims' expiry is strictly after now truncated to
// whole seconds. A fractional exp keeps its fraction.
// Claims without an expiry are never valid.
func (c Claims) ValidAt(now time.Time) bool {
	if !c.HasExpiry() {
		return false
	}
	return c.ExpiresAt.After(time.Unix(now.Unix(), 0))
}

// UserInfo is the provider's userinfo response, restricted to the fields we merge.
type UserInfo struct {
	Subject           string `json:"sub"`
	Name              string `json:"name"`
	PreferredUsername string `json:"preferred_username"`
	Email             string `json:"email"`
}

// DefaultDisplayName is used when the provider returns neither name nor preferred_username.
const DefaultDisplayName = "User"

// MergeProfile builds a UserProfile from a userinfo response and roles decoded from
// the access token. Roles always come from the token, never from userinfo.
func MergeProfile(info UserInfo, roles []string) UserProfile {
	if roles == nil {
		roles = []string{}
	}
	name := info.Name
	if name == "" {
		name = info.PreferredUsername
	}
	if name == "" {
		name = DefaultDisplayName
	}
	return UserProfile{
		DisplayName: name,
		Email:       info.Email,
		Username:    info.PreferredUsername,
		Roles:       roles,
		SubjectID:   info.Subject,
	}
}
