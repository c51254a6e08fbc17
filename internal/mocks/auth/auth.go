package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	domainauth "github.com/target/finance-auth-client/internal/domain/auth"
	"github.com/target/finance-auth-client/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider = (*FakeIdentityProvider)(nil)
	_ ports.SessionStore     = (*MemorySessionStore)(nil)
	_ ports.Navigator        = (*RecordingNavigator)(nil)
)

// FakeIdentityProvider simulates an IdP for tests. By default Exchange issues an
// unsigned token for DefaultUser that expires an hour from now.
type FakeIdentityProvider struct {
	ExchangeFunc func(ctx context.Context, code string) (domainauth.TokenSet, error)
	UserInfoFunc func(ctx context.Context, accessToken string) (domainauth.UserInfo, error)

	DefaultUser  domainauth.UserInfo
	DefaultRoles []string

	mu            sync.Mutex
	exchangeCalls []string
	userInfoCalls []string
}

// NewFakeIdentityProvider creates a FakeIdentityProvider with sensible defaults.
func NewFakeIdentityProvider() *FakeIdentityProvider {
	return &FakeIdentityProvider{
		DefaultUser: domainauth.UserInfo{
			Subject:           "mock-user-1",
			Name:              "Mock User",
			PreferredUsername: "mock.user",
			Email:             "mock.user@example.com",
		},
		DefaultRoles: []string{"user"},
	}
}

func (f *FakeIdentityProvider) Exchange(ctx context.Context, code string) (domainauth.TokenSet, error) {
	f.mu.Lock()
	f.exchangeCalls = append(f.exchangeCalls, code)
	f.mu.Unlock()

	if f.ExchangeFunc != nil {
		return f.ExchangeFunc(ctx, code)
	}
	if code == "" {
		return domainauth.TokenSet{}, domainauth.ErrMissingCode
	}
	token, err := UnsignedToken(time.Now().Add(time.Hour), f.DefaultRoles)
	if err != nil {
		return domainauth.TokenSet{}, err
	}
	return domainauth.TokenSet{
		AccessToken:  token,
		RefreshToken: "refresh-" + code,
		TokenType:    "Bearer",
		ExpiresIn:    3600,
	}, nil
}

func (f *FakeIdentityProvider) UserInfo(ctx context.Context, accessToken string) (domainauth.UserInfo, error) {
	f.mu.Lock()
	f.userInfoCalls = append(f.userInfoCalls, accessToken)
	f.mu.Unlock()

	if f.UserInfoFunc != nil {
		return f.UserInfoFunc(ctx, accessToken)
	}
	if accessToken == "" {
		return domainauth.UserInfo{}, domainauth.ErrMissingToken
	}
	return f.DefaultUser, nil
}

// ExchangeCalls returns the codes passed to Exchange, in order.
func (f *FakeIdentityProvider) ExchangeCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.exchangeCalls...)
}

// UserInfoCalls returns the tokens passed to UserInfo, in order.
func (f *FakeIdentityProvider) UserInfoCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.userInfoCalls...)
}

// UnsignedToken builds a compact token with an exp claim and realm roles.
// The signature segment is empty; callers only ever decode the payload.
func UnsignedToken(expiresAt time.Time, roles []string) (string, error) {
	claims := jwt.MapClaims{"exp": expiresAt.Unix()}
	if roles != nil {
		claims["realm_access"] = map[string]any{"roles": roles}
	}
	return jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
}

// MemorySessionStore is an in-memory session store for unit tests.
// Set the *Err fields to make the corresponding operation fail.
type MemorySessionStore struct {
	mu      sync.Mutex
	tokens  domainauth.TokenSet
	profile *domainauth.UserProfile

	SaveErr  error
	ReadErr  error
	ClearErr error
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (m *MemorySessionStore) SaveTokens(_ context.Context, tokens domainauth.TokenSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.tokens.AccessToken = tokens.AccessToken
	if tokens.RefreshToken != "" {
		m.tokens.RefreshToken = tokens.RefreshToken
	}
	return nil
}

func (m *MemorySessionStore) SaveProfile(_ context.Context, profile domainauth.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.profile = &profile
	return nil
}

func (m *MemorySessionStore) ReadProfile(_ context.Context) (*domainauth.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	if m.profile == nil {
		return nil, nil
	}
	p := *m.profile
	return &p, nil
}

func (m *MemorySessionStore) AccessToken(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return "", m.ReadErr
	}
	return m.tokens.AccessToken, nil
}

func (m *MemorySessionStore) RefreshToken(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return "", m.ReadErr
	}
	return m.tokens.RefreshToken, nil
}

func (m *MemorySessionStore) ClearAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.tokens = domainauth.TokenSet{}
	m.profile = nil
	return nil
}

// RecordingNavigator records navigations instead of performing them.
type RecordingNavigator struct {
	Err error

	mu   sync.Mutex
	navs []domainauth.Navigation
}

func (r *RecordingNavigator) Navigate(_ context.Context, nav domainauth.Navigation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.navs = append(r.navs, nav)
	return nil
}

// Navigations returns the recorded navigations, in order.
func (r *RecordingNavigator) Navigations() []domainauth.Navigation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domainauth.Navigation(nil), r.navs...)
}

// Last returns the most recent navigation, or the zero value.
func (r *RecordingNavigator) Last() domainauth.Navigation {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.navs) == 0 {
		return domainauth.Navigation{}
	}
	return r.navs[len(r.navs)-1]
}
