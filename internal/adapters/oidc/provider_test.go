package oidc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/finance-auth-client/internal/domain/auth"
	"golang.org/x/oauth2"
)

// fakeIdP serves token and userinfo endpoints for tests.
type fakeIdP struct {
	tokenStatus    int
	tokenBody      map[string]any
	userInfoStatus int
	userInfoBody   map[string]any

	mu         sync.Mutex
	lastForm   map[string]string
	lastAuth   string
	tokenCalls atomic.Int32
	infoCalls  atomic.Int32
}

func (f *fakeIdP) handler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		form := map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		f.mu.Lock()
		f.lastForm = form
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.tokenStatus)
		_ = json.NewEncoder(w).Encode(f.tokenBody)
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		f.infoCalls.Add(1)
		f.mu.Lock()
		f.lastAuth = r.Header.Get("Authorization")
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.userInfoStatus)
		_ = json.NewEncoder(w).Encode(f.userInfoBody)
	})
	return mux
}

func (f *fakeIdP) form() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastForm
}

func newTestProvider(t *testing.T, idp *fakeIdP) *Provider {
	t.Helper()
	srv := httptest.NewServer(idp.handler(t))
	t.Cleanup(srv.Close)

	p, err := NewProvider(ProviderConfig{
		ClientID:    "finance-frontend-app",
		RedirectURL: "http://localhost:3000/callback",
		AuthURL:     srv.URL + "/auth",
		TokenURL:    srv.URL + "/token",
		UserInfoURL: srv.URL + "/userinfo",
		HTTPClient:  srv.Client(),
	})
	require.NoError(t, err)
	return p
}

func TestNewProvider_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		config ProviderConfig
		errMsg string
	}{
		{
			name:   "missing client ID",
			config: ProviderConfig{RedirectURL: "http://localhost/callback", TokenURL: "http://idp/token", UserInfoURL: "http://idp/userinfo"},
			errMsg: "client ID is required",
		},
		{
			name:   "missing redirect URL",
			config: ProviderConfig{ClientID: "client", TokenURL: "http://idp/token", UserInfoURL: "http://idp/userinfo"},
			errMsg: "redirect URL is required",
		},
		{
			name:   "missing token URL",
			config: ProviderConfig{ClientID: "client", RedirectURL: "http://localhost/callback", UserInfoURL: "http://idp/userinfo"},
			errMsg: "token URL is required",
		},
		{
			name:   "missing userinfo URL",
			config: ProviderConfig{ClientID: "client", RedirectURL: "http://localhost/callback", TokenURL: "http://idp/token"},
			errMsg: "userinfo URL is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(tt.config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestProvider_Exchange_Success(t *testing.T) {
	idp := &fakeIdP{
		tokenStatus: http.StatusOK,
		tokenBody: map[string]any{
			"access_token":  "access-1",
			"refresh_token": "refresh-1",
			"token_type":    "Bearer",
			"expires_in":    300,
			"scope":         "openid profile email",
		},
	}
	p := newTestProvider(t, idp)

	ts, err := p.Exchange(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "access-1", ts.AccessToken)
	assert.Equal(t, "refresh-1", ts.RefreshToken)
	assert.Equal(t, "Bearer", ts.TokenType)
	assert.Equal(t, int64(300), ts.ExpiresIn)
	assert.Equal(t, "openid profile email", ts.Scope)

	assert.Equal(t, map[string]string{
		"grant_type":   "authorization_code",
		"client_id":    "finance-frontend-app",
		"redirect_uri": "http://localhost:3000/callback",
		"code":         "abc123",
	}, idp.form())
}

func TestProvider_Exchange_NonSuccess(t *testing.T) {
	idp := &fakeIdP{
		tokenStatus: http.StatusBadRequest,
		tokenBody:   map[string]any{"error": "invalid_grant"},
	}
	p := newTestProvider(t, idp)

	_, err := p.Exchange(context.Background(), "abc123")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainauth.ErrExchangeFailed)
	assert.Contains(t, err.Error(), "400")
}

func TestProvider_Exchange_EmptyCode(t *testing.T) {
	idp := &fakeIdP{tokenStatus: http.StatusOK}
	p := newTestProvider(t, idp)

	_, err := p.Exchange(context.Background(), "")
	assert.ErrorIs(t, err, domainauth.ErrMissingCode)
	assert.Zero(t, idp.tokenCalls.Load())
}

func TestProvider_UserInfo_Success(t *testing.T) {
	idp := &fakeIdP{
		userInfoStatus: http.StatusOK,
		userInfoBody: map[string]any{
			"sub":                "sub-1",
			"name":               "Ana Souza",
			"preferred_username": "ana",
			"email":              "ana@example.com",
		},
	}
	p := newTestProvider(t, idp)

	info, err := p.UserInfo(context.Background(), "access-1")
	require.NoError(t, err)
	assert.Equal(t, domainauth.UserInfo{
		Subject:           "sub-1",
		Name:              "Ana Souza",
		PreferredUsername: "ana",
		Email:             "ana@example.com",
	}, info)
	idp.mu.Lock()
	defer idp.mu.Unlock()
	assert.Equal(t, "Bearer access-1", idp.lastAuth)
}

func TestProvider_UserInfo_NonSuccess(t *testing.T) {
	idp := &fakeIdP{
		userInfoStatus: http.StatusUnauthorized,
		userInfoBody:   map[string]any{"error": "invalid_token"},
	}
	p := newTestProvider(t, idp)

	_, err := p.UserInfo(context.Background(), "access-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainauth.ErrUserInfoFailed)
}

func TestProvider_UserInfo_EmptyToken(t *testing.T) {
	idp := &fakeIdP{userInfoStatus: http.StatusOK}
	p := newTestProvider(t, idp)

	_, err := p.UserInfo(context.Background(), "")
	assert.ErrorIs(t, err, domainauth.ErrMissingToken)
	assert.Zero(t, idp.infoCalls.Load())
}

func TestTokenSetFromOAuth2_ScopeMissing(t *testing.T) {
	tok := (&oauth2.Token{AccessToken: "a"}).WithExtra(map[string]any{"other": "x"})
	ts := tokenSetFromOAuth2(tok)
	assert.Equal(t, "a", ts.AccessToken)
	assert.Empty(t, ts.Scope)
	assert.Empty(t, ts.RefreshToken)
}
