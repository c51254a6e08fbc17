package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/finance-auth-client/config"
	"github.com/target/finance-auth-client/internal/adapters/filestore"
	"github.com/target/finance-auth-client/internal/adapters/keyring"
	"github.com/target/finance-auth-client/internal/adapters/sessionstore"
	domainauth "github.com/target/finance-auth-client/internal/domain/auth"
	mockauth "github.com/target/finance-auth-client/internal/mocks/auth"
	gokeyring "github.com/zalando/go-keyring"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildSlotBackend(t *testing.T) {
	logger := discardLogger()

	b, err := BuildSlotBackend(config.StorageConfig{Backend: config.StorageMemory}, logger)
	require.NoError(t, err)
	assert.IsType(t, &sessionstore.MemoryBackend{}, b)

	path := filepath.Join(t.TempDir(), "session.json")
	b, err = BuildSlotBackend(config.StorageConfig{Backend: config.StorageFile, File: path}, logger)
	require.NoError(t, err)
	fb, ok := b.(*filestore.Backend)
	require.True(t, ok)
	assert.Equal(t, path, fb.Path())

	gokeyring.MockInit()
	b, err = BuildSlotBackend(config.StorageConfig{Backend: config.StorageKeyring, AppName: "finance-test"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &keyring.Backend{}, b)

	_, err = BuildSlotBackend(config.StorageConfig{Backend: "s3"}, logger)
	require.Error(t, err)
}

func TestBuildSlotBackend_KeyringUnavailable(t *testing.T) {
	boom := errors.New("no secret service")
	gokeyring.MockInitWithError(boom)
	t.Cleanup(gokeyring.MockInit)

	_, err := BuildSlotBackend(config.StorageConfig{Backend: config.StorageKeyring, AppName: "finance-test"}, discardLogger())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, strings.Count(err.Error(), "keyring unavailable"))
}

func TestBuildSlotBackend_DefaultFilePath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	b, err := BuildSlotBackend(config.StorageConfig{Backend: config.StorageFile, AppName: "finance-test"}, discardLogger())
	require.NoError(t, err)
	fb, ok := b.(*filestore.Backend)
	require.True(t, ok)
	assert.Equal(t, "session.json", filepath.Base(fb.Path()))
}

func TestBuildIdentityProvider_MockModeRewritesAuthorize(t *testing.T) {
	cfg := IdentityProviderConfig{
		Auth: config.AuthConfig{
			Mode:    config.AuthModeMock,
			DevAuth: config.DevAuthConfig{Username: "dev", Roles: []string{"admin"}},
		},
		Provider: config.Resolve("http://localhost:3000"),
		Logger:   discardLogger(),
	}

	prov, resolved, err := BuildIdentityProvider(cfg)
	require.NoError(t, err)
	require.NotNil(t, prov)
	assert.Equal(t, "http://localhost:3000/callback?code=dev", resolved.Endpoints.Authorize)

	_, _, err = BuildIdentityProvider(IdentityProviderConfig{
		Auth:     config.AuthConfig{Mode: config.AuthModeMock},
		Provider: config.Resolve(""),
		Logger:   discardLogger(),
	})
	require.Error(t, err, "dev auth requires a username")
}

// fakeKeycloak serves the realm token and userinfo endpoints.
func fakeKeycloak(t *testing.T, roles []string) *httptest.Server {
	t.Helper()
	token, err := mockauth.UnsignedToken(time.Now().Add(time.Hour), roles)
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /realms/finance-realm/protocol/openid-connect/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("code") != "good" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  token,
			"refresh_token": "refresh-1",
			"token_type":    "Bearer",
			"expires_in":    3600,
		})
	})
	mux.HandleFunc("GET /realms/finance-realm/protocol/openid-connect/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"sub":                "u-1",
			"preferred_username": "ann",
			"email":              "ann@example.com",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestBuildSessionManager_OAuthEndToEnd(t *testing.T) {
	idp := fakeKeycloak(t, []string{"admin"})

	var app config.AppConfig
	app.Auth.Mode = config.AuthModeOAuth
	app.HTTP.Origin = "http://localhost:3000"
	app.HTTP.ProviderTimeout = 5 * time.Second

	manager, err := BuildSessionManager(SessionConfig{
		App:       app,
		Overrides: config.ProviderSettings{BaseURL: idp.URL},
		Backend:   sessionstore.NewMemoryBackend(),
		Logger:    discardLogger(),
	})
	require.NoError(t, err)
	ctx := context.Background()

	cb, err := url.Parse("http://localhost:3000/callback?code=bad")
	require.NoError(t, err)
	_, err = manager.HandleCallback(ctx, cb)
	require.ErrorIs(t, err, domainauth.ErrExchangeFailed)
	assert.False(t, manager.IsAuthenticated(ctx))

	cb, err = url.Parse("http://localhost:3000/callback?code=good")
	require.NoError(t, err)
	profile, err := manager.HandleCallback(ctx, cb)
	require.NoError(t, err)
	assert.Equal(t, "ann", profile.DisplayName)
	assert.Equal(t, []string{"admin"}, profile.Roles)
	assert.True(t, manager.IsAuthenticated(ctx))
	assert.True(t, manager.HasRole(ctx, "admin"))
	assert.False(t, manager.HasRole(ctx, "editor"))

	nav, err := manager.Logout(ctx)
	require.NoError(t, err)
	assert.Contains(t, nav.URL, idp.URL+"/realms/finance-realm/protocol/openid-connect/logout?")
	assert.False(t, manager.IsAuthenticated(ctx))
	user, err := manager.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)
}
