package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/finance-auth-client/internal/adapters/jwtclaims"
	domainauth "github.com/target/finance-auth-client/internal/domain/auth"
)

func TestFakeIdentityProvider_ExchangeDefaults(t *testing.T) {
	provider := NewFakeIdentityProvider()
	ctx := context.Background()

	tokens, err := provider.Exchange(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "refresh-abc", tokens.RefreshToken)
	assert.Equal(t, []string{"abc"}, provider.ExchangeCalls())

	claims, err := jwtclaims.Decode(tokens.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.ValidAt(time.Now()))
	assert.Equal(t, []string{"user"}, claims.Roles)
}

func TestFakeIdentityProvider_CustomFuncs(t *testing.T) {
	boom := errors.New("boom")
	provider := &FakeIdentityProvider{
		ExchangeFunc: func(context.Context, string) (domainauth.TokenSet, error) { return domainauth.TokenSet{}, boom },
		UserInfoFunc: func(context.Context, string) (domainauth.UserInfo, error) { return domainauth.UserInfo{}, boom },
	}
	ctx := context.Background()

	_, err := provider.Exchange(ctx, "abc")
	require.ErrorIs(t, err, boom)
	_, err = provider.UserInfo(ctx, "tok")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"tok"}, provider.UserInfoCalls())
}

func TestMemorySessionStore_RetainsRefreshToken(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	require.NoError(t, store.SaveTokens(ctx, domainauth.TokenSet{AccessToken: "a1", RefreshToken: "r1"}))
	require.NoError(t, store.SaveTokens(ctx, domainauth.TokenSet{AccessToken: "a2"}))

	access, _ := store.AccessToken(ctx)
	refresh, _ := store.RefreshToken(ctx)
	assert.Equal(t, "a2", access)
	assert.Equal(t, "r1", refresh)

	require.NoError(t, store.ClearAll(ctx))
	access, _ = store.AccessToken(ctx)
	assert.Empty(t, access)
}

func TestRecordingNavigator(t *testing.T) {
	nav := &RecordingNavigator{}
	ctx := context.Background()

	assert.True(t, nav.Last().IsZero())
	require.NoError(t, nav.Navigate(ctx, domainauth.Navigation{Kind: domainauth.NavigateLogin, URL: "https://idp/auth"}))
	assert.Equal(t, "https://idp/auth", nav.Last().URL)
	assert.Len(t, nav.Navigations(), 1)
}
