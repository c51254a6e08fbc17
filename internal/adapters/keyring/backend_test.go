package keyring

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"
)

func TestBackend_RoundTrip(t *testing.T) {
	gokeyring.MockInit()
	ctx := context.Background()
	b := New("test-service")

	_, ok, err := b.Get(ctx, "access_token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Set(ctx, "access_token", "a"))
	require.NoError(t, b.Set(ctx, "user_info", `{"name":"Ana"}`))

	v, ok, err := b.Get(ctx, "access_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	// refresh_token was never written; deleting it must not fail.
	require.NoError(t, b.Delete(ctx, "access_token", "refresh_token", "user_info"))
	_, ok, err = b.Get(ctx, "user_info")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBackend_Errors(t *testing.T) {
	boom := errors.New("keychain locked")
	gokeyring.MockInitWithError(boom)
	t.Cleanup(gokeyring.MockInit)
	ctx := context.Background()
	b := New("")

	_, _, err := b.Get(ctx, "access_token")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, b.Set(ctx, "access_token", "a"), boom)
	assert.ErrorIs(t, b.Delete(ctx, "access_token", "user_info"), boom)
	assert.ErrorIs(t, Probe(""), boom)
}

func TestProbe(t *testing.T) {
	gokeyring.MockInit()
	require.NoError(t, Probe("probe-service"))
}
