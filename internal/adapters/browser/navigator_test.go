package browser

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/finance-auth-client/internal/domain/auth"
)

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestNavigator_OpensBrowser(t *testing.T) {
	var opened string
	var out bytes.Buffer
	n := &Navigator{Out: &out, Logger: quietLogger(), open: func(u string) error { opened = u; return nil }}

	err := n.Navigate(context.Background(), domainauth.Navigation{Kind: domainauth.NavigateLogin, URL: "http://idp/auth"})
	require.NoError(t, err)
	assert.Equal(t, "http://idp/auth", opened)
	assert.Empty(t, out.String())
}

func TestNavigator_FallsBackToPrinting(t *testing.T) {
	var out bytes.Buffer
	n := &Navigator{Out: &out, Logger: quietLogger(), open: func(string) error { return errors.New("no display") }}

	err := n.Navigate(context.Background(), domainauth.Navigation{Kind: domainauth.NavigateLogout, URL: "http://idp/logout"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "http://idp/logout")
}

func TestNavigator_Disabled(t *testing.T) {
	var out bytes.Buffer
	called := false
	n := &Navigator{Disabled: true, Out: &out, Logger: quietLogger(), open: func(string) error { called = true; return nil }}

	require.NoError(t, n.Navigate(context.Background(), domainauth.Navigation{URL: "http://idp/auth"}))
	assert.False(t, called)
	assert.Contains(t, out.String(), "http://idp/auth")
}

func TestNavigator_EmptyNavigation(t *testing.T) {
	n := NewNavigator(true, quietLogger())
	require.Error(t, n.Navigate(context.Background(), domainauth.Navigation{}))
}
