package bootstrap

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/finance-auth-client/config"
	"github.com/target/finance-auth-client/internal/adapters/sessionstore"
	domainauth "github.com/target/finance-auth-client/internal/domain/auth"
	"github.com/target/finance-auth-client/internal/mocks"
	"github.com/target/finance-auth-client/internal/service"
	"go.uber.org/mock/gomock"
)

// fetchNavigator follows the navigation with a plain HTTP GET, standing in for a browser.
type fetchNavigator struct {
	t *testing.T
}

func (n fetchNavigator) Navigate(ctx context.Context, nav domainauth.Navigation) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, nav.URL, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func newMockModeManager(t *testing.T, origin string) *service.SessionManager {
	t.Helper()
	var app config.AppConfig
	app.Auth.Mode = config.AuthModeMock
	app.Auth.DevAuth = config.DevAuthConfig{Username: "dev", Name: "Dev User", Roles: []string{"admin"}}
	app.HTTP.Origin = origin

	manager, err := BuildSessionManager(SessionConfig{
		App:     app,
		Backend: sessionstore.NewMemoryBackend(),
		Logger:  discardLogger(),
	})
	require.NoError(t, err)
	return manager
}

func TestRunBrowserFlow_MockMode(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	manager := newMockModeManager(t, "http://"+ln.Addr().String())

	profile, err := RunBrowserFlow(context.Background(), BrowserFlowConfig{
		UI: UIServerConfig{
			HTTP:    config.HTTPConfig{LoginTimeout: 10 * time.Second},
			Manager: manager,
			Logger:  discardLogger(),
		},
		Navigator: fetchNavigator{t: t},
		Listener:  ln,
	})
	require.NoError(t, err)
	assert.Equal(t, "Dev User", profile.DisplayName)
	assert.Equal(t, []string{"admin"}, profile.Roles)
	assert.True(t, manager.IsAuthenticated(context.Background()))
}

func TestRunBrowserFlow_Timeout(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	manager := newMockModeManager(t, "http://"+ln.Addr().String())

	// The browser is sent to registration once and never comes back.
	navigator := mocks.NewMockNavigator(gomock.NewController(t))
	navigator.EXPECT().
		Navigate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, nav domainauth.Navigation) error {
			assert.Equal(t, domainauth.NavigateRegister, nav.Kind)
			assert.Equal(t, manager.Register().URL, nav.URL)
			return nil
		}).
		Times(1)

	_, err = RunBrowserFlow(context.Background(), BrowserFlowConfig{
		UI: UIServerConfig{
			HTTP:    config.HTTPConfig{LoginTimeout: 100 * time.Millisecond},
			Manager: manager,
			Logger:  discardLogger(),
		},
		Navigator: navigator,
		Register:  true,
		Listener:  ln,
	})
	require.ErrorIs(t, err, ErrLoginTimeout)
}

func TestRunBrowserFlow_RequiresNavigator(t *testing.T) {
	_, err := RunBrowserFlow(context.Background(), BrowserFlowConfig{})
	require.Error(t, err)
}

func TestCallbackPath(t *testing.T) {
	assert.Equal(t, "/callback", callbackPath("http://localhost:3000/callback"))
	assert.Equal(t, "/auth/cb", callbackPath("https://app.example.com/auth/cb"))
	assert.Equal(t, "/callback", callbackPath("http://localhost:3000"))
}
