package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	financeauth "github.com/target/finance-auth-client"
	"github.com/target/finance-auth-client/config"
	httpx "github.com/target/finance-auth-client/internal/http"
	"github.com/target/finance-auth-client/internal/service"
)

// DefaultAdminRole gates the /admin view.
const DefaultAdminRole = "admin"

// UIServerConfig contains configuration for the loopback UI.
type UIServerConfig struct {
	HTTP       config.HTTPConfig
	Manager    *service.SessionManager
	OnCallback func(ctx context.Context, outcome httpx.CallbackOutcome)
	// Storage names the session backend reported by /healthz.
	Storage config.StorageBackend
	Logger  *slog.Logger
}

// BuildUIHandler builds the loopback UI router. The callback route follows the
// path of the resolved redirect URI.
func BuildUIHandler(cfg UIServerConfig) (http.Handler, error) {
	if cfg.Manager == nil {
		return nil, errors.New("session manager is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return httpx.NewRouter(httpx.RouterOptions{
		Sessions:     cfg.Manager,
		Guard:        service.NewAccessGuard(cfg.Manager),
		Templates:    financeauth.Templates(),
		CallbackPath: callbackPath(cfg.Manager.Config().RedirectURI),
		AdminRole:    DefaultAdminRole,
		SuccessDelay: cfg.HTTP.CallbackSuccessDelay,
		FailureDelay: cfg.HTTP.CallbackFailureDelay,
		OnCallback:   cfg.OnCallback,
		Health: httpx.HealthInfo{
			Issuer:  cfg.Manager.Config().Issuer(),
			Storage: string(cfg.Storage),
		},
		Logger: logger,
	})
}

func callbackPath(redirectURI string) string {
	u, err := url.Parse(redirectURI)
	if err != nil || u.Path == "" || u.Path == "/" {
		return httpx.PathCallback
	}
	return u.Path
}

// NewHTTPServer creates an http.Server with the standard timeouts.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// Serve runs srv on ln until ctx is done, then shuts it down gracefully.
// A clean shutdown returns nil.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-errCh
	logger.Info("HTTP server stopped")
	return nil
}
