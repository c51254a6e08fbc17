package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	domainauth "github.com/target/finance-auth-client/internal/domain/auth"
	httpx "github.com/target/finance-auth-client/internal/http"
	"github.com/target/finance-auth-client/internal/ports"
	"golang.org/x/sync/errgroup"
)

// ErrLoginTimeout is returned when the browser does not come back in time.
var ErrLoginTimeout = errors.New("timed out waiting for the identity provider callback")

// BrowserFlowConfig contains configuration for an interactive browser sign-in.
type BrowserFlowConfig struct {
	UI        UIServerConfig
	Navigator ports.Navigator
	// Register starts at the registration endpoint instead of the login endpoint.
	Register bool
	// Listener is used instead of listening on UI.HTTP.Addr when set.
	Listener net.Listener
	// Linger keeps the UI up after the callback so its follow-up redirect still loads.
	Linger time.Duration
}

// RunBrowserFlow starts the loopback UI, sends the browser to the provider, and
// waits for the callback. The returned error is the callback's error, a timeout,
// or a server failure.
func RunBrowserFlow(ctx context.Context, cfg BrowserFlowConfig) (domainauth.UserProfile, error) {
	if cfg.Navigator == nil {
		return domainauth.UserProfile{}, errors.New("navigator is required")
	}
	logger := cfg.UI.Logger
	if logger == nil {
		logger = slog.Default()
	}

	outcomes := make(chan httpx.CallbackOutcome, 1)
	ui := cfg.UI
	ui.OnCallback = func(_ context.Context, o httpx.CallbackOutcome) {
		select {
		case outcomes <- o:
		default:
		}
	}
	handler, err := BuildUIHandler(ui)
	if err != nil {
		return domainauth.UserProfile{}, err
	}

	ln := cfg.Listener
	if ln == nil {
		if ln, err = net.Listen("tcp", cfg.UI.HTTP.Addr); err != nil {
			return domainauth.UserProfile{}, fmt.Errorf("listen on %s: %w", cfg.UI.HTTP.Addr, err)
		}
	}

	if timeout := cfg.UI.HTTP.LoginTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	serveCtx, stopServing := context.WithCancel(ctx)
	defer stopServing()

	srv := NewHTTPServer(ln.Addr().String(), handler)
	g, gctx := errgroup.WithContext(serveCtx)

	g.Go(func() error { return Serve(gctx, srv, ln, logger) })

	var outcome httpx.CallbackOutcome
	g.Go(func() error {
		defer stopServing()

		nav := cfg.UI.Manager.Login()
		if cfg.Register {
			nav = cfg.UI.Manager.Register()
		}
		if err := cfg.Navigator.Navigate(gctx, nav); err != nil {
			return fmt.Errorf("open browser: %w", err)
		}

		select {
		case outcome = <-outcomes:
		case <-gctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return ErrLoginTimeout
			}
			return gctx.Err()
		}

		if cfg.Linger > 0 {
			t := time.NewTimer(cfg.Linger)
			defer t.Stop()
			select {
			case <-t.C:
			case <-gctx.Done():
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return domainauth.UserProfile{}, err
	}
	return outcome.Profile, outcome.Err
}
