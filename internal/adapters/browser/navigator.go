// Package browser performs navigations by opening the system web browser.
package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	pkgbrowser "github.com/pkg/browser"
	domainauth "github.com/target/finance-auth-client/internal/domain/auth"
)

// Navigator implements ports.Navigator with the system browser. When the
// browser cannot be opened (or Disabled is set) it prints the URL so the user
// can open it by hand.
type Navigator struct {
	// Disabled skips launching a browser and only prints the URL.
	Disabled bool
	Out      io.Writer
	Logger   *slog.Logger

	open func(url string) error
}

// NewNavigator creates a Navigator writing fallback instructions to stderr.
func NewNavigator(disabled bool, logger *slog.Logger) *Navigator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Navigator{Disabled: disabled, Out: os.Stderr, Logger: logger, open: pkgbrowser.OpenURL}
}

func (n *Navigator) Navigate(ctx context.Context, nav domainauth.Navigation) error {
	if nav.IsZero() {
		return errors.New("navigation has no destination")
	}

	if !n.Disabled {
		open := n.open
		if open == nil {
			open = pkgbrowser.OpenURL
		}
		err := open(nav.URL)
		if err == nil {
			n.logger().InfoContext(ctx, "opened browser", "kind", nav.Kind)
			return nil
		}
		n.logger().WarnContext(ctx, "failed to open browser", "kind", nav.Kind, "error", err)
	}

	out := n.Out
	if out == nil {
		out = os.Stderr
	}
	if _, err := fmt.Fprintf(out, "Open this URL in your browser to continue:\n\n  %s\n\n", nav.URL); err != nil {
		return fmt.Errorf("print navigation URL: %w", err)
	}
	return nil
}

func (n *Navigator) logger() *slog.Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return slog.Default()
}
