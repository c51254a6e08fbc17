package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/target/finance-auth-client/config"
	"github.com/target/finance-auth-client/internal/adapters/browser"
	"github.com/target/finance-auth-client/internal/bootstrap"
	domainauth "github.com/target/finance-auth-client/internal/domain/auth"
	"github.com/target/finance-auth-client/internal/service"
)

var errNotAuthenticated = errors.New("not signed in; run `finance-auth login`")

type sessionOptions struct {
	Provider  config.ProviderSettings
	NoBrowser bool
	JSON      bool
}

func newFlagSet(name string, opts *sessionOptions) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	fs.StringVar(&opts.Provider.BaseURL, "base-url", "", "Identity provider base URL (overrides AUTH_BASE_URL)")
	fs.StringVar(&opts.Provider.Realm, "realm", "", "Realm name (overrides AUTH_REALM)")
	fs.StringVar(&opts.Provider.ClientID, "client-id", "", "Public client ID (overrides AUTH_CLIENT_ID)")
	fs.StringVar(&opts.Provider.RedirectURI, "redirect-uri", "", "Redirect URI registered for the client")
	fs.StringVar(&opts.Provider.PostLogoutRedirectURI, "post-logout-redirect-uri", "", "Where the provider sends the browser after logout")
	fs.BoolVar(&opts.NoBrowser, "no-browser", false, "Print URLs instead of opening a browser")
	return fs
}

func parseSessionFlags(name string, args []string, withJSON bool) (sessionOptions, []string, error) {
	var opts sessionOptions
	fs := newFlagSet(name, &opts)
	if withJSON {
		fs.BoolVar(&opts.JSON, "json", false, "Print JSON")
	}
	if err := fs.Parse(args); err != nil {
		return sessionOptions{}, nil, err
	}
	return opts, fs.Args(), nil
}

func (c *commandContext) sessionManager(opts sessionOptions) (*service.SessionManager, error) {
	return bootstrap.BuildSessionManager(bootstrap.SessionConfig{
		App:       c.Config,
		Overrides: opts.Provider,
		Logger:    c.Logger,
	})
}

func runLogin(cmdCtx *commandContext, args []string) error {
	return runBrowserFlow(cmdCtx, "login", args, false)
}

func runRegister(cmdCtx *commandContext, args []string) error {
	return runBrowserFlow(cmdCtx, "register", args, true)
}

func runBrowserFlow(cmdCtx *commandContext, name string, args []string, register bool) error {
	opts, _, err := parseSessionFlags(name, args, false)
	if err != nil {
		return err
	}
	manager, err := cmdCtx.sessionManager(opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	profile, err := bootstrap.RunBrowserFlow(ctx, bootstrap.BrowserFlowConfig{
		UI: bootstrap.UIServerConfig{
			HTTP:    cmdCtx.Config.HTTP,
			Manager: manager,
			Storage: cmdCtx.Config.Storage.Backend,
			Logger:  cmdCtx.Logger,
		},
		Navigator: browser.NewNavigator(opts.NoBrowser, cmdCtx.Logger),
		Register:  register,
		Linger:    cmdCtx.Config.HTTP.CallbackSuccessDelay + time.Second,
	})
	if err != nil {
		return err
	}

	return writef(cmdCtx.Out, "Signed in as %s%s\n", profile.DisplayName, formatRoles(profile.Roles))
}

func runLogout(cmdCtx *commandContext, args []string) error {
	opts, _, err := parseSessionFlags("logout", args, false)
	if err != nil {
		return err
	}
	manager, err := cmdCtx.sessionManager(opts)
	if err != nil {
		return err
	}

	nav, err := manager.Logout(cmdCtx.Ctx)
	if err != nil {
		return err
	}
	if err := writeln(cmdCtx.Out, "Local session cleared."); err != nil {
		return err
	}
	return browser.NewNavigator(opts.NoBrowser, cmdCtx.Logger).Navigate(cmdCtx.Ctx, nav)
}

func runStatus(cmdCtx *commandContext, args []string) error {
	opts, _, err := parseSessionFlags("status", args, true)
	if err != nil {
		return err
	}
	manager, err := cmdCtx.sessionManager(opts)
	if err != nil {
		return err
	}

	st := manager.Status(cmdCtx.Ctx)
	if opts.JSON {
		return writeJSON(cmdCtx, st)
	}
	return printStatus(cmdCtx, st)
}

func printStatus(cmdCtx *commandContext, st service.Status) error {
	tw := tabwriter.NewWriter(cmdCtx.Out, 0, 4, 2, ' ', 0)
	state := "signed out"
	switch {
	case st.Authenticated:
		state = "signed in"
	case st.Stale:
		state = "expired (cached profile kept)"
	}
	if err := writef(tw, "Session\t%s\n", state); err != nil {
		return fmt.Errorf("write session row: %w", err)
	}
	if st.ExpiresAt != nil {
		if err := writef(tw, "Expires\t%s\n", st.ExpiresAt.Local().Format(time.RFC1123)); err != nil {
			return fmt.Errorf("write expiry row: %w", err)
		}
	}
	if st.User != nil {
		if err := writef(tw, "User\t%s\n", st.User.DisplayName); err != nil {
			return fmt.Errorf("write user row: %w", err)
		}
	}
	return tw.Flush()
}

func runWhoAmI(cmdCtx *commandContext, args []string) error {
	opts, _, err := parseSessionFlags("whoami", args, true)
	if err != nil {
		return err
	}
	manager, err := cmdCtx.sessionManager(opts)
	if err != nil {
		return err
	}

	if decision := service.NewAccessGuard(manager).Check(cmdCtx.Ctx); !decision.Admit {
		return errNotAuthenticated
	}
	profile, err := manager.GetCurrentUser(cmdCtx.Ctx)
	if err != nil {
		return err
	}
	if profile == nil {
		profile = &domainauth.UserProfile{DisplayName: domainauth.DefaultDisplayName, Roles: []string{}}
	}
	if opts.JSON {
		return writeJSON(cmdCtx, profile)
	}
	return printProfile(cmdCtx, profile)
}

func printProfile(cmdCtx *commandContext, p *domainauth.UserProfile) error {
	tw := tabwriter.NewWriter(cmdCtx.Out, 0, 4, 2, ' ', 0)
	rows := [][2]string{
		{"Name", p.DisplayName},
		{"Email", orDash(p.Email)},
		{"Username", orDash(p.Username)},
		{"Roles", orDash(strings.Join(p.Roles, ", "))},
	}
	for _, row := range rows {
		if err := writef(tw, "%s\t%s\n", row[0], row[1]); err != nil {
			return fmt.Errorf("write %s row: %w", strings.ToLower(row[0]), err)
		}
	}
	return tw.Flush()
}

func runHasRole(cmdCtx *commandContext, args []string) error {
	opts, rest, err := parseSessionFlags("has-role", args, false)
	if err != nil {
		return err
	}
	if len(rest) != 1 || strings.TrimSpace(rest[0]) == "" {
		return errors.New("usage: finance-auth has-role [flags] <role>")
	}
	manager, err := cmdCtx.sessionManager(opts)
	if err != nil {
		return err
	}

	if manager.HasRole(cmdCtx.Ctx, rest[0]) {
		return writeln(cmdCtx.Out, "yes")
	}
	if err := writeln(cmdCtx.Out, "no"); err != nil {
		return err
	}
	return errQuietFailure
}

func runToken(cmdCtx *commandContext, args []string) error {
	opts, _, err := parseSessionFlags("token", args, false)
	if err != nil {
		return err
	}
	manager, err := cmdCtx.sessionManager(opts)
	if err != nil {
		return err
	}

	if !manager.IsAuthenticated(cmdCtx.Ctx) {
		return errNotAuthenticated
	}
	token, err := manager.AccessToken(cmdCtx.Ctx)
	if err != nil {
		return err
	}
	return writeln(cmdCtx.Out, token)
}

func runServe(cmdCtx *commandContext, args []string) error {
	opts, _, err := parseSessionFlags("serve", args, false)
	if err != nil {
		return err
	}
	manager, err := cmdCtx.sessionManager(opts)
	if err != nil {
		return err
	}

	handler, err := bootstrap.BuildUIHandler(bootstrap.UIServerConfig{
		HTTP:    cmdCtx.Config.HTTP,
		Manager: manager,
		Storage: cmdCtx.Config.Storage.Backend,
		Logger:  cmdCtx.Logger,
	})
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cmdCtx.Config.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cmdCtx.Config.HTTP.Addr, err)
	}
	if err := writef(cmdCtx.Out, "Sign-in UI available at %s/login\n", cmdCtx.Config.HTTP.Origin); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return bootstrap.Serve(ctx, bootstrap.NewHTTPServer(ln.Addr().String(), handler), ln, cmdCtx.Logger)
}

type configView struct {
	Mode                  config.AuthMode `json:"mode"`
	BaseURL               string          `json:"base_url"`
	Realm                 string          `json:"realm"`
	ClientID              string          `json:"client_id"`
	RedirectURI           string          `json:"redirect_uri"`
	PostLogoutRedirectURI string          `json:"post_logout_redirect_uri"`
	AuthorizeURL          string          `json:"authorize_url"`
	RegisterURL           string          `json:"register_url"`
	TokenURL              string          `json:"token_url"`
	UserInfoURL           string          `json:"userinfo_url"`
	LogoutURL             string          `json:"logout_url"`
	Storage               string          `json:"storage"`
}

func runConfig(cmdCtx *commandContext, args []string) error {
	opts, _, err := parseSessionFlags("config", args, true)
	if err != nil {
		return err
	}

	// Resolve through the identity provider so mock mode shows the local
	// authorize and logout targets the session manager actually uses.
	_, p, err := bootstrap.BuildIdentityProvider(bootstrap.IdentityProviderConfig{
		Auth:     cmdCtx.Config.Auth,
		Provider: cmdCtx.Config.ResolveProvider(opts.Provider),
		Timeout:  cmdCtx.Config.HTTP.ProviderTimeout,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return err
	}
	view := configView{
		Mode:                  cmdCtx.Config.Auth.Mode,
		BaseURL:               p.BaseURL,
		Realm:                 p.Realm,
		ClientID:              p.ClientID,
		RedirectURI:           p.RedirectURI,
		PostLogoutRedirectURI: p.PostLogoutRedirectURI,
		AuthorizeURL:          p.Endpoints.Authorize,
		RegisterURL:           p.Endpoints.Register,
		TokenURL:              p.Endpoints.Token,
		UserInfoURL:           p.Endpoints.UserInfo,
		LogoutURL:             p.LogoutURL(),
		Storage:               string(cmdCtx.Config.Storage.Backend),
	}
	if opts.JSON {
		return writeJSON(cmdCtx, view)
	}

	tw := tabwriter.NewWriter(cmdCtx.Out, 0, 4, 2, ' ', 0)
	rows := [][2]string{
		{"Mode", string(view.Mode)},
		{"Base URL", view.BaseURL},
		{"Realm", view.Realm},
		{"Client ID", view.ClientID},
		{"Redirect URI", view.RedirectURI},
		{"Post-logout URI", view.PostLogoutRedirectURI},
		{"Authorize URL", view.AuthorizeURL},
		{"Logout URL", view.LogoutURL},
		{"Token endpoint", view.TokenURL},
		{"Userinfo endpoint", view.UserInfoURL},
		{"Storage", view.Storage},
	}
	for _, row := range rows {
		if err := writef(tw, "%s\t%s\n", row[0], row[1]); err != nil {
			return fmt.Errorf("write config row: %w", err)
		}
	}
	return tw.Flush()
}

func writeJSON(cmdCtx *commandContext, v any) error {
	enc := json.NewEncoder(cmdCtx.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatRoles(roles []string) string {
	if len(roles) == 0 {
		return ""
	}
	return " (" + strings.Join(roles, ", ") + ")"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
