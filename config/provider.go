package config

import (
	"net/url"
	"strings"
)

// Literal fallbacks used when no layer supplies a value.
const (
	DefaultBaseURL  = "http://localhost:8080"
	DefaultRealm    = "finance-realm"
	DefaultClientID = "finance-frontend-app"
	DefaultOrigin   = "http://localhost:3000"

	// LoginScope is requested by the login redirect.
	LoginScope = "openid profile email"
	// RegisterScope is requested by the registration redirect.
	RegisterScope = "openid"
)

// Build-time provider settings, injected with
//
//	go build -ldflags "-X github.com/target/finance-auth-client/config.buildBaseURL=https://sso.example.com"
var (
	buildBaseURL               string
	buildRealm                 string
	buildClientID              string
	buildRedirectURI           string
	buildPostLogoutRedirectURI string
)

// ProviderSettings is one layer of provider configuration. Empty fields defer
// to the next layer.
type ProviderSettings struct {
	BaseURL               string `env:"BASE_URL"`
	Realm                 string `env:"REALM"`
	ClientID              string `env:"CLIENT_ID"`
	RedirectURI           string `env:"REDIRECT_URI"`
	PostLogoutRedirectURI string `env:"POST_LOGOUT_REDIRECT_URI"`
}

func (s ProviderSettings) trimmed() ProviderSettings {
	return ProviderSettings{
		BaseURL:               strings.TrimSpace(s.BaseURL),
		Realm:                 strings.TrimSpace(s.Realm),
		ClientID:              strings.TrimSpace(s.ClientID),
		RedirectURI:           strings.TrimSpace(s.RedirectURI),
		PostLogoutRedirectURI: strings.TrimSpace(s.PostLogoutRedirectURI),
	}
}

// BuildSettings returns the linker-injected layer.
func BuildSettings() ProviderSettings {
	return ProviderSettings{
		BaseURL:               buildBaseURL,
		Realm:                 buildRealm,
		ClientID:              buildClientID,
		RedirectURI:           buildRedirectURI,
		PostLogoutRedirectURI: buildPostLogoutRedirectURI,
	}.trimmed()
}

// Endpoints are the provider URLs derived from base URL and realm.
// Authorize and Register already carry their query strings.
type Endpoints struct {
	Authorize string
	Register  string
	Logout    string
	Token     string
	UserInfo  string
}

// ProviderConfig is the resolved, immutable provider configuration.
// It is passed by value; nothing mutates it after Resolve.
type ProviderConfig struct {
	BaseURL               string
	Realm                 string
	ClientID              string
	RedirectURI           string
	PostLogoutRedirectURI string
	Endpoints             Endpoints
}

// Resolve merges layers (highest precedence first) over the computed defaults.
// origin is the client's own origin, used to default the redirect URIs.
// Resolution cannot fail: every field has a deterministic default.
func Resolve(origin string, layers ...ProviderSettings) ProviderConfig {
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	if origin == "" {
		origin = DefaultOrigin
	}

	pick := func(get func(ProviderSettings) string, fallback string) string {
		for _, l := range layers {
			if v := strings.TrimSpace(get(l)); v != "" {
				return v
			}
		}
		return fallback
	}

	cfg := ProviderConfig{
		BaseURL:               pick(func(s ProviderSettings) string { return s.BaseURL }, DefaultBaseURL),
		Realm:                 pick(func(s ProviderSettings) string { return s.Realm }, DefaultRealm),
		ClientID:              pick(func(s ProviderSettings) string { return s.ClientID }, DefaultClientID),
		RedirectURI:           pick(func(s ProviderSettings) string { return s.RedirectURI }, origin+"/callback"),
		PostLogoutRedirectURI: pick(func(s ProviderSettings) string { return s.PostLogoutRedirectURI }, origin),
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.Endpoints = buildEndpoints(cfg)
	return cfg
}

func buildEndpoints(cfg ProviderConfig) Endpoints {
	base := cfg.BaseURL + "/realms/" + url.PathEscape(cfg.Realm) + "/protocol/openid-connect/"

	return Endpoints{
		Authorize: base + "auth?" + codeFlowQuery(cfg, LoginScope),
		Register:  base + "registrations?" + codeFlowQuery(cfg, RegisterScope),
		Logout:    base + "logout",
		Token:     base + "token",
		UserInfo:  base + "userinfo",
	}
}

func codeFlowQuery(cfg ProviderConfig, scope string) string {
	q := url.Values{}
	q.Set("client_id", cfg.ClientID)
	q.Set("redirect_uri", cfg.RedirectURI)
	q.Set("response_type", "code")
	q.Set("scope", scope)
	return q.Encode()
}

// Issuer returns the realm issuer URL.
func (c ProviderConfig) Issuer() string {
	return c.BaseURL + "/realms/" + url.PathEscape(c.Realm)
}

// LogoutURL returns the provider logout URL with client_id and the encoded
// post-logout redirect target.
func (c ProviderConfig) LogoutURL() string {
	q := url.Values{}
	q.Set("client_id", c.ClientID)
	q.Set("post_logout_redirect_uri", c.PostLogoutRedirectURI)
	return c.Endpoints.Logout + "?" + q.Encode()
}

// WithLocalAuthorize returns a copy whose authorize and registration endpoints
// send the browser straight back to the redirect URI with code. Used by the
// mock auth mode, where no provider pages exist.
func (c ProviderConfig) WithLocalAuthorize(code string) ProviderConfig {
	q := url.Values{}
	q.Set("code", code)
	local := c.RedirectURI + "?" + q.Encode()
	c.Endpoints.Authorize = local
	c.Endpoints.Register = local
	c.Endpoints.Logout = c.PostLogoutRedirectURI
	return c
}
