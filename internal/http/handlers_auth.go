package httpx

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/target/finance-auth-client/internal/domain/auth"
	"github.com/target/finance-auth-client/internal/service"
)

// SessionService defines the session manager operations the UI needs.
type SessionService interface {
	Login() domainauth.Navigation
	Register() domainauth.Navigation
	Logout(ctx context.Context) (domainauth.Navigation, error)
	HandleCallback(ctx context.Context, callbackURL *url.URL) (domainauth.UserProfile, error)
	GetCurrentUser(ctx context.Context) (*domainauth.UserProfile, error)
	HasRole(ctx context.Context, role string) bool
	Status(ctx context.Context) service.Status
}

// CallbackOutcome reports how a provider callback ended.
type CallbackOutcome struct {
	Profile domainauth.UserProfile
	Err     error
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          SessionService
	Renderer     *TemplateRenderer
	SuccessDelay time.Duration
	FailureDelay time.Duration
	// OnCallback, when set, is called after every callback attempt.
	OnCallback func(ctx context.Context, outcome CallbackOutcome)
	Logger     *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type pageData struct {
	Title string
	User  *domainauth.UserProfile
}

// LoginPage renders the anonymous landing page.
// GET /login.
func (h *AuthHandlers) LoginPage(w http.ResponseWriter, _ *http.Request) {
	h.render(w, http.StatusOK, PageLogin, pageData{Title: "Sign in"})
}

// RegisterPage renders the registration landing page.
// GET /register.
func (h *AuthHandlers) RegisterPage(w http.ResponseWriter, _ *http.Request) {
	h.render(w, http.StatusOK, PageRegister, pageData{Title: "Register"})
}

// Login sends the browser to the provider's authorization endpoint.
// GET /auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, h.Svc.Login())
}

// Register sends the browser to the provider's registration endpoint.
// GET /auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, h.Svc.Register())
}

// Logout clears the local session and sends the browser to the provider's logout endpoint.
// POST|GET /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	nav, err := h.Svc.Logout(r.Context())
	if err != nil {
		h.logger().ErrorContext(r.Context(), "logout failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "logout_failed",
			Err:     errors.New("local session could not be cleared"),
		})
		return
	}

	// AJAX requests get a JSON payload; regular requests redirect
	isAJAX := strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
	if isAJAX {
		WriteJSON(w, http.StatusOK, map[string]string{
			"status":      "success",
			"redirect_to": nav.URL,
		})
		return
	}

	h.navigate(w, r, nav)
}

type callbackData struct {
	Title        string
	Failed       bool
	Message      string
	User         *domainauth.UserProfile
	Target       string
	DelayMillis  int64
	DelaySeconds int64
}

// Callback completes the provider redirect and shows a short interstitial before
// moving on to /home, or back to /login on failure.
// GET /callback?code=<code>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile, err := h.Svc.HandleCallback(ctx, r.URL)
	if h.OnCallback != nil {
		h.OnCallback(ctx, CallbackOutcome{Profile: profile, Err: err})
	}

	if err != nil {
		h.logger().WarnContext(ctx, "callback failed", "error", err)
		status, msg := callbackFailure(err)
		h.render(w, status, PageCallback, newCallbackData(nil, msg, PathLogin, h.FailureDelay))
		return
	}

	h.render(w, http.StatusOK, PageCallback, newCallbackData(&profile, "", PathHome, h.SuccessDelay))
}

func newCallbackData(profile *domainauth.UserProfile, failure, target string, delay time.Duration) callbackData {
	d := callbackData{
		Title:        "Signing in",
		Failed:       profile == nil,
		Message:      failure,
		User:         profile,
		Target:       target,
		DelayMillis:  delay.Milliseconds(),
		DelaySeconds: int64(math.Ceil(delay.Seconds())),
	}
	if d.Failed {
		d.Title = "Sign-in failed"
	}
	return d
}

func callbackFailure(err error) (int, string) {
	switch {
	case errors.Is(err, domainauth.ErrProviderDenied):
		return http.StatusBadRequest, "The identity provider did not complete the sign-in."
	case errors.Is(err, domainauth.ErrMissingCode):
		return http.StatusBadRequest, "The sign-in response did not include an authorization code."
	case errors.Is(err, domainauth.ErrExchangeFailed):
		return http.StatusBadGateway, "The sign-in could not be completed. Please try again."
	case errors.Is(err, domainauth.ErrUserInfoFailed):
		return http.StatusBadGateway, "Your profile could not be loaded. Please try again."
	default:
		return http.StatusInternalServerError, "Something went wrong while signing in."
	}
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.Svc.Status(r.Context()))
}

type homeData struct {
	Title   string
	User    *domainauth.UserProfile
	IsAdmin bool
}

// Home shows the cached profile. Mount behind RequireAuthBrowser.
// GET /home.
func (h *AuthHandlers) Home(adminRole string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile := profileOrDefault(r.Context())
		h.render(w, http.StatusOK, PageHome, homeData{
			Title:   "Home",
			User:    profile,
			IsAdmin: adminRole != "" && profile.HasRole(adminRole),
		})
	}
}

type adminData struct {
	Title     string
	User      *domainauth.UserProfile
	Role      string
	ExpiresAt *time.Time
}

// Admin is a role-gated view. Mount behind RequireAuthBrowser and RequireRole.
// GET /admin.
func (h *AuthHandlers) Admin(role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := h.Svc.Status(r.Context())
		h.render(w, http.StatusOK, PageAdmin, adminData{
			Title:     "Administration",
			User:      profileOrDefault(r.Context()),
			Role:      role,
			ExpiresAt: st.ExpiresAt,
		})
	}
}

func profileOrDefault(ctx context.Context) *domainauth.UserProfile {
	if p, ok := GetProfileFromContext(ctx); ok {
		return p
	}
	return &domainauth.UserProfile{DisplayName: domainauth.DefaultDisplayName, Roles: []string{}}
}

// navigate performs a Navigation as a redirect. It is the last thing a handler does.
func (h *AuthHandlers) navigate(w http.ResponseWriter, r *http.Request, nav domainauth.Navigation) {
	if nav.IsZero() {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "navigation_missing",
			Err:     errors.New("no destination configured"),
		})
		return
	}
	h.logger().DebugContext(r.Context(), "navigate", "kind", string(nav.Kind))
	http.Redirect(w, r, nav.URL, http.StatusFound)
}

func (h *AuthHandlers) render(w http.ResponseWriter, status int, page string, data any) {
	if err := h.Renderer.Render(w, status, page, data); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
