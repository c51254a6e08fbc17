package httpx

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"time"
)

// RouterOptions holds everything the loopback UI router needs.
type RouterOptions struct {
	Sessions  SessionService
	Guard     Guard
	Templates fs.FS

	// CallbackPath is the path of the registered redirect URI. Defaults to /callback.
	CallbackPath string
	// AdminRole gates /admin. Empty disables the route.
	AdminRole string

	SuccessDelay time.Duration
	FailureDelay time.Duration
	OnCallback   func(ctx context.Context, outcome CallbackOutcome)

	// Health is reported by /healthz.
	Health HealthInfo

	Logger *slog.Logger
}

// NewRouter creates and configures the loopback UI router with its middleware chain.
func NewRouter(opts RouterOptions) (http.Handler, error) {
	if opts.Sessions == nil {
		return nil, errors.New("sessions service is required")
	}
	if opts.Guard == nil {
		return nil, errors.New("guard is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	renderer, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: opts.Templates, Logger: logger})
	if err != nil {
		return nil, err
	}

	callbackPath := opts.CallbackPath
	if callbackPath == "" {
		callbackPath = PathCallback
	}

	h := &AuthHandlers{
		Svc:          opts.Sessions,
		Renderer:     renderer,
		SuccessDelay: opts.SuccessDelay,
		FailureDelay: opts.FailureDelay,
		OnCallback:   opts.OnCallback,
		Logger:       logger,
	}

	mux := http.NewServeMux()
	registerAuthRoutes(mux, h, callbackPath)
	registerProtectedRoutes(mux, h, opts)
	health := healthHandler(opts.Health)
	mux.Handle("GET /healthz", health)
	mux.Handle("HEAD /healthz", health)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, PathLogin, http.StatusFound)
	})

	return Chain(mux,
		RequestID(),
		Recover(logger),
		Logging(logger),
		SecurityHeaders(),
	), nil
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, callbackPath string) {
	mux.HandleFunc("GET "+PathLogin, h.LoginPage)
	mux.HandleFunc("GET "+PathRegister, h.RegisterPage)
	mux.HandleFunc("GET /cadastro", h.RegisterPage)
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/register", h.Register)
	mux.HandleFunc("GET /auth/logout", h.Logout)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
	mux.HandleFunc("GET "+callbackPath, h.Callback)
}

func registerProtectedRoutes(mux *http.ServeMux, h *AuthHandlers, opts RouterOptions) {
	requireAuth := RequireAuthBrowser(opts.Guard, opts.Sessions)
	mux.Handle("GET "+PathHome, requireAuth(h.Home(opts.AdminRole)))

	if opts.AdminRole != "" {
		mux.Handle("GET /admin", Chain(h.Admin(opts.AdminRole),
			requireAuth,
			RequireRole(opts.Sessions, opts.AdminRole),
		))
	}
}
