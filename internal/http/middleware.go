package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/target/finance-auth-client/internal/domain/auth"
	"github.com/target/finance-auth-client/internal/service"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-Id"

const maxRequestIDLen = 128

// RequestID returns a middleware that tags each request with an ID. A well-formed
// incoming X-Request-Id is kept; otherwise a random UUID is generated.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
			if id == "" || len(id) > maxRequestIDLen || strings.ContainsAny(id, "\r\n") {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(SetRequestIDInContext(r.Context(), id)))
		})
	}
}

// Logging returns a middleware that logs HTTP requests and responses.
// Query strings are never logged: the callback carries the authorization code.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", RequestIDFromContext(r.Context())),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("request_id", RequestIDFromContext(r.Context())),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeaders sets conservative response headers. Referrer-Policy keeps the
// authorization code in the callback URL from leaking to other origins.
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("Cache-Control", "no-store")
			next.ServeHTTP(w, r)
		})
	}
}

// Chain applies middleware so that the first listed runs outermost.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Guard decides whether a visitor may see a protected view.
type Guard interface {
	Check(ctx context.Context) service.Decision
}

// ProfileReader reads the cached profile.
type ProfileReader interface {
	GetCurrentUser(ctx context.Context) (*domainauth.UserProfile, error)
}

// RoleChecker answers role questions against the cached profile.
type RoleChecker interface {
	HasRole(ctx context.Context, role string) bool
}

// isBrowserRequest determines if a request is from a browser based on:
// 1. Path prefix - API routes start with /api/
// 2. Accept header - browsers typically accept text/html.
func isBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return false
	}

	accept := r.Header.Get("Accept")
	if accept == "" {
		// No Accept header, assume browser for non-API routes
		return true
	}

	return strings.Contains(accept, "text/html")
}

// RequireAuthBrowser returns a middleware that requires authentication with browser-aware behavior.
// For API requests: returns 401 JSON response if not authenticated.
// For browser requests: redirects to the guard's target if not authenticated.
// When profiles is non-nil the cached profile is attached to the request context.
func RequireAuthBrowser(guard Guard, profiles ProfileReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := guard.Check(r.Context())
			if !decision.Admit {
				if isBrowserRequest(r) {
					target := decision.RedirectTo
					if target == "" {
						target = service.LoginPath
					}
					http.Redirect(w, r, target, http.StatusSeeOther)
					return
				}
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
				return
			}

			ctx := r.Context()
			if profiles != nil {
				if p, err := profiles.GetCurrentUser(ctx); err == nil {
					ctx = SetProfileInContext(ctx, p)
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns a middleware that requires role on the cached profile.
// It does not check authentication; stack it behind RequireAuthBrowser.
func RequireRole(roles RoleChecker, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if roles.HasRole(r.Context(), role) {
				next.ServeHTTP(w, r)
				return
			}
			if isBrowserRequest(r) {
				showAccessDenied(w, r)
				return
			}
			WriteError(w, ErrorParams{
				Code:    http.StatusForbidden,
				ErrCode: "insufficient_permissions",
				Err:     errors.New("insufficient permissions"),
			})
		})
	}
}

// showAccessDenied shows an access denied page for browser requests.
func showAccessDenied(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, "Access Denied: You don't have permission to access this resource", http.StatusForbidden)
}
