package service

import "context"

// LoginPath is the anonymous entry point guarded views send visitors to.
const LoginPath = "/login"

// AuthChecker is the part of SessionManager the guard depends on.
type AuthChecker interface {
	IsAuthenticated(ctx context.Context) bool
}

// Decision is the outcome of an access check.
type Decision struct {
	Admit      bool
	RedirectTo string
}

// AccessGuard gates protected views on IsAuthenticated alone. Roles are not
// consulted; see HasRole for role-gated content.
type AccessGuard struct {
	auth       AuthChecker
	redirectTo string
}

// NewAccessGuard returns a guard redirecting unauthenticated visitors to LoginPath.
func NewAccessGuard(auth AuthChecker) *AccessGuard {
	return &AccessGuard{auth: auth, redirectTo: LoginPath}
}

// Check admits the visitor or names where to send them.
func (g *AccessGuard) Check(ctx context.Context) Decision {
	if g.auth.IsAuthenticated(ctx) {
		return Decision{Admit: true}
	}
	return Decision{RedirectTo: g.redirectTo}
}
