package auth

// NavigationKind identifies why the client is leaving the current page.
type NavigationKind string

const (
	NavigateLogin    NavigationKind = "login"
	NavigateRegister NavigationKind = "register"
	NavigateLogout   NavigationKind = "logout"
	NavigateInternal NavigationKind = "internal"
)

// Navigation is a terminating command: once it is performed the current page (or
// command) lifecycle is over and callers must not rely on code that runs after it.
type Navigation struct {
	Kind NavigationKind
	URL  string
}

// IsZero reports whether n carries no destination.
func (n Navigation) IsZero() bool { return n.URL == "" }
