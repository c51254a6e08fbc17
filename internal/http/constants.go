package httpx

// Page identifiers, matching the file names under web/templates/pages.
const (
	PageLogin    = "login"
	PageRegister = "register"
	PageCallback = "callback"
	PageHome     = "home"
	PageAdmin    = "admin"
)

// Fixed in-app paths.
const (
	PathLogin    = "/login"
	PathRegister = "/register"
	PathHome     = "/home"
	PathCallback = "/callback"
)
