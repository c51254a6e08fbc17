package auth

import "errors"

var (
	// ErrExchangeFailed is returned when the token endpoint answers with a non-success status.
	ErrExchangeFailed = errors.New("authorization code exchange failed")
	// ErrUserInfoFailed is returned when the userinfo endpoint answers with a non-success status.
	ErrUserInfoFailed = errors.New("userinfo request failed")
	// ErrMissingToken is returned when an operation needs a stored access token and there is none.
	ErrMissingToken = errors.New("access token not found")
	// ErrMissingCode is returned when the callback URL carries no authorization code.
	ErrMissingCode = errors.New("authorization code not found")
	// ErrDecodeFailure is returned when token claims cannot be decoded.
	// Read paths swallow it and fall back to "unauthenticated" or "no roles".
	ErrDecodeFailure = errors.New("token claims could not be decoded")
	// ErrProviderDenied is returned when the provider redirects back with an error parameter.
	ErrProviderDenied = errors.New("identity provider returned an error")
)
