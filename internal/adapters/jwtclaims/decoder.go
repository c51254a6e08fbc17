// Package jwtclaims decodes the payload of compact access tokens.
//
// The signature is NOT verified. Decoded claims drive UI decisions only (is the
// session still usable, which roles to show) and are trusted only as far as the
// channel the token arrived on: a direct TLS exchange with the identity provider.
// Never use these claims to authorize anything on behalf of another party.
package jwtclaims

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	domainauth "github.com/target/finance-auth-client/internal/domain/auth"
)

// Decoder implements ports.ClaimsDecoder.
type Decoder struct{}

// segmentParser only decodes segments; it never parses or verifies whole tokens.
var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// stdToURL maps the standard base64 alphabet onto the URL-safe one so payloads
// produced by either encoder decode the same way.
var stdToURL = strings.NewReplacer("+", "-", "/", "_")

// Decode parses the payload segment of a header.payload.signature token.
// Only a malformed token, payload, or exp claim fails; every failure wraps
// domainauth.ErrDecodeFailure. Optional claims of an unexpected type are dropped.
func (Decoder) Decode(token string) (domainauth.Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return domainauth.Claims{}, fmt.Errorf("%w: expected 3 segments, got %d", domainauth.ErrDecodeFailure, len(parts))
	}

	raw, err := segmentParser.DecodeSegment(stdToURL.Replace(parts[1]))
	if err != nil {
		return domainauth.Claims{}, fmt.Errorf("%w: decode payload: %w", domainauth.ErrDecodeFailure, err)
	}
	if !utf8.Valid(raw) {
		return domainauth.Claims{}, fmt.Errorf("%w: payload is not valid UTF-8", domainauth.ErrDecodeFailure)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return domainauth.Claims{}, fmt.Errorf("%w: parse payload: %w", domainauth.ErrDecodeFailure, err)
	}

	expiresAt, err := expiry(fields["exp"])
	if err != nil {
		return domainauth.Claims{}, fmt.Errorf("%w: parse exp: %w", domainauth.ErrDecodeFailure, err)
	}

	return domainauth.Claims{
		ExpiresAt:         expiresAt,
		Subject:           stringClaim(fields["sub"]),
		Issuer:            stringClaim(fields["iss"]),
		PreferredUsername: stringClaim(fields["preferred_username"]),
		Roles:             realmRoles(fields["realm_access"]),
	}, nil
}

// expiry keeps sub-second precision; a zero time means no exp claim.
func expiry(raw json.RawMessage) (time.Time, error) {
	if isAbsent(raw) {
		return time.Time{}, nil
	}
	var seconds float64
	if err := json.Unmarshal(raw, &seconds); err != nil {
		return time.Time{}, err
	}
	whole, frac := math.Modf(seconds)
	return time.Unix(int64(whole), int64(frac*float64(time.Second))), nil
}

func stringClaim(raw json.RawMessage) string {
	var s string
	if isAbsent(raw) || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// realmRoles reads realm_access.roles. Any other shape yields no roles.
func realmRoles(raw json.RawMessage) []string {
	var access struct {
		Roles json.RawMessage `json:"roles"`
	}
	if isAbsent(raw) || json.Unmarshal(raw, &access) != nil || isAbsent(access.Roles) {
		return []string{}
	}
	var roles []string
	if json.Unmarshal(access.Roles, &roles) != nil || roles == nil {
		return []string{}
	}
	return roles
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// Decode is a convenience wrapper around Decoder{}.Decode.
func Decode(token string) (domainauth.Claims, error) {
	return Decoder{}.Decode(token)
}
