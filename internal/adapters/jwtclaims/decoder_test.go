package jwtclaims

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/finance-auth-client/internal/domain/auth"
)

func tokenWithPayload(payload string) string {
	return "header." + base64.RawURLEncoding.EncodeToString([]byte(payload)) + ".sig"
}

func TestDecode_FarFutureExpiry(t *testing.T) {
	claims, err := Decode("header.eyJleHAiOjk5OTk5OTk5OTl9.sig")
	require.NoError(t, err)
	assert.Equal(t, int64(9999999999), claims.ExpiresAt.Unix())
	assert.True(t, claims.ValidAt(time.Now()))
}

func TestDecode_ZeroExpiry(t *testing.T) {
	claims, err := Decode(tokenWithPayload(`{"exp":0}`))
	require.NoError(t, err)
	assert.True(t, claims.HasExpiry())
	assert.False(t, claims.ValidAt(time.Now()))
}

func TestDecode_MissingExpiry(t *testing.T) {
	claims, err := Decode(tokenWithPayload(`{"sub":"abc"}`))
	require.NoError(t, err)
	assert.False(t, claims.HasExpiry())
	assert.Equal(t, "abc", claims.Subject)
	assert.Empty(t, claims.Roles)
}

func TestDecode_RealmRoles(t *testing.T) {
	token := tokenWithPayload(`{"exp":9999999999,"preferred_username":"ana","realm_access":{"roles":["admin","viewer","admin"]},"resource_access":{"x":{"roles":["ignored"]}}}`)
	claims, err := Decode(token)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin", "viewer", "admin"}, claims.Roles)
	assert.Equal(t, "ana", claims.PreferredUsername)
}

func TestDecode_PaddedPayload(t *testing.T) {
	token := "h." + base64.URLEncoding.EncodeToString([]byte(`{"exp":9999999999,"name":"Zé"}`)) + ".s"
	claims, err := Decode(token)
	require.NoError(t, err)
	assert.True(t, claims.HasExpiry())
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "one segment", token: "abc"},
		{name: "two segments", token: "a.b"},
		{name: "four segments", token: "a.b.c.d"},
		{name: "invalid base64", token: "h.!!!.s"},
		{name: "not json", token: tokenWithPayload("not json")},
		{name: "not utf8", token: "h." + base64.RawURLEncoding.EncodeToString([]byte{0xff, 0xfe}) + ".s"},
		{name: "exp wrong type", token: tokenWithPayload(`{"exp":"soon"}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, domainauth.ErrDecodeFailure)
		})
	}
}

func TestDecode_IgnoresOptionalClaimsOfUnexpectedType(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "numeric sub", payload: `{"exp":9999999999,"sub":123}`},
		{name: "object iss", payload: `{"exp":9999999999,"iss":{"x":1}}`},
		{name: "numeric preferred_username", payload: `{"exp":9999999999,"preferred_username":42}`},
		{name: "roles not a list", payload: `{"exp":9999999999,"realm_access":{"roles":"admin"}}`},
		{name: "realm_access not an object", payload: `{"exp":9999999999,"realm_access":[]}`},
		{name: "roles with non-string entry", payload: `{"exp":9999999999,"realm_access":{"roles":["admin",1]}}`},
		{name: "null realm_access", payload: `{"exp":9999999999,"realm_access":null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := Decode(tokenWithPayload(tt.payload))
			require.NoError(t, err)
			assert.Equal(t, int64(9999999999), claims.ExpiresAt.Unix())
			assert.True(t, claims.ValidAt(time.Now()))
			assert.Empty(t, claims.Subject)
			assert.Empty(t, claims.Issuer)
			assert.Empty(t, claims.PreferredUsername)
			assert.NotNil(t, claims.Roles)
			assert.Empty(t, claims.Roles)
		})
	}
}

func TestDecode_FractionalExpiry(t *testing.T) {
	claims, err := Decode(tokenWithPayload(`{"exp":1000.5}`))
	require.NoError(t, err)
	assert.Equal(t, time.Unix(1000, 500_000_000), claims.ExpiresAt)
	assert.True(t, claims.ValidAt(time.Unix(1000, 900_000_000)))
	assert.False(t, claims.ValidAt(time.Unix(1001, 0)))
}

func TestDecode_StandardAlphabetPayload(t *testing.T) {
	// The standard alphabet encodes "~~~" and "??>" with "+" and "/".
	payload := `{"exp":9999999999,"preferred_username":"~~~??>"}`
	std := base64.RawStdEncoding.EncodeToString([]byte(payload))
	require.True(t, strings.ContainsAny(std, "+/"))

	claims, err := Decode("h." + std + ".s")
	require.NoError(t, err)
	assert.Equal(t, "~~~??>", claims.PreferredUsername)
}
