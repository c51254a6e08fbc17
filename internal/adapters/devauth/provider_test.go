package devauth

import (
	"context"
	"testing"
	"time"

	"github.com/target/finance-auth-client/internal/adapters/jwtclaims"
	domainauth "github.com/target/finance-auth-client/internal/domain/auth"
)

func TestProvider_ExchangeAndUserInfo(t *testing.T) {
	prov, err := NewProvider(Config{Username: "dev-user", Email: "dev@example.com", Roles: []string{"admin", "viewer"}})
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}

	tokens, err := prov.Exchange(context.Background(), Code)
	if err != nil {
		t.Fatalf("Exchange error: %v", err)
	}
	claims, err := jwtclaims.Decode(tokens.AccessToken)
	if err != nil {
		t.Fatalf("dev token should decode: %v", err)
	}
	if !claims.ValidAt(time.Now()) {
		t.Fatalf("dev token should be valid, exp=%v", claims.ExpiresAt)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "admin" {
		t.Fatalf("unexpected roles: %v", claims.Roles)
	}

	info, err := prov.UserInfo(context.Background(), tokens.AccessToken)
	if err != nil {
		t.Fatalf("UserInfo error: %v", err)
	}
	if info.PreferredUsername != "dev-user" || info.Email != "dev@example.com" || info.Subject != "dev:dev-user" {
		t.Fatalf("unexpected userinfo: %+v", info)
	}
}

func TestProvider_Validation(t *testing.T) {
	if _, err := NewProvider(Config{}); err == nil {
		t.Fatal("expected error for missing username")
	}
	prov, err := NewProvider(Config{Username: "u"})
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}
	if _, err := prov.Exchange(context.Background(), ""); err != domainauth.ErrMissingCode {
		t.Fatalf("Exchange(\"\") error = %v, want ErrMissingCode", err)
	}
	if _, err := prov.UserInfo(context.Background(), ""); err != domainauth.ErrMissingToken {
		t.Fatalf("UserInfo(\"\") error = %v, want ErrMissingToken", err)
	}
}
