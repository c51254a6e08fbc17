package sessionstore

// Package sessionstore persists the local authentication session in three fixed slots
// on top of a pluggable durable backend (file, OS keyring, or memory).

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	domainauth "github.com/target/finance-auth-client/internal/domain/auth"
	"github.com/target/finance-auth-client/internal/ports"
)

// Slot names, shared with the web frontend's localStorage keys.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUserInfo     = "user_info"
)

// Keys lists every slot owned by the store.
var Keys = []string{KeyAccessToken, KeyRefreshToken, KeyUserInfo}

// Store implements ports.SessionStore over a ports.SlotBackend.
type Store struct {
	backend ports.SlotBackend
	logger  *slog.Logger
}

// Options configures a Store.
type Options struct {
	Backend ports.SlotBackend
	Logger  *slog.Logger
}

// New creates a Store. A nil backend falls back to an in-memory backend.
func New(opts Options) *Store {
	backend := opts.Backend
	if backend == nil {
		backend = NewMemoryBackend()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{backend: backend, logger: logger}
}

func (s *Store) SaveTokens(ctx context.Context, tokens domainauth.TokenSet) error {
	if err := s.backend.Set(ctx, KeyAccessToken, tokens.AccessToken); err != nil {
		return fmt.Errorf("save access token: %w", err)
	}
	if tokens.RefreshToken == "" {
		return nil
	}
	if err := s.backend.Set(ctx, KeyRefreshToken, tokens.RefreshToken); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

func (s *Store) SaveProfile(ctx context.Context, profile domainauth.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := s.backend.Set(ctx, KeyUserInfo, string(data)); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *Store) ReadProfile(ctx context.Context) (*domainauth.UserProfile, error) {
	raw, ok, err := s.backend.Get(ctx, KeyUserInfo)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}

	var profile domainauth.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		s.logger.WarnContext(ctx, "ignoring unreadable cached profile", "error", err)
		return nil, nil
	}
	return &profile, nil
}

func (s *Store) AccessToken(ctx context.Context) (string, error) {
	return s.get(ctx, KeyAccessToken)
}

func (s *Store) RefreshToken(ctx context.Context) (string, error) {
	return s.get(ctx, KeyRefreshToken)
}

func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.backend.Delete(ctx, Keys...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	v, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return "", nil
	}
	return v, nil
}
