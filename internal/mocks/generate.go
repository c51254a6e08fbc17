// Package mocks provides mock implementations of the auth ports.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the interfaces in internal/ports.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	provider := mocks.NewMockIdentityProvider(ctrl)
//	provider.EXPECT().Exchange(gomock.Any(), "code").Return(tokens, nil)
package mocks

// Exchange, UserInfo
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=identity_provider_mock.go github.com/target/finance-auth-client/internal/ports IdentityProvider

// SaveTokens, SaveProfile, ReadProfile, AccessToken, RefreshToken, ClearAll
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_store_mock.go github.com/target/finance-auth-client/internal/ports SessionStore

// Get, Set, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=slot_backend_mock.go github.com/target/finance-auth-client/internal/ports SlotBackend

// Decode
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=claims_decoder_mock.go github.com/target/finance-auth-client/internal/ports ClaimsDecoder

// Navigate
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=navigator_mock.go github.com/target/finance-auth-client/internal/ports Navigator
