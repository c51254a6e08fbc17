// Package keyring provides a SlotBackend on top of the operating system's
// credential store (macOS Keychain, Secret Service, Windows Credential Manager).
package keyring

import (
	"context"
	"errors"
	"fmt"

	gokeyring "github.com/zalando/go-keyring"
)

// DefaultService is the keyring service name used when none is configured.
const DefaultService = "finance-auth-client"

// Backend stores each slot as a separate keyring item under one service name.
// The keyring has no multi-item transaction, so Delete removes items one at a
// time and keeps going past failures; a partially cleared session is possible
// only if the OS credential store itself fails mid-way.
type Backend struct {
	service string
}

// New creates a Backend for service. An empty service uses DefaultService.
func New(service string) *Backend {
	if service == "" {
		service = DefaultService
	}
	return &Backend{service: service}
}

func (b *Backend) Get(_ context.Context, key string) (string, bool, error) {
	v, err := gokeyring.Get(b.service, key)
	if err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("keyring get %s: %w", key, err)
	}
	return v, true, nil
}

func (b *Backend) Set(_ context.Context, key, value string) error {
	if err := gokeyring.Set(b.service, key, value); err != nil {
		return fmt.Errorf("keyring set %s: %w", key, err)
	}
	return nil
}

func (b *Backend) Delete(_ context.Context, keys ...string) error {
	var errs []error
	for _, k := range keys {
		if err := gokeyring.Delete(b.service, k); err != nil && !errors.Is(err, gokeyring.ErrNotFound) {
			errs = append(errs, fmt.Errorf("keyring delete %s: %w", k, err))
		}
	}
	return errors.Join(errs...)
}

// Probe checks that the OS keyring is usable by writing and removing a marker item.
func Probe(service string) error {
	if service == "" {
		service = DefaultService
	}
	const probeKey = "probe"
	if err := gokeyring.Set(service, probeKey, "ok"); err != nil {
		return fmt.Errorf("keyring unavailable: %w", err)
	}
	_ = gokeyring.Delete(service, probeKey)
	return nil
}
