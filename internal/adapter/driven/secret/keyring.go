// Package secret implements the SecretStore port. The primary adapter uses
// the platform keychain (macOS Keychain, Windows Credential Manager, Secret
// Service on Linux); an explicitly less-secure encrypted-file fallback covers
// hosts without one.
package secret

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/ericfisherdev/catalogsync/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SecretStore = (*KeyringStore)(nil)

// KeyringStore stores the host token in the OS keychain under the fixed
// service/account pair.
type KeyringStore struct{}

// NewKeyringStore returns a keychain-backed secret store, or an error when
// no keychain backend is usable on this host (callers then fall back to the
// encrypted-file store).
func NewKeyringStore() (*KeyringStore, error) {
	// Probe the backend; Get on a missing key is the cheapest call that
	// still exercises the platform API.
	_, err := keyring.Get(driven.SecretService, driven.SecretAccount)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return nil, fmt.Errorf("platform keychain unavailable: %w", err)
	}
	return &KeyringStore{}, nil
}

// Get returns the stored token, or ErrNoCredential when none is set.
func (s *KeyringStore) Get(_ context.Context) (string, error) {
	value, err := keyring.Get(driven.SecretService, driven.SecretAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", driven.ErrNoCredential
	}
	if err != nil {
		return "", fmt.Errorf("keychain get: %w", err)
	}
	return value, nil
}

// Set stores or replaces the token.
func (s *KeyringStore) Set(_ context.Context, value string) error {
	if err := keyring.Set(driven.SecretService, driven.SecretAccount, value); err != nil {
		return fmt.Errorf("keychain set: %w", err)
	}
	return nil
}

// Delete removes the token. Deleting an absent token is not an error.
func (s *KeyringStore) Delete(_ context.Context) error {
	err := keyring.Delete(driven.SecretService, driven.SecretAccount)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keychain delete: %w", err)
	}
	return nil
}
