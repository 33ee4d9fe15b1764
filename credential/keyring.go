package credential

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// Fixed OS credential store location of the password.
const (
	KeyringService = "moomoo_api"
	KeyringKey     = "password"
)

// Keyring is the OS credential store capability.
type Keyring interface {
	// Get returns the value stored under service/key. ok is false when
	// nothing is stored.
	Get(service, key string) (value string, ok bool, err error)
	Set(service, key, value string) error
}

// OSKeyring uses the platform credential store (macOS Keychain, Windows
// Credential Manager, Secret Service on Linux).
type OSKeyring struct{}

func (OSKeyring) Get(service, key string) (string, bool, error) {
	value, err := keyring.Get(service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrKeyringUnavailable, err)
	}
	return value, true, nil
}

func (OSKeyring) Set(service, key, value string) error {
	if err := keyring.Set(service, key, value); err != nil {
		return fmt.Errorf("%w: %w", ErrKeyringUnavailable, err)
	}
	return nil
}

// UnavailableKeyring is used where no credential store exists. Every call
// fails with ErrKeyringUnavailable.
type UnavailableKeyring struct {
	Reason string
}

func (k UnavailableKeyring) Get(string, string) (string, bool, error) {
	return "", false, k.err()
}

func (k UnavailableKeyring) Set(string, string, string) error {
	return k.err()
}

func (k UnavailableKeyring) err() error {
	if k.Reason == "" {
		return ErrKeyringUnavailable
	}
	return fmt.Errorf("%w: %s", ErrKeyringUnavailable, k.Reason)
}
