package store

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"filippo.io/age"
)

// Key is the secret that protects an encrypted config file.
type Key struct {
	identity *age.X25519Identity
}

// GenerateKey creates a fresh random key.
func GenerateKey() (Key, error) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return Key{}, fmt.Errorf("store: generate key: %w", err)
	}
	return Key{identity: identity}, nil
}

// ParseKey parses an encoded key. Blank lines and lines starting with '#' are
// skipped, so the contents of a key file written by WriteKeyFile parse as-is.
func ParseKey(s string) (Key, error) {
	scanner := bufio.NewScanner(strings.NewReader(s))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		identity, err := age.ParseX25519Identity(line)
		if err != nil {
			return Key{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		return Key{identity: identity}, nil
	}
	return Key{}, fmt.Errorf("%w: no key found", ErrInvalidKey)
}

// ReadKeyFile parses the key stored at path.
func ReadKeyFile(path string) (Key, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Key{}, fmt.Errorf("store: read key file: %w", err)
	}
	return ParseKey(string(data))
}

// WriteKeyFile writes key to path with mode 0600. It refuses to replace an
// existing file so a key protecting live data is never lost.
func WriteKeyFile(path string, key Key) error {
	if !key.Valid() {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("store: create key file: %w", err)
	}

	content := fmt.Sprintf("# created: credops\n# public key: %s\n%s\n", key.identity.Recipient(), key.Encode())
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("store: write key file: %w", err)
	}
	return f.Close()
}

// Valid reports whether k holds key material.
func (k Key) Valid() bool {
	return k.identity != nil
}

// Encode returns the secret "AGE-SECRET-KEY-1..." form of the key.
func (k Key) Encode() string {
	if k.identity == nil {
		return ""
	}
	return k.identity.String()
}

// Hint returns a short public identifier for the key, safe to display.
func (k Key) Hint() string {
	if k.identity == nil {
		return ""
	}
	pub := k.identity.Recipient().String()
	if len(pub) > 12 {
		return pub[:12] + "..."
	}
	return pub
}

// String never reveals key material.
func (k Key) String() string {
	if k.identity == nil {
		return "store.Key(empty)"
	}
	return "store.Key(" + k.Hint() + ")"
}

func (k Key) check() error {
	if k.identity == nil {
		return errors.New("store: key is empty")
	}
	return nil
}
