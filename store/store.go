package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// DefaultPath is the encrypted config file name used when none is given.
const DefaultPath = "config.enc"

// PasswordField is the config field holding the API password.
const PasswordField = "password"

// Config is the decrypted configuration object.
type Config map[string]any

// Store reads and writes one encrypted config file. It keeps no decrypted
// state between calls.
type Store struct {
	Path string
}

// New returns a store for path, or DefaultPath when path is empty.
func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{Path: path}
}

// Save encrypts cfg with key and writes it to the store path, replacing any
// existing file.
func (s *Store) Save(cfg Config, key Key) error {
	if cfg == nil {
		cfg = Config{}
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("store: marshal config: %w", err)
	}
	token, err := Encrypt(string(data), key)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.Path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("store: write %s: %w", s.Path, err)
	}
	return nil
}

// Load reads, decrypts and parses the config at the store path.
func (s *Store) Load(key Key) (Config, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrConfigNotFound, s.Path, err)
		}
		return nil, fmt.Errorf("store: read %s: %w", s.Path, err)
	}

	plaintext, err := Decrypt(string(data), key)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal([]byte(plaintext), &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: not a JSON object", ErrParse)
	}
	return cfg, nil
}

// Password returns the password field of the stored config. ok is false when
// the field is absent.
func (s *Store) Password(key Key) (password string, ok bool, err error) {
	cfg, err := s.Load(key)
	if err != nil {
		return "", false, err
	}
	return cfg.Password()
}

// Password returns the password field. ok is false when the field is absent
// or null.
func (c Config) Password() (string, bool, error) {
	raw, found := c[PasswordField]
	if !found || raw == nil {
		return "", false, nil
	}
	password, isString := raw.(string)
	if !isString {
		return "", false, fmt.Errorf("%w: %q field is not a string", ErrParse, PasswordField)
	}
	return password, true, nil
}
