package store

import (
	"fmt"
	"io"
	"strings"

	"filippo.io/age"
	"filippo.io/age/armor"
)

// Encrypt encrypts plaintext to key and returns an armored token.
func Encrypt(plaintext string, key Key) (string, error) {
	if err := key.check(); err != nil {
		return "", err
	}

	var buf strings.Builder
	aw := armor.NewWriter(&buf)
	w, err := age.Encrypt(aw, key.identity.Recipient())
	if err != nil {
		return "", fmt.Errorf("store: create encryptor: %w", err)
	}
	if _, err := io.WriteString(w, plaintext); err != nil {
		return "", fmt.Errorf("store: write plaintext: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("store: close encryptor: %w", err)
	}
	if err := aw.Close(); err != nil {
		return "", fmt.Errorf("store: close armor: %w", err)
	}
	return buf.String(), nil
}

// Decrypt decrypts an armored token with key. Any failure, including a wrong
// key or a modified token, is reported as ErrDecryption.
func Decrypt(token string, key Key) (string, error) {
	if err := key.check(); err != nil {
		return "", err
	}

	r, err := age.Decrypt(armor.NewReader(strings.NewReader(token)), key.identity)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryption, err)
	}
	plaintext, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryption, err)
	}
	return string(plaintext), nil
}
