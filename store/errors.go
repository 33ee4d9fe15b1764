package store

import "errors"

var (
	// ErrInvalidKey indicates key material that is not an age secret key.
	ErrInvalidKey = errors.New("store: invalid key")

	// ErrDecryption indicates a wrong key, a corrupted token or tampering.
	ErrDecryption = errors.New("store: decryption failed")

	// ErrConfigNotFound indicates the encrypted config file does not exist.
	// Errors carrying it also match fs.ErrNotExist.
	ErrConfigNotFound = errors.New("store: encrypted config not found")

	// ErrParse indicates decrypted content that is not a JSON object, or a
	// password field of the wrong type.
	ErrParse = errors.New("store: invalid config content")
)
