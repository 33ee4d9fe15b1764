// Package store keeps a small JSON configuration object encrypted at rest.
//
// The file holds a single ASCII-armored age ciphertext. The key is an age
// X25519 identity encoded as "AGE-SECRET-KEY-1..." and is never written to the
// same file; the caller decides where it lives (a 0600 key file, the
// MOOMOO_CONFIG_KEY environment variable, a secret manager).
//
// Decryption is authenticated: a wrong key, a truncated file or any tampering
// fails with ErrDecryption instead of producing plaintext.
//
// There is no locking. Concurrent writers to the same path race and the last
// writer wins.
package store
