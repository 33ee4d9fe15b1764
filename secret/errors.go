package secret

import "errors"

var (
	// ErrValidation indicates a malformed secret reference.
	ErrValidation = errors.New("secret: invalid secret ref")

	// ErrUnsupportedSource indicates a secret reference source outside env|file|exec.
	ErrUnsupportedSource = errors.New("secret: unsupported secret ref source")

	// ErrConfiguration indicates the environment cannot satisfy the request,
	// either because a required variable is missing or because the reference
	// must be resolved outside this process.
	ErrConfiguration = errors.New("secret: configuration error")
)
