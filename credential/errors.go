package credential

import (
	"errors"
	"fmt"

	"github.com/jonwraymond/credops/secret"
)

var (
	// ErrUnknownMethod indicates a method name outside the supported set.
	ErrUnknownMethod = errors.New("credential: unknown method")

	// ErrKeyringUnavailable indicates the OS credential store cannot be used.
	ErrKeyringUnavailable = errors.New("credential: keyring unavailable")

	// ErrConfiguration indicates a required variable is missing or a secret
	// ref must be resolved outside this process. It is the same value as
	// secret.ErrConfiguration.
	ErrConfiguration = secret.ErrConfiguration
)

// ResolutionError reports which method failed.
type ResolutionError struct {
	Method Method
	Err    error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("credential method %q: %v", e.Method, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
