package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/jonwraymond/credops/credential"
	"github.com/jonwraymond/credops/resilience"
)

var errNoTerminal = errors.New("stdin is not a terminal; cannot prompt for a password")

// Replaced in tests.
var (
	stdinIsTerminal = func() bool { return term.IsTerminal(int(syscall.Stdin)) }
	readPassword    = func() ([]byte, error) { return term.ReadPassword(int(syscall.Stdin)) }
	saveTerminal    = func() (restore func(), err error) {
		fd := int(syscall.Stdin)
		state, err := term.GetState(fd)
		if err != nil {
			return nil, err
		}
		return func() { _ = term.Restore(fd, state) }, nil
	}
)

// promptPassword writes prompt to w and reads a password without echo.
func promptPassword(w io.Writer, prompt string) (string, error) {
	if !stdinIsTerminal() {
		return "", errNoTerminal
	}
	fmt.Fprint(w, prompt)
	password, err := readPassword()
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}

// terminalProvisioner prompts on the terminal when the keyring is empty.
// A positive timeout bounds how long the prompt may block.
//
// An abandoned read leaves echo disabled, so the terminal state captured
// before the prompt is restored whenever the prompt is abandoned.
func terminalProvisioner(w io.Writer, timeout time.Duration) credential.Provisioner {
	return func(ctx context.Context) (string, error) {
		restore := func() {}
		if stdinIsTerminal() {
			if r, err := saveTerminal(); err == nil {
				restore = r
			}
		}

		password, err := resilience.WithTimeout(ctx, timeout, func(context.Context) (string, error) {
			return promptPassword(w, "Enter MooMoo API password to store in keyring: ")
		})
		if errors.Is(err, resilience.ErrTimeout) || ctx.Err() != nil {
			restore()
			fmt.Fprintln(w)
		}
		return password, err
	}
}
