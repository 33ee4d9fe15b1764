package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/credops/credential"
	"github.com/jonwraymond/credops/store"
)

var errNotConfigured = errors.New("credentials not configured")

const notConfiguredHelp = `No OpenD password is configured.
Set OPEND_PASSWORD_SECRET_REF to an OpenClaw secret ref, for example
  OPEND_PASSWORD_SECRET_REF='{"source":"env","id":"OPEND_PASSWORD"}'
or select a legacy source with --credential-method (env, keyring, config).`

func newResolveCmd() *cobra.Command {
	var (
		methodName    string
		configPath    string
		promptTimeout time.Duration
		toStdout      bool
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the OpenD API password",
		Long: `Resolve the OpenD API password with the selected credential method.

By default only the outcome is reported. With --stdout the password itself is
written to stdout so it can be piped into a launcher; logs always go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			method, err := credential.ParseMethod(methodName)
			if err != nil {
				return err
			}

			tel, err := newTelemetry(cmd)
			if err != nil {
				return err
			}
			defer tel.shutdown(cmd.Context())

			resolver := credential.NewResolver(credential.Options{
				Keyring:    credential.OSKeyring{},
				Provision:  terminalProvisioner(cmd.ErrOrStderr(), promptTimeout),
				ConfigPath: configPath,
				Middleware: tel.mw,
			})

			res, err := resolver.Resolve(cmd.Context(), method)
			if err != nil {
				return err
			}
			if !res.Found() {
				fmt.Fprintln(cmd.ErrOrStderr(), notConfiguredHelp)
				return errNotConfigured
			}

			if toStdout {
				fmt.Fprintln(cmd.OutOrStdout(), res.Password)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Password resolved with method %s from %s\n", res.Method, res.Source)
			if res.Legacy {
				fmt.Fprintln(cmd.OutOrStdout(), "Legacy credential source in use; prefer OPEND_PASSWORD_SECRET_REF.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&methodName, "credential-method", string(credential.DefaultMethod), methodFlagUsage())
	cmd.Flags().StringVar(&configPath, "config-path", store.DefaultPath, "Encrypted config file for the config method")
	cmd.Flags().DurationVar(&promptTimeout, "prompt-timeout", 0, "Maximum time to wait for a keyring password prompt (0 waits indefinitely)")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Write the resolved password to stdout")

	return cmd
}
