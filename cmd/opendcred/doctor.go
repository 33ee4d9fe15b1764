package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/credops/credential"
	"github.com/jonwraymond/credops/health"
	"github.com/jonwraymond/credops/store"
)

var errChecksFailed = errors.New("credential checks failed")

func newDoctorCmd() *cobra.Command {
	var (
		configPath string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check which credential sources are ready",
		Long: `Run readiness checks for every credential source. Checks never prompt,
never write, and never print secret values. Exits non-zero when any check is
unhealthy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tel, err := newTelemetry(cmd)
			if err != nil {
				return err
			}
			defer tel.shutdown(cmd.Context())

			resolver := credential.NewResolver(credential.Options{
				Keyring:    credential.OSKeyring{},
				ConfigPath: configPath,
				Middleware: tel.mw,
			})

			agg := health.NewAggregator(health.AggregatorConfig{Timeout: timeout, Parallel: true})
			agg.Register(resolver.Checks()...)
			report := agg.Run(cmd.Context())

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CHECK\tSTATUS\tDETAIL")
			for _, r := range report.Results {
				detail := r.Message
				if r.Error != nil {
					detail = fmt.Sprintf("%s: %v", r.Message, r.Error)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, r.Status, detail)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nOverall: %s\n", report.Status)

			if report.Status == health.StatusUnhealthy {
				return errChecksFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config-path", store.DefaultPath, "Encrypted config file for the config method")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Timeout for the whole check run")

	return cmd
}
