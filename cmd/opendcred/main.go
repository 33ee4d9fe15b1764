// Package main is the entry point for the opendcred CLI tool.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/credops/credential"
	"github.com/jonwraymond/credops/observe"
)

// Version information set at build time.
var version = "0.1.0"

const serviceName = "opendcred"

// Global flags.
var (
	logLevel        string
	traceExporter   string
	metricsExporter string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "opendcred",
		Short: "Resolve and provision the OpenD API password",
		Long: `opendcred resolves the OpenD/MooMoo API password from OpenClaw secret refs
or one of the legacy sources (environment, OS keyring, encrypted config file),
and provisions the encrypted config file for the legacy config method.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	root.PersistentFlags().StringVar(&traceExporter, "trace-exporter", "none", "Trace exporter (otlp|stdout|none)")
	root.PersistentFlags().StringVar(&metricsExporter, "metrics-exporter", "none", "Metrics exporter (otlp|prometheus|stdout|none)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newResolveCmd())
	root.AddCommand(newSetupCmd())
	root.AddCommand(newKeygenCmd())
	root.AddCommand(newDoctorCmd())

	return root
}

// telemetry bundles the observer and the middleware built from it for one
// command invocation. Logs and exporter output go to the command's stderr.
type telemetry struct {
	obs observe.Observer
	mw  *observe.Middleware
}

func newTelemetry(cmd *cobra.Command) (*telemetry, error) {
	cfg := observe.Config{
		ServiceName: serviceName,
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:   traceExporter != "none",
			Exporter:  traceExporter,
			SamplePct: 1.0,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  metricsExporter != "none",
			Exporter: metricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   logLevel,
		},
		Output: cmd.ErrOrStderr(),
	}

	obs, err := observe.NewObserver(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		_ = obs.Shutdown(cmd.Context())
		return nil, err
	}
	return &telemetry{obs: obs, mw: mw}, nil
}

func (t *telemetry) shutdown(ctx context.Context) {
	if err := t.obs.Shutdown(context.WithoutCancel(ctx)); err != nil {
		t.obs.Logger().Error(ctx, "telemetry shutdown failed", observe.Field{Key: "error", Value: err.Error()})
	}
}

func methodFlagUsage() string {
	names := make([]string, 0, len(credential.Methods()))
	for _, m := range credential.Methods() {
		names = append(names, m.String())
	}
	return fmt.Sprintf("Credential method (%s)", strings.Join(names, "|"))
}

func main() {
	root := newRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
