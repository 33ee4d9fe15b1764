// Package health runs readiness checks and folds their results into a single
// status.
//
// A Checker reports Healthy, Degraded or Unhealthy. The Aggregator runs a set
// of checkers under a shared timeout, in registration order or in parallel,
// and returns a Report whose Status is the worst individual status.
//
//	agg := health.NewAggregator()
//	agg.Register(health.NewCheckerFunc("secret-ref", checkSecretRef))
//	report := agg.Run(ctx)
//	if report.Status == health.StatusUnhealthy {
//	    os.Exit(1)
//	}
package health
