package health

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// AggregatorConfig configures the health aggregator.
type AggregatorConfig struct {
	// Timeout bounds the whole run.
	// Default: 10 seconds
	Timeout time.Duration

	// Parallel runs checks concurrently. Results keep registration order
	// either way.
	Parallel bool
}

// Report is the outcome of one aggregator run.
type Report struct {
	Status  Status
	Results []Result
}

// Aggregator runs a fixed list of checkers.
type Aggregator struct {
	config   AggregatorConfig
	checkers []Checker
}

// NewAggregator creates a new health aggregator.
func NewAggregator(config ...AggregatorConfig) *Aggregator {
	cfg := AggregatorConfig{Timeout: 10 * time.Second}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Aggregator{config: cfg}
}

// Register appends checkers. Nil checkers are ignored.
func (a *Aggregator) Register(checkers ...Checker) {
	for _, c := range checkers {
		if c != nil {
			a.checkers = append(a.checkers, c)
		}
	}
}

// Names returns the registered checker names in order.
func (a *Aggregator) Names() []string {
	names := make([]string, len(a.checkers))
	for i, c := range a.checkers {
		names[i] = c.Name()
	}
	return names
}

// Run executes every checker and returns the combined report.
func (a *Aggregator) Run(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	results := make([]Result, len(a.checkers))
	if a.config.Parallel {
		var g errgroup.Group
		for i, c := range a.checkers {
			g.Go(func() error {
				results[i] = runCheck(ctx, c)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, c := range a.checkers {
			results[i] = runCheck(ctx, c)
		}
	}

	return Report{Status: OverallStatus(results), Results: results}
}

// OverallStatus returns the worst status in results, or Healthy when empty.
func OverallStatus(results []Result) Status {
	status := StatusHealthy
	for _, r := range results {
		if r.Status > status {
			status = r.Status
		}
	}
	return status
}

func runCheck(ctx context.Context, checker Checker) Result {
	start := time.Now()
	resultCh := make(chan Result, 1)

	go func() {
		defer func() {
			if p := recover(); p != nil {
				resultCh <- Unhealthy("check panicked", fmt.Errorf("%w: %v", ErrCheckPanicked, p))
			}
		}()
		resultCh <- checker.Check(ctx)
	}()

	var result Result
	select {
	case result = <-resultCh:
	case <-ctx.Done():
		result = Unhealthy("check timed out", ErrCheckTimeout)
	}

	result.Name = checker.Name()
	result.Duration = time.Since(start)
	if result.Timestamp.IsZero() {
		result.Timestamp = start
	}
	return result
}
