package observe

import (
	"context"
	"time"
)

// ExecuteFunc is the function Middleware wraps.
type ExecuteFunc func(ctx context.Context, op Operation) error

// Middleware wraps an operation with tracing, metrics and a completion log.
//
// Contract:
//   - Concurrency: Wrap returns a function safe for concurrent use.
//   - Context: the wrapped function receives the span context.
//   - Errors: errors from the wrapped function are recorded and returned unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a Middleware. Nil components are replaced by no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = NewTracer(nil)
	}
	if metrics == nil {
		metrics, _ = NewMetrics(nil)
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// NopMiddleware returns a Middleware that records nothing.
func NopMiddleware() *Middleware {
	return NewMiddleware(nil, nil, nil)
}

// Logger returns the middleware logger.
func (m *Middleware) Logger() Logger {
	return m.logger
}

// Wrap wraps fn with tracing, metrics and logging.
func (m *Middleware) Wrap(fn ExecuteFunc) ExecuteFunc {
	return func(ctx context.Context, op Operation) error {
		ctx, span := m.tracer.StartSpan(ctx, op)
		start := time.Now()

		err := fn(ctx, op)

		duration := time.Since(start)
		m.tracer.EndSpan(span, err)
		m.metrics.RecordOperation(ctx, op, duration, err)

		fields := []Field{
			{Key: "operation", Value: op.Name},
			{Key: "duration_ms", Value: float64(duration.Microseconds()) / 1000},
		}
		if op.Method != "" {
			fields = append(fields, Field{Key: "method", Value: op.Method})
		}
		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			m.logger.Error(ctx, op.Name+" failed", fields...)
		} else {
			m.logger.Debug(ctx, op.Name+" completed", fields...)
		}

		return err
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}
