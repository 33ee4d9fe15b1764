package resilience

import (
	"context"
	"errors"
	"time"
)

// WithTimeout runs op and returns its value, or ErrTimeout when it does not
// finish within timeout. A non-positive timeout runs op without a bound.
//
// op receives a context that is canceled on timeout. An op that ignores its
// context keeps running in the background and its result is discarded.
func WithTimeout[T any](ctx context.Context, timeout time.Duration, op func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return op(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		v, err := op(ctx)
		done <- outcome{value: v, err: err}
	}()

	select {
	case out := <-done:
		return out.value, out.err
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, ErrTimeout
		}
		return zero, ctx.Err()
	}
}
