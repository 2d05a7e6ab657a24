package pipeline

import (
	"context"
	"fmt"
	"time"
)

// WithRetry attempts op up to maxAttempts times. Between attempts it waits
// baseDelay doubled per completed attempt (baseDelay, 2*baseDelay, ...).
// It returns the first success; when all attempts fail it returns the last
// observed error. Context cancellation during a backoff wait aborts the
// remaining attempts.
func WithRetry[T any](
	ctx context.Context,
	maxAttempts int,
	baseDelay time.Duration,
	op func(ctx context.Context) (T, error),
) (T, error) {
	var zero T
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == maxAttempts {
			break
		}

		delay := baseDelay << (attempt - 1)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, fmt.Errorf("retry aborted: %w", ctx.Err())
		}
	}
	return zero, lastErr
}
