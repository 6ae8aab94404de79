// Package clock provides context-aware waiting helpers.
package clock

import (
	"context"
	"fmt"
	"time"
)

// SleepFunc waits for a duration unless ctx ends first. Services take one so tests can skip waits.
type SleepFunc func(ctx context.Context, d time.Duration) error

// SleepWithContext waits for the duration or returns early if the context is canceled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Retry calls fn until it succeeds or attempts are exhausted, sleeping delay between calls.
// onRetry, when set, sees every failure that is followed by another attempt.
func Retry(
	ctx context.Context,
	attempts int,
	delay time.Duration,
	sleep SleepFunc,
	fn func(ctx context.Context) error,
	onRetry func(attempt int, err error),
) error {
	if attempts <= 0 {
		attempts = 1
	}
	if sleep == nil {
		sleep = SleepWithContext
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		if onRetry != nil {
			onRetry(attempt, err)
		}
		if sleepErr := sleep(ctx, delay); sleepErr != nil {
			return sleepErr
		}
	}
	return fmt.Errorf("giving up after %d attempts: %w", attempts, err)
}
