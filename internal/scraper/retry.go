package scraper

import (
	"context"
	"time"
)

// SleepFunc blocks for d or until ctx is done. Swapped out in tests.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the real SleepFunc
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryConfig controls fixed-delay retries: no backoff growth, no jitter.
type RetryConfig struct {
	// Attempts is the total number of tries, including the first one
	Attempts int
	Delay    time.Duration

	// OnRetry is called before each wait with the failed attempt number
	OnRetry func(attempt int, err error)
}

// Retry runs fn until it succeeds or cfg.Attempts is exhausted, sleeping
// cfg.Delay between attempts. The error of the last attempt is returned.
func Retry(ctx context.Context, cfg RetryConfig, sleep SleepFunc, fn func() error) error {
	attempts := cfg.Attempts
	if attempts < 1 {
		attempts = 1
	}
	if sleep == nil {
		sleep = Sleep
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, lastErr)
		}
		if err := sleep(ctx, cfg.Delay); err != nil {
			return lastErr
		}
	}
	return lastErr
}
