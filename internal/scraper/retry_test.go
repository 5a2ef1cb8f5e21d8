package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func recordSleeps(slept *[]time.Duration) SleepFunc {
	return func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
}

func TestRetry_SuccessOnFirstAttempt(t *testing.T) {
	var calls int
	var slept []time.Duration
	err := Retry(context.Background(), RetryConfig{Attempts: 3, Delay: 5 * time.Second}, recordSleeps(&slept), func() error {
		calls++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, slept)
}

func TestRetry_SuccessAfterFailures(t *testing.T) {
	var calls int
	var retried []int
	var slept []time.Duration
	cfg := RetryConfig{
		Attempts: 3,
		Delay:    5 * time.Second,
		OnRetry:  func(attempt int, _ error) { retried = append(retried, attempt) },
	}
	err := Retry(context.Background(), cfg, recordSleeps(&slept), func() error {
		calls++
		if calls < 3 {
			return errors.New("net::ERR_TIMED_OUT")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
	//fixed delay, no growth
	assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second}, slept)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	var calls int
	var slept []time.Duration
	last := errors.New("third failure")
	err := Retry(context.Background(), RetryConfig{Attempts: 3, Delay: time.Second}, recordSleeps(&slept), func() error {
		calls++
		if calls == 3 {
			return last
		}
		return errors.New("failure")
	})
	assert.ErrorIs(t, err, last)
	assert.Equal(t, 3, calls)
	//no sleep after the last attempt
	assert.Len(t, slept, 2)
}

func TestRetry_ZeroAttemptsRunsOnce(t *testing.T) {
	var calls int
	_ = Retry(context.Background(), RetryConfig{}, recordSleeps(new([]time.Duration)), func() error {
		calls++
		return errors.New("boom")
	})
	assert.Equal(t, 1, calls)
}

func TestSleep_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, Sleep(ctx, time.Hour))
}
