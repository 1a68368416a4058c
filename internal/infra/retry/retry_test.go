package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fastOpts(retries int) Options {
	return Options{MaxRetries: retries, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestDoRetriesRetryableStatus(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastOpts(3), func() error {
		calls++
		if calls < 3 {
			return &HTTPError{StatusCode: 503}
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastOpts(5), func() error {
		calls++
		return &HTTPError{StatusCode: 404, Body: []byte("nope")}
	})
	require.Error(t, err)
	require.Equal(t, 1, calls)
	require.EqualError(t, err, "http error (404): nope")
}

func TestDoGivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	var retried []int
	opts := fastOpts(2)
	opts.OnRetry = func(attempt int, err error, sleep time.Duration) {
		retried = append(retried, attempt)
		require.LessOrEqual(t, sleep, 2*time.Millisecond)
	}
	err := Do(context.Background(), opts, func() error {
		calls++
		return &HTTPError{StatusCode: 500}
	})
	var he *HTTPError
	require.True(t, errors.As(err, &he))
	require.Equal(t, 3, calls)
	require.Equal(t, []int{0, 1}, retried)
}

func TestDoHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Do(ctx, fastOpts(3), func() error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseRetryAfter(t *testing.T) {
	require.Equal(t, 3*time.Second, ParseRetryAfter(" 3 "))
	require.Zero(t, ParseRetryAfter(""))
	require.Zero(t, ParseRetryAfter("soon"))
	require.Zero(t, ParseRetryAfter(time.Now().Add(-time.Hour).UTC().Format(time.RFC1123)))
	future := ParseRetryAfter(time.Now().Add(time.Hour).UTC().Format(time.RFC1123))
	require.Greater(t, future, 50*time.Minute)
}

func TestFullJitterSleepBounds(t *testing.T) {
	for attempt := 0; attempt < 10; attempt++ {
		d := FullJitterSleep(attempt, 10*time.Millisecond, 50*time.Millisecond, 2)
		require.GreaterOrEqual(t, d, time.Duration(0))
		require.LessOrEqual(t, d, 50*time.Millisecond)
	}
	require.Zero(t, FullJitterSleep(1, 0, time.Second, 2))
}
