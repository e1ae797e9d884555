package rpc

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"

	"github.com/DevBigEazi/circlepot-indexer/internal/common"
	"github.com/DevBigEazi/circlepot-indexer/internal/config"
	"github.com/stretchr/testify/require"
)

func testRetryConfig(attempts int) *config.RetryConfig {
	return &config.RetryConfig{
		MaxAttempts:       attempts,
		InitialBackoff:    common.NewDuration(time.Millisecond),
		MaxBackoff:        common.NewDuration(5 * time.Millisecond),
		BackoffMultiplier: 2.0,
	}
}

func TestRetryableError(t *testing.T) {
	require.False(t, retryableError(nil))
	require.False(t, retryableError(errors.New("execution reverted")))

	require.True(t, retryableError(syscall.ECONNREFUSED))
	require.True(t, retryableError(errors.New("context deadline exceeded")))
	require.True(t, retryableError(errors.New("429 Too Many Requests")))
	require.True(t, retryableError(errors.New("503 Service Unavailable")))
	require.True(t, retryableError(errors.New("read tcp: i/o timeout")))
}

func TestCalculateBackoffBounds(t *testing.T) {
	cfg := testRetryConfig(10)

	require.Equal(t, time.Duration(0), calculateBackoff(1, cfg))

	for attempt := 2; attempt <= 10; attempt++ {
		backoff := calculateBackoff(attempt, cfg)
		require.GreaterOrEqual(t, backoff, time.Duration(0))
		// Max backoff plus the 25% jitter headroom.
		require.LessOrEqual(t, backoff, time.Duration(float64(cfg.MaxBackoff.Duration)*1.25))
	}
}

func TestRetryWithBackoffSucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), testRetryConfig(5), "test", func() error {
		calls++
		if calls < 3 {
			return errors.New("timeout")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestRetryWithBackoffNonRetryableFailsFast(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), testRetryConfig(5), "test", func() error {
		calls++
		return errors.New("execution reverted")
	})
	require.Error(t, err)
	require.Equal(t, 1, calls)
}

func TestRetryWithBackoffExhaustsAttempts(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), testRetryConfig(3), "test", func() error {
		calls++
		return errors.New("timeout")
	})
	require.Error(t, err)
	require.Equal(t, 3, calls)
}

func TestRetryWithBackoffNilConfigRunsOnce(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), nil, "test", func() error {
		calls++
		return errors.New("timeout")
	})
	require.Error(t, err)
	require.Equal(t, 1, calls)
}

func TestRetryWithBackoffHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retryWithBackoff(ctx, testRetryConfig(3), "test", func() error {
		return errors.New("timeout")
	})
	require.ErrorIs(t, err, context.Canceled)
}
