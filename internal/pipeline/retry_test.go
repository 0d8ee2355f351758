package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetry_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), "op", func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_RecoversAfterTransientFailures(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), "op", func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, maxAttempts, calls)
}

func TestWithRetry_ExhaustsBudget(t *testing.T) {
	calls := 0
	sentinel := errors.New("still broken")
	err := withRetry(context.Background(), "op", func() error {
		calls++
		return sentinel
	})
	require.Error(t, err)
	assert.Equal(t, maxAttempts, calls)
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "op failed after 3 attempts")
}

func TestWithRetry_PanicBecomesError(t *testing.T) {
	err := withRetry(context.Background(), "op", func() error {
		panic("selector exploded")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recovered panic")
	assert.Contains(t, err.Error(), "selector exploded")
}

func TestWithRetry_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := withRetry(ctx, "op", func() error {
		calls++
		return errors.New("never seen")
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}
