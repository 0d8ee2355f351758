package pipeline

import (
	"context"
	"fmt"
	"time"
)

// Retry policy for per-operation failures: up to maxAttempts tries with
// exponential backoff before the operation is abandoned. Retries apply per
// operation, not per run.
const (
	maxAttempts      = 3
	baseRetryDelay   = 200 * time.Millisecond
	backoffMultiple  = 2
	operationTimeout = 30 * time.Second
)

// withRetry runs op until it succeeds, the attempt budget is spent, or the
// context is done. Panics inside op are recovered and treated as failures so
// a misbehaving section extractor cannot abort the whole run.
func withRetry(ctx context.Context, label string, op func() error) error {
	var lastErr error
	delay := baseRetryDelay

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = safely(op)
		if lastErr == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= backoffMultiple
	}
	return fmt.Errorf("%s failed after %d attempts: %w", label, maxAttempts, lastErr)
}

// safely converts a panic from op into an error.
func safely(op func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered panic: %v", r)
		}
	}()
	return op()
}
