package util

import (
	"context"
	"fmt"
	"time"
)

// RetriesFailedError is returned when an operation kept failing after all
// configured attempts. It carries the total attempt count and the error of
// the last attempt.
type RetriesFailedError struct {
	Attempts int
	Cause    error
}

func (e *RetriesFailedError) Error() string {
	return fmt.Sprintf("operation failed after %d attempt(s): %v", e.Attempts, e.Cause)
}

func (e *RetriesFailedError) Unwrap() error {
	return e.Cause
}

// RetryInterruptedError is returned when the inter-attempt wait was cut short,
// e.g. because the daemon is shutting down.
type RetryInterruptedError struct {
	Attempts int
	Cause    error
}

func (e *RetryInterruptedError) Error() string {
	return fmt.Sprintf("interrupted while waiting to retry after %d attempt(s): %v", e.Attempts, e.Cause)
}

func (e *RetryInterruptedError) Unwrap() error {
	return e.Cause
}

// Retrier wraps a fallible operation with a retry policy. It allows passing
// a zone's configured policy around without dragging the parameters along.
type Retrier func(op func() error) error

// Retry runs op and, if it fails, runs it again up to retries additional
// times with a fixed delay between attempts.
func Retry(ctx context.Context, retries uint, delay time.Duration, op func() error) error {
	attempts := 0
	for {
		attempts++
		err := op()
		if err == nil {
			return nil
		}

		if attempts > int(retries) {
			return &RetriesFailedError{
				Attempts: attempts,
				Cause:    err,
			}
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return &RetryInterruptedError{
				Attempts: attempts,
				Cause:    ctx.Err(),
			}
		case <-timer.C:
		}
	}
}
