package util

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	// GIVEN
	calls := 0
	op := func() error {
		calls++
		if calls <= 2 {
			return errors.New("transient")
		}
		return nil
	}

	// WHEN
	err := Retry(context.Background(), 2, time.Millisecond, op)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	// GIVEN
	cause := errors.New("still broken")
	calls := 0
	op := func() error {
		calls++
		if calls <= 2 {
			return cause
		}
		return nil
	}

	// WHEN
	err := Retry(context.Background(), 1, time.Millisecond, op)

	// THEN
	var retriesErr *RetriesFailedError
	assert.ErrorAs(t, err, &retriesErr)
	assert.Equal(t, 2, retriesErr.Attempts)
	assert.ErrorIs(t, err, cause)
}

func TestRetryZeroRetriesFailsImmediately(t *testing.T) {
	// GIVEN
	cause := errors.New("broken")

	// WHEN
	err := Retry(context.Background(), 0, time.Millisecond, func() error {
		return cause
	})

	// THEN
	var retriesErr *RetriesFailedError
	assert.ErrorAs(t, err, &retriesErr)
	assert.Equal(t, 1, retriesErr.Attempts)
}

func TestRetryInterruptedByContext(t *testing.T) {
	// GIVEN
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// WHEN
	err := Retry(ctx, 5, time.Hour, func() error {
		return errors.New("transient")
	})

	// THEN
	var interruptedErr *RetryInterruptedError
	assert.ErrorAs(t, err, &interruptedErr)
	assert.Equal(t, 1, interruptedErr.Attempts)
	assert.ErrorIs(t, err, context.Canceled)
}
