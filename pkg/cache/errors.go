package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrCacheMiss is returned by GetJSON when the key is absent.
	ErrCacheMiss = errors.New("cache miss")

	// ErrBackend is returned when a remote backend cannot be reached.
	ErrBackend = errors.New("cache backend unavailable")
)

// transientError marks a backend failure worth another attempt.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Retryable marks err as transient for RetryWithBackoff. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsRetryable reports whether err was marked with Retryable.
func IsRetryable(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// Backoff schedule for RetryWithBackoff: retryAttempts tries, the first wait
// retryDelay, doubling after each.
var (
	retryAttempts = 3
	retryDelay    = 100 * time.Millisecond
)

// RetryWithBackoff calls fn until it succeeds, fails with an error not
// marked Retryable, or runs out of attempts. The last error is returned.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	wait := retryDelay
	var err error
	for attempt := 1; ; attempt++ {
		err = fn()
		if err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		wait *= 2
	}
}
