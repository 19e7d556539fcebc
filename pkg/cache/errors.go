package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNetwork wraps failures talking to a RedisCache server.
	ErrNetwork = errors.New("network error")

	// ErrCacheMiss is returned by GetValue when the key holds no result.
	ErrCacheMiss = errors.New("cache miss")

	// ErrUnsupported is returned by Clear for backends that cannot drop
	// their entries, such as a Cache supplied by a library user.
	ErrUnsupported = errors.New("operation not supported by cache backend")
)

// RetryableError marks a backend failure as transient. Only errors wrapped
// this way are retried by RetryWithBackoff.
type RetryableError struct{ Err error }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err or anything it wraps is a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// retryAttempts and retryDelay bound how long a cache call waits on a
// flaky server before the computation runs uncached.
var (
	retryAttempts = 3
	retryDelay    = 100 * time.Millisecond
)

// RetryWithBackoff calls fn until it succeeds, returns an error that is not
// Retryable, or has been tried retryAttempts times. The delay between tries
// doubles from retryDelay. A cancelled ctx ends the wait with ctx.Err().
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
}
