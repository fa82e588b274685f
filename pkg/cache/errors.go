package cache

import (
	"errors"
	"time"

	"github.com/matzehuels/topiccloud/pkg/retry"
)

// ErrBackend is wrapped by errors from remote cache backends.
var ErrBackend = errors.New("cache backend error")

// RetryableError wraps an error to indicate it should trigger a retry.
type RetryableError struct{ Err error }

// Retryable wraps an error as a RetryableError.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Error returns the error message of the wrapped error.
func (e *RetryableError) Error() string { return e.Err.Error() }

// Unwrap returns the wrapped error.
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable checks if an error is wrapped with RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// connectPolicy retries backend connections wrapped with Retryable.
var connectPolicy = retry.Policy{
	Attempts:  3,
	Delay:     200 * time.Millisecond,
	Retryable: IsRetryable,
}
