// Package retry runs an operation again after transient failures.
//
// A [Policy] decides how often to try, how long to wait and which errors
// are worth another attempt. The delay doubles after every failure:
//
//	err := retry.Do(ctx, retry.Policy{
//	    Attempts:  3,
//	    Delay:     time.Second,
//	    Retryable: func(err error) bool { return errors.Is(err, errors.ErrCodeNetwork) },
//	}, connect)
package retry

import (
	"context"
	"time"
)

// Policy configures Do.
type Policy struct {
	Attempts  int                  // total tries, at least 1
	Delay     time.Duration        // wait before the second try
	Retryable func(err error) bool // nil retries every error
}

// Do runs fn until it succeeds, returns an error the policy does not retry,
// or runs out of attempts. It returns the last error, or ctx.Err() when ctx
// is cancelled while waiting.
func Do(ctx context.Context, p Policy, fn func() error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; p.Retryable != nil && !p.Retryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
