// Package retry runs an operation a bounded number of times on an exponential backoff.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy controls how Do retries an operation
type Policy struct {
	// MaxAttempts is the total number of calls, including the first one
	MaxAttempts int
	// InitialInterval is the wait before the second call; it doubles after that.
	// Zero retries immediately.
	InitialInterval time.Duration
	// Jitter is the randomization factor applied to each wait (0 to 1)
	Jitter float64
	// Retryable classifies errors. Nil means every error is retried.
	Retryable func(err error) bool
}

func (p Policy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// newBackOff builds the backoff schedule for one Do call
func (p Policy) newBackOff(ctx context.Context) backoff.BackOffContext {
	var b backoff.BackOff = &backoff.ZeroBackOff{}
	if p.InitialInterval > 0 {
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = p.InitialInterval
		exp.Multiplier = 2
		exp.RandomizationFactor = p.Jitter
		exp.MaxInterval = 30 * time.Second
		exp.MaxElapsedTime = 0
		exp.Reset()
		b = exp
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.attempts()-1)), ctx)
}

// Do calls op until it succeeds, returns a non-retryable error, the attempts run
// out or ctx is done. The last error is returned, or ctx's error once it is done.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context, attempt int) (T, error)) (T, error) {
	var zero T
	attempt := 0

	result, err := backoff.RetryWithData(func() (T, error) {
		if err := ctx.Err(); err != nil {
			return zero, backoff.Permanent(err)
		}
		attempt++

		result, err := op(ctx, attempt)
		if err != nil && p.Retryable != nil && !p.Retryable(err) {
			return zero, backoff.Permanent(err)
		}
		return result, err
	}, p.newBackOff(ctx))
	if err != nil {
		return zero, err
	}
	return result, nil
}
