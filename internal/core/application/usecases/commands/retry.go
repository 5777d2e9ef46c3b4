package commands

import (
	"context"
	"errors"
	"time"

	"fleetwise/internal/core/ports"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultMaxAttempts    = 4
	DefaultInitialBackoff = 50 * time.Millisecond
)

// RetryPolicy bounds how long a command waits for a contended job row.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
}

// DefaultRetryPolicy returns 4 attempts starting at 50ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: DefaultMaxAttempts, InitialBackoff: DefaultInitialBackoff}
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = DefaultInitialBackoff
	}
	return p
}

// retryOnLock runs op until it stops returning ports.ErrJobLocked or the
// attempts are used up, in which case ErrJobBusy is returned. Any other
// error ends the loop immediately.
func retryOnLock(ctx context.Context, policy RetryPolicy, op func() error) error {
	policy = policy.normalized()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = policy.InitialBackoff
	b.MaxInterval = 16 * policy.InitialBackoff
	b.MaxElapsedTime = 0

	attempts := backoff.WithContext(
		backoff.WithMaxRetries(b, uint64(policy.MaxAttempts-1)),
		ctx,
	)

	err := backoff.Retry(func() error {
		err := op()
		if err == nil || errors.Is(err, ports.ErrJobLocked) {
			return err
		}
		return backoff.Permanent(err)
	}, attempts)

	if errors.Is(err, ports.ErrJobLocked) {
		return ErrJobBusy
	}
	return err
}
