package concurrent

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
)

// ErrWaitTimeout is returned by WaitFor when the condition was not met in time.
var ErrWaitTimeout = errors.New("wait timeout")

var errNotReady = errors.New("not ready")

// WaitFor calls fn every tick until it returns a non-nil result or an error.
// If timeout is positive, it bounds the whole wait. Errors returned by fn stop the wait immediately.
func WaitFor[T any](ctx context.Context, timeout, tick time.Duration, fn func(context.Context) (*T, error)) (*T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := retry.DoWithData(
		func() (*T, error) {
			res, err := fn(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil, retry.Unrecoverable(ctx.Err())
				}
				return nil, retry.Unrecoverable(err)
			}
			if res == nil {
				return nil, errNotReady
			}
			return res, nil
		},
		retry.Context(ctx),
		retry.Attempts(0),
		retry.Delay(tick),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, errNotReady) {
			return nil, ErrWaitTimeout
		}
		return nil, err
	}
	return res, nil
}
