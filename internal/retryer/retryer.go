// Package retryer runs operations repeatedly while they fail with a
// bperr.RetryableError.
package retryer

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"

	"github.com/simplesurance/backporter/internal/bperr"
	"github.com/simplesurance/backporter/internal/logfields"
)

const (
	defBackoffInitialInterval     = 5 * time.Second
	defBackoffRandomizationFactor = 0.5
)

// Retryer executes a function repeatedly until it was successful, it failed
// with a non-retryable error or the retry timeout expired.
// A Retryer with a timeout of 0 runs the function exactly once.
type Retryer struct {
	logger  *zap.Logger
	timeout time.Duration

	backoffInitialInterval     time.Duration
	backoffRandomizationFactor float64
}

func New(timeout time.Duration) *Retryer {
	return &Retryer{
		logger:                     zap.L().Named("retryer"),
		timeout:                    timeout,
		backoffInitialInterval:     defBackoffInitialInterval,
		backoffRandomizationFactor: defBackoffRandomizationFactor,
	}
}

// Run executes fn until it was successful, it returned an error that
// does not wrap bperr.RetryableError, the retry timeout expired or the
// context was cancelled.
func (r *Retryer) Run(ctx context.Context, fn func(context.Context) error, logF []zap.Field) error {
	var tryCnt uint

	if r.timeout <= 0 {
		return fn(ctx)
	}

	ctx, cancelFn := context.WithTimeout(ctx, r.timeout)
	defer cancelFn()

	endTime := time.Now().Add(r.timeout)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.backoffInitialInterval
	bo.RandomizationFactor = r.backoffRandomizationFactor
	bo.MaxElapsedTime = 0
	bo.Reset()

	retryTimer := time.NewTimer(0)
	defer retryTimer.Stop()

	logger := r.logger.With(logF...)

	for {
		select {
		case <-ctx.Done():
			logger.Info(
				"giving up retrying operation",
				logfields.Event("operation_retry_aborted"),
				zap.Uint("try_count", tryCnt),
				zap.Error(ctx.Err()),
			)

			return ctx.Err()

		case <-retryTimer.C:
			tryCnt++
			logger := logger.With(zap.Uint("try_count", tryCnt))

			err := fn(ctx)
			if err == nil {
				return nil
			}

			var retryError *bperr.RetryableError
			if !errors.As(err, &retryError) || errors.Is(err, context.Canceled) {
				return err
			}

			if retryError.After.After(endTime) {
				logger.Info(
					"operation failed, next possible retry time is after timeout expiration",
					logfields.Event("operation_failed"),
					zap.Time("earliest_allowed_retry", retryError.After),
					zap.Error(err),
				)

				return err
			}

			var retryIn time.Duration
			if retryError.After.IsZero() {
				retryIn = bo.NextBackOff()
			} else {
				retryIn = time.Until(retryError.After)
				if retryIn < r.backoffInitialInterval {
					retryIn = bo.NextBackOff()
				}
			}

			retryTimer.Reset(retryIn)
			logger.Info(
				"operation failed, retry scheduled",
				logfields.Event("operation_retry_scheduled"),
				zap.Duration("retry_in", retryIn),
				zap.Duration("age", bo.GetElapsedTime()),
				zap.Error(err),
			)
		}
	}
}
