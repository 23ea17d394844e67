package commands

import (
	"context"
	"time"

	"marketplace-ledger/internal/ledger"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// withRetry runs op until it succeeds, fails with a non-retryable error, or
// maxElapsed passes. Only lock conflicts are retried.
func withRetry(ctx context.Context, maxElapsed time.Duration, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = time.Second
	b.MaxElapsedTime = maxElapsed

	return backoff.RetryNotify(func() error {
		err := op()
		if err != nil && !ledger.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(b, ctx), func(err error, wait time.Duration) {
		log.Warn().Err(err).Dur("wait", wait).Msg("ledger_busy_retrying")
	})
}
