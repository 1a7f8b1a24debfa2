package crawl

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/devdocs"
)

// FetchFunc performs one fetch attempt.
type FetchFunc func(ctx context.Context) (*devdocs.RawContent, error)

// RetryFunc is called before each retry with the attempt number about to
// run and the error of the previous one.
type RetryFunc func(attempt int, err error)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetryDelays runs fetch until it succeeds, fails with an error
// that is not retryable, or the delays are exhausted. One attempt is made
// per delay plus the initial one.
func FetchWithRetryDelays(ctx context.Context, fetch FetchFunc, delays []time.Duration, onRetry RetryFunc) (*devdocs.RawContent, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		raw, err := fetch(ctx)
		if err == nil {
			return raw, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 || !retryable(err) {
			break
		}

		if onRetry != nil {
			onRetry(attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return nil, lastErr
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}

func retryable(err error) bool {
	var fe *devdocs.FetchError
	return errors.As(err, &fe) && fe.Retryable()
}
