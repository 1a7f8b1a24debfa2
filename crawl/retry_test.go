package crawl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/devdocs"
	"github.com/fwojciec/devdocs/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWithRetryDelays(t *testing.T) {
	t.Parallel()

	noDelay := []time.Duration{0, 0, 0}

	t.Run("retries retryable failures until success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		var retried []int
		raw, err := crawl.FetchWithRetryDelays(context.Background(), func(context.Context) (*devdocs.RawContent, error) {
			calls++
			if calls < 3 {
				return nil, &devdocs.FetchError{Kind: devdocs.FetchHTTP, Status: 503}
			}
			return &devdocs.RawContent{Body: "ok"}, nil
		}, noDelay, func(attempt int, _ error) { retried = append(retried, attempt) })

		require.NoError(t, err)
		assert.Equal(t, "ok", raw.Body)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []int{2, 3}, retried)
	})

	t.Run("does not retry permanent failures", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, err := crawl.FetchWithRetryDelays(context.Background(), func(context.Context) (*devdocs.RawContent, error) {
			calls++
			return nil, &devdocs.FetchError{Kind: devdocs.FetchHTTP, Status: 404}
		}, noDelay, nil)

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("returns the last error after exhausting delays", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, err := crawl.FetchWithRetryDelays(context.Background(), func(context.Context) (*devdocs.RawContent, error) {
			calls++
			return nil, &devdocs.FetchError{Kind: devdocs.FetchTimeout}
		}, noDelay, nil)

		var fe *devdocs.FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, devdocs.FetchTimeout, fe.Kind)
		assert.Equal(t, 4, calls)
	})

	t.Run("stops waiting when the context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		_, err := crawl.FetchWithRetryDelays(ctx, func(context.Context) (*devdocs.RawContent, error) {
			calls++
			cancel()
			return nil, &devdocs.FetchError{Kind: devdocs.FetchTimeout}
		}, []time.Duration{time.Hour}, nil)

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("treats unclassified errors as permanent", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, err := crawl.FetchWithRetryDelays(context.Background(), func(context.Context) (*devdocs.RawContent, error) {
			calls++
			return nil, errors.New("boom")
		}, noDelay, nil)

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}
