package slog_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/devdocs"
	"github.com/fwojciec/devdocs/mock"
	devslog "github.com/fwojciec/devdocs/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingStore_Put(t *testing.T) {
	t.Parallel()

	t.Run("logs stored page", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		var got *devdocs.ScrapedPage
		inner := &mock.Store{PutFn: func(ctx context.Context, page *devdocs.ScrapedPage) error {
			got = page
			return nil
		}}
		page := &devdocs.ScrapedPage{Path: "guide", Content: "abc", Entries: []devdocs.Entry{{Name: "Guide", Path: "guide"}}}

		err := devslog.NewLoggingStore(inner, newLogger(&buf)).Put(context.Background(), page)

		require.NoError(t, err)
		assert.Same(t, page, got)
		output := buf.String()
		assert.Contains(t, output, `msg="store page"`)
		assert.Contains(t, output, "path=guide")
		assert.Contains(t, output, "bytes=3")
		assert.Contains(t, output, "entries=1")
	})

	t.Run("returns and logs store errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Store{PutFn: func(ctx context.Context, page *devdocs.ScrapedPage) error {
			return errors.New("disk full")
		}}

		err := devslog.NewLoggingStore(inner, newLogger(&buf)).Put(context.Background(), &devdocs.ScrapedPage{Path: "a"})

		require.EqualError(t, err, "disk full")
		assert.Contains(t, buf.String(), `err="disk full"`)
	})
}
