package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/devdocs"
)

// Ensure LoggingStore implements devdocs.Store.
var _ devdocs.Store = (*LoggingStore)(nil)

// LoggingStore wraps a Store with debug logging.
type LoggingStore struct {
	next   devdocs.Store
	logger *slog.Logger
}

// NewLoggingStore creates a new LoggingStore.
func NewLoggingStore(next devdocs.Store, logger *slog.Logger) *LoggingStore {
	return &LoggingStore{next: next, logger: logger}
}

// Put delegates to the wrapped store and logs the operation.
func (s *LoggingStore) Put(ctx context.Context, page *devdocs.ScrapedPage) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("store page",
			"path", page.Path,
			"bytes", len(page.Content),
			"entries", len(page.Entries),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Put(ctx, page)
}
