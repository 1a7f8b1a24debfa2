package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/devdocs"
)

var (
	_ devdocs.ContentSource = (*LoggingSource)(nil)
	_ devdocs.PathLister    = (*LoggingSource)(nil)
)

// LoggingSource wraps a ContentSource with debug logging. It also lists
// paths when the wrapped source can.
type LoggingSource struct {
	next   devdocs.ContentSource
	logger *slog.Logger
}

// NewLoggingSource creates a new LoggingSource.
func NewLoggingSource(next devdocs.ContentSource, logger *slog.Logger) *LoggingSource {
	return &LoggingSource{next: next, logger: logger}
}

// Fetch delegates to the wrapped source and logs the operation.
func (s *LoggingSource) Fetch(ctx context.Context, path, baseURL string) (raw *devdocs.RawContent, err error) {
	defer func(begin time.Time) {
		size := 0
		if raw != nil {
			size = len(raw.Body)
		}
		s.logger.Debug("fetch",
			"url", baseURL+devdocs.EscapePath(path),
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Fetch(ctx, path, baseURL)
}

// ListPaths delegates to the wrapped source. It returns EINVALID when the
// wrapped source cannot enumerate paths.
func (s *LoggingSource) ListPaths(ctx context.Context) (paths []string, err error) {
	lister, ok := s.next.(devdocs.PathLister)
	if !ok {
		return nil, devdocs.Errorf(devdocs.EINVALID, "source cannot list paths")
	}
	defer func(begin time.Time) {
		s.logger.Debug("list paths",
			"count", len(paths),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return lister.ListPaths(ctx)
}
