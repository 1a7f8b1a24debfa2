// Package slog provides logging decorators for the devdocs interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/devdocs"
)

var _ devdocs.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with logging. Failures are
// logged as warnings since scrapers fall back to link discovery.
type LoggingSitemapService struct {
	next   devdocs.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next devdocs.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service and logs the operation.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string) (urls []string, err error) {
	defer func(begin time.Time) {
		if err != nil {
			s.logger.Warn("sitemap unavailable", "base", baseURL, "duration", time.Since(begin), "err", err)
			return
		}
		s.logger.Info("sitemap read", "base", baseURL, "urls", len(urls), "duration", time.Since(begin))
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL)
}
