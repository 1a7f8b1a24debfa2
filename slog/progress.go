package slog

import (
	"log/slog"

	"github.com/fwojciec/devdocs"
)

// LoggingProgress returns a ProgressFunc that logs scraper events. Page
// failures are warnings; stored and skipped pages are debug lines.
func LoggingProgress(logger *slog.Logger) devdocs.ProgressFunc {
	return func(e devdocs.ProgressEvent) {
		switch e.Type {
		case devdocs.ProgressStarted:
			logger.Info("scrape started", "doc", e.Doc)
		case devdocs.ProgressSeeded:
			logger.Debug("frontier seeded", "doc", e.Doc, "queued", e.Queued)
		case devdocs.ProgressStored:
			logger.Debug("page stored", "doc", e.Doc, "path", e.Path, "queued", e.Queued, "stored", e.Stored)
		case devdocs.ProgressSkipped:
			logger.Debug("page skipped", "doc", e.Doc, "path", e.Path, "url", e.URL, "err", e.Error)
		case devdocs.ProgressFailed:
			logger.Warn("page failed", "doc", e.Doc, "path", e.Path, "url", e.URL, "err", e.Error)
		case devdocs.ProgressFinished:
			if e.Error != nil {
				logger.Error("scrape aborted", "doc", e.Doc, "stored", e.Stored, "err", e.Error)
				return
			}
			logger.Info("scrape finished", "doc", e.Doc, "stored", e.Stored)
		}
	}
}
