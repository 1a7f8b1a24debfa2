package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/devdocs"
)

// Ensure LoggingFilter implements devdocs.Filter.
var _ devdocs.Filter = (*LoggingFilter)(nil)

// LoggingFilter wraps a Filter with debug logging.
type LoggingFilter struct {
	name   string
	next   devdocs.Filter
	logger *slog.Logger
}

// NewLoggingFilter creates a new LoggingFilter for the filter registered
// under name.
func NewLoggingFilter(name string, next devdocs.Filter, logger *slog.Logger) *LoggingFilter {
	return &LoggingFilter{name: name, next: next, logger: logger}
}

// Apply delegates to the wrapped filter and logs the operation.
func (f *LoggingFilter) Apply(pc *devdocs.PageContext, content string) (out string, err error) {
	defer func(begin time.Time) {
		f.logger.Debug("filter",
			"filter", f.name,
			"path", devdocs.PagePath(pc.Path),
			"in", len(content),
			"out", len(out),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Apply(pc, content)
}

// LogPipeline returns a copy of p whose filters log each application.
func LogPipeline(p *devdocs.Pipeline, logger *slog.Logger) *devdocs.Pipeline {
	filters := p.Filters()
	for i, f := range filters {
		filters[i].Filter = NewLoggingFilter(f.Name, f.Filter, logger)
	}
	return devdocs.NewPipeline(p.Name(), filters...)
}
