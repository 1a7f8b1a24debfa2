package mock

import (
	"iter"

	"github.com/fwojciec/devdocs"
)

var (
	_ devdocs.EntriesExtractor = (*EntriesExtractor)(nil)
	_ devdocs.Filter           = (*Filter)(nil)
)

// EntriesExtractor is a mock implementation of devdocs.EntriesExtractor.
type EntriesExtractor struct {
	ExtractFn func(pc *devdocs.PageContext, content string) iter.Seq[devdocs.FrontierEntry]
}

func (e *EntriesExtractor) Extract(pc *devdocs.PageContext, content string) iter.Seq[devdocs.FrontierEntry] {
	return e.ExtractFn(pc, content)
}

// Filter is a mock implementation of devdocs.Filter.
type Filter struct {
	ApplyFn func(pc *devdocs.PageContext, content string) (string, error)
}

func (f *Filter) Apply(pc *devdocs.PageContext, content string) (string, error) {
	return f.ApplyFn(pc, content)
}
