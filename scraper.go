package devdocs

import (
	"context"
	"iter"
	"time"
)

// Store receives scraped pages. The scraper never reads back from it.
type Store interface {
	Put(ctx context.Context, page *ScrapedPage) error
}

// EntriesExtractor finds candidate paths linked from one page.
// The returned sequence is single-use.
type EntriesExtractor interface {
	Extract(pc *PageContext, content string) iter.Seq[FrontierEntry]
}

// EntriesResolver decides which paths belong to a document.
type EntriesResolver interface {
	// Seed returns the entries the frontier starts with.
	Seed(ctx context.Context) ([]FrontierEntry, error)

	// Discover returns the entries found on a fetched page.
	Discover(pc *PageContext) iter.Seq[FrontierEntry]
}

// Scraper produces the scraped corpus of one document version.
type Scraper interface {
	// Spec returns the document the scraper was built for.
	Spec() *DocumentSpec

	// Run scrapes the document into store. Page-level failures are
	// collected in the result; a non-nil error is always a *RunError.
	// On cancellation the partial result is returned with the error.
	Run(ctx context.Context, store Store, progress ProgressFunc) (*RunResult, error)
}

// PageFailure records a page that could not be stored.
type PageFailure struct {
	Path     string
	URL      string
	Referrer string
	Stage    string // "fetch" or "filter"
	Err      error
}

// RunResult summarizes a scraper run.
type RunResult struct {
	Doc        string
	Version    string
	Stored     int
	Skipped    int
	Redirected int
	Bytes      int
	Failures   []PageFailure
	Duration   time.Duration
}

// Failed returns the number of page-level failures.
func (r *RunResult) Failed() int {
	return len(r.Failures)
}

// ProgressType identifies the kind of progress event.
type ProgressType int

// Progress event types.
const (
	ProgressStarted ProgressType = iota
	ProgressSeeded
	ProgressStored
	ProgressFailed
	ProgressSkipped
	ProgressFinished
)

// ProgressEvent reports scraper progress.
type ProgressEvent struct {
	Type   ProgressType
	Doc    string
	Path   string
	URL    string
	Queued int
	Stored int
	Error  error
}

// ProgressFunc is called as pages are processed.
type ProgressFunc func(ProgressEvent)
