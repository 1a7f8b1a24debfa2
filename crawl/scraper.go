// Package crawl runs document scrapes: it owns the frontier, fetch retries,
// per-host rate limiting and the crawl loop shared by the URL and file
// scrapers.
package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/devdocs"
)

// Compile-time interface verification.
var (
	_ devdocs.Scraper = (*URLScraper)(nil)
	_ devdocs.Scraper = (*FileScraper)(nil)
)

// URLScraper crawls a document over the network breadth-first, starting
// from its initial paths and following in-scope links.
type URLScraper struct {
	Doc       *devdocs.DocumentSpec
	Source    devdocs.ContentSource
	Extractor devdocs.EntriesExtractor
	Pipeline  *devdocs.Pipeline

	// Sitemaps is consulted during seeding when the document enables it.
	Sitemaps devdocs.SitemapService

	// RateLimiter, when set, is waited on before every request.
	RateLimiter devdocs.DomainLimiter

	// Timeout bounds each fetch attempt. Zero leaves it to the source.
	Timeout time.Duration

	// RetryDelays are the backoff delays for retryable fetch failures.
	// Nil uses DefaultRetryDelays; an empty slice disables retries.
	RetryDelays []time.Duration

	// OnRetry is called before each retry.
	OnRetry RetryFunc
}

// Spec returns the document the scraper was built for.
func (s *URLScraper) Spec() *devdocs.DocumentSpec { return s.Doc }

// Run crawls the document into store.
func (s *URLScraper) Run(ctx context.Context, store devdocs.Store, progress devdocs.ProgressFunc) (*devdocs.RunResult, error) {
	resolver := &CrawlResolver{Extractor: s.Extractor}
	if s.Doc != nil {
		resolver.Scope = s.Doc.Scope
		resolver.InitialPaths = s.Doc.InitialPaths
		if s.Doc.Sitemap {
			resolver.Sitemaps = s.Sitemaps
		}
	}

	r := &runner{
		spec:        s.Doc,
		source:      s.Source,
		resolver:    resolver,
		pipeline:    s.Pipeline,
		limiter:     s.RateLimiter,
		timeout:     s.Timeout,
		retryDelays: s.RetryDelays,
		onRetry:     s.OnRetry,
	}
	return r.run(ctx, store, progress)
}

// FileSource serves and enumerates a local documentation tree.
type FileSource interface {
	devdocs.ContentSource
	devdocs.PathLister
}

// FileScraper processes every document file of a local tree once.
type FileScraper struct {
	Doc      *devdocs.DocumentSpec
	Source   FileSource
	Pipeline *devdocs.Pipeline
}

// Spec returns the document the scraper was built for.
func (s *FileScraper) Spec() *devdocs.DocumentSpec { return s.Doc }

// Run reads the tree into store.
func (s *FileScraper) Run(ctx context.Context, store devdocs.Store, progress devdocs.ProgressFunc) (*devdocs.RunResult, error) {
	resolver := &EnumeratedResolver{Lister: s.Source}
	if s.Doc != nil {
		resolver.Scope = s.Doc.Scope
	}

	r := &runner{
		spec:        s.Doc,
		resolver:    resolver,
		pipeline:    s.Pipeline,
		retryDelays: []time.Duration{},
	}
	if s.Source != nil {
		r.source = s.Source
	}
	return r.run(ctx, store, progress)
}
