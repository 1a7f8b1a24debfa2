package crawl

import (
	"context"
	"iter"
	"strings"

	"github.com/fwojciec/devdocs"
)

var (
	_ devdocs.EntriesResolver = (*CrawlResolver)(nil)
	_ devdocs.EntriesResolver = (*EnumeratedResolver)(nil)
)

// CrawlResolver discovers a document by following links found on fetched
// pages. Seeds are the initial paths of the primary base URL and the root
// of every other base, optionally followed by in-scope sitemap URLs.
type CrawlResolver struct {
	Scope        *devdocs.Scope
	InitialPaths []string
	Extractor    devdocs.EntriesExtractor

	// Sitemaps, when set, adds sitemap URLs to the seeds. Sitemap failures
	// are ignored; link discovery still covers the site.
	Sitemaps devdocs.SitemapService
}

// Seed returns the admitted seed entries in declaration order.
func (r *CrawlResolver) Seed(ctx context.Context) ([]devdocs.FrontierEntry, error) {
	initial := r.InitialPaths
	if len(initial) == 0 {
		initial = []string{""}
	}

	var seeds []devdocs.FrontierEntry
	for i, base := range r.Scope.Bases() {
		paths := []string{""}
		if i == 0 {
			paths = initial
		}
		for _, p := range paths {
			if e, ok := r.Scope.Candidate(base+strings.TrimPrefix(p, "/"), ""); ok {
				seeds = append(seeds, e)
			}
		}
	}

	if r.Sitemaps == nil {
		return seeds, nil
	}
	for _, base := range r.Scope.Bases() {
		urls, err := r.Sitemaps.DiscoverURLs(ctx, base)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		for _, u := range urls {
			if e, ok := r.Scope.Candidate(u, ""); ok {
				seeds = append(seeds, e)
			}
		}
	}
	return seeds, nil
}

// Discover returns the candidates linked from the page's raw content.
func (r *CrawlResolver) Discover(pc *devdocs.PageContext) iter.Seq[devdocs.FrontierEntry] {
	if r.Extractor == nil {
		return none
	}
	return r.Extractor.Extract(pc, pc.Raw)
}

// EnumeratedResolver seeds the frontier with every path a lister knows
// about. Fetched pages never add entries.
type EnumeratedResolver struct {
	Scope  *devdocs.Scope
	Lister devdocs.PathLister
}

// Seed lists all paths under the primary base and admits them.
func (r *EnumeratedResolver) Seed(ctx context.Context) ([]devdocs.FrontierEntry, error) {
	paths, err := r.Lister.ListPaths(ctx)
	if err != nil {
		return nil, err
	}

	base := r.Scope.Primary()
	seeds := make([]devdocs.FrontierEntry, 0, len(paths))
	for _, p := range paths {
		if e, ok := r.Scope.Admit(devdocs.FrontierEntry{Path: p, BaseURL: base}); ok {
			seeds = append(seeds, e)
		}
	}
	return seeds, nil
}

// Discover yields nothing.
func (r *EnumeratedResolver) Discover(*devdocs.PageContext) iter.Seq[devdocs.FrontierEntry] {
	return none
}

func none(func(devdocs.FrontierEntry) bool) {}
