package devdocs

import "context"

// RawContent is the decoded text of one fetched path.
type RawContent struct {
	// URL is the location the content was finally read from, after any
	// redirects. Filesystem sources report a file:// URL.
	URL         string
	Path        string
	ContentType string
	Body        string
}

// ContentSource fetches the content for a logical path under a base URL.
// The path is decoded; sources escape it when they build a URL. Failures
// are reported as *FetchError.
type ContentSource interface {
	Fetch(ctx context.Context, path, baseURL string) (*RawContent, error)
}

// PathLister enumerates every logical path a source can serve.
type PathLister interface {
	ListPaths(ctx context.Context) ([]string, error)
}

// SitemapService discovers URLs from website sitemaps.
type SitemapService interface {
	// DiscoverURLs finds all URLs from a site's sitemap.
	// It first checks robots.txt for sitemap directives, then falls back
	// to /sitemap.xml. Sitemap indexes are resolved recursively.
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
