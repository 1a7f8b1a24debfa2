package mock

import (
	"context"

	"github.com/fwojciec/devdocs"
)

var (
	_ devdocs.ContentSource  = (*ContentSource)(nil)
	_ devdocs.PathLister     = (*FileSource)(nil)
	_ devdocs.SitemapService = (*SitemapService)(nil)
	_ devdocs.DomainLimiter  = (*DomainLimiter)(nil)
)

// ContentSource is a mock implementation of devdocs.ContentSource.
type ContentSource struct {
	FetchFn func(ctx context.Context, path, baseURL string) (*devdocs.RawContent, error)
}

func (s *ContentSource) Fetch(ctx context.Context, path, baseURL string) (*devdocs.RawContent, error) {
	return s.FetchFn(ctx, path, baseURL)
}

// FileSource is a mock of a source that can also enumerate its paths.
type FileSource struct {
	FetchFn     func(ctx context.Context, path, baseURL string) (*devdocs.RawContent, error)
	ListPathsFn func(ctx context.Context) ([]string, error)
}

func (s *FileSource) Fetch(ctx context.Context, path, baseURL string) (*devdocs.RawContent, error) {
	return s.FetchFn(ctx, path, baseURL)
}

func (s *FileSource) ListPaths(ctx context.Context) ([]string, error) {
	return s.ListPathsFn(ctx)
}

// SitemapService is a mock implementation of devdocs.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL)
}

// DomainLimiter is a mock implementation of devdocs.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
