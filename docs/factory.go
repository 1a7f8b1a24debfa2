package docs

import (
	"context"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/fwojciec/devdocs"
	"github.com/fwojciec/devdocs/crawl"
	devdocsfs "github.com/fwojciec/devdocs/fs"
	"github.com/fwojciec/devdocs/goquery"
	devdocshttp "github.com/fwojciec/devdocs/http"
)

// Factory builds scrapers for a registry of document types.
type Factory struct {
	types []devdocs.DocType

	http        *devdocshttp.Source
	limiter     devdocs.DomainLimiter
	timeout     time.Duration
	maxPages    int
	retryDelays []time.Duration
	onRetry     crawl.RetryFunc
	wrap        func(devdocs.ContentSource) devdocs.ContentSource
	wrapFilters func(*devdocs.Pipeline) *devdocs.Pipeline
}

// Option configures a Factory.
type Option func(*Factory)

// WithHTTPSource sets the network source shared by every URL scraper.
func WithHTTPSource(s *devdocshttp.Source) Option {
	return func(f *Factory) {
		f.http = s
	}
}

// WithRateLimiter sets the per-host limiter shared by every URL scraper.
func WithRateLimiter(l devdocs.DomainLimiter) Option {
	return func(f *Factory) {
		f.limiter = l
	}
}

// WithTimeout bounds each fetch attempt.
func WithTimeout(d time.Duration) Option {
	return func(f *Factory) {
		f.timeout = d
	}
}

// WithMaxPages caps the pages of every document, overriding the type.
// Zero keeps the type's own limit.
func WithMaxPages(n int) Option {
	return func(f *Factory) {
		f.maxPages = n
	}
}

// WithRetryDelays sets the backoff of retryable fetch failures.
func WithRetryDelays(delays []time.Duration) Option {
	return func(f *Factory) {
		f.retryDelays = delays
	}
}

// WithOnRetry sets a callback invoked before each retry.
func WithOnRetry(fn crawl.RetryFunc) Option {
	return func(f *Factory) {
		f.onRetry = fn
	}
}

// WithSourceWrapper decorates every content source the factory builds.
// A wrapped file source keeps its path listing only if the wrapper
// implements devdocs.PathLister.
func WithSourceWrapper(wrap func(devdocs.ContentSource) devdocs.ContentSource) Option {
	return func(f *Factory) {
		f.wrap = wrap
	}
}

// WithPipelineWrapper decorates every pipeline the factory builds.
func WithPipelineWrapper(wrap func(*devdocs.Pipeline) *devdocs.Pipeline) Option {
	return func(f *Factory) {
		f.wrapFilters = wrap
	}
}

// NewFactory creates a Factory for types. When two types share an id the
// later one wins.
func NewFactory(types []devdocs.DocType, opts ...Option) *Factory {
	f := &Factory{}
	for _, t := range types {
		i := slices.IndexFunc(f.types, func(u devdocs.DocType) bool { return u.ID() == t.ID() })
		if i >= 0 {
			f.types[i] = t
			continue
		}
		f.types = append(f.types, t)
	}
	slices.SortFunc(f.types, func(a, b devdocs.DocType) int {
		return strings.Compare(a.ID(), b.ID())
	})

	for _, opt := range opts {
		opt(f)
	}
	if f.http == nil {
		f.http = devdocshttp.NewSource()
	}
	return f
}

// AvailableScrapers yields the id of every registered type in sorted
// order. The sequence can be ranged over any number of times.
func (f *Factory) AvailableScrapers() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, t := range f.types {
			if !yield(t.ID()) {
				return
			}
		}
	}
}

// Types returns the registered types sorted by id.
func (f *Factory) Types() []devdocs.DocType {
	return slices.Clone(f.types)
}

// Type returns the type registered under id.
func (f *Factory) Type(id string) (devdocs.DocType, bool) {
	for _, t := range f.types {
		if t.ID() == id {
			return t, true
		}
	}
	return devdocs.DocType{}, false
}

// Spec compiles the type registered under typeID for version.
func (f *Factory) Spec(typeID, version string) (*devdocs.DocumentSpec, error) {
	t, ok := f.Type(typeID)
	if !ok {
		return nil, devdocs.Errorf(devdocs.ENOTFOUND, "unknown doc type %q", typeID)
	}
	if f.maxPages > 0 {
		t.MaxPages = f.maxPages
	}
	return t.Spec(version)
}

// Create returns a scraper for typeID at version. It returns false when
// no scraper can be built, which includes an unknown type or version.
func (f *Factory) Create(typeID, version string) (devdocs.Scraper, bool) {
	s, err := f.Build(typeID, version)
	if err != nil {
		return nil, false
	}
	return s, true
}

// Build is Create with the reason a scraper could not be built.
func (f *Factory) Build(typeID, version string) (devdocs.Scraper, error) {
	spec, err := f.Spec(typeID, version)
	if err != nil {
		return nil, err
	}
	pipeline, err := f.pipeline(spec)
	if err != nil {
		return nil, err
	}

	switch spec.Kind {
	case devdocs.KindFile:
		var source crawl.FileSource = devdocsfs.NewSource(spec.Root, spec.Extensions...)
		if f.wrap != nil {
			if wrapped, ok := f.wrap(source).(crawl.FileSource); ok {
				source = wrapped
			}
		}
		return &crawl.FileScraper{Doc: spec, Source: source, Pipeline: pipeline}, nil
	default:
		return &crawl.URLScraper{
			Doc:         spec,
			Source:      f.source(spec),
			Extractor:   goquery.NewExtractor(goquery.DefaultLinkSelector),
			Pipeline:    pipeline,
			Sitemaps:    f.http.Sitemaps(),
			RateLimiter: f.limiter,
			Timeout:     f.timeout,
			RetryDelays: f.retryDelays,
			OnRetry:     f.onRetry,
		}, nil
	}
}

// Page fetches and filters a single page of a document without crawling.
// path is a decoded page path relative to the primary base URL.
func (f *Factory) Page(ctx context.Context, typeID, version, path string) (*devdocs.ScrapedPage, error) {
	spec, err := f.Spec(typeID, version)
	if err != nil {
		return nil, err
	}
	pipeline, err := f.pipeline(spec)
	if err != nil {
		return nil, err
	}

	scope := spec.Scope
	e, ok := scope.Candidate(scope.Primary()+devdocs.EscapePath(strings.TrimPrefix(path, "/")), "")
	if !ok {
		return nil, devdocs.Errorf(devdocs.EINVALID, "%s: path %q is out of scope", spec.DisplayName(), path)
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}
	raw, err := f.source(spec).Fetch(ctx, scope.FetchPath(e.Path), e.BaseURL)
	if err != nil {
		return nil, err
	}

	pc := devdocs.NewPageContext(scope, e, raw.Body)
	if raw.URL != "" {
		pc.URL = raw.URL
	}
	page, err := pipeline.Run(pc)
	if err != nil {
		return nil, err
	}
	page.Hash = crawl.ComputeHash(page.Content)
	return page, nil
}

func (f *Factory) pipeline(spec *devdocs.DocumentSpec) (*devdocs.Pipeline, error) {
	p, err := NewPipeline(spec)
	if err != nil {
		return nil, err
	}
	if f.wrapFilters != nil {
		p = f.wrapFilters(p)
	}
	return p, nil
}

// source returns the content source of spec.
func (f *Factory) source(spec *devdocs.DocumentSpec) devdocs.ContentSource {
	var s devdocs.ContentSource = f.http
	if spec.Kind == devdocs.KindFile {
		s = devdocsfs.NewSource(spec.Root, spec.Extensions...)
	}
	if f.wrap != nil {
		s = f.wrap(s)
	}
	return s
}
