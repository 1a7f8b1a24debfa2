package crawl

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/devdocs"
)

// runner is the single-owner crawl loop shared by URLScraper and
// FileScraper. It alone touches the frontier: every page is popped,
// fetched, mined for entries, filtered and stored before the next pop.
type runner struct {
	spec        *devdocs.DocumentSpec
	source      devdocs.ContentSource
	resolver    devdocs.EntriesResolver
	pipeline    *devdocs.Pipeline
	limiter     devdocs.DomainLimiter
	timeout     time.Duration
	retryDelays []time.Duration
	onRetry     RetryFunc

	frontier *Frontier
	queued   int
}

// run executes Seeding, then Draining until the frontier is empty.
func (r *runner) run(ctx context.Context, store devdocs.Store, progress devdocs.ProgressFunc) (*devdocs.RunResult, error) {
	start := time.Now()
	if progress == nil {
		progress = func(devdocs.ProgressEvent) {}
	}

	doc := "unknown"
	if r.spec != nil {
		doc = r.spec.DisplayName()
	}
	if err := r.validate(); err != nil {
		return nil, &devdocs.RunError{Kind: devdocs.RunInvalidSpec, Doc: doc, Err: err}
	}
	if store == nil {
		return nil, &devdocs.RunError{Kind: devdocs.RunStoreUnavailable, Doc: doc, Err: devdocs.Errorf(devdocs.EINVALID, "no store")}
	}
	if r.pipeline == nil {
		r.pipeline = devdocs.NewPipeline(r.spec.Slug)
	}

	result := &devdocs.RunResult{Doc: r.spec.Name, Version: r.spec.Version}
	finish := func(err error) (*devdocs.RunResult, error) {
		result.Duration = time.Since(start)
		progress(devdocs.ProgressEvent{Type: devdocs.ProgressFinished, Doc: doc, Stored: result.Stored, Error: err})
		return result, err
	}
	canceled := func(err error) (*devdocs.RunResult, error) {
		return finish(&devdocs.RunError{Kind: devdocs.RunCanceled, Doc: doc, Err: err})
	}

	progress(devdocs.ProgressEvent{Type: devdocs.ProgressStarted, Doc: doc})

	r.frontier = NewFrontier(1024)
	seeds, err := r.resolver.Seed(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return canceled(ctx.Err())
		}
		return finish(&devdocs.RunError{Kind: devdocs.RunInvalidSpec, Doc: doc, Err: err})
	}
	for _, e := range seeds {
		r.enqueue(e)
	}
	progress(devdocs.ProgressEvent{Type: devdocs.ProgressSeeded, Doc: doc, Queued: r.frontier.Len()})

	for {
		if err := ctx.Err(); err != nil {
			return canceled(err)
		}
		e, ok := r.frontier.Pop()
		if !ok {
			break
		}
		if err := r.process(ctx, e, store, result, doc, progress); err != nil {
			if ctx.Err() != nil {
				return canceled(ctx.Err())
			}
			return finish(err)
		}
	}

	return finish(nil)
}

func (r *runner) validate() error {
	if r.spec == nil {
		return devdocs.Errorf(devdocs.EINVALID, "no document spec")
	}
	if err := r.spec.Validate(); err != nil {
		return err
	}
	if r.spec.Scope == nil {
		return devdocs.Errorf(devdocs.EINVALID, "%s: spec has no scope", r.spec.Name)
	}
	if r.source == nil {
		return devdocs.Errorf(devdocs.EINVALID, "%s: no content source", r.spec.Name)
	}
	return nil
}

// enqueue pushes an admitted entry unless it was seen before or the
// document's page budget is spent.
func (r *runner) enqueue(e devdocs.FrontierEntry) {
	if r.spec.MaxPages > 0 && r.queued >= r.spec.MaxPages {
		return
	}
	if r.frontier.Push(e) {
		r.queued++
	}
}

// process handles one popped entry. Page-level failures are recorded in
// result; only run-level failures are returned.
func (r *runner) process(ctx context.Context, e devdocs.FrontierEntry, store devdocs.Store, result *devdocs.RunResult, doc string, progress devdocs.ProgressFunc) error {
	scope := r.spec.Scope
	url := scope.URL(e)

	raw, err := r.fetch(ctx, e)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var fe *devdocs.FetchError
		if errors.As(err, &fe) && fe.Kind == devdocs.FetchUnsupported {
			result.Skipped++
			progress(devdocs.ProgressEvent{Type: devdocs.ProgressSkipped, Doc: doc, Path: devdocs.PagePath(e.Path), URL: url, Error: err})
			return nil
		}
		r.fail(result, e, url, "fetch", err, doc, progress)
		return nil
	}

	if raw.URL != "" {
		moved, ok := r.redirected(e, raw.URL)
		if !ok {
			result.Skipped++
			progress(devdocs.ProgressEvent{Type: devdocs.ProgressSkipped, Doc: doc, Path: devdocs.PagePath(e.Path), URL: raw.URL})
			return nil
		}
		if moved.Key() != e.Key() {
			if !r.frontier.Mark(moved.Key()) {
				result.Skipped++
				progress(devdocs.ProgressEvent{Type: devdocs.ProgressSkipped, Doc: doc, Path: devdocs.PagePath(e.Path), URL: raw.URL})
				return nil
			}
			r.queued++
			result.Redirected++
			e = moved
		}
	}

	pc := devdocs.NewPageContext(scope, e, raw.Body)
	if raw.URL != "" {
		pc.URL = raw.URL
	}

	for c := range r.resolver.Discover(pc) {
		r.enqueue(c)
	}

	page, err := r.pipeline.Run(pc)
	if err != nil {
		r.fail(result, e, pc.URL, "filter", err, doc, progress)
		return nil
	}
	page.Hash = ComputeHash(page.Content)

	if err := store.Put(ctx, page); err != nil {
		return &devdocs.RunError{Kind: devdocs.RunStoreUnavailable, Doc: doc, Err: err}
	}
	result.Stored++
	result.Bytes += len(page.Content)
	progress(devdocs.ProgressEvent{
		Type:   devdocs.ProgressStored,
		Doc:    doc,
		Path:   page.Path,
		URL:    page.URL,
		Queued: r.frontier.Len(),
		Stored: result.Stored,
	})
	return nil
}

// redirected returns the entry the final URL of e maps to. It reports false
// when the URL lies outside every base or on a skipped path, in which case
// the content must not be stored.
func (r *runner) redirected(e devdocs.FrontierEntry, finalURL string) (devdocs.FrontierEntry, bool) {
	scope := r.spec.Scope
	moved, ok := scope.URLToPath(finalURL)
	if !ok {
		return devdocs.FrontierEntry{}, false
	}
	if moved.Key() == e.Key() {
		return e, true
	}
	if moved, ok = scope.Admit(moved); !ok {
		return devdocs.FrontierEntry{}, false
	}
	if moved.Key() == e.Key() {
		return e, true
	}
	moved.Referrer = e.Referrer
	return moved, true
}

func (r *runner) fetch(ctx context.Context, e devdocs.FrontierEntry) (*devdocs.RawContent, error) {
	fetchPath := r.spec.Scope.FetchPath(e.Path)
	delays := r.retryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	return FetchWithRetryDelays(ctx, func(ctx context.Context) (*devdocs.RawContent, error) {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx, hostOf(e.BaseURL)); err != nil {
				return nil, err
			}
		}
		if r.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}
		return r.source.Fetch(ctx, fetchPath, e.BaseURL)
	}, delays, r.onRetry)
}

func (r *runner) fail(result *devdocs.RunResult, e devdocs.FrontierEntry, url, stage string, err error, doc string, progress devdocs.ProgressFunc) {
	result.Failures = append(result.Failures, devdocs.PageFailure{
		Path:     devdocs.PagePath(e.Path),
		URL:      url,
		Referrer: e.Referrer,
		Stage:    stage,
		Err:      err,
	})
	progress(devdocs.ProgressEvent{Type: devdocs.ProgressFailed, Doc: doc, Path: devdocs.PagePath(e.Path), URL: url, Error: err})
}
