package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/devdocs"
	"github.com/fwojciec/devdocs/crawl"
	"github.com/fwojciec/devdocs/docs"
	devdocsfs "github.com/fwojciec/devdocs/fs"
	devdocshttp "github.com/fwojciec/devdocs/http"
	devslog "github.com/fwojciec/devdocs/slog"
	"github.com/fwojciec/devdocs/sqlite"
)

// factoryConfig holds the flags that shape how scrapers fetch.
type factoryConfig struct {
	timeout  time.Duration
	rate     float64
	maxPages int
	robots   bool
}

// newFactory builds a scraper factory over the registry in deps.
func newFactory(deps *Dependencies, cfg factoryConfig) *docs.Factory {
	logger := deps.Logger
	source := devdocshttp.NewSource(
		devdocshttp.WithTimeout(cfg.timeout),
		devdocshttp.WithRobots(cfg.robots),
	)
	opts := []docs.Option{
		docs.WithHTTPSource(source),
		docs.WithRateLimiter(crawl.NewDomainLimiter(cfg.rate)),
		docs.WithTimeout(cfg.timeout),
		docs.WithMaxPages(cfg.maxPages),
		docs.WithOnRetry(func(attempt int, err error) {
			logger.Warn("retrying fetch", "attempt", attempt, "err", err)
		}),
	}
	if deps.Verbose {
		opts = append(opts,
			docs.WithSourceWrapper(func(s devdocs.ContentSource) devdocs.ContentSource {
				return devslog.NewLoggingSource(s, logger)
			}),
			docs.WithPipelineWrapper(func(p *devdocs.Pipeline) *devdocs.Pipeline {
				return devslog.LogPipeline(p, logger)
			}),
		)
	}
	return docs.NewFactory(deps.Types, opts...)
}

// parseTarget splits "type@version".
func parseTarget(s string) (id, version string) {
	id, version, _ = strings.Cut(s, "@")
	return strings.ToLower(id), version
}

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	logger := deps.Logger
	factory := newFactory(deps, factoryConfig{
		timeout:  c.Timeout,
		rate:     c.Rate,
		maxPages: c.MaxPages,
		robots:   c.Robots,
	})

	var db *sqlite.DB
	if c.Store == "sqlite" {
		var err error
		if db, err = openDB(deps, c.DB); err != nil {
			return err
		}
		defer db.Close()
	}

	var (
		jobs   []crawl.Job
		files  []*devdocsfs.FileStore
		failed int
	)
	for _, target := range c.Targets {
		id, version := parseTarget(target)
		s, ok := factory.Create(id, version)
		if !ok {
			_, err := factory.Build(id, version)
			logger.Error("cannot scrape", "target", target, "err", err)
			failed++
			continue
		}
		if us, ok := s.(*crawl.URLScraper); ok && us.Doc.Sitemap {
			us.Sitemaps = devslog.NewLoggingSitemapService(us.Sitemaps, logger)
		}

		var store devdocs.Store
		var fileStore *devdocsfs.FileStore
		if db != nil {
			store = sqlite.NewStore(db, s.Spec())
		} else {
			fileStore = devdocsfs.NewFileStore(c.Output, s.Spec())
			store = fileStore
		}
		if deps.Verbose {
			store = devslog.NewLoggingStore(store, logger)
		}

		jobs = append(jobs, crawl.Job{Scraper: s, Store: store, Progress: devslog.LoggingProgress(logger)})
		files = append(files, fileStore)
	}

	for i, res := range crawl.RunAll(deps.Ctx, jobs, c.Concurrency) {
		ok := res.Err == nil
		if store := files[i]; store != nil {
			if err := finish(store, res.Err); err != nil {
				logger.Error("cannot save document", "dir", store.Dir(), "err", err)
				ok = false
			}
		}
		if res.Result != nil {
			fmt.Fprintln(deps.Stdout, crawl.FormatResult(res.Result))
			for _, f := range res.Result.Failures {
				fmt.Fprintf(deps.Stdout, "  %s %s: %v\n", f.Stage, crawl.TruncateURL(f.URL, 72), f.Err)
			}
		}
		if !ok {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(c.Targets))
	}
	return nil
}

// finish publishes a file store after a completed or canceled run and
// discards it otherwise.
func finish(store *devdocsfs.FileStore, runErr error) error {
	if runErr == nil || devdocs.IsCanceled(runErr) {
		return store.Commit()
	}
	return store.Abort()
}
