package crawl

import (
	"context"

	"github.com/fwojciec/devdocs"
	"golang.org/x/sync/errgroup"
)

// Job is one scraper run with its own store.
type Job struct {
	Scraper  devdocs.Scraper
	Store    devdocs.Store
	Progress devdocs.ProgressFunc
}

// JobResult is the outcome of a Job.
type JobResult struct {
	Result *devdocs.RunResult
	Err    error
}

// RunAll runs independent scrapers with at most concurrency running at
// once. Results are returned in job order. A run-level error in one job
// does not stop the others.
func RunAll(ctx context.Context, jobs []Job, concurrency int) []JobResult {
	if concurrency <= 0 {
		concurrency = 1
	}
	results := make([]JobResult, len(jobs))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, job := range jobs {
		g.Go(func() error {
			res, err := job.Scraper.Run(ctx, job.Store, job.Progress)
			results[i] = JobResult{Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
