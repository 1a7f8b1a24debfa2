package crawl

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/fwojciec/devdocs"
	"golang.org/x/time/rate"
)

var _ devdocs.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces requests to each host with its own token bucket, so
// documents hosted on different sites do not slow each other down.
// Safe for concurrent use by independent scraper runs.
type DomainLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	overrides map[string]rate.Limit
	rps       rate.Limit
}

// NewDomainLimiter returns a limiter allowing rps requests per second per
// host, without bursting. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &DomainLimiter{
		limiters:  make(map[string]*rate.Limiter),
		overrides: make(map[string]rate.Limit),
		rps:       limit,
	}
}

// SetLimit overrides the rate for one host. It applies to requests made
// after the call.
func (d *DomainLimiter) SetLimit(domain string, rps float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	domain = strings.ToLower(domain)
	d.overrides[domain] = rate.Limit(rps)
	if l, ok := d.limiters[domain]; ok {
		l.SetLimit(rate.Limit(rps))
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	domain = strings.ToLower(domain)

	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limit := d.rps
		if o, ok := d.overrides[domain]; ok {
			limit = o
		}
		limiter = rate.NewLimiter(limit, 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}

// hostOf returns the host of rawURL, or rawURL itself when it has none.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
