package http

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/temoto/robotstxt"
)

// robots caches robots.txt rules per scheme and host for the lifetime of a
// Source.
type robots struct {
	mu    sync.Mutex
	cache map[string]*robotstxt.RobotsData
}

func newRobots() *robots {
	return &robots{cache: make(map[string]*robotstxt.RobotsData)}
}

// allowed reports whether agent may fetch target. Unreachable or malformed
// robots.txt files allow everything.
func (r *robots) allowed(ctx context.Context, client *http.Client, agent, target string) bool {
	u, err := url.Parse(target)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return true
	}

	rules := r.rules(ctx, client, agent, u)
	if rules == nil {
		return true
	}
	group := rules.FindGroup(agent)
	if group == nil {
		return true
	}
	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}
	return group.Test(p)
}

func (r *robots) rules(ctx context.Context, client *http.Client, agent string, u *url.URL) *robotstxt.RobotsData {
	key := strings.ToLower(u.Scheme + "://" + u.Host)

	r.mu.Lock()
	defer r.mu.Unlock()
	if data, ok := r.cache[key]; ok {
		return data
	}

	data := fetchRobots(ctx, client, agent, key+"/robots.txt")
	r.cache[key] = data
	return data
}

func fetchRobots(ctx context.Context, client *http.Client, agent, robotsURL string) *robotstxt.RobotsData {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", agent)

	resp, err := client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return data
}
