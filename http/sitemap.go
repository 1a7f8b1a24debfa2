package http

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/devdocs"
)

// DefaultMaxSitemaps bounds the sitemap documents read per discovery,
// sitemap indexes included.
const DefaultMaxSitemaps = 64

var _ devdocs.SitemapService = (*SitemapService)(nil)

// SitemapService lists the pages a site declares in its sitemaps. Sitemaps
// are found through the Sitemap directives of robots.txt, falling back to
// /sitemap.xml.
type SitemapService struct {
	client      *http.Client
	userAgent   string
	robots      *robots
	maxSitemaps int
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{
		client:      client,
		userAgent:   DefaultUserAgent,
		robots:      newRobots(),
		maxSitemaps: DefaultMaxSitemaps,
	}
}

// Sitemaps returns a SitemapService sharing the source's client, User-Agent
// and robots.txt cache.
func (s *Source) Sitemaps() *SitemapService {
	r := s.robots
	if r == nil {
		r = newRobots()
	}
	return &SitemapService{
		client:      s.client,
		userAgent:   s.userAgent,
		robots:      r,
		maxSitemaps: DefaultMaxSitemaps,
	}
}

// DiscoverURLs returns the page URLs declared by the sitemaps of baseURL's
// host, deduplicated in document order. When baseURL has a path only URLs
// under it are returned. A site without sitemaps yields an empty slice.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || !base.IsAbs() {
		return nil, devdocs.Errorf(devdocs.EINVALID, "invalid base URL %q", baseURL)
	}

	w := &sitemapWalk{
		svc:    s,
		prefix: strings.TrimSuffix(base.Path, "/"),
		seen:   make(map[string]bool),
		found:  make(map[string]bool),
		urls:   []string{},
	}
	for _, loc := range s.locate(ctx, base) {
		if err := w.visit(ctx, loc); err != nil {
			return nil, err
		}
	}
	return w.urls, nil
}

// locate returns the sitemap URLs of base's host.
func (s *SitemapService) locate(ctx context.Context, base *url.URL) []string {
	root := url.URL{Scheme: base.Scheme, Host: base.Host}
	if data := s.robots.rules(ctx, s.client, s.userAgent, &root); data != nil && len(data.Sitemaps) > 0 {
		return data.Sitemaps
	}
	return []string{root.JoinPath("sitemap.xml").String()}
}

// sitemapWalk collects page URLs across a tree of sitemaps.
type sitemapWalk struct {
	svc    *SitemapService
	prefix string
	seen   map[string]bool
	found  map[string]bool
	urls   []string
}

func (w *sitemapWalk) visit(ctx context.Context, loc string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.seen[loc] || len(w.seen) >= w.svc.maxSitemaps {
		return nil
	}
	w.seen[loc] = true

	root, err := w.svc.read(ctx, loc)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var fe *devdocs.FetchError
		if errors.As(err, &fe) && fe.Kind == devdocs.FetchHTTP && fe.Status == http.StatusNotFound {
			return nil
		}
		return err
	}

	switch root.Tag {
	case "sitemapindex":
		for _, el := range root.SelectElements("sitemap") {
			if child := locOf(el); child != "" {
				if err := w.visit(ctx, child); err != nil {
					return err
				}
			}
		}
	case "urlset":
		for _, el := range root.SelectElements("url") {
			w.add(locOf(el))
		}
	default:
		return &devdocs.FetchError{Kind: devdocs.FetchDecode, URL: loc, Err: devdocs.Errorf(devdocs.EINVALID, "unexpected root element <%s>", root.Tag)}
	}
	return nil
}

func (w *sitemapWalk) add(u string) {
	if u == "" || w.found[u] || !underPrefix(u, w.prefix) {
		return
	}
	w.found[u] = true
	w.urls = append(w.urls, u)
}

// underPrefix reports whether u's path is prefix or lies below it. An empty
// prefix admits everything; /docs does not admit /documentation.
func underPrefix(u, prefix string) bool {
	if prefix == "" {
		return true
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	return parsed.Path == prefix || strings.HasPrefix(parsed.Path, prefix+"/")
}

func locOf(el *etree.Element) string {
	loc := el.SelectElement("loc")
	if loc == nil {
		return ""
	}
	return strings.TrimSpace(loc.Text())
}

// read fetches and parses one sitemap document, gunzipping it when the
// body carries the gzip magic number.
func (s *SitemapService) read(ctx context.Context, loc string) (*etree.Element, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, &devdocs.FetchError{Kind: devdocs.FetchIO, URL: loc, Err: err}
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &devdocs.FetchError{Kind: devdocs.FetchIO, URL: loc, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &devdocs.FetchError{Kind: devdocs.FetchHTTP, URL: loc, Status: resp.StatusCode}
	}

	br := bufio.NewReader(resp.Body)
	var r io.Reader = br
	if magic, _ := br.Peek(2); bytes.Equal(magic, []byte{0x1f, 0x8b}) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, &devdocs.FetchError{Kind: devdocs.FetchDecode, URL: loc, Err: err}
		}
		defer gz.Close()
		r = gz
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, &devdocs.FetchError{Kind: devdocs.FetchDecode, URL: loc, Err: err}
	}
	if doc.Root() == nil {
		return nil, &devdocs.FetchError{Kind: devdocs.FetchDecode, URL: loc, Err: devdocs.Errorf(devdocs.EINVALID, "empty sitemap")}
	}
	return doc.Root(), nil
}
