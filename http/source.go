// Package http provides the network implementation of devdocs.ContentSource
// and a sitemap-based URL discoverer.
package http

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/andybalholm/brotli"
	"github.com/fwojciec/devdocs"
	"golang.org/x/net/html/charset"
)

// Defaults for Source.
const (
	DefaultFetchTimeout = 10 * time.Second
	DefaultMaxRedirects = 10
	DefaultUserAgent    = "devdocs-scraper"
	DefaultMaxBodyBytes = 32 << 20
)

var _ devdocs.ContentSource = (*Source)(nil)

var errTooManyRedirects = errors.New("too many redirects")

// Source fetches pages over HTTP. It follows a bounded number of redirects,
// decompresses brotli, gzip and deflate bodies, and decodes the declared or
// sniffed character set to UTF-8. Non-HTML responses are reported as
// devdocs.FetchUnsupported.
type Source struct {
	client       *http.Client
	timeout      time.Duration
	maxRedirects int
	maxBodyBytes int64
	userAgent    string
	robots       *robots
}

// Option configures a Source.
type Option func(*Source)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(s *Source) {
		s.timeout = d
	}
}

// WithMaxRedirects bounds the redirect hops followed per request.
func WithMaxRedirects(n int) Option {
	return func(s *Source) {
		s.maxRedirects = n
	}
}

// WithUserAgent sets the User-Agent header and the robots.txt agent name.
func WithUserAgent(ua string) Option {
	return func(s *Source) {
		s.userAgent = ua
	}
}

// WithMaxBodyBytes bounds the decoded size of a response body.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Source) {
		s.maxBodyBytes = n
	}
}

// WithRobots makes the source honor robots.txt. Disallowed paths fail with
// devdocs.FetchDisallowed.
func WithRobots(enabled bool) Option {
	return func(s *Source) {
		if enabled {
			s.robots = newRobots()
		} else {
			s.robots = nil
		}
	}
}

// NewSource creates a new HTTP Source.
func NewSource(opts ...Option) *Source {
	s := &Source{
		timeout:      DefaultFetchTimeout,
		maxRedirects: DefaultMaxRedirects,
		maxBodyBytes: DefaultMaxBodyBytes,
		userAgent:    DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.client = &http.Client{
		Timeout: s.timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) > s.maxRedirects {
				return errTooManyRedirects
			}
			return nil
		},
	}
	return s
}

// Client returns the HTTP client the source uses.
func (s *Source) Client() *http.Client {
	return s.client
}

// UserAgent returns the User-Agent the source sends.
func (s *Source) UserAgent() string {
	return s.userAgent
}

// Fetch implements devdocs.ContentSource. It GETs baseURL joined with the
// escaped path.
func (s *Source) Fetch(ctx context.Context, path, baseURL string) (*devdocs.RawContent, error) {
	target := baseURL + devdocs.EscapePath(path)
	fail := func(kind devdocs.FetchKind, err error) (*devdocs.RawContent, error) {
		return nil, &devdocs.FetchError{Kind: kind, Path: path, URL: target, Err: err}
	}

	if s.robots != nil && !s.robots.allowed(ctx, s.client, s.userAgent, target) {
		return fail(devdocs.FetchDisallowed, nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fail(devdocs.FetchIO, err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")
	req.Header.Set("Accept-Encoding", "br, gzip, deflate")

	resp, err := s.client.Do(req)
	if err != nil {
		return fail(classify(err), err)
	}
	defer resp.Body.Close()

	final := resp.Request.URL.String()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &devdocs.FetchError{Kind: devdocs.FetchHTTP, Path: path, URL: final, Status: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTML(contentType) {
		return nil, &devdocs.FetchError{
			Kind: devdocs.FetchUnsupported,
			Path: path,
			URL:  final,
			Err:  errors.New("content type " + contentType),
		}
	}

	body, err := s.readBody(resp)
	if err != nil {
		return fail(classify(err), err)
	}
	text, err := decode(body, contentType)
	if err != nil {
		return nil, &devdocs.FetchError{Kind: devdocs.FetchDecode, Path: path, URL: final, Err: err}
	}

	return &devdocs.RawContent{
		URL:         final,
		Path:        path,
		ContentType: contentType,
		Body:        text,
	}, nil
}

func (s *Source) readBody(resp *http.Response) ([]byte, error) {
	reader := io.Reader(resp.Body)
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "deflate":
		fl := flate.NewReader(resp.Body)
		defer fl.Close()
		reader = fl
	}

	body, err := io.ReadAll(io.LimitReader(reader, s.maxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > s.maxBodyBytes {
		return nil, errors.New("response body too large")
	}
	return body, nil
}

// classify maps a transport error to a fetch failure kind.
func classify(err error) devdocs.FetchKind {
	if errors.Is(err, errTooManyRedirects) {
		return devdocs.FetchRedirect
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return devdocs.FetchTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return devdocs.FetchTimeout
	}
	return devdocs.FetchIO
}

// isHTML reports whether a Content-Type names an HTML document. A missing
// header is accepted.
func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch mediaType {
	case "text/html", "application/xhtml+xml":
		return true
	}
	return false
}

// decode converts body to UTF-8 using a byte order mark, the declared
// charset, a <meta> declaration, or sniffing, in that order. UTF-8 content
// must be valid and an unknown declared charset is an error.
func decode(body []byte, contentType string) (string, error) {
	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		if cs, ok := params["charset"]; ok {
			if e, _ := charset.Lookup(cs); e == nil {
				return "", fmt.Errorf("unknown charset %q", cs)
			}
		}
	}

	e, name, _ := charset.DetermineEncoding(body, contentType)
	if name == "utf-8" {
		if !utf8.Valid(body) {
			return "", errors.New("invalid UTF-8")
		}
		return strings.TrimPrefix(string(body), "\ufeff"), nil
	}
	out, err := e.NewDecoder().Bytes(body)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", name, err)
	}
	return string(out), nil
}
