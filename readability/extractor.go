// Package readability provides a main-content filter backed by
// go-readability.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/devdocs"
	"github.com/go-shiori/go-readability"
)

var _ devdocs.Filter = (*Extractor)(nil)

// Result is the main content of a page.
type Result struct {
	Title       string
	ContentHTML string
}

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Apply implements devdocs.Filter. It replaces the content with the
// readable article and sets the page title when no earlier filter did.
func (e *Extractor) Apply(pc *devdocs.PageContext, content string) (string, error) {
	r, err := e.extract(content, pc.URL)
	if err != nil {
		return "", err
	}
	if pc.Title == "" {
		pc.Title = r.Title
	}
	return r.ContentHTML, nil
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*Result, error) {
	return e.extract(rawHTML, "")
}

func (e *Extractor) extract(rawHTML, pageURL string) (*Result, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, devdocs.Errorf(devdocs.EINVALID, "empty HTML input")
	}

	var u *url.URL
	if parsed, err := url.Parse(pageURL); err == nil && parsed.IsAbs() {
		u = parsed
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), u)
	if err != nil {
		return nil, err
	}

	return &Result{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
