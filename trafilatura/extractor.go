// Package trafilatura provides a main-content filter backed by
// go-trafilatura, for documents without a reliable content container.
package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/fwojciec/devdocs"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var _ devdocs.Filter = (*Extractor)(nil)

// Result is the main content of a page.
type Result struct {
	Title       string
	ContentHTML string
}

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Apply implements devdocs.Filter. It replaces the content with its main
// content and sets the page title when no earlier filter did.
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

	opts := trafilatura.Options{
		EnableFallback: true,
	}
	if u, err := url.Parse(pageURL); err == nil && u.IsAbs() {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &Result{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
