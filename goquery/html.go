// Package goquery implements the HTML filters of the scraping pipeline and
// link discovery on top of github.com/PuerkitoBio/goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/devdocs"
)

// parse reads an HTML document. The HTML5 parser never rejects input, so a
// failure here means the reader itself failed.
func parse(content string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, devdocs.Errorf(devdocs.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

// innerHTML renders the children of sel with surrounding space trimmed.
func innerHTML(sel *goquery.Selection) (string, error) {
	html, err := sel.Html()
	if err != nil {
		return "", devdocs.Errorf(devdocs.EINTERNAL, "failed to render HTML: %v", err)
	}
	return strings.TrimSpace(html), nil
}

func outerHTML(sel *goquery.Selection) (string, error) {
	html, err := goquery.OuterHtml(sel)
	if err != nil {
		return "", devdocs.Errorf(devdocs.EINTERNAL, "failed to render HTML: %v", err)
	}
	return strings.TrimSpace(html), nil
}

// collapse folds runs of whitespace into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
