package goquery

import (
	"iter"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/devdocs"
)

var _ devdocs.EntriesExtractor = (*Extractor)(nil)

// DefaultLinkSelector matches the elements links are discovered from.
const DefaultLinkSelector = "a[href]"

// Extractor discovers in-scope links on a page.
type Extractor struct {
	selector string
}

// NewExtractor returns an Extractor reading hrefs from elements matching
// selector, or DefaultLinkSelector when selector is empty.
func NewExtractor(selector string) *Extractor {
	if selector == "" {
		selector = DefaultLinkSelector
	}
	return &Extractor{selector: selector}
}

// Extract implements devdocs.EntriesExtractor. Links resolve against the
// page URL, or the document's <base href> when it has one. Each admitted
// entry is yielded once, in document order. Parsing happens on first
// iteration and the sequence cannot be restarted.
func (x *Extractor) Extract(pc *devdocs.PageContext, content string) iter.Seq[devdocs.FrontierEntry] {
	used := false
	return func(yield func(devdocs.FrontierEntry) bool) {
		if used || pc.Scope == nil {
			return
		}
		used = true

		doc, err := parse(content)
		if err != nil {
			return
		}
		referrer := baseHref(doc, pc.URL)

		seen := make(map[string]bool)
		doc.Find(x.selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			href, ok := sel.Attr("href")
			if !ok || strings.TrimSpace(href) == "" || isNonHTTPLink(href) {
				return true
			}
			e, ok := pc.Scope.Candidate(href, referrer)
			if !ok || seen[e.Key()] {
				return true
			}
			seen[e.Key()] = true
			e.Referrer = pc.URL
			return yield(e)
		})
	}
}

// baseHref returns the URL relative links resolve against.
func baseHref(doc *goquery.Document, pageURL string) string {
	href, ok := doc.Find("base[href]").First().Attr("href")
	if !ok {
		return pageURL
	}
	page, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return pageURL
	}
	return page.ResolveReference(ref).String()
}
