package devdocs

import (
	"net/url"
	"path"
	"slices"
	"strings"
)

// IndexPath is the stored path of a base URL's own page.
const IndexPath = "index"

// PagePath maps a normalized frontier path to the path a page is stored under.
func PagePath(p string) string {
	if p == "" {
		return IndexPath
	}
	return p
}

// EscapePath returns the percent-encoded form of a decoded frontier path,
// suitable for joining to a base URL.
func EscapePath(p string) string {
	return (&url.URL{Path: p}).EscapedPath()
}

// RelativeLink is RelativePath escaped for use as an href. A first segment
// containing a colon is prefixed with "./" so it does not read as a scheme.
func RelativeLink(from, to string) string {
	rel := EscapePath(RelativePath(from, to))
	first, _, _ := strings.Cut(rel, "/")
	if strings.Contains(first, ":") {
		rel = "./" + rel
	}
	return rel
}

// RelativePath returns the link that leads from the page stored at from to
// the page stored at to, both given as normalized frontier paths.
func RelativePath(from, to string) string {
	from, to = PagePath(from), PagePath(to)

	fromDir := path.Dir(from)
	var fromParts []string
	if fromDir != "." {
		fromParts = strings.Split(fromDir, "/")
	}
	toParts := strings.Split(to, "/")

	common := 0
	for common < len(fromParts) && common < len(toParts)-1 && fromParts[common] == toParts[common] {
		common++
	}

	var b strings.Builder
	for range len(fromParts) - common {
		b.WriteString("../")
	}
	b.WriteString(strings.Join(toParts[common:], "/"))
	return b.String()
}

// Entry is one search index entry produced for a page.
type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
}

// PageContext is the per-page state threaded through a Pipeline.
type PageContext struct {
	// Path is the normalized frontier path of the page.
	Path string

	// URL is the absolute URL of the page.
	URL string

	// BaseURL is the base URL Path is relative to.
	BaseURL string

	// Scope holds the document's base URLs and path rules.
	Scope *Scope

	// Raw is the text as fetched.
	Raw string

	// Derived data. Filters fill these in for later filters and for the
	// resulting ScrapedPage.
	Title   string
	Text    string
	Links   []string
	Entries []Entry

	values map[string]any
}

// NewPageContext returns the context for a fetched frontier entry.
func NewPageContext(scope *Scope, e FrontierEntry, raw string) *PageContext {
	return &PageContext{
		Path:    e.Path,
		URL:     scope.URL(e),
		BaseURL: e.BaseURL,
		Scope:   scope,
		Raw:     raw,
	}
}

// BaseURLs returns the document's base URLs, primary first.
func (pc *PageContext) BaseURLs() []string {
	if pc.Scope == nil {
		return nil
	}
	return pc.Scope.Bases()
}

// AddLink records an in-corpus link target once.
func (pc *PageContext) AddLink(p string) {
	if !slices.Contains(pc.Links, p) {
		pc.Links = append(pc.Links, p)
	}
}

// Set stores an arbitrary value for later filters.
func (pc *PageContext) Set(key string, v any) {
	if pc.values == nil {
		pc.values = make(map[string]any)
	}
	pc.values[key] = v
}

// Value returns a value stored with Set, or nil.
func (pc *PageContext) Value(key string) any {
	return pc.values[key]
}

// ScrapedPage is a normalized page ready for storage.
type ScrapedPage struct {
	Path    string   `json:"path"`
	URL     string   `json:"url"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Text    string   `json:"text,omitempty"`
	Links   []string `json:"links,omitempty"`
	Entries []Entry  `json:"entries,omitempty"`
	Hash    string   `json:"hash,omitempty"`
}
