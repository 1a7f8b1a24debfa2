package goquery

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/devdocs"
)

var (
	_ devdocs.Filter = (*TitleFilter)(nil)
	_ devdocs.Filter = (*TextFilter)(nil)
	_ devdocs.Filter = (*IndexFilter)(nil)
)

// TitleFilter sets the page title from the first <h1>, falling back to the
// <title> element. The root page takes the configured root title when one
// is set. Content passes through unchanged.
type TitleFilter struct {
	rootTitle string
}

// NewTitleFilter returns a TitleFilter.
func NewTitleFilter(rootTitle string) *TitleFilter {
	return &TitleFilter{rootTitle: rootTitle}
}

// Apply implements devdocs.Filter.
func (f *TitleFilter) Apply(pc *devdocs.PageContext, content string) (string, error) {
	if pc.Path == "" && f.rootTitle != "" {
		pc.Title = f.rootTitle
		return content, nil
	}
	if pc.Title != "" {
		return content, nil
	}

	doc, err := parse(content)
	if err != nil {
		return "", err
	}
	if h1 := collapse(doc.Find("h1").First().Text()); h1 != "" {
		pc.Title = h1
	} else {
		pc.Title = collapse(doc.Find("title").First().Text())
	}
	return content, nil
}

// TextFilter stores the visible text of the page, whitespace collapsed.
// Content passes through unchanged.
type TextFilter struct{}

// NewTextFilter returns a TextFilter.
func NewTextFilter() *TextFilter {
	return &TextFilter{}
}

// Apply implements devdocs.Filter.
func (f *TextFilter) Apply(pc *devdocs.PageContext, content string) (string, error) {
	doc, err := parse(content)
	if err != nil {
		return "", err
	}
	body := doc.Find("body")
	body.Find("script, style, noscript, template").Remove()
	pc.Text = collapse(body.Text())
	return content, nil
}

// IndexFilter builds the search index entries of a page: one for the page
// under its title and one per <h2 id> section. The root page gets none.
type IndexFilter struct {
	name     string
	prefixes []string
	types    map[string]string
}

// NewIndexFilter returns an IndexFilter. Entry types are chosen from types
// by the longest path prefix, defaulting to name.
func NewIndexFilter(name string, types map[string]string) *IndexFilter {
	f := &IndexFilter{name: name, types: types}
	for p := range types {
		f.prefixes = append(f.prefixes, p)
	}
	sort.Slice(f.prefixes, func(i, j int) bool {
		if len(f.prefixes[i]) != len(f.prefixes[j]) {
			return len(f.prefixes[i]) > len(f.prefixes[j])
		}
		return f.prefixes[i] < f.prefixes[j]
	})
	return f
}

// Apply implements devdocs.Filter.
func (f *IndexFilter) Apply(pc *devdocs.PageContext, content string) (string, error) {
	if pc.Path == "" {
		return content, nil
	}
	doc, err := parse(content)
	if err != nil {
		return "", err
	}

	typ := f.TypeFor(pc.Path)
	name := pc.Title
	if name == "" {
		name = devdocs.PagePath(pc.Path)
	}
	path := devdocs.PagePath(pc.Path)
	pc.Entries = append(pc.Entries, devdocs.Entry{Name: name, Path: path, Type: typ})

	doc.Find("h2[id]").Each(func(_ int, h *goquery.Selection) {
		id, _ := h.Attr("id")
		text := collapse(h.Text())
		if id == "" || text == "" {
			return
		}
		pc.Entries = append(pc.Entries, devdocs.Entry{
			Name: name + ": " + text,
			Path: path + "#" + id,
			Type: typ,
		})
	})
	return content, nil
}

// TypeFor returns the entry type of a page path.
func (f *IndexFilter) TypeFor(p string) string {
	for _, prefix := range f.prefixes {
		if strings.HasPrefix(p, prefix) {
			return f.types[prefix]
		}
	}
	return f.name
}
