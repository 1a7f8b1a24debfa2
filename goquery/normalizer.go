package goquery

import (
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/devdocs"
)

var _ devdocs.Filter = (*Normalizer)(nil)

// Normalizer rewrites links so they resolve inside the scraped corpus.
//
// A link to an admitted in-scope page becomes the relative path between the
// stored pages, with its fragment kept, and is recorded in the page's links.
// Every other link becomes absolute. Fragment-only links and non-HTTP links
// are left alone. Image sources become absolute.
type Normalizer struct {
	extensions []string
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithExtensions makes links to files with one of the given extensions
// match the logical path of the file: the extension is dropped and an
// index file stands for its directory.
func WithExtensions(exts ...string) NormalizerOption {
	return func(n *Normalizer) {
		n.extensions = append(n.extensions, exts...)
	}
}

// NewNormalizer returns a Normalizer.
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Apply implements devdocs.Filter. It returns the inner HTML of the body.
func (n *Normalizer) Apply(pc *devdocs.PageContext, content string) (string, error) {
	page, err := url.Parse(pc.URL)
	if err != nil {
		return "", devdocs.Errorf(devdocs.EINVALID, "invalid page URL %q: %v", pc.URL, err)
	}

	doc, err := parse(content)
	if err != nil {
		return "", err
	}
	body := doc.Find("body")

	body.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if rewritten, ok := n.rewrite(pc, page, href); ok {
			a.SetAttr("href", rewritten)
		}
	})
	body.Find("img[src]").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		if abs, ok := absolute(page, src); ok {
			img.SetAttr("src", abs)
		}
	})

	return innerHTML(body)
}

func (n *Normalizer) rewrite(pc *devdocs.PageContext, page *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || isNonHTTPLink(href) {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	target := page.ResolveReference(ref)

	if pc.Scope != nil {
		if e, ok := pc.Scope.Candidate(n.logical(target).String(), ""); ok {
			pc.AddLink(devdocs.PagePath(e.Path))
			rel := devdocs.RelativeLink(pc.Path, e.Path)
			if target.Fragment != "" {
				rel += "#" + target.Fragment
			}
			return rel, true
		}
	}
	return target.String(), true
}

// logical returns u with a known file extension removed.
func (n *Normalizer) logical(u *url.URL) *url.URL {
	lower := strings.ToLower(u.Path)
	for _, ext := range n.extensions {
		if !strings.HasSuffix(lower, strings.ToLower(ext)) {
			continue
		}
		out := *u
		out.Path = u.Path[:len(u.Path)-len(ext)]
		if path.Base(out.Path) == "index" {
			out.Path = strings.TrimSuffix(out.Path, "index")
		}
		out.RawPath = ""
		return &out
	}
	return u
}

func absolute(page *url.URL, src string) (string, bool) {
	src = strings.TrimSpace(src)
	if src == "" || isNonHTTPLink(src) {
		return "", false
	}
	ref, err := url.Parse(src)
	if err != nil {
		return "", false
	}
	return page.ResolveReference(ref).String(), true
}
