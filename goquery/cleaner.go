package goquery

import (
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/devdocs"
	"golang.org/x/net/html"
)

var _ devdocs.Filter = (*Cleaner)(nil)

// DefaultRemove lists the elements every document drops.
var DefaultRemove = []string{
	"script", "style", "link", "meta", "base", "title", "template",
	"noscript", "iframe", "object", "embed", "nav",
}

// DefaultRemoveAttrs lists the attributes every document drops.
var DefaultRemoveAttrs = []string{"class", "style"}

// Cleaner removes non-content chrome from a page and keeps its content
// container, or the inner HTML of the body when there is none. Cleaning its
// own output returns it unchanged.
type Cleaner struct {
	container   string
	remove      string
	removeAttrs []string
	detector    *Detector
}

// CleanerOption configures a Cleaner.
type CleanerOption func(*Cleaner)

// WithDetector falls back to the content container of the detected
// documentation framework when the rules name none.
func WithDetector(d *Detector) CleanerOption {
	return func(c *Cleaner) {
		c.detector = d
	}
}

// NewCleaner compiles rules into a Cleaner. Returns EINVALID for a
// malformed selector, or for a remove selector that depends on sibling
// position, since removing one match would expose the next.
func NewCleaner(rules devdocs.CleanRules, opts ...CleanerOption) (*Cleaner, error) {
	remove := append(slices.Clone(DefaultRemove), rules.Remove...)
	for _, s := range append([]string{rules.Container}, rules.Remove...) {
		if s == "" {
			continue
		}
		if _, err := cascadia.Compile(s); err != nil {
			return nil, devdocs.Errorf(devdocs.EINVALID, "invalid selector %q: %v", s, err)
		}
	}
	for _, s := range rules.Remove {
		if positional(s) {
			return nil, devdocs.Errorf(devdocs.EINVALID, "positional remove selector %q", s)
		}
	}

	c := &Cleaner{
		container:   rules.Container,
		remove:      strings.Join(remove, ", "),
		removeAttrs: append(slices.Clone(DefaultRemoveAttrs), rules.RemoveAttrs...),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Apply implements devdocs.Filter.
func (c *Cleaner) Apply(_ *devdocs.PageContext, content string) (string, error) {
	return c.Clean(content)
}

// Clean returns the cleaned content container of content, tag included, or
// the cleaned inner HTML of the body when no container matches.
func (c *Cleaner) Clean(content string) (string, error) {
	doc, err := parse(content)
	if err != nil {
		return "", err
	}

	root := doc.Find("body")
	matched := false
	container, remove := c.container, ""
	if container == "" && c.detector != nil {
		if layout, ok := LayoutFor(c.detector.detect(doc)); ok {
			container, remove = layout.Container, strings.Join(layout.Remove, ", ")
		}
	}
	if container != "" {
		if sel := doc.Find(container).First(); sel.Length() > 0 {
			root, matched = sel, true
		}
	}

	root.Find(c.remove).Remove()
	if remove != "" {
		root.Find(remove).Remove()
	}
	for _, n := range root.Nodes {
		removeComments(n)
	}
	root.Find("pre").Each(func(_ int, pre *goquery.Selection) {
		if _, ok := pre.Attr("data-language"); ok {
			return
		}
		lang := languageOf(pre)
		if lang == "" {
			lang = languageOf(pre.Find("code").First())
		}
		if lang != "" {
			pre.SetAttr("data-language", lang)
		}
	})
	for _, attr := range c.removeAttrs {
		root.Find("*").RemoveAttr(attr)
		if matched {
			root.RemoveAttr(attr)
		}
	}

	if matched {
		return outerHTML(root)
	}
	return innerHTML(root)
}

// positionalPseudos are pseudo-classes whose match depends on siblings.
var positionalPseudos = []string{
	":first-child", ":last-child", ":only-child",
	":first-of-type", ":last-of-type", ":only-of-type",
	":nth-child(", ":nth-last-child(", ":nth-of-type(", ":nth-last-of-type(",
	":empty",
}

// positional reports whether sel depends on the position of an element
// among its siblings, through a pseudo-class or a sibling combinator.
func positional(sel string) bool {
	lower := strings.ToLower(sel)
	for _, p := range positionalPseudos {
		if strings.Contains(lower, p) {
			return true
		}
	}

	depth := 0
	var quote rune
	for _, r := range lower {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '[' || r == '(':
			depth++
		case r == ']' || r == ')':
			depth--
		case depth == 0 && (r == '+' || r == '~'):
			return true
		}
	}
	return false
}

func removeComments(n *html.Node) {
	for child := n.FirstChild; child != nil; {
		next := child.NextSibling
		if child.Type == html.CommentNode {
			n.RemoveChild(child)
		} else {
			removeComments(child)
		}
		child = next
	}
}

// languageOf reads a highlighter language from language-x or lang-x classes.
func languageOf(sel *goquery.Selection) string {
	class, _ := sel.Attr("class")
	for _, c := range strings.Fields(class) {
		if lang, ok := strings.CutPrefix(c, "language-"); ok && lang != "" {
			return lang
		}
		if lang, ok := strings.CutPrefix(c, "lang-"); ok && lang != "" {
			return lang
		}
	}
	return ""
}
