package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Framework names a documentation site generator.
type Framework string

// Known documentation frameworks.
const (
	FrameworkUnknown    Framework = ""
	FrameworkDocusaurus Framework = "docusaurus"
	FrameworkMkDocs     Framework = "mkdocs"
	FrameworkSphinx     Framework = "sphinx"
	FrameworkVitePress  Framework = "vitepress"
	FrameworkVuePress   Framework = "vuepress"
	FrameworkGitBook    Framework = "gitbook"
	FrameworkNextra     Framework = "nextra"
)

// Layout is where a framework puts page content and which of its chrome
// elements are not content.
type Layout struct {
	Container string
	Remove    []string
}

// layouts hold the content containers of known frameworks.
var layouts = map[Framework]Layout{
	FrameworkDocusaurus: {
		Container: ".theme-doc-markdown",
		Remove:    []string{".hash-link", ".theme-doc-toc-mobile", ".pagination-nav", ".theme-doc-footer"},
	},
	FrameworkMkDocs: {
		Container: ".md-content__inner",
		Remove:    []string{".headerlink", ".md-source-file", ".md-content__button"},
	},
	FrameworkSphinx: {
		Container: "div[role='main']",
		Remove:    []string{".headerlink"},
	},
	FrameworkVitePress: {
		Container: ".vp-doc",
		Remove:    []string{".header-anchor"},
	},
	FrameworkVuePress: {
		Container: ".theme-default-content",
		Remove:    []string{".header-anchor"},
	},
	FrameworkNextra: {
		Container: "article",
		Remove:    []string{".nextra-toc", ".nextra-breadcrumb"},
	},
}

// LayoutFor returns the content layout of a framework.
func LayoutFor(f Framework) (Layout, bool) {
	l, ok := layouts[f]
	return l, ok
}

// Detector identifies documentation frameworks from HTML content.
// It checks for framework-specific CSS classes, data attributes, meta tags,
// and structural markers that are unique to each documentation generator.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect analyzes HTML and returns the identified framework.
// Returns FrameworkUnknown if the framework cannot be determined.
func (d *Detector) Detect(html string) Framework {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return FrameworkUnknown
	}
	return d.detect(doc)
}

func (d *Detector) detect(doc *goquery.Document) Framework {
	// Meta generator tags are the most reliable marker when present.
	if framework := d.detectFromMetaGenerator(doc); framework != FrameworkUnknown {
		return framework
	}

	switch {
	case hasAny(doc, "#__docusaurus_skipToContent_fallback", ".theme-doc-sidebar-container"),
		hasAny(doc, "[data-rh]") && hasAny(doc, "[data-theme]"):
		return FrameworkDocusaurus
	case hasAny(doc, "[data-md-color-scheme]", "[data-md-component]", ".md-nav--primary"):
		return FrameworkMkDocs
	case hasAny(doc, ".toctree-wrapper", ".wy-nav-side", ".wy-menu-vertical", ".sphinxsidebar"):
		return FrameworkSphinx
	// VitePress before VuePress: it is VuePress's successor and shares markers.
	case hasAny(doc, "#VPContent", ".VPDoc", ".VPDocAsideOutline"):
		return FrameworkVitePress
	case hasAny(doc, ".theme-default-content", ".sidebar-links", ".vuepress-navbar"):
		return FrameworkVuePress
	case hasAny(doc, "[data-testid='space.sidebar']", "[data-testid='page.desktopTableOfContents']"),
		hasGitBookClasses(doc):
		return FrameworkGitBook
	case hasAny(doc, ".nextra-navbar", ".nextra-sidebar", ".nextra-toc"):
		return FrameworkNextra
	}
	return FrameworkUnknown
}

func (d *Detector) detectFromMetaGenerator(doc *goquery.Document) Framework {
	generator := ""
	doc.Find("meta[name='generator']").Each(func(_ int, s *goquery.Selection) {
		if content, exists := s.Attr("content"); exists {
			generator = strings.ToLower(content)
		}
	})
	if generator == "" {
		return FrameworkUnknown
	}

	for _, f := range []Framework{
		FrameworkSphinx,
		FrameworkGitBook,
		FrameworkDocusaurus,
		FrameworkMkDocs,
		FrameworkVitePress,
		FrameworkVuePress,
		FrameworkNextra,
	} {
		if strings.Contains(generator, string(f)) {
			return f
		}
	}
	return FrameworkUnknown
}

func hasAny(doc *goquery.Document, selectors ...string) bool {
	for _, s := range selectors {
		if doc.Find(s).Length() > 0 {
			return true
		}
	}
	return false
}

// hasGitBookClasses requires two of the classes GitBook puts on <html>.
func hasGitBookClasses(doc *goquery.Document) bool {
	class, _ := doc.Find("html").Attr("class")
	if class == "" {
		return false
	}
	count := 0
	for _, c := range []string{"circular-corners", "theme-clean", "tint"} {
		if strings.Contains(class, c) {
			count++
		}
	}
	return count >= 2
}
