// Package htmltomarkdown provides the Markdown filter of the scraping
// pipeline.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/devdocs"
)

var _ devdocs.Filter = (*Converter)(nil)

// Converter wraps html-to-markdown to turn page HTML into Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Apply implements devdocs.Filter.
func (c *Converter) Apply(_ *devdocs.PageContext, content string) (string, error) {
	return c.Convert(content)
}

// Convert transforms HTML content into Markdown. Code languages recorded
// by the cleaner on <pre data-language> become fence info strings.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", devdocs.Errorf(devdocs.EINVALID, "empty HTML input")
	}

	html, err := languageHints(html)
	if err != nil {
		return "", err
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}
	return result, nil
}

// languageHints copies data-language from <pre> onto its <code> child as
// the language-x class the commonmark plugin reads.
func languageHints(html string) (string, error) {
	if !strings.Contains(html, "data-language") {
		return html, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", devdocs.Errorf(devdocs.EINVALID, "failed to parse HTML: %v", err)
	}
	doc.Find("pre[data-language]").Each(func(_ int, pre *goquery.Selection) {
		lang, _ := pre.Attr("data-language")
		code := pre.ChildrenFiltered("code").First()
		if code.Length() == 0 {
			return
		}
		if class, _ := code.Attr("class"); !strings.Contains(class, "language-") {
			code.AddClass("language-" + lang)
		}
	})
	out, err := doc.Find("body").Html()
	if err != nil {
		return "", devdocs.Errorf(devdocs.EINTERNAL, "failed to render HTML: %v", err)
	}
	return out, nil
}
