package goquery_test

import (
	"strings"
	"testing"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/devdocs"
	"github.com/stretchr/testify/require"
)

func newScope(t *testing.T, rules devdocs.Rules, bases ...string) *devdocs.Scope {
	t.Helper()
	if len(bases) == 0 {
		bases = []string{"https://x/docs/"}
	}
	s, err := devdocs.NewScope(bases, rules)
	require.NoError(t, err)
	return s
}

func pageAt(scope *devdocs.Scope, path, raw string) *devdocs.PageContext {
	return devdocs.NewPageContext(scope, devdocs.FrontierEntry{Path: path, BaseURL: scope.Primary()}, raw)
}

// attrs returns the attr values of elements matching selector, in order.
func attrs(t *testing.T, html, selector, attr string) []string {
	t.Helper()
	doc, err := gq.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	var out []string
	doc.Find(selector).Each(func(_ int, s *gq.Selection) {
		v, _ := s.Attr(attr)
		out = append(out, v)
	})
	return out
}
