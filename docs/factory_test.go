package docs_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/fwojciec/devdocs"
	"github.com/fwojciec/devdocs/crawl"
	"github.com/fwojciec/devdocs/docs"
	"github.com/fwojciec/devdocs/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactory_AvailableScrapers(t *testing.T) {
	t.Parallel()

	t.Run("yields builtin ids in sorted order", func(t *testing.T) {
		t.Parallel()

		f := docs.NewFactory(docs.Builtin())

		ids := slices.Collect(f.AvailableScrapers())

		assert.Equal(t, []string{"babel", "css", "html", "javascript", "rust", "typescript"}, ids)
	})

	t.Run("can be ranged over more than once", func(t *testing.T) {
		t.Parallel()

		seq := docs.NewFactory(docs.Builtin()).AvailableScrapers()

		assert.Equal(t, slices.Collect(seq), slices.Collect(seq))
	})

	t.Run("stops when the consumer breaks", func(t *testing.T) {
		t.Parallel()

		var got []string
		for id := range docs.NewFactory(docs.Builtin()).AvailableScrapers() {
			got = append(got, id)
			if len(got) == 2 {
				break
			}
		}
		assert.Equal(t, []string{"babel", "css"}, got)
	})

	t.Run("later type with same id wins", func(t *testing.T) {
		t.Parallel()

		f := docs.NewFactory([]devdocs.DocType{
			{Name: "A", BaseURLs: []string{"https://a/"}},
			{Name: "A", Release: "2", BaseURLs: []string{"https://a/"}},
		})

		assert.Equal(t, []string{"a"}, slices.Collect(f.AvailableScrapers()))
		typ, ok := f.Type("a")
		require.True(t, ok)
		assert.Equal(t, "2", typ.Release)
	})
}

func TestFactory_Create(t *testing.T) {
	t.Parallel()

	t.Run("builds URL scraper for network type", func(t *testing.T) {
		t.Parallel()

		s, ok := docs.NewFactory(docs.Builtin()).Create("babel", "6")

		require.True(t, ok)
		require.IsType(t, &crawl.URLScraper{}, s)
		assert.Equal(t, "6", s.Spec().Version)
		assert.Equal(t, "babel~6", s.Spec().OutputPath)
		assert.NotNil(t, s.(*crawl.URLScraper).Sitemaps)
	})

	t.Run("builds file scraper for file type", func(t *testing.T) {
		t.Parallel()

		f := docs.NewFactory([]devdocs.DocType{{Name: "Local", Kind: devdocs.KindFile, Root: t.TempDir()}})

		s, ok := f.Create("local", "")

		require.True(t, ok)
		assert.IsType(t, &crawl.FileScraper{}, s)
	})

	t.Run("misses unknown type", func(t *testing.T) {
		t.Parallel()

		s, ok := docs.NewFactory(docs.Builtin()).Create("cobol", "")

		assert.False(t, ok)
		assert.Nil(t, s)
	})

	t.Run("misses unknown version", func(t *testing.T) {
		t.Parallel()

		_, ok := docs.NewFactory(docs.Builtin()).Create("babel", "5")

		assert.False(t, ok)
	})

	t.Run("build reports why", func(t *testing.T) {
		t.Parallel()

		f := docs.NewFactory(docs.Builtin())

		_, err := f.Build("cobol", "")
		assert.Equal(t, devdocs.ENOTFOUND, devdocs.ErrorCode(err))

		_, err = f.Build("babel", "5")
		assert.Equal(t, devdocs.ENOTFOUND, devdocs.ErrorCode(err))
	})

	t.Run("max pages overrides the type", func(t *testing.T) {
		t.Parallel()

		s, ok := docs.NewFactory(docs.Builtin(), docs.WithMaxPages(3)).Create("css", "")

		require.True(t, ok)
		assert.Equal(t, 3, s.Spec().MaxPages)
	})

	t.Run("wraps content sources", func(t *testing.T) {
		t.Parallel()

		src := &mock.ContentSource{}
		f := docs.NewFactory(docs.Builtin(), docs.WithSourceWrapper(func(devdocs.ContentSource) devdocs.ContentSource {
			return src
		}))

		s, ok := f.Create("rust", "")

		require.True(t, ok)
		assert.Same(t, src, s.(*crawl.URLScraper).Source)
	})
}

func TestFactory_Page(t *testing.T) {
	t.Parallel()

	t.Run("fetches and filters one page", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/docs/guide/intro" {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(`<html><body><nav>menu</nav><h1>Intro</h1><a href="../api">API</a></body></html>`))
		}))
		t.Cleanup(srv.Close)

		f := docs.NewFactory([]devdocs.DocType{{Name: "Site", BaseURLs: []string{srv.URL + "/docs/"}}})

		page, err := f.Page(context.Background(), "site", "", "guide/intro")

		require.NoError(t, err)
		assert.Equal(t, "guide/intro", page.Path)
		assert.Equal(t, "Intro", page.Title)
		assert.NotContains(t, page.Content, "menu")
		assert.Contains(t, page.Content, `href="../api"`)
		assert.Equal(t, []string{"api"}, page.Links)
		assert.NotEmpty(t, page.Hash)
	})

	t.Run("rejects path outside the document", func(t *testing.T) {
		t.Parallel()

		f := docs.NewFactory([]devdocs.DocType{{
			Name:         "Site",
			BaseURLs:     []string{"https://x/docs/"},
			SkipPatterns: []string{"^private/"},
		}})

		_, err := f.Page(context.Background(), "site", "", "private/keys")

		assert.Equal(t, devdocs.EINVALID, devdocs.ErrorCode(err))
	})

	t.Run("returns fetch error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		t.Cleanup(srv.Close)
		f := docs.NewFactory([]devdocs.DocType{{Name: "Site", BaseURLs: []string{srv.URL + "/docs/"}}})

		_, err := f.Page(context.Background(), "site", "", "missing")

		var fe *devdocs.FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, devdocs.FetchHTTP, fe.Kind)
		assert.Equal(t, http.StatusNotFound, fe.Status)
	})
}
