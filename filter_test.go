package devdocs_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/devdocs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upper() devdocs.NamedFilter {
	return devdocs.NamedFilter{Name: "upper", Filter: devdocs.FilterFunc(func(_ *devdocs.PageContext, s string) (string, error) {
		return strings.ToUpper(s), nil
	})}
}

func suffix(name, s string) devdocs.NamedFilter {
	return devdocs.NamedFilter{Name: name, Filter: devdocs.FilterFunc(func(_ *devdocs.PageContext, c string) (string, error) {
		return c + s, nil
	})}
}

func TestPipeline_Run(t *testing.T) {
	t.Parallel()

	t.Run("applies filters in order", func(t *testing.T) {
		t.Parallel()

		p := devdocs.NewPipeline("test", upper(), suffix("bang", "!"))
		pc := &devdocs.PageContext{Path: "guide/intro", URL: "https://x/docs/guide/intro", Raw: "hello"}

		page, err := p.Run(pc)

		require.NoError(t, err)
		assert.Equal(t, "HELLO!", page.Content)
		assert.Equal(t, "guide/intro", page.Path)
		assert.Equal(t, "https://x/docs/guide/intro", page.URL)
	})

	t.Run("passes scratch data between filters", func(t *testing.T) {
		t.Parallel()

		setTitle := devdocs.NamedFilter{Name: "title", Filter: devdocs.FilterFunc(func(pc *devdocs.PageContext, c string) (string, error) {
			pc.Title = "Intro"
			pc.AddLink("api")
			return c, nil
		})}
		p := devdocs.NewPipeline("test", setTitle)

		page, err := p.Run(&devdocs.PageContext{Raw: "x"})

		require.NoError(t, err)
		assert.Equal(t, "Intro", page.Title)
		assert.Equal(t, []string{"api"}, page.Links)
		assert.Equal(t, devdocs.IndexPath, page.Path)
	})

	t.Run("falls back to the path for the title", func(t *testing.T) {
		t.Parallel()

		page, err := devdocs.NewPipeline("empty").Run(&devdocs.PageContext{Path: "a/b", Raw: "x"})

		require.NoError(t, err)
		assert.Equal(t, "a/b", page.Title)
		assert.Equal(t, "x", page.Content)
	})

	t.Run("stops at the first failing filter", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("broken markup")
		called := false
		failing := devdocs.NamedFilter{Name: "clean_html", Filter: devdocs.FilterFunc(func(*devdocs.PageContext, string) (string, error) {
			return "", cause
		})}
		after := devdocs.NamedFilter{Name: "after", Filter: devdocs.FilterFunc(func(_ *devdocs.PageContext, c string) (string, error) {
			called = true
			return c, nil
		})}

		page, err := devdocs.NewPipeline("test", failing, after).Run(&devdocs.PageContext{Path: "a", Raw: "x"})

		assert.Nil(t, page)
		var fe *devdocs.FilterError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "clean_html", fe.Filter)
		assert.Equal(t, "a", fe.Path)
		assert.ErrorIs(t, err, cause)
		assert.False(t, called)
	})
}

func TestPipeline_Edit(t *testing.T) {
	t.Parallel()

	t.Run("inserts relative to named filters", func(t *testing.T) {
		t.Parallel()

		p := devdocs.NewPipeline("test", suffix("a", "a"), suffix("c", "c"))

		require.NoError(t, p.InsertBefore("c", suffix("b", "b")))
		require.NoError(t, p.InsertAfter("c", suffix("d", "d")))
		p.Push(suffix("e", "e"))

		assert.Equal(t, []string{"a", "b", "c", "d", "e"}, p.Names())
		page, err := p.Run(&devdocs.PageContext{})
		require.NoError(t, err)
		assert.Equal(t, "abcde", page.Content)
	})

	t.Run("replaces and removes filters", func(t *testing.T) {
		t.Parallel()

		p := devdocs.NewPipeline("test", suffix("a", "a"), suffix("b", "b"))

		require.NoError(t, p.Replace("a", suffix("", "z").Filter))
		require.NoError(t, p.Remove("b"))

		assert.True(t, p.Contains("a"))
		assert.False(t, p.Contains("b"))
		page, err := p.Run(&devdocs.PageContext{})
		require.NoError(t, err)
		assert.Equal(t, "z", page.Content)
	})

	t.Run("reports unknown targets", func(t *testing.T) {
		t.Parallel()

		p := devdocs.NewPipeline("test")

		assert.Equal(t, devdocs.ENOTFOUND, devdocs.ErrorCode(p.InsertBefore("missing", upper())))
		assert.Equal(t, devdocs.ENOTFOUND, devdocs.ErrorCode(p.InsertAfter("missing", upper())))
		assert.Equal(t, devdocs.ENOTFOUND, devdocs.ErrorCode(p.Replace("missing", upper().Filter)))
		assert.Equal(t, devdocs.ENOTFOUND, devdocs.ErrorCode(p.Remove("missing")))
	})

	t.Run("filters returns a copy", func(t *testing.T) {
		t.Parallel()

		p := devdocs.NewPipeline("test", suffix("a", "a"))

		filters := p.Filters()
		filters[0].Name = "changed"

		assert.Equal(t, []string{"a"}, p.Names())
	})
}
