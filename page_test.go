package devdocs_test

import (
	"testing"

	"github.com/fwojciec/devdocs"
	"github.com/stretchr/testify/assert"
)

func TestRelativePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to, want string
	}{
		{"a/b", "a/c", "c"},
		{"a/b", "a", "../a"},
		{"", "x/y", "x/y"},
		{"x/y", "", "../index"},
		{"a/b/c", "a/d/e", "../d/e"},
		{"a/b", "a/b", "b"},
		{"guide", "api", "api"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, devdocs.RelativePath(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestRelativeLink(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to, want string
	}{
		{"a/b", "a/c", "c"},
		{"", "100%-coverage", "100%25-coverage"},
		{"guide", "what?now", "what%3Fnow"},
		{"guide", "a b#c", "a%20b%23c"},
		{"guide", "std:vector", "./std:vector"},
		{"x/y", "x/std:vector", "./std:vector"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, devdocs.RelativeLink(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestEscapePath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", devdocs.EscapePath(""))
	assert.Equal(t, "a/b/", devdocs.EscapePath("a/b/"))
	assert.Equal(t, "100%25-coverage", devdocs.EscapePath("100%-coverage"))
	assert.Equal(t, "what%3Fnow", devdocs.EscapePath("what?now"))
}

func TestPageContext(t *testing.T) {
	t.Parallel()

	t.Run("records links once", func(t *testing.T) {
		t.Parallel()

		pc := &devdocs.PageContext{}
		pc.AddLink("a")
		pc.AddLink("b")
		pc.AddLink("a")

		assert.Equal(t, []string{"a", "b"}, pc.Links)
	})

	t.Run("stores scratch values", func(t *testing.T) {
		t.Parallel()

		pc := &devdocs.PageContext{}
		assert.Nil(t, pc.Value("lang"))

		pc.Set("lang", "go")
		assert.Equal(t, "go", pc.Value("lang"))
	})
}
