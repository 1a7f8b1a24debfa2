package devdocs_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/devdocs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocType_Spec(t *testing.T) {
	t.Parallel()

	t.Run("compiles a url document", func(t *testing.T) {
		t.Parallel()

		dt := devdocs.DocType{
			Name:         "Babel",
			Slug:         "babel",
			BaseURLs:     []string{"https://babeljs.io/docs"},
			SkipPatterns: []string{`^usage/`},
			Versions: []devdocs.Version{
				{Version: "7", Release: "7.21.4"},
				{Version: "6", Release: "6.26.1", BaseURLs: []string{"https://old.babeljs.io/docs/"}},
			},
		}

		spec, err := dt.Spec("")
		require.NoError(t, err)
		assert.Equal(t, "7", spec.Version)
		assert.Equal(t, "7.21.4", spec.Release)
		assert.Equal(t, "babel~7", spec.OutputPath)
		assert.Equal(t, devdocs.KindURL, spec.Kind)
		assert.Equal(t, []string{"https://babeljs.io/docs/"}, spec.BaseURLs)
		assert.False(t, spec.Scope.ShouldProcess("https://babeljs.io/docs/usage/cli"))
		assert.Equal(t, "Babel 7", spec.DisplayName())

		spec, err = dt.Spec("6")
		require.NoError(t, err)
		assert.Equal(t, []string{"https://old.babeljs.io/docs/"}, spec.BaseURLs)
	})

	t.Run("rejects unknown versions", func(t *testing.T) {
		t.Parallel()

		dt := devdocs.DocType{Name: "CSS", BaseURLs: []string{"https://x/"}}

		_, err := dt.Spec("9")
		assert.Equal(t, devdocs.ENOTFOUND, devdocs.ErrorCode(err))
	})

	t.Run("rejects invalid patterns", func(t *testing.T) {
		t.Parallel()

		dt := devdocs.DocType{Name: "CSS", BaseURLs: []string{"https://x/"}, SkipPatterns: []string{"("}}

		_, err := dt.Spec("")
		assert.Equal(t, devdocs.EINVALID, devdocs.ErrorCode(err))
	})

	t.Run("requires base URLs or initial paths", func(t *testing.T) {
		t.Parallel()

		dt := devdocs.DocType{Name: "Empty"}

		_, err := dt.Spec("")
		assert.Equal(t, devdocs.EINVALID, devdocs.ErrorCode(err))
	})

	t.Run("prefixes file documents with their root", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		dt := devdocs.DocType{Name: "Local", Kind: devdocs.KindFile, Root: root, BaseURLs: []string{"https://local.dev/docs/"}}

		spec, err := dt.Spec("")
		require.NoError(t, err)
		require.Len(t, spec.BaseURLs, 2)
		assert.True(t, strings.HasPrefix(spec.BaseURLs[0], "file:///"))
		assert.Equal(t, "https://local.dev/docs/", spec.BaseURLs[1])
		assert.Equal(t, devdocs.DefaultExtensions, spec.Extensions)
		assert.Equal(t, "local", spec.OutputPath)
	})
}
