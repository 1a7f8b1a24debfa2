package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/devdocs"
	"github.com/fwojciec/devdocs/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const docPage = `<!DOCTYPE html>
<html>
<head>
<title>Getting Started - My Docs</title>
<meta property="og:title" content="Getting Started Guide">
</head>
<body>
<nav><a href="/">Home</a><a href="/docs">Docs</a></nav>
<article>
<h1>Getting Started</h1>
<p>This is important documentation content that should be extracted for offline reading.</p>
<p>It explains how to install the package and configure the first project in detail.</p>
<pre><code>func main() { fmt.Println("Hello") }</code></pre>
</article>
<footer>Copyright 2024</footer>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts title and main content", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract(docPage)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
		assert.Contains(t, result.ContentHTML, "important documentation content")
		assert.Contains(t, result.ContentHTML, "func main()")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := trafilatura.NewExtractor().Extract("")

		assert.Equal(t, devdocs.EINVALID, devdocs.ErrorCode(err))
	})
}

func TestExtractor_Apply(t *testing.T) {
	t.Parallel()

	t.Run("sets the title when missing", func(t *testing.T) {
		t.Parallel()

		pc := &devdocs.PageContext{Path: "start", URL: "https://x/docs/start"}

		out, err := trafilatura.NewExtractor().Apply(pc, docPage)

		require.NoError(t, err)
		assert.NotEmpty(t, pc.Title)
		assert.Contains(t, out, "important documentation content")
	})

	t.Run("keeps an existing title", func(t *testing.T) {
		t.Parallel()

		pc := &devdocs.PageContext{Path: "start", Title: "Start"}

		_, err := trafilatura.NewExtractor().Apply(pc, docPage)

		require.NoError(t, err)
		assert.Equal(t, "Start", pc.Title)
	})
}
