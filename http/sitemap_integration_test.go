//go:build integration

package http_test

import (
	"context"
	"strings"
	"testing"
	"time"

	devdocshttp "github.com/fwojciec/devdocs/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitemapService_Integration_BabelDocs(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	svc := devdocshttp.NewSource().Sitemaps()

	urls, err := svc.DiscoverURLs(ctx, "https://babeljs.io/docs/")
	require.NoError(t, err)

	assert.NotEmpty(t, urls, "expected URLs under /docs/ from babeljs.io sitemap")
	for _, u := range urls {
		assert.True(t, strings.HasPrefix(u, "https://babeljs.io/docs/"), u)
	}
}
