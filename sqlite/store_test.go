package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/devdocs"
	"github.com/fwojciec/devdocs/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestStore_Put(t *testing.T) {
	t.Parallel()

	t.Run("stores page with links and entries", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		store := sqlite.NewStore(db, testSpec(t))

		err := store.Put(ctx, &devdocs.ScrapedPage{
			Path:    "config",
			URL:     "https://babeljs.io/docs/config",
			Title:   "Configure Babel",
			Content: "<h1>Configure Babel</h1>",
			Text:    "Configure Babel",
			Links:   []string{"index", "options"},
			Entries: []devdocs.Entry{
				{Name: "Configure Babel", Path: "config", Type: "Guides"},
				{Name: "Configure Babel: JSON", Path: "config#json", Type: "Guides"},
			},
			Hash: "abc",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, store.DocID())

		page, err := sqlite.NewPageService(db).FindPage(ctx, "babel", "7", "config")
		require.NoError(t, err)
		assert.Equal(t, "https://babeljs.io/docs/config", page.URL)
		assert.Equal(t, "Configure Babel", page.Title)
		assert.Equal(t, "<h1>Configure Babel</h1>", page.Content)
		assert.Equal(t, "Configure Babel", page.Text)
		assert.Equal(t, []string{"index", "options"}, page.Links)
		assert.Equal(t, "abc", page.Hash)
		require.Len(t, page.Entries, 2)
		assert.Equal(t, "config#json", page.Entries[1].Path)
	})

	t.Run("hashes content when page has no hash", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		store := sqlite.NewStore(db, testSpec(t))
		require.NoError(t, store.Put(ctx, &devdocs.ScrapedPage{Path: "a", Content: "hello"}))
		require.NoError(t, store.Put(ctx, &devdocs.ScrapedPage{Path: "b", Content: "hello"}))

		svc := sqlite.NewPageService(db)
		a, err := svc.FindPage(ctx, "babel", "7", "a")
		require.NoError(t, err)
		b, err := svc.FindPage(ctx, "babel", "7", "b")
		require.NoError(t, err)
		assert.Len(t, a.Hash, 16)
		assert.Equal(t, a.Hash, b.Hash)
		assert.Nil(t, a.Links)
	})

	t.Run("second put of a path replaces the page and its entries", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		store := sqlite.NewStore(db, testSpec(t))
		require.NoError(t, store.Put(ctx, &devdocs.ScrapedPage{
			Path: "a", Title: "Old", Entries: []devdocs.Entry{{Name: "Old", Path: "a"}},
		}))
		require.NoError(t, store.Put(ctx, &devdocs.ScrapedPage{
			Path: "a", Title: "New", Entries: []devdocs.Entry{{Name: "New", Path: "a"}},
		}))

		svc := sqlite.NewPageService(db)
		pages, err := svc.FindPages(ctx, sqlite.PageFilter{Slug: "babel", Version: "7"})
		require.NoError(t, err)
		require.Len(t, pages, 1)
		assert.Equal(t, "New", pages[0].Title)

		entries, err := svc.FindEntries(ctx, "babel", "7")
		require.NoError(t, err)
		assert.Equal(t, []devdocs.Entry{{Name: "New", Path: "a"}}, entries)
	})

	t.Run("new run replaces pages of the previous run", func(t *testing.T) {
		t.Parallel()

		// Story: a document is scraped twice; the second run no longer
		// finds a page that the first run stored.
		db := setupTestDB(t)
		ctx := context.Background()

		first := sqlite.NewStore(db, testSpec(t))
		require.NoError(t, first.Put(ctx, &devdocs.ScrapedPage{Path: "index"}))
		require.NoError(t, first.Put(ctx, &devdocs.ScrapedPage{Path: "removed"}))

		second := sqlite.NewStore(db, testSpec(t))
		require.NoError(t, second.Put(ctx, &devdocs.ScrapedPage{Path: "index"}))

		assert.Equal(t, first.DocID(), second.DocID())
		_, err := sqlite.NewPageService(db).FindPage(ctx, "babel", "7", "removed")
		assert.Equal(t, devdocs.ENOTFOUND, devdocs.ErrorCode(err))
	})

	t.Run("keeps stored order", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		store := sqlite.NewStore(db, testSpec(t))
		for _, p := range []string{"index", "z", "b", "a"} {
			require.NoError(t, store.Put(ctx, &devdocs.ScrapedPage{Path: p}))
		}

		pages, err := sqlite.NewPageService(db).FindPages(ctx, sqlite.PageFilter{Slug: "babel", Version: "7", Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, pages, 2)
		assert.Equal(t, "z", pages[0].Path)
		assert.Equal(t, "b", pages[1].Path)
	})

	t.Run("rejects page without path", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewStore(setupTestDB(t), testSpec(t))
		err := store.Put(context.Background(), &devdocs.ScrapedPage{})
		assert.Equal(t, devdocs.EINVALID, devdocs.ErrorCode(err))
	})

	t.Run("returns context error when canceled", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewStore(setupTestDB(t), testSpec(t))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := store.Put(ctx, &devdocs.ScrapedPage{Path: "index"})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("fails after database is closed", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(":memory:")
		require.NoError(t, db.Open())
		require.NoError(t, db.Close())

		err := sqlite.NewStore(db, testSpec(t)).Put(context.Background(), &devdocs.ScrapedPage{Path: "index"})
		assert.Error(t, err)
	})
}

func TestDocService(t *testing.T) {
	t.Parallel()

	t.Run("finds stored document with page count", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		store := sqlite.NewStore(db, testSpec(t), sqlite.WithStoreClock(fixedClock))
		require.NoError(t, store.Put(ctx, &devdocs.ScrapedPage{Path: "index"}))
		require.NoError(t, store.Put(ctx, &devdocs.ScrapedPage{Path: "config"}))

		doc, err := sqlite.NewDocService(db).FindDoc(ctx, "babel", "7")
		require.NoError(t, err)
		assert.Equal(t, store.DocID(), doc.ID)
		assert.Equal(t, "Babel", doc.Name)
		assert.Equal(t, "7.26.0", doc.Release)
		assert.Equal(t, "MIT", doc.Attribution)
		assert.Equal(t, 2, doc.Pages)
		assert.Equal(t, fixedClock(), doc.CreatedAt)
	})

	t.Run("returns not found for unknown version", func(t *testing.T) {
		t.Parallel()

		_, err := sqlite.NewDocService(setupTestDB(t)).FindDoc(context.Background(), "babel", "6")
		assert.Equal(t, devdocs.ENOTFOUND, devdocs.ErrorCode(err))
	})

	t.Run("lists documents by slug", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		require.NoError(t, sqlite.NewStore(db, testSpec(t)).Begin(ctx))
		other := &devdocs.DocType{Name: "CSS", Slug: "css", BaseURLs: []string{"https://developer.mozilla.org/en-US/docs/Web/CSS/"}}
		spec, err := other.Spec("")
		require.NoError(t, err)
		require.NoError(t, sqlite.NewStore(db, spec).Begin(ctx))

		svc := sqlite.NewDocService(db)
		docs, err := svc.FindDocs(ctx, sqlite.DocFilter{})
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "babel", docs[0].Slug)
		assert.Equal(t, "css", docs[1].Slug)

		slug := "css"
		docs, err = svc.FindDocs(ctx, sqlite.DocFilter{Slug: &slug})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, 0, docs[0].Pages)
	})

	t.Run("delete cascades to pages and entries", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		require.NoError(t, sqlite.NewStore(db, testSpec(t)).Put(ctx, &devdocs.ScrapedPage{
			Path: "index", Entries: []devdocs.Entry{{Name: "Babel", Path: "index"}},
		}))

		svc := sqlite.NewDocService(db)
		require.NoError(t, svc.DeleteDoc(ctx, "babel", "7"))

		var pages, entries int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pages").Scan(&pages))
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&entries))
		assert.Zero(t, pages)
		assert.Zero(t, entries)

		err := svc.DeleteDoc(ctx, "babel", "7")
		assert.Equal(t, devdocs.ENOTFOUND, devdocs.ErrorCode(err))
	})
}
