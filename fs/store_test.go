package fs_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/devdocs"
	"github.com/fwojciec/devdocs/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpec(t *testing.T) *devdocs.DocumentSpec {
	t.Helper()
	dt := devdocs.DocType{
		Name:        "Babel",
		Slug:        "babel",
		Versions:    []devdocs.Version{{Version: "7", Release: "7.26.0"}},
		BaseURLs:    []string{"https://babeljs.io/docs/"},
		Attribution: "MIT",
		Links:       devdocs.Links{Home: "https://babeljs.io/"},
	}
	spec, err := dt.Spec("")
	require.NoError(t, err)
	return spec
}

func put(t *testing.T, store *fs.FileStore, page *devdocs.ScrapedPage) {
	t.Helper()
	require.NoError(t, store.Put(context.Background(), page))
}

// Story: Atomic File Storage
// The store uses temp directory for atomic updates

func TestFileStore_PutWritesToTempDirectory(t *testing.T) {
	t.Parallel()

	// Given a store targeting a directory
	base := t.TempDir()
	store := fs.NewFileStore(base, testSpec(t))

	// When I store a page
	put(t, store, &devdocs.ScrapedPage{Path: "plugins/jsx", Content: "<h1>JSX</h1>"})

	// Then the file exists in the temp directory
	content, err := os.ReadFile(filepath.Join(base, "babel~7.tmp", "plugins", "jsx.html"))
	require.NoError(t, err, "file should exist in temp directory")
	assert.Equal(t, "<h1>JSX</h1>", string(content))

	// And the final directory does not exist yet
	_, err = os.Stat(filepath.Join(base, "babel~7"))
	assert.True(t, os.IsNotExist(err), "final directory should not exist until commit")
}

func TestFileStore_CommitMovesFromTempToFinal(t *testing.T) {
	t.Parallel()

	// Given a store with saved pages and an existing older copy
	base := t.TempDir()
	writeTree(t, base, map[string]string{"babel~7/stale.html": "old"})
	store := fs.NewFileStore(base, testSpec(t), fs.WithPageExtension(".md"))
	put(t, store, &devdocs.ScrapedPage{Path: "index", Content: "# Babel"})

	// When I commit
	require.NoError(t, store.Commit())

	// Then the final directory holds the new pages only
	_, err := os.Stat(filepath.Join(base, "babel~7", "index.md"))
	require.NoError(t, err, "file should exist in final directory after commit")
	_, err = os.Stat(filepath.Join(base, "babel~7", "stale.html"))
	assert.True(t, os.IsNotExist(err), "older pages should be replaced")
	assert.Equal(t, filepath.Join(base, "babel~7"), store.Dir())

	// And the temp directory is gone
	_, err = os.Stat(filepath.Join(base, "babel~7.tmp"))
	assert.True(t, os.IsNotExist(err), "temp directory should be removed after commit")
}

func TestFileStore_AbortCleansUpTempDirectory(t *testing.T) {
	t.Parallel()

	// Given a store with saved pages
	base := t.TempDir()
	store := fs.NewFileStore(base, testSpec(t))
	put(t, store, &devdocs.ScrapedPage{Path: "a", Content: "a"})

	// When I abort
	require.NoError(t, store.Abort())

	// Then neither directory exists
	_, err := os.Stat(filepath.Join(base, "babel~7.tmp"))
	assert.True(t, os.IsNotExist(err), "temp directory should be removed after abort")
	_, err = os.Stat(filepath.Join(base, "babel~7"))
	assert.True(t, os.IsNotExist(err), "final directory should not exist after abort")
}

func TestFileStore_RejectsEscapingPaths(t *testing.T) {
	t.Parallel()

	store := fs.NewFileStore(t.TempDir(), testSpec(t))

	for _, p := range []string{"../evil", "a/../../b", ""} {
		err := store.Put(context.Background(), &devdocs.ScrapedPage{Path: p, Content: "x"})
		assert.Equal(t, devdocs.EINVALID, devdocs.ErrorCode(err), p)
	}
}

// Story: Index and Meta
// Commit describes the document next to its pages

func TestFileStore_CommitWritesIndexAndMeta(t *testing.T) {
	t.Parallel()

	// Given a store that saw pages with entries
	base := t.TempDir()
	clock := func() time.Time { return time.Unix(1700000000, 0) }
	store := fs.NewFileStore(base, testSpec(t), fs.WithClock(clock))
	put(t, store, &devdocs.ScrapedPage{Path: "usage", Content: "12345", Entries: []devdocs.Entry{
		{Name: "Usage", Path: "usage", Type: "Guides"},
	}})
	put(t, store, &devdocs.ScrapedPage{Path: "plugins/jsx", Content: "123", Entries: []devdocs.Entry{
		{Name: "JSX", Path: "plugins/jsx", Type: "Plugins"},
		{Name: "JSX: Options", Path: "plugins/jsx#options", Type: "Plugins"},
	}})

	// When I commit
	require.NoError(t, store.Commit())

	// Then index.json lists the sorted entries and type counts
	var index fs.Index
	readJSON(t, filepath.Join(base, "babel~7", fs.IndexFile), &index)
	assert.Equal(t, []devdocs.Entry{
		{Name: "JSX", Path: "plugins/jsx", Type: "Plugins"},
		{Name: "JSX: Options", Path: "plugins/jsx#options", Type: "Plugins"},
		{Name: "Usage", Path: "usage", Type: "Guides"},
	}, index.Entries)
	assert.Equal(t, []fs.EntryType{
		{Name: "Guides", Count: 1, Slug: "guides"},
		{Name: "Plugins", Count: 2, Slug: "plugins"},
	}, index.Types)

	// And meta.json describes the document
	var meta fs.Meta
	readJSON(t, filepath.Join(base, "babel~7", fs.MetaFile), &meta)
	assert.Equal(t, fs.Meta{
		Name:        "Babel",
		Slug:        "babel",
		Type:        devdocs.KindURL,
		Version:     "7",
		Release:     "7.26.0",
		Links:       devdocs.Links{Home: "https://babeljs.io/"},
		Attribution: "MIT",
		Pages:       2,
		DBSize:      8,
		Mtime:       1700000000,
	}, meta)
}

func TestFileStore_PutReplacesPageAtSamePath(t *testing.T) {
	t.Parallel()

	// Given two bases that both have a page at the same relative path
	base := t.TempDir()
	store := fs.NewFileStore(base, testSpec(t))
	put(t, store, &devdocs.ScrapedPage{Path: "index", Content: "first page", Entries: []devdocs.Entry{
		{Name: "Docs", Path: "index", Type: "Guides"},
	}})
	put(t, store, &devdocs.ScrapedPage{Path: "index", Content: "second", Entries: []devdocs.Entry{
		{Name: "Docs v2", Path: "index", Type: "Guides"},
	}})

	// When I commit
	require.NoError(t, store.Commit())

	// Then the page file holds the last content
	content, err := os.ReadFile(filepath.Join(base, "babel~7", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))

	// And the index and meta count it once
	var index fs.Index
	readJSON(t, filepath.Join(base, "babel~7", fs.IndexFile), &index)
	assert.Equal(t, []devdocs.Entry{{Name: "Docs v2", Path: "index", Type: "Guides"}}, index.Entries)
	var meta fs.Meta
	readJSON(t, filepath.Join(base, "babel~7", fs.MetaFile), &meta)
	assert.Equal(t, 1, meta.Pages)
	assert.Equal(t, int64(len("second")), meta.DBSize)
}

func TestBuildIndex(t *testing.T) {
	t.Parallel()

	t.Run("returns an empty index for no entries", func(t *testing.T) {
		t.Parallel()

		index := fs.BuildIndex(nil)

		assert.NotNil(t, index.Entries)
		assert.Empty(t, index.Types)
	})

	t.Run("slugifies type names", func(t *testing.T) {
		t.Parallel()

		index := fs.BuildIndex([]devdocs.Entry{{Name: "a", Path: "a", Type: "Built-in Objects: Array"}})

		assert.Equal(t, "built-in-objects-array", index.Types[0].Slug)
	})
}

func readJSON(t *testing.T, name string, v any) {
	t.Helper()
	data, err := os.ReadFile(name)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}
