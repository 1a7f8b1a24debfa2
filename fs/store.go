package fs

import (
	"context"
	"encoding/json"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/devdocs"
)

var _ devdocs.Store = (*FileStore)(nil)

// IndexFile and MetaFile are written next to the pages on Commit.
const (
	IndexFile = "index.json"
	MetaFile  = "meta.json"
)

// Index is the search index of a scraped document.
type Index struct {
	Entries []devdocs.Entry `json:"entries"`
	Types   []EntryType     `json:"types"`
}

// EntryType counts the entries of one type.
type EntryType struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Slug  string `json:"slug"`
}

// Meta describes a scraped document.
type Meta struct {
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Type        string        `json:"type"`
	Version     string        `json:"version,omitempty"`
	Release     string        `json:"release,omitempty"`
	Links       devdocs.Links `json:"links,omitzero"`
	Attribution string        `json:"attribution,omitempty"`
	Pages       int           `json:"pages"`
	DBSize      int64         `json:"db_size"`
	Mtime       int64         `json:"mtime"`
}

// FileStore implements devdocs.Store with atomic update semantics.
// Pages are saved to a temporary directory, then moved atomically on Commit.
type FileStore struct {
	baseDir string
	name    string
	ext     string
	meta    Meta
	now     func() time.Time

	mu    sync.Mutex
	pages map[string]storedPage
}

// storedPage is what Commit needs to know about a saved page file.
type storedPage struct {
	entries []devdocs.Entry
	size    int64
}

// StoreOption configures a FileStore.
type StoreOption func(*FileStore)

// WithPageExtension sets the extension page files are written with.
// Defaults to ".html".
func WithPageExtension(ext string) StoreOption {
	return func(s *FileStore) {
		s.ext = ext
	}
}

// WithClock sets the clock the meta mtime is read from.
func WithClock(now func() time.Time) StoreOption {
	return func(s *FileStore) {
		s.now = now
	}
}

// NewFileStore creates a FileStore for one document version. Files are
// saved to baseDir/<output>.tmp and moved to baseDir/<output> on Commit,
// where output is the spec's OutputPath.
func NewFileStore(baseDir string, spec *devdocs.DocumentSpec, opts ...StoreOption) *FileStore {
	s := &FileStore{
		baseDir: baseDir,
		name:    spec.OutputPath,
		ext:     ".html",
		now:     time.Now,
		pages:   make(map[string]storedPage),
		meta: Meta{
			Name:        spec.Name,
			Slug:        spec.Slug,
			Type:        spec.Kind,
			Version:     spec.Version,
			Release:     spec.Release,
			Links:       spec.Links,
			Attribution: spec.Attribution,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Dir returns the directory the document is committed to.
func (s *FileStore) Dir() string {
	return s.finalDir()
}

// Put implements devdocs.Store. It writes the page content to its stored
// path and keeps its entries for the index. A page stored again under the
// same path replaces the earlier one, entries included.
func (s *FileStore) Put(ctx context.Context, page *devdocs.ScrapedPage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rel, err := pageFile(page.Path, s.ext)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return devdocs.Errorf(devdocs.EUNAVAILABLE, "creating %s: %v", filepath.Dir(fullPath), err)
	}
	if err := os.WriteFile(fullPath, []byte(page.Content), 0644); err != nil {
		return devdocs.Errorf(devdocs.EUNAVAILABLE, "writing %s: %v", fullPath, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta.DBSize -= s.pages[rel].size
	s.pages[rel] = storedPage{
		entries: slices.Clone(page.Entries),
		size:    int64(len(page.Content)),
	}
	s.meta.DBSize += int64(len(page.Content))
	s.meta.Pages = len(s.pages)
	return nil
}

// pageFile maps a stored page path to its file, rejecting paths that would
// leave the output directory.
func pageFile(p, ext string) (string, error) {
	clean := path.Clean("/" + p)
	if clean == "/" || slices.Contains(strings.Split(p, "/"), "..") {
		return "", devdocs.Errorf(devdocs.EINVALID, "invalid page path %q", p)
	}
	return strings.TrimPrefix(clean, "/") + ext, nil
}

// Commit writes the index and meta files and atomically replaces the
// committed document with the pages saved so far.
func (s *FileStore) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return devdocs.Errorf(devdocs.EUNAVAILABLE, "creating %s: %v", s.tempDir(), err)
	}

	var entries []devdocs.Entry
	for _, p := range s.pages {
		entries = append(entries, p.entries...)
	}
	meta := s.meta
	meta.Mtime = s.now().Unix()
	if err := writeJSON(filepath.Join(s.tempDir(), IndexFile), BuildIndex(entries)); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(s.tempDir(), MetaFile), meta); err != nil {
		return err
	}

	// Remove existing final directory if present
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards the pages saved so far.
func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}

// BuildIndex sorts entries by name and path and counts them per type.
// Types are ordered by name.
func BuildIndex(entries []devdocs.Entry) *Index {
	sorted := slices.Clone(entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := strings.ToLower(sorted[i].Name), strings.ToLower(sorted[j].Name)
		if a != b {
			return a < b
		}
		return sorted[i].Path < sorted[j].Path
	})

	counts := make(map[string]int)
	for _, e := range sorted {
		counts[e.Type]++
	}
	types := make([]EntryType, 0, len(counts))
	for name, n := range counts {
		types = append(types, EntryType{Name: name, Count: n, Slug: slugify(name)})
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })

	if sorted == nil {
		sorted = []devdocs.Entry{}
	}
	return &Index{Entries: sorted, Types: types}
}

func slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			b.WriteRune(r)
			dash = false
		} else if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return devdocs.Errorf(devdocs.EINTERNAL, "encoding %s: %v", filepath.Base(name), err)
	}
	if err := os.WriteFile(name, append(data, '\n'), 0644); err != nil {
		return devdocs.Errorf(devdocs.EUNAVAILABLE, "writing %s: %v", name, err)
	}
	return nil
}
