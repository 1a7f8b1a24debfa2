// Package fs provides the filesystem implementations of devdocs.ContentSource
// and devdocs.PathLister, and a directory-backed devdocs.Store.
package fs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/devdocs"
	"golang.org/x/net/html/charset"
)

var (
	_ devdocs.ContentSource = (*Source)(nil)
	_ devdocs.PathLister    = (*Source)(nil)
)

var errEscapesRoot = errors.New("path escapes root")

// Source reads documentation files below a root directory. Logical paths
// are root-relative file paths without their extension; an index file
// stands for its directory.
type Source struct {
	root       string
	extensions []string
}

// NewSource returns a Source for root reading files with the given
// extensions, or devdocs.DefaultExtensions when none are given.
func NewSource(root string, extensions ...string) *Source {
	if len(extensions) == 0 {
		extensions = devdocs.DefaultExtensions
	}
	return &Source{root: root, extensions: extensions}
}

// Root returns the directory the source reads from.
func (s *Source) Root() string {
	return s.root
}

// realRoot returns the absolute root with symlinks resolved.
func (s *Source) realRoot() (string, error) {
	abs, err := filepath.Abs(s.root)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// Fetch implements devdocs.ContentSource. The content URL is baseURL joined
// with the escaped path so
// that a page reads the same whether it came from disk or the network. A
// directory index reports its directory URL with a trailing slash, which
// is what relative links inside it resolve against.
func (s *Source) Fetch(ctx context.Context, p, baseURL string) (*devdocs.RawContent, error) {
	fail := func(kind devdocs.FetchKind, err error) (*devdocs.RawContent, error) {
		return nil, &devdocs.FetchError{Kind: kind, Path: p, URL: baseURL + devdocs.EscapePath(p), Err: err}
	}
	if err := ctx.Err(); err != nil {
		return fail(devdocs.FetchIO, err)
	}

	rel := strings.Trim(p, "/")
	if slices.Contains(strings.Split(rel, "/"), "..") {
		return fail(devdocs.FetchIO, errEscapesRoot)
	}
	root, err := s.realRoot()
	if err != nil {
		return fail(devdocs.FetchNotFound, err)
	}

	for _, candidate := range s.candidates(rel) {
		full, ok, err := locate(root, candidate)
		if err != nil {
			return fail(devdocs.FetchIO, err)
		}
		if !ok {
			continue
		}

		resolved, err := filepath.EvalSymlinks(full)
		if err != nil {
			return fail(devdocs.FetchIO, err)
		}
		if !within(root, resolved) {
			return fail(devdocs.FetchIO, errEscapesRoot)
		}

		body, err := os.ReadFile(resolved)
		if err != nil {
			return fail(devdocs.FetchIO, err)
		}
		text, err := decode(body)
		if err != nil {
			return fail(devdocs.FetchDecode, err)
		}
		url := baseURL + devdocs.EscapePath(p)
		if rel != "" && isIndexFile(candidate) && !isIndexFile(rel) {
			url = baseURL + devdocs.EscapePath(rel+"/")
		}
		return &devdocs.RawContent{
			URL:         url,
			Path:        p,
			ContentType: "text/html",
			Body:        text,
		}, nil
	}
	return fail(devdocs.FetchNotFound, fs.ErrNotExist)
}

// candidates lists the files a logical path may be stored in, in order.
func (s *Source) candidates(rel string) []string {
	var out []string
	if rel != "" && s.hasExtension(path.Ext(rel)) {
		out = append(out, rel)
	}
	for _, ext := range s.extensions {
		if rel != "" {
			out = append(out, rel+ext)
		}
		out = append(out, path.Join(rel, "index"+ext))
	}
	return out
}

// locate finds the regular file candidate names below root. The extension
// is matched case-insensitively, as ListPaths does, so guide.HTML serves
// the logical path guide.
func locate(root, candidate string) (string, bool, error) {
	full := filepath.Join(root, filepath.FromSlash(candidate))
	info, err := os.Stat(full)
	switch {
	case err == nil:
		return full, !info.IsDir(), nil
	case !errors.Is(err, fs.ErrNotExist):
		return "", false, err
	}

	dir, name := filepath.Split(full)
	ext := path.Ext(name)
	if ext == "" {
		return "", false, nil
	}
	stem := strings.TrimSuffix(name, ext)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false, nil
	}
	for _, de := range entries {
		n := de.Name()
		e := path.Ext(n)
		if !strings.EqualFold(e, ext) || strings.TrimSuffix(n, e) != stem {
			continue
		}
		match := filepath.Join(dir, n)
		if info, err := os.Stat(match); err == nil && !info.IsDir() {
			return match, true, nil
		}
	}
	return "", false, nil
}

func isIndexFile(p string) bool {
	return strings.HasPrefix(path.Base(p), "index.")
}

// ListPaths implements devdocs.PathLister. It walks the root following
// directory symlinks, visiting each real directory once, and returns the
// sorted logical paths of every file with a recognized extension. Hidden
// files and directories are skipped, as are symlinks leading outside the
// root.
func (s *Source) ListPaths(ctx context.Context) ([]string, error) {
	root, err := s.realRoot()
	if err != nil {
		return nil, devdocs.Errorf(devdocs.ENOTFOUND, "documentation root %s: %v", s.root, err)
	}

	seen := make(map[string]bool)
	paths := make(map[string]bool)
	if err := s.walk(ctx, root, root, "", seen, paths); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(paths))
	for p := range paths {
		out = append(out, p)
	}
	slices.Sort(out)
	return out, nil
}

func (s *Source) walk(ctx context.Context, root, dir, rel string, seen, paths map[string]bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil || seen[resolved] || !within(root, resolved) {
		return nil
	}
	seen[resolved] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		return devdocs.Errorf(devdocs.EINTERNAL, "reading %s: %v", dir, err)
	}
	for _, de := range entries {
		name := de.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		full := filepath.Join(dir, name)
		childRel := path.Join(rel, name)

		info, err := os.Stat(full)
		if err != nil {
			// Dangling symlink.
			continue
		}
		if info.IsDir() {
			if err := s.walk(ctx, root, full, childRel, seen, paths); err != nil {
				return err
			}
			continue
		}

		ext := path.Ext(name)
		if !s.hasExtension(ext) {
			continue
		}
		if de.Type()&fs.ModeSymlink != 0 {
			if target, err := filepath.EvalSymlinks(full); err != nil || !within(root, target) {
				continue
			}
		}
		paths[LogicalPath(childRel, ext)] = true
	}
	return nil
}

func (s *Source) hasExtension(ext string) bool {
	return ext != "" && slices.Contains(s.extensions, strings.ToLower(ext))
}

// LogicalPath strips ext from a root-relative file path. An index file
// maps to its directory, and the root index to the empty path.
func LogicalPath(rel, ext string) string {
	p := strings.TrimSuffix(rel, ext)
	if p == "index" {
		return ""
	}
	return strings.TrimSuffix(p, "/index")
}

// within reports whether p is root or lies below it.
func within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// decode converts file content to UTF-8 using a byte order mark, a <meta>
// declaration, or sniffing.
func decode(body []byte) (string, error) {
	e, name, _ := charset.DetermineEncoding(body, "text/html")
	if name == "utf-8" {
		if !utf8.Valid(body) {
			return "", errors.New("invalid UTF-8")
		}
		return strings.TrimPrefix(string(body), "\ufeff"), nil
	}
	out, err := e.NewDecoder().Bytes(body)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
