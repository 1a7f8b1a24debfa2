package devdocs

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

// Document kinds.
const (
	KindURL  = "url"
	KindFile = "file"
)

// DefaultExtensions are the file extensions a file document reads when its
// type does not declare any.
var DefaultExtensions = []string{".html", ".htm"}

// DocType is the static, declarative configuration of one document type.
// It is pure data; Spec compiles it into a DocumentSpec.
type DocType struct {
	Name          string            `yaml:"name"`
	Slug          string            `yaml:"slug"`
	Kind          string            `yaml:"type"`
	Release       string            `yaml:"release"`
	Versions      []Version         `yaml:"versions"`
	BaseURLs      []string          `yaml:"base_urls"`
	Root          string            `yaml:"root"`
	Extensions    []string          `yaml:"extensions"`
	InitialPaths  []string          `yaml:"initial_paths"`
	SkipPaths     []string          `yaml:"skip_paths"`
	SkipPatterns  []string          `yaml:"skip_patterns"`
	OnlyPatterns  []string          `yaml:"only_patterns"`
	ReplacePaths  map[string]string `yaml:"replace_paths"`
	TrailingSlash bool              `yaml:"trailing_slash"`
	RootTitle     string            `yaml:"root_title"`
	Attribution   string            `yaml:"attribution"`
	Links         Links             `yaml:"links"`
	Filters       []string          `yaml:"filters"`
	Clean         CleanRules        `yaml:"clean"`
	EntryTypes    map[string]string `yaml:"entry_types"`
	MaxPages      int               `yaml:"max_pages"`
	Sitemap       bool              `yaml:"sitemap"`
}

// Version overrides parts of a DocType for one version.
type Version struct {
	Version  string   `yaml:"version"`
	Release  string   `yaml:"release"`
	BaseURLs []string `yaml:"base_urls"`
	Root     string   `yaml:"root"`
}

// Links points at the project behind a document.
type Links struct {
	Home string `yaml:"home" json:"home,omitempty"`
	Code string `yaml:"code" json:"code,omitempty"`
}

// CleanRules configure the HTML cleaner for a document type.
type CleanRules struct {
	// Container selects the element that is the page content. When it
	// matches nothing the whole body is kept.
	Container string `yaml:"container"`

	// Remove lists selectors of elements to drop. Selectors depending on
	// sibling position are rejected.
	Remove []string `yaml:"remove"`

	// RemoveAttrs lists attributes stripped from every element.
	RemoveAttrs []string `yaml:"remove_attrs"`
}

// ID returns the identifier the type is registered under.
func (t *DocType) ID() string {
	if t.Slug != "" {
		return t.Slug
	}
	return strings.ToLower(t.Name)
}

// VersionNames returns the declared version names, default first.
func (t *DocType) VersionNames() []string {
	names := make([]string, 0, len(t.Versions))
	for _, v := range t.Versions {
		names = append(names, v.Version)
	}
	return names
}

// Spec compiles the type for a version. An empty version selects the first
// declared version. Returns ENOTFOUND for an undeclared version and
// EINVALID for malformed configuration.
func (t *DocType) Spec(version string) (*DocumentSpec, error) {
	release := t.Release
	baseURLs := t.BaseURLs
	root := t.Root

	if len(t.Versions) > 0 {
		v, ok := t.findVersion(version)
		if !ok {
			return nil, Errorf(ENOTFOUND, "%s has no version %q", t.ID(), version)
		}
		version = v.Version
		if v.Release != "" {
			release = v.Release
		}
		if len(v.BaseURLs) > 0 {
			baseURLs = v.BaseURLs
		}
		if v.Root != "" {
			root = v.Root
		}
	} else if version != "" {
		return nil, Errorf(ENOTFOUND, "%s has no version %q", t.ID(), version)
	}

	kind := t.Kind
	if kind == "" {
		kind = KindURL
	}

	spec := &DocumentSpec{
		Name:         t.Name,
		Slug:         t.ID(),
		Kind:         kind,
		Version:      version,
		Release:      release,
		Root:         root,
		Extensions:   t.Extensions,
		InitialPaths: t.InitialPaths,
		Filters:      t.Filters,
		Clean:        t.Clean,
		EntryTypes:   t.EntryTypes,
		RootTitle:    t.RootTitle,
		Attribution:  t.Attribution,
		Links:        t.Links,
		MaxPages:     t.MaxPages,
		Sitemap:      t.Sitemap,
	}
	if len(spec.Extensions) == 0 {
		spec.Extensions = DefaultExtensions
	}
	spec.OutputPath = spec.Slug
	if version != "" {
		spec.OutputPath += "~" + version
	}

	rules := Rules{
		SkipPaths:     t.SkipPaths,
		ReplacePaths:  t.ReplacePaths,
		TrailingSlash: t.TrailingSlash,
	}
	var err error
	if rules.SkipPatterns, err = compilePatterns(t.SkipPatterns); err != nil {
		return nil, err
	}
	if rules.OnlyPatterns, err = compilePatterns(t.OnlyPatterns); err != nil {
		return nil, err
	}

	bases := baseURLs
	if kind == KindFile && root != "" {
		fileBase, err := FileBaseURL(root)
		if err != nil {
			return nil, err
		}
		bases = append([]string{fileBase}, baseURLs...)
	}
	spec.BaseURLs = bases

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if spec.Scope, err = NewScope(bases, rules); err != nil {
		return nil, err
	}
	spec.BaseURLs = spec.Scope.Bases()
	return spec, nil
}

func (t *DocType) findVersion(version string) (Version, bool) {
	if version == "" {
		return t.Versions[0], true
	}
	for _, v := range t.Versions {
		if v.Version == version {
			return v, true
		}
	}
	return Version{}, false
}

// DocumentSpec is the compiled identity and policy of one document version.
// It must not be modified after construction.
type DocumentSpec struct {
	Name         string
	Slug         string
	Kind         string
	Version      string
	Release      string
	BaseURLs     []string
	Root         string
	Extensions   []string
	OutputPath   string
	InitialPaths []string
	Scope        *Scope
	Filters      []string
	Clean        CleanRules
	EntryTypes   map[string]string
	RootTitle    string
	Attribution  string
	Links        Links
	MaxPages     int
	Sitemap      bool
}

// Validate returns an error if the spec cannot drive a run.
func (s *DocumentSpec) Validate() error {
	if s.Name == "" {
		return Errorf(EINVALID, "document name required")
	}
	if len(s.BaseURLs) == 0 && len(s.InitialPaths) == 0 {
		return Errorf(EINVALID, "%s: base URLs or initial paths required", s.Name)
	}
	switch s.Kind {
	case KindURL:
		if len(s.BaseURLs) == 0 {
			return Errorf(EINVALID, "%s: base URL required", s.Name)
		}
	case KindFile:
		if s.Root == "" {
			return Errorf(EINVALID, "%s: root directory required", s.Name)
		}
	default:
		return Errorf(EINVALID, "%s: unknown document type %q", s.Name, s.Kind)
	}
	return nil
}

// DisplayName returns the name with the version appended, if any.
func (s *DocumentSpec) DisplayName() string {
	if s.Version == "" {
		return s.Name
	}
	return s.Name + " " + s.Version
}

// FileBaseURL returns the file:// base URL of a local documentation root.
func FileBaseURL(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", Errorf(EINVALID, "invalid root %q: %v", root, err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs) + "/"}
	return u.String(), nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	var out []*regexp.Regexp
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid pattern %q: %v", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}
