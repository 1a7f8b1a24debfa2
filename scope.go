package devdocs

import (
	"net/url"
	"path"
	"regexp"
	"slices"
	"strings"
)

// Rules are the path policies of a document, applied to every candidate
// path before it may enter the frontier.
type Rules struct {
	// SkipPaths are skipped exactly or as directory prefixes.
	SkipPaths []string

	// SkipPatterns are matched against both the base-relative path and the
	// host-relative URL path.
	SkipPatterns []*regexp.Regexp

	// OnlyPatterns, when set, restrict scope to paths matching one of them.
	// The root page of each base is always allowed.
	OnlyPatterns []*regexp.Regexp

	// ReplacePaths rewrites exact paths before any other check.
	ReplacePaths map[string]string

	// TrailingSlash appends "/" to non-root paths when building URLs.
	TrailingSlash bool
}

// Scope decides which URLs belong to a document and how they map to paths.
// A Scope is immutable once built.
type Scope struct {
	bases   []*url.URL
	longest []int
	rules   Rules
}

// NewScope returns a Scope over the given base URLs, primary first.
func NewScope(baseURLs []string, rules Rules) (*Scope, error) {
	if len(baseURLs) == 0 {
		return nil, Errorf(EINVALID, "at least one base URL required")
	}

	s := &Scope{rules: rules}
	for _, raw := range baseURLs {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" {
			return nil, Errorf(EINVALID, "invalid base URL %q", raw)
		}
		u.Scheme = strings.ToLower(u.Scheme)
		u.Host = strings.ToLower(u.Host)
		u.RawQuery, u.Fragment, u.RawPath = "", "", ""
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		s.bases = append(s.bases, u)
	}

	s.longest = make([]int, len(s.bases))
	for i := range s.longest {
		s.longest[i] = i
	}
	slices.SortStableFunc(s.longest, func(a, b int) int {
		return len(s.bases[b].Path) - len(s.bases[a].Path)
	})

	s.rules.ReplacePaths = make(map[string]string, len(rules.ReplacePaths))
	for from, to := range rules.ReplacePaths {
		s.rules.ReplacePaths[cleanPath(from)] = cleanPath(to)
	}
	s.rules.SkipPaths = make([]string, 0, len(rules.SkipPaths))
	for _, p := range rules.SkipPaths {
		s.rules.SkipPaths = append(s.rules.SkipPaths, cleanPath(p))
	}

	return s, nil
}

// Bases returns the base URLs in declaration order.
func (s *Scope) Bases() []string {
	out := make([]string, len(s.bases))
	for i, b := range s.bases {
		out[i] = b.String()
	}
	return out
}

// Primary returns the first base URL.
func (s *Scope) Primary() string {
	return s.bases[0].String()
}

// Rules returns the normalized rules of the scope.
func (s *Scope) Rules() Rules {
	return s.rules
}

// URLToPath strips whichever base URL rawURL falls under, choosing the
// longest matching base. The result has fragment and query removed and
// relative segments resolved. Frontier paths are decoded; URL escapes them
// again.
func (s *Scope) URLToPath(rawURL string) (FrontierEntry, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() {
		return FrontierEntry{}, false
	}
	scheme, host := strings.ToLower(u.Scheme), strings.ToLower(u.Host)
	p := path.Clean("/" + u.Path)

	for _, i := range s.longest {
		b := s.bases[i]
		if b.Scheme != scheme || b.Host != host {
			continue
		}
		if p+"/" == b.Path || p == b.Path {
			return FrontierEntry{Path: "", BaseURL: b.String()}, true
		}
		if strings.HasPrefix(p, b.Path) {
			return FrontierEntry{Path: p[len(b.Path):], BaseURL: b.String()}, true
		}
	}
	return FrontierEntry{}, false
}

// Admit applies ReplacePaths and then the skip and only rules to an entry
// already inside the scope.
func (s *Scope) Admit(e FrontierEntry) (FrontierEntry, bool) {
	if to, ok := s.rules.ReplacePaths[e.Path]; ok {
		e.Path = to
	}
	if s.skipped(e) {
		return FrontierEntry{}, false
	}
	return e, true
}

// Candidate resolves href against the referring page and returns the entry
// it would occupy in the frontier, if it is in scope and not skipped.
func (s *Scope) Candidate(href, referrer string) (FrontierEntry, bool) {
	abs := href
	if referrer != "" {
		ref, err := url.Parse(referrer)
		if err != nil {
			return FrontierEntry{}, false
		}
		h, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return FrontierEntry{}, false
		}
		abs = ref.ResolveReference(h).String()
	}
	e, ok := s.URLToPath(abs)
	if !ok {
		return FrontierEntry{}, false
	}
	e.Referrer = referrer
	return s.Admit(e)
}

// ShouldProcess reports whether rawURL is under a base URL and not skipped.
func (s *Scope) ShouldProcess(rawURL string) bool {
	_, ok := s.Candidate(rawURL, "")
	return ok
}

// URL returns the absolute URL of an entry. The path is percent-encoded.
func (s *Scope) URL(e FrontierEntry) string {
	return e.BaseURL + EscapePath(s.FetchPath(e.Path))
}

// FetchPath returns the path as it should be requested from a source.
func (s *Scope) FetchPath(p string) string {
	if s.rules.TrailingSlash && p != "" && !strings.HasSuffix(p, "/") {
		return p + "/"
	}
	return p
}

func (s *Scope) skipped(e FrontierEntry) bool {
	hostPath := e.Path
	if b, err := url.Parse(e.BaseURL); err == nil {
		hostPath = b.Path + e.Path
	}

	for _, sp := range s.rules.SkipPaths {
		if e.Path == sp || strings.HasPrefix(e.Path, sp+"/") {
			return true
		}
	}
	for _, re := range s.rules.SkipPatterns {
		if re.MatchString(e.Path) || re.MatchString(hostPath) {
			return true
		}
	}
	if len(s.rules.OnlyPatterns) == 0 || e.Path == "" {
		return false
	}
	for _, re := range s.rules.OnlyPatterns {
		if re.MatchString(e.Path) || re.MatchString(hostPath) {
			return false
		}
	}
	return true
}

// cleanPath normalizes a configured path to the frontier form.
func cleanPath(p string) string {
	p = path.Clean("/" + strings.TrimSpace(p))
	return strings.TrimPrefix(p, "/")
}
