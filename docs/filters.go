package docs

import (
	"slices"
	"sort"
	"strings"

	"github.com/fwojciec/devdocs"
	"github.com/fwojciec/devdocs/goquery"
	"github.com/fwojciec/devdocs/htmltomarkdown"
	"github.com/fwojciec/devdocs/readability"
	"github.com/fwojciec/devdocs/trafilatura"
)

// Filter names.
const (
	FilterTitle       = "title"
	FilterClean       = "clean_html"
	FilterNormalize   = "normalize_urls"
	FilterText        = "text"
	FilterEntries     = "entries"
	FilterMarkdown    = "markdown"
	FilterTrafilatura = "trafilatura"
	FilterReadability = "readability"
)

// DefaultFilters is the pipeline of a type that names no filters.
var DefaultFilters = []string{FilterTitle, FilterClean, FilterNormalize, FilterText, FilterEntries}

// FilterFactory builds a filter for a document.
type FilterFactory func(spec *devdocs.DocumentSpec) (devdocs.Filter, error)

var filters = map[string]FilterFactory{
	FilterTitle: func(spec *devdocs.DocumentSpec) (devdocs.Filter, error) {
		return goquery.NewTitleFilter(spec.RootTitle), nil
	},
	FilterClean: func(spec *devdocs.DocumentSpec) (devdocs.Filter, error) {
		return goquery.NewCleaner(spec.Clean, goquery.WithDetector(goquery.NewDetector()))
	},
	FilterNormalize: func(spec *devdocs.DocumentSpec) (devdocs.Filter, error) {
		if spec.Kind == devdocs.KindFile {
			return goquery.NewNormalizer(goquery.WithExtensions(spec.Extensions...)), nil
		}
		return goquery.NewNormalizer(), nil
	},
	FilterText: func(*devdocs.DocumentSpec) (devdocs.Filter, error) {
		return goquery.NewTextFilter(), nil
	},
	FilterEntries: func(spec *devdocs.DocumentSpec) (devdocs.Filter, error) {
		return goquery.NewIndexFilter(spec.Name, spec.EntryTypes), nil
	},
	FilterMarkdown: func(*devdocs.DocumentSpec) (devdocs.Filter, error) {
		return htmltomarkdown.NewConverter(), nil
	},
	FilterTrafilatura: func(*devdocs.DocumentSpec) (devdocs.Filter, error) {
		return trafilatura.NewExtractor(), nil
	},
	FilterReadability: func(*devdocs.DocumentSpec) (devdocs.Filter, error) {
		return readability.NewExtractor(), nil
	},
}

// FilterNames returns the names a type may list in its filters, sorted.
func FilterNames() []string {
	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewPipeline builds the filter pipeline of spec. A type either lists the
// filters to run, or edits DefaultFilters with entries of the form:
//
//	-name        drop name
//	name<target  insert name before target
//	name>target  insert name after target
//	target=name  run name in place of target
//
// Edits mixed with plain names apply to the filters listed before them.
// Unknown filter names and edits of absent filters return EINVALID.
func NewPipeline(spec *devdocs.DocumentSpec) (*devdocs.Pipeline, error) {
	p := devdocs.NewPipeline(spec.Slug)
	if !slices.ContainsFunc(spec.Filters, isPlain) {
		for _, name := range DefaultFilters {
			if err := apply(p, spec, name); err != nil {
				return nil, err
			}
		}
	}
	for _, entry := range spec.Filters {
		if err := apply(p, spec, entry); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func isPlain(entry string) bool {
	return !strings.HasPrefix(entry, "-") && !strings.ContainsAny(entry, "<>=")
}

// apply adds or edits one filter list entry.
func apply(p *devdocs.Pipeline, spec *devdocs.DocumentSpec, entry string) error {
	var err error
	switch {
	case strings.HasPrefix(entry, "-"):
		err = p.Remove(entry[1:])
	case strings.Contains(entry, "<"):
		name, target, _ := strings.Cut(entry, "<")
		var f devdocs.NamedFilter
		if f, err = build(p, spec, name); err == nil {
			err = p.InsertBefore(target, f)
		}
	case strings.Contains(entry, ">"):
		name, target, _ := strings.Cut(entry, ">")
		var f devdocs.NamedFilter
		if f, err = build(p, spec, name); err == nil {
			err = p.InsertAfter(target, f)
		}
	case strings.Contains(entry, "="):
		target, name, _ := strings.Cut(entry, "=")
		factory, ok := filters[name]
		if !ok {
			return devdocs.Errorf(devdocs.EINVALID, "%s: unknown filter %q", spec.Name, name)
		}
		var f devdocs.Filter
		if f, err = factory(spec); err == nil {
			err = p.Replace(target, f)
		}
	default:
		var f devdocs.NamedFilter
		if f, err = build(p, spec, entry); err == nil {
			p.Push(f)
		}
	}
	if devdocs.ErrorCode(err) == devdocs.ENOTFOUND {
		return devdocs.Errorf(devdocs.EINVALID, "%s: filter %q: %s", spec.Name, entry, devdocs.ErrorMessage(err))
	}
	return err
}

// build creates the named filter, refusing names already in p.
func build(p *devdocs.Pipeline, spec *devdocs.DocumentSpec, name string) (devdocs.NamedFilter, error) {
	factory, ok := filters[name]
	if !ok {
		return devdocs.NamedFilter{}, devdocs.Errorf(devdocs.EINVALID, "%s: unknown filter %q", spec.Name, name)
	}
	if p.Contains(name) {
		return devdocs.NamedFilter{}, devdocs.Errorf(devdocs.EINVALID, "%s: filter %q listed twice", spec.Name, name)
	}
	f, err := factory(spec)
	if err != nil {
		return devdocs.NamedFilter{}, err
	}
	return devdocs.NamedFilter{Name: name, Filter: f}, nil
}
