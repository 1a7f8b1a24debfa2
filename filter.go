package devdocs

import "slices"

// Filter transforms the content of one page. Filters must not perform I/O
// so that a pipeline's output depends only on its input.
type Filter interface {
	Apply(pc *PageContext, content string) (string, error)
}

// FilterFunc adapts a function to the Filter interface.
type FilterFunc func(pc *PageContext, content string) (string, error)

// Apply calls f.
func (f FilterFunc) Apply(pc *PageContext, content string) (string, error) {
	return f(pc, content)
}

// NamedFilter is a Filter registered in a Pipeline under a name.
type NamedFilter struct {
	Name   string
	Filter Filter
}

// Pipeline applies an ordered list of filters to a page.
type Pipeline struct {
	name    string
	filters []NamedFilter
}

// NewPipeline returns a pipeline running filters in order.
func NewPipeline(name string, filters ...NamedFilter) *Pipeline {
	return &Pipeline{name: name, filters: slices.Clone(filters)}
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string { return p.name }

// Names returns the filter names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.filters))
	for i, f := range p.filters {
		names[i] = f.Name
	}
	return names
}

// Filters returns a copy of the registered filters in execution order.
func (p *Pipeline) Filters() []NamedFilter {
	return slices.Clone(p.filters)
}

// Contains reports whether a filter is registered under name.
func (p *Pipeline) Contains(name string) bool {
	return p.index(name) >= 0
}

// Push appends a filter.
func (p *Pipeline) Push(f NamedFilter) {
	p.filters = append(p.filters, f)
}

// InsertBefore inserts f ahead of the filter named target.
func (p *Pipeline) InsertBefore(target string, f NamedFilter) error {
	i := p.index(target)
	if i < 0 {
		return Errorf(ENOTFOUND, "pipeline %s has no filter %q", p.name, target)
	}
	p.filters = slices.Insert(p.filters, i, f)
	return nil
}

// InsertAfter inserts f behind the filter named target.
func (p *Pipeline) InsertAfter(target string, f NamedFilter) error {
	i := p.index(target)
	if i < 0 {
		return Errorf(ENOTFOUND, "pipeline %s has no filter %q", p.name, target)
	}
	p.filters = slices.Insert(p.filters, i+1, f)
	return nil
}

// Replace swaps the implementation of the filter named target.
func (p *Pipeline) Replace(target string, f Filter) error {
	i := p.index(target)
	if i < 0 {
		return Errorf(ENOTFOUND, "pipeline %s has no filter %q", p.name, target)
	}
	p.filters[i].Filter = f
	return nil
}

// Remove drops the filter named target.
func (p *Pipeline) Remove(target string) error {
	i := p.index(target)
	if i < 0 {
		return Errorf(ENOTFOUND, "pipeline %s has no filter %q", p.name, target)
	}
	p.filters = slices.Delete(p.filters, i, i+1)
	return nil
}

func (p *Pipeline) index(name string) int {
	return slices.IndexFunc(p.filters, func(f NamedFilter) bool { return f.Name == name })
}

// Run applies every filter to pc.Raw and builds the resulting page.
// It stops at the first failing filter and returns a *FilterError.
func (p *Pipeline) Run(pc *PageContext) (*ScrapedPage, error) {
	content := pc.Raw
	for _, f := range p.filters {
		out, err := f.Filter.Apply(pc, content)
		if err != nil {
			return nil, &FilterError{Filter: f.Name, Path: PagePath(pc.Path), Err: err}
		}
		content = out
	}

	title := pc.Title
	if title == "" {
		title = PagePath(pc.Path)
	}

	return &ScrapedPage{
		Path:    PagePath(pc.Path),
		URL:     pc.URL,
		Title:   title,
		Content: content,
		Text:    pc.Text,
		Links:   slices.Clone(pc.Links),
		Entries: slices.Clone(pc.Entries),
	}, nil
}
