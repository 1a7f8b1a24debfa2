package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fwojciec/devdocs/docs"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	factory := docs.NewFactory(deps.Types)

	w := tabwriter.NewWriter(deps.Stdout, 0, 4, 2, ' ', 0)
	for id := range factory.AvailableScrapers() {
		t, _ := factory.Type(id)
		kind := t.Kind
		if kind == "" {
			kind = "url"
		}
		versions := strings.Join(t.VersionNames(), ", ")
		if versions == "" {
			versions = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", id, t.Name, kind, versions)
	}
	return w.Flush()
}
