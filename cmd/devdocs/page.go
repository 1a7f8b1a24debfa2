package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/devdocs"
	"github.com/fwojciec/devdocs/sqlite"
)

// Run executes the page command.
func (c *PageCmd) Run(deps *Dependencies) error {
	var (
		page *devdocs.ScrapedPage
		err  error
	)
	if c.Stored {
		page, err = c.stored(deps)
	} else {
		factory := newFactory(deps, factoryConfig{timeout: c.Timeout, robots: c.Robots})
		id, version := parseTarget(c.Target)
		page, err = factory.Page(deps.Ctx, id, version, c.Path)
	}
	if err != nil {
		return err
	}

	if c.Text {
		fmt.Fprintln(deps.Stdout, page.Text)
		return nil
	}
	fmt.Fprintln(deps.Stdout, page.Content)
	return nil
}

// stored reads the page from the sqlite store.
func (c *PageCmd) stored(deps *Dependencies) (*devdocs.ScrapedPage, error) {
	db, err := openDB(deps, c.DB)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	doc, err := findStored(deps.Ctx, sqlite.NewDocService(db), c.Target)
	if err != nil {
		return nil, err
	}
	return sqlite.NewPageService(db).FindPage(deps.Ctx, doc.Slug, doc.Version, devdocs.PagePath(strings.Trim(c.Path, "/")))
}
