package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fwojciec/devdocs"
	"github.com/fwojciec/devdocs/sqlite"
)

// openDB opens the sqlite database at path, creating it when missing.
func openDB(deps *Dependencies, path string) (*sqlite.DB, error) {
	db := sqlite.NewDB(path)
	if err := db.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "Hint: Set DEVDOCS_DB to use a different database path\n")
		return nil, fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	return db, nil
}

// findStored resolves a TYPE or TYPE@VERSION target to a stored document.
// Without a version the lowest stored version of the type is used.
func findStored(ctx context.Context, docs *sqlite.DocService, target string) (*sqlite.Doc, error) {
	slug, version := parseTarget(target)
	if version != "" {
		return docs.FindDoc(ctx, slug, version)
	}
	found, err := docs.FindDocs(ctx, sqlite.DocFilter{Slug: &slug, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, devdocs.Errorf(devdocs.ENOTFOUND, "document %s not found. Use 'devdocs stored' to see stored documents", slug)
	}
	return found[0], nil
}

func storedName(d *sqlite.Doc) string {
	if d.Version == "" {
		return d.Slug
	}
	return d.Slug + "@" + d.Version
}

// Run executes the stored command.
func (c *StoredCmd) Run(deps *Dependencies) error {
	db, err := openDB(deps, c.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	docs := sqlite.NewDocService(db)
	w := tabwriter.NewWriter(deps.Stdout, 0, 4, 2, ' ', 0)

	if c.Target == "" {
		found, err := docs.FindDocs(deps.Ctx, sqlite.DocFilter{})
		if err != nil {
			return err
		}
		if len(found) == 0 {
			fmt.Fprintln(deps.Stdout, "No stored documents. Use 'devdocs scrape --store sqlite' to add one.")
			return nil
		}
		for _, d := range found {
			fmt.Fprintf(w, "%s\t%s\t%d pages\t%s\n", storedName(d), d.Name, d.Pages, d.UpdatedAt.Local().Format(time.DateTime))
		}
		return w.Flush()
	}

	doc, err := findStored(deps.Ctx, docs, c.Target)
	if err != nil {
		return err
	}
	pages := sqlite.NewPageService(db)

	if c.Entries {
		entries, err := pages.FindEntries(deps.Ctx, doc.Slug, doc.Version)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, e.Type, e.Path)
		}
		return w.Flush()
	}

	list, err := pages.FindPages(deps.Ctx, sqlite.PageFilter{Slug: doc.Slug, Version: doc.Version})
	if err != nil {
		return err
	}
	for _, p := range list {
		fmt.Fprintf(w, "%s\t%s\n", p.Path, p.Title)
	}
	return w.Flush()
}

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		return devdocs.Errorf(devdocs.EINVALID, "use --force to confirm deletion")
	}

	db, err := openDB(deps, c.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	docs := sqlite.NewDocService(db)
	doc, err := findStored(deps.Ctx, docs, c.Target)
	if err != nil {
		return err
	}
	if err := docs.DeleteDoc(deps.Ctx, doc.Slug, doc.Version); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted %s (%d pages)\n", storedName(doc), doc.Pages)
	return nil
}
