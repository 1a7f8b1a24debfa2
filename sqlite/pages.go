package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/fwojciec/devdocs"
)

// PageFilter selects stored pages of one document version.
type PageFilter struct {
	Slug    string
	Version string
	Limit   int
	Offset  int
}

// PageService reads stored pages and index entries.
type PageService struct {
	db *DB
}

// NewPageService creates a new PageService.
func NewPageService(db *DB) *PageService {
	return &PageService{db: db}
}

const pageColumns = "p.id, p.path, p.url, p.title, p.content, p.text, p.links, p.content_hash"

// FindPage retrieves one page with its entries.
func (s *PageService) FindPage(ctx context.Context, slug, version, path string) (*devdocs.ScrapedPage, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+pageColumns+`
		FROM pages p JOIN docs d ON d.id = p.doc_id
		WHERE d.slug = ? AND d.version = ? AND p.path = ?
	`, slug, version, path)

	id, page, err := scanPage(row)
	if err == sql.ErrNoRows {
		return nil, devdocs.Errorf(devdocs.ENOTFOUND, "page %s not found in %s", path, displayKey(slug, version))
	}
	if err != nil {
		return nil, err
	}

	if page.Entries, err = s.pageEntries(ctx, id); err != nil {
		return nil, err
	}
	return page, nil
}

// FindPages retrieves pages in the order they were stored. Entries are
// not loaded.
func (s *PageService) FindPages(ctx context.Context, filter PageFilter) ([]*devdocs.ScrapedPage, error) {
	var query strings.Builder
	args := []any{filter.Slug, filter.Version}

	query.WriteString(`SELECT ` + pageColumns + ` FROM pages p JOIN docs d ON d.id = p.doc_id
		WHERE d.slug = ? AND d.version = ? ORDER BY p.position ASC`)
	clause, pageArgs := paginate(filter.Limit, filter.Offset)
	query.WriteString(clause)
	args = append(args, pageArgs...)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*devdocs.ScrapedPage
	for rows.Next() {
		_, page, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

// FindEntries returns the index entries of a document sorted by name.
func (s *PageService) FindEntries(ctx context.Context, slug, version string) ([]devdocs.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.name, e.path, e.type
		FROM entries e
		JOIN pages p ON p.id = e.page_id
		JOIN docs d ON d.id = p.doc_id
		WHERE d.slug = ? AND d.version = ?
		ORDER BY lower(e.name) ASC, e.path ASC
	`, slug, version)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

func (s *PageService) pageEntries(ctx context.Context, pageID string) ([]devdocs.Entry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, path, type FROM entries WHERE page_id = ? ORDER BY rowid", pageID)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]devdocs.Entry, error) {
	defer rows.Close()

	var entries []devdocs.Entry
	for rows.Next() {
		var e devdocs.Entry
		if err := rows.Scan(&e.Name, &e.Path, &e.Type); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanPage(row scanner) (string, *devdocs.ScrapedPage, error) {
	var id, links string
	var page devdocs.ScrapedPage
	if err := row.Scan(&id, &page.Path, &page.URL, &page.Title, &page.Content, &page.Text, &links, &page.Hash); err != nil {
		return "", nil, err
	}
	if err := json.Unmarshal([]byte(links), &page.Links); err != nil {
		return "", nil, err
	}
	if len(page.Links) == 0 {
		page.Links = nil
	}
	return id, &page, nil
}
