package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/devdocs"
)

// Doc is a stored document version.
type Doc struct {
	ID          string
	Slug        string
	Version     string
	Name        string
	Release     string
	Attribution string
	Pages       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DocFilter selects stored documents.
type DocFilter struct {
	Slug   *string
	Limit  int
	Offset int
}

// DocService reads and deletes stored documents.
type DocService struct {
	db *DB
}

// NewDocService creates a new DocService.
func NewDocService(db *DB) *DocService {
	return &DocService{db: db}
}

const docColumns = `d.id, d.slug, d.version, d.name, d.release, d.attribution,
	(SELECT COUNT(*) FROM pages p WHERE p.doc_id = d.id), d.created_at, d.updated_at`

// FindDoc retrieves a document by slug and version.
func (s *DocService) FindDoc(ctx context.Context, slug, version string) (*Doc, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+docColumns+` FROM docs d WHERE d.slug = ? AND d.version = ?`, slug, version)
	doc, err := scanDoc(row)
	if err == sql.ErrNoRows {
		return nil, devdocs.Errorf(devdocs.ENOTFOUND, "document %s not found", displayKey(slug, version))
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// FindDocs retrieves documents matching the filter, ordered by slug and version.
func (s *DocService) FindDocs(ctx context.Context, filter DocFilter) ([]*Doc, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + docColumns + " FROM docs d WHERE 1=1")
	if filter.Slug != nil {
		query.WriteString(" AND d.slug = ?")
		args = append(args, *filter.Slug)
	}
	query.WriteString(" ORDER BY d.slug ASC, d.version ASC")
	clause, pageArgs := paginate(filter.Limit, filter.Offset)
	query.WriteString(clause)
	args = append(args, pageArgs...)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*Doc
	for rows.Next() {
		doc, err := scanDoc(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// DeleteDoc removes a document with its pages and entries.
func (s *DocService) DeleteDoc(ctx context.Context, slug, version string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM docs WHERE slug = ? AND version = ?", slug, version)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return devdocs.Errorf(devdocs.ENOTFOUND, "document %s not found", displayKey(slug, version))
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDoc(row scanner) (*Doc, error) {
	var doc Doc
	var createdAt, updatedAt string
	if err := row.Scan(&doc.ID, &doc.Slug, &doc.Version, &doc.Name, &doc.Release, &doc.Attribution,
		&doc.Pages, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if doc.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if doc.UpdatedAt, err = parseTimestamp(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &doc, nil
}

func displayKey(slug, version string) string {
	if version == "" {
		return slug
	}
	return slug + "~" + version
}
