package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/devdocs"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ devdocs.Store = (*Store)(nil)

// Store writes the pages of one document version into the database.
// The first Put replaces whatever an earlier run stored for the same
// slug and version.
type Store struct {
	db   *DB
	spec *devdocs.DocumentSpec
	now  func() time.Time

	mu       sync.Mutex
	docID    string
	position int
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreClock sets the clock used for timestamps.
func WithStoreClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a Store for spec.
func NewStore(db *DB, spec *devdocs.DocumentSpec, opts ...StoreOption) *Store {
	s := &Store{db: db, spec: spec, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DocID returns the id of the document row, or "" before the first write.
func (s *Store) DocID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docID
}

// Begin registers the document and clears pages left by an earlier run.
// Put calls it on first use.
func (s *Store) Begin(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.begin(ctx)
}

func (s *Store) begin(ctx context.Context) error {
	if s.docID != "" {
		return nil
	}
	if s.spec == nil {
		return devdocs.Errorf(devdocs.EINVALID, "no document spec")
	}

	now := timestamp(s.now())
	var id string
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, "SELECT id FROM docs WHERE slug = ? AND version = ?", s.spec.Slug, s.spec.Version).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			id = uuid.New().String()
			_, err = tx.ExecContext(ctx, `
				INSERT INTO docs (id, slug, version, name, release, attribution, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, id, s.spec.Slug, s.spec.Version, s.spec.Name, s.spec.Release, s.spec.Attribution, now, now)
			return err
		}
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM pages WHERE doc_id = ?", id); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE docs SET name = ?, release = ?, attribution = ?, updated_at = ? WHERE id = ?
		`, s.spec.Name, s.spec.Release, s.spec.Attribution, now, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("begin document %s: %w", s.spec.OutputPath, err)
	}

	s.docID = id
	s.position = 0
	return nil
}

// Put stores page, replacing a page already stored under the same path.
func (s *Store) Put(ctx context.Context, page *devdocs.ScrapedPage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if page == nil || page.Path == "" {
		return devdocs.Errorf(devdocs.EINVALID, "page path required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(ctx); err != nil {
		return err
	}

	hash := page.Hash
	if hash == "" {
		hash = hashContent(page.Content)
	}
	links := page.Links
	if links == nil {
		links = []string{}
	}
	linksJSON, err := json.Marshal(links)
	if err != nil {
		return err
	}

	err = s.db.WithTx(ctx, func(tx *sql.Tx) error {
		var pageID string
		err := tx.QueryRowContext(ctx, `
			INSERT INTO pages (id, doc_id, path, url, title, content, text, links, content_hash, position, stored_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (doc_id, path) DO UPDATE SET
				url = excluded.url,
				title = excluded.title,
				content = excluded.content,
				text = excluded.text,
				links = excluded.links,
				content_hash = excluded.content_hash,
				stored_at = excluded.stored_at
			RETURNING id
		`, uuid.New().String(), s.docID, page.Path, page.URL, page.Title, page.Content, page.Text,
			string(linksJSON), hash, s.position, timestamp(s.now())).Scan(&pageID)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM entries WHERE page_id = ?", pageID); err != nil {
			return err
		}
		for _, e := range page.Entries {
			if _, err := tx.ExecContext(ctx, "INSERT INTO entries (page_id, name, path, type) VALUES (?, ?, ?, ?)",
				pageID, e.Name, e.Path, e.Type); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", page.Path, err)
	}
	s.position++
	return nil
}

// hashContent computes the xxHash of content as lowercase hex.
func hashContent(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}
