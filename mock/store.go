package mock

import (
	"context"

	"github.com/fwojciec/devdocs"
)

var _ devdocs.Store = (*Store)(nil)

// Store is a mock implementation of devdocs.Store.
type Store struct {
	PutFn func(ctx context.Context, page *devdocs.ScrapedPage) error
}

func (s *Store) Put(ctx context.Context, page *devdocs.ScrapedPage) error {
	return s.PutFn(ctx, page)
}
