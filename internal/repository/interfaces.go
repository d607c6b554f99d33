package repository

import (
	"context"

	"github.com/jotonsd/url-shortener/internal/model"
)

// URLRepository is the persistence backend of the shortener.
//
// Find methods return an error matching apperrors.ErrNotFound when no row
// exists. Insert returns apperrors.ErrShortCodeExists when the short code is
// already taken. AccessCount always reads the live counter; the AccessCount
// field of a mapping returned by a caching implementation may lag behind.
type URLRepository interface {
	EnsureSchema(ctx context.Context) error
	FindByOriginalURL(ctx context.Context, originalURL string) (*model.URL, error)
	FindByShortCode(ctx context.Context, shortCode string) (*model.URL, error)
	Insert(ctx context.Context, url *model.URL) error
	// IncrementAccessCount reports whether a row was updated.
	IncrementAccessCount(ctx context.Context, shortCode string) (bool, error)
	AccessCount(ctx context.Context, shortCode string) (int64, error)
}
