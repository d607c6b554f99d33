package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jotonsd/url-shortener/internal/cache"
	"github.com/jotonsd/url-shortener/internal/model"
)

var _ URLRepository = (*CachedURLRepository)(nil)

// CachedURLRepository is a read-through cache in front of another
// URLRepository. Cache failures are logged and never fail the call.
//
// Only the immutable part of a mapping is cached. Mappings served from the
// cache carry a zero AccessCount; the counter is always read through
// AccessCount.
type CachedURLRepository struct {
	next   URLRepository
	cache  cache.Cache
	logger *slog.Logger
}

func NewCachedURLRepository(next URLRepository, c cache.Cache, logger *slog.Logger) *CachedURLRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedURLRepository{
		next:   next,
		cache:  c,
		logger: logger,
	}
}

func (r *CachedURLRepository) EnsureSchema(ctx context.Context) error {
	return r.next.EnsureSchema(ctx)
}

func (r *CachedURLRepository) Insert(ctx context.Context, url *model.URL) error {
	if err := r.next.Insert(ctx, url); err != nil {
		return err
	}

	r.store(ctx, url)
	return nil
}

func (r *CachedURLRepository) FindByShortCode(ctx context.Context, shortCode string) (*model.URL, error) {
	key := r.cache.Keys().URL(shortCode)

	var cached model.URL
	err := r.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		r.logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
	}

	url, err := r.next.FindByShortCode(ctx, shortCode)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, key, immutable(url)); err != nil {
		r.logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}

	return url, nil
}

func (r *CachedURLRepository) FindByOriginalURL(ctx context.Context, originalURL string) (*model.URL, error) {
	key := r.cache.Keys().OriginalURL(originalURL)

	shortCode, err := r.cache.GetString(ctx, key)
	switch {
	case err == nil && shortCode != "":
		url, err := r.FindByShortCode(ctx, shortCode)
		if err == nil && url.OriginalURL == originalURL {
			return url, nil
		}
		// Stale reverse entry; fall back to the backend.
		if delErr := r.cache.Delete(ctx, key); delErr != nil {
			r.logger.WarnContext(ctx, "cache delete failed", "key", key, "error", delErr)
		}
	case err != nil && !errors.Is(err, cache.ErrCacheMiss):
		r.logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
	}

	url, err := r.next.FindByOriginalURL(ctx, originalURL)
	if err != nil {
		return nil, err
	}

	r.store(ctx, url)
	return url, nil
}

func (r *CachedURLRepository) IncrementAccessCount(ctx context.Context, shortCode string) (bool, error) {
	return r.next.IncrementAccessCount(ctx, shortCode)
}

func (r *CachedURLRepository) AccessCount(ctx context.Context, shortCode string) (int64, error) {
	return r.next.AccessCount(ctx, shortCode)
}

func (r *CachedURLRepository) store(ctx context.Context, url *model.URL) {
	keys := r.cache.Keys()

	if err := r.cache.Set(ctx, keys.URL(url.ShortCode), immutable(url)); err != nil {
		r.logger.WarnContext(ctx, "cache write failed", "short_code", url.ShortCode, "error", err)
	}
	if err := r.cache.SetString(ctx, keys.OriginalURL(url.OriginalURL), url.ShortCode); err != nil {
		r.logger.WarnContext(ctx, "cache write failed", "short_code", url.ShortCode, "error", err)
	}
}

// immutable drops the access counter, which changes on every resolve.
func immutable(url *model.URL) model.URL {
	cp := *url
	cp.AccessCount = 0
	return cp
}
