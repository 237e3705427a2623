package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hoanghai1803/cfeditorial/internal/apperr"
	"github.com/hoanghai1803/cfeditorial/internal/models"
)

// EditorialCache stores CachedEditorial entries in a Backend. Every error
// it returns carries apperr.ErrCache.
type EditorialCache struct {
	backend  Backend
	ttlHours int
	now      func() time.Time
}

// NewEditorialCache wraps backend. ttlHours <= 0 selects
// models.DefaultTTLHours.
func NewEditorialCache(backend Backend, ttlHours int) *EditorialCache {
	if ttlHours <= 0 {
		ttlHours = models.DefaultTTLHours
	}
	return &EditorialCache{backend: backend, ttlHours: ttlHours, now: time.Now}
}

// Get returns the cached editorial for id, or nil when there is none.
// An expired entry is deleted and reported as missing.
func (c *EditorialCache) Get(ctx context.Context, id models.ProblemIdentifier) (*models.CachedEditorial, error) {
	key := id.CacheKey()

	data, ok, err := c.backend.Get(ctx, key)
	if err != nil {
		return nil, apperr.New(apperr.ErrCache, fmt.Sprintf("reading cache entry %s", key), err)
	}
	if !ok {
		return nil, nil
	}

	entry, err := models.UnmarshalCachedEditorial(data)
	if err != nil {
		return nil, apperr.New(apperr.ErrCache, fmt.Sprintf("corrupt cache entry %s", key), err)
	}

	if entry.IsExpired(c.now()) {
		slog.Debug("cache entry expired", "key", key, "cached_at", entry.CachedAt)
		if err := c.backend.Delete(ctx, key); err != nil {
			return nil, apperr.New(apperr.ErrCache, fmt.Sprintf("deleting expired entry %s", key), err)
		}
		return nil, nil
	}
	return entry, nil
}

// Put caches ed for id.
func (c *EditorialCache) Put(ctx context.Context, id models.ProblemIdentifier, ed *models.Editorial, tutorialURL string, format models.TutorialFormat) error {
	entry := &models.CachedEditorial{
		Problem:        id,
		Editorial:      *ed,
		TutorialURL:    tutorialURL,
		TutorialFormat: format,
		CachedAt:       c.now().UTC(),
		TTLHours:       c.ttlHours,
	}

	data, err := models.MarshalCachedEditorial(entry)
	if err != nil {
		return apperr.New(apperr.ErrCache, "encoding cache entry", err)
	}

	// Backends expire the row a little after the entry itself goes stale so
	// the stale read path still gets to delete it.
	ttl := time.Duration(c.ttlHours)*time.Hour + time.Hour
	if err := c.backend.Set(ctx, id.CacheKey(), data, ttl); err != nil {
		return apperr.New(apperr.ErrCache, fmt.Sprintf("writing cache entry %s", id.CacheKey()), err)
	}
	return nil
}

// Delete drops the entry for id.
func (c *EditorialCache) Delete(ctx context.Context, id models.ProblemIdentifier) error {
	if err := c.backend.Delete(ctx, id.CacheKey()); err != nil {
		return apperr.New(apperr.ErrCache, fmt.Sprintf("deleting cache entry %s", id.CacheKey()), err)
	}
	return nil
}

// Clear removes every cached editorial.
func (c *EditorialCache) Clear(ctx context.Context) error {
	if err := c.backend.Clear(ctx); err != nil {
		return apperr.New(apperr.ErrCache, "clearing cache", err)
	}
	return nil
}

// Close releases the backend.
func (c *EditorialCache) Close() error {
	return c.backend.Close()
}
