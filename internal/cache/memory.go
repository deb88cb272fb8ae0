package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coocood/freecache"

	"github.com/2beens/diarynotes/internal/notes"
)

var _ notes.Cache = (*MemoryCache)(nil)

const minMemoryCacheSize = 512 * 1024

// MemoryCache is a process local cache, for single instance deployments.
type MemoryCache struct {
	cache      *freecache.Cache
	ttlSeconds int
}

// NewMemoryCache sizes the cache in megabytes; freecache enforces a 512KB minimum.
func NewMemoryCache(sizeMB int, ttl time.Duration) *MemoryCache {
	size := sizeMB * 1024 * 1024
	if size < minMemoryCacheSize {
		size = minMemoryCacheSize
	}
	return &MemoryCache{
		cache:      freecache.NewCache(size),
		ttlSeconds: int(ttl.Seconds()),
	}
}

func (c *MemoryCache) Get(_ context.Context, id string) (*notes.Note, bool, error) {
	b, err := c.cache.Get([]byte(noteKey(id)))
	if err != nil {
		if errors.Is(err, freecache.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("freecache get: %w", err)
	}

	note, err := decodeNote(b)
	if err != nil {
		return nil, false, err
	}
	return note, true, nil
}

func (c *MemoryCache) Set(_ context.Context, note *notes.Note) error {
	b, err := encodeNote(note)
	if err != nil {
		return err
	}
	if err := c.cache.Set([]byte(noteKey(note.ID)), b, c.ttlSeconds); err != nil {
		return fmt.Errorf("freecache set: %w", err)
	}
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, id string) error {
	c.cache.Del([]byte(noteKey(id)))
	return nil
}

func (c *MemoryCache) EntryCount() int64 {
	return c.cache.EntryCount()
}
