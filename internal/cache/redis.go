package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/2beens/diarynotes/internal/notes"
)

var _ notes.Cache = (*RedisCache)(nil)

// RedisCache shares cached notes between service instances.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *RedisCache) Get(ctx context.Context, id string) (*notes.Note, bool, error) {
	b, err := c.client.Get(ctx, noteKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	note, err := decodeNote(b)
	if err != nil {
		return nil, false, err
	}
	return note, true, nil
}

func (c *RedisCache) Set(ctx context.Context, note *notes.Note) error {
	b, err := encodeNote(note)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, noteKey(note.ID), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, noteKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
