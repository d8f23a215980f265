package tokenstore

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// A RedisStorage mirrors items into Redis under a per-visitor prefix.
//
// Items expire after DefaultMaxAge seconds,
// the longest a token cookie lives without a known expiry.
type RedisStorage struct {
	ctx    context.Context
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

var _ Storage = RedisStorage{}

// NewRedisStorage constructs a RedisStorage writing keys as "<prefix>:<key>".
// ctx bounds every call made to Redis.
func NewRedisStorage(ctx context.Context, client redis.Cmdable, prefix string) RedisStorage {
	return RedisStorage{
		ctx:    ctx,
		client: client,
		prefix: prefix,
		ttl:    DefaultMaxAge * time.Second,
	}
}

func (rs RedisStorage) SetItem(key, value string) error {
	if err := rs.client.Set(rs.ctx, rs.key(key), value, rs.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

func (rs RedisStorage) RemoveItem(key string) error {
	if err := rs.client.Del(rs.ctx, rs.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}

	return nil
}

func (rs RedisStorage) key(key string) string { return rs.prefix + ":" + key }
