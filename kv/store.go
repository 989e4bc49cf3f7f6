package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrKeyNotFound is returned by Get when the key has no value.
var ErrKeyNotFound = errors.New("kv: key not found")

// Store is the key-value document store used by the repositories.
// Documents are JSON values under opaque string keys. The store offers
// no cross-key transactions: a caller that reads, modifies, and writes
// back an index can interleave with another caller doing the same, and
// the last write wins. Repositories document where they depend on that.
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
	// GetByPrefix returns the raw JSON values of every key under the
	// given prefix. Order is unspecified.
	GetByPrefix(ctx context.Context, prefix string) ([][]byte, error)
}

// RedisStore implements Store on a Redis connection. Values are stored
// as JSON strings with no expiry.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a RedisStore on an already-connected client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return ErrKeyNotFound
		}
		return fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) GetByPrefix(ctx context.Context, prefix string) ([][]byte, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan prefix %s: %w", prefix, err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget prefix %s: %w", prefix, err)
	}

	values := make([][]byte, 0, len(vals))
	for _, v := range vals {
		// Keys deleted between SCAN and MGET come back nil; skip them.
		if str, ok := v.(string); ok {
			values = append(values, []byte(str))
		}
	}
	return values, nil
}
