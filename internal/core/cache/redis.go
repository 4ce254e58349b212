package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore 多实例部署时共享查询缓存
type RedisStore struct {
	RDB    *redis.Client
	Prefix string // 所有 key 的前缀，如 "console:"
}

func NewRedisStore(addr, pass string, db int, prefix string) *RedisStore {
	return &RedisStore{
		RDB: redis.NewClient(&redis.Options{
			Addr:         addr,
			Password:     pass,
			DB:           db,
			PoolSize:     20,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}),
		Prefix: prefix,
	}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.RDB.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.RDB.Get(ctx, s.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return b, err
}

func (s *RedisStore) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return s.RDB.Set(ctx, s.Prefix+key, val, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, s.Prefix+k)
	}
	return s.RDB.Del(ctx, full...).Err()
}

// DeletePrefix 用 SCAN 分批删，不用 KEYS
func (s *RedisStore) DeletePrefix(ctx context.Context, prefix string) error {
	iter := s.RDB.Scan(ctx, 0, s.Prefix+prefix+"*", 200).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= 200 {
			if err := s.RDB.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return s.RDB.Del(ctx, batch...).Err()
	}
	return nil
}

func (s *RedisStore) Close() error { return s.RDB.Close() }
