package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache 读穿透缓存：命中直接返回，未命中按 key 合并回源
type Cache struct {
	Store Store
	TTL   time.Duration
	sf    singleflight.Group

	mu      sync.Mutex
	flights map[string]map[*flight]struct{}
}

// flight 一次进行中的回源；期间被 Invalidate 过就不能写回
type flight struct{ stale bool }

func New(s Store, ttl time.Duration) *Cache {
	return &Cache{Store: s, TTL: ttl}
}

func (c *Cache) GetOrLoad(ctx context.Context, key string, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if b, err := c.Store.Get(ctx, key); err == nil {
		return b, nil
	}
	// single flight 合并回源；回源不跟随第一个调用方取消
	v, err, _ := c.sf.Do(key, func() (any, error) {
		lctx := context.WithoutCancel(ctx)
		f := c.track(key)
		b, e := load(lctx)
		if e != nil {
			c.untrack(key, f)
			return nil, e
		}
		if !c.isStale(f) {
			_ = c.Store.Set(lctx, key, b, c.TTL)
		}
		// Set 之后才失效的，补删一次
		if c.untrack(key, f) {
			_ = c.Store.Delete(lctx, key)
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Invalidate 删除 key；进行中的回源结果不再写回，也不再被后续调用复用
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		for f := range c.flights[k] {
			f.stale = true
		}
	}
	c.mu.Unlock()
	for _, k := range keys {
		c.sf.Forget(k)
	}
	return c.Store.Delete(ctx, keys...)
}

func (c *Cache) track(key string) *flight {
	f := &flight{}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.flights == nil {
		c.flights = make(map[string]map[*flight]struct{})
	}
	set := c.flights[key]
	if set == nil {
		set = make(map[*flight]struct{})
		c.flights[key] = set
	}
	set[f] = struct{}{}
	return f
}

func (c *Cache) isStale(f *flight) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return f.stale
}

// untrack 返回这次回源期间是否被失效过
func (c *Cache) untrack(key string, f *flight) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	set := c.flights[key]
	delete(set, f)
	if len(set) == 0 {
		delete(c.flights, key)
	}
	return f.stale
}

func GetOrLoadJSON[T any](
	c *Cache,
	ctx context.Context,
	key string,
	load func(ctx context.Context) (T, error),
) (T, error) {
	var zero T
	b, err := c.GetOrLoad(ctx, key, func(ctx context.Context) ([]byte, error) {
		v, e := load(ctx)
		if e != nil {
			// 错误不缓存
			return nil, e
		}
		return json.Marshal(v)
	})
	if err != nil {
		return zero, err
	}
	var out T
	if e := json.Unmarshal(b, &out); e != nil {
		// 坏数据直接丢掉，下次回源
		_ = c.Store.Delete(ctx, key)
		return zero, errors.Join(ErrMiss, e)
	}
	return out, nil
}
