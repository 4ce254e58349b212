package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// ErrMiss 缓存未命中
var ErrMiss = errors.New("cache: miss")

// Store 查询缓存的底层 KV
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePrefix 用于会话退出时整体清掉命名空间
	DeletePrefix(ctx context.Context, prefix string) error
}

type memEntry struct {
	val     []byte
	expires time.Time // 零值表示不过期
}

// SweepEvery MemoryStore 在 Set 时清理过期 key 的最小间隔
const SweepEvery = time.Minute

// MemoryStore 进程内实现，默认驱动。
// 会话过期后没人再读它的 key，所以过期项要靠 Set 时顺带清掉。
type MemoryStore struct {
	mu        sync.RWMutex
	m         map[string]memEntry
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]memEntry), now: time.Now, lastSweep: time.Now()}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.m[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrMiss
	}
	if !e.expires.IsZero() && !s.now().Before(e.expires) {
		s.mu.Lock()
		if cur, still := s.m[key]; still && cur.expires.Equal(e.expires) {
			delete(s.m, key)
		}
		s.mu.Unlock()
		return nil, ErrMiss
	}
	return e.val, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	now := s.now()
	e := memEntry{val: append([]byte(nil), val...)}
	if ttl > 0 {
		e.expires = now.Add(ttl)
	}
	s.mu.Lock()
	if now.Sub(s.lastSweep) >= SweepEvery {
		s.sweepLocked(now)
	}
	s.m[key] = e
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) sweepLocked(now time.Time) {
	for k, e := range s.m {
		if !e.expires.IsZero() && !now.Before(e.expires) {
			delete(s.m, k)
		}
	}
	s.lastSweep = now
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	for _, k := range keys {
		delete(s.m, k)
	}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) DeletePrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	for k := range s.m {
		if strings.HasPrefix(k, prefix) {
			delete(s.m, k)
		}
	}
	s.mu.Unlock()
	return nil
}

// Len 测试用
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
