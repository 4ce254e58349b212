package query

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"optical-console/internal/core/cache"
	"optical-console/internal/domain"
)

// ErrPending 同一目标已有提交在进行中
var ErrPending = errors.New("query: submission already in progress")

// Backend 远端操作，*api.Client 满足
type Backend interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	CreateProduct(ctx context.Context, p domain.ProductPayload) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, p domain.ProductPayload) (*domain.Product, error)
	ArchiveProduct(ctx context.Context, id string) error

	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id string) (domain.User, error)
	CreateUser(ctx context.Context, u domain.UserPayload) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, u domain.UserPayload) (*domain.User, error)
	ArchiveUser(ctx context.Context, id string) error
}

type Client struct {
	cache *cache.Cache
	log   *zap.Logger

	mu      sync.Mutex
	pending map[string]struct{}
}

func New(c *cache.Cache, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{cache: c, log: log, pending: make(map[string]struct{})}
}

// Session 某个浏览器会话的视图，缓存 key 带 sid 前缀
func (q *Client) Session(sid string, b Backend) *Session {
	return &Session{q: q, sid: sid, b: b}
}

// Purge 退出登录时清掉整个会话命名空间
func (q *Client) Purge(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	return q.cache.Store.DeletePrefix(ctx, sid+":")
}

type Session struct {
	q   *Client
	sid string
	b   Backend
}

func (s *Session) key(k string) string { return s.sid + ":" + k }

func (s *Session) Products(ctx context.Context) ([]domain.Product, error) {
	return cache.GetOrLoadJSON(s.q.cache, ctx, s.key(ListKey(Products)), s.b.ListProducts)
}

func (s *Session) Product(ctx context.Context, id string) (domain.Product, error) {
	return cache.GetOrLoadJSON(s.q.cache, ctx, s.key(DetailKey(Products, id)), func(ctx context.Context) (domain.Product, error) {
		return s.b.GetProduct(ctx, id)
	})
}

func (s *Session) Users(ctx context.Context) ([]domain.User, error) {
	return cache.GetOrLoadJSON(s.q.cache, ctx, s.key(ListKey(Users)), s.b.ListUsers)
}

func (s *Session) User(ctx context.Context, id string) (domain.User, error) {
	return cache.GetOrLoadJSON(s.q.cache, ctx, s.key(DetailKey(Users, id)), func(ctx context.Context) (domain.User, error) {
		return s.b.GetUser(ctx, id)
	})
}

// Invalidate 删掉列表 key 和给定的单条 key，下次读取重新回源
func (s *Session) Invalidate(ctx context.Context, r Resource, ids ...string) {
	keys := []string{s.key(ListKey(r))}
	for _, id := range ids {
		keys = append(keys, s.key(DetailKey(r, id)))
	}
	if err := s.q.cache.Invalidate(ctx, keys...); err != nil {
		s.q.log.Warn("cache invalidate failed", zap.String("sid", s.sid), zap.Strings("keys", keys), zap.Error(err))
	}
}

// Pending 对应表单的“提交中”状态
func (s *Session) Pending(name string) bool {
	s.q.mu.Lock()
	defer s.q.mu.Unlock()
	_, ok := s.q.pending[s.key(name)]
	return ok
}

func (s *Session) begin(name string) (func(), error) {
	k := s.key(name)
	s.q.mu.Lock()
	defer s.q.mu.Unlock()
	if _, busy := s.q.pending[k]; busy {
		return nil, ErrPending
	}
	s.q.pending[k] = struct{}{}
	return func() {
		s.q.mu.Lock()
		delete(s.q.pending, k)
		s.q.mu.Unlock()
	}, nil
}

// mutate 成功后才失效缓存；失败保留原数据
func mutate[T any](ctx context.Context, s *Session, name string, r Resource, ids []string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	done, err := s.begin(name)
	if err != nil {
		return zero, err
	}
	defer done()

	out, err := fn(ctx)
	if err != nil {
		s.q.log.Info("mutation failed", zap.String("op", name), zap.String("sid", s.sid), zap.Error(err))
		return zero, err
	}
	s.Invalidate(ctx, r, ids...)
	s.q.log.Debug("mutation ok", zap.String("op", name), zap.String("sid", s.sid))
	return out, nil
}

func (s *Session) CreateProduct(ctx context.Context, p domain.ProductPayload) (*domain.Product, error) {
	return mutate(ctx, s, MutCreateProduct, Products, nil, func(ctx context.Context) (*domain.Product, error) {
		return s.b.CreateProduct(ctx, p)
	})
}

func (s *Session) UpdateProduct(ctx context.Context, id string, p domain.ProductPayload) (*domain.Product, error) {
	return mutate(ctx, s, Target(MutUpdateProduct, id), Products, []string{id}, func(ctx context.Context) (*domain.Product, error) {
		return s.b.UpdateProduct(ctx, id, p)
	})
}

func (s *Session) ArchiveProduct(ctx context.Context, id string) error {
	_, err := mutate(ctx, s, Target(MutArchiveProduct, id), Products, []string{id}, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.b.ArchiveProduct(ctx, id)
	})
	return err
}

func (s *Session) CreateUser(ctx context.Context, u domain.UserPayload) (*domain.User, error) {
	return mutate(ctx, s, MutCreateUser, Users, nil, func(ctx context.Context) (*domain.User, error) {
		return s.b.CreateUser(ctx, u)
	})
}

func (s *Session) UpdateUser(ctx context.Context, id string, u domain.UserPayload) (*domain.User, error) {
	return mutate(ctx, s, Target(MutUpdateUser, id), Users, []string{id}, func(ctx context.Context) (*domain.User, error) {
		return s.b.UpdateUser(ctx, id, u)
	})
}

func (s *Session) ArchiveUser(ctx context.Context, id string) error {
	_, err := mutate(ctx, s, Target(MutArchiveUser, id), Users, []string{id}, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.b.ArchiveUser(ctx, id)
	})
	return err
}
