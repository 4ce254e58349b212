package query

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optical-console/internal/core/cache"
	"optical-console/internal/domain"
)

// fakeBackend 内存版后端，记录每个操作的调用次数
type fakeBackend struct {
	mu       sync.Mutex
	calls    map[string]int
	products map[string]domain.Product
	users    map[string]domain.User
	fail     error
	block    chan struct{}
	// listed/listGate 让 ListProducts 在拿到快照之后停住
	listed   chan struct{}
	listGate chan struct{}
}

func newFake() *fakeBackend {
	return &fakeBackend{
		calls: map[string]int{},
		products: map[string]domain.Product{
			"p-1": {ProductID: "p-1", ProductName: "Aviator", Quantity: 20, LowLevelThreshold: 5, OverstockedThreshold: 50},
			"p-2": {ProductID: "p-2", ProductName: "Hoya Lens", Quantity: 3, LowLevelThreshold: 5, OverstockedThreshold: 50},
		},
		users: map[string]domain.User{
			"u-1": {UserID: "u-1", FirstName: "Maria", LastName: "Torres", Role: "Admin"},
		},
	}
}

func (f *fakeBackend) hit(op string) error {
	f.mu.Lock()
	f.calls[op]++
	err, block := f.fail, f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return err
}

func (f *fakeBackend) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeBackend) ListProducts(context.Context) ([]domain.Product, error) {
	if err := f.hit("list_products"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Product, 0, len(f.products))
	for _, id := range []string{"p-1", "p-2", "p-3"} {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	listed, gate := f.listed, f.listGate
	f.mu.Unlock()
	if gate != nil {
		listed <- struct{}{}
		<-gate
	}
	f.mu.Lock()
	return out, nil
}

func (f *fakeBackend) GetProduct(_ context.Context, id string) (domain.Product, error) {
	if err := f.hit("get_product"); err != nil {
		return domain.Product{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id], nil
}

func (f *fakeBackend) CreateProduct(_ context.Context, p domain.ProductPayload) (*domain.Product, error) {
	if err := f.hit("create_product"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := domain.Product{ProductID: "p-3", ProductName: p.ProductName, Quantity: p.Quantity}
	f.products["p-3"] = out
	return &out, nil
}

func (f *fakeBackend) UpdateProduct(_ context.Context, id string, p domain.ProductPayload) (*domain.Product, error) {
	if err := f.hit("update_product"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cur := f.products[id]
	cur.ProductName = p.ProductName
	f.products[id] = cur
	return &cur, nil
}

func (f *fakeBackend) ArchiveProduct(_ context.Context, id string) error {
	if err := f.hit("archive_product"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cur := f.products[id]
	cur.IsArchived = true
	f.products[id] = cur
	return nil
}

func (f *fakeBackend) ListUsers(context.Context) ([]domain.User, error) {
	if err := f.hit("list_users"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeBackend) GetUser(_ context.Context, id string) (domain.User, error) {
	if err := f.hit("get_user"); err != nil {
		return domain.User{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

func (f *fakeBackend) CreateUser(_ context.Context, u domain.UserPayload) (*domain.User, error) {
	if err := f.hit("create_user"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := domain.User{UserID: "u-2", FirstName: u.FirstName, LastName: u.LastName}
	f.users["u-2"] = out
	return &out, nil
}

func (f *fakeBackend) UpdateUser(_ context.Context, id string, u domain.UserPayload) (*domain.User, error) {
	if err := f.hit("update_user"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cur := f.users[id]
	if u.FirstName != "" {
		cur.FirstName = u.FirstName
	}
	f.users[id] = cur
	return &cur, nil
}

func (f *fakeBackend) ArchiveUser(_ context.Context, id string) error {
	if err := f.hit("archive_user"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cur := f.users[id]
	cur.IsArchived = true
	f.users[id] = cur
	return nil
}

func newSession(t *testing.T, sid string) (*Client, *Session, *fakeBackend) {
	t.Helper()
	q := New(cache.New(cache.NewMemoryStore(), time.Minute), nil)
	fb := newFake()
	return q, q.Session(sid, fb), fb
}

func TestReads_FetchOnceReuseUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	_, s, fb := newSession(t, "sid-a")

	for i := 0; i < 3; i++ {
		list, err := s.Products(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 2)
		_, err = s.Product(ctx, "p-1")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, fb.count("list_products"))
	assert.Equal(t, 1, fb.count("get_product"))

	s.Invalidate(ctx, Products, "p-1")
	_, err := s.Products(ctx)
	require.NoError(t, err)
	_, err = s.Product(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 2, fb.count("list_products"))
	assert.Equal(t, 2, fb.count("get_product"))
}

func TestSessionsDoNotShareCache(t *testing.T) {
	ctx := context.Background()
	q, a, fb := newSession(t, "sid-a")
	b := q.Session("sid-b", fb)

	_, err := a.Users(ctx)
	require.NoError(t, err)
	_, err = b.Users(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, fb.count("list_users"))

	require.NoError(t, q.Purge(ctx, "sid-a"))
	_, err = a.Users(ctx)
	require.NoError(t, err)
	_, err = b.Users(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, fb.count("list_users"))
}

func TestCreate_InvalidatesList(t *testing.T) {
	ctx := context.Background()
	_, s, fb := newSession(t, "sid")

	_, err := s.Products(ctx)
	require.NoError(t, err)
	_, err = s.Product(ctx, "p-1")
	require.NoError(t, err)

	created, err := s.CreateProduct(ctx, domain.ProductPayload{ProductName: "Goggle", Quantity: 9})
	require.NoError(t, err)
	assert.Equal(t, "p-3", created.ProductID)

	list, err := s.Products(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
	_, err = s.Product(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 2, fb.count("list_products"))
	assert.Equal(t, 1, fb.count("get_product"), "detail of another record stays cached")
}

func TestUpdate_InvalidatesListAndDetail(t *testing.T) {
	ctx := context.Background()
	_, s, fb := newSession(t, "sid")

	_, err := s.User(ctx, "u-1")
	require.NoError(t, err)
	_, err = s.UpdateUser(ctx, "u-1", domain.UserPayload{FirstName: "Marie"})
	require.NoError(t, err)

	u, err := s.User(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Marie", u.FirstName)
	assert.Equal(t, 2, fb.count("get_user"))
}

func TestArchive_RecordVanishesFromDefaultList(t *testing.T) {
	ctx := context.Background()
	_, s, _ := newSession(t, "sid")

	list, err := s.Products(ctx)
	require.NoError(t, err)
	require.Len(t, domain.FilterProducts(list, domain.ProductFilter{}), 2)

	require.NoError(t, s.ArchiveProduct(ctx, "p-2"))

	list, err = s.Products(ctx)
	require.NoError(t, err)
	visible := domain.FilterProducts(list, domain.ProductFilter{})
	require.Len(t, visible, 1)
	assert.Equal(t, "p-1", visible[0].ProductID)
}

func TestArchive_DuringInflightListRead(t *testing.T) {
	ctx := context.Background()
	_, s, fb := newSession(t, "sid")
	fb.listed = make(chan struct{}, 1)
	fb.listGate = make(chan struct{})

	errc := make(chan error, 1)
	go func() {
		_, err := s.Products(ctx)
		errc <- err
	}()
	<-fb.listed

	// 另一个标签页在读取途中归档了 p-1
	require.NoError(t, s.ArchiveProduct(ctx, "p-1"))
	fb.mu.Lock()
	gate := fb.listGate
	fb.listGate = nil
	fb.mu.Unlock()
	close(gate)
	require.NoError(t, <-errc)

	list, err := s.Products(ctx)
	require.NoError(t, err)
	visible := domain.FilterProducts(list, domain.ProductFilter{})
	require.Len(t, visible, 1)
	assert.Equal(t, "p-2", visible[0].ProductID)
	assert.Equal(t, 2, fb.count("list_products"))
}

func TestFailedMutation_LeavesCacheIntact(t *testing.T) {
	ctx := context.Background()
	_, s, fb := newSession(t, "sid")

	_, err := s.Products(ctx)
	require.NoError(t, err)

	boom := errors.New("server exploded")
	fb.fail = boom
	_, err = s.UpdateProduct(ctx, "p-1", domain.ProductPayload{ProductName: "Renamed"})
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, s.ArchiveUser(ctx, "u-1"), boom)

	fb.fail = nil
	list, err := s.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Aviator", list[0].ProductName)
	assert.Equal(t, 1, fb.count("list_products"))
	assert.False(t, s.Pending(Target(MutUpdateProduct, "p-1")))
}

func TestPendingGuard(t *testing.T) {
	ctx := context.Background()
	q, s, fb := newSession(t, "sid")
	fb.block = make(chan struct{})

	errc := make(chan error, 1)
	go func() {
		_, err := s.CreateUser(ctx, domain.UserPayload{FirstName: "Ana"})
		errc <- err
	}()

	require.Eventually(t, func() bool { return s.Pending(MutCreateUser) }, time.Second, 5*time.Millisecond)

	_, err := s.CreateUser(ctx, domain.UserPayload{FirstName: "Ana"})
	assert.ErrorIs(t, err, ErrPending)

	// 其他会话不受影响
	other := q.Session("sid-other", fb)
	assert.False(t, other.Pending(MutCreateUser))

	close(fb.block)
	require.NoError(t, <-errc)
	assert.False(t, s.Pending(MutCreateUser))
	assert.Equal(t, 1, fb.count("create_user"))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "products", ListKey(Products))
	assert.Equal(t, "users", ListKey(Users))
	assert.Equal(t, "product:p-1", DetailKey(Products, "p-1"))
	assert.Equal(t, "update_user:u-1", Target(MutUpdateUser, "u-1"))
	assert.Equal(t, "create_user", Target(MutCreateUser, ""))
}
