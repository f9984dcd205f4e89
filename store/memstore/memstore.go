// Package memstore is an in-process store.Store. It backs the test suites and
// STORE_DRIVER=memory development runs; nothing survives a restart.
package memstore

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/junaidrashid-git/eshop-api/models"
	"github.com/junaidrashid-git/eshop-api/store"
)

// table keeps rows in insertion order so listings are stable.
type table[T any] struct {
	rows  map[string]T
	order []string
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func (t *table[T]) list() []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

func (t *table[T]) get(id string) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) insert(id string, v T) {
	t.rows[id] = v
	t.order = append(t.order, id)
}

func (t *table[T]) replace(id string, v T) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	t.rows[id] = v
	return true
}

func (t *table[T]) remove(id string) (T, bool) {
	v, ok := t.rows[id]
	if !ok {
		return v, false
	}
	delete(t.rows, id)
	t.order = slices.DeleteFunc(t.order, func(s string) bool { return s == id })
	return v, true
}

// Store is safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	categories *table[models.Category]
	products   *table[models.Product]
	users      *table[models.User]
	orderItems *table[models.OrderItem]
	orders     *table[models.Order]
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		categories: newTable[models.Category](),
		products:   newTable[models.Product](),
		users:      newTable[models.User](),
		orderItems: newTable[models.OrderItem](),
		orders:     newTable[models.Order](),
	}
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return store.ErrInvalidID
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error  { return nil }
func (s *Store) Close(ctx context.Context) error { return nil }

// ---------------- Categories ----------------

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories.list(), nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = uuid.NewString()
	s.categories.insert(c.ID, *c)
	return nil
}

func (s *Store) UpdateCategory(ctx context.Context, c *models.Category) error {
	if err := checkID(c.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.categories.replace(c.ID, *c) {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) (*models.Category, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories.remove(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

// ---------------- Products ----------------

func (s *Store) ListProducts(ctx context.Context, f store.ProductFilter) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0)
	for _, p := range s.products.list() {
		if len(f.CategoryIDs) > 0 && !slices.Contains(f.CategoryIDs, p.Category) {
			continue
		}
		if f.FeaturedOnly && !p.IsFeatured {
			continue
		}
		out = append(out, p)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uuid.NewString()
	s.products.insert(p.ID, *p)
	return nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	if err := checkID(p.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.products.replace(p.ID, *p) {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) (*models.Product, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products.remove(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *Store) CountProducts(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.products.rows)), nil
}

// ---------------- Users ----------------

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.list(), nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users.rows {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

// emailTaken must be called with s.mu held.
func (s *Store) emailTaken(email, exceptID string) bool {
	for id, u := range s.users.rows {
		if id != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emailTaken(u.Email, "") {
		return store.ErrConflict
	}
	u.ID = uuid.NewString()
	s.users.insert(u.ID, *u)
	return nil
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	if err := checkID(u.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users.get(u.ID); !ok {
		return store.ErrNotFound
	}
	if s.emailTaken(u.Email, u.ID) {
		return store.ErrConflict
	}
	s.users.replace(u.ID, *u)
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) (*models.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users.remove(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users.rows)), nil
}

// ---------------- Order items ----------------

func (s *Store) CreateOrderItem(ctx context.Context, item *models.OrderItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = uuid.NewString()
	s.orderItems.insert(item.ID, *item)
	return nil
}

func (s *Store) GetOrderItem(ctx context.Context, id string) (*models.OrderItem, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.orderItems.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &item, nil
}

func (s *Store) DeleteOrderItem(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orderItems.remove(id); !ok {
		return store.ErrNotFound
	}
	return nil
}

// OrderItemCount reports how many order items are stored. Tests use it to
// detect orphans.
func (s *Store) OrderItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orderItems.rows)
}

// ---------------- Orders ----------------

func cloneOrder(o models.Order) models.Order {
	o.OrderItems = slices.Clone(o.OrderItems)
	return o
}

func (s *Store) ListOrders(ctx context.Context, f store.OrderFilter) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Order, 0)
	for _, o := range s.orders.list() {
		if f.UserID != "" && o.User != f.UserID {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	return out, nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	o = cloneOrder(o)
	return &o, nil
}

func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o.ID = uuid.NewString()
	s.orders.insert(o.ID, cloneOrder(*o))
	return nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id, status string) (*models.Order, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	o.Status = status
	s.orders.replace(id, o)
	o = cloneOrder(o)
	return &o, nil
}

func (s *Store) DeleteOrder(ctx context.Context, id string) (*models.Order, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders.remove(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &o, nil
}

func (s *Store) CountOrders(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.orders.rows)), nil
}

func (s *Store) TotalSales(ctx context.Context) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total float64
	for _, o := range s.orders.rows {
		total += o.TotalPrice
	}
	return total, nil
}
