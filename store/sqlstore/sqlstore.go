// Package sqlstore implements store.Store on gorm. It runs against postgres in
// deployments without a document store and against sqlite locally and in tests.
package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/junaidrashid-git/eshop-api/models"
	"github.com/junaidrashid-git/eshop-api/store"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// Open connects with the named driver ("postgres" or "sqlite") and migrates
// the schema.
func Open(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", driver, err)
	}

	if driver == "sqlite" {
		// sqlite serialises writers; a single connection also keeps
		// ":memory:" databases from splitting per connection.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return New(db)
}

// New wraps an existing connection and runs AutoMigrate.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.User{},
		&models.OrderItem{},
		&models.Order{},
	); err != nil {
		return nil, fmt.Errorf("sqlstore: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return store.ErrInvalidID
	}
	return nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return store.ErrConflict
	default:
		return err
	}
}

// first loads the record with the given id into dst.
func (s *Store) first(ctx context.Context, dst any, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return translate(s.db.WithContext(ctx).First(dst, "id = ?", id).Error)
}

// replace overwrites every column of an existing row.
func (s *Store) replace(ctx context.Context, model any, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Select("*").Updates(model)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// remove loads then deletes a row, returning what was deleted in dst.
func (s *Store) remove(ctx context.Context, dst any, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkID(id); err != nil {
			return err
		}
		if err := tx.First(dst, "id = ?", id).Error; err != nil {
			return translate(err)
		}
		return tx.Delete(dst, "id = ?", id).Error
	})
}

func (s *Store) count(ctx context.Context, model any) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(model).Count(&n).Error
	return n, err
}

// ---------------- Categories ----------------

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0)
	if err := s.db.WithContext(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	if err := s.first(ctx, &c, id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	c.ID = uuid.NewString()
	return translate(s.db.WithContext(ctx).Create(c).Error)
}

func (s *Store) UpdateCategory(ctx context.Context, c *models.Category) error {
	return s.replace(ctx, c, c.ID)
}

func (s *Store) DeleteCategory(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	if err := s.remove(ctx, &c, id); err != nil {
		return nil, err
	}
	return &c, nil
}

// ---------------- Products ----------------

func (s *Store) ListProducts(ctx context.Context, f store.ProductFilter) ([]models.Product, error) {
	q := s.db.WithContext(ctx).Model(&models.Product{})
	if len(f.CategoryIDs) > 0 {
		q = q.Where("category IN ?", f.CategoryIDs)
	}
	if f.FeaturedOnly {
		q = q.Where("is_featured = ?", true)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	out := make([]models.Product, 0)
	if err := q.Order("date_created").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := s.first(ctx, &p, id); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	p.ID = uuid.NewString()
	return translate(s.db.WithContext(ctx).Create(p).Error)
}

func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	return s.replace(ctx, p, p.ID)
}

func (s *Store) DeleteProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := s.remove(ctx, &p, id); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CountProducts(ctx context.Context) (int64, error) {
	return s.count(ctx, &models.Product{})
}

// ---------------- Users ----------------

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0)
	if err := s.db.WithContext(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.first(ctx, &u, id); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	u.ID = uuid.NewString()
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	return s.replace(ctx, u, u.ID)
}

func (s *Store) DeleteUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.remove(ctx, &u, id); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	return s.count(ctx, &models.User{})
}

// ---------------- Order items ----------------

func (s *Store) CreateOrderItem(ctx context.Context, item *models.OrderItem) error {
	item.ID = uuid.NewString()
	return translate(s.db.WithContext(ctx).Create(item).Error)
}

func (s *Store) GetOrderItem(ctx context.Context, id string) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := s.first(ctx, &item, id); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) DeleteOrderItem(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Delete(&models.OrderItem{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ---------------- Orders ----------------

func (s *Store) ListOrders(ctx context.Context, f store.OrderFilter) ([]models.Order, error) {
	q := s.db.WithContext(ctx).Model(&models.Order{})
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	out := make([]models.Order, 0)
	if err := q.Order("date_ordered DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	if err := s.first(ctx, &o, id); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	o.ID = uuid.NewString()
	return translate(s.db.WithContext(ctx).Create(o).Error)
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id, status string) (*models.Order, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	res := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetOrder(ctx, id)
}

func (s *Store) DeleteOrder(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	if err := s.remove(ctx, &o, id); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) CountOrders(ctx context.Context) (int64, error) {
	return s.count(ctx, &models.Order{})
}

func (s *Store) TotalSales(ctx context.Context) (float64, error) {
	var total float64
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error
	return total, err
}
