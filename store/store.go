// Package store defines the persistence contract the handlers depend on.
// Backends live in the subpackages: mongostore (document store, the default),
// sqlstore (gorm over postgres or sqlite) and memstore (in-process).
package store

import (
	"context"
	"errors"

	"github.com/junaidrashid-git/eshop-api/models"
)

var (
	// ErrNotFound reports that no record has the requested identifier.
	ErrNotFound = errors.New("store: record not found")
	// ErrInvalidID reports an identifier the backend cannot address.
	ErrInvalidID = errors.New("store: invalid identifier")
	// ErrConflict reports a uniqueness violation, e.g. a duplicate email.
	ErrConflict = errors.New("store: duplicate record")
)

// ProductFilter narrows ListProducts. Zero values mean "no restriction".
type ProductFilter struct {
	CategoryIDs  []string
	FeaturedOnly bool
	Limit        int
}

// OrderFilter narrows ListOrders.
type OrderFilter struct {
	UserID string
}

// Create methods assign the new record's ID in place. Update methods replace
// every field of the stored record. Delete methods return the removed record.
// Every method that takes an id returns ErrInvalidID for a malformed one and
// ErrNotFound when nothing matches.

type Categories interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id string) (*models.Category, error)
}

type Products interface {
	ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) (*models.Product, error)
	CountProducts(ctx context.Context) (int64, error)
}

type Users interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id string) (*models.User, error)
	CountUsers(ctx context.Context) (int64, error)
}

type OrderItems interface {
	CreateOrderItem(ctx context.Context, item *models.OrderItem) error
	GetOrderItem(ctx context.Context, id string) (*models.OrderItem, error)
	DeleteOrderItem(ctx context.Context, id string) error
}

type Orders interface {
	ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	CreateOrder(ctx context.Context, o *models.Order) error
	UpdateOrderStatus(ctx context.Context, id, status string) (*models.Order, error)
	DeleteOrder(ctx context.Context, id string) (*models.Order, error)
	CountOrders(ctx context.Context) (int64, error)
	TotalSales(ctx context.Context) (float64, error)
}

// Store is the full client handed to the router at startup.
type Store interface {
	Categories
	Products
	Users
	OrderItems
	Orders

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
