// Package storetest holds the behaviour every store.Store backend must share.
// Backend test files call Run with a constructor returning an empty store.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/junaidrashid-git/eshop-api/models"
	"github.com/junaidrashid-git/eshop-api/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty store for one subtest.
type Factory func(t *testing.T) store.Store

func Run(t *testing.T, newStore Factory) {
	t.Run("categories", func(t *testing.T) { testCategories(t, newStore(t)) })
	t.Run("products", func(t *testing.T) { testProducts(t, newStore(t)) })
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("order items", func(t *testing.T) { testOrderItems(t, newStore(t)) })
	t.Run("orders", func(t *testing.T) { testOrders(t, newStore(t)) })
}

// goneID returns an id in the backend's own format that no longer exists.
func goneID(t *testing.T, s store.Store) string {
	t.Helper()
	ctx := context.Background()
	c := &models.Category{Name: "tmp"}
	require.NoError(t, s.CreateCategory(ctx, c))
	_, err := s.DeleteCategory(ctx, c.ID)
	require.NoError(t, err)
	return c.ID
}

func testCategories(t *testing.T, s store.Store) {
	ctx := context.Background()

	in := models.Category{Name: "Phones", Icon: "icon-phone", Color: "#55879", Image: "phones.png"}
	created := in
	require.NoError(t, s.CreateCategory(ctx, &created))
	require.NotEmpty(t, created.ID)

	got, err := s.GetCategory(ctx, created.ID)
	require.NoError(t, err)
	in.ID = created.ID
	assert.Equal(t, in, *got)

	got.Name = "Smartphones"
	require.NoError(t, s.UpdateCategory(ctx, got))
	again, err := s.GetCategory(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Smartphones", again.Name)

	list, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	deleted, err := s.DeleteCategory(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Smartphones", deleted.Name)

	_, err = s.GetCategory(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.DeleteCategory(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.UpdateCategory(ctx, &models.Category{ID: created.ID, Name: "x"}), store.ErrNotFound)

	_, err = s.GetCategory(ctx, "not-an-id")
	assert.ErrorIs(t, err, store.ErrInvalidID)
}

func testProducts(t *testing.T, s store.Store) {
	ctx := context.Background()

	catA, catB, catC := goneID(t, s), goneID(t, s), goneID(t, s)
	now := time.Now().UTC().Truncate(time.Millisecond)

	seed := []models.Product{
		{Name: "a1", Description: "d", Category: catA, Price: 10, IsFeatured: true, DateCreated: now},
		{Name: "b1", Description: "d", Category: catB, Price: 20, DateCreated: now},
		{Name: "c1", Description: "d", Category: catC, Price: 30, IsFeatured: true, DateCreated: now},
		{Name: "a2", Description: "d", Category: catA, Price: 40, IsFeatured: true, DateCreated: now},
	}
	for i := range seed {
		require.NoError(t, s.CreateProduct(ctx, &seed[i]))
	}

	all, err := s.ListProducts(ctx, store.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	filtered, err := s.ListProducts(ctx, store.ProductFilter{CategoryIDs: []string{catA, catB}})
	require.NoError(t, err)
	assert.Len(t, filtered, 3)
	for _, p := range filtered {
		assert.Contains(t, []string{catA, catB}, p.Category)
	}

	featured, err := s.ListProducts(ctx, store.ProductFilter{FeaturedOnly: true})
	require.NoError(t, err)
	assert.Len(t, featured, 3)

	limited, err := s.ListProducts(ctx, store.ProductFilter{FeaturedOnly: true, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	count, err := s.CountProducts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, count)

	p, err := s.GetProduct(ctx, seed[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "b1", p.Name)
	assert.True(t, now.Equal(p.DateCreated))

	p.Price = 25
	p.Image = "http://host/public/uploads/x.png"
	require.NoError(t, s.UpdateProduct(ctx, p))
	p, err = s.GetProduct(ctx, seed[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, p.Price)
	assert.Equal(t, "http://host/public/uploads/x.png", p.Image)

	_, err = s.DeleteProduct(ctx, seed[1].ID)
	require.NoError(t, err)
	_, err = s.GetProduct(ctx, seed[1].ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.UpdateProduct(ctx, &models.Product{ID: seed[1].ID, Name: "x", Description: "d"}), store.ErrNotFound)

	count, err = s.CountProducts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()

	u := &models.User{Name: "Ann", Email: "ann@example.com", PasswordHash: "hash", IsAdmin: true, City: "Oslo"}
	require.NoError(t, s.CreateUser(ctx, u))
	require.NotEmpty(t, u.ID)

	dup := &models.User{Name: "Other", Email: "ann@example.com", PasswordHash: "hash"}
	assert.ErrorIs(t, s.CreateUser(ctx, dup), store.ErrConflict)

	got, err := s.GetUserByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.True(t, got.IsAdmin)

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	got.Phone = "+47 123"
	require.NoError(t, s.UpdateUser(ctx, got))
	got, err = s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "+47 123", got.Phone)

	count, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	list, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = s.DeleteUser(ctx, u.ID)
	require.NoError(t, err)
	_, err = s.GetUser(ctx, u.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testOrderItems(t *testing.T, s store.Store) {
	ctx := context.Background()

	item := &models.OrderItem{Quantity: 3, Product: goneID(t, s)}
	require.NoError(t, s.CreateOrderItem(ctx, item))
	require.NotEmpty(t, item.ID)

	got, err := s.GetOrderItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, *item, *got)

	require.NoError(t, s.DeleteOrderItem(ctx, item.ID))
	assert.ErrorIs(t, s.DeleteOrderItem(ctx, item.ID), store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteOrderItem(ctx, "not-an-id"), store.ErrInvalidID)
}

func testOrders(t *testing.T, s store.Store) {
	ctx := context.Background()

	userA, userB := goneID(t, s), goneID(t, s)
	items := []string{goneID(t, s), goneID(t, s)}

	o1 := &models.Order{
		OrderItems:       items,
		ShippingAddress1: "Main St 1",
		City:             "Prague",
		Zip:              "00000",
		Country:          "CZ",
		Phone:            "+420",
		Status:           models.OrderStatusPending,
		TotalPrice:       120,
		User:             userA,
		DateOrdered:      time.Now().UTC().Truncate(time.Millisecond),
	}
	o2 := &models.Order{Status: models.OrderStatusPending, TotalPrice: 30.5, User: userB}
	require.NoError(t, s.CreateOrder(ctx, o1))
	require.NoError(t, s.CreateOrder(ctx, o2))

	got, err := s.GetOrder(ctx, o1.ID)
	require.NoError(t, err)
	assert.Equal(t, items, got.OrderItems)
	assert.Equal(t, "Prague", got.City)

	mine, err := s.ListOrders(ctx, store.OrderFilter{UserID: userA})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, o1.ID, mine[0].ID)

	all, err := s.ListOrders(ctx, store.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	updated, err := s.UpdateOrderStatus(ctx, o1.ID, "Shipped")
	require.NoError(t, err)
	assert.Equal(t, "Shipped", updated.Status)
	assert.Equal(t, items, updated.OrderItems)

	total, err := s.TotalSales(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 150.5, total, 0.001)

	count, err := s.CountOrders(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	removed, err := s.DeleteOrder(ctx, o1.ID)
	require.NoError(t, err)
	assert.Equal(t, items, removed.OrderItems)

	_, err = s.DeleteOrder(ctx, o1.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.UpdateOrderStatus(ctx, o1.ID, "x")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
