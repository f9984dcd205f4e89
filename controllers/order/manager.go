package ordercontroller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/junaidrashid-git/eshop-api/models"
	"github.com/junaidrashid-git/eshop-api/store"
	"golang.org/x/sync/errgroup"
)

var (
	ErrEmptyOrder      = errors.New("order must contain at least one item")
	ErrInvalidProduct  = errors.New("invalid product")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidStatus   = errors.New("status is required")
)

// defaultFanOut caps concurrent item writes for a single order.
const defaultFanOut = 8

// AggregateStore is the slice of the store an order aggregate touches.
type AggregateStore interface {
	store.Orders
	store.OrderItems
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

// LineItem is one {product, quantity} pair of an order request.
type LineItem struct {
	Product  string
	Quantity int
}

type CreateInput struct {
	Items            []LineItem
	ShippingAddress1 string
	ShippingAddress2 string
	City             string
	Zip              string
	Country          string
	Phone            string
	Status           string
	User             string
	// TotalPrice is what the client computed. It is only compared against
	// the server total.
	TotalPrice float64
}

// AggregateError reports a create that failed after items may have been
// written. Orphaned lists the items compensation could not remove.
type AggregateError struct {
	Op       string
	Err      error
	Orphaned []string
}

func (e *AggregateError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Op, e.Err)
	if len(e.Orphaned) > 0 {
		msg += fmt.Sprintf(" (%d orphaned order items)", len(e.Orphaned))
	}
	return msg
}

func (e *AggregateError) Unwrap() error { return e.Err }

// DeleteResult describes a completed order delete. The order is gone even
// when some items failed to delete.
type DeleteResult struct {
	Order       *models.Order
	FailedItems []string
	Err         error
}

// Manager keeps an Order and its OrderItems created and removed together.
type Manager struct {
	store  AggregateStore
	events Notifier
	fanOut int
	now    func() time.Time
}

// NewManager wires a manager. events may be nil.
func NewManager(s AggregateStore, events Notifier) *Manager {
	return &Manager{store: s, events: events, fanOut: defaultFanOut, now: time.Now}
}

// Create validates the line items, writes one OrderItem per line
// concurrently and then the Order referencing them in input order. On
// failure the written items are deleted again.
func (m *Manager) Create(ctx context.Context, in CreateInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	total, err := m.priceItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}
	if in.TotalPrice != 0 && math.Abs(in.TotalPrice-total) > 0.005 {
		slog.Warn("client order total ignored", "client_total", in.TotalPrice, "total", total, "user", in.User)
	}

	ids, err := m.writeItems(ctx, in.Items)
	if err != nil {
		return nil, m.compensate(ctx, "create order items", err, ids)
	}

	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = models.OrderStatusPending
	}
	order := &models.Order{
		OrderItems:       ids,
		ShippingAddress1: in.ShippingAddress1,
		ShippingAddress2: in.ShippingAddress2,
		City:             in.City,
		Zip:              in.Zip,
		Country:          in.Country,
		Phone:            in.Phone,
		Status:           status,
		TotalPrice:       total,
		User:             in.User,
		DateOrdered:      m.now().UTC(),
	}
	if err := m.store.CreateOrder(ctx, order); err != nil {
		return nil, m.compensate(ctx, "create order", err, ids)
	}

	m.publish(EventOrderCreated, order)
	return order, nil
}

// priceItems resolves every referenced product and sums price × quantity.
func (m *Manager) priceItems(ctx context.Context, items []LineItem) (float64, error) {
	prices := make(map[string]float64, len(items))
	var total float64
	for i, item := range items {
		if item.Quantity < 1 {
			return 0, fmt.Errorf("item %d: %w", i, ErrInvalidQuantity)
		}
		price, ok := prices[item.Product]
		if !ok {
			product, err := m.store.GetProduct(ctx, item.Product)
			switch {
			case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrInvalidID):
				return 0, fmt.Errorf("item %d (%s): %w", i, item.Product, ErrInvalidProduct)
			case err != nil:
				return 0, fmt.Errorf("resolve product %s: %w", item.Product, err)
			}
			price = product.Price
			prices[item.Product] = price
		}
		total += price * float64(item.Quantity)
	}
	return math.Round(total*100) / 100, nil
}

// writeItems persists the items concurrently. ids[i] belongs to items[i]
// whatever order the writes finish in; failed slots stay empty.
func (m *Manager) writeItems(ctx context.Context, items []LineItem) ([]string, error) {
	ids := make([]string, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.fanOut)
	for i, item := range items {
		g.Go(func() error {
			rec := &models.OrderItem{Quantity: item.Quantity, Product: item.Product}
			if err := m.store.CreateOrderItem(gctx, rec); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			ids[i] = rec.ID
			return nil
		})
	}
	return ids, g.Wait()
}

func (m *Manager) compensate(ctx context.Context, op string, cause error, ids []string) error {
	orphaned, err := m.deleteItems(context.WithoutCancel(ctx), ids)
	if err != nil {
		slog.Error("order compensation incomplete", "op", op, "orphaned", orphaned, "error", err)
	}
	return &AggregateError{Op: op, Err: cause, Orphaned: orphaned}
}

// deleteItems removes items concurrently. Missing items count as removed.
// The returned ids keep the input order.
func (m *Manager) deleteItems(ctx context.Context, ids []string) ([]string, error) {
	errs := make([]error, len(ids))
	var g errgroup.Group
	g.SetLimit(m.fanOut)
	for i, id := range ids {
		if id == "" {
			continue
		}
		g.Go(func() error {
			if err := m.store.DeleteOrderItem(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
				errs[i] = fmt.Errorf("delete order item %s: %w", id, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	var failed []string
	for i, err := range errs {
		if err != nil {
			failed = append(failed, ids[i])
		}
	}
	return failed, errors.Join(errs...)
}

// Delete removes the order and then its items. A missing order is
// store.ErrNotFound and nothing else is touched. Item failures are reported
// in the result and do not bring the order back.
func (m *Manager) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	order, err := m.store.DeleteOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	failed, err := m.deleteItems(context.WithoutCancel(ctx), order.OrderItems)
	if err != nil {
		slog.Error("order items left behind", "order", order.ID, "items", failed, "error", err)
	}

	m.publish(EventOrderDeleted, order)
	return &DeleteResult{Order: order, FailedItems: failed, Err: err}, nil
}

// UpdateStatus overwrites the status with any non-empty value.
func (m *Manager) UpdateStatus(ctx context.Context, id, status string) (*models.Order, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, ErrInvalidStatus
	}
	order, err := m.store.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	m.publish(EventOrderStatus, order)
	return order, nil
}

func (m *Manager) List(ctx context.Context, f store.OrderFilter) ([]models.Order, error) {
	return m.store.ListOrders(ctx, f)
}

func (m *Manager) Get(ctx context.Context, id string) (*models.Order, error) {
	return m.store.GetOrder(ctx, id)
}

func (m *Manager) Count(ctx context.Context) (int64, error) {
	return m.store.CountOrders(ctx)
}

func (m *Manager) TotalSales(ctx context.Context) (float64, error) {
	return m.store.TotalSales(ctx)
}

func (m *Manager) publish(kind string, order *models.Order) {
	if m.events == nil {
		return
	}
	m.events.Publish(Event{Type: kind, Order: order})
}
