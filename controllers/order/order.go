package ordercontroller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/eshop-api/auth"
	"github.com/junaidrashid-git/eshop-api/respond"
	"github.com/junaidrashid-git/eshop-api/store"
)

// -------- Request Structs --------

type OrderItemInput struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

type CreateOrderRequest struct {
	OrderItems       []OrderItemInput `json:"orderItems"`
	ShippingAddress1 string           `json:"shippingAddress1" binding:"required"`
	ShippingAddress2 string           `json:"shippingAddress2"`
	City             string           `json:"city" binding:"required"`
	Zip              string           `json:"zip" binding:"required"`
	Country          string           `json:"country" binding:"required"`
	Phone            string           `json:"phone" binding:"required"`
	Status           string           `json:"status"`
	TotalPrice       float64          `json:"totalPrice"`
	User             string           `json:"user"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (r CreateOrderRequest) input() CreateInput {
	items := make([]LineItem, len(r.OrderItems))
	for i, it := range r.OrderItems {
		items[i] = LineItem{Product: it.Product, Quantity: it.Quantity}
	}
	return CreateInput{
		Items:            items,
		ShippingAddress1: r.ShippingAddress1,
		ShippingAddress2: r.ShippingAddress2,
		City:             r.City,
		Zip:              r.Zip,
		Country:          r.Country,
		Phone:            r.Phone,
		Status:           r.Status,
		User:             r.User,
		TotalPrice:       r.TotalPrice,
	}
}

// -------- Handlers --------

func GetAllOrdersHandler(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := m.List(c.Request.Context(), store.OrderFilter{})
		if err != nil {
			respond.StoreError(c, err, "Failed to fetch orders")
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func GetUserOrdersHandler(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := m.List(c.Request.Context(), store.OrderFilter{UserID: c.Param("userid")})
		if err != nil {
			respond.StoreError(c, err, "Failed to fetch orders")
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func GetOrderByIDHandler(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := m.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.StoreError(c, err, "order not found")
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// PlaceOrderHandler creates an order. Without a user in the body the order
// belongs to the caller's token.
func PlaceOrderHandler(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, err.Error())
			return
		}

		in := req.input()
		if in.User == "" {
			if claims, ok := auth.ClaimsFrom(c); ok {
				in.User = claims.UserID
			}
		}
		if in.User == "" {
			respond.Error(c, http.StatusBadRequest, "user is required")
			return
		}

		order, err := m.Create(c.Request.Context(), in)
		if err != nil {
			orderError(c, err, "the order cannot be created!")
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func UpdateOrderStatusHandler(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, err.Error())
			return
		}

		order, err := m.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			orderError(c, err, "order not found")
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func DeleteOrderHandler(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := m.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.StoreError(c, err, "order not found!")
			return
		}

		body := gin.H{"success": true, "message": "the order is deleted!"}
		if len(result.FailedItems) > 0 {
			body["failedItems"] = result.FailedItems
		}
		c.JSON(http.StatusOK, body)
	}
}

func GetOrderCountHandler(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := m.Count(c.Request.Context())
		if err != nil {
			respond.StoreError(c, err, "Failed to count orders")
			return
		}
		c.JSON(http.StatusOK, gin.H{"orderCount": count})
	}
}

func GetTotalSalesHandler(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		total, err := m.TotalSales(c.Request.Context())
		if err != nil {
			respond.StoreError(c, err, "The order sales cannot be generated")
			return
		}
		c.JSON(http.StatusOK, gin.H{"totalsales": total})
	}
}

func orderError(c *gin.Context, err error, notFound string) {
	var aggErr *AggregateError
	switch {
	case errors.Is(err, ErrEmptyOrder), errors.Is(err, ErrInvalidProduct),
		errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidStatus):
		respond.Error(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &aggErr):
		slog.Error("order aggregate failed", "error", err, "orphaned", aggErr.Orphaned)
		var details gin.H
		if len(aggErr.Orphaned) > 0 {
			details = gin.H{"orphanedItems": aggErr.Orphaned}
		}
		respond.Error(c, http.StatusInternalServerError, notFound, details)
	default:
		respond.StoreError(c, err, notFound)
	}
}
