package models

import "time"

// OrderStatusPending is what a new order starts in when the caller does not
// say otherwise. Status values are free-form; no transition rules apply.
const OrderStatusPending = "Pending"

// Order is the aggregate root. OrderItems lists the ids of the items it
// owns, in the order they were submitted.
type Order struct {
	ID               string    `json:"id" bson:"_id,omitempty" gorm:"primaryKey;size:64"`
	OrderItems       []string  `json:"orderItems" bson:"orderItems" gorm:"serializer:json;type:text"`
	ShippingAddress1 string    `json:"shippingAddress1" bson:"shippingAddress1"`
	ShippingAddress2 string    `json:"shippingAddress2" bson:"shippingAddress2"`
	City             string    `json:"city" bson:"city"`
	Zip              string    `json:"zip" bson:"zip"`
	Country          string    `json:"country" bson:"country"`
	Phone            string    `json:"phone" bson:"phone"`
	Status           string    `json:"status" bson:"status" gorm:"size:32"`
	TotalPrice       float64   `json:"totalPrice" bson:"totalPrice"`
	User             string    `json:"user" bson:"user" gorm:"column:user_id;index;size:64"`
	DateOrdered      time.Time `json:"dateOrdered" bson:"dateOrdered"`
}

// OrderItem is a single line of an order. It always belongs to exactly one
// Order.
type OrderItem struct {
	ID       string `json:"id" bson:"_id,omitempty" gorm:"primaryKey;size:64"`
	Quantity int    `json:"quantity" bson:"quantity"`
	Product  string `json:"product" bson:"product" gorm:"size:64"`
}
