package entity

import "time"

// OrderStatus enumerates the lifecycle of an order as recorded in a
// customer's history.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderAssigned  OrderStatus = "assigned"
	OrderPickedUp  OrderStatus = "picked_up"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderHistoryEntry is an append-only record on a customer profile.
type OrderHistoryEntry struct {
	OrderID string      `json:"order_id" bson:"order_id"`
	Date    time.Time   `json:"date" bson:"date"`
	Status  OrderStatus `json:"status" bson:"status"`
}
