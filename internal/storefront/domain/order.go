package domain

import "time"

// Order statuses, in rough fulfilment sequence.
const (
	OrderStatusPlaced    = "placed"
	OrderStatusPacked    = "packed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// ValidOrderStatus reports whether s is a known fulfilment status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPlaced, OrderStatusPacked, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem is a product line frozen at checkout price.
type OrderItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// Order is a placed cash-on-delivery order.
type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"-"`
	Items     []OrderItem `json:"items"`
	Total     int64       `json:"total"`
	Status    string      `json:"status"`
	Address   string      `json:"address"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"-"`
}
