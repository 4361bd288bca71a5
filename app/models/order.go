package models

import "gorm.io/gorm"

// OrderStatus is the linear order lifecycle:
// pending → confirmed → shipped → completed, with pending → cancelled as the
// only early exit.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a known status value.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Order is the immutable snapshot created from a cart. Only Status,
// TrackingNumber, and UpdatedAt change after creation; TotalAmount is fixed
// at creation time and never recomputed.
type Order struct {
	gorm.Model
	OrderNumber    string      `gorm:"size:50;not null;index" json:"order_number"`
	UserID         uint        `gorm:"not null;index" json:"user_id"`
	Status         OrderStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	TotalAmount    float64     `gorm:"not null;default:0" json:"total_amount"`
	Remark         string      `gorm:"type:text" json:"remark"`
	TrackingNumber string      `gorm:"size:100" json:"tracking_number"`
}

// OrderItem is one line of an order. ProductName, ModelNumber, and UnitPrice
// are copied from the product at order creation so later catalogue edits
// never alter historical orders.
type OrderItem struct {
	gorm.Model
	OrderID     uint    `gorm:"not null;index" json:"order_id"`
	ProductID   uint    `gorm:"not null;index" json:"product_id"`
	ProductName string  `gorm:"size:255;not null" json:"product_name"`
	ModelNumber string  `gorm:"size:100" json:"model_number"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	UnitPrice   float64 `gorm:"not null" json:"unit_price"`
}
