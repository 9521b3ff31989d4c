package models

import "gorm.io/gorm"

// Order statuses.
const (
	OrderPlaced    = "placed"
	OrderPaid      = "paid"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// Payment methods accepted at checkout.
const (
	PaymentCard           = "card"
	PaymentCashOnDelivery = "cod"
)

type Order struct {
	gorm.Model
	BuyerID         uint        `gorm:"not null;index" json:"-"`
	Buyer           *User       `gorm:"foreignKey:BuyerID" json:"-"`
	Status          string      `gorm:"default:'placed'" json:"status"`
	TotalCents      int64       `json:"total_cents"`
	PaymentMethod   string      `json:"payment_method"`
	PaymentRef      string      `json:"payment_ref,omitempty"`
	ShippingAddress string      `json:"shipping_address"`
	Items           []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

// OrderItem snapshots the product price at checkout time so later catalog
// edits do not rewrite order history.
type OrderItem struct {
	gorm.Model
	OrderID    uint     `gorm:"not null;index" json:"-"`
	ProductID  uint     `gorm:"not null;index" json:"product_id"`
	Product    *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	FarmerID   uint     `gorm:"not null;index" json:"farmer_id"`
	Quantity   int      `gorm:"not null" json:"quantity"`
	PriceCents int64    `gorm:"not null" json:"price_cents"`
}
