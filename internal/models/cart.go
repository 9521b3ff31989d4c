package models

import "gorm.io/gorm"

// CartItem is one product line in a buyer's cart. One row per
// (buyer, product); adding the same product again bumps the quantity.
type CartItem struct {
	gorm.Model
	BuyerID   uint     `gorm:"not null;index:idx_cart_buyer_product,unique" json:"-"`
	ProductID uint     `gorm:"not null;index:idx_cart_buyer_product,unique" json:"product_id"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int      `gorm:"not null" json:"quantity"`
}
