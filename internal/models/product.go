package models

import "gorm.io/gorm"

type Product struct {
	gorm.Model
	FarmerID    uint   `gorm:"not null;index" json:"farmer_id"`
	Farmer      *User  `gorm:"foreignKey:FarmerID" json:"-"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Category    string `gorm:"index" json:"category"`
	// Price per unit in the smallest currency denomination (centavos).
	PriceCents int64  `gorm:"not null" json:"price_cents"`
	Unit       string `gorm:"default:'kg'" json:"unit"`
	Stock      int    `gorm:"default:0" json:"stock"`
	ImageURL   string `json:"image_url"`
	Available  bool   `gorm:"default:true" json:"available"`
}
