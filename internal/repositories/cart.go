package repositories

import (
	"errors"

	"farmtoclick/internal/models"

	"gorm.io/gorm"
)

var ErrCartItemNotFound = errors.New("cart item not found")

type CartRepository interface {
	ItemsByBuyer(buyerID uint) ([]models.CartItem, error)
	GetItem(buyerID, itemID uint) (*models.CartItem, error)
	FindByProduct(buyerID, productID uint) (*models.CartItem, error)
	Save(item *models.CartItem) error
	DeleteItem(buyerID, itemID uint) error
	ClearBuyer(buyerID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) ItemsByBuyer(buyerID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.Preload("Product").Where("buyer_id = ?", buyerID).Order("created_at").Find(&items).Error
	return items, err
}

func (r *cartRepository) GetItem(buyerID, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Preload("Product").Where("buyer_id = ? AND id = ?", buyerID, itemID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) FindByProduct(buyerID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Where("buyer_id = ? AND product_id = ?", buyerID, productID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) Save(item *models.CartItem) error {
	return r.db.Save(item).Error
}

func (r *cartRepository) DeleteItem(buyerID, itemID uint) error {
	res := r.db.Where("buyer_id = ? AND id = ?", buyerID, itemID).Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *cartRepository) ClearBuyer(buyerID uint) error {
	return r.db.Where("buyer_id = ?", buyerID).Delete(&models.CartItem{}).Error
}
