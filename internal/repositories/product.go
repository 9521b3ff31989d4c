package repositories

import (
	"errors"

	"farmtoclick/internal/models"

	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

type ProductRepository interface {
	Create(p *models.Product) error
	GetByID(id uint) (*models.Product, error)
	Update(p *models.Product) error
	Delete(id uint) error
	// List returns available products, optionally filtered by category or
	// farmer, newest first.
	List(category string, farmerID uint, offset, limit int) ([]models.Product, int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(p *models.Product) error {
	return r.db.Create(p).Error
}

func (r *productRepository) GetByID(id uint) (*models.Product, error) {
	var p models.Product
	if err := r.db.Preload("Farmer").First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) Update(p *models.Product) error {
	return r.db.Save(p).Error
}

func (r *productRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

func (r *productRepository) List(category string, farmerID uint, offset, limit int) ([]models.Product, int64, error) {
	q := r.db.Model(&models.Product{}).Where("available = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if farmerID != 0 {
		q = q.Where("farmer_id = ?", farmerID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}
