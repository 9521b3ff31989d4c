// Package catalog manages the product listings farmers sell through.
package catalog

import (
	"context"
	"errors"

	"farmtoclick/internal/models"
	"farmtoclick/internal/repositories"
)

var (
	ErrNotFound  = errors.New("product not found")
	ErrNotOwner  = errors.New("product belongs to another farmer")
	ErrNotFarmer = errors.New("only verified farmers can manage products")
)

type CreateProductInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	PriceCents  int64  `json:"price_cents"`
	Unit        string `json:"unit"`
	Stock       int    `json:"stock"`
	ImageURL    string `json:"image_url"`
}

type Service interface {
	Create(ctx context.Context, farmer *models.User, input CreateProductInput) (*models.Product, error)
	Get(ctx context.Context, id uint) (*models.Product, error)
	Update(ctx context.Context, farmer *models.User, id uint, input CreateProductInput) (*models.Product, error)
	Delete(ctx context.Context, farmer *models.User, id uint) error
	List(ctx context.Context, category string, farmerID uint, offset, limit int) ([]models.Product, int64, error)
}

type service struct {
	products repositories.ProductRepository
}

func NewService(products repositories.ProductRepository) Service {
	return &service{products: products}
}

func (s *service) Create(ctx context.Context, farmer *models.User, input CreateProductInput) (*models.Product, error) {
	if farmer.Role != models.RoleFarmer {
		return nil, ErrNotFarmer
	}
	product := &models.Product{
		FarmerID:    farmer.ID,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		PriceCents:  input.PriceCents,
		Unit:        input.Unit,
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
		Available:   true,
	}
	if product.Unit == "" {
		product.Unit = "kg"
	}
	if err := s.products.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.products.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *service) Update(ctx context.Context, farmer *models.User, id uint, input CreateProductInput) (*models.Product, error) {
	product, err := s.ownedProduct(farmer, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Category = input.Category
	product.PriceCents = input.PriceCents
	product.Stock = input.Stock
	if input.Unit != "" {
		product.Unit = input.Unit
	}
	if input.ImageURL != "" {
		product.ImageURL = input.ImageURL
	}

	if err := s.products.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) Delete(ctx context.Context, farmer *models.User, id uint) error {
	if _, err := s.ownedProduct(farmer, id); err != nil {
		return err
	}
	return s.products.Delete(id)
}

func (s *service) List(ctx context.Context, category string, farmerID uint, offset, limit int) ([]models.Product, int64, error) {
	return s.products.List(category, farmerID, offset, limit)
}

func (s *service) ownedProduct(farmer *models.User, id uint) (*models.Product, error) {
	if farmer.Role != models.RoleFarmer {
		return nil, ErrNotFarmer
	}
	product, err := s.products.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if product.FarmerID != farmer.ID {
		return nil, ErrNotOwner
	}
	return product, nil
}
