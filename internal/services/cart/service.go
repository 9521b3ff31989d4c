// Package cart manages a buyer's shopping cart.
package cart

import (
	"context"
	"errors"

	"farmtoclick/internal/models"
	"farmtoclick/internal/repositories"
)

var (
	ErrItemNotFound    = errors.New("cart item not found")
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrOutOfStock      = errors.New("not enough stock")
)

type Service interface {
	Items(ctx context.Context, buyerID uint) ([]models.CartItem, error)
	AddItem(ctx context.Context, buyerID, productID uint, quantity int) (*models.CartItem, error)
	UpdateItem(ctx context.Context, buyerID, itemID uint, quantity int) (*models.CartItem, error)
	RemoveItem(ctx context.Context, buyerID, itemID uint) error
}

type service struct {
	carts    repositories.CartRepository
	products repositories.ProductRepository
}

func NewService(carts repositories.CartRepository, products repositories.ProductRepository) Service {
	return &service{carts: carts, products: products}
}

func (s *service) Items(ctx context.Context, buyerID uint) ([]models.CartItem, error) {
	return s.carts.ItemsByBuyer(buyerID)
}

func (s *service) AddItem(ctx context.Context, buyerID, productID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.products.GetByID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	// Adding the same product twice bumps the existing line.
	item, err := s.carts.FindByProduct(buyerID, productID)
	if err != nil {
		if !errors.Is(err, repositories.ErrCartItemNotFound) {
			return nil, err
		}
		item = &models.CartItem{BuyerID: buyerID, ProductID: productID}
	}
	item.Quantity += quantity

	if item.Quantity > product.Stock {
		return nil, ErrOutOfStock
	}
	if err := s.carts.Save(item); err != nil {
		return nil, err
	}
	item.Product = product
	return item, nil
}

func (s *service) UpdateItem(ctx context.Context, buyerID, itemID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.carts.GetItem(buyerID, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrCartItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	if item.Product != nil && quantity > item.Product.Stock {
		return nil, ErrOutOfStock
	}

	item.Quantity = quantity
	if err := s.carts.Save(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) RemoveItem(ctx context.Context, buyerID, itemID uint) error {
	if err := s.carts.DeleteItem(buyerID, itemID); err != nil {
		if errors.Is(err, repositories.ErrCartItemNotFound) {
			return ErrItemNotFound
		}
		return err
	}
	return nil
}
