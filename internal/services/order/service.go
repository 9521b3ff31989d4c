// Package order handles checkout and order history for buyers and farmers.
package order

import (
	"context"
	"errors"
	"fmt"
	"log"

	"farmtoclick/internal/config"
	"farmtoclick/internal/models"
	"farmtoclick/internal/repositories"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/paymentintent"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrPaymentFailed        = errors.New("payment failed")
	ErrOutOfStock           = errors.New("not enough stock")
)

type CheckoutInput struct {
	PaymentMethod   string `json:"payment_method"`
	PaymentMethodID string `json:"payment_method_id"`
	ShippingAddress string `json:"shipping_address"`
}

type Service interface {
	// Checkout turns the buyer's cart into an order. Card payments are
	// charged through Stripe; cash-on-delivery skips the charge.
	Checkout(ctx context.Context, buyerID uint, input CheckoutInput) (*models.Order, error)
	ListForBuyer(ctx context.Context, buyerID uint, offset, limit int) ([]models.Order, int64, error)
	ListForFarmer(ctx context.Context, farmerID uint, offset, limit int) ([]models.OrderItem, int64, error)
}

type service struct {
	orders   repositories.OrderRepository
	carts    repositories.CartRepository
	products repositories.ProductRepository
}

func NewService(orders repositories.OrderRepository, carts repositories.CartRepository, products repositories.ProductRepository) Service {
	stripe.Key = config.GetEnv("STRIPE_SECRET_KEY", "")
	return &service{orders: orders, carts: carts, products: products}
}

func (s *service) Checkout(ctx context.Context, buyerID uint, input CheckoutInput) (*models.Order, error) {
	if input.PaymentMethod != models.PaymentCard && input.PaymentMethod != models.PaymentCashOnDelivery {
		return nil, ErrInvalidPaymentMethod
	}

	items, err := s.carts.ItemsByBuyer(buyerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	order := &models.Order{
		BuyerID:         buyerID,
		Status:          models.OrderPlaced,
		PaymentMethod:   input.PaymentMethod,
		ShippingAddress: input.ShippingAddress,
	}
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		if item.Quantity > item.Product.Stock {
			return nil, fmt.Errorf("%w: %s", ErrOutOfStock, item.Product.Name)
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID:  item.ProductID,
			FarmerID:   item.Product.FarmerID,
			Quantity:   item.Quantity,
			PriceCents: item.Product.PriceCents,
		})
		order.TotalCents += item.Product.PriceCents * int64(item.Quantity)
	}
	if len(order.Items) == 0 {
		return nil, ErrEmptyCart
	}

	if input.PaymentMethod == models.PaymentCard {
		ref, err := s.chargeCard(order.TotalCents, input.PaymentMethodID)
		if err != nil {
			log.Printf("Stripe charge failed for buyer %d: %v", buyerID, err)
			return nil, ErrPaymentFailed
		}
		order.PaymentRef = ref
		order.Status = models.OrderPaid
	}

	if err := s.orders.Create(order); err != nil {
		return nil, err
	}

	// Decrement stock and empty the cart. Stock going briefly stale under
	// concurrent checkouts is accepted; the per-row write is atomic.
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		item.Product.Stock -= item.Quantity
		if err := s.products.Update(item.Product); err != nil {
			log.Printf("Failed to update stock for product %d: %v", item.ProductID, err)
		}
	}
	if err := s.carts.ClearBuyer(buyerID); err != nil {
		log.Printf("Failed to clear cart for buyer %d: %v", buyerID, err)
	}

	return order, nil
}

func (s *service) chargeCard(amountCents int64, paymentMethodID string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amountCents),
		Currency:      stripe.String(string(stripe.CurrencyPHP)),
		PaymentMethod: stripe.String(paymentMethodID),
		Confirm:       stripe.Bool(true),
	}
	intent, err := paymentintent.New(params)
	if err != nil {
		return "", err
	}
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return "", fmt.Errorf("payment intent status %s", intent.Status)
	}
	return intent.ID, nil
}

func (s *service) ListForBuyer(ctx context.Context, buyerID uint, offset, limit int) ([]models.Order, int64, error) {
	return s.orders.ListByBuyer(buyerID, offset, limit)
}

func (s *service) ListForFarmer(ctx context.Context, farmerID uint, offset, limit int) ([]models.OrderItem, int64, error) {
	return s.orders.ItemsByFarmer(farmerID, offset, limit)
}
