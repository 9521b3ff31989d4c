package handlers

import (
	"errors"

	"farmtoclick/internal/models"
	"farmtoclick/internal/services/order"
	"farmtoclick/internal/utils/pagination"
	"farmtoclick/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	service order.Service
}

func NewOrderHandler(service order.Service) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var input order.CheckoutInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	placed, err := h.service.Checkout(c.Context(), claims.UserID, input)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrEmptyCart):
			return response.BadRequest(c, "Cart is empty")
		case errors.Is(err, order.ErrInvalidPaymentMethod):
			return response.BadRequest(c, "Invalid payment method")
		case errors.Is(err, order.ErrOutOfStock):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, order.ErrPaymentFailed):
			return response.Error(c, fiber.StatusPaymentRequired, "Payment failed")
		default:
			return response.ServerError(c, "Checkout failed")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(placed)
}

func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)
	p := pagination.ParseFromRequest(c)

	orders, total, err := h.service.ListForBuyer(c.Context(), claims.UserID, p.Offset, p.PerPage)
	if err != nil {
		return response.ServerError(c, "Failed to fetch orders")
	}
	p.Total = total

	return c.JSON(fiber.Map{
		"orders":     orders,
		"pagination": p.Response(),
	})
}

// ListFarmerOrders shows a farmer the order lines for their products.
func (h *OrderHandler) ListFarmerOrders(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)
	p := pagination.ParseFromRequest(c)

	items, total, err := h.service.ListForFarmer(c.Context(), claims.UserID, p.Offset, p.PerPage)
	if err != nil {
		return response.ServerError(c, "Failed to fetch orders")
	}
	p.Total = total

	return c.JSON(fiber.Map{
		"items":      items,
		"pagination": p.Response(),
	})
}
