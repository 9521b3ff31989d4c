package handlers

import (
	"errors"
	"strconv"

	"farmtoclick/internal/models"
	"farmtoclick/internal/services/cart"
	"farmtoclick/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	service cart.Service
}

func NewCartHandler(service cart.Service) *CartHandler {
	return &CartHandler{service: service}
}

func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	items, err := h.service.Items(c.Context(), claims.UserID)
	if err != nil {
		return response.ServerError(c, "Failed to fetch cart")
	}

	var totalCents int64
	for _, item := range items {
		if item.Product != nil {
			totalCents += item.Product.PriceCents * int64(item.Quantity)
		}
	}

	return c.JSON(fiber.Map{
		"items":       items,
		"total_cents": totalCents,
	})
}

func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var input struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	item, err := h.service.AddItem(c.Context(), claims.UserID, input.ProductID, input.Quantity)
	if err != nil {
		return h.mapCartError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	itemID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid cart item id")
	}

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	item, err := h.service.UpdateItem(c.Context(), claims.UserID, uint(itemID), input.Quantity)
	if err != nil {
		return h.mapCartError(c, err)
	}
	return c.JSON(item)
}

func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	itemID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid cart item id")
	}

	if err := h.service.RemoveItem(c.Context(), claims.UserID, uint(itemID)); err != nil {
		return h.mapCartError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item removed"})
}

func (h *CartHandler) mapCartError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, cart.ErrItemNotFound):
		return response.NotFound(c, "Cart item not found")
	case errors.Is(err, cart.ErrProductNotFound):
		return response.NotFound(c, "Product not found")
	case errors.Is(err, cart.ErrInvalidQuantity):
		return response.BadRequest(c, "Quantity must be positive")
	case errors.Is(err, cart.ErrOutOfStock):
		return response.BadRequest(c, "Not enough stock")
	default:
		return response.ServerError(c, "Cart operation failed")
	}
}
