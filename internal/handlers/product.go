package handlers

import (
	"errors"
	"strconv"

	"farmtoclick/internal/models"
	"farmtoclick/internal/repositories"
	"farmtoclick/internal/services/catalog"
	"farmtoclick/internal/utils/pagination"
	"farmtoclick/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	service catalog.Service
	users   repositories.UserRepository
}

func NewProductHandler(service catalog.Service, users repositories.UserRepository) *ProductHandler {
	return &ProductHandler{service: service, users: users}
}

func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	category := c.Query("category", "")
	farmerID, _ := strconv.ParseUint(c.Query("farmer_id", "0"), 10, 32)

	products, total, err := h.service.List(c.Context(), category, uint(farmerID), p.Offset, p.PerPage)
	if err != nil {
		return response.ServerError(c, "Failed to fetch products")
	}
	p.Total = total

	return c.JSON(fiber.Map{
		"products":   products,
		"pagination": p.Response(),
	})
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid product id")
	}

	product, err := h.service.Get(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return response.NotFound(c, "Product not found")
		}
		return response.ServerError(c, "Failed to fetch product")
	}
	return c.JSON(product)
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	farmer, err := h.currentUser(c)
	if err != nil {
		return response.Unauthorized(c, "Invalid session")
	}

	var input catalog.CreateProductInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Name == "" || input.PriceCents <= 0 {
		return response.BadRequest(c, "Name and a positive price are required")
	}

	product, err := h.service.Create(c.Context(), farmer, input)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFarmer) {
			return response.Forbidden(c, "Only verified farmers can sell products")
		}
		return response.ServerError(c, "Failed to create product")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	farmer, err := h.currentUser(c)
	if err != nil {
		return response.Unauthorized(c, "Invalid session")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid product id")
	}

	var input catalog.CreateProductInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	product, err := h.service.Update(c.Context(), farmer, uint(id), input)
	if err != nil {
		return h.mapCatalogError(c, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	farmer, err := h.currentUser(c)
	if err != nil {
		return response.Unauthorized(c, "Invalid session")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid product id")
	}

	if err := h.service.Delete(c.Context(), farmer, uint(id)); err != nil {
		return h.mapCatalogError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

func (h *ProductHandler) currentUser(c *fiber.Ctx) (*models.User, error) {
	claims := c.Locals("claims").(*models.UserClaims)
	return h.users.GetByID(claims.UserID)
}

func (h *ProductHandler) mapCatalogError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return response.NotFound(c, "Product not found")
	case errors.Is(err, catalog.ErrNotOwner):
		return response.Forbidden(c, "Product belongs to another farmer")
	case errors.Is(err, catalog.ErrNotFarmer):
		return response.Forbidden(c, "Only verified farmers can manage products")
	default:
		return response.ServerError(c, "Failed to update product")
	}
}
