package handlers

import (
	"errors"

	"farmtoclick/internal/models"
	"farmtoclick/internal/repositories"
	"farmtoclick/internal/utils/pagination"
	"farmtoclick/internal/utils/response"
	"farmtoclick/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type UserHandler struct {
	users repositories.UserRepository
}

func NewUserHandler(users repositories.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterUser creates a buyer account. Farmer status is only reachable
// through permit verification and admin approval.
func (h *UserHandler) RegisterUser(c *fiber.Ctx) error {
	var input models.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validation.New()
	v.UserRegistration(&input)
	if !v.Valid() {
		return response.BadRequest(c, v.Errors[0].Error())
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return response.ServerError(c, "Password hashing failed")
	}

	user := &models.User{
		Email:     input.Email,
		Password:  string(hashedPassword),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		FarmName:  input.FarmName,
		Role:      models.RoleBuyer,
		Status:    "active",
	}
	if err := h.users.Create(user); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return response.BadRequest(c, "Email already registered")
		}
		return response.ServerError(c, "Failed to create user")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account created",
		"user": fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// GetFarmers lists verified farmers for the public directory.
func (h *UserHandler) GetFarmers(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	farmers, total, err := h.users.ListFarmers(p.Offset, p.PerPage)
	if err != nil {
		return response.ServerError(c, "Failed to fetch farmers")
	}
	p.Total = total

	rows := make([]fiber.Map, 0, len(farmers))
	for i := range farmers {
		f := &farmers[i]
		rows = append(rows, fiber.Map{
			"id":        f.ID,
			"name":      f.FullName(),
			"farm_name": f.FarmName,
			"address":   f.Address,
			"latitude":  f.Latitude,
			"longitude": f.Longitude,
		})
	}

	return c.JSON(fiber.Map{
		"farmers":    rows,
		"pagination": p.Response(),
	})
}
