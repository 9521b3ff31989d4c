package handlers

import (
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"

	"farmtoclick/internal/config"
	"farmtoclick/internal/models"
	"farmtoclick/internal/services/verification"
	"farmtoclick/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// VerificationHandler serves the user-facing side of permit verification:
// submitting a document and reading one's own status.
type VerificationHandler struct {
	service verification.Service
}

func NewVerificationHandler(service verification.Service) *VerificationHandler {
	return &VerificationHandler{service: service}
}

// SubmitVerification accepts a multipart upload with the permit image and an
// optional DTI registration document. The stored record is returned even
// when the scorer fails; a submission attempt is never silently dropped.
func (h *VerificationHandler) SubmitVerification(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return response.BadRequest(c, "Permit image is required")
	}
	image, err := readUpload(fileHeader)
	if err != nil {
		return response.BadRequest(c, "Could not read permit image")
	}

	var dtiImage []byte
	if dtiHeader, err := c.FormFile("dti_image"); err == nil {
		if dtiImage, err = readUpload(dtiHeader); err != nil {
			return response.BadRequest(c, "Could not read DTI image")
		}
	}

	filename := uuid.NewString() + filepath.Ext(fileHeader.Filename)
	if err := storeUpload(filename, image); err != nil {
		log.Printf("Failed to store verification upload for user %d: %v", claims.UserID, err)
	}

	record, err := h.service.Submit(c.Context(), claims.UserID, image, filename, dtiImage)
	if err != nil {
		return response.ServerError(c, "Failed to save verification submission")
	}

	return c.JSON(fiber.Map{
		"message": "Verification submitted",
		"verification": fiber.Map{
			"id":         record.ID,
			"status":     record.Status,
			"confidence": record.Confidence,
			"valid":      record.Valid,
		},
	})
}

// GetVerificationStatus returns the caller's own latest verification.
// "not_submitted" is a normal outcome, not an error.
func (h *VerificationHandler) GetVerificationStatus(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	summary, err := h.service.OwnStatus(c.Context(), claims.UserID)
	if err != nil {
		if err == verification.ErrUserNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.ServerError(c, "Failed to fetch verification status")
	}
	if summary == nil {
		return c.JSON(fiber.Map{
			"status":  "not_submitted",
			"message": "No verification submission found",
		})
	}

	return c.JSON(fiber.Map{
		"status":       "found",
		"verification": summary,
	})
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func storeUpload(filename string, data []byte) error {
	dir := filepath.Join(config.GetEnv("UPLOAD_DIR", "uploads"), "verifications")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, filename), data, 0o644)
}
