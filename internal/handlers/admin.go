package handlers

import (
	"errors"
	"fmt"
	"log"

	"farmtoclick/internal/models"
	"farmtoclick/internal/services/verification"
	"farmtoclick/internal/utils/pagination"
	"farmtoclick/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the permit verification review API. All routes are
// mounted behind the admin middleware, which re-checks the caller's role
// against the database on every request.
type AdminHandler struct {
	service verification.Service
}

func NewAdminHandler(service verification.Service) *AdminHandler {
	return &AdminHandler{service: service}
}

// GetVerificationsDashboard returns the denormalized dashboard view:
// every submission plus aggregate counts.
func (h *AdminHandler) GetVerificationsDashboard(c *fiber.Ctx) error {
	summary, err := h.service.DashboardSummary(c.Context())
	if err != nil {
		log.Printf("Dashboard error: %v", err)
		return response.ServerError(c, "Failed to load verifications")
	}

	return c.JSON(fiber.Map{
		"verifications": summary.Verifications,
		"stats":         summary.Stats,
	})
}

// GetPermitVerifications lists verification records with status filtering
// and offset pagination, newest first.
func (h *AdminHandler) GetPermitVerifications(c *fiber.Ctx) error {
	status := c.Query("status", "")
	p := pagination.ParseFromRequest(c)

	records, total, err := h.service.List(c.Context(), status, p.Offset, p.PerPage)
	if err != nil {
		if errors.Is(err, verification.ErrInvalidStatus) {
			return response.BadRequest(c, "Invalid status filter")
		}
		log.Printf("Permit verifications error: %v", err)
		return response.ServerError(c, "Failed to load verifications")
	}
	p.Total = total

	rows := make([]fiber.Map, 0, len(records))
	for i := range records {
		rows = append(rows, verificationListRow(&records[i]))
	}

	return c.JSON(fiber.Map{
		"verifications": rows,
		"pagination":    p.Response(),
	})
}

// GetPermitVerificationDetail returns the full record including the raw
// scorer payload.
func (h *AdminHandler) GetPermitVerificationDetail(c *fiber.Ctx) error {
	record, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, verification.ErrNotFound) {
			return response.NotFound(c, "Verification record not found")
		}
		log.Printf("Permit verification detail error: %v", err)
		return response.ServerError(c, "Failed to load verification")
	}

	return c.JSON(verificationDetail(record))
}

// UpdatePermitVerification applies an admin status transition. Approving a
// record promotes its owner to farmer.
func (h *AdminHandler) UpdatePermitVerification(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var input struct {
		Status     string `json:"status"`
		AdminNotes string `json:"admin_notes"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	record, err := h.service.Review(c.Context(), c.Params("id"), input.Status, input.AdminNotes, claims.Email)
	if err != nil {
		switch {
		case errors.Is(err, verification.ErrInvalidStatus):
			return response.BadRequest(c, "Invalid status")
		case errors.Is(err, verification.ErrNotFound):
			return response.NotFound(c, "Verification record not found")
		default:
			log.Printf("Update permit verification error: %v", err)
			return response.ServerError(c, "Failed to update verification")
		}
	}

	return c.JSON(fiber.Map{
		"id":      record.ID,
		"status":  record.Status,
		"message": fmt.Sprintf("Verification %s successfully", record.Status),
	})
}

func verificationUserInfo(record *models.PermitVerification) fiber.Map {
	if record.User == nil {
		return fiber.Map{}
	}
	farmName := record.User.FarmName
	if farmName == "" {
		farmName = "N/A"
	}
	return fiber.Map{
		"id":        record.User.ID,
		"email":     record.User.Email,
		"name":      record.User.FullName(),
		"farm_name": farmName,
	}
}

func verificationListRow(record *models.PermitVerification) fiber.Map {
	return fiber.Map{
		"id":                   record.ID,
		"user":                 verificationUserInfo(record),
		"status":               record.Status,
		"confidence":           record.Confidence,
		"valid":                record.Valid,
		"permit_business_name": record.PermitBusinessName,
		"dti_business_name":    record.DTIBusinessName,
		"ml_confidence":        record.MLConfidence,
		"ml_is_permit":         record.MLIsPermit,
		"qr_valid":             record.QRValid,
		"admin_notes":          record.AdminNotes,
		"created_at":           record.CreatedAt,
		"reviewed_at":          record.ReviewedAt,
	}
}

func verificationDetail(record *models.PermitVerification) fiber.Map {
	detail := verificationListRow(record)
	detail["permit_owner_name"] = record.PermitOwnerName
	detail["dti_owner_name"] = record.DTIOwnerName
	detail["qr_data"] = record.QRData
	detail["image_filename"] = record.ImageFilename
	detail["full_result"] = record.VerificationResult
	detail["reviewed_by"] = record.ReviewedBy
	return detail
}
