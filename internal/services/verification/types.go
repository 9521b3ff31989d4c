package verification

import (
	"time"

	"farmtoclick/internal/models"
	"farmtoclick/internal/repositories"
)

// Summary is the denormalized admin dashboard view. Its counts stay
// consistent with what filtered listing reports because both read the same
// store.
type Summary struct {
	Stats         *repositories.VerificationStats `json:"stats"`
	Verifications []DashboardRow                  `json:"verifications"`
}

// DashboardRow is one line on the admin dashboard.
type DashboardRow struct {
	ID            string    `json:"id"`
	FarmerName    string    `json:"farmer_name"`
	FarmName      string    `json:"farm_name"`
	Email         string    `json:"email"`
	Status        string    `json:"status"`
	Valid         bool      `json:"valid"`
	Rejected      bool      `json:"rejected"`
	Confidence    float64   `json:"confidence"`
	ExtractedText string    `json:"extracted_text"`
	CreatedAt     time.Time `json:"timestamp"`
}

func newDashboardRow(record *models.PermitVerification) DashboardRow {
	row := DashboardRow{
		ID:            record.ID,
		FarmName:      "N/A",
		Email:         "N/A",
		Status:        record.Status,
		Valid:         record.Valid,
		Rejected:      record.Status == models.VerificationRejected,
		Confidence:    record.Confidence,
		ExtractedText: truncate(extractedText(record), 100),
		CreatedAt:     record.CreatedAt,
	}
	if record.User != nil {
		row.FarmerName = record.User.FullName()
		row.Email = record.User.Email
		if record.User.FarmName != "" {
			row.FarmName = record.User.FarmName
		}
	}
	return row
}

// StatusSummary is what the submitting user sees about their own latest
// submission. Admin notes and the reviewer identity are deliberately absent.
type StatusSummary struct {
	ID                 string     `json:"id,omitempty"`
	FarmerName         string     `json:"farmer_name"`
	FarmName           string     `json:"farm_name"`
	Email              string     `json:"email"`
	VerificationStatus string     `json:"verification_status"`
	SubmittedAt        *time.Time `json:"submitted_at"`
	Confidence         float64    `json:"confidence"`
	Valid              bool       `json:"valid"`
	PermitBusinessName string     `json:"permit_business_name,omitempty"`
	DTIBusinessName    string     `json:"dti_business_name,omitempty"`
	QRValid            *bool      `json:"qr_valid,omitempty"`
	ExtractedText      string     `json:"extracted_text,omitempty"`
	CreatedAt          *time.Time `json:"timestamp,omitempty"`
	ReviewedAt         *time.Time `json:"reviewed_at,omitempty"`
}

func newStatusSummary(record *models.PermitVerification, user *models.User) StatusSummary {
	created := record.CreatedAt
	return StatusSummary{
		ID:                 record.ID,
		FarmerName:         user.FullName(),
		FarmName:           user.FarmName,
		Email:              user.Email,
		VerificationStatus: record.Status,
		SubmittedAt:        user.BusinessVerificationSubmittedAt,
		Confidence:         record.Confidence,
		Valid:              record.Valid,
		PermitBusinessName: record.PermitBusinessName,
		DTIBusinessName:    record.DTIBusinessName,
		QRValid:            record.QRValid,
		ExtractedText:      extractedText(record),
		CreatedAt:          &created,
		ReviewedAt:         record.ReviewedAt,
	}
}

func extractedText(record *models.PermitVerification) string {
	if record.VerificationResult == nil {
		return ""
	}
	if text, ok := record.VerificationResult["extracted_text"].(string); ok {
		return text
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
