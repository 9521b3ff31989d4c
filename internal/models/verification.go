package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Permit verification statuses. "verified" is only ever set by an admin
// review, never by the automated scorer.
const (
	VerificationPending     = "pending"
	VerificationUnderReview = "under_review"
	VerificationVerified    = "verified"
	VerificationRejected    = "rejected"
)

// ValidVerificationStatus reports whether s is one of the four statuses.
func ValidVerificationStatus(s string) bool {
	switch s {
	case VerificationPending, VerificationUnderReview, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

// PermitVerification is one submission attempt of a business permit.
// Records are append-only: they are created on submission, mutated only by
// admin review, and never deleted (kept for audit).
type PermitVerification struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	UserID uint   `gorm:"not null;index" json:"-"`
	User   *User  `gorm:"foreignKey:UserID" json:"-"`

	Status     string  `gorm:"default:'pending';index" json:"status"`
	Confidence float64 `json:"confidence"`
	Valid      bool    `json:"valid"`

	// Extracted text fields cross-checked between the permit and the DTI
	// registration document.
	PermitBusinessName string `json:"permit_business_name"`
	PermitOwnerName    string `json:"permit_owner_name"`
	DTIBusinessName    string `json:"dti_business_name"`
	DTIOwnerName       string `json:"dti_owner_name"`

	// Raw classifier outputs.
	MLConfidence float64 `json:"ml_confidence"`
	MLIsPermit   bool    `json:"ml_is_permit"`

	// QR cross-check, when the document carries a code.
	QRValid *bool  `json:"qr_valid"`
	QRData  string `json:"qr_data"`

	ImageFilename      string `json:"image_filename"`
	VerificationResult JSON   `gorm:"type:jsonb" json:"verification_result"`

	AdminNotes string     `json:"admin_notes"`
	ReviewedBy string     `json:"reviewed_by"`
	ReviewedAt *time.Time `json:"reviewed_at"`

	CreatedAt time.Time `json:"created_at"`
}

func (v *PermitVerification) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
