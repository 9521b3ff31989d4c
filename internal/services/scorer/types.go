package scorer

import "farmtoclick/internal/models"

// ScoreResult is the structured output of the external ML verifier.
// Confidence is in [0,1]. Valid is the scorer's own pass/fail judgment,
// independent of any later admin review.
type ScoreResult struct {
	Valid         bool    `json:"valid"`
	Confidence    float64 `json:"confidence"`
	IsPermit      bool    `json:"is_permit"`
	MLConfidence  float64 `json:"ml_confidence"`
	ExtractedText string  `json:"extracted_text"`

	BusinessName    string `json:"business_name"`
	OwnerName       string `json:"owner_name"`
	DTIBusinessName string `json:"dti_business_name"`
	DTIOwnerName    string `json:"dti_owner_name"`

	QRValid *bool  `json:"qr_valid"`
	QRData  string `json:"qr_data"`

	QualityCheck map[string]interface{} `json:"quality_check"`

	// Raw is the full verifier payload, retained on the record for audit.
	Raw models.JSON `json:"-"`
}
