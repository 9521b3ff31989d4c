// Package verification implements the permit verification workflow: the
// automated scoring of submitted business documents and the admin review
// that can override any automated outcome.
package verification

import (
	"context"
	"errors"
	"log"
	"time"

	"farmtoclick/internal/models"
	"farmtoclick/internal/repositories"
	"farmtoclick/internal/services/scorer"
)

// Config holds the tunables of the workflow.
type Config struct {
	// ConfidenceFloor is the minimum scorer confidence for a submission to
	// land as "pending" instead of "rejected".
	ConfidenceFloor float64
	// ScorerTimeout bounds the single synchronous call to the ML verifier.
	ScorerTimeout time.Duration
}

type Service interface {
	// Submit scores an uploaded permit and persists a verification record.
	// A scorer failure degrades to a rejected-leaning record; it never
	// drops the submission or surfaces as an error to the submitter.
	Submit(ctx context.Context, userID uint, image []byte, filename string, dtiImage []byte) (*models.PermitVerification, error)

	// List returns records for admin review, newest first, optionally
	// filtered by status.
	List(ctx context.Context, status string, offset, limit int) ([]models.PermitVerification, int64, error)

	// Get returns the full record including the raw scorer payload.
	Get(ctx context.Context, id string) (*models.PermitVerification, error)

	// Review applies an admin transition. Any status may move to any other;
	// human review can correct any automated or prior human decision.
	// Moving to "verified" promotes the owning user to farmer, the only
	// transition with a cross-entity side effect.
	Review(ctx context.Context, id, newStatus, notes, reviewer string) (*models.PermitVerification, error)

	// DashboardSummary is the denormalized admin dashboard view.
	DashboardSummary(ctx context.Context) (*Summary, error)

	// OwnStatus returns the caller's latest submission, or nil when the
	// caller has never submitted and is not a farmer. Absence of a
	// submission is a normal outcome, not an error.
	OwnStatus(ctx context.Context, userID uint) (*StatusSummary, error)
}

type service struct {
	verifications repositories.VerificationRepository
	users         repositories.UserRepository
	scorer        scorer.Scorer
	cfg           Config
}

func NewService(verifications repositories.VerificationRepository, users repositories.UserRepository, sc scorer.Scorer, cfg Config) Service {
	if cfg.ConfidenceFloor == 0 {
		cfg.ConfidenceFloor = 0.40
	}
	if cfg.ScorerTimeout == 0 {
		cfg.ScorerTimeout = 20 * time.Second
	}
	return &service{
		verifications: verifications,
		users:         users,
		scorer:        sc,
		cfg:           cfg,
	}
}

func (s *service) Submit(ctx context.Context, userID uint, image []byte, filename string, dtiImage []byte) (*models.PermitVerification, error) {
	scoreCtx, cancel := context.WithTimeout(ctx, s.cfg.ScorerTimeout)
	defer cancel()

	result, err := s.scorer.Score(scoreCtx, image, filename, dtiImage)
	if err != nil || result == nil {
		log.Printf("Scorer failed for user %d, storing degraded record: %v", userID, err)
		result = &scorer.ScoreResult{Valid: false, Confidence: 0}
	}

	record := &models.PermitVerification{
		UserID:             userID,
		Status:             s.initialStatus(result),
		Confidence:         result.Confidence,
		Valid:              result.Valid,
		PermitBusinessName: result.BusinessName,
		PermitOwnerName:    result.OwnerName,
		DTIBusinessName:    result.DTIBusinessName,
		DTIOwnerName:       result.DTIOwnerName,
		MLConfidence:       result.MLConfidence,
		MLIsPermit:         result.IsPermit,
		QRValid:            result.QRValid,
		QRData:             result.QRData,
		ImageFilename:      filename,
		VerificationResult: result.Raw,
	}
	if err := s.verifications.Create(record); err != nil {
		return nil, err
	}

	// Mirror the outcome onto the user document.
	user, err := s.users.GetByID(userID)
	if err != nil {
		log.Printf("Could not load user %d to mirror verification status: %v", userID, err)
		return record, nil
	}
	now := time.Now()
	user.BusinessVerificationStatus = record.Status
	user.BusinessVerificationSubmittedAt = &now
	user.BusinessVerificationML = record.VerificationResult
	if err := s.users.Update(user); err != nil {
		log.Printf("Could not mirror verification status onto user %d: %v", userID, err)
	}

	return record, nil
}

// initialStatus maps scorer output to the status of a fresh record.
// "verified" is never assigned automatically; only an admin may set it.
func (s *service) initialStatus(result *scorer.ScoreResult) string {
	if result.Valid && result.Confidence >= s.cfg.ConfidenceFloor {
		return models.VerificationPending
	}
	return models.VerificationRejected
}

func (s *service) List(ctx context.Context, status string, offset, limit int) ([]models.PermitVerification, int64, error) {
	if status != "" && !models.ValidVerificationStatus(status) {
		return nil, 0, ErrInvalidStatus
	}
	return s.verifications.List(status, offset, limit)
}

func (s *service) Get(ctx context.Context, id string) (*models.PermitVerification, error) {
	record, err := s.verifications.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrVerificationNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return record, nil
}

func (s *service) Review(ctx context.Context, id, newStatus, notes, reviewer string) (*models.PermitVerification, error) {
	if !models.ValidVerificationStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	record, err := s.verifications.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrVerificationNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	now := time.Now()
	record.Status = newStatus
	record.AdminNotes = notes
	record.ReviewedBy = reviewer
	record.ReviewedAt = &now
	if err := s.verifications.Update(record); err != nil {
		return nil, err
	}

	if newStatus == models.VerificationVerified {
		if err := s.promoteToFarmer(record.UserID); err != nil {
			return nil, err
		}
	}

	return record, nil
}

// promoteToFarmer sets the user's role to farmer and mirrors the verified
// status. Repeating the promotion is a no-op by construction.
func (s *service) promoteToFarmer(userID uint) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	user.Role = models.RoleFarmer
	user.BusinessVerificationStatus = models.VerificationVerified
	return s.users.Update(user)
}

func (s *service) DashboardSummary(ctx context.Context) (*Summary, error) {
	stats, err := s.verifications.Stats()
	if err != nil {
		return nil, err
	}
	records, err := s.verifications.All()
	if err != nil {
		return nil, err
	}

	rows := make([]DashboardRow, 0, len(records))
	for i := range records {
		rows = append(rows, newDashboardRow(&records[i]))
	}
	return &Summary{Stats: stats, Verifications: rows}, nil
}

func (s *service) OwnStatus(ctx context.Context, userID uint) (*StatusSummary, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	record, err := s.verifications.LatestByUser(userID)
	if err != nil {
		if !errors.Is(err, repositories.ErrVerificationNotFound) {
			return nil, err
		}
		// No record at all. A plain buyer simply has not submitted;
		// a farmer without a record (legacy account) reports the
		// mirrored status off the user document.
		if user.BusinessVerificationSubmittedAt == nil && user.Role != models.RoleFarmer {
			return nil, nil
		}
		status := user.BusinessVerificationStatus
		if status == "" {
			status = models.VerificationPending
		}
		return &StatusSummary{
			FarmerName:         user.FullName(),
			FarmName:           user.FarmName,
			Email:              user.Email,
			VerificationStatus: status,
			SubmittedAt:        user.BusinessVerificationSubmittedAt,
		}, nil
	}

	summary := newStatusSummary(record, user)
	return &summary, nil
}
