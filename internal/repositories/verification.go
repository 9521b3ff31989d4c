package repositories

import (
	"errors"

	"farmtoclick/internal/models"

	"gorm.io/gorm"
)

var ErrVerificationNotFound = errors.New("verification record not found")

// VerificationStats are the aggregate counts shown on the admin dashboard.
// They must match what filtered listing reports.
type VerificationStats struct {
	Total    int64 `json:"total"`
	Verified int64 `json:"verified"`
	Rejected int64 `json:"rejected"`
}

// VerificationRepository persists permit verification attempts. Records are
// never deleted; the interface deliberately has no Delete.
type VerificationRepository interface {
	Create(v *models.PermitVerification) error
	GetByID(id string) (*models.PermitVerification, error)
	// List returns records filtered by status ("" means all), newest first.
	List(status string, offset, limit int) ([]models.PermitVerification, int64, error)
	// All returns every record, newest first, for the dashboard view.
	All() ([]models.PermitVerification, error)
	Update(v *models.PermitVerification) error
	LatestByUser(userID uint) (*models.PermitVerification, error)
	Stats() (*VerificationStats, error)
}

type verificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) Create(v *models.PermitVerification) error {
	return r.db.Create(v).Error
}

func (r *verificationRepository) GetByID(id string) (*models.PermitVerification, error) {
	var v models.PermitVerification
	err := r.db.Preload("User").Where("id = ?", id).First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVerificationNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *verificationRepository) List(status string, offset, limit int) ([]models.PermitVerification, int64, error) {
	q := r.db.Model(&models.PermitVerification{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.PermitVerification
	err := q.Preload("User").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *verificationRepository) All() ([]models.PermitVerification, error) {
	var records []models.PermitVerification
	err := r.db.Preload("User").Order("created_at DESC").Find(&records).Error
	return records, err
}

func (r *verificationRepository) Update(v *models.PermitVerification) error {
	return r.db.Save(v).Error
}

func (r *verificationRepository) LatestByUser(userID uint) (*models.PermitVerification, error) {
	var v models.PermitVerification
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVerificationNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *verificationRepository) Stats() (*VerificationStats, error) {
	stats := &VerificationStats{}
	m := r.db.Model(&models.PermitVerification{})

	if err := m.Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.PermitVerification{}).
		Where("status = ?", models.VerificationVerified).
		Count(&stats.Verified).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.PermitVerification{}).
		Where("status = ?", models.VerificationRejected).
		Count(&stats.Rejected).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
