package verification

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"farmtoclick/internal/models"
	"farmtoclick/internal/repositories"
	"farmtoclick/internal/services/scorer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockScorer struct {
	mock.Mock
}

func (m *MockScorer) Score(ctx context.Context, image []byte, filename string, dtiImage []byte) (*scorer.ScoreResult, error) {
	args := m.Called(ctx, image, filename, dtiImage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scorer.ScoreResult), args.Error(1)
}

// fakeVerificationRepo is an in-memory store so transition tests can assert
// on the final persisted state.
type fakeVerificationRepo struct {
	records map[string]*models.PermitVerification
	nextID  int
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{records: make(map[string]*models.PermitVerification)}
}

func (r *fakeVerificationRepo) Create(v *models.PermitVerification) error {
	if v.ID == "" {
		r.nextID++
		v.ID = fmt.Sprintf("rec-%d", r.nextID)
	}
	v.CreatedAt = time.Now()
	clone := *v
	r.records[v.ID] = &clone
	return nil
}

func (r *fakeVerificationRepo) GetByID(id string) (*models.PermitVerification, error) {
	v, ok := r.records[id]
	if !ok {
		return nil, repositories.ErrVerificationNotFound
	}
	clone := *v
	return &clone, nil
}

func (r *fakeVerificationRepo) List(status string, offset, limit int) ([]models.PermitVerification, int64, error) {
	var out []models.PermitVerification
	for _, v := range r.records {
		if status == "" || v.Status == status {
			out = append(out, *v)
		}
	}
	total := int64(len(out))
	if offset > len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *fakeVerificationRepo) All() ([]models.PermitVerification, error) {
	out, _, err := r.List("", 0, len(r.records))
	return out, err
}

func (r *fakeVerificationRepo) Update(v *models.PermitVerification) error {
	clone := *v
	r.records[v.ID] = &clone
	return nil
}

func (r *fakeVerificationRepo) LatestByUser(userID uint) (*models.PermitVerification, error) {
	var latest *models.PermitVerification
	for _, v := range r.records {
		if v.UserID != userID {
			continue
		}
		if latest == nil || v.CreatedAt.After(latest.CreatedAt) {
			latest = v
		}
	}
	if latest == nil {
		return nil, repositories.ErrVerificationNotFound
	}
	clone := *latest
	return &clone, nil
}

func (r *fakeVerificationRepo) Stats() (*repositories.VerificationStats, error) {
	stats := &repositories.VerificationStats{}
	for _, v := range r.records {
		stats.Total++
		switch v.Status {
		case models.VerificationVerified:
			stats.Verified++
		case models.VerificationRejected:
			stats.Rejected++
		}
	}
	return stats, nil
}

type fakeUserRepo struct {
	users map[uint]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uint]*models.User)}
	for _, u := range users {
		clone := *u
		r.users[u.ID] = &clone
	}
	return r
}

func (r *fakeUserRepo) Create(user *models.User) error {
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Update(user *models.User) error {
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) IncrementTokenVersion(userID uint) error {
	if u, ok := r.users[userID]; ok {
		u.TokenVersion++
	}
	return nil
}

func (r *fakeUserRepo) ListFarmers(offset, limit int) ([]models.User, int64, error) {
	var out []models.User
	for _, u := range r.users {
		if u.Role == models.RoleFarmer {
			out = append(out, *u)
		}
	}
	return out, int64(len(out)), nil
}

func buyer(id uint) *models.User {
	u := &models.User{Email: "buyer@example.com", Role: models.RoleBuyer}
	u.ID = id
	return u
}

func TestSubmit_InitialStatus(t *testing.T) {
	tests := []struct {
		name       string
		result     *scorer.ScoreResult
		scorerErr  error
		wantStatus string
	}{
		{
			name:       "high confidence valid permit lands pending, never auto-verified",
			result:     &scorer.ScoreResult{Valid: true, Confidence: 0.95, IsPermit: true},
			wantStatus: models.VerificationPending,
		},
		{
			name:       "confidence below floor is rejected",
			result:     &scorer.ScoreResult{Valid: true, Confidence: 0.2},
			wantStatus: models.VerificationRejected,
		},
		{
			name:       "scorer says not a permit",
			result:     &scorer.ScoreResult{Valid: false, Confidence: 0.9},
			wantStatus: models.VerificationRejected,
		},
		{
			name:       "scorer failure degrades to rejected",
			scorerErr:  errors.New("model unavailable"),
			wantStatus: models.VerificationRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifications := newFakeVerificationRepo()
			users := newFakeUserRepo(buyer(1))
			sc := new(MockScorer)
			sc.On("Score", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return(tt.result, tt.scorerErr)

			svc := NewService(verifications, users, sc, Config{ConfidenceFloor: 0.40})
			record, err := svc.Submit(context.Background(), 1, []byte("img"), "permit.jpg", nil)

			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, record.Status)
			if tt.scorerErr != nil {
				assert.False(t, record.Valid)
				assert.Zero(t, record.Confidence)
			}

			// The record must be persisted either way.
			stored, err := verifications.GetByID(record.ID)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, stored.Status)

			// And mirrored onto the user.
			user, err := users.GetByID(1)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, user.BusinessVerificationStatus)
			assert.NotNil(t, user.BusinessVerificationSubmittedAt)

			sc.AssertExpectations(t)
		})
	}
}

func TestReview_TransitionsAndSideEffects(t *testing.T) {
	setup := func(t *testing.T) (Service, *fakeVerificationRepo, *fakeUserRepo, string) {
		verifications := newFakeVerificationRepo()
		users := newFakeUserRepo(buyer(7))
		record := &models.PermitVerification{UserID: 7, Status: models.VerificationPending}
		assert.NoError(t, verifications.Create(record))
		svc := NewService(verifications, users, new(MockScorer), Config{})
		return svc, verifications, users, record.ID
	}

	t.Run("verify promotes user to farmer and stamps review fields", func(t *testing.T) {
		svc, _, users, id := setup(t)

		record, err := svc.Review(context.Background(), id, models.VerificationVerified, "looks good", "admin@farmtoclick.com")
		assert.NoError(t, err)
		assert.Equal(t, models.VerificationVerified, record.Status)
		assert.Equal(t, "admin@farmtoclick.com", record.ReviewedBy)
		assert.NotNil(t, record.ReviewedAt)

		user, err := users.GetByID(7)
		assert.NoError(t, err)
		assert.Equal(t, models.RoleFarmer, user.Role)
		assert.Equal(t, models.VerificationVerified, user.BusinessVerificationStatus)
	})

	t.Run("reject does not touch the user role", func(t *testing.T) {
		svc, _, users, id := setup(t)

		_, err := svc.Review(context.Background(), id, models.VerificationRejected, "blurry", "admin@farmtoclick.com")
		assert.NoError(t, err)

		user, err := users.GetByID(7)
		assert.NoError(t, err)
		assert.Equal(t, models.RoleBuyer, user.Role)
	})

	t.Run("repeat identical transition is idempotent", func(t *testing.T) {
		svc, verifications, _, id := setup(t)

		first, err := svc.Review(context.Background(), id, models.VerificationRejected, "blurry", "admin@farmtoclick.com")
		assert.NoError(t, err)
		second, err := svc.Review(context.Background(), id, models.VerificationRejected, "blurry", "admin@farmtoclick.com")
		assert.NoError(t, err)

		assert.Equal(t, first.Status, second.Status)
		assert.Equal(t, first.AdminNotes, second.AdminNotes)

		stored, err := verifications.GetByID(id)
		assert.NoError(t, err)
		assert.Equal(t, models.VerificationRejected, stored.Status)
	})

	t.Run("last write wins on competing reviews", func(t *testing.T) {
		svc, verifications, _, id := setup(t)

		_, err := svc.Review(context.Background(), id, models.VerificationUnderReview, "checking", "first@farmtoclick.com")
		assert.NoError(t, err)
		_, err = svc.Review(context.Background(), id, models.VerificationRejected, "fake permit", "second@farmtoclick.com")
		assert.NoError(t, err)

		stored, err := verifications.GetByID(id)
		assert.NoError(t, err)
		assert.Equal(t, models.VerificationRejected, stored.Status)
		assert.Equal(t, "second@farmtoclick.com", stored.ReviewedBy)
	})

	t.Run("reopening a decided case is allowed", func(t *testing.T) {
		svc, verifications, _, id := setup(t)

		_, err := svc.Review(context.Background(), id, models.VerificationVerified, "", "admin@farmtoclick.com")
		assert.NoError(t, err)
		_, err = svc.Review(context.Background(), id, models.VerificationUnderReview, "second look", "admin@farmtoclick.com")
		assert.NoError(t, err)

		stored, err := verifications.GetByID(id)
		assert.NoError(t, err)
		assert.Equal(t, models.VerificationUnderReview, stored.Status)
	})

	t.Run("invalid status", func(t *testing.T) {
		svc, _, _, id := setup(t)
		_, err := svc.Review(context.Background(), id, "approved", "", "admin@farmtoclick.com")
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("missing record", func(t *testing.T) {
		svc, _, _, _ := setup(t)
		_, err := svc.Review(context.Background(), "missing", models.VerificationVerified, "", "admin@farmtoclick.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestList_RejectsUnknownStatusFilter(t *testing.T) {
	svc := NewService(newFakeVerificationRepo(), newFakeUserRepo(), new(MockScorer), Config{})
	_, _, err := svc.List(context.Background(), "approved", 0, 20)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestOwnStatus(t *testing.T) {
	t.Run("buyer with no submission gets nil, not an error", func(t *testing.T) {
		svc := NewService(newFakeVerificationRepo(), newFakeUserRepo(buyer(1)), new(MockScorer), Config{})

		summary, err := svc.OwnStatus(context.Background(), 1)
		assert.NoError(t, err)
		assert.Nil(t, summary)
	})

	t.Run("latest record is reported without review internals", func(t *testing.T) {
		verifications := newFakeVerificationRepo()
		users := newFakeUserRepo(buyer(1))
		record := &models.PermitVerification{
			UserID:     1,
			Status:     models.VerificationPending,
			Confidence: 0.8,
			Valid:      true,
			AdminNotes: "internal note",
			ReviewedBy: "admin@farmtoclick.com",
		}
		assert.NoError(t, verifications.Create(record))

		svc := NewService(verifications, users, new(MockScorer), Config{})
		summary, err := svc.OwnStatus(context.Background(), 1)

		assert.NoError(t, err)
		assert.NotNil(t, summary)
		assert.Equal(t, models.VerificationPending, summary.VerificationStatus)
		assert.Equal(t, 0.8, summary.Confidence)
	})

	t.Run("farmer without a record falls back to the mirrored status", func(t *testing.T) {
		farmer := buyer(2)
		farmer.Role = models.RoleFarmer
		farmer.BusinessVerificationStatus = models.VerificationVerified

		svc := NewService(newFakeVerificationRepo(), newFakeUserRepo(farmer), new(MockScorer), Config{})
		summary, err := svc.OwnStatus(context.Background(), 2)

		assert.NoError(t, err)
		assert.NotNil(t, summary)
		assert.Equal(t, models.VerificationVerified, summary.VerificationStatus)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := NewService(newFakeVerificationRepo(), newFakeUserRepo(), new(MockScorer), Config{})
		_, err := svc.OwnStatus(context.Background(), 99)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestDashboardSummary_CountsMatchListing(t *testing.T) {
	verifications := newFakeVerificationRepo()
	users := newFakeUserRepo(buyer(1))
	for _, status := range []string{
		models.VerificationVerified,
		models.VerificationVerified,
		models.VerificationRejected,
		models.VerificationPending,
	} {
		assert.NoError(t, verifications.Create(&models.PermitVerification{UserID: 1, Status: status}))
	}

	svc := NewService(verifications, users, new(MockScorer), Config{})
	summary, err := svc.DashboardSummary(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, int64(4), summary.Stats.Total)
	assert.Equal(t, int64(2), summary.Stats.Verified)
	assert.Equal(t, int64(1), summary.Stats.Rejected)
	assert.Len(t, summary.Verifications, 4)

	_, verifiedTotal, err := svc.List(context.Background(), models.VerificationVerified, 0, 100)
	assert.NoError(t, err)
	assert.Equal(t, summary.Stats.Verified, verifiedTotal)
}
