package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"farmtoclick/internal/middleware"
	"farmtoclick/internal/models"
	"farmtoclick/internal/repositories"
	"farmtoclick/internal/services/verification"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockVerificationService struct {
	mock.Mock
}

func (m *MockVerificationService) Submit(ctx context.Context, userID uint, image []byte, filename string, dtiImage []byte) (*models.PermitVerification, error) {
	args := m.Called(ctx, userID, image, filename, dtiImage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PermitVerification), args.Error(1)
}

func (m *MockVerificationService) List(ctx context.Context, status string, offset, limit int) ([]models.PermitVerification, int64, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.PermitVerification), args.Get(1).(int64), args.Error(2)
}

func (m *MockVerificationService) Get(ctx context.Context, id string) (*models.PermitVerification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PermitVerification), args.Error(1)
}

func (m *MockVerificationService) Review(ctx context.Context, id, newStatus, notes, reviewer string) (*models.PermitVerification, error) {
	args := m.Called(ctx, id, newStatus, notes, reviewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PermitVerification), args.Error(1)
}

func (m *MockVerificationService) DashboardSummary(ctx context.Context) (*verification.Summary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*verification.Summary), args.Error(1)
}

func (m *MockVerificationService) OwnStatus(ctx context.Context, userID uint) (*verification.StatusSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*verification.StatusSummary), args.Error(1)
}

// stubUserRepo serves the fresh role lookup the admin middleware performs.
type stubUserRepo struct {
	users map[uint]*models.User
}

func (r *stubUserRepo) Create(user *models.User) error { return nil }
func (r *stubUserRepo) GetByID(id uint) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrUserNotFound
}
func (r *stubUserRepo) GetByEmail(email string) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}
func (r *stubUserRepo) Update(user *models.User) error          { return nil }
func (r *stubUserRepo) IncrementTokenVersion(userID uint) error { return nil }
func (r *stubUserRepo) ListFarmers(offset, limit int) ([]models.User, int64, error) {
	return nil, 0, nil
}

func userWithRole(id uint, role string) *models.User {
	u := &models.User{Email: "user@example.com", Role: role}
	u.ID = id
	return u
}

// newAdminTestApp mounts the admin routes behind the real admin middleware,
// with a stand-in auth layer that injects the given claims.
func newAdminTestApp(service verification.Service, users repositories.UserRepository, claims *models.UserClaims) *fiber.App {
	app := fiber.New()
	handler := NewAdminHandler(service)

	authStub := func(c *fiber.Ctx) error {
		if claims != nil {
			c.Locals("claims", claims)
		}
		return c.Next()
	}

	admin := app.Group("/api/admin", authStub, middleware.RequireAdmin(users))
	admin.Get("/verifications", handler.GetVerificationsDashboard)
	admin.Get("/permit-verifications", handler.GetPermitVerifications)
	admin.Get("/permit-verifications/:id", handler.GetPermitVerificationDetail)
	admin.Put("/permit-verifications/:id", handler.UpdatePermitVerification)
	return app
}

func adminClaims(userID uint) *models.UserClaims {
	return &models.UserClaims{UserID: userID, Email: "admin@farmtoclick.com", Role: models.RoleAdmin}
}

func TestAdminRoutes_NonAdminAlwaysForbidden(t *testing.T) {
	service := new(MockVerificationService)
	users := &stubUserRepo{users: map[uint]*models.User{
		1: userWithRole(1, models.RoleBuyer),
	}}
	// Claims lie about the role; the middleware must not trust them.
	claims := &models.UserClaims{UserID: 1, Email: "user@example.com", Role: models.RoleAdmin}
	app := newAdminTestApp(service, users, claims)

	requests := []struct {
		method string
		path   string
	}{
		{"GET", "/api/admin/verifications"},
		{"GET", "/api/admin/permit-verifications"},
		{"GET", "/api/admin/permit-verifications/some-id"},
		{"PUT", "/api/admin/permit-verifications/some-id"},
	}

	for _, req := range requests {
		t.Run(req.method+" "+req.path, func(t *testing.T) {
			httpReq := httptest.NewRequest(req.method, req.path, strings.NewReader(`{"status":"verified"}`))
			httpReq.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(httpReq)
			assert.NoError(t, err)
			assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
		})
	}

	// The service must never be reached; record existence is not leaked.
	service.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	service.AssertNotCalled(t, "Review", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminRoutes_MissingClaimsUnauthorized(t *testing.T) {
	service := new(MockVerificationService)
	users := &stubUserRepo{users: map[uint]*models.User{}}
	app := newAdminTestApp(service, users, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/admin/verifications", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGetPermitVerifications_Pagination(t *testing.T) {
	service := new(MockVerificationService)
	users := &stubUserRepo{users: map[uint]*models.User{
		9: userWithRole(9, models.RoleAdmin),
	}}
	app := newAdminTestApp(service, users, adminClaims(9))

	records := make([]models.PermitVerification, 10)
	for i := range records {
		records[i] = models.PermitVerification{ID: "id", Status: models.VerificationVerified}
	}
	service.On("List", mock.Anything, models.VerificationVerified, 10, 10).
		Return(records, int64(25), nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/admin/permit-verifications?status=verified&page=2&per_page=10", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Verifications []json.RawMessage `json:"verifications"`
		Pagination    struct {
			Page    int   `json:"page"`
			PerPage int   `json:"per_page"`
			Total   int64 `json:"total"`
			Pages   int64 `json:"pages"`
		} `json:"pagination"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Verifications, 10)
	assert.Equal(t, 2, body.Pagination.Page)
	assert.Equal(t, 10, body.Pagination.PerPage)
	assert.Equal(t, int64(25), body.Pagination.Total)
	assert.Equal(t, int64(3), body.Pagination.Pages)

	service.AssertExpectations(t)
}

func TestGetPermitVerifications_InvalidStatusFilter(t *testing.T) {
	service := new(MockVerificationService)
	users := &stubUserRepo{users: map[uint]*models.User{
		9: userWithRole(9, models.RoleAdmin),
	}}
	app := newAdminTestApp(service, users, adminClaims(9))

	service.On("List", mock.Anything, "approved", 0, 20).
		Return(nil, int64(0), verification.ErrInvalidStatus)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/admin/permit-verifications?status=approved", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdatePermitVerification(t *testing.T) {
	users := &stubUserRepo{users: map[uint]*models.User{
		9: userWithRole(9, models.RoleAdmin),
	}}

	t.Run("invalid status is a 400", func(t *testing.T) {
		service := new(MockVerificationService)
		app := newAdminTestApp(service, users, adminClaims(9))
		service.On("Review", mock.Anything, "rec-1", "approved", "", "admin@farmtoclick.com").
			Return(nil, verification.ErrInvalidStatus)

		req := httptest.NewRequest("PUT", "/api/admin/permit-verifications/rec-1", strings.NewReader(`{"status":"approved"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing record is a 404", func(t *testing.T) {
		service := new(MockVerificationService)
		app := newAdminTestApp(service, users, adminClaims(9))
		service.On("Review", mock.Anything, "ghost", models.VerificationVerified, "", "admin@farmtoclick.com").
			Return(nil, verification.ErrNotFound)

		req := httptest.NewRequest("PUT", "/api/admin/permit-verifications/ghost", strings.NewReader(`{"status":"verified"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("successful review returns the new status", func(t *testing.T) {
		service := new(MockVerificationService)
		app := newAdminTestApp(service, users, adminClaims(9))
		updated := &models.PermitVerification{ID: "rec-1", Status: models.VerificationVerified}
		service.On("Review", mock.Anything, "rec-1", models.VerificationVerified, "all good", "admin@farmtoclick.com").
			Return(updated, nil)

		req := httptest.NewRequest("PUT", "/api/admin/permit-verifications/rec-1",
			strings.NewReader(`{"status":"verified","admin_notes":"all good"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "rec-1", body["id"])
		assert.Equal(t, models.VerificationVerified, body["status"])
	})
}

func TestGetVerificationsDashboard(t *testing.T) {
	service := new(MockVerificationService)
	users := &stubUserRepo{users: map[uint]*models.User{
		9: userWithRole(9, models.RoleAdmin),
	}}
	app := newAdminTestApp(service, users, adminClaims(9))

	service.On("DashboardSummary", mock.Anything).Return(&verification.Summary{
		Stats:         &repositories.VerificationStats{Total: 3, Verified: 1, Rejected: 1},
		Verifications: []verification.DashboardRow{{ID: "a"}, {ID: "b"}, {ID: "c"}},
	}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/admin/verifications", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Verifications []verification.DashboardRow    `json:"verifications"`
		Stats         repositories.VerificationStats `json:"stats"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Verifications, 3)
	assert.Equal(t, int64(3), body.Stats.Total)
	assert.Equal(t, int64(1), body.Stats.Verified)
}
