package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"internhub/internal/auth"
	"internhub/internal/config"
	apperrors "internhub/internal/errors"
	"internhub/internal/handler"
	"internhub/internal/model"
	"internhub/internal/repository"
	"internhub/internal/router"
	"internhub/internal/service"
)

const testSecret = "test-secret"

// stubAuthService satisfies service.AuthService with canned behavior.
type stubAuthService struct{}

func (s *stubAuthService) Register(ctx context.Context, email, password, firstName, lastName string, role model.Role) (*service.UserSummary, error) {
	return &service.UserSummary{ID: uuid.New(), Role: role, Name: firstName}, nil
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *service.UserSummary, error) {
	return "", nil, apperrors.ErrInvalidCredentials
}

func (s *stubAuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	return nil
}

func (s *stubAuthService) CurrentUser(ctx context.Context, principal *auth.Principal) (*service.UserSummary, error) {
	return &service.UserSummary{ID: principal.ID, Role: principal.Role, Name: "Stub"}, nil
}

// stubInternshipService mirrors the ownership rules of the real service so
// routing and status mapping can be asserted end to end.
type stubInternshipService struct{}

func (s *stubInternshipService) Create(ctx context.Context, principal *auth.Principal, input service.InternshipInput) (*model.Internship, error) {
	if principal.Role != model.RoleOrganization {
		return nil, apperrors.ErrForbidden
	}
	return &model.Internship{
		ID:      uuid.New(),
		OwnerID: principal.ID,
		Title:   input.Title,
		Status:  model.InternshipStatusActive,
	}, nil
}

func (s *stubInternshipService) ListOwned(ctx context.Context, principal *auth.Principal) ([]model.Internship, error) {
	if principal.Role != model.RoleOrganization {
		return nil, apperrors.ErrForbidden
	}
	return []model.Internship{
		{ID: uuid.New(), OwnerID: principal.ID, Title: "Mine", Status: model.InternshipStatusActive},
	}, nil
}

func (s *stubInternshipService) ListPublic(ctx context.Context, opts repository.ListOptions) (*service.PublicListResult, error) {
	return &service.PublicListResult{Internships: []model.Internship{}, Total: 0, CurrentPage: 1}, nil
}

func (s *stubInternshipService) Get(ctx context.Context, id uuid.UUID) (*model.Internship, error) {
	return nil, apperrors.ErrNotFound
}

func (s *stubInternshipService) Update(ctx context.Context, principal *auth.Principal, id uuid.UUID, input service.InternshipInput) (*model.Internship, error) {
	return nil, apperrors.ErrNotFound
}

func (s *stubInternshipService) UpdateStatus(ctx context.Context, principal *auth.Principal, id uuid.UUID, status model.InternshipStatus) (*model.Internship, error) {
	return nil, apperrors.ErrNotFound
}

// stubTokenStore never holds revocations.
type stubTokenStore struct{}

func (s *stubTokenStore) BlacklistToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	return nil
}

func (s *stubTokenStore) IsBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	return false, nil
}

func newTestServer() (*echo.Echo, *auth.JWTService) {
	cfg := &config.Config{StoreTimeout: 5 * time.Second}
	jwtService := auth.NewJWTService(testSecret, time.Hour)

	e := echo.New()
	router.Register(
		e,
		cfg,
		jwtService,
		&stubTokenStore{},
		handler.NewAuthHandler(&stubAuthService{}),
		handler.NewInternshipHandler(&stubInternshipService{}),
	)
	return e, jwtService
}

func bearer(t *testing.T, jwtService *auth.JWTService, role model.Role) (string, uuid.UUID) {
	t.Helper()
	id := uuid.New()
	token, err := jwtService.GenerateToken(id, role)
	assert.NoError(t, err)
	return "Bearer " + token, id
}

// The static /internships/my-internships segment must reach the owned
// listing, never the parameterized /internships/:id lookup.
func TestRouting_MyInternshipsNotShadowedByID(t *testing.T) {
	e, jwtService := newTestServer()
	authHeader, orgID := bearer(t, jwtService, model.RoleOrganization)

	req := httptest.NewRequest(http.MethodGet, "/api/internships/my-internships", nil)
	req.Header.Set(echo.HeaderAuthorization, authHeader)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp handler.OwnedListResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, orgID, resp.Internships[0].OwnerID)
}

func TestRouting_PublicListingNeedsNoToken(t *testing.T) {
	e, _ := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/internships", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"currentPage":1`)
}

func TestRouting_GetByIDStillWorks(t *testing.T) {
	e, _ := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/internships/"+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuth_MissingTokenIsUnauthorized(t *testing.T) {
	e, _ := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/internships/my-internships", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_INVALID")
}

func TestAuth_ExpiredTokenIsDistinguished(t *testing.T) {
	e, _ := newTestServer()

	now := time.Now()
	claims := &auth.Claims{
		UserID: uuid.New().String(),
		Role:   string(model.RoleOrganization),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/internships/my-internships", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+expired)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_EXPIRED")
}

func TestAuth_TamperedTokenIsInvalid(t *testing.T) {
	e, jwtService := newTestServer()
	authHeader, _ := bearer(t, jwtService, model.RoleOrganization)
	tampered := authHeader[:len(authHeader)-4] + "AAAA"

	req := httptest.NewRequest(http.MethodGet, "/api/internships/my-internships", nil)
	req.Header.Set(echo.HeaderAuthorization, tampered)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_INVALID")
}

func TestInternships_ApplicantCannotCreate(t *testing.T) {
	e, jwtService := newTestServer()
	authHeader, _ := bearer(t, jwtService, model.RoleApplicant)

	body := `{"title":"Nope","description":"An attempt"}`
	req := httptest.NewRequest(http.MethodPost, "/api/internships", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, authHeader)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORBIDDEN")
}

func TestInternships_ApplicantCannotListOwned(t *testing.T) {
	e, jwtService := newTestServer()
	authHeader, _ := bearer(t, jwtService, model.RoleApplicant)

	req := httptest.NewRequest(http.MethodGet, "/api/internships/my-internships", nil)
	req.Header.Set(echo.HeaderAuthorization, authHeader)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// A spoofed owner field in the payload is dropped at bind time; the
// created posting carries the token subject's id.
func TestInternships_SpoofedOwnerFieldIsIgnored(t *testing.T) {
	e, jwtService := newTestServer()
	authHeader, orgID := bearer(t, jwtService, model.RoleOrganization)

	spoofed := uuid.New()
	body := `{"title":"Spoof","description":"Owner injection attempt","owner_id":"` + spoofed.String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/internships", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, authHeader)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var created model.Internship
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, orgID, created.OwnerID)
	assert.NotEqual(t, spoofed, created.OwnerID)
}

func TestInternships_CreateRejectsMissingFields(t *testing.T) {
	e, jwtService := newTestServer()
	authHeader, _ := bearer(t, jwtService, model.RoleOrganization)

	req := httptest.NewRequest(http.MethodPost, "/api/internships", strings.NewReader(`{"title":"Only a title"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, authHeader)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// Wrong password and unknown email surface as the same status and the
// same message shape at the boundary.
func TestAuth_LoginFailureShape(t *testing.T) {
	e, _ := newTestServer()

	codes := make([]int, 0, 2)
	bodies := make([]string, 0, 2)
	for _, payload := range []string{
		`{"email":"known@example.com","password":"wrong"}`,
		`{"email":"unknown@example.com","password":"wrong"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(payload))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
		bodies = append(bodies, rec.Body.String())
	}

	assert.Equal(t, http.StatusUnauthorized, codes[0])
	assert.Equal(t, codes[0], codes[1])
	assert.Equal(t, bodies[0], bodies[1])
	assert.Contains(t, bodies[0], `"message"`)
}
