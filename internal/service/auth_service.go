package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"internhub/internal/auth"
	"internhub/internal/errors"
	"internhub/internal/model"
	"internhub/internal/repository"
)

const bcryptCost = 10

// decoyHash is a valid bcrypt hash compared against when the email is
// unknown, so the unknown-email and wrong-password paths take the same
// time. The plaintext it encodes is never accepted.
const decoyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserSummary is the caller-visible view of a user. It never carries the
// password hash.
type UserSummary struct {
	ID   uuid.UUID  `json:"id"`
	Role model.Role `json:"role"`
	Name string     `json:"name"`
}

// AuthService handles credential verification and token lifecycle.
type AuthService interface {
	Register(ctx context.Context, email, password, firstName, lastName string, role model.Role) (*UserSummary, error)
	Login(ctx context.Context, email, password string) (token string, user *UserSummary, err error)
	Logout(ctx context.Context, claims *auth.Claims) error
	CurrentUser(ctx context.Context, principal *auth.Principal) (*UserSummary, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// Register creates a new user with a hashed password. Admin accounts are
// provisioned out of band, never through this path.
func (s *authService) Register(ctx context.Context, email, password, firstName, lastName string, role model.Role) (*UserSummary, error) {
	if role != model.RoleOrganization && role != model.RoleApplicant {
		return nil, fmt.Errorf("%w: role must be organization or applicant", errors.ErrValidation)
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, errors.ErrUserAlreadyExists
	}
	if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, mapStoreError(err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hashedPassword),
		Role:         role,
		FirstName:    firstName,
		LastName:     lastName,
		Active:       true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Two concurrent registrations can both pass the FindByEmail
		// check; the unique index decides the race.
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.ErrUserAlreadyExists
		}
		return nil, mapStoreError(err)
	}

	return summarize(user), nil
}

// Login verifies credentials and mints a session token. Unknown email and
// wrong password are indistinguishable to the caller: both paths perform a
// bcrypt comparison and both fail with ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, email, password string) (string, *UserSummary, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", nil, errors.ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if !stderrors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, mapStoreError(err)
		}
		// Burn a comparison so the miss takes as long as a mismatch.
		_ = bcrypt.CompareHashAndPassword([]byte(decoyHash), []byte(password))
		return "", nil, errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, errors.ErrInvalidCredentials
	}

	if !user.Active {
		return "", nil, errors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	return token, summarize(user), nil
}

// Logout revokes the presented token for the rest of its lifetime.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return errors.ErrTokenInvalid
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil // already expired, nothing to revoke
	}
	return s.tokenStore.BlacklistToken(ctx, claims.ID, ttl)
}

// CurrentUser loads the profile summary behind a validated principal.
func (s *authService) CurrentUser(ctx context.Context, principal *auth.Principal) (*UserSummary, error) {
	user, err := s.userRepo.FindByID(ctx, principal.ID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNotFound
		}
		return nil, mapStoreError(err)
	}
	return summarize(user), nil
}

func summarize(user *model.User) *UserSummary {
	return &UserSummary{
		ID:   user.ID,
		Role: user.Role,
		Name: user.DisplayName(),
	}
}
