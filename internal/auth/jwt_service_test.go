package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	apperrors "internhub/internal/errors"
	"internhub/internal/model"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, model.RoleOrganization)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, string(model.RoleOrganization), claims.Role)
	assert.NotEmpty(t, claims.ID)

	principal, err := claims.Principal()
	assert.NoError(t, err)
	assert.Equal(t, userID, principal.ID)
	assert.Equal(t, model.RoleOrganization, principal.Role)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	secret := "test-secret"
	svc := NewJWTService(secret, time.Hour)

	// Sign an already-expired token with the correct secret: the signature
	// is valid, so the failure must be the expiry, not the structure.
	now := time.Now()
	claims := &Claims{
		UserID: uuid.New().String(),
		Role:   string(model.RoleOrganization),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Hour)),
			NotBefore: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	assert.NoError(t, err)

	_, err = svc.ValidateToken(expired)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestJWTService_InvalidToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "empty", token: ""},
		{
			name: "wrong secret",
			token: func() string {
				other := NewJWTService("other-secret", time.Hour)
				tok, _ := other.GenerateToken(uuid.New(), model.RoleApplicant)
				return tok
			}(),
		},
		{
			name: "tampered payload",
			token: func() string {
				tok, _ := svc.GenerateToken(uuid.New(), model.RoleApplicant)
				return tok[:len(tok)-4] + "AAAA"
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
		})
	}
}

func TestClaims_PrincipalRejectsBadSubject(t *testing.T) {
	claims := &Claims{UserID: "yash-organization", Role: string(model.RoleOrganization)}
	_, err := claims.Principal()
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}
