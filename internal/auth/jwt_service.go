package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	apperrors "internhub/internal/errors"
	"internhub/internal/model"
)

// DefaultTokenTTL is used when no TTL is configured.
const DefaultTokenTTL = 60 * time.Minute

// Principal is the authenticated identity derived from a validated token.
type Principal struct {
	ID   uuid.UUID
	Role model.Role
}

// Claims represents JWT claims.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService mints and validates stateless session tokens. Tokens are
// signed HS256 and carry the subject id and role; nothing is stored
// server-side at issue time.
type JWTService struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTService creates a new JWT service with the given secret and token TTL.
func NewJWTService(secret string, ttl time.Duration) *JWTService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// TTL returns the configured token lifetime.
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// GenerateToken mints a signed token for the user. The JTI is a fresh UUID
// so individual tokens can be blacklisted on logout.
func (s *JWTService) GenerateToken(userID uuid.UUID, role model.Role) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID.String(),
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken verifies signature and time bounds and returns the claims.
// An expired-but-otherwise-valid token fails with ErrTokenExpired; any
// structural or signature failure fails with ErrTokenInvalid.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrTokenInvalid
	}

	return claims, nil
}

// Principal resolves the claims into a typed Principal.
func (c *Claims) Principal() (*Principal, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return nil, apperrors.ErrTokenInvalid
	}
	return &Principal{ID: id, Role: model.Role(c.Role)}, nil
}
