package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JTI returns the unique token identifier. An empty result means the
// token cannot be individually revoked.
func (c *Claims) JTI() string {
	return c.RegisteredClaims.ID
}

// TokenService issues and validates signed session tokens. The secret
// and default TTL come from configuration at construction time; there is
// no package-level state.
type TokenService struct {
	secret     []byte
	defaultTTL time.Duration
}

func NewTokenService(secret string, tokenDurationHours int) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		defaultTTL: time.Duration(tokenDurationHours) * time.Hour,
	}
}

// DefaultTTL is the token lifetime applied when Issue is called with a
// zero ttl.
func (s *TokenService) DefaultTTL() time.Duration {
	return s.defaultTTL
}

// Issue signs a fresh session token for the subject. Every token gets
// its own jti so it can be revoked individually later.
func (s *TokenService) Issue(userID, email, role string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	now := time.Now()

	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%w: signing token: %v", ErrInternal, err)
	}

	return tokenString, nil
}

// Validate verifies signature and expiry and returns the embedded
// claims. Every failure mode collapses into ErrInvalidToken so the
// result cannot be used as a validation oracle.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
