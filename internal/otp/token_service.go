package otp

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// TokenClaims bind a change token to its subject and kind. The token never
// carries the one-time code itself, so it is safe to hand to the browser.
// NewEmail is a display hint, only present for email changes.
type TokenClaims struct {
	UserID   string     `json:"user_id"`
	Kind     ChangeKind `json:"kind"`
	NewEmail string     `json:"new_email,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies change tokens. It holds its own secret,
// distinct from the session token secret: compromising one does not
// compromise the other.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a change-token service with the given secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    CodeExpiry,
	}
}

// Generate issues a signed change token for the user and change kind.
func (s *TokenService) Generate(userID uuid.UUID, kind ChangeKind, newEmail string) (string, error) {
	now := time.Now()
	claims := &TokenClaims{
		UserID:   userID.String(),
		Kind:     kind,
		NewEmail: newEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate checks signature and expiry and returns the claims. A tampered or
// expired token fails closed.
func (s *TokenService) Validate(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
