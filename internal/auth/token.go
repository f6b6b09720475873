package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "flock"

// ErrInvalidToken indicates the token failed validation, expired tokens
// included. Callers surface it as a generic authentication failure.
var ErrInvalidToken = errors.New("invalid token")

// TokenService issues and verifies signed, time-limited API tokens encoding
// a user ID.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service with the given signing secret and
// token lifetime.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the given user using HS256
func (s *TokenService) Issue(userID int64) (string, error) {
	if userID <= 0 {
		return "", errors.New("userID is required")
	}
	if len(s.secret) == 0 {
		return "", errors.New("auth secret is not configured")
	}

	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates the token signature and expiry and returns the encoded
// user ID. Any failure, including expiry, answers ErrInvalidToken without
// detail.
func (s *TokenService) Verify(token string) (int64, error) {
	if token == "" {
		return 0, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	if claims.Issuer != issuer {
		return 0, ErrInvalidToken
	}
	if claims.ExpiresAt == nil || time.Now().UTC().After(claims.ExpiresAt.Time) {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidToken
	}
	return userID, nil
}
