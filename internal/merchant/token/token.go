// Package token issues and validates merchant bearer tokens. Merchants that
// have exchanged their API key for a short-lived token can present it in the
// same Authorization header; the auth middleware tries tokens before raw
// keys.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "chargeback-gateway"

// ErrInvalidToken covers expired, malformed, and wrongly-signed tokens.
var ErrInvalidToken = errors.New("invalid merchant token")

// Claims are the JWT claims carried by merchant tokens.
type Claims struct {
	MerchantID string `json:"merchant_id"`
	jwt.RegisteredClaims
}

// Service signs and validates HS256 merchant tokens.
type Service struct {
	signingKey []byte
}

// New constructs the token service with the shared signing key.
func New(signingKey string) *Service {
	return &Service{signingKey: []byte(signingKey)}
}

// Issue creates a token for the merchant valid for expiresIn.
func (s *Service) Issue(merchantID string, expiresIn time.Duration) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		MerchantID: merchantID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			ID:        uuid.NewString(),
		},
	})
	return t.SignedString(s.signingKey)
}

// Validate parses the token and returns the merchant ID it asserts.
func (s *Service) Validate(tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(issuer))
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.MerchantID == "" {
		return "", ErrInvalidToken
	}
	return claims.MerchantID, nil
}

// LooksLikeToken reports whether a credential is JWT-shaped (three dot
// separated segments). Used to route credentials to token validation before
// falling back to API key resolution.
func LooksLikeToken(credential string) bool {
	return strings.Count(credential, ".") == 2
}
