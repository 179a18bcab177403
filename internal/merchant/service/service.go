// Package service resolves merchant credentials to identity. The rest of the
// gateway depends on merchants only through two narrow capabilities: resolve
// an API key to a merchant ID, and confirm a merchant ID is valid.
package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"chargeback-gateway/internal/merchant/store"
	"chargeback-gateway/pkg/platform/sentinel"
)

// ErrInvalidCredentials is returned for unknown keys, keys of inactive
// merchants, and mismatched merchant IDs. Callers must not distinguish the
// cases in responses.
var ErrInvalidCredentials = errors.New("invalid merchant credentials")

// Service answers merchant identity questions for the guards.
type Service struct {
	store store.Store
}

// New constructs the merchant service.
func New(s store.Store) (*Service, error) {
	if s == nil {
		return nil, errors.New("merchant store is required")
	}
	return &Service{store: s}, nil
}

// ResolveAPIKey returns the merchant ID owning the key. Inactive merchants
// never resolve.
func (s *Service) ResolveAPIKey(ctx context.Context, apiKey string) (string, error) {
	if apiKey == "" {
		return "", ErrInvalidCredentials
	}

	merchants, err := s.store.ListActive(ctx)
	if err != nil {
		return "", err
	}
	for _, m := range merchants {
		if bcrypt.CompareHashAndPassword([]byte(m.APIKeyHash), []byte(apiKey)) == nil {
			return m.ID, nil
		}
	}
	return "", ErrInvalidCredentials
}

// ValidateMerchantID confirms the merchant exists and is active.
func (s *Service) ValidateMerchantID(ctx context.Context, merchantID string) error {
	if merchantID == "" {
		return ErrInvalidCredentials
	}
	m, err := s.store.FindByID(ctx, merchantID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return err
	}
	if !m.Active {
		return ErrInvalidCredentials
	}
	return nil
}
