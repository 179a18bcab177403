// Package store persists merchant records. Implementations return sentinel
// errors for store facts; the service layer owns credential semantics.
package store

import (
	"context"

	"chargeback-gateway/internal/merchant/models"
)

// Store is the merchant persistence contract.
type Store interface {
	// Create inserts a merchant. Returns sentinel.ErrConflict when the ID is
	// already taken.
	Create(ctx context.Context, m *models.Merchant) error
	// FindByID returns the merchant or sentinel.ErrNotFound.
	FindByID(ctx context.Context, id string) (*models.Merchant, error)
	// ListActive returns all active merchants. Credential resolution walks
	// this list; merchant counts are small by design.
	ListActive(ctx context.Context) ([]*models.Merchant, error)
}
