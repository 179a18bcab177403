package store

import (
	"context"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"chargeback-gateway/internal/merchant/models"
	"chargeback-gateway/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded merchant store for development and tests.
type InMemory struct {
	mu        sync.RWMutex
	merchants map[string]*models.Merchant
	order     []string
}

// NewInMemory returns an empty in-memory merchant store.
func NewInMemory() *InMemory {
	return &InMemory{merchants: make(map[string]*models.Merchant)}
}

func (s *InMemory) Create(_ context.Context, m *models.Merchant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.merchants[m.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *m
	s.merchants[m.ID] = &cp
	s.order = append(s.order, m.ID)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (*models.Merchant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.merchants[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *InMemory) ListActive(_ context.Context) ([]*models.Merchant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Merchant
	for _, id := range s.order {
		if m := s.merchants[id]; m.Active {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

// SeedDemoMerchants loads the demo merchant set, including one inactive
// merchant, so local environments have working credentials out of the box.
// Replace with real provisioning in production.
func SeedDemoMerchants(ctx context.Context, s Store) error {
	demo := []struct {
		id     string
		apiKey string
		active bool
	}{
		{"merchant_123", "sk_test_merchant123_secret_key_abc", true},
		{"merchant_456", "sk_test_merchant456_secret_key_xyz", true},
		{"merchant_789", "sk_test_merchant789_secret_key_def", false},
	}

	now := time.Now()
	for _, d := range demo {
		hash, err := bcrypt.GenerateFromPassword([]byte(d.apiKey), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		m := &models.Merchant{
			ID:         d.id,
			Name:       d.id,
			APIKeyHash: string(hash),
			Active:     d.active,
			CreatedAt:  now,
		}
		if err := s.Create(ctx, m); err != nil {
			return err
		}
	}
	return nil
}
