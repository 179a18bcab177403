// Package service enforces per-merchant request limits over a sliding window.
package service

import (
	"context"
	"fmt"
	"time"

	"chargeback-gateway/internal/ratelimit/models"
	"chargeback-gateway/internal/ratelimit/store/bucket"
)

// Service checks rate limits against a bucket store. Limits are keyed per
// merchant so one merchant's burst cannot starve another.
type Service struct {
	store  bucket.BucketStore
	limit  int
	window time.Duration
}

// New creates a rate limit service with the given per-merchant limit.
func New(store bucket.BucketStore, limit int, window time.Duration) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("bucket store is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %s", window)
	}
	return &Service{store: store, limit: limit, window: window}, nil
}

// CheckMerchant records one request for the merchant and reports whether it
// is within the configured limit.
func (s *Service) CheckMerchant(ctx context.Context, merchantID string) (*models.RateLimitResult, error) {
	key := "merchant:" + models.SanitizeKeySegment(merchantID)
	return s.store.Allow(ctx, key, s.limit, s.window)
}

// ResetMerchant clears the counter for a merchant.
func (s *Service) ResetMerchant(ctx context.Context, merchantID string) error {
	key := "merchant:" + models.SanitizeKeySegment(merchantID)
	return s.store.Reset(ctx, key)
}
