//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"chargeback-gateway/internal/merchant/models"
	"chargeback-gateway/internal/merchant/store"
	"chargeback-gateway/pkg/platform/sentinel"
	"chargeback-gateway/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.Require().NoError(s.store.Migrate(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "merchants"))
}

func (s *PostgresStoreSuite) merchant(id string, active bool) *models.Merchant {
	return &models.Merchant{
		ID:         id,
		Name:       id,
		APIKeyHash: "$2a$04$notarealhash",
		Active:     active,
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()

	s.Require().NoError(s.store.Create(ctx, s.merchant("merchant_pg", true)))

	found, err := s.store.FindByID(ctx, "merchant_pg")
	s.Require().NoError(err)
	s.Equal("merchant_pg", found.ID)
	s.Equal("$2a$04$notarealhash", found.APIKeyHash)
	s.True(found.Active)
}

func (s *PostgresStoreSuite) TestCreateConflict() {
	ctx := context.Background()

	s.Require().NoError(s.store.Create(ctx, s.merchant("merchant_dup", true)))
	err := s.store.Create(ctx, s.merchant("merchant_dup", true))
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestFindMissing() {
	_, err := s.store.FindByID(context.Background(), "merchant_missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListActive() {
	ctx := context.Background()

	s.Require().NoError(s.store.Create(ctx, s.merchant("merchant_1", true)))
	s.Require().NoError(s.store.Create(ctx, s.merchant("merchant_2", false)))
	s.Require().NoError(s.store.Create(ctx, s.merchant("merchant_3", true)))

	active, err := s.store.ListActive(ctx)
	s.Require().NoError(err)
	s.Require().Len(active, 2)
	for _, m := range active {
		s.True(m.Active)
	}
}

func (s *PostgresStoreSuite) TestSeedDemoMerchants() {
	ctx := context.Background()

	s.Require().NoError(store.SeedDemoMerchants(ctx, s.store))

	active, err := s.store.ListActive(ctx)
	s.Require().NoError(err)
	s.Len(active, 2)

	inactive, err := s.store.FindByID(ctx, "merchant_789")
	s.Require().NoError(err)
	s.False(inactive.Active)
}
