package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"chargeback-gateway/internal/merchant/service"
	"chargeback-gateway/internal/merchant/token"
	"chargeback-gateway/pkg/platform/httputil"
	"chargeback-gateway/pkg/requestcontext"
	"chargeback-gateway/pkg/testutil"
)

// fakeResolver maps API keys to merchant ids directly, avoiding bcrypt in
// guard tests.
type fakeResolver struct {
	keys     map[string]string
	inactive map[string]bool
}

func (r *fakeResolver) ResolveAPIKey(_ context.Context, apiKey string) (string, error) {
	if id, ok := r.keys[apiKey]; ok && !r.inactive[id] {
		return id, nil
	}
	return "", service.ErrInvalidCredentials
}

func (r *fakeResolver) ValidateMerchantID(_ context.Context, merchantID string) error {
	for _, id := range r.keys {
		if id == merchantID && !r.inactive[id] {
			return nil
		}
	}
	return service.ErrInvalidCredentials
}

type MerchantGuardSuite struct {
	suite.Suite
	guard    *Guard
	tokens   *token.Service
	resolver *fakeResolver

	// handler echoes the merchant id the guard put in context.
	handler http.Handler
}

func TestMerchantGuardSuite(t *testing.T) {
	suite.Run(t, new(MerchantGuardSuite))
}

func (s *MerchantGuardSuite) SetupTest() {
	s.resolver = &fakeResolver{
		keys: map[string]string{
			"sk_live_good": "merchant_123",
			"sk_live_off":  "merchant_789",
		},
		inactive: map[string]bool{"merchant_789": true},
	}
	s.tokens = token.New("test-signing-key")
	s.guard = NewGuard(s.resolver, s.tokens, slog.New(slog.NewTextHandler(io.Discard, nil)))

	s.handler = s.guard.RequireMerchant(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Resolved-Merchant", requestcontext.MerchantID(r.Context()))
		w.WriteHeader(http.StatusOK)
	}))
}

func (s *MerchantGuardSuite) TestAPIKeyAuth() {
	s.Run("valid key in X-Forter-API-Key", func() {
		req := testutil.NewRequest(s.T(), http.MethodPost, "/webhook")
		req.Header.Set("X-Forter-API-Key", "sk_live_good")

		rr := testutil.DoRequest(s.handler, req)
		s.Equal(http.StatusOK, rr.Code)
		s.Equal("merchant_123", rr.Header().Get("X-Resolved-Merchant"))
	})

	s.Run("valid key in Authorization with Bearer prefix", func() {
		req := testutil.NewRequest(s.T(), http.MethodPost, "/webhook")
		req.Header.Set("Authorization", "Bearer sk_live_good")

		rr := testutil.DoRequest(s.handler, req)
		s.Equal(http.StatusOK, rr.Code)
		s.Equal("merchant_123", rr.Header().Get("X-Resolved-Merchant"))
	})

	s.Run("bearer prefix is case-insensitive", func() {
		req := testutil.NewRequest(s.T(), http.MethodPost, "/webhook")
		req.Header.Set("Authorization", "bearer sk_live_good")

		rr := testutil.DoRequest(s.handler, req)
		s.Equal(http.StatusOK, rr.Code)
	})

	s.Run("Authorization wins over X-Forter-API-Key", func() {
		req := testutil.NewRequest(s.T(), http.MethodPost, "/webhook")
		req.Header.Set("Authorization", "sk_live_good")
		req.Header.Set("X-Forter-API-Key", "sk_live_bad")

		rr := testutil.DoRequest(s.handler, req)
		s.Equal(http.StatusOK, rr.Code)
	})
}

func (s *MerchantGuardSuite) TestTokenAuth() {
	s.Run("valid bearer token resolves", func() {
		tok, err := s.tokens.Issue("merchant_123", time.Hour)
		s.Require().NoError(err)

		req := testutil.NewRequest(s.T(), http.MethodPost, "/webhook")
		req.Header.Set("Authorization", "Bearer "+tok)

		rr := testutil.DoRequest(s.handler, req)
		s.Equal(http.StatusOK, rr.Code)
		s.Equal("merchant_123", rr.Header().Get("X-Resolved-Merchant"))
	})

	s.Run("invalid token is not retried as an api key", func() {
		other := token.New("other-key")
		tok, err := other.Issue("merchant_123", time.Hour)
		s.Require().NoError(err)

		req := testutil.NewRequest(s.T(), http.MethodPost, "/webhook")
		req.Header.Set("Authorization", "Bearer "+tok)

		rr := testutil.DoRequest(s.handler, req)
		s.Equal(http.StatusForbidden, rr.Code)
	})
}

func (s *MerchantGuardSuite) TestRejections() {
	s.Run("missing credential", func() {
		req := testutil.NewRequest(s.T(), http.MethodPost, "/webhook")
		rr := testutil.DoRequest(s.handler, req)

		s.Require().Equal(http.StatusForbidden, rr.Code)
		body := testutil.UnmarshalResponse[httputil.ErrorBody](s.T(), rr)
		s.Equal("AuthError", body.Error)
		s.Equal("merchant authentication failed", body.Message)
	})

	s.Run("unknown key", func() {
		req := testutil.NewRequest(s.T(), http.MethodPost, "/webhook")
		req.Header.Set("X-Forter-API-Key", "sk_live_unknown")
		rr := testutil.DoRequest(s.handler, req)
		s.Equal(http.StatusForbidden, rr.Code)
	})

	s.Run("inactive merchant key", func() {
		req := testutil.NewRequest(s.T(), http.MethodPost, "/webhook")
		req.Header.Set("X-Forter-API-Key", "sk_live_off")
		rr := testutil.DoRequest(s.handler, req)
		s.Equal(http.StatusForbidden, rr.Code)
	})
}

func (s *MerchantGuardSuite) TestMerchantIDHeader() {
	s.Run("matching X-Merchant-Id passes", func() {
		req := testutil.NewRequest(s.T(), http.MethodPost, "/webhook")
		req.Header.Set("X-Forter-API-Key", "sk_live_good")
		req.Header.Set("X-Merchant-Id", "merchant_123")

		rr := testutil.DoRequest(s.handler, req)
		s.Equal(http.StatusOK, rr.Code)
	})

	s.Run("mismatched X-Merchant-Id rejected", func() {
		req := testutil.NewRequest(s.T(), http.MethodPost, "/webhook")
		req.Header.Set("X-Forter-API-Key", "sk_live_good")
		req.Header.Set("X-Merchant-Id", "merchant_456")

		rr := testutil.DoRequest(s.handler, req)
		s.Equal(http.StatusForbidden, rr.Code)
	})

	s.Run("absent X-Merchant-Id is not required", func() {
		req := testutil.NewRequest(s.T(), http.MethodPost, "/webhook")
		req.Header.Set("X-Forter-API-Key", "sk_live_good")

		rr := testutil.DoRequest(s.handler, req)
		s.Equal(http.StatusOK, rr.Code)
	})
}
