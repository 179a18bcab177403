package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type TokenServiceSuite struct {
	suite.Suite
	service *Service
}

func TestTokenServiceSuite(t *testing.T) {
	suite.Run(t, new(TokenServiceSuite))
}

func (s *TokenServiceSuite) SetupTest() {
	s.service = New("test-signing-key")
}

func (s *TokenServiceSuite) TestIssueAndValidate() {
	s.Run("round trip returns the merchant id", func() {
		tok, err := s.service.Issue("merchant_123", time.Hour)
		s.Require().NoError(err)

		merchantID, err := s.service.Validate(tok)
		s.Require().NoError(err)
		s.Equal("merchant_123", merchantID)
	})

	s.Run("expired token rejected", func() {
		tok, err := s.service.Issue("merchant_123", -time.Minute)
		s.Require().NoError(err)

		_, err = s.service.Validate(tok)
		s.ErrorIs(err, ErrInvalidToken)
	})

	s.Run("token signed with a different key rejected", func() {
		other := New("other-key")
		tok, err := other.Issue("merchant_123", time.Hour)
		s.Require().NoError(err)

		_, err = s.service.Validate(tok)
		s.ErrorIs(err, ErrInvalidToken)
	})

	s.Run("garbage rejected", func() {
		_, err := s.service.Validate("not.a.token")
		s.ErrorIs(err, ErrInvalidToken)
	})
}

func (s *TokenServiceSuite) TestLooksLikeToken() {
	tok, err := s.service.Issue("merchant_123", time.Hour)
	s.Require().NoError(err)

	s.True(LooksLikeToken(tok))
	s.False(LooksLikeToken("sk_test_merchant123_secret_key_abc"))
	s.False(LooksLikeToken(""))
	s.False(LooksLikeToken("one.dot"))
}
