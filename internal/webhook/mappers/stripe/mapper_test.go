package stripe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"chargeback-gateway/internal/webhook"
)

type StripeMapperSuite struct {
	suite.Suite
	mapper *Mapper
}

func TestStripeMapperSuite(t *testing.T) {
	suite.Run(t, new(StripeMapperSuite))
}

func (s *StripeMapperSuite) SetupTest() {
	s.mapper = New(Config{})
}

// disputePayload builds a valid charge.dispute.created payload. Callers
// mutate it per case.
func disputePayload() webhook.Payload {
	return webhook.Payload{
		"object": "event",
		"type":   EventChargeDisputeCreated,
		"data": map[string]any{
			"object": map[string]any{
				"object":   ObjectDispute,
				"charge":   "ch_1",
				"reason":   "fraudulent",
				"currency": "usd",
				"amount":   5000.0,
			},
		},
	}
}

func (s *StripeMapperSuite) TestExtractEventType() {
	s.Run("reads the type field", func() {
		eventType, ok := s.mapper.ExtractEventType(disputePayload())
		s.Require().True(ok)
		s.Equal(EventChargeDisputeCreated, eventType)
	})

	s.Run("unknown type misses", func() {
		payload := disputePayload()
		payload["type"] = "charge.refunded"
		_, ok := s.mapper.ExtractEventType(payload)
		s.False(ok)
	})

	s.Run("non-string type misses", func() {
		payload := disputePayload()
		payload["type"] = 42
		_, ok := s.mapper.ExtractEventType(payload)
		s.False(ok)
	})
}

func (s *StripeMapperSuite) TestVerifyEventType() {
	s.True(s.mapper.VerifyEventType(EventChargeDisputeCreated))
	s.False(s.mapper.VerifyEventType("charge.refunded"))
	s.False(s.mapper.VerifyEventType(""))
}

func (s *StripeMapperSuite) TestMappingExpression() {
	s.Run("known event type resolves", func() {
		expr, ok := s.mapper.MappingExpression(EventChargeDisputeCreated)
		s.Require().True(ok)
		s.Contains(expr, "transaction_id")
		s.Contains(expr, `"provider": "stripe"`)
	})

	s.Run("unknown event type misses", func() {
		_, ok := s.mapper.MappingExpression("charge.refunded")
		s.False(ok)
	})
}

func (s *StripeMapperSuite) TestValidatePayload() {
	s.Run("valid payload passes", func() {
		s.NoError(s.mapper.ValidatePayload(disputePayload()))
	})

	s.Run("nil payload", func() {
		s.assertValidationError(s.mapper.ValidatePayload(nil), "payload is empty or null")
	})

	s.Run("wrong envelope object", func() {
		payload := disputePayload()
		payload["object"] = "charge"
		s.assertValidationError(s.mapper.ValidatePayload(payload), "field 'object' must equal 'event'")
	})

	s.Run("missing type", func() {
		payload := disputePayload()
		delete(payload, "type")
		s.assertValidationError(s.mapper.ValidatePayload(payload), "missing or empty 'type' field in payload")
	})

	s.Run("empty type", func() {
		payload := disputePayload()
		payload["type"] = ""
		s.assertValidationError(s.mapper.ValidatePayload(payload), "missing or empty 'type' field in payload")
	})

	s.Run("missing data object", func() {
		payload := disputePayload()
		payload["data"] = map[string]any{}
		s.assertValidationError(s.mapper.ValidatePayload(payload), "missing 'data.object' in payload")
	})

	s.Run("each required dispute field", func() {
		cases := map[string]string{
			"charge":   "missing 'charge' field in dispute object",
			"reason":   "missing 'reason' field in dispute object",
			"currency": "missing 'currency' field in dispute object",
			"amount":   "missing 'amount' field in dispute object",
		}
		for field, message := range cases {
			payload := disputePayload()
			object := payload["data"].(map[string]any)["object"].(map[string]any)
			delete(object, field)
			s.assertValidationError(s.mapper.ValidatePayload(payload), message)
		}
	})

	s.Run("empty string counts as missing", func() {
		payload := disputePayload()
		object := payload["data"].(map[string]any)["object"].(map[string]any)
		object["reason"] = ""
		s.assertValidationError(s.mapper.ValidatePayload(payload), "missing 'reason' field in dispute object")
	})

	s.Run("zero amount is valid", func() {
		payload := disputePayload()
		object := payload["data"].(map[string]any)["object"].(map[string]any)
		object["amount"] = 0.0
		s.NoError(s.mapper.ValidatePayload(payload))
	})

	s.Run("validation stops at the first violation", func() {
		payload := disputePayload()
		object := payload["data"].(map[string]any)["object"].(map[string]any)
		delete(object, "charge")
		delete(object, "reason")

		err := s.mapper.ValidatePayload(payload)
		s.assertValidationError(err, "missing 'charge' field in dispute object")
	})

	s.Run("unknown object subtype skips field checks", func() {
		payload := webhook.Payload{
			"object": "event",
			"type":   EventChargeDisputeCreated,
			"data": map[string]any{
				"object": map[string]any{"object": "refund"},
			},
		}
		s.NoError(s.mapper.ValidatePayload(payload))
	})
}

func (s *StripeMapperSuite) TestPostProcess() {
	s.Run("uppercases currency and keeps numeric amount", func() {
		out, err := s.mapper.PostProcess(webhook.Record{
			"currency": "usd",
			"amount":   5000.0,
		})
		s.Require().NoError(err)
		s.Equal("USD", out["currency"])
		s.Equal(5000.0, out["amount"])
	})

	s.Run("coerces string amounts", func() {
		out, err := s.mapper.PostProcess(webhook.Record{"amount": "5000"})
		s.Require().NoError(err)
		s.Equal(5000.0, out["amount"])
	})

	s.Run("coerces integer amounts", func() {
		out, err := s.mapper.PostProcess(webhook.Record{"amount": 5000})
		s.Require().NoError(err)
		s.Equal(5000.0, out["amount"])
	})

	s.Run("does not mutate the input record", func() {
		in := webhook.Record{"currency": "usd"}
		_, err := s.mapper.PostProcess(in)
		s.Require().NoError(err)
		s.Equal("usd", in["currency"])
	})

	s.Run("lenient mode passes non-numeric amount through", func() {
		out, err := s.mapper.PostProcess(webhook.Record{"amount": "not-a-number"})
		s.Require().NoError(err)
		s.Equal("not-a-number", out["amount"])
	})

	s.Run("strict mode rejects non-numeric amount", func() {
		strict := New(Config{StrictAmounts: true})
		_, err := strict.PostProcess(webhook.Record{"amount": "not-a-number"})
		s.Require().Error(err)

		var werr *webhook.Error
		s.Require().True(errors.As(err, &werr))
		s.Equal(webhook.KindPayloadValidation, werr.Kind)
		s.Require().Len(werr.Details, 1)
		s.Equal("amount", werr.Details[0].Field)
	})
}

func (s *StripeMapperSuite) assertValidationError(err error, message string) {
	s.Require().Error(err)
	var werr *webhook.Error
	s.Require().True(errors.As(err, &werr))
	s.Equal(webhook.KindPayloadValidation, werr.Kind)
	s.Equal(message, werr.Message)
}
