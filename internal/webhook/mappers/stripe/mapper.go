// Package stripe maps Stripe dispute webhooks into the canonical chargeback
// record. It is the reference Mapper implementation: provider-specific field
// names, event types, and mapping expressions live here as data.
package stripe

import (
	"strconv"
	"strings"

	"chargeback-gateway/internal/webhook"
)

const providerName = "stripe"

// Config controls provider-specific policy knobs.
type Config struct {
	// StrictAmounts rejects mapped amounts that cannot be coerced to a
	// number. When false, non-coercible values pass through unchanged and
	// the caller sees the raw mapped value.
	StrictAmounts bool
}

// Mapper implements webhook.Mapper plus the PostProcessor capability.
type Mapper struct {
	cfg Config
}

// New returns a Stripe mapper with the given policy configuration.
func New(cfg Config) *Mapper {
	return &Mapper{cfg: cfg}
}

func (m *Mapper) Name() string {
	return providerName
}

// ExtractEventType reads the top-level "type" field. Only recognized Stripe
// event types are returned.
func (m *Mapper) ExtractEventType(payload webhook.Payload) (string, bool) {
	eventType, _ := payload["type"].(string)
	if !isKnownEventType(eventType) {
		return "", false
	}
	return eventType, true
}

func (m *Mapper) VerifyEventType(eventType string) bool {
	if !isKnownEventType(eventType) {
		return false
	}
	_, ok := mappingExpressions[eventType]
	return ok
}

func (m *Mapper) MappingExpression(eventType string) (string, bool) {
	expr, ok := mappingExpressions[eventType]
	return expr, ok
}

// ValidatePayload checks the webhook envelope and then, when the payload
// carries a known object subtype, that subtype's required fields. Validation
// stops at the first violation. Unknown object subtypes are skipped so new
// Stripe objects arrive without breaking validation.
func (m *Mapper) ValidatePayload(payload webhook.Payload) error {
	if payload == nil {
		return webhook.NewPayloadValidation("payload is empty or null")
	}

	if object, _ := payload["object"].(string); object != "event" {
		return webhook.NewPayloadValidation("field 'object' must equal 'event'",
			webhook.Detail{Field: "object", Issue: "must be the literal string \"event\""})
	}

	if eventType, ok := payload["type"].(string); !ok || eventType == "" {
		return webhook.NewPayloadValidation("missing or empty 'type' field in payload",
			webhook.Detail{Field: "type", Issue: "must be a non-empty string"})
	}

	data, ok := payload["data"].(map[string]any)
	if !ok {
		return webhook.NewPayloadValidation("missing 'data.object' in payload",
			webhook.Detail{Field: "data.object", Issue: "must be an object"})
	}
	object, ok := data["object"].(map[string]any)
	if !ok {
		return webhook.NewPayloadValidation("missing 'data.object' in payload",
			webhook.Detail{Field: "data.object", Issue: "must be an object"})
	}

	subtype, _ := object["object"].(string)
	checks, known := objectFieldChecks[subtype]
	if !known {
		return nil
	}
	for _, check := range checks {
		if isMissing(object[check.field]) {
			return webhook.NewPayloadValidation(check.message,
				webhook.Detail{Field: check.field, Issue: "required"})
		}
	}
	return nil
}

// PostProcess enforces the canonical record invariants on the mapped result:
// uppercase currency and a numeric amount. The input record is not mutated.
func (m *Mapper) PostProcess(result webhook.Record) (webhook.Record, error) {
	out := make(webhook.Record, len(result))
	for k, v := range result {
		out[k] = v
	}

	if currency, ok := out["currency"].(string); ok {
		out["currency"] = strings.ToUpper(currency)
	}

	if amount, ok := out["amount"]; ok && amount != nil {
		coerced, ok := coerceAmount(amount)
		if ok {
			out["amount"] = coerced
		} else if m.cfg.StrictAmounts {
			return nil, webhook.NewPayloadValidation("mapped amount is not a number",
				webhook.Detail{Field: "amount", Issue: "cannot be converted to a number"})
		}
	}

	return out, nil
}

func isKnownEventType(eventType string) bool {
	return eventType == EventChargeDisputeCreated
}

// isMissing treats absent values and empty strings as missing. Numeric zero
// is a legitimate amount.
func isMissing(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	return false
}

func coerceAmount(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
