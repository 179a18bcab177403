package webhook

import "fmt"

// Chargeback is the canonical schema every provider maps into. All fields
// except Provider are required and non-empty after successful processing;
// Currency is uppercase ISO 4217 and Amount is numeric.
type Chargeback struct {
	TransactionID string  `json:"transaction_id"`
	Reason        string  `json:"reason"`
	Currency      string  `json:"currency"`
	Amount        float64 `json:"amount"`
	Provider      string  `json:"provider,omitempty"`
}

// DecodeChargeback converts a mapped record into the typed canonical schema,
// enforcing presence of the required fields. The pipeline itself returns the
// generic Record; this strict view is for callers that need the typed shape
// (audit enrichment, tests).
func DecodeChargeback(r Record) (Chargeback, error) {
	var cb Chargeback

	var err error
	if cb.TransactionID, err = stringField(r, "transaction_id"); err != nil {
		return Chargeback{}, err
	}
	if cb.Reason, err = stringField(r, "reason"); err != nil {
		return Chargeback{}, err
	}
	if cb.Currency, err = stringField(r, "currency"); err != nil {
		return Chargeback{}, err
	}

	amount, ok := r["amount"]
	if !ok {
		return Chargeback{}, fmt.Errorf("record missing %q", "amount")
	}
	f, ok := amount.(float64)
	if !ok {
		return Chargeback{}, fmt.Errorf("record field %q is %T, want number", "amount", amount)
	}
	cb.Amount = f

	if provider, ok := r["provider"].(string); ok {
		cb.Provider = provider
	}
	return cb, nil
}

func stringField(r Record, name string) (string, error) {
	v, ok := r[name]
	if !ok {
		return "", fmt.Errorf("record missing %q", name)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("record field %q is empty or not a string", name)
	}
	return s, nil
}
