package audit

import "time"

// Outcome of a processed webhook, recorded for every request.
type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeRejected  Outcome = "rejected"
	OutcomeFailed    Outcome = "failed"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp     time.Time `json:"timestamp"`
	RequestID     string    `json:"request_id,omitempty"`
	MerchantID    string    `json:"merchant_id,omitempty"`
	Provider      string    `json:"provider"`
	EventType     string    `json:"event_type,omitempty"`
	Outcome       Outcome   `json:"outcome"`
	FailureKind   string    `json:"failure_kind,omitempty"`
	TransactionID string    `json:"transaction_id,omitempty"`
	ClientIP      string    `json:"client_ip,omitempty"`
}
