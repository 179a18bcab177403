// Package webhook defines the provider-pluggable contract for normalizing
// payment provider webhook payloads into the canonical chargeback record,
// together with the error taxonomy the pipeline reports against.
package webhook

// Payload is a raw provider webhook body as decoded JSON.
type Payload = map[string]any

// Record is a mapped canonical record in JSON form. The pipeline keeps it
// generic so mappers without a post-processing capability can return the
// mapped output untouched.
type Record = map[string]any

// Mapper is implemented once per payment provider. Implementations are
// stateless, registered at startup, and shared by concurrent requests.
type Mapper interface {
	// Name returns the stable lowercase provider identifier (e.g. "stripe").
	Name() string

	// ExtractEventType locates the provider-specific event type field.
	// ok is false when the field is absent or the value is not a recognized
	// event type for this provider.
	ExtractEventType(payload Payload) (eventType string, ok bool)

	// VerifyEventType reports whether the event type is known to this
	// provider and a mapping expression exists for it. Idempotent and
	// side-effect free.
	VerifyEventType(eventType string) bool

	// ValidatePayload performs structural validation independent of the
	// event type. It returns the first violation encountered (never an
	// aggregate) so error reporting stays deterministic, or nil when the
	// payload is structurally valid.
	ValidatePayload(payload Payload) error

	// MappingExpression returns the mapping expression text registered for
	// the event type. ok is false when no expression exists for this
	// (provider, eventType) pair.
	MappingExpression(eventType string) (expression string, ok bool)
}

// PreProcessor is an optional mapper capability applied before extraction and
// mapping. Mappers that do not implement it have their payloads passed
// through unchanged.
type PreProcessor interface {
	PreProcess(payload Payload) Payload
}

// PostProcessor is an optional mapper capability applied after mapping to
// enforce final record invariants (currency case, numeric amount). Mappers
// that do not implement it have the mapped result returned as-is.
type PostProcessor interface {
	PostProcess(result Record) (Record, error)
}
