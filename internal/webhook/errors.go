package webhook

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies a member of the closed error taxonomy. The pipeline raises
// the first applicable kind and halts; it never aggregates violations.
type Kind string

const (
	KindProviderNotFound   Kind = "provider_not_found"
	KindEventTypeNotFound  Kind = "event_type_not_found"
	KindExpressionNotFound Kind = "mapping_expression_not_found"
	KindPayloadValidation  Kind = "payload_validation"
	KindMappingExecution   Kind = "mapping_execution"
	KindInternal           Kind = "internal"
)

// Category is the coarse error class reported in error response bodies. The
// boundary layer maps categories to HTTP statuses; the core never does.
type Category string

const (
	CategoryProvider   Category = "ProviderError"
	CategoryValidation Category = "ValidationError"
	CategoryMapping    Category = "MappingError"
	CategoryInternal   Category = "InternalError"
)

// Category returns the response category for the kind.
func (k Kind) Category() Category {
	switch k {
	case KindProviderNotFound:
		return CategoryProvider
	case KindEventTypeNotFound, KindExpressionNotFound, KindPayloadValidation:
		return CategoryValidation
	case KindMappingExecution:
		return CategoryMapping
	}
	return CategoryInternal
}

// Detail is a single machine-readable note attached to an error, optionally
// naming the offending field.
type Detail struct {
	Field string `json:"field,omitempty"`
	Issue string `json:"issue"`
}

// Error is a taxonomy entry raised by the pipeline.
type Error struct {
	Kind    Kind
	Message string
	Details []Detail
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NewProviderNotFound reports a registry lookup miss. The supported provider
// list is attached as a detail so callers can self-correct.
func NewProviderNotFound(provider string, supported []string) *Error {
	e := &Error{
		Kind:    KindProviderNotFound,
		Message: fmt.Sprintf("provider %q is not supported", provider),
	}
	if len(supported) > 0 {
		e.Details = []Detail{{Issue: "supported providers: " + strings.Join(supported, ", ")}}
	}
	return e
}

// NewEventTypeNotFound reports a missing or unsupported event type.
func NewEventTypeNotFound(eventType, provider string) *Error {
	return &Error{
		Kind:    KindEventTypeNotFound,
		Message: fmt.Sprintf("event type %q not found in payload or not supported for provider %q", eventType, provider),
	}
}

// NewExpressionNotFound reports a recognized event type with no registered
// mapping expression. Distinct from NewEventTypeNotFound.
func NewExpressionNotFound(eventType, provider string) *Error {
	return &Error{
		Kind:    KindExpressionNotFound,
		Message: fmt.Sprintf("no mapping expression found for event type %q in provider %q", eventType, provider),
	}
}

// NewPayloadValidation reports the first structural violation found in a
// payload.
func NewPayloadValidation(message string, details ...Detail) *Error {
	return &Error{
		Kind:    KindPayloadValidation,
		Message: message,
		Details: details,
	}
}

// NewMappingExecution reports a mapping expression failure: compile error,
// evaluation error, or an empty result. The phase is carried in the message.
func NewMappingExecution(message string, cause error) *Error {
	return &Error{
		Kind:    KindMappingExecution,
		Message: "mapping execution failed: " + message,
		cause:   cause,
	}
}

// Classify returns err as a taxonomy entry, wrapping anything unrecognized as
// an internal error so every failure leaving the pipeline has a kind.
func Classify(err error) *Error {
	var werr *Error
	if errors.As(err, &werr) {
		return werr
	}
	return &Error{
		Kind:    KindInternal,
		Message: "an unexpected error occurred",
		cause:   err,
	}
}
