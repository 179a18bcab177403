// Package engine evaluates declarative JSONata mapping expressions against
// webhook payloads. It is a pure interpreter over (expression, payload) with
// no state, so a single Engine serves all providers and requests.
//
// The dialect (path navigation, $uppercase, literal injection, object
// constructors) is treated as an external format owned by the mappers; the
// engine only compiles and runs it.
package engine

import (
	"errors"

	jsonata "github.com/blues/jsonata-go"

	"chargeback-gateway/internal/webhook"
)

// Engine compiles and evaluates mapping expressions.
type Engine struct{}

// New returns a stateless expression engine.
func New() *Engine {
	return &Engine{}
}

// Evaluate runs the expression against the payload. All three failure modes
// surface as mapping-execution errors whose messages distinguish the phase:
// compile failure, evaluation failure, and an empty (null/undefined) result.
// An empty result is never valid output even where the dialect would permit
// it, because the pipeline has nothing to hand downstream.
func (e *Engine) Evaluate(expression string, payload webhook.Payload) (any, error) {
	compiled, err := jsonata.Compile(expression)
	if err != nil {
		return nil, webhook.NewMappingExecution("failed to compile mapping expression: "+err.Error(), err)
	}

	result, err := compiled.Eval(payload)
	if err != nil {
		if errors.Is(err, jsonata.ErrUndefined) {
			return nil, webhook.NewMappingExecution(
				"mapping expression returned no result; check that the expression matches the payload structure", err)
		}
		return nil, webhook.NewMappingExecution("failed to evaluate mapping expression: "+err.Error(), err)
	}
	if result == nil {
		return nil, webhook.NewMappingExecution(
			"mapping expression returned no result; check that the expression matches the payload structure", nil)
	}

	return result, nil
}
