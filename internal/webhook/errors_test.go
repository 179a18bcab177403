package webhook

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindCategory(t *testing.T) {
	assert.Equal(t, CategoryProvider, KindProviderNotFound.Category())
	assert.Equal(t, CategoryValidation, KindEventTypeNotFound.Category())
	assert.Equal(t, CategoryValidation, KindExpressionNotFound.Category())
	assert.Equal(t, CategoryValidation, KindPayloadValidation.Category())
	assert.Equal(t, CategoryMapping, KindMappingExecution.Category())
	assert.Equal(t, CategoryInternal, KindInternal.Category())
}

func TestClassify(t *testing.T) {
	t.Run("taxonomy errors pass through", func(t *testing.T) {
		orig := NewPayloadValidation("bad payload")
		classified := Classify(orig)
		assert.Same(t, orig, classified)
	})

	t.Run("wrapped taxonomy errors unwrap", func(t *testing.T) {
		orig := NewEventTypeNotFound("x", "stripe")
		classified := Classify(errors.Join(orig, errors.New("context")))
		assert.Same(t, orig, classified)
	})

	t.Run("unknown errors become internal", func(t *testing.T) {
		cause := errors.New("boom")
		classified := Classify(cause)
		require.Equal(t, KindInternal, classified.Kind)
		assert.Equal(t, "an unexpected error occurred", classified.Message)
		assert.ErrorIs(t, classified, cause)
	})
}

func TestMappingExecutionUnwrap(t *testing.T) {
	cause := errors.New("compile failed")
	err := NewMappingExecution("failed to compile mapping expression: compile failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "mapping execution failed")
}
