package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() Record {
	return Record{
		"transaction_id": "ch_1",
		"reason":         "fraudulent",
		"currency":       "USD",
		"amount":         5000.0,
		"provider":       "stripe",
	}
}

func TestDecodeChargeback(t *testing.T) {
	t.Run("decodes a complete record", func(t *testing.T) {
		cb, err := DecodeChargeback(validRecord())
		require.NoError(t, err)
		assert.Equal(t, "ch_1", cb.TransactionID)
		assert.Equal(t, "fraudulent", cb.Reason)
		assert.Equal(t, "USD", cb.Currency)
		assert.Equal(t, 5000.0, cb.Amount)
		assert.Equal(t, "stripe", cb.Provider)
	})

	t.Run("provider is optional", func(t *testing.T) {
		r := validRecord()
		delete(r, "provider")
		cb, err := DecodeChargeback(r)
		require.NoError(t, err)
		assert.Empty(t, cb.Provider)
	})

	t.Run("missing required fields fail", func(t *testing.T) {
		for _, field := range []string{"transaction_id", "reason", "currency", "amount"} {
			r := validRecord()
			delete(r, field)
			_, err := DecodeChargeback(r)
			assert.Error(t, err, field)
		}
	})

	t.Run("empty string fields fail", func(t *testing.T) {
		r := validRecord()
		r["reason"] = ""
		_, err := DecodeChargeback(r)
		assert.Error(t, err)
	})

	t.Run("non-numeric amount fails", func(t *testing.T) {
		r := validRecord()
		r["amount"] = "5000"
		_, err := DecodeChargeback(r)
		assert.Error(t, err)
	})
}
