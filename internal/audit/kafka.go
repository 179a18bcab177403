package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"chargeback-gateway/internal/platform/kafka"
)

// KafkaStore appends audit events to a Kafka topic. Records are keyed by
// merchant id so a merchant's trail stays ordered within a partition.
type KafkaStore struct {
	producer *kafka.Producer
}

func NewKafkaStore(producer *kafka.Producer) *KafkaStore {
	return &KafkaStore{producer: producer}
}

func (s *KafkaStore) Append(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	return s.producer.Produce(ctx, []byte(event.MerchantID), value)
}
