package audit

import (
	"context"
	"encoding/json"
	"fmt"
)

// RecordPublisher writes one keyed record. Satisfied by the platform kafka producer.
type RecordPublisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// KafkaStore appends events to a topic as JSON, keyed by land id when present
// and by subject otherwise, so one record's history stays in one partition.
type KafkaStore struct {
	producer RecordPublisher
}

func NewKafkaStore(producer RecordPublisher) *KafkaStore {
	return &KafkaStore{producer: producer}
}

func (s *KafkaStore) Append(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	key := event.LandID
	if key == "" {
		key = event.Subject
	}
	return s.producer.Publish(ctx, key, value)
}
