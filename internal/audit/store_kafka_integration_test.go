//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"landchain/internal/audit"
	"landchain/internal/platform/kafka"
	"landchain/pkg/testutil/containers"
)

const topic = "landchain.audit.test"

type KafkaStoreSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
	producer *kafka.Producer
}

func TestKafkaStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaStoreSuite))
}

func (s *KafkaStoreSuite) SetupSuite() {
	s.redpanda = containers.GetManager().GetRedpanda(s.T())
	s.redpanda.CreateTopic(s.T(), topic)

	producer, err := kafka.NewProducer([]string{s.redpanda.Broker}, topic)
	s.Require().NoError(err)
	s.producer = producer
}

func (s *KafkaStoreSuite) TearDownSuite() {
	if s.producer != nil {
		s.producer.Close()
	}
}

func (s *KafkaStoreSuite) TestEventsReachTheTopic() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.Require().NoError(s.producer.Health(ctx))

	publisher := audit.NewPublisher(audit.NewKafkaStore(s.producer), nil)
	s.Require().NoError(publisher.Emit(ctx, audit.Event{
		Action:  audit.ActionLandVerified,
		Subject: "vera@example.com",
		LandID:  "land-1",
		TxHash:  "0xverify",
	}))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	s.Require().NoError(fetches.Err())

	var got []audit.Event
	fetches.EachRecord(func(r *kgo.Record) {
		s.Equal("land-1", string(r.Key))
		var event audit.Event
		s.Require().NoError(json.Unmarshal(r.Value, &event))
		got = append(got, event)
	})
	s.Require().NotEmpty(got)
	s.Equal(audit.ActionLandVerified, got[0].Action)
	s.Equal("0xverify", got[0].TxHash)
	s.False(got[0].Timestamp.IsZero())
}
