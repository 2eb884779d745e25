//go:build integration

package relay_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"secreg/pkg/platform/events"
	"secreg/pkg/platform/events/relay"
	"secreg/pkg/platform/events/store/memory"
	"secreg/pkg/testutil/containers"
)

type KafkaRelaySuite struct {
	suite.Suite
	broker string
	topic  string
	client *kgo.Client
}

func TestKafkaRelaySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaRelaySuite))
}

func (s *KafkaRelaySuite) SetupSuite() {
	s.broker = containers.GetManager().GetRedpanda(s.T()).Broker
}

func (s *KafkaRelaySuite) SetupTest() {
	s.topic = "secreg-test-" + uuid.NewString()
	var err error
	s.client, err = kgo.NewClient(kgo.SeedBrokers(s.broker))
	s.Require().NoError(err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.Require().NoError(relay.EnsureTopic(ctx, kadm.NewClient(s.client), s.topic, 1, 1))
	// second call is a no-op
	s.Require().NoError(relay.EnsureTopic(ctx, kadm.NewClient(s.client), s.topic, 1, 1))
}

func (s *KafkaRelaySuite) TearDownTest() {
	s.client.Close()
}

func (s *KafkaRelaySuite) TestFlushDeliversOutboxToTopic() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	outbox := memory.NewInMemoryStore()
	for _, typ := range []events.Type{"VerificationTaskCreated", "TaskValidated", "TaskUpdated"} {
		_, err := outbox.Append(ctx, events.Event{
			ID: uuid.New(), Type: typ, Subject: "task:0", Timestamp: time.Now().UTC(), Payload: json.RawMessage(`{}`),
		})
		s.Require().NoError(err)
	}

	r, err := relay.New(outbox, []relay.Destination{relay.NewKafkaDestination(s.client, s.topic)})
	s.Require().NoError(err)
	n, err := r.Flush(ctx)
	s.Require().NoError(err)
	s.Equal(3, n)

	pending, err := outbox.FetchUnpublished(ctx, 10)
	s.Require().NoError(err)
	s.Empty(pending)

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.broker),
		kgo.ConsumeTopics(s.topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	var got []events.Event
	for len(got) < 3 {
		fetches := consumer.PollFetches(ctx)
		s.Require().NoError(ctx.Err())
		fetches.EachRecord(func(rec *kgo.Record) {
			var e events.Event
			s.Require().NoError(json.Unmarshal(rec.Value, &e))
			s.Equal("task:0", string(rec.Key))
			got = append(got, e)
		})
	}
	s.Equal(events.Type("VerificationTaskCreated"), got[0].Type)
	s.Equal(events.Type("TaskUpdated"), got[2].Type)
	s.Less(got[0].Seq, got[2].Seq)
}
