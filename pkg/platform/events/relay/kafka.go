package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"secreg/pkg/platform/events"
)

// KafkaDestination produces each event as one record keyed by its subject, so all
// events of one task or principal land on the same partition in order.
type KafkaDestination struct {
	client *kgo.Client
	topic  string
}

func NewKafkaDestination(client *kgo.Client, topic string) *KafkaDestination {
	return &KafkaDestination{client: client, topic: topic}
}

func (d *KafkaDestination) Name() string { return "kafka:" + d.topic }

func (d *KafkaDestination) Publish(ctx context.Context, batch []events.Event) error {
	records := make([]*kgo.Record, 0, len(batch))
	for _, e := range batch {
		value, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal event %d: %w", e.Seq, err)
		}
		records = append(records, &kgo.Record{
			Topic: d.topic,
			Key:   []byte(e.Subject),
			Value: value,
			Headers: []kgo.RecordHeader{
				{Key: "event_type", Value: []byte(e.Type)},
				{Key: "event_id", Value: []byte(e.ID.String())},
			},
		})
	}
	return d.client.ProduceSync(ctx, records...).FirstErr()
}

// EnsureTopic creates the topic if it does not exist yet.
func EnsureTopic(ctx context.Context, admin *kadm.Client, topic string, partitions int32, replicationFactor int16) error {
	resp, err := admin.CreateTopic(ctx, partitions, replicationFactor, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", topic, resp.Err)
	}
	return nil
}
