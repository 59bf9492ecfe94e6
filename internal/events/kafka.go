package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/dtroode/certledger/internal/model"
)

const headerEventName = "event"

type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

var _ model.EventPublisher = (*Kafka)(nil)

// Kafka publishes events as JSON records keyed by student id, so all
// events of one student land on the same partition in order.
type Kafka struct {
	client producer
	topic  string
}

// NewKafka connects a producer to the given brokers.
func NewKafka(brokers []string, topic string) (*Kafka, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}
	return newKafkaWithProducer(client, topic), nil
}

func newKafkaWithProducer(client producer, topic string) *Kafka {
	return &Kafka{client: client, topic: topic}
}

func (k *Kafka) PublishCertificateIssued(ctx context.Context, event model.CertificateIssued) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(event.StudentID),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: headerEventName, Value: []byte(model.EventCertificateIssued)},
		},
	}

	if err := k.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("failed to publish %s: %w", model.EventCertificateIssued, err)
	}
	return nil
}

// Close releases the client connections.
func (k *Kafka) Close() {
	k.client.Close()
}
