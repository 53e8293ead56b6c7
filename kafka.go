package bridge

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/feedmill/mdbridge/book"
)

// KafkaPublisher ships built messages to a Kafka topic, keyed by symbol so a
// single instrument's updates stay ordered within one partition.
type KafkaPublisher struct {
	writer     *kafka.Writer
	serializer Serializer
	timeout    time.Duration
}

// NewKafkaPublisher creates a publisher for the given brokers and topic.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
		},
		serializer: JSONSerializer{},
		timeout:    5 * time.Second,
	}
}

// Publish serializes and writes the messages. Failures are logged and the
// remaining messages still go out; a lost delta never takes down the bridge.
func (p *KafkaPublisher) Publish(msgs ...*book.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	records := make([]kafka.Message, 0, len(msgs))
	for _, msg := range msgs {
		payload, err := p.serializer.Marshal(msg)
		if err != nil {
			logger.Error("failed to serialize message", "symbol", msg.Symbol, "error", err)
			continue
		}
		records = append(records, kafka.Message{
			Key:   []byte(msg.Symbol),
			Value: payload,
		})
	}
	if len(records) == 0 {
		return
	}

	if err := p.writer.WriteMessages(ctx, records...); err != nil {
		logger.Error("failed to publish messages", "count", len(records), "error", err)
	}
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
