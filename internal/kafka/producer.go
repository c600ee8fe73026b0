package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ms-airport/internal/logger"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// publishBatchTimeout caps how long a single order event waits in the writer's
// batch; kafka-go defaults to one second.
const publishBatchTimeout = 10 * time.Millisecond

type Producer struct {
	Writer MessageWriter
	Topic  string
	Logger *logger.Logger
}

// NewProducer writes to topic with hash balancing, so messages sharing a key keep their order.
func NewProducer(brokers []string, topic string, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           publishBatchTimeout,
	}
	return &Producer{Writer: writer, Topic: topic, Logger: log}
}

// PublishJSON encodes value as JSON and writes it under key.
func (p *Producer) PublishJSON(ctx context.Context, key string, value interface{}) error {
	msgBytes, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s message: %w", p.Topic, err)
	}

	if err := p.Writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: msgBytes}); err != nil {
		return fmt.Errorf("publish to %s: %w", p.Topic, err)
	}
	p.Logger.LogKafka("PUBLISH", p.Topic, fmt.Sprintf("key=%s bytes=%d", key, len(msgBytes)))
	return nil
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
