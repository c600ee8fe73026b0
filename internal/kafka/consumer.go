package kafka

import (
	"context"
	"errors"
	"fmt"

	"ms-airport/internal/logger"

	"github.com/segmentio/kafka-go"
)

// MessageReader is the part of *kafka.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Handler processes one message. A returned error is logged and the message
// is still committed, so a poison message cannot block the partition.
type Handler func(ctx context.Context, msg kafka.Message) error

type Consumer struct {
	Reader MessageReader
	Topic  string
	Logger *logger.Logger
}

// NewConsumer creates a new Kafka consumer for the given topic and group
func NewConsumer(brokers []string, topic, groupID string, log *logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{Reader: reader, Topic: topic, Logger: log}
}

// Start consumes until ctx is cancelled or the reader is closed.
func (c *Consumer) Start(ctx context.Context, handle Handler) error {
	c.Logger.LogKafka("CONSUME", c.Topic, "consumer started")

	for {
		msg, err := c.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				c.Logger.LogKafka("CONSUME", c.Topic, "consumer stopped")
				return nil
			}
			return fmt.Errorf("fetch from %s: %w", c.Topic, err)
		}

		if err := handle(ctx, msg); err != nil {
			c.Logger.Error("KAFKA", fmt.Sprintf("%s offset %d: %v", c.Topic, msg.Offset, err))
		}

		if err := c.Reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("commit %s offset %d: %w", c.Topic, msg.Offset, err)
		}
	}
}

// Close gracefully shuts down the Kafka reader
func (c *Consumer) Close() error {
	return c.Reader.Close()
}
