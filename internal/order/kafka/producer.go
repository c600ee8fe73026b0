package kafka

import (
	"context"
	"strconv"

	"ms-airport/internal/kafka"
	"ms-airport/internal/models"

	"github.com/google/uuid"
)

// NewOrderCreatedEvent describes a committed order for downstream consumers.
func NewOrderCreatedEvent(order models.Order) models.OrderCreatedEvent {
	event := models.OrderCreatedEvent{
		EventID:   uuid.NewString(),
		OrderID:   order.ID,
		UserID:    order.UserID,
		CreatedAt: order.CreatedAt,
		Tickets:   make([]models.OrderEventTicket, 0, len(order.Tickets)),
	}
	for _, t := range order.Tickets {
		event.Tickets = append(event.Tickets, models.OrderEventTicket{
			TicketID: t.ID,
			FlightID: t.FlightID,
			Row:      t.Row,
			Seat:     t.Seat,
		})
	}
	return event
}

type Producer struct {
	Producer *kafka.Producer
}

func NewProducer(producer *kafka.Producer) *Producer {
	return &Producer{Producer: producer}
}

// PublishOrderCreated streams the order event to Kafka, keyed by order id.
func (p *Producer) PublishOrderCreated(ctx context.Context, order models.Order) error {
	return p.Producer.PublishJSON(ctx, strconv.FormatInt(order.ID, 10), NewOrderCreatedEvent(order))
}

// LocalPublisher hands order events to an in-process handler when Kafka is disabled.
type LocalPublisher struct {
	Handle func(ctx context.Context, event models.OrderCreatedEvent) error
}

func (p LocalPublisher) PublishOrderCreated(ctx context.Context, order models.Order) error {
	if p.Handle == nil {
		return nil
	}
	return p.Handle(ctx, NewOrderCreatedEvent(order))
}
