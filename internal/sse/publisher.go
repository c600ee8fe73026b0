package sse

import (
	"context"

	"ms-airport/internal/models"
)

// OrderPublisher is the order-created sink wrapped by Publisher.
type OrderPublisher interface {
	PublishOrderCreated(ctx context.Context, order models.Order) error
}

// Publisher pushes the seats of a committed order to SSE clients before
// handing the order to Next.
type Publisher struct {
	Next    OrderPublisher
	Emitter *SeatEventEmitter
}

func (p Publisher) PublishOrderCreated(ctx context.Context, order models.Order) error {
	p.Emitter.EmitOrder(order)
	if p.Next == nil {
		return nil
	}
	return p.Next.PublishOrderCreated(ctx, order)
}
