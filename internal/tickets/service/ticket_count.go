package tickets

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ms-airport/internal/domain"
	"ms-airport/internal/logger"
	"ms-airport/internal/models"

	"github.com/segmentio/kafka-go"
)

// TicketCountDBLayer represents the interface for ticket count database operations
type TicketCountDBLayer interface {
	IncrementTicketCount(ctx context.Context, flightID int64, at time.Time, n int) error
	GetTicketCountsForFlight(ctx context.Context, flightID int64) ([]models.TicketCount, error)
	FlightExists(ctx context.Context, flightID int64) (bool, error)
}

// TicketCountService keeps daily per-flight sales counters fed by order-created events.
type TicketCountService struct {
	DB     TicketCountDBLayer
	Logger *logger.Logger
}

func NewTicketCountService(db TicketCountDBLayer, log *logger.Logger) *TicketCountService {
	return &TicketCountService{DB: db, Logger: log}
}

// HandleOrderCreated adds the tickets of one order to the counters of their
// flights, dated by the order's creation time. Redelivered events are counted again.
func (s *TicketCountService) HandleOrderCreated(ctx context.Context, event models.OrderCreatedEvent) error {
	perFlight := make(map[int64]int)
	var order []int64
	for _, t := range event.Tickets {
		if _, seen := perFlight[t.FlightID]; !seen {
			order = append(order, t.FlightID)
		}
		perFlight[t.FlightID]++
	}

	for _, flightID := range order {
		if err := s.DB.IncrementTicketCount(ctx, flightID, event.CreatedAt, perFlight[flightID]); err != nil {
			return fmt.Errorf("order %d: %w", event.OrderID, err)
		}
	}
	s.Logger.Debug("STATS", fmt.Sprintf("order %d counted on %d flights", event.OrderID, len(order)))
	return nil
}

// HandleMessage decodes an order-created message and counts it.
func (s *TicketCountService) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var event models.OrderCreatedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		s.Logger.Error("STATS", fmt.Sprintf("Malformed order event at offset %d: %v", msg.Offset, err))
		return fmt.Errorf("decode order event: %w", err)
	}
	return s.HandleOrderCreated(ctx, event)
}

// SalesForFlight returns the daily counters of an existing flight.
func (s *TicketCountService) SalesForFlight(ctx context.Context, flightID int64) ([]models.TicketCount, error) {
	ok, err := s.DB.FlightExists(ctx, flightID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NotFound("flight", flightID)
	}
	return s.DB.GetTicketCountsForFlight(ctx, flightID)
}
