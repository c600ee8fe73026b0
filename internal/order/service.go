package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ms-airport/internal/domain"
	"ms-airport/internal/logger"
	"ms-airport/internal/models"
	"ms-airport/internal/tickets"
	"ms-airport/internal/utils"
)

type DBLayer interface {
	SeatLayouts(ctx context.Context, flightIDs []int64) (map[int64]models.SeatLayout, error)
	CreateOrderWithTickets(ctx context.Context, o *models.Order) error
	ListOrdersByUser(ctx context.Context, userID string, o utils.Ordering) ([]models.Order, error)
	GetOrderForUser(ctx context.Context, userID string, id int64) (*models.Order, error)
}

// IdempotencyGuard deduplicates retried order submissions sharing an Idempotency-Key.
type IdempotencyGuard interface {
	Claim(ctx context.Context, userID, key string) (models.IdempotencyClaim, error)
	Complete(ctx context.Context, userID, key, token string, orderID int64) error
	Release(ctx context.Context, userID, key, token string) error
}

type KafkaPublisher interface {
	PublishOrderCreated(ctx context.Context, order models.Order) error
}

var (
	DefaultOrdering = utils.Ordering{Column: "created_at"}
	Orderings       = map[string]string{"id": "id", "created_at": "created_at"}
)

type OrderService struct {
	DB          DBLayer
	Idempotency IdempotencyGuard
	Kafka       KafkaPublisher
	Logger      *logger.Logger
	now         func() time.Time
}

// NewOrderService wires the order flow. idem may be nil, which disables Idempotency-Key handling.
func NewOrderService(db DBLayer, idem IdempotencyGuard, kafka KafkaPublisher, log *logger.Logger) *OrderService {
	return &OrderService{DB: db, Idempotency: idem, Kafka: kafka, Logger: log, now: time.Now}
}

// ---------------- ORDERS ----------------

func (s *OrderService) ListOrders(ctx context.Context, userID string, o utils.Ordering) ([]models.Order, error) {
	return s.DB.ListOrdersByUser(ctx, userID, o)
}

func (s *OrderService) GetOrder(ctx context.Context, userID string, id int64) (*models.Order, error) {
	return s.DB.GetOrderForUser(ctx, userID, id)
}

// GetTicket returns a ticket of an order owned by userID.
func (s *OrderService) GetTicket(ctx context.Context, userID string, orderID, ticketID int64) (*models.Order, *models.Ticket, error) {
	order, err := s.DB.GetOrderForUser(ctx, userID, orderID)
	if err != nil {
		return nil, nil, err
	}
	for i := range order.Tickets {
		if order.Tickets[i].ID == ticketID {
			return order, &order.Tickets[i], nil
		}
	}
	return nil, nil, domain.NotFound("ticket", ticketID)
}

// CreateOrder places an order for userID. created is false when the order was
// already placed under the same Idempotency-Key and is being replayed.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, req models.OrderRequest) (order *models.Order, created bool, err error) {
	if len(req.Tickets) == 0 {
		return nil, false, domain.ErrEmptyTicketSet
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	if key != "" && s.Idempotency != nil {
		claim, cerr := s.Idempotency.Claim(ctx, userID, key)
		switch {
		case cerr != nil:
			// Same as running without Redis: the order goes through unguarded.
			s.Logger.Warn("ORDER", fmt.Sprintf("idempotency store unavailable, ignoring Idempotency-Key %q: %v", key, cerr))
		case !claim.Acquired:
			if claim.OrderID == 0 {
				return nil, false, domain.ConflictError{Resource: "order", Msg: "a request with this Idempotency-Key is still in progress"}
			}
			s.Logger.LogOrder("REPLAY", claim.OrderID, fmt.Sprintf("Idempotency-Key %q", key))
			order, err := s.DB.GetOrderForUser(ctx, userID, claim.OrderID)
			return order, false, err
		default:
			defer func() {
				if err != nil {
					if rerr := s.Idempotency.Release(context.WithoutCancel(ctx), userID, key, claim.Token); rerr != nil {
						s.Logger.Warn("ORDER", fmt.Sprintf("release idempotency key: %v", rerr))
					}
					return
				}
				if cerr := s.Idempotency.Complete(context.WithoutCancel(ctx), userID, key, claim.Token, order.ID); cerr != nil {
					s.Logger.Warn("ORDER", fmt.Sprintf("complete idempotency key for order %d: %v", order.ID, cerr))
				}
			}()
		}
	}

	if err := s.validateTickets(ctx, req.Tickets); err != nil {
		return nil, false, err
	}

	o := &models.Order{
		UserID:    userID,
		CreatedAt: s.now().UTC(),
		Tickets:   make([]models.Ticket, 0, len(req.Tickets)),
	}
	for _, t := range req.Tickets {
		o.Tickets = append(o.Tickets, models.Ticket{Row: t.Row, Seat: t.Seat, FlightID: t.FlightID})
	}

	if err := s.DB.CreateOrderWithTickets(ctx, o); err != nil {
		if domain.IsSeatTaken(err) || domain.IsTicketErrors(err) {
			s.Logger.Info("ORDER", fmt.Sprintf("order of %s rejected: %v", userID, err))
		}
		return nil, false, err
	}
	s.Logger.LogOrder("CREATE", o.ID, fmt.Sprintf("user=%s tickets=%d", userID, len(o.Tickets)))

	if s.Kafka != nil {
		if err := s.Kafka.PublishOrderCreated(ctx, *o); err != nil {
			s.Logger.Error("ORDER", fmt.Sprintf("publish order %d created: %v", o.ID, err))
		}
	}
	return o, true, nil
}

// validateTickets checks every requested ticket against its flight's layout
// and reports all failures together.
func (s *OrderService) validateTickets(ctx context.Context, reqs []models.TicketRequest) error {
	ids := make([]int64, 0, len(reqs))
	for _, t := range reqs {
		ids = append(ids, t.FlightID)
	}
	layouts, err := s.DB.SeatLayouts(ctx, ids)
	if err != nil {
		return err
	}

	var errs domain.TicketErrors
	for i, t := range reqs {
		layout, ok := layouts[t.FlightID]
		if !ok {
			errs = append(errs, domain.InvalidTicketError{
				Index:   i,
				Field:   "flight",
				Message: fmt.Sprintf("invalid pk %q - object does not exist", fmt.Sprint(t.FlightID)),
			})
			continue
		}
		errs = append(errs, domain.TicketErrorsAt(i, tickets.ValidateTicket(t.Row, t.Seat, layout))...)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
