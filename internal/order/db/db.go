package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ms-airport/internal/domain"
	"ms-airport/internal/models"
	ticketsdb "ms-airport/internal/tickets/db"
	"ms-airport/internal/utils"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) SeatLayouts(ctx context.Context, flightIDs []int64) (map[int64]models.SeatLayout, error) {
	return ticketsdb.SeatLayouts(ctx, d.Bun, flightIDs)
}

// CreateOrderWithTickets stores o and every ticket of o.Tickets in one
// transaction. Tickets are checked and inserted in the given order and the
// first failure rolls back the order and every ticket inserted before it.
// Invalid tickets come back as domain.TicketErrors, claimed seats as
// domain.SeatTakenError.
func (d *DB) CreateOrderWithTickets(ctx context.Context, o *models.Order) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(o).Returning("id").Exec(ctx); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		flightIDs := make([]int64, 0, len(o.Tickets))
		for _, t := range o.Tickets {
			flightIDs = append(flightIDs, t.FlightID)
		}
		layouts, err := ticketsdb.SeatLayouts(ctx, tx, flightIDs)
		if err != nil {
			return err
		}

		for i := range o.Tickets {
			t := &o.Tickets[i]
			t.OrderID = o.ID

			layout, ok := layouts[t.FlightID]
			if !ok {
				return domain.TicketErrors{{Index: i, Field: "flight", Message: fmt.Sprintf("invalid pk %q - object does not exist", fmt.Sprint(t.FlightID))}}
			}

			err := ticketsdb.InsertTicket(ctx, tx, t, layout)
			var verr domain.ValidationError
			switch {
			case errors.As(err, &verr):
				return domain.TicketErrorsAt(i, verr.Fields)
			case err != nil:
				return err
			}
		}
		return nil
	})
}

// ListOrdersByUser returns the orders of userID with their tickets.
func (d *DB) ListOrdersByUser(ctx context.Context, userID string, o utils.Ordering) ([]models.Order, error) {
	orders := []models.Order{}
	q := d.Bun.NewSelect().
		Model(&orders).
		Relation("Tickets", orderTickets).
		Where("?TableAlias.user_id = ?", userID)
	if err := o.Apply(q).Scan(ctx); err != nil {
		return nil, fmt.Errorf("list orders of %s: %w", userID, err)
	}
	return orders, nil
}

// GetOrderForUser returns the order only when userID owns it.
func (d *DB) GetOrderForUser(ctx context.Context, userID string, id int64) (*models.Order, error) {
	var order models.Order
	err := d.Bun.NewSelect().
		Model(&order).
		Relation("Tickets", orderTickets).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.user_id = ?", userID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("order", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return &order, nil
}

func orderTickets(q *bun.SelectQuery) *bun.SelectQuery {
	return q.OrderExpr("?TableAlias.id ASC")
}
