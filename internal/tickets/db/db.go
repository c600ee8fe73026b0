package db

import (
	"context"
	"fmt"

	"ms-airport/internal/database"
	"ms-airport/internal/domain"
	"ms-airport/internal/models"
	"ms-airport/internal/tickets"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

type flightLayout struct {
	FlightID   int64 `bun:"flight_id"`
	Rows       int   `bun:"rows"`
	SeatsInRow int   `bun:"seats_in_row"`
}

// SeatLayouts returns the airplane grid of every existing flight among flightIDs.
// Unknown flights are absent from the result.
func SeatLayouts(ctx context.Context, idb bun.IDB, flightIDs []int64) (map[int64]models.SeatLayout, error) {
	out := make(map[int64]models.SeatLayout, len(flightIDs))
	if len(flightIDs) == 0 {
		return out, nil
	}

	var rows []flightLayout
	err := idb.NewSelect().
		TableExpr("flights AS f").
		Join("JOIN airplanes AS ap ON ap.id = f.airplane_id").
		ColumnExpr("f.id AS flight_id").
		ColumnExpr(`ap."rows" AS "rows"`).
		ColumnExpr(`ap."seats_in_row" AS "seats_in_row"`).
		Where("f.id IN (?)", bun.In(flightIDs)).
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("load seat layouts: %w", err)
	}
	for _, r := range rows {
		out[r.FlightID] = models.SeatLayout{Rows: r.Rows, SeatsInRow: r.SeatsInRow}
	}
	return out, nil
}

// InsertTicket validates t against layout and stores it. Every ticket write
// goes through here, so the range check holds even for callers that skipped
// request validation. A claimed seat surfaces as domain.SeatTakenError.
func InsertTicket(ctx context.Context, idb bun.IDB, t *models.Ticket, layout models.SeatLayout) error {
	if fields := tickets.ValidateTicket(t.Row, t.Seat, layout); len(fields) > 0 {
		return domain.NewValidationError(fields...)
	}

	if _, err := idb.NewInsert().Model(t).Returning("id").Exec(ctx); err != nil {
		if database.IsUniqueViolation(err) {
			return domain.SeatTakenError{Row: t.Row, Seat: t.Seat, FlightID: t.FlightID}
		}
		return fmt.Errorf("insert ticket (%d, %d) of flight %d: %w", t.Row, t.Seat, t.FlightID, err)
	}
	return nil
}

// FlightExists reports whether the flight is stored.
func (d *DB) FlightExists(ctx context.Context, flightID int64) (bool, error) {
	return d.Bun.NewSelect().Model((*models.Flight)(nil)).Where("?TableAlias.id = ?", flightID).Exists(ctx)
}
