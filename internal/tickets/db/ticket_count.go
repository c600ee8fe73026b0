package db

import (
	"context"
	"fmt"
	"time"

	"ms-airport/internal/database"
	"ms-airport/internal/models"
)

// IncrementTicketCount adds n to the counter of flightID for the UTC day of at.
// The counter row is created on first use; a concurrent creator is resolved by
// retrying the update.
func (d *DB) IncrementTicketCount(ctx context.Context, flightID int64, at time.Time, n int) error {
	date := Day(at)

	for attempt := 0; attempt < 2; attempt++ {
		res, err := d.Bun.NewUpdate().
			Model((*models.TicketCount)(nil)).
			Set(`"count" = "count" + ?`, n).
			Where("flight_id = ?", flightID).
			Where(`"date" = ?`, date).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("increment ticket count of flight %d: %w", flightID, err)
		}
		if affected, err := res.RowsAffected(); err != nil {
			return err
		} else if affected > 0 {
			return nil
		}

		count := models.TicketCount{FlightID: flightID, Date: date, Count: n}
		_, err = d.Bun.NewInsert().Model(&count).Exec(ctx)
		if err == nil {
			return nil
		}
		if !database.IsUniqueViolation(err) {
			return fmt.Errorf("create ticket count of flight %d: %w", flightID, err)
		}
	}
	return fmt.Errorf("increment ticket count of flight %d: counter kept changing", flightID)
}

// GetTicketCountsForFlight returns the daily counters of a flight, oldest first.
func (d *DB) GetTicketCountsForFlight(ctx context.Context, flightID int64) ([]models.TicketCount, error) {
	counts := []models.TicketCount{}
	err := d.Bun.NewSelect().
		Model(&counts).
		Where("flight_id = ?", flightID).
		OrderExpr(`"date" ASC`).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("ticket counts of flight %d: %w", flightID, err)
	}
	return counts, nil
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
