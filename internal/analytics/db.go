package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// DB handles analytics database operations
type DB struct {
	bun bun.IDB
}

// NewDB creates a new analytics DB handler
func NewDB(db bun.IDB) *DB {
	return &DB{bun: db}
}

// FlightLoadData is the raw seat usage of one flight.
type FlightLoadData struct {
	FlightID      int64     `bun:"flight_id"`
	RouteID       int64     `bun:"route_id"`
	DepartureTime time.Time `bun:"departure_time"`
	Capacity      int       `bun:"capacity"`
	TicketsSold   int       `bun:"tickets_sold"`
}

const flightLoadSQL = `
	SELECT
		f.id AS flight_id,
		f.route_id,
		f.departure_time,
		a."rows" * a.seats_in_row AS capacity,
		COUNT(t.id) AS tickets_sold
	FROM
		flights f
	JOIN
		airplanes a ON a.id = f.airplane_id
	LEFT JOIN
		tickets t ON t.flight_id = f.id
	WHERE
		%s
	GROUP BY
		f.id, f.route_id, f.departure_time, a."rows", a.seats_in_row
	ORDER BY
		f.departure_time, f.id`

// GetFlightLoadsByRoute returns the seat usage of every flight on a route.
func (db *DB) GetFlightLoadsByRoute(ctx context.Context, routeID int64) ([]FlightLoadData, error) {
	loads := []FlightLoadData{}
	err := db.bun.NewRaw(fmt.Sprintf(flightLoadSQL, "f.route_id = ?"), routeID).Scan(ctx, &loads)
	return loads, err
}

// GetFlightLoads returns the seat usage of the given flights. Unknown ids are skipped.
func (db *DB) GetFlightLoads(ctx context.Context, flightIDs []int64) ([]FlightLoadData, error) {
	loads := []FlightLoadData{}
	if len(flightIDs) == 0 {
		return loads, nil
	}
	err := db.bun.NewRaw(fmt.Sprintf(flightLoadSQL, "f.id IN (?)"), bun.In(flightIDs)).Scan(ctx, &loads)
	return loads, err
}

// DailySalesData represents raw daily sales metrics from the database
type DailySalesData struct {
	SalesDate   time.Time `bun:"sales_date"`
	TicketsSold int       `bun:"tickets_sold"`
}

// GetDailySalesByRoute sums the daily ticket counters of every flight on a route.
func (db *DB) GetDailySalesByRoute(ctx context.Context, routeID int64) ([]DailySalesData, error) {
	dailySales := []DailySalesData{}
	err := db.bun.NewRaw(`
		SELECT
			tc."date" AS sales_date,
			SUM(tc."count") AS tickets_sold
		FROM
			ticket_counts tc
		JOIN
			flights f ON f.id = tc.flight_id
		WHERE
			f.route_id = ?
		GROUP BY
			tc."date"
		ORDER BY
			tc."date"
	`, routeID).Scan(ctx, &dailySales)

	return dailySales, err
}

// RouteExists reports whether a route with id exists.
func (db *DB) RouteExists(ctx context.Context, routeID int64) (bool, error) {
	return db.bun.NewSelect().Table("routes").Where("id = ?", routeID).Exists(ctx)
}
