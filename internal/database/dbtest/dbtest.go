// Package dbtest builds in-memory SQLite databases carrying the full schema.
package dbtest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"ms-airport/internal/database"
	"ms-airport/internal/models"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Open returns a bun.DB over a private in-memory SQLite database.
// The pool is pinned to one connection so the database outlives each query
// and concurrent transactions serialize the way they would on a single writer.
func Open(t testing.TB) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	sqldb.SetConnMaxLifetime(0)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	_, err = db.ExecContext(ctx, "PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	require.NoError(t, database.CreateSchema(ctx, db))

	return db
}

// Fixture is a minimal catalog: one airplane, two airports, one route and one flight.
type Fixture struct {
	AirplaneType models.AirplaneType
	Airplane     models.Airplane
	Source       models.Airport
	Destination  models.Airport
	Route        models.Route
	Crew         models.Crew
	Flight       models.Flight
}

// Seed inserts a Fixture whose airplane has the given seat grid.
func Seed(t testing.TB, db bun.IDB, rows, seatsInRow int) Fixture {
	t.Helper()
	ctx := context.Background()

	var fx Fixture
	fx.AirplaneType = models.AirplaneType{Name: "Boeing"}
	insert(t, ctx, db, &fx.AirplaneType)

	fx.Airplane = models.Airplane{Name: "B-737", Rows: rows, SeatsInRow: seatsInRow, AirplaneTypeID: fx.AirplaneType.ID}
	insert(t, ctx, db, &fx.Airplane)

	fx.Source = models.Airport{Name: "Boryspil", ClosestBigCity: "Kyiv"}
	insert(t, ctx, db, &fx.Source)
	fx.Destination = models.Airport{Name: "Heathrow", ClosestBigCity: "London"}
	insert(t, ctx, db, &fx.Destination)

	fx.Route = models.Route{SourceID: fx.Source.ID, DestinationID: fx.Destination.ID, Distance: 2130}
	insert(t, ctx, db, &fx.Route)

	fx.Crew = models.Crew{FirstName: "Ann", LastName: "Lee"}
	insert(t, ctx, db, &fx.Crew)

	departure := time.Date(2025, 6, 5, 9, 0, 0, 0, time.UTC)
	fx.Flight = models.Flight{
		RouteID:       fx.Route.ID,
		AirplaneID:    fx.Airplane.ID,
		DepartureTime: departure,
		ArrivalTime:   departure.Add(3 * time.Hour),
	}
	insert(t, ctx, db, &fx.Flight)
	insert(t, ctx, db, &models.FlightCrew{FlightID: fx.Flight.ID, CrewID: fx.Crew.ID})

	return fx
}

// AddFlight inserts another flight on the fixture route and airplane.
func AddFlight(t testing.TB, db bun.IDB, fx Fixture, departure time.Time) models.Flight {
	t.Helper()
	f := models.Flight{
		RouteID:       fx.Route.ID,
		AirplaneID:    fx.Airplane.ID,
		DepartureTime: departure.UTC(),
		ArrivalTime:   departure.Add(2 * time.Hour).UTC(),
	}
	insert(t, context.Background(), db, &f)
	return f
}

// AddTickets stores tickets for the flight under a fresh order of userID.
func AddTickets(t testing.TB, db bun.IDB, userID string, flightID int64, seats ...models.SeatSpot) models.Order {
	t.Helper()
	ctx := context.Background()

	order := models.Order{UserID: userID, CreatedAt: time.Now().UTC()}
	insert(t, ctx, db, &order)
	for _, s := range seats {
		ticket := models.Ticket{Row: s.Row, Seat: s.Seat, FlightID: flightID, OrderID: order.ID}
		insert(t, ctx, db, &ticket)
		order.Tickets = append(order.Tickets, ticket)
	}
	return order
}

func insert(t testing.TB, ctx context.Context, db bun.IDB, model interface{}) {
	t.Helper()
	_, err := db.NewInsert().Model(model).Exec(ctx)
	require.NoError(t, err)
}
