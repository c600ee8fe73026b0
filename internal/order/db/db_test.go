package db_test

import (
	"context"
	"testing"
	"time"

	"ms-airport/internal/database/dbtest"
	"ms-airport/internal/domain"
	"ms-airport/internal/models"
	"ms-airport/internal/order/db"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

func TestCreateOrderWithTickets_PostgresRollsBackOnSeatConflict(t *testing.T) {
	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	bunDB := bun.NewDB(sqldb, pgdialect.New())
	defer bunDB.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`SELECT f\.id AS flight_id`).
		WillReturnRows(sqlmock.NewRows([]string{"flight_id", "rows", "seats_in_row"}).AddRow(7, 10, 10))
	mock.ExpectQuery(`INSERT INTO "tickets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
	mock.ExpectQuery(`INSERT INTO "tickets"`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	o := &models.Order{
		UserID:    "user-1",
		CreatedAt: time.Now().UTC(),
		Tickets:   []models.Ticket{{Row: 1, Seat: 1, FlightID: 7}, {Row: 2, Seat: 2, FlightID: 7}},
	}
	err = (&db.DB{Bun: bunDB}).CreateOrderWithTickets(context.Background(), o)

	var taken domain.SeatTakenError
	require.ErrorAs(t, err, &taken)
	assert.Equal(t, domain.SeatTakenError{Row: 2, Seat: 2, FlightID: 7}, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderWithTickets_InvalidTicketIsIndexed(t *testing.T) {
	bunDB := dbtest.Open(t)
	fx := dbtest.Seed(t, bunDB, 15, 30)
	ctx := context.Background()

	o := &models.Order{
		UserID:    "user-1",
		CreatedAt: time.Now().UTC(),
		Tickets: []models.Ticket{
			{Row: 1, Seat: 1, FlightID: fx.Flight.ID},
			{Row: 16, Seat: 1, FlightID: fx.Flight.ID},
		},
	}
	err := (&db.DB{Bun: bunDB}).CreateOrderWithTickets(ctx, o)

	var terrs domain.TicketErrors
	require.ErrorAs(t, err, &terrs)
	require.Len(t, terrs, 1)
	assert.Equal(t, 1, terrs[0].Index)
	assert.Equal(t, "row", terrs[0].Field)

	orders, err := bunDB.NewSelect().Model((*models.Order)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, orders)
	tickets, err := bunDB.NewSelect().Model((*models.Ticket)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, tickets)
}

func TestCreateOrderWithTickets_UnknownFlight(t *testing.T) {
	bunDB := dbtest.Open(t)
	dbtest.Seed(t, bunDB, 2, 2)

	o := &models.Order{UserID: "user-1", CreatedAt: time.Now().UTC(), Tickets: []models.Ticket{{Row: 1, Seat: 1, FlightID: 404}}}
	err := (&db.DB{Bun: bunDB}).CreateOrderWithTickets(context.Background(), o)

	var terrs domain.TicketErrors
	require.ErrorAs(t, err, &terrs)
	assert.Equal(t, "flight", terrs[0].Field)
}
