package db_test

import (
	"context"
	"testing"
	"time"

	"ms-airport/internal/database/dbtest"
	"ms-airport/internal/domain"
	"ms-airport/internal/models"
	"ms-airport/internal/tickets/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatLayouts_SkipsUnknownFlights(t *testing.T) {
	bunDB := dbtest.Open(t)
	fx := dbtest.Seed(t, bunDB, 15, 30)

	layouts, err := db.SeatLayouts(context.Background(), bunDB, []int64{fx.Flight.ID, 999})
	require.NoError(t, err)
	assert.Equal(t, map[int64]models.SeatLayout{fx.Flight.ID: {Rows: 15, SeatsInRow: 30}}, layouts)
}

func TestInsertTicket_Guard(t *testing.T) {
	bunDB := dbtest.Open(t)
	fx := dbtest.Seed(t, bunDB, 15, 30)
	ctx := context.Background()
	order := dbtest.AddTickets(t, bunDB, "user-1", fx.Flight.ID)
	layout := fx.Airplane.Layout()

	ok := &models.Ticket{Row: 15, Seat: 30, FlightID: fx.Flight.ID, OrderID: order.ID}
	require.NoError(t, db.InsertTicket(ctx, bunDB, ok, layout))
	assert.NotZero(t, ok.ID)

	err := db.InsertTicket(ctx, bunDB, &models.Ticket{Row: 16, Seat: 31, FlightID: fx.Flight.ID, OrderID: order.ID}, layout)
	var verr domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)

	err = db.InsertTicket(ctx, bunDB, &models.Ticket{Row: 15, Seat: 30, FlightID: fx.Flight.ID, OrderID: order.ID}, layout)
	var taken domain.SeatTakenError
	require.ErrorAs(t, err, &taken)
	assert.Equal(t, domain.SeatTakenError{Row: 15, Seat: 30, FlightID: fx.Flight.ID}, taken)
}

func TestIncrementTicketCount_CreatesThenAdds(t *testing.T) {
	bunDB := dbtest.Open(t)
	fx := dbtest.Seed(t, bunDB, 2, 2)
	d := &db.DB{Bun: bunDB}
	ctx := context.Background()

	morning := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, d.IncrementTicketCount(ctx, fx.Flight.ID, morning, 2))
	require.NoError(t, d.IncrementTicketCount(ctx, fx.Flight.ID, morning.Add(10*time.Hour), 1))
	require.NoError(t, d.IncrementTicketCount(ctx, fx.Flight.ID, morning.Add(24*time.Hour), 1))

	counts, err := d.GetTicketCountsForFlight(ctx, fx.Flight.ID)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, 3, counts[0].Count)
	assert.True(t, counts[0].Date.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, counts[1].Count)
}

func TestFlightExists(t *testing.T) {
	bunDB := dbtest.Open(t)
	fx := dbtest.Seed(t, bunDB, 2, 2)
	d := &db.DB{Bun: bunDB}

	ok, err := d.FlightExists(context.Background(), fx.Flight.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.FlightExists(context.Background(), fx.Flight.ID+1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDay(t *testing.T) {
	local := time.Date(2025, 6, 2, 1, 30, 0, 0, time.FixedZone("EEST", 3*3600))
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), db.Day(local))
}
