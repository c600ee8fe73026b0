package analytics_test

import (
	"context"
	"testing"
	"time"

	"ms-airport/internal/analytics"
	"ms-airport/internal/database/dbtest"
	"ms-airport/internal/domain"
	"ms-airport/internal/models"
	ticketsdb "ms-airport/internal/tickets/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRouteAnalytics(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	fx := dbtest.Seed(t, db, 10, 4)
	second := dbtest.AddFlight(t, db, fx, fx.Flight.DepartureTime.Add(24*time.Hour))

	dbtest.AddTickets(t, db, "u1", fx.Flight.ID, models.SeatSpot{Row: 1, Seat: 1}, models.SeatSpot{Row: 1, Seat: 2})
	dbtest.AddTickets(t, db, "u2", second.ID, models.SeatSpot{Row: 3, Seat: 3})

	counts := &ticketsdb.DB{Bun: db}
	day := time.Date(2025, 5, 20, 15, 0, 0, 0, time.UTC)
	require.NoError(t, counts.IncrementTicketCount(ctx, fx.Flight.ID, day, 2))
	require.NoError(t, counts.IncrementTicketCount(ctx, second.ID, day, 1))
	require.NoError(t, counts.IncrementTicketCount(ctx, second.ID, day.Add(48*time.Hour), 4))

	svc := analytics.NewService(analytics.NewDB(db))
	result, err := svc.GetRouteAnalytics(ctx, fx.Route.ID)
	require.NoError(t, err)

	assert.Equal(t, 80, result.TotalCapacity)
	assert.Equal(t, 3, result.TotalTicketsSold)
	assert.InDelta(t, 0.0375, result.LoadFactor, 1e-9)

	require.Len(t, result.Flights, 2)
	assert.Equal(t, fx.Flight.ID, result.Flights[0].FlightID)
	assert.Equal(t, 38, result.Flights[0].TicketsAvailable)
	assert.InDelta(t, 0.05, result.Flights[0].LoadFactor, 1e-9)
	assert.Equal(t, second.ID, result.Flights[1].FlightID)

	require.Len(t, result.DailySales, 2)
	assert.Equal(t, analytics.DailySalesMetrics{Date: "2025-05-20", TicketsSold: 3}, result.DailySales[0])
	assert.Equal(t, analytics.DailySalesMetrics{Date: "2025-05-22", TicketsSold: 4}, result.DailySales[1])
}

func TestGetRouteAnalytics_UnknownRoute(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Seed(t, db, 10, 4)

	_, err := analytics.NewService(analytics.NewDB(db)).GetRouteAnalytics(context.Background(), 999)
	assert.True(t, domain.IsNotFound(err))
}

func TestGetBatchFlightAnalytics(t *testing.T) {
	db := dbtest.Open(t)
	fx := dbtest.Seed(t, db, 15, 30)
	dbtest.AddTickets(t, db, "u1", fx.Flight.ID,
		models.SeatSpot{Row: 1, Seat: 1}, models.SeatSpot{Row: 1, Seat: 2}, models.SeatSpot{Row: 1, Seat: 3})

	svc := analytics.NewService(analytics.NewDB(db))
	result, err := svc.GetBatchFlightAnalytics(context.Background(), []int64{fx.Flight.ID, 404, fx.Flight.ID})
	require.NoError(t, err)

	assert.Equal(t, []int64{fx.Flight.ID, 404}, result.FlightIDs)
	assert.Equal(t, []int64{404}, result.Missing)
	require.Len(t, result.Flights, 1)
	assert.Equal(t, 447, result.Flights[0].TicketsAvailable)
	assert.Equal(t, 450, result.TotalCapacity)
	assert.InDelta(t, 0.0067, result.LoadFactor, 1e-9)
}
