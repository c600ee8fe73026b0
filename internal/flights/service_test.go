package flights_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"ms-airport/internal/database/dbtest"
	"ms-airport/internal/domain"
	"ms-airport/internal/flights"
	flightsdb "ms-airport/internal/flights/db"
	"ms-airport/internal/logger"
	"ms-airport/internal/models"
	"ms-airport/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func newService(t *testing.T, rows, seats int) (*flights.FlightService, *bun.DB, dbtest.Fixture) {
	t.Helper()
	db := dbtest.Open(t)
	fx := dbtest.Seed(t, db, rows, seats)
	return flights.NewFlightService(&flightsdb.DB{Bun: db}, logger.NewWithWriter(&bytes.Buffer{})), db, fx
}

func TestGetFlight_TicketsAvailable(t *testing.T) {
	svc, db, fx := newService(t, 15, 30)
	ctx := context.Background()

	dbtest.AddTickets(t, db, "user-1", fx.Flight.ID,
		models.SeatSpot{Row: 1, Seat: 1}, models.SeatSpot{Row: 1, Seat: 2}, models.SeatSpot{Row: 15, Seat: 30})

	f, err := svc.GetFlight(ctx, fx.Flight.ID)
	require.NoError(t, err)
	assert.Equal(t, 447, f.TicketsAvailable)
	require.NotNil(t, f.Route)
	require.NotNil(t, f.Route.Source)
	assert.Equal(t, "Kyiv", f.Route.Source.ClosestBigCity)
	require.NotNil(t, f.Airplane)
	require.NotNil(t, f.Airplane.AirplaneType)
	assert.Equal(t, "Boeing", f.Airplane.AirplaneType.Name)
	require.Len(t, f.Crew, 1)
	assert.Equal(t, "Ann Lee", f.Crew[0].FullName())
}

func TestGetFlight_Missing(t *testing.T) {
	svc, _, _ := newService(t, 2, 2)

	_, err := svc.GetFlight(context.Background(), 999)
	assert.True(t, domain.IsNotFound(err))
}

func TestListFlights_Filters(t *testing.T) {
	svc, db, fx := newService(t, 10, 4)
	ctx := context.Background()

	later := dbtest.AddFlight(t, db, fx, time.Date(2025, 6, 6, 23, 30, 0, 0, time.UTC))

	all, err := svc.ListFlights(ctx, models.FlightFilter{}, flights.DefaultOrdering)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 40, all[1].TicketsAvailable)
	assert.Empty(t, all[1].Crew)

	day := time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)
	got, err := svc.ListFlights(ctx, models.FlightFilter{Date: &day}, flights.DefaultOrdering)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, later.ID, got[0].ID)

	got, err = svc.ListFlights(ctx, models.FlightFilter{
		DepartureAirportIDs: []int64{fx.Source.ID},
		ArrivalAirportIDs:   []int64{fx.Destination.ID},
	}, flights.DefaultOrdering)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.ListFlights(ctx, models.FlightFilter{DepartureAirportIDs: []int64{fx.Destination.ID}}, flights.DefaultOrdering)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListFlights_Ordering(t *testing.T) {
	svc, db, fx := newService(t, 10, 4)

	earlier := dbtest.AddFlight(t, db, fx, time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC))

	o, err := utils.ParseOrdering("departure_time", flights.Orderings, flights.DefaultOrdering)
	require.NoError(t, err)
	got, err := svc.ListFlights(context.Background(), models.FlightFilter{}, o)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, earlier.ID, got[0].ID)
	assert.Equal(t, fx.Flight.ID, got[1].ID)
}

func TestCreateFlight_ReportsEveryInvalidField(t *testing.T) {
	svc, _, fx := newService(t, 10, 4)
	departure := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

	_, err := svc.CreateFlight(context.Background(), models.FlightPayload{
		RouteID:       fx.Route.ID,
		AirplaneID:    404,
		CrewIDs:       []int64{fx.Crew.ID, 505},
		DepartureTime: departure,
		ArrivalTime:   departure,
	})

	var verr domain.ValidationError
	require.ErrorAs(t, err, &verr)
	fields := map[string]string{}
	for _, f := range verr.Fields {
		fields[f.Field] = f.Message
	}
	assert.Equal(t, `invalid pk "404" - object does not exist`, fields["airplane"])
	assert.Equal(t, `invalid pk "505" - object does not exist`, fields["crew"])
	assert.Contains(t, fields, "arrival_time")
	assert.NotContains(t, fields, "route")
}

func TestCreateAndUpdateFlight_ReplacesCrew(t *testing.T) {
	svc, db, fx := newService(t, 10, 4)
	ctx := context.Background()

	second := models.Crew{FirstName: "Bo", LastName: "Kim"}
	_, err := db.NewInsert().Model(&second).Exec(ctx)
	require.NoError(t, err)

	departure := time.Date(2025, 7, 1, 10, 0, 0, 0, time.FixedZone("EEST", 3*3600))
	created, err := svc.CreateFlight(ctx, models.FlightPayload{
		RouteID:       fx.Route.ID,
		AirplaneID:    fx.Airplane.ID,
		CrewIDs:       []int64{fx.Crew.ID, second.ID},
		DepartureTime: departure,
		ArrivalTime:   departure.Add(90 * time.Minute),
	})
	require.NoError(t, err)
	assert.Equal(t, time.UTC, created.DepartureTime.Location())

	_, err = svc.UpdateFlight(ctx, created.ID, models.FlightPayload{
		RouteID:       fx.Route.ID,
		AirplaneID:    fx.Airplane.ID,
		CrewIDs:       []int64{second.ID},
		DepartureTime: departure,
		ArrivalTime:   departure.Add(2 * time.Hour),
	})
	require.NoError(t, err)

	got, err := svc.GetFlight(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Crew, 1)
	assert.Equal(t, second.ID, got.Crew[0].ID)
	assert.True(t, got.ArrivalTime.Equal(departure.Add(2*time.Hour)))
}

func TestUpdateFlight_Missing(t *testing.T) {
	svc, _, fx := newService(t, 10, 4)
	departure := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

	_, err := svc.UpdateFlight(context.Background(), 999, models.FlightPayload{
		RouteID: fx.Route.ID, AirplaneID: fx.Airplane.ID,
		DepartureTime: departure, ArrivalTime: departure.Add(time.Hour),
	})
	assert.True(t, domain.IsNotFound(err))
}

func TestDeleteFlight_CascadesTickets(t *testing.T) {
	svc, db, fx := newService(t, 10, 4)
	ctx := context.Background()
	dbtest.AddTickets(t, db, "user-1", fx.Flight.ID, models.SeatSpot{Row: 2, Seat: 2})

	require.NoError(t, svc.DeleteFlight(ctx, fx.Flight.ID))

	n, err := db.NewSelect().Model((*models.Ticket)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSeatMap(t *testing.T) {
	svc, db, fx := newService(t, 3, 3)
	dbtest.AddTickets(t, db, "user-1", fx.Flight.ID, models.SeatSpot{Row: 3, Seat: 1}, models.SeatSpot{Row: 1, Seat: 2})

	sm, err := svc.SeatMap(context.Background(), fx.Flight.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, sm.Rows)
	assert.Equal(t, 3, sm.SeatsInRow)
	assert.Equal(t, 7, sm.TicketsAvailable)
	assert.Equal(t, []models.SeatSpot{{Row: 1, Seat: 2}, {Row: 3, Seat: 1}}, sm.Taken)
}
