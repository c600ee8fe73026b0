package presenters_test

import (
	"testing"
	"time"

	"ms-airport/internal/models"
	"ms-airport/internal/presenters"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFlight() models.Flight {
	kyiv := &models.Airport{ID: 1, Name: "Boryspil", ClosestBigCity: "Kyiv"}
	london := &models.Airport{ID: 2, Name: "Heathrow", ClosestBigCity: "London"}
	departure := time.Date(2025, 6, 5, 9, 0, 0, 0, time.UTC)
	return models.Flight{
		ID:         7,
		RouteID:    3,
		AirplaneID: 4,
		Route:      &models.Route{ID: 3, SourceID: 1, DestinationID: 2, Source: kyiv, Destination: london, Distance: 2130},
		Airplane: &models.Airplane{ID: 4, Name: "B-737", Rows: 15, SeatsInRow: 30, AirplaneTypeID: 5,
			AirplaneType: &models.AirplaneType{ID: 5, Name: "Boeing"}},
		Crew:             []models.Crew{{ID: 9, FirstName: "Ann", LastName: "Lee"}},
		DepartureTime:    departure,
		ArrivalTime:      departure.Add(3 * time.Hour),
		TicketsAvailable: 447,
	}
}

func TestFlight_Views(t *testing.T) {
	f := sampleFlight()

	list, ok := presenters.Flight(f, models.ViewList).(presenters.FlightListBody)
	require.True(t, ok)
	assert.Equal(t, "Kyiv", list.DepartureAirport)
	assert.Equal(t, "London", list.ArrivalAirport)
	assert.Equal(t, "B-737: type Boeing", list.Airplane)
	assert.Equal(t, []string{"Ann Lee"}, list.Crew)
	assert.Equal(t, 447, list.TicketsAvailable)

	detail, ok := presenters.Flight(f, models.ViewDetail).(presenters.FlightDetailBody)
	require.True(t, ok)
	assert.Equal(t, presenters.AirportBody{ID: 1, Name: "Boryspil", ClosestBigCity: "Kyiv"}, detail.Route.Source)
	assert.Equal(t, "Boeing", detail.Airplane.AirplaneType)
	assert.Equal(t, 450, detail.Airplane.Capacity)

	write, ok := presenters.Flight(f, models.ViewWrite).(presenters.FlightWriteBody)
	require.True(t, ok)
	assert.Equal(t, int64(3), write.Route)
	assert.Equal(t, []int64{9}, write.Crew)
}

func TestRoute_ListFallsBackToIDsWithoutAirports(t *testing.T) {
	body := presenters.Route(models.Route{ID: 1, SourceID: 2, DestinationID: 3}, models.ViewList)
	assert.Equal(t, int64(2), body.Source)
	assert.Equal(t, int64(3), body.Destination)
}

func TestOrder_NestsFlightPerView(t *testing.T) {
	f := sampleFlight()
	o := models.Order{ID: 1, Tickets: []models.Ticket{
		{ID: 10, Row: 1, Seat: 2, FlightID: f.ID},
		{ID: 11, Row: 3, Seat: 4, FlightID: 99},
	}}
	flights := map[int64]models.Flight{f.ID: f}

	list := presenters.Order(o, flights, models.ViewList)
	require.Len(t, list.Tickets, 2)
	assert.IsType(t, presenters.FlightListBody{}, list.Tickets[0].Flight)
	assert.Equal(t, int64(99), list.Tickets[1].Flight)

	detail := presenters.Order(o, flights, models.ViewDetail)
	assert.IsType(t, presenters.FlightDetailBody{}, detail.Tickets[0].Flight)

	write := presenters.Order(o, flights, models.ViewWrite)
	assert.Equal(t, f.ID, write.Tickets[0].Flight)
}
