// Package presenters turns models into response bodies. Every entity has an
// explicit shape per models.View; handlers pick the view for their request kind.
package presenters

import (
	"time"

	"ms-airport/internal/models"
)

type AirplaneTypeBody struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func AirplaneType(t models.AirplaneType) AirplaneTypeBody {
	return AirplaneTypeBody{ID: t.ID, Name: t.Name}
}

type AirplaneBody struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Rows         int         `json:"rows"`
	SeatsInRow   int         `json:"seats_in_row"`
	AirplaneType interface{} `json:"airplane_type"`
	Capacity     int         `json:"capacity"`
}

// Airplane renders airplane_type as its name for list and detail, as its id for write.
func Airplane(a models.Airplane, view models.View) AirplaneBody {
	body := AirplaneBody{
		ID:           a.ID,
		Name:         a.Name,
		Rows:         a.Rows,
		SeatsInRow:   a.SeatsInRow,
		AirplaneType: a.AirplaneTypeID,
		Capacity:     a.Capacity(),
	}
	if view != models.ViewWrite && a.AirplaneType != nil {
		body.AirplaneType = a.AirplaneType.Name
	}
	return body
}

type AirportBody struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	ClosestBigCity string `json:"closest_big_city"`
}

func Airport(a models.Airport) AirportBody {
	return AirportBody{ID: a.ID, Name: a.Name, ClosestBigCity: a.ClosestBigCity}
}

type RouteBody struct {
	ID          int64       `json:"id"`
	Source      interface{} `json:"source"`
	Destination interface{} `json:"destination"`
	Distance    int         `json:"distance"`
}

// Route renders airports as "name (city)" in lists, nested objects in detail and ids for write.
func Route(r models.Route, view models.View) RouteBody {
	body := RouteBody{ID: r.ID, Source: r.SourceID, Destination: r.DestinationID, Distance: r.Distance}
	if r.Source == nil || r.Destination == nil {
		return body
	}
	switch view {
	case models.ViewList:
		body.Source = r.Source.String()
		body.Destination = r.Destination.String()
	case models.ViewDetail:
		body.Source = Airport(*r.Source)
		body.Destination = Airport(*r.Destination)
	}
	return body
}

type CrewBody struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

func Crew(c models.Crew) CrewBody {
	return CrewBody{ID: c.ID, FirstName: c.FirstName, LastName: c.LastName, FullName: c.FullName()}
}

type FlightListBody struct {
	ID               int64     `json:"id"`
	DepartureAirport string    `json:"departure_airport"`
	ArrivalAirport   string    `json:"arrival_airport"`
	Airplane         string    `json:"airplane"`
	Crew             []string  `json:"crew"`
	DepartureTime    time.Time `json:"departure_time"`
	ArrivalTime      time.Time `json:"arrival_time"`
	TicketsAvailable int       `json:"tickets_available"`
}

type FlightDetailBody struct {
	ID               int64        `json:"id"`
	Route            RouteBody    `json:"route"`
	Airplane         AirplaneBody `json:"airplane"`
	Crew             []CrewBody   `json:"crew"`
	DepartureTime    time.Time    `json:"departure_time"`
	ArrivalTime      time.Time    `json:"arrival_time"`
	TicketsAvailable int          `json:"tickets_available"`
}

type FlightWriteBody struct {
	ID            int64     `json:"id"`
	Route         int64     `json:"route"`
	Airplane      int64     `json:"airplane"`
	Crew          []int64   `json:"crew"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
}

// Flight expects Route (with airports), Airplane (with type) and Crew to be loaded
// for the list and detail views.
func Flight(f models.Flight, view models.View) interface{} {
	switch view {
	case models.ViewList:
		body := FlightListBody{
			ID:               f.ID,
			Crew:             make([]string, 0, len(f.Crew)),
			DepartureTime:    f.DepartureTime,
			ArrivalTime:      f.ArrivalTime,
			TicketsAvailable: f.TicketsAvailable,
		}
		if f.Route != nil && f.Route.Source != nil && f.Route.Destination != nil {
			body.DepartureAirport = f.Route.Source.ClosestBigCity
			body.ArrivalAirport = f.Route.Destination.ClosestBigCity
		}
		if f.Airplane != nil {
			body.Airplane = f.Airplane.String()
		}
		for _, c := range f.Crew {
			body.Crew = append(body.Crew, c.FullName())
		}
		return body
	case models.ViewDetail:
		body := FlightDetailBody{
			ID:               f.ID,
			Crew:             make([]CrewBody, 0, len(f.Crew)),
			DepartureTime:    f.DepartureTime,
			ArrivalTime:      f.ArrivalTime,
			TicketsAvailable: f.TicketsAvailable,
		}
		if f.Route != nil {
			body.Route = Route(*f.Route, models.ViewDetail)
		}
		if f.Airplane != nil {
			body.Airplane = Airplane(*f.Airplane, models.ViewList)
		}
		for _, c := range f.Crew {
			body.Crew = append(body.Crew, Crew(c))
		}
		return body
	default:
		body := FlightWriteBody{
			ID:            f.ID,
			Route:         f.RouteID,
			Airplane:      f.AirplaneID,
			Crew:          make([]int64, 0, len(f.Crew)),
			DepartureTime: f.DepartureTime,
			ArrivalTime:   f.ArrivalTime,
		}
		for _, c := range f.Crew {
			body.Crew = append(body.Crew, c.ID)
		}
		return body
	}
}

type TicketBody struct {
	ID     int64       `json:"id"`
	Row    int         `json:"row"`
	Seat   int         `json:"seat"`
	Flight interface{} `json:"flight"`
}

type OrderBody struct {
	ID        int64        `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Tickets   []TicketBody `json:"tickets"`
}

// Order nests each ticket's flight in the matching flight view. The write view
// and tickets whose flight is missing from flights fall back to the flight id.
func Order(o models.Order, flights map[int64]models.Flight, view models.View) OrderBody {
	body := OrderBody{ID: o.ID, CreatedAt: o.CreatedAt, Tickets: make([]TicketBody, 0, len(o.Tickets))}
	for _, t := range o.Tickets {
		tb := TicketBody{ID: t.ID, Row: t.Row, Seat: t.Seat, Flight: t.FlightID}
		if f, ok := flights[t.FlightID]; ok && view != models.ViewWrite {
			tb.Flight = Flight(f, view)
		}
		body.Tickets = append(body.Tickets, tb)
	}
	return body
}
