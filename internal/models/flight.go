package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Flight struct {
	bun.BaseModel `bun:"table:flights,alias:f"`

	ID            int64     `bun:"id,pk,autoincrement"`
	RouteID       int64     `bun:"route_id,notnull"`
	AirplaneID    int64     `bun:"airplane_id,notnull"`
	DepartureTime time.Time `bun:"departure_time,notnull"`
	ArrivalTime   time.Time `bun:"arrival_time,notnull"`

	Route    *Route    `bun:"rel:belongs-to,join:route_id=id"`
	Airplane *Airplane `bun:"rel:belongs-to,join:airplane_id=id"`
	Crew     []Crew    `bun:"-"`

	// Computed by the listing query, never stored.
	TicketsAvailable int `bun:"tickets_available,scanonly"`
}

// FlightCrew assigns a crew member to a flight.
type FlightCrew struct {
	bun.BaseModel `bun:"table:flight_crews,alias:fc"`

	FlightID int64 `bun:"flight_id,pk"`
	CrewID   int64 `bun:"crew_id,pk"`
}

type FlightPayload struct {
	RouteID       int64     `json:"route" validate:"required,gt=0"`
	AirplaneID    int64     `json:"airplane" validate:"required,gt=0"`
	CrewIDs       []int64   `json:"crew" validate:"dive,gt=0"`
	DepartureTime time.Time `json:"departure_time" validate:"required"`
	ArrivalTime   time.Time `json:"arrival_time" validate:"required"`
}

// FlightFilter narrows a flight listing. Empty fields do not filter.
type FlightFilter struct {
	DepartureAirportIDs []int64
	ArrivalAirportIDs   []int64
	Date                *time.Time
}

// SeatMap lists the claimed seats of a flight.
type SeatMap struct {
	FlightID         int64      `json:"flight_id"`
	Rows             int        `json:"rows"`
	SeatsInRow       int        `json:"seats_in_row"`
	TicketsAvailable int        `json:"tickets_available"`
	Taken            []SeatSpot `json:"taken"`
}

type SeatSpot struct {
	Row  int `bun:"row" json:"row"`
	Seat int `bun:"seat" json:"seat"`
}
