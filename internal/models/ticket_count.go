package models

import (
	"time"

	"github.com/uptrace/bun"
)

// TicketCount is the number of tickets sold for a flight on one day.
type TicketCount struct {
	bun.BaseModel `bun:"table:ticket_counts,alias:tc"`

	ID       int64     `bun:"id,pk,autoincrement" json:"-"`
	FlightID int64     `bun:"flight_id,notnull,unique:ticket_count_flight_date" json:"flight_id"`
	Date     time.Time `bun:"date,notnull,unique:ticket_count_flight_date" json:"date"`
	Count    int       `bun:"count,notnull" json:"count"`
}
