package models

import "github.com/uptrace/bun"

type Ticket struct {
	bun.BaseModel `bun:"table:tickets,alias:t"`

	ID       int64 `bun:"id,pk,autoincrement"`
	Row      int   `bun:"row,notnull,unique:ticket_flight_row_seat"`
	Seat     int   `bun:"seat,notnull,unique:ticket_flight_row_seat"`
	FlightID int64 `bun:"flight_id,notnull,unique:ticket_flight_row_seat"`
	OrderID  int64 `bun:"order_id,notnull"`
}
