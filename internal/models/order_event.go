package models

import "time"

// OrderCreatedEvent is published once an order has been committed.
type OrderCreatedEvent struct {
	EventID   string             `json:"event_id"`
	OrderID   int64              `json:"order_id"`
	UserID    string             `json:"user_id"`
	CreatedAt time.Time          `json:"created_at"`
	Tickets   []OrderEventTicket `json:"tickets"`
}

type OrderEventTicket struct {
	TicketID int64 `json:"ticket_id"`
	FlightID int64 `json:"flight_id"`
	Row      int   `json:"row"`
	Seat     int   `json:"seat"`
}
