package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    string    `bun:"user_id,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`

	Tickets []Ticket `bun:"rel:has-many,join:id=order_id"`
}

type TicketRequest struct {
	Row      int   `json:"row"`
	Seat     int   `json:"seat"`
	FlightID int64 `json:"flight"`
}

type OrderRequest struct {
	Tickets        []TicketRequest `json:"tickets"`
	IdempotencyKey string          `json:"-"`
}

// IdempotencyClaim is the outcome of claiming an Idempotency-Key.
// When Acquired is false and OrderID is set, the key was already used for that order.
type IdempotencyClaim struct {
	Acquired bool
	Token    string
	OrderID  int64
}
