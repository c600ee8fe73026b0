package models

import (
	"fmt"

	"github.com/uptrace/bun"
)

type Airport struct {
	bun.BaseModel `bun:"table:airports,alias:ap"`

	ID             int64  `bun:"id,pk,autoincrement"`
	Name           string `bun:"name,notnull"`
	ClosestBigCity string `bun:"closest_big_city,notnull"`
}

func (a Airport) String() string {
	return fmt.Sprintf("%s (%s)", a.Name, a.ClosestBigCity)
}

// Route connects two airports. Source and destination may be the same airport.
type Route struct {
	bun.BaseModel `bun:"table:routes,alias:r"`

	ID            int64    `bun:"id,pk,autoincrement"`
	SourceID      int64    `bun:"source_id,notnull"`
	DestinationID int64    `bun:"destination_id,notnull"`
	Distance      int      `bun:"distance,notnull"`
	Source        *Airport `bun:"rel:belongs-to,join:source_id=id"`
	Destination   *Airport `bun:"rel:belongs-to,join:destination_id=id"`
}

type AirportPayload struct {
	Name           string `json:"name" validate:"required,max=64"`
	ClosestBigCity string `json:"closest_big_city" validate:"required,max=64"`
}

type RoutePayload struct {
	SourceID      int64 `json:"source" validate:"required,gt=0"`
	DestinationID int64 `json:"destination" validate:"required,gt=0"`
	Distance      int   `json:"distance" validate:"required,gt=0"`
}
