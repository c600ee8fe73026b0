package models

import (
	"fmt"

	"github.com/uptrace/bun"
)

type AirplaneType struct {
	bun.BaseModel `bun:"table:airplane_types,alias:at"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name,notnull,unique"`
}

type Airplane struct {
	bun.BaseModel `bun:"table:airplanes,alias:a"`

	ID             int64         `bun:"id,pk,autoincrement"`
	Name           string        `bun:"name,notnull"`
	Rows           int           `bun:"rows,notnull"`
	SeatsInRow     int           `bun:"seats_in_row,notnull"`
	AirplaneTypeID int64         `bun:"airplane_type_id,notnull"`
	AirplaneType   *AirplaneType `bun:"rel:belongs-to,join:airplane_type_id=id"`
}

// SeatLayout is the rectangular seat grid of an airplane.
type SeatLayout struct {
	Rows       int `bun:"rows"`
	SeatsInRow int `bun:"seats_in_row"`
}

func (l SeatLayout) Capacity() int {
	return l.Rows * l.SeatsInRow
}

func (a Airplane) Layout() SeatLayout {
	return SeatLayout{Rows: a.Rows, SeatsInRow: a.SeatsInRow}
}

func (a Airplane) Capacity() int {
	return a.Layout().Capacity()
}

func (a Airplane) String() string {
	if a.AirplaneType == nil {
		return a.Name
	}
	return fmt.Sprintf("%s: type %s", a.Name, a.AirplaneType.Name)
}

type AirplaneTypePayload struct {
	Name string `json:"name" validate:"required,max=64"`
}

type AirplanePayload struct {
	Name           string `json:"name" validate:"required,max=64"`
	Rows           int    `json:"rows" validate:"required,gt=0"`
	SeatsInRow     int    `json:"seats_in_row" validate:"required,gt=0"`
	AirplaneTypeID int64  `json:"airplane_type" validate:"required,gt=0"`
}
