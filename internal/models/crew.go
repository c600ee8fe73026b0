package models

import "github.com/uptrace/bun"

type Crew struct {
	bun.BaseModel `bun:"table:crews,alias:c"`

	ID        int64  `bun:"id,pk,autoincrement"`
	FirstName string `bun:"first_name,notnull"`
	LastName  string `bun:"last_name,notnull"`
}

func (c Crew) FullName() string {
	return c.FirstName + " " + c.LastName
}

type CrewPayload struct {
	FirstName string `json:"first_name" validate:"required,max=64"`
	LastName  string `json:"last_name" validate:"required,max=64"`
}
