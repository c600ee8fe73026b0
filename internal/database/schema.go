package database

import (
	"context"
	"fmt"

	"ms-airport/internal/models"

	"github.com/uptrace/bun"
)

type table struct {
	model       interface{}
	foreignKeys []string
}

// tables is ordered parent first. Foreign keys mirror the cascade rules of
// the SQL migrations so both schema sources behave the same.
var tables = []table{
	{model: (*models.AirplaneType)(nil)},
	{model: (*models.Airplane)(nil), foreignKeys: []string{
		`("airplane_type_id") REFERENCES "airplane_types" ("id") ON DELETE CASCADE`,
	}},
	{model: (*models.Airport)(nil)},
	{model: (*models.Route)(nil), foreignKeys: []string{
		`("source_id") REFERENCES "airports" ("id") ON DELETE CASCADE`,
		`("destination_id") REFERENCES "airports" ("id") ON DELETE CASCADE`,
	}},
	{model: (*models.Crew)(nil)},
	{model: (*models.Flight)(nil), foreignKeys: []string{
		`("route_id") REFERENCES "routes" ("id") ON DELETE CASCADE`,
		`("airplane_id") REFERENCES "airplanes" ("id") ON DELETE CASCADE`,
	}},
	{model: (*models.FlightCrew)(nil), foreignKeys: []string{
		`("flight_id") REFERENCES "flights" ("id") ON DELETE CASCADE`,
		`("crew_id") REFERENCES "crews" ("id") ON DELETE CASCADE`,
	}},
	{model: (*models.Order)(nil)},
	{model: (*models.Ticket)(nil), foreignKeys: []string{
		`("flight_id") REFERENCES "flights" ("id") ON DELETE CASCADE`,
		`("order_id") REFERENCES "orders" ("id") ON DELETE CASCADE`,
	}},
	{model: (*models.TicketCount)(nil), foreignKeys: []string{
		`("flight_id") REFERENCES "flights" ("id") ON DELETE CASCADE`,
	}},
}

// CreateSchema creates every table from the bun models.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	for _, t := range tables {
		q := db.NewCreateTable().Model(t.model).IfNotExists()
		for _, fk := range t.foreignKeys {
			q = q.ForeignKey(fk)
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", t.model, err)
		}
	}
	return nil
}

// DropSchema drops every table in reverse dependency order.
func DropSchema(ctx context.Context, db bun.IDB) error {
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := db.NewDropTable().Model(tables[i].model).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("drop table for %T: %w", tables[i].model, err)
		}
	}
	return nil
}
