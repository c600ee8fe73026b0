// Command migrate manages the airport schema.
//
//	migrate reset   drop and recreate every table from the bun models, then seed sample data
//	migrate up      apply the embedded SQL migrations
//	migrate down    roll back the embedded SQL migrations
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"ms-airport/internal/config"
	"ms-airport/internal/database"
	"ms-airport/internal/database/migrations"
	"ms-airport/internal/logger"
	"ms-airport/internal/models"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.NewWithWriter(os.Stdout)

	mode := "reset"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	ctx := context.Background()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Database.DSN)))
	if err := sqldb.PingContext(ctx); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to database: %v", err))
	}

	switch mode {
	case "up", "down":
		runner := migrations.NewRunner(sqldb, log)
		defer runner.Close()
		var err error
		if mode == "up" {
			err = runner.MigrateUp()
		} else {
			err = runner.MigrateDown()
		}
		if err != nil {
			log.Fatal("MIGRATE", err.Error())
		}
	case "reset":
		db := bun.NewDB(sqldb, pgdialect.New())
		defer db.Close()

		log.Info("MIGRATE", "Dropping tables...")
		if err := database.DropSchema(ctx, db); err != nil {
			log.Fatal("MIGRATE", err.Error())
		}
		log.Info("MIGRATE", "Creating tables...")
		if err := database.CreateSchema(ctx, db); err != nil {
			log.Fatal("MIGRATE", err.Error())
		}
		log.Info("MIGRATE", "Seeding sample data...")
		if err := seedData(ctx, db); err != nil {
			log.Fatal("MIGRATE", err.Error())
		}
	default:
		log.Fatal("MIGRATE", fmt.Sprintf("unknown mode %q, want reset, up or down", mode))
	}

	log.Info("MIGRATE", "Done.")
}

func seedData(ctx context.Context, db *bun.DB) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		types := []models.AirplaneType{{Name: "Boeing"}, {Name: "Airbus"}}
		if _, err := tx.NewInsert().Model(&types).Returning("id").Exec(ctx); err != nil {
			return fmt.Errorf("seed airplane types: %w", err)
		}

		airplanes := []models.Airplane{
			{Name: "B-737", Rows: 15, SeatsInRow: 30, AirplaneTypeID: types[0].ID},
			{Name: "A-320", Rows: 25, SeatsInRow: 6, AirplaneTypeID: types[1].ID},
		}
		if _, err := tx.NewInsert().Model(&airplanes).Returning("id").Exec(ctx); err != nil {
			return fmt.Errorf("seed airplanes: %w", err)
		}

		airports := []models.Airport{
			{Name: "Boryspil", ClosestBigCity: "Kyiv"},
			{Name: "Heathrow", ClosestBigCity: "London"},
			{Name: "Charles de Gaulle", ClosestBigCity: "Paris"},
		}
		if _, err := tx.NewInsert().Model(&airports).Returning("id").Exec(ctx); err != nil {
			return fmt.Errorf("seed airports: %w", err)
		}

		routes := []models.Route{
			{SourceID: airports[0].ID, DestinationID: airports[1].ID, Distance: 2130},
			{SourceID: airports[1].ID, DestinationID: airports[2].ID, Distance: 344},
		}
		if _, err := tx.NewInsert().Model(&routes).Returning("id").Exec(ctx); err != nil {
			return fmt.Errorf("seed routes: %w", err)
		}

		crews := []models.Crew{
			{FirstName: "Ann", LastName: "Lee"},
			{FirstName: "Mark", LastName: "Novak"},
		}
		if _, err := tx.NewInsert().Model(&crews).Returning("id").Exec(ctx); err != nil {
			return fmt.Errorf("seed crews: %w", err)
		}

		departure := time.Now().UTC().Truncate(time.Hour).Add(48 * time.Hour)
		flights := []models.Flight{
			{RouteID: routes[0].ID, AirplaneID: airplanes[0].ID, DepartureTime: departure, ArrivalTime: departure.Add(3 * time.Hour)},
			{RouteID: routes[1].ID, AirplaneID: airplanes[1].ID, DepartureTime: departure.Add(6 * time.Hour), ArrivalTime: departure.Add(7 * time.Hour)},
		}
		if _, err := tx.NewInsert().Model(&flights).Returning("id").Exec(ctx); err != nil {
			return fmt.Errorf("seed flights: %w", err)
		}

		assignments := []models.FlightCrew{
			{FlightID: flights[0].ID, CrewID: crews[0].ID},
			{FlightID: flights[0].ID, CrewID: crews[1].ID},
			{FlightID: flights[1].ID, CrewID: crews[1].ID},
		}
		if _, err := tx.NewInsert().Model(&assignments).Exec(ctx); err != nil {
			return fmt.Errorf("seed flight crews: %w", err)
		}
		return nil
	})
}
