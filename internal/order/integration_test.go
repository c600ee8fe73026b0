//go:build integration

package order_test

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"ms-airport/internal/config"
	"ms-airport/internal/database"
	"ms-airport/internal/database/dbtest"
	"ms-airport/internal/database/migrations"
	"ms-airport/internal/domain"
	"ms-airport/internal/flights"
	flightsdb "ms-airport/internal/flights/db"
	"ms-airport/internal/logger"
	"ms-airport/internal/models"
	"ms-airport/internal/order"
	orderdb "ms-airport/internal/order/db"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
)

func startPostgres(t *testing.T, log *logger.Logger) *bun.DB {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "airport",
				"POSTGRES_PASSWORD": "airport",
				"POSTGRES_DB":       "airport",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	dsn := fmt.Sprintf("postgres://airport:airport@%s:%s/airport?sslmode=disable", host, port.Port())

	migrationDB, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	runner := migrations.NewRunner(migrationDB, log)
	require.NoError(t, runner.MigrateUp())
	require.NoError(t, runner.Close())

	db, err := database.Connect(ctx, config.DatabaseConfig{
		Driver:       "pgx",
		DSN:          dsn,
		MaxOpenConns: 16,
		MaxIdleConns: 16,
		MaxLifetime:  time.Minute,
		ConnectTries: 3,
	}, log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPostgres_ConcurrentOrdersForOneSeat(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping Postgres integration test in short mode")
	}

	log := logger.NewWithWriter(&bytes.Buffer{})
	db := startPostgres(t, log)
	fx := dbtest.Seed(t, db, 15, 30)
	svc := order.NewOrderService(&orderdb.DB{Bun: db}, nil, nil, log)

	const contenders = 12
	var wg sync.WaitGroup
	results := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, results[i] = svc.CreateOrder(context.Background(), fmt.Sprintf("user-%d", i), models.OrderRequest{
				Tickets: tickets(fx.Flight.ID, [2]int{7, 7}, [2]int{15, i + 1}),
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, domain.IsSeatTaken(err), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	ctx := context.Background()
	ticketCount, err := db.NewSelect().Model((*models.Ticket)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, ticketCount)
	orderCount, err := db.NewSelect().Model((*models.Order)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, orderCount)

	flight, err := flights.NewFlightService(&flightsdb.DB{Bun: db}, log).GetFlight(ctx, fx.Flight.ID)
	require.NoError(t, err)
	assert.Equal(t, 448, flight.TicketsAvailable)
}

func TestPostgres_InvalidTicketRollsBackOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping Postgres integration test in short mode")
	}

	log := logger.NewWithWriter(&bytes.Buffer{})
	db := startPostgres(t, log)
	fx := dbtest.Seed(t, db, 15, 30)
	svc := order.NewOrderService(&orderdb.DB{Bun: db}, nil, nil, log)

	_, _, err := svc.CreateOrder(context.Background(), "user", models.OrderRequest{
		Tickets: tickets(fx.Flight.ID, [2]int{1, 1}, [2]int{16, 1}),
	})
	require.True(t, domain.IsTicketErrors(err), "unexpected error: %v", err)

	count, err := db.NewSelect().Model((*models.Order)(nil)).Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
