package config_test

import (
	"testing"
	"time"

	"ms-airport/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, ":8084", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "airport.order.created", cfg.Kafka.Topics.OrderCreated)
	assert.Equal(t, "admin", cfg.Auth.AdminRole)
	assert.Equal(t, time.Hour, cfg.Redis.IdempotencyTTL)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", ":9000")
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("KAFKA_ADDR", "k1:9092, k2:9092,")
	t.Setenv("KAFKA_ENABLED", "false")
	t.Setenv("SERVER_READ_TIMEOUT", "3s")
	t.Setenv("ORDER_IDEMPOTENCY_TTL_MINUTES", "10")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := config.Load()

	assert.Equal(t, ":9000", cfg.Server.Port)
	assert.Equal(t, "pgx", cfg.Database.Driver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Redis.IdempotencyTTL)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
}
