package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ms-airport/internal/analytics"
	analytics_api "ms-airport/internal/analytics/api"
	"ms-airport/internal/auth"
	"ms-airport/internal/catalog"
	"ms-airport/internal/catalog/catalog_api"
	catalogdb "ms-airport/internal/catalog/db"
	"ms-airport/internal/config"
	"ms-airport/internal/database"
	"ms-airport/internal/database/migrations"
	"ms-airport/internal/flights"
	flightsdb "ms-airport/internal/flights/db"
	"ms-airport/internal/flights/flight_api"
	"ms-airport/internal/kafka"
	"ms-airport/internal/logger"
	"ms-airport/internal/order"
	orderdb "ms-airport/internal/order/db"
	orderkafka "ms-airport/internal/order/kafka"
	"ms-airport/internal/order/order_api"
	rediswrap "ms-airport/internal/order/redis"
	"ms-airport/internal/sse"
	"ms-airport/internal/tickets/qr"
	ticketdb "ms-airport/internal/tickets/db"
	tickets "ms-airport/internal/tickets/service"
	"ms-airport/internal/tickets/ticket_api"
	"ms-airport/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
)

// runMigrations applies the embedded SQL migrations over a dedicated handle,
// since closing the migrator also closes its *sql.DB.
func runMigrations(cfg config.DatabaseConfig, log *logger.Logger) error {
	sqldb, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}

	runner := migrations.NewRunner(sqldb, log)
	defer func() {
		if err := runner.Close(); err != nil {
			log.Warn("MIGRATE", fmt.Sprintf("Failed to close migrator: %v", err))
		}
	}()

	if err := runner.Initialize(); err != nil {
		sqldb.Close()
		return err
	}
	return runner.MigrateUp()
}

// connectRedis returns nil when Redis is unreachable; orders then ignore Idempotency-Key.
func connectRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("REDIS", fmt.Sprintf("Redis unavailable at %s, Idempotency-Key disabled: %v", cfg.Addr, err))
		client.Close()
		return nil
	}
	log.Info("REDIS", fmt.Sprintf("Redis connection successful to %s (DB: %d)", cfg.Addr, client.Options().DB))
	return client
}

func newVerifier(ctx context.Context, cfg config.AuthConfig, log *logger.Logger) (auth.TokenVerifier, error) {
	if cfg.HMACSecret != "" {
		log.Warn("AUTH", "Using locally signed HS256 tokens (AUTH_HMAC_SECRET)")
		return auth.NewHMACVerifier(cfg.HMACSecret), nil
	}
	if cfg.OIDCIssuer == "" {
		return nil, errors.New("either OIDC_ISSUER or AUTH_HMAC_SECRET must be set")
	}
	log.Info("AUTH", fmt.Sprintf("Verifying tokens against OIDC issuer %s", cfg.OIDCIssuer))
	return auth.NewOIDCVerifier(ctx, cfg.OIDCIssuer, cfg.OIDCClientID)
}

// startStatistics wires order-created events to the ticket counters, through
// Kafka when enabled and in-process otherwise. The returned stop func flushes
// and closes the Kafka clients.
func startStatistics(ctx context.Context, cfg config.KafkaConfig, stats *tickets.TicketCountService, log *logger.Logger) (order.KafkaPublisher, func()) {
	if !cfg.Enabled {
		log.Warn("KAFKA", "Kafka disabled, order events are counted in-process")
		return orderkafka.LocalPublisher{Handle: stats.HandleOrderCreated}, func() {}
	}

	topic := cfg.Topics.OrderCreated
	if err := kafka.EnsureTopicsExist(ctx, cfg.Brokers, []string{topic}, log); err != nil {
		log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
	}

	producer := kafka.NewProducer(cfg.Brokers, topic, log)
	consumer := kafka.NewConsumer(cfg.Brokers, topic, cfg.GroupID, log)

	consumerCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := consumer.Start(consumerCtx, stats.HandleMessage); err != nil {
			log.Error("KAFKA", fmt.Sprintf("Consumer stopped: %v", err))
		}
	}()
	log.Info("KAFKA", fmt.Sprintf("Producing and consuming %s on %v", topic, cfg.Brokers))

	return orderkafka.NewProducer(producer), func() {
		cancel()
		<-done
		if err := consumer.Close(); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Failed to close consumer: %v", err))
		}
		if err := producer.Close(); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Failed to close producer: %v", err))
		}
	}
}

func newRouter(cfg *config.Config, bunDB *bun.DB, redisClient *redis.Client, verifier auth.TokenVerifier, publisher order.KafkaPublisher, stats *tickets.TicketCountService, log *logger.Logger) http.Handler {
	catalogService := catalog.NewCatalogService(&catalogdb.DB{Bun: bunDB}, log)
	flightService := flights.NewFlightService(&flightsdb.DB{Bun: bunDB}, log)
	analyticsService := analytics.NewService(analytics.NewDB(bunDB))

	var guard order.IdempotencyGuard
	if redisClient != nil {
		guard = rediswrap.NewRedis(redisClient, cfg.Redis.IdempotencyTTL, log)
	}
	seats := sse.NewSeatEventEmitter()
	orderService := order.NewOrderService(&orderdb.DB{Bun: bunDB}, guard, sse.Publisher{Next: publisher, Emitter: seats}, log)

	catalogHandler := catalog_api.NewHandler(catalogService, log)
	flightHandler := flight_api.NewHandler(flightService, log)
	ticketHandler := ticket_api.NewHandler(stats, log)
	orderHandler := order_api.NewHandler(orderService, flightService, qr.NewQRGenerator(cfg.QR.Secret), log)
	analyticsHandler := analytics_api.NewHandler(analyticsService, log)
	seatHandler := sse.NewHandler(seats, flightService, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(log.AccessLog)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := bunDB.PingContext(r.Context()); err != nil {
			utils.WriteJSON(w, http.StatusServiceUnavailable, utils.ErrorResponse("database unavailable", "unavailable"))
			return
		}
		utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("ok", nil))
	})

	r.Route("/api/airport", func(r chi.Router) {
		r.Use(auth.Authenticate(verifier, log))
		admin := auth.RequireRole(cfg.Auth.AdminRole, log)

		catalogHandler.RegisterRoutes(r, admin)
		flightHandler.RegisterRoutes(r, admin)
		ticketHandler.RegisterRoutes(r, admin)
		orderHandler.RegisterRoutes(r)
		analyticsHandler.RegisterRoutes(r, admin)
		seatHandler.RegisterRoutes(r)
	})
	log.Info("ROUTER", "Airport routes registered under /api/airport")

	return r
}

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()

	log := logger.NewLogger(cfg.Log.Dir)
	defer log.Close()
	log.SetLevel(logger.ParseLevel(cfg.Log.Level))

	if envErr != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}
	log.Info("APP", "Starting airport API initialization")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bunDB, err := database.Connect(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", err.Error())
	}
	defer bunDB.Close()

	if cfg.Database.AutoMigrate {
		if err := runMigrations(cfg.Database, log); err != nil {
			log.Fatal("MIGRATE", fmt.Sprintf("Migrations failed: %v", err))
		}
	}

	redisClient := connectRedis(ctx, cfg.Redis, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	verifier, err := newVerifier(ctx, cfg.Auth, log)
	if err != nil {
		log.Fatal("AUTH", err.Error())
	}

	stats := tickets.NewTicketCountService(&ticketdb.DB{Bun: bunDB}, log)
	publisher, stopStatistics := startStatistics(ctx, cfg.Kafka, stats, log)
	defer stopStatistics()

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      newRouter(cfg, bunDB, redisClient, verifier, publisher, stats, log),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("Airport API running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-ctx.Done()

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "Airport API shutdown complete")
	}
}

