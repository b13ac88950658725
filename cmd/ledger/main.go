package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/garrison/asset-ledger/docs"
	"github.com/garrison/asset-ledger/internal/ledger"
	httpDelivery "github.com/garrison/asset-ledger/internal/ledger/delivery/http"
	"github.com/garrison/asset-ledger/internal/ledger/domain"
	"github.com/garrison/asset-ledger/internal/ledger/repository"
	"github.com/garrison/asset-ledger/internal/ledger/usecase/command"
	"github.com/garrison/asset-ledger/kafka"
	"github.com/garrison/asset-ledger/pkg/cache"
	"github.com/garrison/asset-ledger/pkg/database"
	"github.com/garrison/asset-ledger/pkg/logger"
	"github.com/garrison/asset-ledger/pkg/tracing"
)

func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "ledger-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting ledger service")

	// Initialize tracing
	tracerProvider, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
	}
	if tracerProvider != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tracerProvider); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Load database configuration
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "ledgerdb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Connect to storage. STORAGE_DRIVER selects between the GORM backend
	// (default) and the raw SQL backend.
	repo, sqlDB := buildRepository(dbConfig)
	defer sqlDB.Close()

	logger.Logger.Info().Msg("Database initialized successfully")

	// Sufficiency enforcement is on unless explicitly disabled. With it off,
	// balances are allowed to go negative and reconcile later.
	enforceSufficiency := getEnv("LEDGER_ALLOW_NEGATIVE", "false") != "true"
	if !enforceSufficiency {
		logger.Logger.Warn().Msg("Sufficiency enforcement disabled, balances may go negative")
	}

	// Kafka publisher (optional)
	var publisher command.MovementPublisher
	var kafkaPublisher *kafka.Publisher
	brokers := getEnv("KAFKA_BROKERS", "")
	if brokers != "" {
		kafkaPublisher, err = kafka.NewPublisher(strings.Split(brokers, ","))
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Failed to initialize Kafka publisher, continuing without events")
		} else {
			publisher = kafkaPublisher
			defer kafkaPublisher.Close()
		}
	}

	// Redis report cache (optional)
	redisClient := cache.NewRedisClient(getEnv("REDIS_ADDR", ""))
	reportCache := cache.NewReportCache(redisClient, 30*time.Second)

	// Initialize handler with Wire DI
	handler, err := ledger.InitializeHTTPHandler(repo, publisher, reportCache, enforceSufficiency)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize handler")
	}

	logger.Logger.Info().Msg("Ledger handler initialized")

	// Kafka movement-request intake (optional)
	consumerCtx, cancelConsumer := context.WithCancel(context.Background())
	defer cancelConsumer()
	if brokers != "" && getEnv("KAFKA_INTAKE_ENABLED", "false") == "true" {
		startKafkaIntake(consumerCtx, strings.Split(brokers, ","), handler)
	}

	// Start HTTP server
	httpPort := getEnv("HTTP_PORT", "8080")
	server := startHTTPServer(handler, sqlDB, httpPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to shutdown HTTP server gracefully")
	}
}

// buildRepository constructs the ledger storage backend and returns the
// underlying sql.DB for the health check and connection cleanup.
func buildRepository(cfg database.Config) (domain.LedgerRepository, *sql.DB) {
	driver := getEnv("STORAGE_DRIVER", "gorm")

	switch driver {
	case "sql":
		db, err := database.NewPostgresConnection(cfg)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
		}
		sqlRepo := repository.NewPostgresLedgerRepository(db)
		if err := sqlRepo.Migrate(context.Background()); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
		}
		return repository.NewTracingLedgerRepository(sqlRepo), db
	case "gorm":
		gormDB, err := database.NewGormConnection(cfg)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
		}
		gormRepo := repository.NewGormLedgerRepository(gormDB)
		if err := gormRepo.AutoMigrate(); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
		}
		return repository.NewTracingLedgerRepository(gormRepo), sqlDB
	default:
		logger.Logger.Fatal().Str("driver", driver).Msg("Unknown storage driver")
		return nil, nil
	}
}

// startKafkaIntake consumes movement requests from the movement-requests
// topic and feeds them through the same transaction processor as HTTP
// submissions. Broker-originated requests run with full visibility.
func startKafkaIntake(ctx context.Context, brokers []string, handler *httpDelivery.LedgerHandler) {
	groupID := getEnv("KAFKA_CONSUMER_GROUP", "ledger-service")
	submitHandler := handler.SubmitMovementHandler()

	consumer, err := kafka.NewConsumer(brokers, groupID, func(ctx context.Context, event kafka.MovementRequestedEvent) error {
		_, err := submitHandler.Handle(ctx, command.SubmitMovementCommand{
			Actor: domain.Actor{
				ID:       event.RequestedBy,
				Username: "kafka-intake",
				Role:     domain.RoleAdmin,
			},
			Type:           domain.MovementType(event.MovementType),
			ItemTypeID:     event.ItemTypeID,
			Quantity:       event.Quantity,
			FromLocationID: event.FromLocationID,
			ToLocationID:   event.ToLocationID,
			Recipient:      event.Recipient,
		})
		return err
	})
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to initialize Kafka consumer, continuing without intake")
		return
	}

	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to start Kafka consumer")
		return
	}

	go func() {
		<-ctx.Done()
		if err := consumer.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to close Kafka consumer")
		}
	}()
}

func startHTTPServer(handler *httpDelivery.LedgerHandler, db *sql.DB, port string) *http.Server {
	// Setup router
	router := mux.NewRouter()

	// Register middlewares (recovery, timeout, logging, tracing, request id)
	middlewareConfig := httpDelivery.DefaultMiddlewareConfig()
	httpDelivery.RegisterMiddlewares(router, middlewareConfig)

	// Register routes
	handler.RegisterRoutes(router)

	// Health check endpoint
	handler.RegisterHealthCheck(router, db)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Swagger documentation
	httpDelivery.RegisterSwaggerDocs(router, httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// CORS middleware
	corsHandler := httpDelivery.SetupCORS(middlewareConfig)

	server := &http.Server{
		Addr:    ":" + port,
		Handler: corsHandler(router),
	}

	go func() {
		logger.Logger.Info().
			Str("port", port).
			Str("metrics_endpoint", "/metrics").
			Str("swagger_endpoint", "/swagger/index.html").
			Msg("HTTP server started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	return server
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
