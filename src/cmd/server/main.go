package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	httpadapter "discipulado/src/adapters/http"
	"discipulado/src/helper/env"
	"discipulado/src/infra/kafka"
	"discipulado/src/infra/postgres"
	"discipulado/src/infra/redis"
	"discipulado/src/repositories"
	"discipulado/src/services/attendance"
	"discipulado/src/services/events"
	"discipulado/src/services/hierarchy"
	"discipulado/src/services/network"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

func main() {
	// Configurar logger
	log.SetOutput(os.Stdout)
	log.Println("Starting discipleship API server with Uber Fx...")

	app := fx.New(
		// Providers
		fx.Provide(
			newLogger,
			newSQLClient,
			newRedisClient,
			newKafkaClient,
			newEdgeRepository,
			newMemberRepository,
			newAttendanceRepository,
			newNetworkQueryRepository,
			newCachedNetworkRepository,
			newEventPublisher,
			newHierarchyService,
			newNetworkService,
			newAttendanceService,
			newServer,
		),

		// Invocations
		fx.Invoke(registerServerHooks),
	)

	// Start the application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	// Wait for app to exit gracefully
	<-app.Done()
}

func newLogger() *slog.Logger {
	logLevel := env.GetString("LOG_LEVEL", "info")
	var level slog.Level

	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

// newSQLClient configures and returns a pgxpool connection pool
func newSQLClient() (*pgxpool.Pool, error) {
	dbHost := env.MustGetString("DB_HOST")
	dbPort := env.GetString("DB_PORT", "5432")
	dbname := env.MustGetString("DB_NAME")
	dbUser := env.MustGetString("DB_USER")
	dbPassword := env.MustGetString("DB_PASSWORD")
	maxConnections := env.GetInt("DB_MAX_POOL_CONNECTIONS", 25)

	return postgres.NewPostgresClient(dbHost, dbPort, dbname, dbUser, dbPassword, maxConnections)
}

func newRedisClient() *redis.RedisClient {
	redisHosts := env.MustGetString("REDIS_HOSTS")
	redisPoolSize := env.GetInt("REDIS_POOL_SIZE", 50)
	redisDefaultTTLSeconds := env.GetInt("REDIS_DEFAULT_TTL_SECONDS", 120)
	redisDefaultTTL := time.Duration(redisDefaultTTLSeconds) * time.Second

	return redis.NewRedisClient(redisHosts, redisPoolSize, redisDefaultTTL)
}

func newKafkaClient() (*kafka.KafkaClient, error) {
	brokers := env.MustGetString("KAFKA_BROKERS")
	groupID := env.GetString("KAFKA_API_GROUP_ID", "discipulado-api")
	batchSize := env.GetInt("KAFKA_BATCH_SIZE", 100)

	return kafka.NewKafkaClient(brokers, groupID, batchSize)
}

func newEdgeRepository(pool *pgxpool.Pool) *repositories.HierarchyEdgeRepository {
	return repositories.NewHierarchyEdgeRepository(pool)
}

func newMemberRepository(pool *pgxpool.Pool) *repositories.MemberRepository {
	return repositories.NewMemberRepository(pool)
}

func newAttendanceRepository(pool *pgxpool.Pool) *repositories.AttendanceRepository {
	return repositories.NewAttendanceRepository(pool)
}

func newNetworkQueryRepository(
	edgeRepository *repositories.HierarchyEdgeRepository,
	memberRepository *repositories.MemberRepository,
	attendanceRepository *repositories.AttendanceRepository,
) *repositories.NetworkQueryRepository {
	return repositories.NewNetworkQueryRepository(edgeRepository, memberRepository, attendanceRepository)
}

func newCachedNetworkRepository(
	networkQueryRepository *repositories.NetworkQueryRepository,
	redisClient *redis.RedisClient,
) *repositories.CachedNetworkRepository {
	return repositories.NewCachedNetworkRepository(networkQueryRepository, redisClient)
}

func newEventPublisher(logger *slog.Logger, kafkaClient *kafka.KafkaClient) *events.DomainEventPublisher {
	topic := env.GetString("KAFKA_HIERARCHY_EVENTS_TOPIC", "discipulado.hierarchy.events")
	return events.NewDomainEventPublisher(logger, kafkaClient, topic)
}

func newHierarchyService(
	logger *slog.Logger,
	pool *pgxpool.Pool,
	edgeRepository *repositories.HierarchyEdgeRepository,
	memberRepository *repositories.MemberRepository,
	cachedNetworkRepository *repositories.CachedNetworkRepository,
	eventPublisher *events.DomainEventPublisher,
) *hierarchy.HierarchyService {
	return hierarchy.NewHierarchyService(logger, pool, edgeRepository, memberRepository, cachedNetworkRepository, eventPublisher)
}

func newNetworkService(cachedNetworkRepository *repositories.CachedNetworkRepository) *network.NetworkService {
	return network.NewNetworkService(cachedNetworkRepository)
}

func newAttendanceService(attendanceRepository *repositories.AttendanceRepository) *attendance.AttendanceService {
	return attendance.NewAttendanceService(attendanceRepository)
}

func newServer(
	logger *slog.Logger,
	hierarchyService *hierarchy.HierarchyService,
	networkService *network.NetworkService,
	attendanceService *attendance.AttendanceService,
) *httpadapter.Server {

	port := 8888 // default value
	if portStr := os.Getenv("SERVER_ADDR"); portStr != "" {
		if val, err := strconv.Atoi(portStr); err == nil {
			port = val
		}
	}

	return httpadapter.NewServer(logger, port, hierarchyService, networkService, attendanceService)
}

// registerServerHooks registers lifecycle hooks for the HTTP server
func registerServerHooks(lc fx.Lifecycle, srv *httpadapter.Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// Start server in a separate goroutine
			go func() {
				if err := srv.Start(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("Server failed: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			// Create timeout context for graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			log.Println("Shutting down server...")
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("Server forced to shutdown: %v", err)
				return err
			}
			log.Println("Server exited gracefully")
			return nil
		},
	})
}
