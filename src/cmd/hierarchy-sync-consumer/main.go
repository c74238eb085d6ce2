package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"discipulado/src/adapters/kafka/consumers"
	"discipulado/src/helper/env"
	"discipulado/src/infra/kafka"
	"discipulado/src/infra/postgres"
	"discipulado/src/infra/redis"
	"discipulado/src/repositories"
	"discipulado/src/services/events"
	"discipulado/src/services/hierarchy"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

func main() {
	log.SetOutput(os.Stdout)
	log.Println("Starting hierarchy sync consumer with Uber Fx...")

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
			newHierarchySyncConsumer,
		),

		// Invocations
		fx.Invoke(startConsumer),
	)

	// Start the application
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start consumer application: %v", err)
	}

	// Wait for interrupt signal to gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Println("Shutting down hierarchy sync consumer...")

	// Stop the application
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()

	if err := app.Stop(stopCtx); err != nil {
		log.Printf("Failed to stop application gracefully: %v", err)
	}

	log.Println("Hierarchy sync consumer shutdown complete")
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
	groupID := env.MustGetString("KAFKA_HIERARCHY_SYNC_GROUP_ID")
	batchSize := env.MustGetInt("KAFKA_BATCH_SIZE")

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

func newHierarchySyncConsumer(
	logger *slog.Logger,
	hierarchyService *hierarchy.HierarchyService,
	memberRepository *repositories.MemberRepository,
) *consumers.HierarchySyncConsumer {
	return consumers.NewHierarchySyncConsumer(logger, hierarchyService, memberRepository)
}

func startConsumer(
	lc fx.Lifecycle,
	logger *slog.Logger,
	kafkaClient *kafka.KafkaClient,
	syncConsumer *consumers.HierarchySyncConsumer,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			topic := env.GetString("KAFKA_HIERARCHY_SYNC_TOPIC", "discipulado.hierarchy.sync")
			logger.Info("Starting hierarchy sync consumer", "topic", topic)

			// Start consumer in background
			go func() {
				if err := syncConsumer.Start(ctx, kafkaClient, topic); err != nil {
					logger.Error("Consumer failed", "error", err)
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down Kafka client...")
			if err := kafkaClient.Close(); err != nil {
				logger.Error("Failed to close Kafka client", "error", err)
				return err
			}
			logger.Info("Kafka client shut down gracefully")
			return nil
		},
	})
}
