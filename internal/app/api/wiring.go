package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	"go.temporal.io/sdk/interceptor"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	deliverymemory "github.com/ventasve/ventasve-api/internal/domains/delivery/adapters/memory"
	deliverypostgres "github.com/ventasve/ventasve-api/internal/domains/delivery/adapters/persistence/postgres"
	deliveryworkflows "github.com/ventasve/ventasve-api/internal/domains/delivery/adapters/workflows"
	deliveryapp "github.com/ventasve/ventasve-api/internal/domains/delivery/application"
	deliveryports "github.com/ventasve/ventasve-api/internal/domains/delivery/ports"
	ordersmemory "github.com/ventasve/ventasve-api/internal/domains/orders/adapters/memory"
	orderspostgres "github.com/ventasve/ventasve-api/internal/domains/orders/adapters/persistence/postgres"
	ordersports "github.com/ventasve/ventasve-api/internal/domains/orders/ports"
	"github.com/ventasve/ventasve-api/internal/platform/memdb"
	"github.com/ventasve/ventasve-api/internal/platform/migrations"
	"github.com/ventasve/ventasve-api/internal/platform/notify"
	platformobservability "github.com/ventasve/ventasve-api/internal/platform/observability"
	platformpostgres "github.com/ventasve/ventasve-api/internal/platform/postgres"
	"github.com/ventasve/ventasve-api/internal/shared/transaction"
)

// Stores bundles the repositories of both bounded contexts behind one transaction manager.
type Stores struct {
	Tx          transaction.Manager
	Orders      ordersports.Repository
	Idempotency ordersports.IdempotencyStore
	Deliveries  deliveryports.DeliveryOrderRepository
	Persons     deliveryports.DeliveryPersonRepository
	Businesses  deliveryports.BusinessDirectory
	// DB is nil when the process runs on the in-memory adapters.
	DB *gorm.DB
}

// BuildStores connects to PostgreSQL and migrates the schema, or falls back to the in-memory
// adapters when no database is reachable.
func BuildStores(ctx context.Context, cfg Config, logger *slog.Logger) (Stores, func()) {
	db, cleanup := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	if db != nil {
		if err := migrations.Run(db.WithContext(ctx)); err != nil {
			logger.Warn("failed to migrate postgres schema, falling back to in-memory repositories", slog.String("error", err.Error()))
			cleanup()
			db = nil
		}
	}
	if db == nil {
		mem := memdb.New()
		return Stores{
			Tx:          mem,
			Orders:      ordersmemory.NewRepository(mem),
			Idempotency: ordersmemory.NewIdempotencyStore(mem),
			Deliveries:  deliverymemory.NewDeliveryOrderRepository(mem),
			Persons:     deliverymemory.NewDeliveryPersonRepository(mem),
			Businesses:  deliverymemory.NewBusinessDirectory(),
		}, func() {}
	}
	logger.Info("repositories configured with postgres")
	return Stores{
		Tx:          platformpostgres.NewTxManager(db),
		Orders:      orderspostgres.NewRepository(db),
		Idempotency: orderspostgres.NewIdempotencyStore(db),
		Deliveries:  deliverypostgres.NewDeliveryOrderRepository(db),
		Persons:     deliverypostgres.NewDeliveryPersonRepository(db),
		Businesses:  deliverypostgres.NewBusinessDirectory(db),
		DB:          db,
	}, cleanup
}

// DeliveryDependencies binds the stores to the delivery services.
func (s Stores) DeliveryDependencies(publisher notify.Publisher, logger *slog.Logger) deliveryapp.Dependencies {
	return deliveryapp.Dependencies{
		Tx:         s.Tx,
		Orders:     s.Orders,
		Deliveries: s.Deliveries,
		Persons:    s.Persons,
		Businesses: s.Businesses,
		Publisher:  publisher,
		Logger:     logger,
	}
}

// BuildPublisher fans events out to Redis and Kafka when configured. The structured log
// publisher is always present.
func BuildPublisher(ctx context.Context, cfg Config, logger *slog.Logger) (notify.Publisher, func()) {
	publishers := notify.Multi{notify.NewLogPublisher(logger)}
	var closers []func()
	if cfg.RedisAddr != "" {
		rdb, err := notify.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn("redis unavailable, events will not be pushed to subscribers", slog.String("error", err.Error()))
		} else {
			publishers = append(publishers, notify.NewRedisPublisher(rdb))
			closers = append(closers, func() { _ = rdb.Close() })
			logger.Info("redis event publisher enabled", slog.String("addr", cfg.RedisAddr))
		}
	}
	if brokers := notify.ParseBrokers(cfg.KafkaBrokers); len(brokers) > 0 {
		kafka := notify.NewKafkaPublisher(brokers, cfg.KafkaTopic)
		publishers = append(publishers, kafka)
		closers = append(closers, func() { _ = kafka.Close() })
		logger.Info("kafka event publisher enabled", slog.String("topic", cfg.KafkaTopic))
	}
	return publishers, func() {
		for _, c := range closers {
			c()
		}
	}
}

// BuildAssignmentOrchestrator routes delivery assignment through Temporal. The worker
// activities read and write the shared PostgreSQL database, so with in-memory stores the
// orchestrator is skipped and the API assigns inline. A nil orchestrator means inline.
func BuildAssignmentOrchestrator(stores Stores, dial func() (client.Client, error), logger *slog.Logger) (deliveryports.AssignmentOrchestrator, func()) {
	if stores.DB == nil {
		logger.Warn("in-memory stores are not shared with the Temporal worker, assigning deliveries inline")
		return nil, func() {}
	}
	temporalClient, err := dial()
	if err != nil {
		logger.Warn("Temporal workflows unavailable, assigning deliveries inline", slog.String("error", err.Error()))
		return nil, func() {}
	}
	logger.Info("Temporal assignment workflows enabled")
	return deliveryworkflows.NewTemporalAssignmentWorkflows(temporalClient), temporalClient.Close
}

// ConnectTemporal dials the Temporal frontend with tracing and structured logging.
func ConnectTemporal(cfg Config, instruments *platformobservability.Instruments, tracerName string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: instruments.Tracer(tracerName),
	})
	if err != nil {
		return nil, fmt.Errorf("configure temporal tracing: %w", err)
	}
	options := client.Options{
		HostPort:     cfg.TemporalAddress,
		Namespace:    cfg.TemporalNamespace,
		Logger:       workerlog.NewStructuredLogger(instruments.Logger),
		Interceptors: []interceptor.ClientInterceptor{tracingInterceptor},
	}
	return client.Dial(options)
}
