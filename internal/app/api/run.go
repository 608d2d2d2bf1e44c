package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"

	ventasveserver "github.com/ventasve/ventasve-api/go"
	deliveryobs "github.com/ventasve/ventasve-api/internal/domains/delivery/adapters/observability"
	deliveryapp "github.com/ventasve/ventasve-api/internal/domains/delivery/application"
	ordersobs "github.com/ventasve/ventasve-api/internal/domains/orders/adapters/observability"
	ordersapp "github.com/ventasve/ventasve-api/internal/domains/orders/application"
	platformobservability "github.com/ventasve/ventasve-api/internal/platform/observability"
)

const serviceName = "ventasve-api"

// Run boots the order and delivery HTTP API with observability, repositories, event
// publishers and the assignment workflow wired.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, cfg.Observability(serviceName))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	stores, cleanupStores := BuildStores(ctx, cfg, logger)
	defer cleanupStores()
	publisher, closePublisher := BuildPublisher(ctx, cfg, logger)
	defer closePublisher()

	deps := stores.DeliveryDependencies(publisher, logger)
	orderService := ordersobs.New(
		ordersapp.NewService(stores.Orders, stores.Tx,
			ordersapp.WithPublisher(publisher),
			ordersapp.WithIdempotencyStore(stores.Idempotency),
			ordersapp.WithTransitionHook(deliveryapp.NewOrderTransitionGuard(deps)),
			ordersapp.WithLogger(logger),
		),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	deliveryService := deliveryobs.New(
		deliveryapp.NewService(deps, cfg.Delivery),
		deliveryobs.WithLogger(logger),
		deliveryobs.WithTracer(instruments.Tracer("internal.delivery.application")),
		deliveryobs.WithMeter(instruments.Meter("internal.delivery.application")),
	)

	assignments, closeAssignments := BuildAssignmentOrchestrator(stores, func() (client.Client, error) {
		return ConnectTemporal(cfg, instruments, "temporal-client")
	}, logger)
	defer closeAssignments()

	responder := ventasveserver.NewErrorResponder(logger)
	httpMetrics := platformobservability.NewHTTPMetrics(nil, "api")
	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName), httpMetrics.Middleware())
	router.GET("/metrics", gin.WrapH(httpMetrics.Handler()))
	ventasveserver.NewRouterWithGinEngine(router, ventasveserver.ApiHandleFunctions{
		OrdersAPI:   ventasveserver.NewOrdersAPI(orderService, responder),
		DeliveryAPI: ventasveserver.NewDeliveryAPI(deliveryService, assignments, responder),
	})

	addr := ":" + cfg.Port
	logger.Info("VentasVE API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("VentasVE API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}
