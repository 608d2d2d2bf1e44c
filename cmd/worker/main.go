package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/ventasve/ventasve-api/internal/app/api"
	deliveryobs "github.com/ventasve/ventasve-api/internal/domains/delivery/adapters/observability"
	deliveryapp "github.com/ventasve/ventasve-api/internal/domains/delivery/application"
	platformobservability "github.com/ventasve/ventasve-api/internal/platform/observability"
	deliveryactivities "github.com/ventasve/ventasve-api/internal/platform/temporal/activities/delivery"
	deliveryworkflows "github.com/ventasve/ventasve-api/internal/platform/temporal/workflows/delivery"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	ctx := context.Background()
	const serviceName = "ventasve-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, cfg.Observability(serviceName))
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	stores, cleanupStores := api.BuildStores(ctx, cfg, logger)
	defer cleanupStores()
	if stores.DB == nil {
		logger.Warn("worker running on in-memory repositories; assignments will not be visible to the API")
	}
	publisher, closePublisher := api.BuildPublisher(ctx, cfg, logger)
	defer closePublisher()

	deliveryService := deliveryobs.New(
		deliveryapp.NewService(stores.DeliveryDependencies(publisher, logger), cfg.Delivery),
		deliveryobs.WithLogger(logger),
		deliveryobs.WithTracer(instruments.Tracer("internal.delivery.application")),
		deliveryobs.WithMeter(instruments.Meter("internal.delivery.application")),
	)
	activities := deliveryactivities.NewActivities(deliveryService)

	temporalClient, err := api.ConnectTemporal(cfg, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, deliveryworkflows.AssignmentTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(deliveryworkflows.AssignmentWorkflow, workflow.RegisterOptions{Name: deliveryworkflows.AssignmentWorkflowName})
	w.RegisterActivityWithOptions(activities.AssignDelivery, activity.RegisterOptions{Name: deliveryactivities.AssignDeliveryActivityName})

	logger.Info("worker listening", slog.String("taskQueue", deliveryworkflows.AssignmentTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
