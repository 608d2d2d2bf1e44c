package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/ventasve/ventasve-api/internal/domains/delivery/application/types"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/domain"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/ports"
)

const tracerName = "github.com/ventasve/ventasve-api/internal/domains/delivery/adapters/observability/service"

// Service decorates the delivery service with tracing, logging, and metrics. OTP codes are
// never logged or attached to spans.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core delivery service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.Default(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) Assign(ctx context.Context, input types.AssignInput) (*domain.DeliveryOrder, error) {
	ctx, span := s.tracer.Start(ctx, "DeliveryService.Assign", trace.WithAttributes(
		attribute.String("order.id", input.OrderID), attribute.String("delivery_person.id", input.DeliveryPersonID)))
	defer span.End()

	s.logInfo(ctx, "assigning delivery", slog.String("order.id", input.OrderID), slog.String("delivery_person.id", input.DeliveryPersonID))
	result, err := s.inner.Assign(ctx, input)
	if err != nil {
		s.metrics.recordOutcome(ctx, "assign", domain.Code(err))
		return nil, s.handleError(ctx, span, err, "failed to assign delivery", slog.String("order.id", input.OrderID))
	}
	span.SetAttributes(attribute.String("delivery_order.id", result.ID))
	s.metrics.recordOutcome(ctx, "assign", "OK")
	s.logInfo(ctx, "delivery assigned", slog.String("delivery_order.id", result.ID), slog.String("delivery.fee", result.DeliveryFee.StringFixed(2)))
	return result, nil
}

func (s *Service) ConfirmDelivery(ctx context.Context, input types.ConfirmInput) (*domain.DeliveryOrder, error) {
	ctx, span := s.tracer.Start(ctx, "DeliveryService.ConfirmDelivery", trace.WithAttributes(attribute.String("delivery_order.id", input.DeliveryOrderID)))
	defer span.End()

	s.logInfo(ctx, "confirming delivery", slog.String("delivery_order.id", input.DeliveryOrderID))
	result, err := s.inner.ConfirmDelivery(ctx, input)
	if err != nil {
		s.metrics.recordOutcome(ctx, "confirm", domain.Code(err))
		return nil, s.handleError(ctx, span, err, "failed to confirm delivery", slog.String("delivery_order.id", input.DeliveryOrderID))
	}
	s.metrics.recordOutcome(ctx, "confirm", "OK")
	s.logInfo(ctx, "delivery confirmed", slog.String("delivery_order.id", result.ID), slog.String("order.id", result.OrderID))
	return result, nil
}

func (s *Service) ReissueOTP(ctx context.Context, input types.ReissueOTPInput) (*domain.DeliveryOrder, error) {
	ctx, span := s.tracer.Start(ctx, "DeliveryService.ReissueOTP", trace.WithAttributes(attribute.String("delivery_order.id", input.DeliveryOrderID)))
	defer span.End()

	result, err := s.inner.ReissueOTP(ctx, input)
	if err != nil {
		s.metrics.recordOutcome(ctx, "reissue_otp", domain.Code(err))
		return nil, s.handleError(ctx, span, err, "failed to reissue delivery otp", slog.String("delivery_order.id", input.DeliveryOrderID))
	}
	s.metrics.recordOutcome(ctx, "reissue_otp", "OK")
	s.logInfo(ctx, "delivery otp reissued", slog.String("delivery_order.id", result.ID))
	return result, nil
}

func (s *Service) GetDeliveryOrder(ctx context.Context, input types.DeliveryOrderIdentifier) (*domain.DeliveryOrder, error) {
	ctx, span := s.tracer.Start(ctx, "DeliveryService.GetDeliveryOrder", trace.WithAttributes(attribute.String("delivery_order.id", input.ID)))
	defer span.End()

	result, err := s.inner.GetDeliveryOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load delivery order", slog.String("delivery_order.id", input.ID))
	}
	return result, nil
}

func (s *Service) ListPersonDeliveries(ctx context.Context, input types.ListDeliveriesInput) ([]*domain.DeliveryOrder, error) {
	ctx, span := s.tracer.Start(ctx, "DeliveryService.ListPersonDeliveries", trace.WithAttributes(attribute.String("delivery_person.id", input.DeliveryPersonID)))
	defer span.End()

	result, err := s.inner.ListPersonDeliveries(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list deliveries", slog.String("delivery_person.id", input.DeliveryPersonID))
	}
	span.SetAttributes(attribute.Int("delivery_orders.count", len(result)))
	return result, nil
}

func (s *Service) RegisterPerson(ctx context.Context, input types.RegisterPersonInput) (*domain.DeliveryPerson, error) {
	ctx, span := s.tracer.Start(ctx, "DeliveryService.RegisterPerson", trace.WithAttributes(attribute.String("business.id", input.BusinessID)))
	defer span.End()

	result, err := s.inner.RegisterPerson(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register delivery person", slog.String("business.id", input.BusinessID))
	}
	s.logInfo(ctx, "delivery person registered", slog.String("delivery_person.id", result.ID))
	return result, nil
}

func (s *Service) GetPerson(ctx context.Context, input types.PersonIdentifier) (*domain.DeliveryPerson, error) {
	ctx, span := s.tracer.Start(ctx, "DeliveryService.GetPerson", trace.WithAttributes(attribute.String("delivery_person.id", input.ID)))
	defer span.End()

	result, err := s.inner.GetPerson(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load delivery person", slog.String("delivery_person.id", input.ID))
	}
	return result, nil
}

func (s *Service) SetAvailability(ctx context.Context, input types.AvailabilityInput) (*domain.DeliveryPerson, error) {
	ctx, span := s.tracer.Start(ctx, "DeliveryService.SetAvailability", trace.WithAttributes(
		attribute.String("delivery_person.id", input.DeliveryPersonID), attribute.Bool("delivery_person.available", input.Available)))
	defer span.End()

	result, err := s.inner.SetAvailability(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update availability", slog.String("delivery_person.id", input.DeliveryPersonID))
	}
	s.logInfo(ctx, "availability updated", slog.String("delivery_person.id", result.ID), slog.Bool("available", result.IsAvailable))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()), slog.String("code", domain.Code(err)))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	outcomes metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	outcomes, _ := m.Int64Counter("delivery.service.outcomes", metric.WithDescription("Delivery assignment and confirmation outcomes by code"))
	return serviceMetrics{outcomes: outcomes}
}

func (m serviceMetrics) recordOutcome(ctx context.Context, operation, code string) {
	if m.outcomes == nil {
		return
	}
	if code == "" {
		code = "INTERNAL_ERROR"
	}
	m.outcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation), attribute.String("code", code)))
}

var _ ports.Service = (*Service)(nil)
