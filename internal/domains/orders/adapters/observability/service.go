package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/ventasve/ventasve-api/internal/domains/orders/application/types"
	"github.com/ventasve/ventasve-api/internal/domains/orders/domain"
	"github.com/ventasve/ventasve-api/internal/domains/orders/ports"
)

const tracerName = "github.com/ventasve/ventasve-api/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
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

// New wraps the core order service.
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

func (s *Service) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder", trace.WithAttributes(
		attribute.String("business.id", input.BusinessID),
		attribute.String("order.payment_method", input.PaymentMethod),
		attribute.Bool("order.idempotent", input.IdempotencyKey != "")))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.String("business.id", input.BusinessID))
	result, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.String("business.id", input.BusinessID))
	}
	span.SetAttributes(attribute.String("order.id", result.ID))
	s.metrics.recordPlaced(ctx, result.PaymentMethod)
	s.logInfo(ctx, "order placed", slog.String("order.id", result.ID), slog.Int64("order.total_cents", result.TotalCents))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, input types.OrderIdentifier) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder", trace.WithAttributes(attribute.String("order.id", input.ID)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", input.ID))
	}
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context, input types.ListOrdersInput) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrders", trace.WithAttributes(attribute.String("business.id", input.BusinessID)))
	defer span.End()

	result, err := s.inner.ListOrders(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders", slog.String("business.id", input.BusinessID))
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) History(ctx context.Context, input types.OrderIdentifier) ([]domain.StatusChange, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.History", trace.WithAttributes(attribute.String("order.id", input.ID)))
	defer span.End()

	result, err := s.inner.History(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order history", slog.String("order.id", input.ID))
	}
	return result, nil
}

func (s *Service) ApplyTransition(ctx context.Context, input types.TransitionInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ApplyTransition", trace.WithAttributes(
		attribute.String("order.id", input.OrderID), attribute.String("order.target_status", string(input.Target))))
	defer span.End()

	s.logInfo(ctx, "transitioning order", slog.String("order.id", input.OrderID), slog.String("target", string(input.Target)))
	result, err := s.inner.ApplyTransition(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to transition order", slog.String("order.id", input.OrderID))
	}
	s.metrics.recordTransition(ctx, result.Status)
	return result, nil
}

func (s *Service) VerifyPayment(ctx context.Context, input types.TransitionInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.VerifyPayment", trace.WithAttributes(attribute.String("order.id", input.OrderID)))
	defer span.End()

	s.logInfo(ctx, "verifying payment", slog.String("order.id", input.OrderID))
	result, err := s.inner.VerifyPayment(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to verify payment", slog.String("order.id", input.OrderID))
	}
	s.metrics.recordTransition(ctx, result.Status)
	return result, nil
}

func (s *Service) CancelOrder(ctx context.Context, input types.CancelOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CancelOrder", trace.WithAttributes(attribute.String("order.id", input.OrderID)))
	defer span.End()

	s.logInfo(ctx, "cancelling order", slog.String("order.id", input.OrderID), slog.String("reason", input.Reason))
	result, err := s.inner.CancelOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to cancel order", slog.String("order.id", input.OrderID))
	}
	s.metrics.recordTransition(ctx, result.Status)
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
		s.logger.LogAttrs(ctx, slog.LevelError, msg, append(attrs, slog.String("error", err.Error()))...)
	}
	return err
}

type serviceMetrics struct {
	ordersPlaced metric.Int64Counter
	transitions  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders placed"))
	transitions, _ := m.Int64Counter("orders.service.transitions", metric.WithDescription("Number of order status transitions"))
	return serviceMetrics{ordersPlaced: ordersPlaced, transitions: transitions}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, method domain.PaymentMethod) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1, metric.WithAttributes(attribute.String("order.payment_method", string(method))))
	}
}

func (m serviceMetrics) recordTransition(ctx context.Context, status domain.Status) {
	if m.transitions != nil {
		m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

var _ ports.Service = (*Service)(nil)
