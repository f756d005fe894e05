package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/SscSPs/pos_core/internal/cache"
	"github.com/SscSPs/pos_core/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_core/internal/core/ports/repositories"
	"github.com/SscSPs/pos_core/internal/events"
	"github.com/SscSPs/pos_core/internal/metrics"
	"github.com/SscSPs/pos_core/internal/middleware"
	"github.com/SscSPs/pos_core/internal/utils/taxes"
	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName         = "github.com/SscSPs/pos_core/internal/core/services"
	defaultMaxAttempts = 3
)

// BaseService provides common functionality for all services
type BaseService struct {
	uowFactory portsrepo.UnitOfWorkFactory
	clock      func() time.Time
	tracer     trace.Tracer
	publisher  events.Publisher

	maxAttempts  int
	retryBackoff func() backoff.BackOff
}

func newBaseService(factory portsrepo.UnitOfWorkFactory, opts *serviceOptions) BaseService {
	return BaseService{
		uowFactory:   factory,
		clock:        opts.clock,
		tracer:       opts.tracerProvider.Tracer(tracerName),
		publisher:    opts.publisher,
		maxAttempts:  opts.maxAttempts,
		retryBackoff: opts.retryBackoff,
	}
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

func (s *BaseService) now() time.Time {
	return s.clock().UTC()
}

// logFailure logs unexpected failures. Business rule rejections are part of
// normal operation and only reach the debug log.
func (s *BaseService) logFailure(ctx context.Context, err error, msg string, keyvals ...any) {
	var de *apperrors.DomainError
	if errors.As(err, &de) {
		s.LogDebug(ctx, msg, append([]any{slog.String("code", string(de.Code)), slog.String("reason", de.Message)}, keyvals...)...)
		return
	}
	s.LogError(ctx, err, msg, keyvals...)
}

// withTransaction runs fn inside a fresh unit of work. The transaction commits
// when fn returns nil and rolls back otherwise. Retryable failures (version
// conflicts, serialization failures, lock timeouts) re-run fn from scratch with
// backoff, so fn must not leak state outside of a successful run.
//
// An invariant violation raised by an aggregate rolls the transaction back and
// keeps panicking.
func (s *BaseService) withTransaction(ctx context.Context, operation string, isolation portsrepo.IsolationLevel, fn func(ctx context.Context, uow portsrepo.UnitOfWork) error) (err error) {
	ctx, span := s.tracer.Start(ctx, operation, trace.WithAttributes(
		attribute.String("db.transaction.isolation", isolation.String()),
	))
	start := time.Now()
	result := "panic"
	defer func() {
		metrics.TransactionDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
		metrics.TransactionsTotal.WithLabelValues(operation, result).Inc()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, string(apperrors.CodeOf(err)))
		}
		span.End()
	}()

	attempt := 0
	run := func() error {
		attempt++
		runErr := s.runOnce(ctx, isolation, fn)
		if runErr == nil {
			return nil
		}
		if apperrors.IsRetryable(runErr) && attempt < s.maxAttempts {
			s.LogDebug(ctx, "Retrying transaction",
				slog.String("operation", operation),
				slog.Int("attempt", attempt),
				slog.String("error", runErr.Error()))
			return runErr
		}
		return backoff.Permanent(runErr)
	}

	err = backoff.Retry(run, backoff.WithContext(s.retryBackoff(), ctx))
	span.SetAttributes(attribute.Int("db.transaction.attempts", attempt))
	switch {
	case err == nil:
		result = "committed"
	case apperrors.IsRetryable(err):
		result = "conflict"
	default:
		result = "rolled_back"
	}
	return err
}

func (s *BaseService) runOnce(ctx context.Context, isolation portsrepo.IsolationLevel, fn func(ctx context.Context, uow portsrepo.UnitOfWork) error) error {
	uow := s.uowFactory.New()
	if err := uow.BeginTransaction(ctx, isolation); err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			if rbErr := uow.Rollback(ctx); rbErr != nil {
				s.LogError(ctx, rbErr, "Failed to roll back after invariant violation")
			}
			if v, ok := apperrors.AsInvariantViolation(r); ok {
				s.LogError(ctx, v, "Invariant violated, transaction rolled back",
					slog.String("entity", v.Entity))
			}
			panic(r)
		}
	}()

	if err := fn(ctx, uow); err != nil {
		if rbErr := uow.Rollback(ctx); rbErr != nil {
			s.LogError(ctx, rbErr, "Failed to roll back transaction")
		}
		return err
	}
	return uow.Commit(ctx)
}

// publish delivers events after commit. Failures are logged only.
func (s *BaseService) publish(ctx context.Context, evts ...events.Event) {
	for _, evt := range evts {
		if evt.OccurredAt.IsZero() {
			evt.OccurredAt = s.now()
		}
		if err := s.publisher.Publish(ctx, evt); err != nil {
			s.LogError(ctx, err, "Failed to publish event",
				slog.String("event_type", string(evt.Type)),
				slog.String("aggregate_id", evt.AggregateID))
		}
	}
}

// serviceOptions holds the optional collaborators shared by all services.
type serviceOptions struct {
	clock          func() time.Time
	tracerProvider trace.TracerProvider
	publisher      events.Publisher
	productCache   cache.ProductCache
	cacheTTL       time.Duration
	taxRate        decimal.Decimal

	reservationMinutes int
	maxAttempts        int
	retryBackoff       func() backoff.BackOff
}

// ServiceOption is a functional option for configuring the services
type ServiceOption func(*serviceOptions)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(clock func() time.Time) ServiceOption {
	return func(o *serviceOptions) {
		o.clock = clock
	}
}

// WithTracerProvider sets the provider of the use case spans.
func WithTracerProvider(tp trace.TracerProvider) ServiceOption {
	return func(o *serviceOptions) {
		o.tracerProvider = tp
	}
}

// WithEventPublisher sets where business events are sent after commit.
func WithEventPublisher(p events.Publisher) ServiceOption {
	return func(o *serviceOptions) {
		o.publisher = p
	}
}

// WithProductCache sets the barcode lookup cache used by scans.
func WithProductCache(c cache.ProductCache, ttl time.Duration) ServiceOption {
	return func(o *serviceOptions) {
		o.productCache = c
		o.cacheTTL = ttl
	}
}

// WithTaxRate sets the tax rate applied to new sales.
func WithTaxRate(rate decimal.Decimal) ServiceOption {
	return func(o *serviceOptions) {
		o.taxRate = rate
	}
}

// WithReservationMinutes sets how long scanned stock stays held.
func WithReservationMinutes(minutes int) ServiceOption {
	return func(o *serviceOptions) {
		o.reservationMinutes = minutes
	}
}

// WithRetry sets how many times a transaction is attempted on retryable
// failures and the delay policy between attempts.
func WithRetry(maxAttempts int, policy func() backoff.BackOff) ServiceOption {
	return func(o *serviceOptions) {
		o.maxAttempts = maxAttempts
		if policy != nil {
			o.retryBackoff = policy
		}
	}
}

func buildOptions(opts []ServiceOption) *serviceOptions {
	o := &serviceOptions{
		clock:              time.Now,
		tracerProvider:     otel.GetTracerProvider(),
		publisher:          events.NoopPublisher{},
		productCache:       cache.NoopProductCache{},
		cacheTTL:           5 * time.Minute,
		taxRate:            taxes.StandardRate,
		reservationMinutes: domain.DefaultReservationMinutes,
		maxAttempts:        defaultMaxAttempts,
		retryBackoff:       defaultRetryBackoff,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.maxAttempts < 1 {
		o.maxAttempts = 1
	}
	return o
}

func defaultRetryBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond
	b.MaxInterval = 200 * time.Millisecond
	b.MaxElapsedTime = 2 * time.Second
	return b
}
