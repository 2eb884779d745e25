// Package service implements the security register: identity registration and
// delegation, sites, verifier links, the verification-task state machine and
// certificate issuance.
//
// Every mutating operation runs inside one StoreTx.RunInTx call and every query
// inside one StoreTx.RunInReadTx call. Mutations validate fully before mutating,
// and every operation returns either success or exactly one coded error from
// pkg/domain-errors. Events are emitted inside the same transaction, after all
// checks pass.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"secreg/internal/registry/metrics"
	"secreg/internal/registry/models"
	"secreg/pkg/domain"
	dErrors "secreg/pkg/domain-errors"
	"secreg/pkg/platform/events"
	"secreg/pkg/platform/sentinel"
	"secreg/pkg/requestcontext"
)

const tracerName = "secreg/internal/registry/service"

// Service orchestrates the registry.
type Service struct {
	tx      StoreTx
	events  EventPublisher
	logger  *slog.Logger
	metrics *metrics.Metrics
	policy  Policy
	tracer  trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithEventPublisher(publisher EventPublisher) Option {
	return func(s *Service) {
		s.events = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithPolicy(p Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New constructs a Service.
func New(tx StoreTx, opts ...Option) (*Service, error) {
	if tx == nil {
		return nil, errors.New("store transaction is required")
	}
	s := &Service{
		tx:     tx,
		policy: DefaultPolicy(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.policy.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Policy returns the active rule set.
func (s *Service) Policy() Policy {
	return s.policy
}

// begin opens a span and starts the latency clock. The returned finish func
// normalizes the operation's error, records it, and must be called exactly once.
func (s *Service) begin(ctx context.Context, op string, caller domain.Address) (context.Context, func(error) error) {
	ctx, span := s.tracer.Start(ctx, "registry."+op, trace.WithAttributes(
		attribute.String("registry.operation", op),
		attribute.String("registry.caller", caller.String()),
	))
	start := time.Now()

	return ctx, func(err error) error {
		defer span.End()
		if s.metrics != nil {
			defer s.metrics.ObserveOperation(op, start)
		}
		if err == nil {
			return nil
		}

		err = normalize(err)
		code := dErrors.CodeOf(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(code))
		if s.metrics != nil {
			s.metrics.IncrementOperationError(op, string(code))
		}
		s.logFailure(ctx, op, caller, err)
		return err
	}
}

// normalize guarantees a coded error; anything uncoded is internal.
func normalize(err error) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "registry operation failed")
}

func (s *Service) logFailure(ctx context.Context, op string, caller domain.Address, err error) {
	if s.logger == nil {
		return
	}
	attrs := []any{
		"operation", op,
		"caller", caller.String(),
		"code", string(dErrors.CodeOf(err)),
		"error", err.Error(),
		"request_id", requestcontext.RequestID(ctx),
	}
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInternal, dErrors.CodeTimeout:
		s.logger.ErrorContext(ctx, "registry operation failed", attrs...)
	default:
		s.logger.InfoContext(ctx, "registry operation rejected", attrs...)
	}
}

// logAudit records a committed state change.
func (s *Service) logAudit(ctx context.Context, event events.Type, attributes ...any) {
	if s.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", string(event), "log_type", "audit")
	s.logger.InfoContext(ctx, string(event), args...)
}

// emit publishes e inside the current transaction. actor is the caller, which
// differs from the principal recorded in the payload when a delegate acts.
func (s *Service) emit(ctx context.Context, actor domain.Address, now time.Time, e models.DomainEvent) error {
	if s.events == nil {
		return nil
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode event")
	}
	err = s.events.Emit(ctx, events.Event{
		Type:      e.EventType(),
		Actor:     actor,
		Subject:   e.EventSubject(),
		RequestID: requestcontext.RequestID(ctx),
		Timestamp: now,
		Payload:   payload,
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to publish event")
	}
	return nil
}

// found turns a store lookup error into an existence flag.
func found(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sentinel.ErrNotFound):
		return false, nil
	default:
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read registry")
	}
}

// loadErr maps a store read error to NotFound with msg, or Internal.
func loadErr(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read registry")
}

// writeErr maps a store write error to Conflict with msg, or Internal.
func writeErr(err error, msg string) error {
	if errors.Is(err, sentinel.ErrAlreadyUsed) {
		return dErrors.New(dErrors.CodeConflict, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to write registry")
}

// asValidation converts model invariant violations into client validation errors.
func asValidation(err error) error {
	if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
		return dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
	}
	return err
}
