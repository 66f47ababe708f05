// Package event delivers domain events from the application services to
// in-process subscribers such as the realtime hub and metric recorders.
package event

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrBusStopped is returned by Publish after Stop
var ErrBusStopped = errors.New("event bus stopped")

const tracerName = "github.com/erp/lobapi/internal/infrastructure/event"

// InMemoryEventBus dispatches events synchronously, in subscription order.
// A failing or panicking handler is logged and does not stop the others.
type InMemoryEventBus struct {
	logger *zap.Logger
	tracer trace.Tracer

	mu       sync.RWMutex
	byType   map[string][]subscription
	wildcard []subscription

	stopped atomic.Bool
}

type subscription struct {
	id      shared.SubscriptionID
	handler shared.EventHandler
}

// Option configures an InMemoryEventBus
type Option func(*InMemoryEventBus)

// WithTracerProvider traces dispatches on tp instead of the global provider
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(b *InMemoryEventBus) {
		b.tracer = tp.Tracer(tracerName)
	}
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger, opts ...Option) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &InMemoryEventBus{
		logger: logger,
		tracer: otel.Tracer(tracerName),
		byType: make(map[string][]subscription),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish hands every event to its subscribers
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if b.stopped.Load() {
		return ErrBusStopped
	}
	for _, e := range events {
		for _, h := range b.handlers(e.EventType()) {
			if err := b.dispatch(ctx, h, e); err != nil {
				b.logger.Error("event handler failed",
					zap.String("event_type", e.EventType()),
					zap.String("event_id", e.EventID().String()),
					zap.String("tenant_id", e.TenantID().String()),
					zap.Time("occurred_at", e.OccurredAt()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers handler for eventTypes, falling back to the handler's
// own EventTypes. A handler with no types at all receives every event.
// Subscribing the same handler twice delivers each event to it twice.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) shared.SubscriptionID {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	sub := subscription{id: uuid.New(), handler: handler}

	b.mu.Lock()
	if len(eventTypes) == 0 {
		b.wildcard = append(b.wildcard, sub)
	}
	for _, t := range eventTypes {
		b.byType[t] = append(b.byType[t], sub)
	}
	b.mu.Unlock()

	b.logger.Debug("event handler subscribed",
		zap.String("subscription_id", sub.id.String()),
		zap.Strings("event_types", eventTypes),
	)
	return sub.id
}

// Unsubscribe removes the subscription from every event type. Unknown ids are ignored.
func (b *InMemoryEventBus) Unsubscribe(id shared.SubscriptionID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	match := func(s subscription) bool { return s.id == id }
	b.wildcard = slices.DeleteFunc(b.wildcard, match)
	for t, subs := range b.byType {
		if subs = slices.DeleteFunc(subs, match); len(subs) == 0 {
			delete(b.byType, t)
		} else {
			b.byType[t] = subs
		}
	}
	b.logger.Debug("event handler unsubscribed", zap.String("subscription_id", id.String()))
}

// Start accepts events again after a Stop
func (b *InMemoryEventBus) Start(context.Context) error {
	b.stopped.Store(false)
	b.logger.Info("event bus started")
	return nil
}

// Stop rejects further events. Dispatch is synchronous, so nothing is in flight
// once the publishers have returned.
func (b *InMemoryEventBus) Stop(context.Context) error {
	b.stopped.Store(true)
	b.logger.Info("event bus stopped")
	return nil
}

func (b *InMemoryEventBus) handlers(eventType string) []shared.EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	subs := slices.Concat(b.byType[eventType], b.wildcard)
	hs := make([]shared.EventHandler, len(subs))
	for i, s := range subs {
		hs[i] = s.handler
	}
	return hs
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, h shared.EventHandler, e shared.DomainEvent) (err error) {
	ctx, span := b.tracer.Start(ctx, "event "+e.EventType(),
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("event.type", e.EventType()),
			attribute.String("event.id", e.EventID().String()),
			attribute.String("tenant.id", e.TenantID().String()),
			attribute.String("aggregate.type", e.AggregateType()),
			attribute.String("aggregate.id", e.AggregateID().String()),
		),
	)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	return h.Handle(ctx, e)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
