package shared

import (
	"context"

	"github.com/google/uuid"
)

// EventHandler consumes domain events. EventTypes lists the types it wants;
// an empty list subscribes it to everything.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventPublisher is what application services depend on
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// SubscriptionID identifies one Subscribe call
type SubscriptionID = uuid.UUID

// EventBus routes published events to subscribed handlers. Subscribe with
// explicit eventTypes overrides the handler's own EventTypes.
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string) SubscriptionID
	Unsubscribe(id SubscriptionID)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// PublishEvents drains the aggregate's pending events into publisher.
// With a nil publisher the events are dropped.
func PublishEvents(ctx context.Context, publisher EventPublisher, aggregate AggregateRoot) error {
	events := aggregate.GetDomainEvents()
	aggregate.ClearDomainEvents()
	if publisher == nil || len(events) == 0 {
		return nil
	}
	return publisher.Publish(ctx, events...)
}
