package messaging

import (
	"context"
	"fmt"

	"github.com/erp/lobapi/internal/domain/messaging"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
)

// MessageMetrics records sent messages
type MessageMetrics interface {
	RecordMessageSent(ctx context.Context, tenantID uuid.UUID, messageType string)
}

// MessageSentHandler counts sent messages per tenant and type
type MessageSentHandler struct {
	metrics MessageMetrics
}

// NewMessageSentHandler creates a MessageSentHandler
func NewMessageSentHandler(metrics MessageMetrics) *MessageSentHandler {
	return &MessageSentHandler{metrics: metrics}
}

// EventTypes returns the event types this handler is interested in
func (h *MessageSentHandler) EventTypes() []string {
	return []string{messaging.EventTypeMessageSent}
}

// Handle processes a MessageSentEvent
func (h *MessageSentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	sent, ok := event.(*messaging.MessageSentEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			messaging.EventTypeMessageSent, event.EventType())
	}
	if h.metrics != nil {
		h.metrics.RecordMessageSent(ctx, sent.TenantID(), string(sent.MessageType))
	}
	return nil
}

var _ shared.EventHandler = (*MessageSentHandler)(nil)
