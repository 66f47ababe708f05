package messaging

import (
	"context"
	"testing"

	"github.com/erp/lobapi/internal/domain/messaging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedSend struct {
	tenantID    uuid.UUID
	messageType string
}

type fakeMessageMetrics struct {
	sent []recordedSend
}

func (f *fakeMessageMetrics) RecordMessageSent(_ context.Context, tenantID uuid.UUID, messageType string) {
	f.sent = append(f.sent, recordedSend{tenantID: tenantID, messageType: messageType})
}

func TestMessageSentHandler_RecordsMetric(t *testing.T) {
	tenantID, sender := uuid.New(), uuid.New()
	msg, err := messaging.NewMessage(tenantID, uuid.New(), sender, "hello", nil, nil)
	require.NoError(t, err)
	events := msg.GetDomainEvents()
	require.Len(t, events, 1)

	metrics := &fakeMessageMetrics{}
	h := NewMessageSentHandler(metrics)
	require.NoError(t, h.Handle(context.Background(), events[0]))

	require.Len(t, metrics.sent, 1)
	assert.Equal(t, tenantID, metrics.sent[0].tenantID)
	assert.Equal(t, string(messaging.MessageTypeText), metrics.sent[0].messageType)
	assert.Equal(t, []string{messaging.EventTypeMessageSent}, h.EventTypes())
}

func TestMessageSentHandler_RejectsOtherEvents(t *testing.T) {
	tenantID := uuid.New()
	conv, err := messaging.NewConversation(tenantID, uuid.New(), "", "Direct", []uuid.UUID{uuid.New()})
	require.NoError(t, err)
	event := messaging.NewConversationEvent(messaging.EventTypeConversationArchived, conv)

	assert.Error(t, NewMessageSentHandler(nil).Handle(context.Background(), event))
}
