package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/lobapi/internal/domain/messaging"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// busPublisher dispatches synchronously to the hub, like the in-memory event bus
type busPublisher struct {
	hub *Hub
}

func (p *busPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, e := range events {
		if err := p.hub.Handle(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

type hubFixture struct {
	*messageFixture
	hub         *Hub
	tracker     *MemoryConnectionTracker
	adminConn   *fakeConnection
	memberConn  *fakeConnection
	memberConn2 *fakeConnection
}

func newHubFixture(t *testing.T) *hubFixture {
	t.Helper()
	f := newMessageFixture(t)
	tracker := NewMemoryConnectionTracker()
	hub := NewHub(f.convRepo, f.svc, tracker, nil)
	f.svc.SetEventPublisher(&busPublisher{hub: hub})

	h := &hubFixture{
		messageFixture: f,
		hub:            hub,
		tracker:        tracker,
		adminConn:      newFakeConnection(f.tenantID, f.admin, 8),
		memberConn:     newFakeConnection(f.tenantID, f.member, 8),
		memberConn2:    newFakeConnection(f.tenantID, f.member, 8),
	}
	for _, c := range []*fakeConnection{h.adminConn, h.memberConn, h.memberConn2} {
		require.NoError(t, hub.Register(f.ctx, c))
	}
	return h
}

func TestHub_SendMessageFansOutToAllParticipantConnections(t *testing.T) {
	h := newHubFixture(t)
	h.msgRepo.On("Save", h.ctx, mock.Anything).Return(nil)
	h.convRepo.On("RecordActivity", h.ctx, h.tenantID, h.conversation.ID, mock.Anything).Return(nil)

	frame := `{"method":"SendMessageToConversation","args":{"conversationId":"` + h.conversation.ID.String() + `","content":"Truck arrived"}}`
	h.hub.HandleFrame(h.ctx, h.adminConn, []byte(frame))

	for _, conn := range []*fakeConnection{h.adminConn, h.memberConn, h.memberConn2} {
		frames := conn.Frames()
		require.Len(t, frames, 1)
		assert.Equal(t, ClientEventReceiveMessage, frames[0].Event)
		payload, ok := frames[0].Data.(ReceiveMessagePayload)
		require.True(t, ok)
		assert.Equal(t, "Truck arrived", payload.Content)
		assert.Equal(t, h.admin, payload.SenderID)
	}
}

func TestHub_TypingSkipsSender(t *testing.T) {
	h := newHubFixture(t)

	frame := `{"method":"SendTypingIndicator","args":{"conversationId":"` + h.conversation.ID.String() + `","isTyping":true}}`
	h.hub.HandleFrame(h.ctx, h.memberConn, []byte(frame))

	assert.Len(t, h.memberConn.Frames(), 0)
	assert.Len(t, h.memberConn2.Frames(), 0)
	frames := h.adminConn.Frames()
	require.Len(t, frames, 1)
	assert.Equal(t, ClientEventUserTyping, frames[0].Event)
	assert.Equal(t, UserTypingPayload{ConversationID: h.conversation.ID, UserID: h.member, IsTyping: true}, frames[0].Data)
}

func TestHub_ReadNotification(t *testing.T) {
	h := newHubFixture(t)
	m := h.existingMessage(t, h.admin, "sign the PO")
	h.convRepo.On("Save", h.ctx, h.conversation).Return(nil)

	frame := `{"method":"SendMessageReadNotification","args":{"conversationId":"` + h.conversation.ID.String() + `","messageId":"` + m.ID.String() + `"}}`
	h.hub.HandleFrame(h.ctx, h.memberConn, []byte(frame))

	frames := h.adminConn.Frames()
	require.Len(t, frames, 1)
	assert.Equal(t, ClientEventMessageRead, frames[0].Event)
	payload := frames[0].Data.(MessageReadPayload)
	assert.Equal(t, m.ID, payload.MessageID)
	assert.Equal(t, h.member, payload.UserID)
	assert.Empty(t, h.memberConn2.Frames())
}

func TestHub_ErrorsAreReportedToCaller(t *testing.T) {
	h := newHubFixture(t)
	outsider := newFakeConnection(h.tenantID, uuid.New(), 8)
	require.NoError(t, h.hub.Register(h.ctx, outsider))

	tests := []struct {
		name  string
		frame string
		code  string
	}{
		{"malformed json", `{"method":`, "INVALID_FRAME"},
		{"unknown method", `{"method":"Shout","args":{}}`, "UNKNOWN_METHOD"},
		{"missing args", `{"method":"SendTypingIndicator"}`, "INVALID_FRAME"},
		{"not a participant", `{"method":"SendTypingIndicator","args":{"conversationId":"` + h.conversation.ID.String() + `"}}`, "FORBIDDEN"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h.hub.HandleFrame(h.ctx, outsider, []byte(tt.frame))
			frames := outsider.Frames()
			require.Len(t, frames, i+1)
			last := frames[i]
			assert.Equal(t, ClientEventError, last.Event)
			assert.Equal(t, tt.code, last.Data.(ErrorPayload).Code)
		})
	}
	assert.Empty(t, h.adminConn.Frames())
}

func TestHub_InternalErrorIsMasked(t *testing.T) {
	h := newHubFixture(t)
	missing := uuid.New()
	h.convRepo.On("FindByIDForTenant", h.ctx, h.tenantID, missing).Return(nil, errors.New("connection refused"))

	frame := `{"method":"SendTypingIndicator","args":{"conversationId":"` + missing.String() + `","isTyping":false}}`
	h.hub.HandleFrame(h.ctx, h.adminConn, []byte(frame))

	frames := h.adminConn.Frames()
	require.Len(t, frames, 1)
	payload := frames[0].Data.(ErrorPayload)
	assert.Equal(t, "INTERNAL_ERROR", payload.Code)
	assert.NotContains(t, payload.Message, "refused")
}

func TestHub_FullBufferDropsFrame(t *testing.T) {
	h := newHubFixture(t)
	slow := newFakeConnection(h.tenantID, h.admin, 0)
	require.NoError(t, h.hub.Register(h.ctx, slow))

	h.hub.Deliver(h.ctx, h.tenantID, []uuid.UUID{h.admin}, nil, OutboundFrame{Event: ClientEventUserTyping})

	assert.Empty(t, slow.Frames())
	assert.Len(t, h.adminConn.Frames(), 1)
}

func TestHub_Unregister(t *testing.T) {
	h := newHubFixture(t)
	assert.Equal(t, 3, h.hub.ConnectionCount())

	h.hub.Unregister(h.ctx, h.memberConn)
	h.hub.Unregister(h.ctx, h.memberConn2)

	online, err := h.tracker.IsOnline(h.ctx, h.tenantID, h.member)
	require.NoError(t, err)
	assert.False(t, online)
	assert.Equal(t, 1, h.hub.ConnectionCount())
}

func TestHub_TouchKeepsConnectionTracked(t *testing.T) {
	h := newHubFixture(t)
	require.NoError(t, h.tracker.RemoveConnection(h.ctx, h.tenantID, h.admin, h.adminConn.ID()))

	require.NoError(t, h.hub.Touch(h.ctx, h.adminConn))

	ids, err := h.tracker.GetConnections(h.ctx, h.tenantID, h.admin)
	require.NoError(t, err)
	assert.Equal(t, []string{h.adminConn.ID()}, ids)
}

func TestHub_HandleIgnoresOtherEvents(t *testing.T) {
	h := newHubFixture(t)
	event := messaging.NewConversationEvent(messaging.EventTypeConversationArchived, h.conversation)

	require.NoError(t, h.hub.Handle(h.ctx, event))
	assert.Empty(t, h.adminConn.Frames())
	assert.ElementsMatch(t, []string{messaging.EventTypeMessageSent, messaging.EventTypeMessageRead}, h.hub.EventTypes())
}

func TestMemoryConnectionTracker(t *testing.T) {
	ctx := context.Background()
	tracker := NewMemoryConnectionTracker()
	tenantA, tenantB, user := uuid.New(), uuid.New(), uuid.New()

	require.NoError(t, tracker.AddConnection(ctx, tenantA, user, "b"))
	require.NoError(t, tracker.AddConnection(ctx, tenantA, user, "a"))

	ids, err := tracker.GetConnections(ctx, tenantA, user)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	online, err := tracker.IsOnline(ctx, tenantB, user)
	require.NoError(t, err)
	assert.False(t, online, "connections are scoped per tenant")

	require.NoError(t, tracker.RemoveConnection(ctx, tenantA, user, "a"))
	require.NoError(t, tracker.RemoveConnection(ctx, tenantA, user, "b"))
	online, _ = tracker.IsOnline(ctx, tenantA, user)
	assert.False(t, online)
}
