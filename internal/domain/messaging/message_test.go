package messaging

import (
	"strings"
	"testing"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	sender := uuid.New()
	m, err := NewMessage(uuid.New(), uuid.New(), sender, "  hello  ", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", m.Content)
	assert.Equal(t, MessageTypeText, m.MessageType)
	require.Len(t, m.GetDomainEvents(), 1)
	sent, ok := m.GetDomainEvents()[0].(*MessageSentEvent)
	require.True(t, ok)
	assert.Equal(t, sender, sent.SenderID)
}

func TestNewMessage_ContentRules(t *testing.T) {
	tenant, conv, sender := uuid.New(), uuid.New(), uuid.New()

	_, err := NewMessage(tenant, conv, sender, "   ", nil, nil)
	assert.Error(t, err)

	_, err = NewMessage(tenant, conv, sender, strings.Repeat("é", MaxContentLength), nil, nil)
	assert.NoError(t, err, "limit counts characters not bytes")

	_, err = NewMessage(tenant, conv, sender, strings.Repeat("a", MaxContentLength+1), nil, nil)
	assert.Error(t, err)

	m, err := NewMessage(tenant, conv, sender, "", &Attachment{Key: "k", Name: "report.pdf", ContentType: "application/pdf"}, nil)
	require.NoError(t, err)
	assert.Equal(t, MessageTypeFile, m.MessageType)
	assert.True(t, m.HasAttachment())

	_, err = NewMessage(tenant, conv, sender, "", &Attachment{Name: "x"}, nil)
	assert.Error(t, err)
}

func TestMessage_EditAndDelete(t *testing.T) {
	sender := uuid.New()
	m, err := NewMessage(uuid.New(), uuid.New(), sender, "first", nil, nil)
	require.NoError(t, err)
	m.ClearDomainEvents()

	assert.ErrorIs(t, m.Edit(uuid.New(), "hijack"), shared.ErrForbidden)
	require.NoError(t, m.Edit(sender, "second"))
	assert.True(t, m.IsEdited)
	assert.NotNil(t, m.EditedAt)
	assert.Equal(t, "second", m.Content)

	assert.ErrorIs(t, m.Delete(uuid.New()), shared.ErrForbidden)
	require.NoError(t, m.Delete(sender))
	assert.True(t, m.IsDeleted)
	assert.Empty(t, m.Content)
	assert.ErrorIs(t, m.Delete(sender), shared.ErrInvalidState)
	assert.ErrorIs(t, m.Edit(sender, "third"), shared.ErrInvalidState)

	events := m.GetDomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, EventTypeMessageEdited, events[0].EventType())
	assert.Equal(t, EventTypeMessageDeleted, events[1].EventType())
}

func TestNewSystemMessage_CannotBeEdited(t *testing.T) {
	actor := uuid.New()
	m, err := NewSystemMessage(uuid.New(), uuid.New(), actor, "joined")
	require.NoError(t, err)
	assert.Equal(t, MessageTypeSystem, m.MessageType)
	assert.ErrorIs(t, m.Edit(actor, "changed"), shared.ErrInvalidState)
}
