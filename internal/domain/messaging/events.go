package messaging

import (
	"time"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	AggregateTypeConversation = "Conversation"
	AggregateTypeMessage      = "Message"
)

const (
	EventTypeConversationCreated  = "ConversationCreated"
	EventTypeConversationArchived = "ConversationArchived"
	EventTypeParticipantAdded     = "ParticipantAdded"
	EventTypeParticipantRemoved   = "ParticipantRemoved"
	EventTypeMessageSent          = "MessageSent"
	EventTypeMessageEdited        = "MessageEdited"
	EventTypeMessageDeleted       = "MessageDeleted"
	EventTypeMessageRead          = "MessageRead"
)

// ConversationEvent is published when a conversation is created or archived
type ConversationEvent struct {
	shared.BaseDomainEvent
	ConversationID uuid.UUID        `json:"conversation_id"`
	Type           ConversationType `json:"conversation_type"`
	Title          string           `json:"title"`
	ParticipantIDs []uuid.UUID      `json:"participant_ids"`
}

func NewConversationEvent(eventType string, c *Conversation) *ConversationEvent {
	return &ConversationEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeConversation, c.ID, c.TenantID),
		ConversationID:  c.ID,
		Type:            c.Type,
		Title:           c.Title,
		ParticipantIDs:  c.ParticipantIDs(),
	}
}

// ParticipantEvent is published when membership changes
type ParticipantEvent struct {
	shared.BaseDomainEvent
	ConversationID uuid.UUID `json:"conversation_id"`
	UserID         uuid.UUID `json:"user_id"`
}

func NewParticipantEvent(eventType string, c *Conversation, userID uuid.UUID) *ParticipantEvent {
	return &ParticipantEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeConversation, c.ID, c.TenantID),
		ConversationID:  c.ID,
		UserID:          userID,
	}
}

// MessageSentEvent carries a new message for real-time fan-out
type MessageSentEvent struct {
	shared.BaseDomainEvent
	MessageID      uuid.UUID   `json:"message_id"`
	ConversationID uuid.UUID   `json:"conversation_id"`
	SenderID       uuid.UUID   `json:"sender_id"`
	Content        string      `json:"content"`
	MessageType    MessageType `json:"message_type"`
	AttachmentName string      `json:"attachment_name,omitempty"`
	ReplyToID      *uuid.UUID  `json:"reply_to_id,omitempty"`
	SentAt         time.Time   `json:"sent_at"`
}

func NewMessageSentEvent(m *Message) *MessageSentEvent {
	return &MessageSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMessageSent, AggregateTypeMessage, m.ID, m.TenantID),
		MessageID:       m.ID,
		ConversationID:  m.ConversationID,
		SenderID:        m.SenderID,
		Content:         m.Content,
		MessageType:     m.MessageType,
		AttachmentName:  m.AttachmentName,
		ReplyToID:       m.ReplyToID,
		SentAt:          m.CreatedAt,
	}
}

// MessageChangedEvent is published when a message is edited or deleted
type MessageChangedEvent struct {
	shared.BaseDomainEvent
	MessageID      uuid.UUID `json:"message_id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	Content        string    `json:"content"`
	IsDeleted      bool      `json:"is_deleted"`
}

func NewMessageChangedEvent(eventType string, m *Message) *MessageChangedEvent {
	return &MessageChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeMessage, m.ID, m.TenantID),
		MessageID:       m.ID,
		ConversationID:  m.ConversationID,
		Content:         m.Content,
		IsDeleted:       m.IsDeleted,
	}
}

// MessageReadEvent is published when a participant's read pointer moves
type MessageReadEvent struct {
	shared.BaseDomainEvent
	ConversationID uuid.UUID `json:"conversation_id"`
	MessageID      uuid.UUID `json:"message_id"`
	UserID         uuid.UUID `json:"user_id"`
	ReadAt         time.Time `json:"read_at"`
}

func NewMessageReadEvent(c *Conversation, userID, messageID uuid.UUID, at time.Time) *MessageReadEvent {
	return &MessageReadEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMessageRead, AggregateTypeConversation, c.ID, c.TenantID),
		ConversationID:  c.ID,
		MessageID:       messageID,
		UserID:          userID,
		ReadAt:          at,
	}
}
