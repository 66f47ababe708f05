package messaging

import (
	"strings"
	"time"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxContentLength is the longest message body accepted, in characters
const MaxContentLength = 4000

// MessageType classifies a message
type MessageType string

const (
	MessageTypeText   MessageType = "Text"
	MessageTypeFile   MessageType = "File"
	MessageTypeSystem MessageType = "System"
)

// Attachment points at an uploaded object in storage
type Attachment struct {
	Key         string
	Name        string
	ContentType string
}

// Message is a single chat message
type Message struct {
	shared.TenantAggregateRoot
	ConversationID        uuid.UUID   `gorm:"type:uuid;not null;index:idx_message_conversation_created,priority:1"`
	SenderID              uuid.UUID   `gorm:"type:uuid;not null"`
	Content               string      `gorm:"type:varchar(4000)"`
	MessageType           MessageType `gorm:"type:varchar(16);not null"`
	AttachmentKey         string      `gorm:"type:varchar(512)"`
	AttachmentName        string      `gorm:"type:varchar(255)"`
	AttachmentContentType string      `gorm:"type:varchar(128)"`
	ReplyToID             *uuid.UUID  `gorm:"type:uuid"`
	IsEdited              bool        `gorm:"not null"`
	EditedAt              *time.Time
	IsDeleted             bool `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Message) TableName() string {
	return "messaging_messages"
}

// NewMessage creates a Text or File message. A message needs content or an attachment.
func NewMessage(tenantID, conversationID, senderID uuid.UUID, content string, attachment *Attachment, replyToID *uuid.UUID) (*Message, error) {
	if conversationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONVERSATION", "Conversation is required")
	}
	if senderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SENDER", "Sender is required")
	}
	content = strings.TrimSpace(content)
	if err := validateContent(content, attachment != nil); err != nil {
		return nil, err
	}

	m := &Message{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, senderID),
		ConversationID:      conversationID,
		SenderID:            senderID,
		Content:             content,
		MessageType:         MessageTypeText,
		ReplyToID:           replyToID,
	}
	if attachment != nil {
		if strings.TrimSpace(attachment.Key) == "" {
			return nil, shared.NewDomainError("INVALID_ATTACHMENT", "Attachment key is required")
		}
		m.MessageType = MessageTypeFile
		m.AttachmentKey = attachment.Key
		m.AttachmentName = shared.TruncateString(attachment.Name, 255)
		m.AttachmentContentType = shared.TruncateString(attachment.ContentType, 128)
	}
	m.AddDomainEvent(NewMessageSentEvent(m))
	return m, nil
}

// NewSystemMessage creates a System message such as "Alice joined"
func NewSystemMessage(tenantID, conversationID, actorID uuid.UUID, content string) (*Message, error) {
	m, err := NewMessage(tenantID, conversationID, actorID, content, nil, nil)
	if err != nil {
		return nil, err
	}
	m.MessageType = MessageTypeSystem
	m.ClearDomainEvents()
	m.AddDomainEvent(NewMessageSentEvent(m))
	return m, nil
}

// HasAttachment reports whether the message points at a stored file
func (m *Message) HasAttachment() bool {
	return m.AttachmentKey != ""
}

// Edit replaces the content; only the sender may edit a live, non-system message
func (m *Message) Edit(actorID uuid.UUID, content string) error {
	if actorID != m.SenderID {
		return shared.NewDomainError("FORBIDDEN", "Only the sender can edit this message")
	}
	if m.IsDeleted {
		return shared.NewInvalidStateError("Deleted messages cannot be edited")
	}
	if m.MessageType == MessageTypeSystem {
		return shared.NewInvalidStateError("System messages cannot be edited")
	}
	content = strings.TrimSpace(content)
	if err := validateContent(content, m.HasAttachment()); err != nil {
		return err
	}
	if content == m.Content {
		return nil
	}
	now := time.Now()
	m.Content = content
	m.IsEdited = true
	m.EditedAt = &now
	m.Touch()
	m.AddDomainEvent(NewMessageChangedEvent(EventTypeMessageEdited, m))
	return nil
}

// Delete soft-deletes the message and clears its body
func (m *Message) Delete(actorID uuid.UUID) error {
	if actorID != m.SenderID {
		return shared.NewDomainError("FORBIDDEN", "Only the sender can delete this message")
	}
	if m.IsDeleted {
		return shared.NewInvalidStateError("Message is already deleted")
	}
	m.IsDeleted = true
	m.Content = ""
	m.Touch()
	m.AddDomainEvent(NewMessageChangedEvent(EventTypeMessageDeleted, m))
	return nil
}

func validateContent(content string, hasAttachment bool) error {
	if content == "" && !hasAttachment {
		return shared.NewDomainError("INVALID_CONTENT", "Message content or an attachment is required")
	}
	if shared.RuneLen(content) > MaxContentLength {
		return shared.NewDomainError("INVALID_CONTENT", "Message content cannot exceed 4000 characters")
	}
	return nil
}
