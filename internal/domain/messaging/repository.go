package messaging

import (
	"context"
	"time"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
)

// ConversationRepository defines persistence for conversations and their participants
type ConversationRepository interface {
	// FindByIDForTenant loads the conversation with its participants
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Conversation, error)
	// FindForParticipant lists conversations userID takes part in, newest activity first.
	// Filter keys: include_archived (bool)
	FindForParticipant(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) ([]Conversation, error)
	CountForParticipant(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) (int64, error)
	// FindDirectBetween returns the live direct conversation between two users, or ErrNotFound
	FindDirectBetween(ctx context.Context, tenantID, userA, userB uuid.UUID) (*Conversation, error)
	// Save persists the conversation and replaces its participant set
	Save(ctx context.Context, c *Conversation) error
	// RecordActivity moves last_message_at forward without touching participants
	RecordActivity(ctx context.Context, tenantID, id uuid.UUID, at time.Time) error
}

// MessageRepository defines persistence for messages
type MessageRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Message, error)
	// FindByConversation lists messages newest first; before, when set, is an exclusive upper bound on created_at
	FindByConversation(ctx context.Context, tenantID, conversationID uuid.UUID, before *time.Time, filter shared.Filter) ([]Message, error)
	CountByConversation(ctx context.Context, tenantID, conversationID uuid.UUID, before *time.Time) (int64, error)
	Save(ctx context.Context, m *Message) error
}
