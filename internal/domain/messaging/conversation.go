package messaging

import (
	"strings"
	"time"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	maxTitleLength         = 200
	MaxGroupParticipants   = 256
	minGroupParticipants   = 2
	directParticipantCount = 2
)

// ConversationType distinguishes one-to-one from group conversations
type ConversationType string

const (
	ConversationTypeDirect ConversationType = "Direct"
	ConversationTypeGroup  ConversationType = "Group"
)

// ParseConversationType resolves a conversation type; empty means Direct
func ParseConversationType(value string) (ConversationType, error) {
	if strings.TrimSpace(value) == "" {
		return ConversationTypeDirect, nil
	}
	ct, ok := shared.NormalizeEnum(value, ConversationTypeDirect, ConversationTypeGroup)
	if !ok {
		return "", shared.NewDomainError("INVALID_CONVERSATION_TYPE", "Invalid conversation type: "+value)
	}
	return ct, nil
}

// ParticipantRole is a member's role in a conversation
type ParticipantRole string

const (
	ParticipantRoleMember ParticipantRole = "Member"
	ParticipantRoleAdmin  ParticipantRole = "Admin"
)

// Participant is a user taking part in a conversation
type Participant struct {
	shared.BaseEntity
	ConversationID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_participant_conversation_user,priority:1"`
	UserID            uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_participant_conversation_user,priority:2;index"`
	Role              ParticipantRole `gorm:"type:varchar(16);not null"`
	JoinedAt          time.Time       `gorm:"not null"`
	LastReadMessageID *uuid.UUID      `gorm:"type:uuid"`
	LastReadAt        *time.Time
}

// TableName returns the table name for GORM
func (Participant) TableName() string {
	return "messaging_participants"
}

// Conversation is a direct or group chat
type Conversation struct {
	shared.TenantAggregateRoot
	Title           string           `gorm:"type:varchar(200)"`
	Type            ConversationType `gorm:"type:varchar(16);not null"`
	CreatedByUserID uuid.UUID        `gorm:"type:uuid;not null"`
	Participants    []Participant    `gorm:"foreignKey:ConversationID"`
	IsArchived      bool             `gorm:"not null"`
	LastMessageAt   *time.Time       `gorm:"index"`
}

// TableName returns the table name for GORM
func (Conversation) TableName() string {
	return "messaging_conversations"
}

// NewConversation creates a conversation. The creator is always an Admin
// participant; duplicate ids in participantIDs are ignored.
func NewConversation(tenantID, creatorID uuid.UUID, title, conversationType string, participantIDs []uuid.UUID) (*Conversation, error) {
	if creatorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CREATOR", "Creator is required")
	}
	ct, err := ParseConversationType(conversationType)
	if err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if shared.RuneLen(title) > maxTitleLength {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}

	c := &Conversation{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, creatorID),
		Title:               title,
		Type:                ct,
		CreatedByUserID:     creatorID,
	}
	now := time.Now()
	c.Participants = append(c.Participants, c.newParticipant(creatorID, ParticipantRoleAdmin, now))
	for _, id := range participantIDs {
		if id == uuid.Nil || c.IsParticipant(id) {
			continue
		}
		c.Participants = append(c.Participants, c.newParticipant(id, ParticipantRoleMember, now))
	}

	switch ct {
	case ConversationTypeDirect:
		if len(c.Participants) != directParticipantCount {
			return nil, shared.NewDomainError("INVALID_PARTICIPANTS", "Direct conversations need exactly two participants")
		}
	case ConversationTypeGroup:
		if len(c.Participants) < minGroupParticipants || len(c.Participants) > MaxGroupParticipants {
			return nil, shared.NewDomainError("INVALID_PARTICIPANTS", "Group conversations need between 2 and 256 participants")
		}
	}

	c.AddDomainEvent(NewConversationEvent(EventTypeConversationCreated, c))
	return c, nil
}

func (c *Conversation) newParticipant(userID uuid.UUID, role ParticipantRole, at time.Time) Participant {
	return Participant{
		BaseEntity:     shared.NewBaseEntity(),
		ConversationID: c.ID,
		UserID:         userID,
		Role:           role,
		JoinedAt:       at,
	}
}

// Participant returns the participant entry for userID, or nil
func (c *Conversation) Participant(userID uuid.UUID) *Participant {
	for i := range c.Participants {
		if c.Participants[i].UserID == userID {
			return &c.Participants[i]
		}
	}
	return nil
}

// IsParticipant reports whether userID takes part in the conversation
func (c *Conversation) IsParticipant(userID uuid.UUID) bool {
	return c.Participant(userID) != nil
}

// IsAdmin reports whether userID is an Admin participant
func (c *Conversation) IsAdmin(userID uuid.UUID) bool {
	p := c.Participant(userID)
	return p != nil && p.Role == ParticipantRoleAdmin
}

// ParticipantIDs returns the user ids of all participants
func (c *Conversation) ParticipantIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.Participants))
	for _, p := range c.Participants {
		ids = append(ids, p.UserID)
	}
	return ids
}

// EnsureParticipant returns FORBIDDEN unless userID takes part in the conversation
func (c *Conversation) EnsureParticipant(userID uuid.UUID) error {
	if !c.IsParticipant(userID) {
		return shared.NewDomainError("FORBIDDEN", "You are not a participant of this conversation")
	}
	return nil
}

// AddParticipant adds userID to a group conversation on behalf of an Admin
func (c *Conversation) AddParticipant(actorID, userID uuid.UUID) error {
	if c.Type != ConversationTypeGroup {
		return shared.NewInvalidStateError("Participants can only be added to group conversations")
	}
	if c.IsArchived {
		return shared.NewInvalidStateError("Conversation is archived")
	}
	if !c.IsAdmin(actorID) {
		return shared.NewDomainError("FORBIDDEN", "Only conversation admins can add participants")
	}
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_PARTICIPANTS", "User is required")
	}
	if c.IsParticipant(userID) {
		return shared.NewDomainError("ALREADY_EXISTS", "User is already a participant")
	}
	if len(c.Participants) >= MaxGroupParticipants {
		return shared.NewInvalidStateError("Group conversation is full")
	}
	c.Participants = append(c.Participants, c.newParticipant(userID, ParticipantRoleMember, time.Now()))
	c.Touch()
	c.AddDomainEvent(NewParticipantEvent(EventTypeParticipantAdded, c, userID))
	return nil
}

// RemoveParticipant removes userID; Admins may remove anyone, members only themselves
func (c *Conversation) RemoveParticipant(actorID, userID uuid.UUID) error {
	if c.Type != ConversationTypeGroup {
		return shared.NewInvalidStateError("Participants cannot be removed from direct conversations")
	}
	if actorID != userID && !c.IsAdmin(actorID) {
		return shared.NewDomainError("FORBIDDEN", "Only conversation admins can remove other participants")
	}
	idx := -1
	for i := range c.Participants {
		if c.Participants[i].UserID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return shared.NewNotFoundError("Participant", userID)
	}
	if len(c.Participants) <= minGroupParticipants {
		return shared.NewInvalidStateError("Group conversations need at least two participants")
	}
	c.Participants = append(c.Participants[:idx], c.Participants[idx+1:]...)
	c.Touch()
	c.AddDomainEvent(NewParticipantEvent(EventTypeParticipantRemoved, c, userID))
	return nil
}

// Archive hides the conversation from active lists
func (c *Conversation) Archive(actorID uuid.UUID) error {
	if err := c.EnsureParticipant(actorID); err != nil {
		return err
	}
	if c.IsArchived {
		return shared.NewInvalidStateError("Conversation is already archived")
	}
	c.IsArchived = true
	c.Touch()
	c.AddDomainEvent(NewConversationEvent(EventTypeConversationArchived, c))
	return nil
}

// RecordMessage moves the conversation's activity timestamp forward
func (c *Conversation) RecordMessage(at time.Time) {
	if c.LastMessageAt == nil || at.After(*c.LastMessageAt) {
		c.LastMessageAt = &at
	}
	c.UpdatedAt = time.Now()
}

// MarkRead moves userID's read pointer to messageID
func (c *Conversation) MarkRead(userID, messageID uuid.UUID, at time.Time) error {
	p := c.Participant(userID)
	if p == nil {
		return shared.NewDomainError("FORBIDDEN", "You are not a participant of this conversation")
	}
	if at.IsZero() {
		at = time.Now()
	}
	p.LastReadMessageID = &messageID
	p.LastReadAt = &at
	c.AddDomainEvent(NewMessageReadEvent(c, userID, messageID, at))
	return nil
}
