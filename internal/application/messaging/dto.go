package messaging

import (
	"time"

	"github.com/erp/lobapi/internal/domain/messaging"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
)

// =============================================================================
// Conversation DTOs
// =============================================================================

// CreateConversationRequest starts a conversation; the caller becomes its admin
type CreateConversationRequest struct {
	Title          string      `json:"title" binding:"max=200"`
	Type           string      `json:"type" binding:"omitempty,max=16"`
	ParticipantIDs []uuid.UUID `json:"participant_ids" binding:"required,min=1,max=255"`
}

// ParticipantRequest names a user to add to a conversation
type ParticipantRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// ListConversationsRequest pages through the caller's conversations
type ListConversationsRequest struct {
	shared.PageRequest
	IncludeArchived *bool `json:"include_archived"`
}

// ParticipantResponse represents a conversation member
type ParticipantResponse struct {
	UserID            uuid.UUID  `json:"user_id"`
	Role              string     `json:"role"`
	JoinedAt          time.Time  `json:"joined_at"`
	LastReadMessageID *uuid.UUID `json:"last_read_message_id,omitempty"`
	LastReadAt        *time.Time `json:"last_read_at,omitempty"`
}

// ConversationResponse represents a conversation in API responses
type ConversationResponse struct {
	ID              uuid.UUID             `json:"id"`
	TenantID        uuid.UUID             `json:"tenant_id"`
	Title           string                `json:"title"`
	Type            string                `json:"type"`
	CreatedByUserID uuid.UUID             `json:"created_by_user_id"`
	Participants    []ParticipantResponse `json:"participants"`
	IsArchived      bool                  `json:"is_archived"`
	LastMessageAt   *time.Time            `json:"last_message_at,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	Version         int                   `json:"version"`
}

// ToConversationResponse converts a domain Conversation to ConversationResponse
func ToConversationResponse(c *messaging.Conversation) ConversationResponse {
	participants := make([]ParticipantResponse, 0, len(c.Participants))
	for _, p := range c.Participants {
		participants = append(participants, ParticipantResponse{
			UserID:            p.UserID,
			Role:              string(p.Role),
			JoinedAt:          p.JoinedAt,
			LastReadMessageID: p.LastReadMessageID,
			LastReadAt:        p.LastReadAt,
		})
	}
	return ConversationResponse{
		ID:              c.ID,
		TenantID:        c.TenantID,
		Title:           c.Title,
		Type:            string(c.Type),
		CreatedByUserID: c.CreatedByUserID,
		Participants:    participants,
		IsArchived:      c.IsArchived,
		LastMessageAt:   c.LastMessageAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		Version:         c.Version,
	}
}

// =============================================================================
// Message DTOs
// =============================================================================

// AttachmentRequest references an object uploaded through a presigned URL
type AttachmentRequest struct {
	Key         string `json:"key" binding:"required,max=512"`
	Name        string `json:"name" binding:"max=255"`
	ContentType string `json:"content_type" binding:"max=128"`
}

// SendMessageRequest posts a message to a conversation
type SendMessageRequest struct {
	Content    string             `json:"content" binding:"max=4000"`
	ReplyToID  *uuid.UUID         `json:"reply_to_id"`
	Attachment *AttachmentRequest `json:"attachment"`
}

// EditMessageRequest replaces a message body
type EditMessageRequest struct {
	Content string `json:"content" binding:"max=4000"`
}

// MarkReadRequest moves the caller's read pointer
type MarkReadRequest struct {
	MessageID uuid.UUID `json:"message_id" binding:"required"`
}

// ListMessagesRequest pages through a conversation, newest first
type ListMessagesRequest struct {
	shared.PageRequest
	Before *time.Time `json:"before"`
}

// MessageResponse represents a message in API responses
type MessageResponse struct {
	ID                    uuid.UUID  `json:"id"`
	TenantID              uuid.UUID  `json:"tenant_id"`
	ConversationID        uuid.UUID  `json:"conversation_id"`
	SenderID              uuid.UUID  `json:"sender_id"`
	Content               string     `json:"content"`
	MessageType           string     `json:"message_type"`
	AttachmentKey         string     `json:"attachment_key,omitempty"`
	AttachmentName        string     `json:"attachment_name,omitempty"`
	AttachmentContentType string     `json:"attachment_content_type,omitempty"`
	ReplyToID             *uuid.UUID `json:"reply_to_id,omitempty"`
	IsEdited              bool       `json:"is_edited"`
	EditedAt              *time.Time `json:"edited_at,omitempty"`
	IsDeleted             bool       `json:"is_deleted"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// ToMessageResponse converts a domain Message to MessageResponse
func ToMessageResponse(m *messaging.Message) MessageResponse {
	return MessageResponse{
		ID:                    m.ID,
		TenantID:              m.TenantID,
		ConversationID:        m.ConversationID,
		SenderID:              m.SenderID,
		Content:               m.Content,
		MessageType:           string(m.MessageType),
		AttachmentKey:         m.AttachmentKey,
		AttachmentName:        m.AttachmentName,
		AttachmentContentType: m.AttachmentContentType,
		ReplyToID:             m.ReplyToID,
		IsEdited:              m.IsEdited,
		EditedAt:              m.EditedAt,
		IsDeleted:             m.IsDeleted,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

// =============================================================================
// Attachment DTOs
// =============================================================================

// AttachmentUploadRequest asks for a presigned upload URL
type AttachmentUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,min=1,max=255"`
	ContentType string `json:"content_type" binding:"required,max=128"`
	FileSize    int64  `json:"file_size" binding:"required,min=1"`
}

// AttachmentUploadResponse carries the presigned PUT URL and the key to send back with the message
type AttachmentUploadResponse struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"upload_url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AttachmentDownloadResponse carries a presigned GET URL
type AttachmentDownloadResponse struct {
	URL       string    `json:"url"`
	FileName  string    `json:"file_name"`
	ExpiresAt time.Time `json:"expires_at"`
}

func mapSlice[T any, R any](items []T, fn func(*T) R) []R {
	out := make([]R, len(items))
	for i := range items {
		out[i] = fn(&items[i])
	}
	return out
}
