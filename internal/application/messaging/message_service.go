package messaging

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/erp/lobapi/internal/domain/messaging"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ObjectStorageService presigns access to attachment objects.
// Implemented by the S3 adapter in the storage package.
type ObjectStorageService interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// AllowedAttachmentTypes is the content-type whitelist for message attachments.
// SVG is excluded because it can carry script.
var AllowedAttachmentTypes = map[string]bool{
	"image/jpeg":         true,
	"image/png":          true,
	"image/gif":          true,
	"image/webp":         true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"text/plain":      true,
	"text/csv":        true,
	"application/zip": true,
}

// AttachmentConfig holds attachment limits and URL lifetimes
type AttachmentConfig struct {
	MaxSize           int64
	UploadURLExpiry   time.Duration
	DownloadURLExpiry time.Duration
}

// DefaultAttachmentConfig returns the default attachment configuration
func DefaultAttachmentConfig() AttachmentConfig {
	return AttachmentConfig{
		MaxSize:           25 << 20,
		UploadURLExpiry:   15 * time.Minute,
		DownloadURLExpiry: time.Hour,
	}
}

// MessageService handles sending, editing and reading messages
type MessageService struct {
	conversationRepo messaging.ConversationRepository
	messageRepo      messaging.MessageRepository
	storage          ObjectStorageService
	config           AttachmentConfig
	eventPublisher   shared.EventPublisher
	logger           *zap.Logger
	now              func() time.Time
}

// NewMessageService creates a new MessageService; storage may be nil, which disables attachments
func NewMessageService(
	conversationRepo messaging.ConversationRepository,
	messageRepo messaging.MessageRepository,
	storage ObjectStorageService,
	logger *zap.Logger,
) *MessageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageService{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		storage:          storage,
		config:           DefaultAttachmentConfig(),
		logger:           logger,
		now:              time.Now,
	}
}

// SetEventPublisher sets the event publisher
func (s *MessageService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetConfig sets the attachment configuration
func (s *MessageService) SetConfig(config AttachmentConfig) {
	s.config = config
}

// Send posts a message to a conversation the sender takes part in
func (s *MessageService) Send(ctx context.Context, tenantID, senderID, conversationID uuid.UUID, req SendMessageRequest) (*MessageResponse, error) {
	c, err := s.loadConversation(ctx, tenantID, senderID, conversationID)
	if err != nil {
		return nil, err
	}
	if c.IsArchived {
		return nil, shared.NewInvalidStateError("Conversation is archived")
	}

	if req.ReplyToID != nil {
		parent, err := s.messageRepo.FindByIDForTenant(ctx, tenantID, *req.ReplyToID)
		if err != nil {
			return nil, err
		}
		if parent.ConversationID != conversationID {
			return nil, shared.NewDomainError("INVALID_REPLY", "Replied message belongs to another conversation")
		}
	}

	var attachment *messaging.Attachment
	if req.Attachment != nil {
		attachment, err = s.verifyAttachment(ctx, tenantID, conversationID, req.Attachment)
		if err != nil {
			return nil, err
		}
	}

	m, err := messaging.NewMessage(tenantID, conversationID, senderID, req.Content, attachment, req.ReplyToID)
	if err != nil {
		return nil, err
	}
	if err := s.messageRepo.Save(ctx, m); err != nil {
		return nil, err
	}
	if err := s.conversationRepo.RecordActivity(ctx, tenantID, conversationID, m.CreatedAt); err != nil {
		s.logger.Warn("failed to record conversation activity",
			zap.String("conversation_id", conversationID.String()),
			zap.Error(err),
		)
	}
	publishEvents(ctx, s.eventPublisher, s.logger, m)

	s.logger.Info("message sent",
		zap.String("tenant_id", tenantID.String()),
		zap.String("conversation_id", conversationID.String()),
		zap.String("message_id", m.ID.String()),
		zap.String("message_type", string(m.MessageType)),
	)
	response := ToMessageResponse(m)
	return &response, nil
}

// Edit replaces a message body; only the sender may edit
func (s *MessageService) Edit(ctx context.Context, tenantID, actorID, messageID uuid.UUID, req EditMessageRequest) (*MessageResponse, error) {
	return s.mutate(ctx, tenantID, messageID, "message edited", func(m *messaging.Message) error {
		return m.Edit(actorID, req.Content)
	})
}

// Delete soft-deletes a message; only the sender may delete
func (s *MessageService) Delete(ctx context.Context, tenantID, actorID, messageID uuid.UUID) error {
	var attachmentKey string
	_, err := s.mutate(ctx, tenantID, messageID, "message deleted", func(m *messaging.Message) error {
		attachmentKey = m.AttachmentKey
		return m.Delete(actorID)
	})
	if err != nil {
		return err
	}
	if attachmentKey != "" && s.storage != nil {
		if err := s.storage.DeleteObject(ctx, attachmentKey); err != nil {
			s.logger.Warn("failed to delete attachment object",
				zap.String("message_id", messageID.String()),
				zap.String("key", attachmentKey),
				zap.Error(err),
			)
		}
	}
	return nil
}

// MarkRead moves the caller's read pointer to a message of the conversation
func (s *MessageService) MarkRead(ctx context.Context, tenantID, actorID, conversationID uuid.UUID, req MarkReadRequest) (*ConversationResponse, error) {
	c, err := s.loadConversation(ctx, tenantID, actorID, conversationID)
	if err != nil {
		return nil, err
	}
	m, err := s.messageRepo.FindByIDForTenant(ctx, tenantID, req.MessageID)
	if err != nil {
		return nil, err
	}
	if m.ConversationID != conversationID {
		return nil, shared.NewNotFoundError("Message", req.MessageID)
	}
	if err := c.MarkRead(actorID, m.ID, s.now()); err != nil {
		return nil, err
	}
	if err := s.conversationRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, c)

	s.logger.Debug("message read",
		zap.String("conversation_id", conversationID.String()),
		zap.String("message_id", m.ID.String()),
		zap.String("user_id", actorID.String()),
	)
	response := ToConversationResponse(c)
	return &response, nil
}

// List pages through a conversation's messages, newest first
func (s *MessageService) List(ctx context.Context, tenantID, actorID, conversationID uuid.UUID, req ListMessagesRequest) (shared.Paginated[MessageResponse], error) {
	if _, err := s.loadConversation(ctx, tenantID, actorID, conversationID); err != nil {
		return shared.Paginated[MessageResponse]{}, err
	}
	filter := req.ToFilter()

	items, err := s.messageRepo.FindByConversation(ctx, tenantID, conversationID, req.Before, filter)
	if err != nil {
		return shared.Paginated[MessageResponse]{}, err
	}
	total, err := s.messageRepo.CountByConversation(ctx, tenantID, conversationID, req.Before)
	if err != nil {
		return shared.Paginated[MessageResponse]{}, err
	}
	return shared.NewPaginated(mapSlice(items, ToMessageResponse), total, filter.Page, filter.PageSize), nil
}

// RequestAttachmentUpload returns a presigned PUT URL for a new attachment
func (s *MessageService) RequestAttachmentUpload(ctx context.Context, tenantID, actorID, conversationID uuid.UUID, req AttachmentUploadRequest) (*AttachmentUploadResponse, error) {
	if s.storage == nil {
		return nil, shared.NewInvalidStateError("Attachment storage is not configured")
	}
	if _, err := s.loadConversation(ctx, tenantID, actorID, conversationID); err != nil {
		return nil, err
	}
	if !AllowedAttachmentTypes[strings.ToLower(req.ContentType)] {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE",
			fmt.Sprintf("Content type '%s' is not allowed", req.ContentType))
	}
	if req.FileSize <= 0 || req.FileSize > s.config.MaxSize {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE",
			fmt.Sprintf("File size must be between 1 and %d bytes", s.config.MaxSize))
	}

	key := AttachmentKey(tenantID, conversationID, uuid.New(), req.FileName)
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, req.ContentType, s.config.UploadURLExpiry)
	if err != nil {
		s.logger.Error("failed to presign attachment upload", zap.String("key", key), zap.Error(err))
		return nil, shared.NewDomainError("UPLOAD_URL_FAILED", "Failed to generate upload URL")
	}
	return &AttachmentUploadResponse{Key: key, UploadURL: url, Method: "PUT", ExpiresAt: expiresAt}, nil
}

// AttachmentDownloadURL returns a presigned GET URL for a message's attachment
func (s *MessageService) AttachmentDownloadURL(ctx context.Context, tenantID, actorID, messageID uuid.UUID) (*AttachmentDownloadResponse, error) {
	if s.storage == nil {
		return nil, shared.NewInvalidStateError("Attachment storage is not configured")
	}
	m, err := s.messageRepo.FindByIDForTenant(ctx, tenantID, messageID)
	if err != nil {
		return nil, err
	}
	if _, err := s.loadConversation(ctx, tenantID, actorID, m.ConversationID); err != nil {
		return nil, err
	}
	if m.IsDeleted || !m.HasAttachment() {
		return nil, shared.NewNotFoundError("Attachment", messageID)
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, m.AttachmentKey, s.config.DownloadURLExpiry)
	if err != nil {
		s.logger.Error("failed to presign attachment download", zap.String("key", m.AttachmentKey), zap.Error(err))
		return nil, shared.NewDomainError("DOWNLOAD_URL_FAILED", "Failed to generate download URL")
	}
	return &AttachmentDownloadResponse{URL: url, FileName: m.AttachmentName, ExpiresAt: expiresAt}, nil
}

// AttachmentKey builds the storage key messaging/<tenant>/<conversation>/<id>/<file>
func AttachmentKey(tenantID, conversationID, objectID uuid.UUID, fileName string) string {
	return attachmentPrefix(tenantID, conversationID) + objectID.String() + "/" + sanitizeFileName(fileName)
}

func attachmentPrefix(tenantID, conversationID uuid.UUID) string {
	return "messaging/" + tenantID.String() + "/" + conversationID.String() + "/"
}

func sanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." || name == ".." || name == "_" {
		return "file"
	}
	return name
}

func (s *MessageService) verifyAttachment(ctx context.Context, tenantID, conversationID uuid.UUID, req *AttachmentRequest) (*messaging.Attachment, error) {
	if s.storage == nil {
		return nil, shared.NewInvalidStateError("Attachment storage is not configured")
	}
	if !strings.HasPrefix(req.Key, attachmentPrefix(tenantID, conversationID)) {
		return nil, shared.NewDomainError("INVALID_ATTACHMENT", "Attachment does not belong to this conversation")
	}
	exists, err := s.storage.ObjectExists(ctx, req.Key)
	if err != nil {
		return nil, shared.NewDomainError("STORAGE_CHECK_FAILED", "Failed to verify upload")
	}
	if !exists {
		return nil, shared.NewDomainError("INVALID_ATTACHMENT", "Attachment has not been uploaded")
	}
	name := req.Name
	if name == "" {
		name = filepath.Base(req.Key)
	}
	return &messaging.Attachment{Key: req.Key, Name: name, ContentType: req.ContentType}, nil
}

func (s *MessageService) loadConversation(ctx context.Context, tenantID, actorID, conversationID uuid.UUID) (*messaging.Conversation, error) {
	c, err := s.conversationRepo.FindByIDForTenant(ctx, tenantID, conversationID)
	if err != nil {
		return nil, err
	}
	if err := c.EnsureParticipant(actorID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *MessageService) mutate(ctx context.Context, tenantID, messageID uuid.UUID, msg string, fn func(*messaging.Message) error) (*MessageResponse, error) {
	m, err := s.messageRepo.FindByIDForTenant(ctx, tenantID, messageID)
	if err != nil {
		return nil, err
	}
	if err := fn(m); err != nil {
		return nil, err
	}
	if len(m.GetDomainEvents()) > 0 {
		if err := s.messageRepo.Save(ctx, m); err != nil {
			return nil, err
		}
		publishEvents(ctx, s.eventPublisher, s.logger, m)
		s.logger.Info(msg,
			zap.String("message_id", m.ID.String()),
			zap.String("conversation_id", m.ConversationID.String()),
		)
	}
	response := ToMessageResponse(m)
	return &response, nil
}
