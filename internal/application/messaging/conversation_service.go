package messaging

import (
	"context"
	"errors"

	"github.com/erp/lobapi/internal/domain/messaging"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConversationService handles conversation membership and listing
type ConversationService struct {
	conversationRepo messaging.ConversationRepository
	eventPublisher   shared.EventPublisher
	logger           *zap.Logger
}

// NewConversationService creates a new ConversationService
func NewConversationService(conversationRepo messaging.ConversationRepository, logger *zap.Logger) *ConversationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversationService{conversationRepo: conversationRepo, logger: logger}
}

// SetEventPublisher sets the event publisher
func (s *ConversationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create starts a conversation with the caller as admin. Asking for a direct
// conversation that already exists returns the existing one.
func (s *ConversationService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateConversationRequest) (*ConversationResponse, error) {
	convType, err := messaging.ParseConversationType(req.Type)
	if err != nil {
		return nil, err
	}

	if convType == messaging.ConversationTypeDirect {
		if other, ok := singleOther(actorID, req.ParticipantIDs); ok {
			existing, err := s.conversationRepo.FindDirectBetween(ctx, tenantID, actorID, other)
			if err == nil {
				response := ToConversationResponse(existing)
				return &response, nil
			}
			if !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
		}
	}

	c, err := messaging.NewConversation(tenantID, actorID, req.Title, string(convType), req.ParticipantIDs)
	if err != nil {
		return nil, err
	}
	if err := s.conversationRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, c)

	s.logger.Info("conversation created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("conversation_id", c.ID.String()),
		zap.String("type", string(c.Type)),
		zap.Int("participants", len(c.Participants)),
	)
	response := ToConversationResponse(c)
	return &response, nil
}

// GetByID returns a conversation the caller takes part in
func (s *ConversationService) GetByID(ctx context.Context, tenantID, actorID, conversationID uuid.UUID) (*ConversationResponse, error) {
	c, err := s.load(ctx, tenantID, actorID, conversationID)
	if err != nil {
		return nil, err
	}
	response := ToConversationResponse(c)
	return &response, nil
}

// ListMine lists the caller's conversations, most recent activity first
func (s *ConversationService) ListMine(ctx context.Context, tenantID, actorID uuid.UUID, req ListConversationsRequest) (shared.Paginated[ConversationResponse], error) {
	filter := req.ToFilter().With("include_archived", req.IncludeArchived)

	items, err := s.conversationRepo.FindForParticipant(ctx, tenantID, actorID, filter)
	if err != nil {
		return shared.Paginated[ConversationResponse]{}, err
	}
	total, err := s.conversationRepo.CountForParticipant(ctx, tenantID, actorID, filter)
	if err != nil {
		return shared.Paginated[ConversationResponse]{}, err
	}
	return shared.NewPaginated(mapSlice(items, ToConversationResponse), total, filter.Page, filter.PageSize), nil
}

// AddParticipant adds a user to a group conversation
func (s *ConversationService) AddParticipant(ctx context.Context, tenantID, actorID, conversationID uuid.UUID, req ParticipantRequest) (*ConversationResponse, error) {
	return s.mutate(ctx, tenantID, actorID, conversationID, "participant added", func(c *messaging.Conversation) error {
		return c.AddParticipant(actorID, req.UserID)
	})
}

// RemoveParticipant removes a user from a group conversation; members may remove themselves
func (s *ConversationService) RemoveParticipant(ctx context.Context, tenantID, actorID, conversationID, userID uuid.UUID) (*ConversationResponse, error) {
	return s.mutate(ctx, tenantID, actorID, conversationID, "participant removed", func(c *messaging.Conversation) error {
		return c.RemoveParticipant(actorID, userID)
	})
}

// Archive archives a conversation
func (s *ConversationService) Archive(ctx context.Context, tenantID, actorID, conversationID uuid.UUID) (*ConversationResponse, error) {
	return s.mutate(ctx, tenantID, actorID, conversationID, "conversation archived", func(c *messaging.Conversation) error {
		return c.Archive(actorID)
	})
}

func (s *ConversationService) load(ctx context.Context, tenantID, actorID, conversationID uuid.UUID) (*messaging.Conversation, error) {
	c, err := s.conversationRepo.FindByIDForTenant(ctx, tenantID, conversationID)
	if err != nil {
		return nil, err
	}
	if err := c.EnsureParticipant(actorID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ConversationService) mutate(ctx context.Context, tenantID, actorID, conversationID uuid.UUID, msg string, fn func(*messaging.Conversation) error) (*ConversationResponse, error) {
	c, err := s.load(ctx, tenantID, actorID, conversationID)
	if err != nil {
		return nil, err
	}
	version := c.Version
	if err := fn(c); err != nil {
		return nil, err
	}
	if c.Version != version {
		if err := s.conversationRepo.Save(ctx, c); err != nil {
			return nil, err
		}
		publishEvents(ctx, s.eventPublisher, s.logger, c)
		s.logger.Info(msg,
			zap.String("conversation_id", c.ID.String()),
			zap.String("actor_id", actorID.String()),
		)
	}

	response := ToConversationResponse(c)
	return &response, nil
}

// singleOther returns the one participant other than actorID, if there is exactly one
func singleOther(actorID uuid.UUID, ids []uuid.UUID) (uuid.UUID, bool) {
	var other uuid.UUID
	for _, id := range ids {
		if id == actorID || id == uuid.Nil || id == other {
			continue
		}
		if other != uuid.Nil {
			return uuid.Nil, false
		}
		other = id
	}
	return other, other != uuid.Nil
}
