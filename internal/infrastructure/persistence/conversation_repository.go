package persistence

import (
	"context"
	"time"

	"github.com/erp/lobapi/internal/domain/messaging"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormConversationRepository implements ConversationRepository using GORM
type GormConversationRepository struct {
	db *gorm.DB
}

// NewGormConversationRepository creates a new GormConversationRepository
func NewGormConversationRepository(db *gorm.DB) *GormConversationRepository {
	return &GormConversationRepository{db: db}
}

var _ messaging.ConversationRepository = (*GormConversationRepository)(nil)

func preloadParticipants(db *gorm.DB) *gorm.DB {
	return db.Order("joined_at ASC, id ASC")
}

// FindByIDForTenant loads a conversation with its participants
func (r *GormConversationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*messaging.Conversation, error) {
	var c messaging.Conversation
	err := r.db.WithContext(ctx).
		Preload("Participants", preloadParticipants).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&c).Error
	if err != nil {
		return nil, notFoundOr(err, "Conversation", id)
	}
	return &c, nil
}

// FindForParticipant lists the conversations userID takes part in
func (r *GormConversationRepository) FindForParticipant(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) ([]messaging.Conversation, error) {
	var conversations []messaging.Conversation
	db := r.db.WithContext(ctx)
	query := r.participantScope(db, tenantID, userID, filter).Preload("Participants", preloadParticipants)

	if filter.OrderBy == "" {
		filter = filter.Normalize()
		query = query.
			Order("COALESCE(last_message_at, created_at) DESC").
			Order("id DESC").
			Offset(filter.Offset()).
			Limit(filter.PageSize)
	} else {
		query = paginate(query, filter, ConversationSortFields, "last_message_at")
	}

	if err := query.Find(&conversations).Error; err != nil {
		return nil, err
	}
	return conversations, nil
}

// CountForParticipant counts the conversations userID takes part in
func (r *GormConversationRepository) CountForParticipant(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.participantScope(r.db.WithContext(ctx), tenantID, userID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindDirectBetween returns the oldest live direct conversation between two users
func (r *GormConversationRepository) FindDirectBetween(ctx context.Context, tenantID, userA, userB uuid.UUID) (*messaging.Conversation, error) {
	db := r.db.WithContext(ctx)
	var c messaging.Conversation
	err := db.
		Preload("Participants", preloadParticipants).
		Where("tenant_id = ? AND type = ? AND is_archived = ?", tenantID, messaging.ConversationTypeDirect, false).
		Where("id IN (?)", memberOf(db, userA)).
		Where("id IN (?)", memberOf(db, userB)).
		Order("created_at ASC").
		First(&c).Error
	if err != nil {
		return nil, notFoundOr(err, "Conversation", userB)
	}
	return &c, nil
}

// Save writes the conversation and replaces its participant set in one transaction
func (r *GormConversationRepository) Save(ctx context.Context, c *messaging.Conversation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsert(tx, c, c.TenantID, c.ID); err != nil {
			return err
		}
		if err := tx.Where("conversation_id = ?", c.ID).Delete(&messaging.Participant{}).Error; err != nil {
			return err
		}
		if len(c.Participants) == 0 {
			return nil
		}
		for i := range c.Participants {
			c.Participants[i].ConversationID = c.ID
		}
		return tx.Create(&c.Participants).Error
	})
}

// RecordActivity moves last_message_at forward; older timestamps are ignored
func (r *GormConversationRepository) RecordActivity(ctx context.Context, tenantID, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&messaging.Conversation{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Where("last_message_at IS NULL OR last_message_at < ?", at).
		Updates(map[string]any{"last_message_at": at, "updated_at": time.Now()})
	return result.Error
}

func (r *GormConversationRepository) participantScope(db *gorm.DB, tenantID, userID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := db.Model(&messaging.Conversation{}).
		Where("tenant_id = ?", tenantID).
		Where("id IN (?)", memberOf(db, userID))
	if includeArchived, _ := filterBool(filter.Filters, "include_archived"); !includeArchived {
		query = query.Where("is_archived = ?", false)
	}
	query = equalFold(query, "type", filter.Filters["type"])
	return searchLike(query, filter.Search, "title")
}

// memberOf selects the ids of conversations userID takes part in
func memberOf(db *gorm.DB, userID uuid.UUID) *gorm.DB {
	return db.Model(&messaging.Participant{}).Select("conversation_id").Where("user_id = ?", userID)
}
