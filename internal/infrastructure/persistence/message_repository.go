package persistence

import (
	"context"
	"time"

	"github.com/erp/lobapi/internal/domain/messaging"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMessageRepository implements MessageRepository using GORM
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GormMessageRepository
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

var _ messaging.MessageRepository = (*GormMessageRepository)(nil)

// FindByIDForTenant finds a message by ID within a tenant
func (r *GormMessageRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*messaging.Message, error) {
	var m messaging.Message
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&m).Error; err != nil {
		return nil, notFoundOr(err, "Message", id)
	}
	return &m, nil
}

// FindByConversation pages through a conversation newest first
func (r *GormMessageRepository) FindByConversation(ctx context.Context, tenantID, conversationID uuid.UUID, before *time.Time, filter shared.Filter) ([]messaging.Message, error) {
	var messages []messaging.Message
	filter = filter.Normalize()
	query := r.scope(r.db.WithContext(ctx), tenantID, conversationID, before).
		Order("created_at DESC").
		Order("id DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize)

	if err := query.Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// CountByConversation counts messages older than before, or all when before is nil
func (r *GormMessageRepository) CountByConversation(ctx context.Context, tenantID, conversationID uuid.UUID, before *time.Time) (int64, error) {
	var count int64
	if err := r.scope(r.db.WithContext(ctx), tenantID, conversationID, before).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a message
func (r *GormMessageRepository) Save(ctx context.Context, m *messaging.Message) error {
	return upsert(r.db.WithContext(ctx), m, m.TenantID, m.ID)
}

func (r *GormMessageRepository) scope(db *gorm.DB, tenantID, conversationID uuid.UUID, before *time.Time) *gorm.DB {
	query := db.Model(&messaging.Message{}).
		Where("tenant_id = ? AND conversation_id = ?", tenantID, conversationID)
	if before != nil && !before.IsZero() {
		query = query.Where("created_at < ?", *before)
	}
	return query
}
