package persistence

import (
	"context"

	"github.com/erp/lobapi/internal/domain/microfinance"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCollectionCaseRepository implements CollectionCaseRepository using GORM
type GormCollectionCaseRepository struct {
	db *gorm.DB
}

// NewGormCollectionCaseRepository creates a new GormCollectionCaseRepository
func NewGormCollectionCaseRepository(db *gorm.DB) *GormCollectionCaseRepository {
	return &GormCollectionCaseRepository{db: db}
}

var _ microfinance.CollectionCaseRepository = (*GormCollectionCaseRepository)(nil)

// FindByIDForTenant finds a case by ID within a tenant
func (r *GormCollectionCaseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*microfinance.CollectionCase, error) {
	var c microfinance.CollectionCase
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&c).Error; err != nil {
		return nil, notFoundOr(err, "CollectionCase", id)
	}
	return &c, nil
}

// FindAllForTenant lists cases with filtering and paging
func (r *GormCollectionCaseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]microfinance.CollectionCase, error) {
	var cases []microfinance.CollectionCase
	query := r.db.WithContext(ctx).Model(&microfinance.CollectionCase{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	query = paginate(query, filter, CollectionCaseSortFields, "opened_date")

	if err := query.Find(&cases).Error; err != nil {
		return nil, err
	}
	return cases, nil
}

// CountForTenant counts cases matching the filter
func (r *GormCollectionCaseRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&microfinance.CollectionCase{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCaseNumber checks whether a case number is taken
func (r *GormCollectionCaseRepository) ExistsByCaseNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	return exists(r.db.WithContext(ctx), &microfinance.CollectionCase{}, tenantID, nil, "case_number = ?", number)
}

// Save creates or updates a case
func (r *GormCollectionCaseRepository) Save(ctx context.Context, c *microfinance.CollectionCase) error {
	return saveVersioned(r.db.WithContext(ctx), c, c.TenantID, c.ID, c.Version)
}

// DeleteForTenant deletes a case within a tenant
func (r *GormCollectionCaseRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &microfinance.CollectionCase{}, tenantID, id)
}

func (r *GormCollectionCaseRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "case_number", "notes")
	query = equalFold(query, "status", filter.Filters["status"])
	query = equalFold(query, "priority", filter.Filters["priority"])
	query = equalFold(query, "classification", filter.Filters["classification"])
	for _, key := range []string{"assigned_collector_id", "loan_id", "member_id"} {
		if id, ok := filterUUID(filter.Filters, key); ok {
			query = query.Where(key+" = ?", id)
		}
	}
	return query
}
