package persistence

import (
	"context"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/erp/lobapi/internal/domain/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockAdjustmentRepository implements StockAdjustmentRepository using GORM
type GormStockAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormStockAdjustmentRepository creates a new GormStockAdjustmentRepository
func NewGormStockAdjustmentRepository(db *gorm.DB) *GormStockAdjustmentRepository {
	return &GormStockAdjustmentRepository{db: db}
}

var _ store.StockAdjustmentRepository = (*GormStockAdjustmentRepository)(nil)

// FindByIDForTenant finds an adjustment by ID within a tenant
func (r *GormStockAdjustmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*store.StockAdjustment, error) {
	var adjustment store.StockAdjustment
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&adjustment).Error; err != nil {
		return nil, notFoundOr(err, "StockAdjustment", id)
	}
	return &adjustment, nil
}

// FindAllForTenant lists adjustments with filtering and paging
func (r *GormStockAdjustmentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]store.StockAdjustment, error) {
	var adjustments []store.StockAdjustment
	query := r.db.WithContext(ctx).Model(&store.StockAdjustment{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	query = paginate(query, filter, StockAdjustmentSortFields, "adjustment_date")

	if err := query.Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}

// CountForTenant counts adjustments matching the filter
func (r *GormStockAdjustmentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&store.StockAdjustment{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByNumber checks whether an adjustment number is taken
func (r *GormStockAdjustmentRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	return exists(r.db.WithContext(ctx), &store.StockAdjustment{}, tenantID, nil, "adjustment_number = ?", number)
}

// Save creates or updates an adjustment
func (r *GormStockAdjustmentRepository) Save(ctx context.Context, adjustment *store.StockAdjustment) error {
	return saveVersioned(r.db.WithContext(ctx), adjustment, adjustment.TenantID, adjustment.ID, adjustment.Version)
}

// DeleteForTenant deletes an adjustment within a tenant
func (r *GormStockAdjustmentRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &store.StockAdjustment{}, tenantID, id)
}

func (r *GormStockAdjustmentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "adjustment_number", "reason", "reference")
	if warehouseID, ok := filterUUID(filter.Filters, "warehouse_id"); ok {
		query = query.Where("warehouse_id = ?", warehouseID)
	}
	if itemID, ok := filterUUID(filter.Filters, "item_id"); ok {
		query = query.Where("item_id = ?", itemID)
	}
	query = equalFold(query, "adjustment_type", filter.Filters["adjustment_type"])
	if approved, ok := filterBool(filter.Filters, "is_approved"); ok {
		query = query.Where("is_approved = ?", approved)
	}
	if from, ok := filterTime(filter.Filters, "from"); ok {
		query = query.Where("adjustment_date >= ?", from)
	}
	if to, ok := filterTime(filter.Filters, "to"); ok {
		query = query.Where("adjustment_date <= ?", to)
	}
	return query
}
