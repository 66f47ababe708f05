package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/erp/lobapi/internal/domain/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWarehouseRepository implements WarehouseRepository using GORM
type GormWarehouseRepository struct {
	db *gorm.DB
}

// NewGormWarehouseRepository creates a new GormWarehouseRepository
func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

var _ store.WarehouseRepository = (*GormWarehouseRepository)(nil)

// FindByIDForTenant finds a warehouse by ID within a tenant
func (r *GormWarehouseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*store.Warehouse, error) {
	var warehouse store.Warehouse
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&warehouse).Error; err != nil {
		return nil, notFoundOr(err, "Warehouse", id)
	}
	return &warehouse, nil
}

// FindMain finds the main warehouse of a tenant
func (r *GormWarehouseRepository) FindMain(ctx context.Context, tenantID uuid.UUID) (*store.Warehouse, error) {
	var warehouse store.Warehouse
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND is_main_warehouse = ?", tenantID, true).First(&warehouse).Error; err != nil {
		return nil, notFoundOr(err, "Main warehouse", tenantID)
	}
	return &warehouse, nil
}

// FindAllForTenant lists warehouses with filtering and paging
func (r *GormWarehouseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]store.Warehouse, error) {
	var warehouses []store.Warehouse
	query := r.db.WithContext(ctx).Model(&store.Warehouse{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	query = paginate(query, filter, WarehouseSortFields, "code")

	if err := query.Find(&warehouses).Error; err != nil {
		return nil, err
	}
	return warehouses, nil
}

// CountForTenant counts warehouses matching the filter
func (r *GormWarehouseRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&store.Warehouse{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks whether a code is taken, ignoring excludeID when set
func (r *GormWarehouseRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string, excludeID *uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx), &store.Warehouse{}, tenantID, excludeID, "LOWER(code) = LOWER(?)", code)
}

// Save creates or updates a warehouse
func (r *GormWarehouseRepository) Save(ctx context.Context, warehouse *store.Warehouse) error {
	return saveVersioned(r.db.WithContext(ctx), warehouse, warehouse.TenantID, warehouse.ID, warehouse.Version)
}

// SaveAsMain saves a warehouse flagged as main and drops the flag from the
// tenant's other warehouses in the same transaction. Their versions are bumped
// so stale copies cannot restore the flag.
func (r *GormWarehouseRepository) SaveAsMain(ctx context.Context, warehouse *store.Warehouse) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&store.Warehouse{}).
			Where("tenant_id = ? AND is_main_warehouse = ? AND id <> ?", warehouse.TenantID, true, warehouse.ID).
			Updates(map[string]any{
				"is_main_warehouse": false,
				"version":           gorm.Expr("version + 1"),
				"updated_at":        time.Now(),
			}).Error; err != nil {
			return err
		}
		return saveVersioned(tx, warehouse, warehouse.TenantID, warehouse.ID, warehouse.Version)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// another transaction promoted a different warehouse first
		return shared.ErrConcurrencyConflict
	}
	return err
}

// DeleteForTenant deletes a warehouse within a tenant
func (r *GormWarehouseRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &store.Warehouse{}, tenantID, id)
}

func (r *GormWarehouseRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "code", "name", "address", "manager_name")
	query = equalFold(query, "warehouse_type", filter.Filters["warehouse_type"])
	if active, ok := filterBool(filter.Filters, "is_active"); ok {
		query = query.Where("is_active = ?", active)
	}
	if main, ok := filterBool(filter.Filters, "is_main"); ok {
		query = query.Where("is_main_warehouse = ?", main)
	}
	return query
}
