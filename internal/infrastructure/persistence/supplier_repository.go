package persistence

import (
	"context"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/erp/lobapi/internal/domain/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSupplierRepository implements SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

var _ store.SupplierRepository = (*GormSupplierRepository)(nil)

// FindByIDForTenant finds a supplier by ID within a tenant
func (r *GormSupplierRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*store.Supplier, error) {
	var supplier store.Supplier
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&supplier).Error; err != nil {
		return nil, notFoundOr(err, "Supplier", id)
	}
	return &supplier, nil
}

// FindAllForTenant lists suppliers with filtering and paging
func (r *GormSupplierRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]store.Supplier, error) {
	var suppliers []store.Supplier
	query := r.db.WithContext(ctx).Model(&store.Supplier{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	query = paginate(query, filter, SupplierSortFields, "name")

	if err := query.Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// CountForTenant counts suppliers matching the filter
func (r *GormSupplierRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&store.Supplier{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks whether a supplier code is taken, ignoring excludeID when set
func (r *GormSupplierRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string, excludeID *uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx), &store.Supplier{}, tenantID, excludeID, "LOWER(code) = LOWER(?)", code)
}

// Save creates or updates a supplier
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *store.Supplier) error {
	return saveVersioned(r.db.WithContext(ctx), supplier, supplier.TenantID, supplier.ID, supplier.Version)
}

// DeleteForTenant deletes a supplier within a tenant
func (r *GormSupplierRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &store.Supplier{}, tenantID, id)
}

func (r *GormSupplierRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "code", "name", "contact_person", "email", "city")
	if active, ok := filterBool(filter.Filters, "is_active"); ok {
		query = query.Where("is_active = ?", active)
	}
	query = equalFold(query, "country", filter.Filters["country"])
	if minRating, ok := filter.Filters["min_rating"].(decimal.Decimal); ok {
		query = query.Where("rating >= ?", minRating)
	}
	return query
}
