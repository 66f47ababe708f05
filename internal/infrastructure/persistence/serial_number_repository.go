package persistence

import (
	"context"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/erp/lobapi/internal/domain/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSerialNumberRepository implements SerialNumberRepository using GORM
type GormSerialNumberRepository struct {
	db *gorm.DB
}

// NewGormSerialNumberRepository creates a new GormSerialNumberRepository
func NewGormSerialNumberRepository(db *gorm.DB) *GormSerialNumberRepository {
	return &GormSerialNumberRepository{db: db}
}

var _ store.SerialNumberRepository = (*GormSerialNumberRepository)(nil)

// FindByIDForTenant finds a serial number by ID within a tenant
func (r *GormSerialNumberRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*store.SerialNumber, error) {
	var serial store.SerialNumber
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&serial).Error; err != nil {
		return nil, notFoundOr(err, "SerialNumber", id)
	}
	return &serial, nil
}

// FindAllForTenant lists serial numbers with filtering and paging
func (r *GormSerialNumberRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]store.SerialNumber, error) {
	var serials []store.SerialNumber
	query := r.db.WithContext(ctx).Model(&store.SerialNumber{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	query = paginate(query, filter, SerialNumberSortFields, "created_at")

	if err := query.Find(&serials).Error; err != nil {
		return nil, err
	}
	return serials, nil
}

// CountForTenant counts serial numbers matching the filter
func (r *GormSerialNumberRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&store.SerialNumber{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsBySerialValue checks whether a serial value is registered in the tenant
func (r *GormSerialNumberRepository) ExistsBySerialValue(ctx context.Context, tenantID uuid.UUID, serialValue string) (bool, error) {
	return exists(r.db.WithContext(ctx), &store.SerialNumber{}, tenantID, nil, "serial_value = ?", serialValue)
}

// Save creates or updates a serial number
func (r *GormSerialNumberRepository) Save(ctx context.Context, serial *store.SerialNumber) error {
	return saveVersioned(r.db.WithContext(ctx), serial, serial.TenantID, serial.ID, serial.Version)
}

// DeleteForTenant deletes a serial number within a tenant
func (r *GormSerialNumberRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &store.SerialNumber{}, tenantID, id)
}

func (r *GormSerialNumberRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "serial_value", "external_reference")
	if itemID, ok := filterUUID(filter.Filters, "item_id"); ok {
		query = query.Where("item_id = ?", itemID)
	}
	if warehouseID, ok := filterUUID(filter.Filters, "warehouse_id"); ok {
		query = query.Where("warehouse_id = ?", warehouseID)
	}
	query = equalFold(query, "status", filter.Filters["status"])

	// warranty_valid is evaluated at warranty_valid_at; an expiry on that day still counts
	if at, ok := filterTime(filter.Filters, "warranty_valid_at"); ok {
		if valid, ok := filterBool(filter.Filters, "warranty_valid"); ok {
			if valid {
				query = query.Where("warranty_expiration IS NOT NULL AND warranty_expiration >= ?", at)
			} else {
				query = query.Where("(warranty_expiration IS NULL OR warranty_expiration < ?)", at)
			}
		}
	}
	return query
}
