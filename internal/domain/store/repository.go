package store

import (
	"context"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
)

// WarehouseRepository defines persistence for warehouses
type WarehouseRepository interface {
	// FindByIDForTenant finds a warehouse by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Warehouse, error)

	// FindMain finds the main warehouse of a tenant
	FindMain(ctx context.Context, tenantID uuid.UUID) (*Warehouse, error)

	// FindAllForTenant lists warehouses matching the filter.
	// Recognised filter keys: warehouse_type, is_active, is_main.
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Warehouse, error)

	// CountForTenant counts warehouses matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByCode checks whether a code is taken, ignoring excludeID when set
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string, excludeID *uuid.UUID) (bool, error)

	// Save creates or updates a warehouse
	Save(ctx context.Context, warehouse *Warehouse) error

	// SaveAsMain saves a main warehouse and clears the flag on every other
	// warehouse of the tenant, atomically
	SaveAsMain(ctx context.Context, warehouse *Warehouse) error

	// DeleteForTenant deletes a warehouse within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// SupplierRepository defines persistence for suppliers
type SupplierRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Supplier, error)
	// FindAllForTenant lists suppliers; filter keys: is_active, country, min_rating
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Supplier, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, supplier *Supplier) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// SerialNumberRepository defines persistence for serial numbers
type SerialNumberRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SerialNumber, error)
	// FindAllForTenant lists serial numbers; filter keys: item_id, warehouse_id, status, warranty_valid_at
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SerialNumber, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsBySerialValue(ctx context.Context, tenantID uuid.UUID, serialValue string) (bool, error)
	Save(ctx context.Context, serial *SerialNumber) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// StockAdjustmentRepository defines persistence for stock adjustments
type StockAdjustmentRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StockAdjustment, error)
	// FindAllForTenant lists adjustments; filter keys: warehouse_id, item_id, adjustment_type, is_approved, from, to
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockAdjustment, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error)
	Save(ctx context.Context, adjustment *StockAdjustment) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
