package store

import (
	"time"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/erp/lobapi/internal/domain/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Warehouse DTOs
// =============================================================================

// CreateWarehouseRequest represents a request to create a new warehouse
type CreateWarehouseRequest struct {
	Code            string           `json:"code" binding:"required,min=1,max=50"`
	Name            string           `json:"name" binding:"required,min=1,max=200"`
	Address         string           `json:"address" binding:"max=500"`
	ManagerName     string           `json:"manager_name" binding:"max=100"`
	ManagerEmail    string           `json:"manager_email" binding:"omitempty,email,max=256"`
	ManagerPhone    string           `json:"manager_phone" binding:"max=50"`
	TotalCapacity   *decimal.Decimal `json:"total_capacity" binding:"omitempty,decimal_gte0"`
	CapacityUnit    string           `json:"capacity_unit" binding:"max=20"`
	WarehouseType   string           `json:"warehouse_type" binding:"max=20"`
	IsMainWarehouse bool             `json:"is_main_warehouse"`
	Description     string           `json:"description"`
	Notes           string           `json:"notes"`
}

// UpdateWarehouseRequest represents a request to update a warehouse.
// Nil fields are left unchanged.
type UpdateWarehouseRequest struct {
	Code          *string          `json:"code" binding:"omitempty,min=1,max=50"`
	Name          *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Address       *string          `json:"address" binding:"omitempty,max=500"`
	ManagerName   *string          `json:"manager_name" binding:"omitempty,max=100"`
	ManagerEmail  *string          `json:"manager_email" binding:"omitempty,max=256"`
	ManagerPhone  *string          `json:"manager_phone" binding:"omitempty,max=50"`
	TotalCapacity *decimal.Decimal `json:"total_capacity" binding:"omitempty,decimal_gte0"`
	CapacityUnit  *string          `json:"capacity_unit" binding:"omitempty,max=20"`
	WarehouseType *string          `json:"warehouse_type" binding:"omitempty,max=20"`
	Description   *string          `json:"description"`
	Notes         *string          `json:"notes"`
}

// UpdateCapacityRequest sets the used capacity of a warehouse
type UpdateCapacityRequest struct {
	UsedCapacity decimal.Decimal `json:"used_capacity" binding:"decimal_gte0"`
}

// SearchWarehousesRequest filters warehouses
type SearchWarehousesRequest struct {
	shared.PageRequest
	WarehouseType   *string `json:"warehouse_type"`
	IsActive        *bool   `json:"is_active"`
	IsMainWarehouse *bool   `json:"is_main_warehouse"`
}

// WarehouseResponse represents a warehouse in API responses
type WarehouseResponse struct {
	ID                uuid.UUID       `json:"id"`
	TenantID          uuid.UUID       `json:"tenant_id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	Address           string          `json:"address"`
	ManagerName       string          `json:"manager_name"`
	ManagerEmail      string          `json:"manager_email"`
	ManagerPhone      string          `json:"manager_phone"`
	TotalCapacity     decimal.Decimal `json:"total_capacity"`
	UsedCapacity      decimal.Decimal `json:"used_capacity"`
	AvailableCapacity decimal.Decimal `json:"available_capacity"`
	CapacityUnit      string          `json:"capacity_unit"`
	WarehouseType     string          `json:"warehouse_type"`
	IsActive          bool            `json:"is_active"`
	IsMainWarehouse   bool            `json:"is_main_warehouse"`
	LastInventoryDate *time.Time      `json:"last_inventory_date,omitempty"`
	Description       string          `json:"description"`
	Notes             string          `json:"notes"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// ToWarehouseResponse converts a domain Warehouse to WarehouseResponse
func ToWarehouseResponse(w *store.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:                w.ID,
		TenantID:          w.TenantID,
		Code:              w.Code,
		Name:              w.Name,
		Address:           w.Address,
		ManagerName:       w.ManagerName,
		ManagerEmail:      w.ManagerEmail,
		ManagerPhone:      w.ManagerPhone,
		TotalCapacity:     w.TotalCapacity,
		UsedCapacity:      w.UsedCapacity,
		AvailableCapacity: w.AvailableCapacity(),
		CapacityUnit:      w.CapacityUnit,
		WarehouseType:     string(w.WarehouseType),
		IsActive:          w.IsActive,
		IsMainWarehouse:   w.IsMainWarehouse,
		LastInventoryDate: w.LastInventoryDate,
		Description:       w.Description,
		Notes:             w.Notes,
		CreatedAt:         w.CreatedAt,
		UpdatedAt:         w.UpdatedAt,
		Version:           w.Version,
	}
}

// =============================================================================
// Supplier DTOs
// =============================================================================

// CreateSupplierRequest represents a request to create a supplier
type CreateSupplierRequest struct {
	Code             string           `json:"code" binding:"required,min=1,max=50"`
	Name             string           `json:"name" binding:"required,min=2,max=256"`
	ContactPerson    string           `json:"contact_person" binding:"max=100"`
	Email            string           `json:"email" binding:"required,email,max=256"`
	Phone            string           `json:"phone" binding:"max=50"`
	Address          string           `json:"address" binding:"max=500"`
	City             string           `json:"city" binding:"max=100"`
	State            string           `json:"state" binding:"max=100"`
	Country          string           `json:"country" binding:"max=100"`
	PostalCode       string           `json:"postal_code" binding:"max=20"`
	Website          string           `json:"website" binding:"omitempty,max=256"`
	CreditLimit      *decimal.Decimal `json:"credit_limit" binding:"omitempty,decimal_gte0"`
	PaymentTermsDays *int             `json:"payment_terms_days" binding:"omitempty,min=0"`
	Notes            string           `json:"notes" binding:"max=4096"`
}

// UpdateSupplierRequest represents a request to update a supplier
type UpdateSupplierRequest struct {
	Code             *string          `json:"code" binding:"omitempty,min=1,max=50"`
	Name             *string          `json:"name" binding:"omitempty,min=2,max=256"`
	ContactPerson    *string          `json:"contact_person" binding:"omitempty,max=100"`
	Email            *string          `json:"email" binding:"omitempty,email,max=256"`
	Phone            *string          `json:"phone" binding:"omitempty,max=50"`
	Address          *string          `json:"address" binding:"omitempty,max=500"`
	City             *string          `json:"city" binding:"omitempty,max=100"`
	State            *string          `json:"state" binding:"omitempty,max=100"`
	Country          *string          `json:"country" binding:"omitempty,max=100"`
	PostalCode       *string          `json:"postal_code" binding:"omitempty,max=20"`
	Website          *string          `json:"website" binding:"omitempty,max=256"`
	CreditLimit      *decimal.Decimal `json:"credit_limit" binding:"omitempty,decimal_gte0"`
	PaymentTermsDays *int             `json:"payment_terms_days" binding:"omitempty,min=0"`
	Notes            *string          `json:"notes" binding:"omitempty,max=4096"`
}

// UpdateRatingRequest sets a supplier's rating
type UpdateRatingRequest struct {
	Rating decimal.Decimal `json:"rating" binding:"decimal_gte0"`
}

// SearchSuppliersRequest filters suppliers
type SearchSuppliersRequest struct {
	shared.PageRequest
	IsActive  *bool            `json:"is_active"`
	Country   *string          `json:"country"`
	MinRating *decimal.Decimal `json:"min_rating"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID               uuid.UUID       `json:"id"`
	TenantID         uuid.UUID       `json:"tenant_id"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	ContactPerson    string          `json:"contact_person"`
	Email            string          `json:"email"`
	Phone            string          `json:"phone"`
	Address          string          `json:"address"`
	City             string          `json:"city"`
	State            string          `json:"state"`
	Country          string          `json:"country"`
	PostalCode       string          `json:"postal_code"`
	Website          string          `json:"website"`
	CreditLimit      decimal.Decimal `json:"credit_limit"`
	PaymentTermsDays int             `json:"payment_terms_days"`
	Rating           decimal.Decimal `json:"rating"`
	IsActive         bool            `json:"is_active"`
	Notes            string          `json:"notes"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Version          int             `json:"version"`
}

// ToSupplierResponse converts a domain Supplier to SupplierResponse
func ToSupplierResponse(s *store.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:               s.ID,
		TenantID:         s.TenantID,
		Code:             s.Code,
		Name:             s.Name,
		ContactPerson:    s.ContactPerson,
		Email:            s.Email,
		Phone:            s.Phone,
		Address:          s.Address,
		City:             s.City,
		State:            s.State,
		Country:          s.Country,
		PostalCode:       s.PostalCode,
		Website:          s.Website,
		CreditLimit:      s.CreditLimit,
		PaymentTermsDays: s.PaymentTermsDays,
		Rating:           s.Rating,
		IsActive:         s.IsActive,
		Notes:            s.Notes,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
		Version:          s.Version,
	}
}

// =============================================================================
// Serial number DTOs
// =============================================================================

// CreateSerialNumberRequest registers a serial number
type CreateSerialNumberRequest struct {
	SerialValue         string     `json:"serial_value" binding:"required,min=1,max=100"`
	ItemID              uuid.UUID  `json:"item_id" binding:"required"`
	WarehouseID         *uuid.UUID `json:"warehouse_id"`
	WarehouseLocationID *uuid.UUID `json:"warehouse_location_id"`
	BinID               *uuid.UUID `json:"bin_id"`
	LotNumberID         *uuid.UUID `json:"lot_number_id"`
	ReceiptDate         *time.Time `json:"receipt_date"`
	WarrantyExpiration  *time.Time `json:"warranty_expiration"`
	ExternalReference   string     `json:"external_reference" binding:"max=100"`
	Notes               string     `json:"notes" binding:"max=1000"`
}

// UpdateSerialNumberRequest changes status, placement or notes.
// Status is checked by the serial_status validator before it reaches the service.
type UpdateSerialNumberRequest struct {
	Status              *string    `json:"status" binding:"omitempty,serial_status"`
	WarehouseID         *uuid.UUID `json:"warehouse_id"`
	WarehouseLocationID *uuid.UUID `json:"warehouse_location_id"`
	BinID               *uuid.UUID `json:"bin_id"`
	LotNumberID         *uuid.UUID `json:"lot_number_id"`
	ShipmentDate        *time.Time `json:"shipment_date"`
	WarrantyExpiration  *time.Time `json:"warranty_expiration"`
	Notes               *string    `json:"notes" binding:"omitempty,max=1000"`
}

// AddNotesRequest appends a line to a serial number's notes
type AddNotesRequest struct {
	Note string `json:"note" binding:"required,max=1000"`
}

// SearchSerialNumbersRequest filters serial numbers
type SearchSerialNumbersRequest struct {
	shared.PageRequest
	ItemID        *uuid.UUID `json:"item_id"`
	WarehouseID   *uuid.UUID `json:"warehouse_id"`
	Status        *string    `json:"status" binding:"omitempty,serial_status"`
	WarrantyValid *bool      `json:"warranty_valid"`
}

// SerialNumberResponse represents a serial number in API responses
type SerialNumberResponse struct {
	ID                  uuid.UUID  `json:"id"`
	TenantID            uuid.UUID  `json:"tenant_id"`
	SerialValue         string     `json:"serial_value"`
	ItemID              uuid.UUID  `json:"item_id"`
	WarehouseID         *uuid.UUID `json:"warehouse_id,omitempty"`
	WarehouseLocationID *uuid.UUID `json:"warehouse_location_id,omitempty"`
	BinID               *uuid.UUID `json:"bin_id,omitempty"`
	LotNumberID         *uuid.UUID `json:"lot_number_id,omitempty"`
	Status              string     `json:"status"`
	ReceiptDate         *time.Time `json:"receipt_date,omitempty"`
	ShipmentDate        *time.Time `json:"shipment_date,omitempty"`
	WarrantyExpiration  *time.Time `json:"warranty_expiration,omitempty"`
	IsWarrantyValid     bool       `json:"is_warranty_valid"`
	ExternalReference   string     `json:"external_reference"`
	Notes               string     `json:"notes"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	Version             int        `json:"version"`
}

// ToSerialNumberResponse converts a domain SerialNumber to SerialNumberResponse
func ToSerialNumberResponse(s *store.SerialNumber, now time.Time) SerialNumberResponse {
	return SerialNumberResponse{
		ID:                  s.ID,
		TenantID:            s.TenantID,
		SerialValue:         s.SerialValue,
		ItemID:              s.ItemID,
		WarehouseID:         s.WarehouseID,
		WarehouseLocationID: s.WarehouseLocationID,
		BinID:               s.BinID,
		LotNumberID:         s.LotNumberID,
		Status:              string(s.Status),
		ReceiptDate:         s.ReceiptDate,
		ShipmentDate:        s.ShipmentDate,
		WarrantyExpiration:  s.WarrantyExpiration,
		IsWarrantyValid:     s.IsWarrantyValid(now),
		ExternalReference:   s.ExternalReference,
		Notes:               s.Notes,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
		Version:             s.Version,
	}
}

// =============================================================================
// Stock adjustment DTOs
// =============================================================================

// StockAdjustmentRequest creates or fully updates a stock adjustment
type StockAdjustmentRequest struct {
	AdjustmentNumber   string          `json:"adjustment_number" binding:"required,min=1,max=50"`
	WarehouseID        uuid.UUID       `json:"warehouse_id" binding:"required"`
	ItemID             uuid.UUID       `json:"item_id" binding:"required"`
	AdjustmentDate     *time.Time      `json:"adjustment_date"`
	AdjustmentType     string          `json:"adjustment_type" binding:"required,max=20"`
	Reason             string          `json:"reason" binding:"required,max=200"`
	QuantityBefore     int             `json:"quantity_before" binding:"min=0"`
	AdjustmentQuantity int             `json:"adjustment_quantity" binding:"required,min=1"`
	UnitCost           decimal.Decimal `json:"unit_cost" binding:"decimal_gte0"`
	Reference          string          `json:"reference" binding:"max=100"`
	Notes              string          `json:"notes"`
}

func (r StockAdjustmentRequest) toInput() store.StockAdjustmentInput {
	in := store.StockAdjustmentInput{
		ItemID:             r.ItemID,
		AdjustmentType:     store.AdjustmentType(r.AdjustmentType),
		Reason:             r.Reason,
		QuantityBefore:     r.QuantityBefore,
		AdjustmentQuantity: r.AdjustmentQuantity,
		UnitCost:           r.UnitCost,
		Reference:          r.Reference,
		Notes:              r.Notes,
	}
	if r.AdjustmentDate != nil {
		in.AdjustmentDate = *r.AdjustmentDate
	}
	return in
}

// ApproveAdjustmentRequest approves a stock adjustment
type ApproveAdjustmentRequest struct {
	ApprovedBy string `json:"approved_by" binding:"required,max=100"`
}

// SearchStockAdjustmentsRequest filters stock adjustments
type SearchStockAdjustmentsRequest struct {
	shared.PageRequest
	WarehouseID    *uuid.UUID `json:"warehouse_id"`
	ItemID         *uuid.UUID `json:"item_id"`
	AdjustmentType *string    `json:"adjustment_type"`
	IsApproved     *bool      `json:"is_approved"`
	shared.DateRange
}

// StockAdjustmentResponse represents a stock adjustment in API responses
type StockAdjustmentResponse struct {
	ID                 uuid.UUID       `json:"id"`
	TenantID           uuid.UUID       `json:"tenant_id"`
	AdjustmentNumber   string          `json:"adjustment_number"`
	WarehouseID        uuid.UUID       `json:"warehouse_id"`
	ItemID             uuid.UUID       `json:"item_id"`
	AdjustmentDate     time.Time       `json:"adjustment_date"`
	AdjustmentType     string          `json:"adjustment_type"`
	Reason             string          `json:"reason"`
	QuantityBefore     int             `json:"quantity_before"`
	AdjustmentQuantity int             `json:"adjustment_quantity"`
	QuantityAfter      int             `json:"quantity_after"`
	UnitCost           decimal.Decimal `json:"unit_cost"`
	TotalCostImpact    decimal.Decimal `json:"total_cost_impact"`
	IsApproved         bool            `json:"is_approved"`
	ApprovedBy         string          `json:"approved_by"`
	ApprovedDate       *time.Time      `json:"approved_date,omitempty"`
	Reference          string          `json:"reference"`
	Notes              string          `json:"notes"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Version            int             `json:"version"`
}

// ToStockAdjustmentResponse converts a domain StockAdjustment to StockAdjustmentResponse
func ToStockAdjustmentResponse(a *store.StockAdjustment) StockAdjustmentResponse {
	return StockAdjustmentResponse{
		ID:                 a.ID,
		TenantID:           a.TenantID,
		AdjustmentNumber:   a.AdjustmentNumber,
		WarehouseID:        a.WarehouseID,
		ItemID:             a.ItemID,
		AdjustmentDate:     a.AdjustmentDate,
		AdjustmentType:     string(a.AdjustmentType),
		Reason:             a.Reason,
		QuantityBefore:     a.QuantityBefore,
		AdjustmentQuantity: a.AdjustmentQuantity,
		QuantityAfter:      a.QuantityAfter,
		UnitCost:           a.UnitCost,
		TotalCostImpact:    a.TotalCostImpact,
		IsApproved:         a.IsApproved,
		ApprovedBy:         a.ApprovedBy,
		ApprovedDate:       a.ApprovedDate,
		Reference:          a.Reference,
		Notes:              a.Notes,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
		Version:            a.Version,
	}
}

func mapSlice[T, R any](items []T, fn func(*T) R) []R {
	out := make([]R, len(items))
	for i := range items {
		out[i] = fn(&items[i])
	}
	return out
}
