package store

import (
	"net/mail"
	"strings"
	"time"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WarehouseType classifies what a warehouse is used for
type WarehouseType string

const (
	WarehouseTypeStandard     WarehouseType = "Standard"
	WarehouseTypeColdStorage  WarehouseType = "ColdStorage"
	WarehouseTypeHazardous    WarehouseType = "Hazardous"
	WarehouseTypeBonded       WarehouseType = "Bonded"
	WarehouseTypeDistribution WarehouseType = "Distribution"
	WarehouseTypeTransit      WarehouseType = "Transit"
)

// WarehouseTypes lists every accepted warehouse type
var WarehouseTypes = []WarehouseType{
	WarehouseTypeStandard,
	WarehouseTypeColdStorage,
	WarehouseTypeHazardous,
	WarehouseTypeBonded,
	WarehouseTypeDistribution,
	WarehouseTypeTransit,
}

// ParseWarehouseType resolves a warehouse type case-insensitively.
// An empty value yields Standard.
func ParseWarehouseType(value string) (WarehouseType, error) {
	if strings.TrimSpace(value) == "" {
		return WarehouseTypeStandard, nil
	}
	t, ok := shared.NormalizeEnum(value, WarehouseTypes...)
	if !ok {
		return "", shared.NewDomainError("INVALID_TYPE", "Invalid warehouse type")
	}
	return t, nil
}

// Warehouse is the aggregate root for a physical storage site
type Warehouse struct {
	shared.TenantAggregateRoot
	Code              string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_store_warehouse_tenant_code,priority:2"`
	Name              string          `gorm:"type:varchar(200);not null"`
	Address           string          `gorm:"type:varchar(500)"`
	ManagerName       string          `gorm:"type:varchar(100)"`
	ManagerEmail      string          `gorm:"type:varchar(256)"`
	ManagerPhone      string          `gorm:"type:varchar(50)"`
	TotalCapacity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UsedCapacity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CapacityUnit      string          `gorm:"type:varchar(20)"`
	WarehouseType     WarehouseType   `gorm:"type:varchar(20);not null"`
	IsActive          bool            `gorm:"not null"`
	IsMainWarehouse   bool            `gorm:"not null"`
	LastInventoryDate *time.Time
	Description       string `gorm:"type:text"`
	Notes             string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "store_warehouses"
}

// WarehouseDetails carries the optional descriptive fields of a warehouse.
// A nil field is left untouched by Update.
type WarehouseDetails struct {
	Code          *string
	Name          *string
	Address       *string
	ManagerName   *string
	ManagerEmail  *string
	ManagerPhone  *string
	TotalCapacity *decimal.Decimal
	CapacityUnit  *string
	WarehouseType *WarehouseType
	Description   *string
	Notes         *string
}

// NewWarehouse creates an active, non-main warehouse
func NewWarehouse(tenantID uuid.UUID, code, name string, warehouseType WarehouseType) (*Warehouse, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if err := validateWarehouseCode(code); err != nil {
		return nil, err
	}
	if err := validateWarehouseName(name); err != nil {
		return nil, err
	}
	if warehouseType == "" {
		warehouseType = WarehouseTypeStandard
	}
	if _, err := ParseWarehouseType(string(warehouseType)); err != nil {
		return nil, err
	}

	w := &Warehouse{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                name,
		WarehouseType:       warehouseType,
		TotalCapacity:       decimal.Zero,
		UsedCapacity:        decimal.Zero,
		IsActive:            true,
	}

	w.AddDomainEvent(NewWarehouseCreatedEvent(w))

	return w, nil
}

// Update applies the non-nil fields of d that differ from the current values.
// It returns whether anything changed; an updated event is raised only then.
func (w *Warehouse) Update(d WarehouseDetails) (bool, error) {
	changed := false

	if d.Code != nil && strings.TrimSpace(*d.Code) != w.Code {
		code := strings.TrimSpace(*d.Code)
		if err := validateWarehouseCode(code); err != nil {
			return false, err
		}
		w.Code = code
		changed = true
	}
	if d.Name != nil && strings.TrimSpace(*d.Name) != w.Name {
		name := strings.TrimSpace(*d.Name)
		if err := validateWarehouseName(name); err != nil {
			return false, err
		}
		w.Name = name
		changed = true
	}
	if d.Address != nil && *d.Address != w.Address {
		if shared.RuneLen(*d.Address) > 500 {
			return false, shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
		}
		w.Address = *d.Address
		changed = true
	}
	if d.ManagerName != nil && *d.ManagerName != w.ManagerName {
		if shared.RuneLen(*d.ManagerName) > 100 {
			return false, shared.NewDomainError("INVALID_MANAGER_NAME", "Manager name cannot exceed 100 characters")
		}
		w.ManagerName = *d.ManagerName
		changed = true
	}
	if d.ManagerEmail != nil && *d.ManagerEmail != w.ManagerEmail {
		if *d.ManagerEmail != "" {
			if err := validateEmail(*d.ManagerEmail); err != nil {
				return false, err
			}
		}
		w.ManagerEmail = *d.ManagerEmail
		changed = true
	}
	if d.ManagerPhone != nil && *d.ManagerPhone != w.ManagerPhone {
		if len(*d.ManagerPhone) > 50 {
			return false, shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
		}
		w.ManagerPhone = *d.ManagerPhone
		changed = true
	}
	if d.TotalCapacity != nil && !d.TotalCapacity.Equal(w.TotalCapacity) {
		if d.TotalCapacity.IsNegative() {
			return false, shared.NewDomainError("INVALID_CAPACITY", "Total capacity cannot be negative")
		}
		if w.UsedCapacity.GreaterThan(*d.TotalCapacity) {
			return false, shared.NewDomainError("INVALID_CAPACITY", "Total capacity cannot be less than used capacity")
		}
		w.TotalCapacity = *d.TotalCapacity
		changed = true
	}
	if d.CapacityUnit != nil && *d.CapacityUnit != w.CapacityUnit {
		w.CapacityUnit = shared.TruncateString(*d.CapacityUnit, 20)
		changed = true
	}
	if d.WarehouseType != nil && *d.WarehouseType != w.WarehouseType {
		if _, err := ParseWarehouseType(string(*d.WarehouseType)); err != nil {
			return false, err
		}
		w.WarehouseType = *d.WarehouseType
		changed = true
	}
	if d.Description != nil && *d.Description != w.Description {
		w.Description = *d.Description
		changed = true
	}
	if d.Notes != nil && *d.Notes != w.Notes {
		w.Notes = *d.Notes
		changed = true
	}

	if changed {
		w.Touch()
		w.AddDomainEvent(NewWarehouseUpdatedEvent(w))
	}
	return changed, nil
}

// UpdateCapacity sets the used capacity, which must stay within the total
func (w *Warehouse) UpdateCapacity(used decimal.Decimal) error {
	if used.IsNegative() {
		return shared.NewDomainError("INVALID_CAPACITY", "Used capacity cannot be negative")
	}
	if used.GreaterThan(w.TotalCapacity) {
		return shared.NewDomainError("INVALID_CAPACITY", "Used capacity cannot exceed total capacity")
	}
	if used.Equal(w.UsedCapacity) {
		return nil
	}

	w.UsedCapacity = used
	w.Touch()
	w.AddDomainEvent(NewWarehouseCapacityChangedEvent(w))

	return nil
}

// AvailableCapacity returns total minus used capacity
func (w *Warehouse) AvailableCapacity() decimal.Decimal {
	return w.TotalCapacity.Sub(w.UsedCapacity)
}

// Activate marks the warehouse active
func (w *Warehouse) Activate() error {
	if w.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Warehouse is already active")
	}
	w.IsActive = true
	w.Touch()
	w.AddDomainEvent(NewWarehouseStatusChangedEvent(w))
	return nil
}

// Deactivate marks the warehouse inactive. The main warehouse stays active.
func (w *Warehouse) Deactivate() error {
	if !w.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Warehouse is already inactive")
	}
	if w.IsMainWarehouse {
		return shared.NewInvalidStateError("Cannot deactivate the main warehouse")
	}
	w.IsActive = false
	w.Touch()
	w.AddDomainEvent(NewWarehouseStatusChangedEvent(w))
	return nil
}

// SetAsMain flags the warehouse as the tenant's main warehouse.
// Clearing the previous main warehouse is the caller's job.
func (w *Warehouse) SetAsMain() error {
	if !w.IsActive {
		return shared.NewInvalidStateError("An inactive warehouse cannot be the main warehouse")
	}
	if w.IsMainWarehouse {
		return nil
	}
	w.IsMainWarehouse = true
	w.Touch()
	w.AddDomainEvent(NewWarehouseSetAsMainEvent(w))
	return nil
}

// ClearMain removes the main flag
func (w *Warehouse) ClearMain() {
	if !w.IsMainWarehouse {
		return
	}
	w.IsMainWarehouse = false
	w.Touch()
}

// RecordInventory stamps the last physical inventory date
func (w *Warehouse) RecordInventory(at time.Time) {
	w.LastInventoryDate = &at
	w.Touch()
}

// CanDelete reports whether the warehouse may be removed
func (w *Warehouse) CanDelete() error {
	if w.IsMainWarehouse {
		return shared.NewInvalidStateError("Cannot delete the main warehouse")
	}
	return nil
}

func validateWarehouseCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Warehouse code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Warehouse code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Warehouse code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateWarehouseName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Warehouse name cannot be empty")
	}
	if shared.RuneLen(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Warehouse name cannot exceed 200 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 256 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 256 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
