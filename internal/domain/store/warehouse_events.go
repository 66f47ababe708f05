package store

import (
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant for Warehouse
const AggregateTypeWarehouse = "Warehouse"

// Event type constants for Warehouse
const (
	EventTypeWarehouseCreated         = "WarehouseCreated"
	EventTypeWarehouseUpdated         = "WarehouseUpdated"
	EventTypeWarehouseStatusChanged   = "WarehouseStatusChanged"
	EventTypeWarehouseCapacityChanged = "WarehouseCapacityChanged"
	EventTypeWarehouseSetAsMain       = "WarehouseSetAsMain"
)

// WarehouseCreatedEvent is published when a new warehouse is created
type WarehouseCreatedEvent struct {
	shared.BaseDomainEvent
	WarehouseID   uuid.UUID     `json:"warehouse_id"`
	Code          string        `json:"code"`
	Name          string        `json:"name"`
	WarehouseType WarehouseType `json:"warehouse_type"`
}

// NewWarehouseCreatedEvent creates a new WarehouseCreatedEvent
func NewWarehouseCreatedEvent(w *Warehouse) *WarehouseCreatedEvent {
	return &WarehouseCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWarehouseCreated, AggregateTypeWarehouse, w.ID, w.TenantID),
		WarehouseID:     w.ID,
		Code:            w.Code,
		Name:            w.Name,
		WarehouseType:   w.WarehouseType,
	}
}

// WarehouseUpdatedEvent is published when warehouse details change
type WarehouseUpdatedEvent struct {
	shared.BaseDomainEvent
	WarehouseID uuid.UUID `json:"warehouse_id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
}

// NewWarehouseUpdatedEvent creates a new WarehouseUpdatedEvent
func NewWarehouseUpdatedEvent(w *Warehouse) *WarehouseUpdatedEvent {
	return &WarehouseUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWarehouseUpdated, AggregateTypeWarehouse, w.ID, w.TenantID),
		WarehouseID:     w.ID,
		Code:            w.Code,
		Name:            w.Name,
	}
}

// WarehouseStatusChangedEvent is published on activation or deactivation
type WarehouseStatusChangedEvent struct {
	shared.BaseDomainEvent
	WarehouseID uuid.UUID `json:"warehouse_id"`
	IsActive    bool      `json:"is_active"`
}

// NewWarehouseStatusChangedEvent creates a new WarehouseStatusChangedEvent
func NewWarehouseStatusChangedEvent(w *Warehouse) *WarehouseStatusChangedEvent {
	return &WarehouseStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWarehouseStatusChanged, AggregateTypeWarehouse, w.ID, w.TenantID),
		WarehouseID:     w.ID,
		IsActive:        w.IsActive,
	}
}

// WarehouseCapacityChangedEvent is published when used capacity changes
type WarehouseCapacityChangedEvent struct {
	shared.BaseDomainEvent
	WarehouseID   uuid.UUID       `json:"warehouse_id"`
	TotalCapacity decimal.Decimal `json:"total_capacity"`
	UsedCapacity  decimal.Decimal `json:"used_capacity"`
}

// NewWarehouseCapacityChangedEvent creates a new WarehouseCapacityChangedEvent
func NewWarehouseCapacityChangedEvent(w *Warehouse) *WarehouseCapacityChangedEvent {
	return &WarehouseCapacityChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWarehouseCapacityChanged, AggregateTypeWarehouse, w.ID, w.TenantID),
		WarehouseID:     w.ID,
		TotalCapacity:   w.TotalCapacity,
		UsedCapacity:    w.UsedCapacity,
	}
}

// WarehouseSetAsMainEvent is published when a warehouse becomes the main one
type WarehouseSetAsMainEvent struct {
	shared.BaseDomainEvent
	WarehouseID uuid.UUID `json:"warehouse_id"`
	Code        string    `json:"code"`
}

// NewWarehouseSetAsMainEvent creates a new WarehouseSetAsMainEvent
func NewWarehouseSetAsMainEvent(w *Warehouse) *WarehouseSetAsMainEvent {
	return &WarehouseSetAsMainEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWarehouseSetAsMain, AggregateTypeWarehouse, w.ID, w.TenantID),
		WarehouseID:     w.ID,
		Code:            w.Code,
	}
}
