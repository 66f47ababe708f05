package store

import (
	"time"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeSerialNumber    = "SerialNumber"
	AggregateTypeStockAdjustment = "StockAdjustment"
)

// Event type constants for serial numbers and stock adjustments
const (
	EventTypeSerialNumberCreated     = "SerialNumberCreated"
	EventTypeSerialNumberUpdated     = "SerialNumberUpdated"
	EventTypeStockAdjustmentCreated  = "StockAdjustmentCreated"
	EventTypeStockAdjustmentUpdated  = "StockAdjustmentUpdated"
	EventTypeStockAdjustmentApproved = "StockAdjustmentApproved"
)

// SerialNumberCreatedEvent is published when a serial number is registered
type SerialNumberCreatedEvent struct {
	shared.BaseDomainEvent
	SerialNumberID uuid.UUID `json:"serial_number_id"`
	SerialValue    string    `json:"serial_value"`
	ItemID         uuid.UUID `json:"item_id"`
}

// NewSerialNumberCreatedEvent creates a new SerialNumberCreatedEvent
func NewSerialNumberCreatedEvent(s *SerialNumber) *SerialNumberCreatedEvent {
	return &SerialNumberCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSerialNumberCreated, AggregateTypeSerialNumber, s.ID, s.TenantID),
		SerialNumberID:  s.ID,
		SerialValue:     s.SerialValue,
		ItemID:          s.ItemID,
	}
}

// SerialNumberUpdatedEvent is published when a serial number changes
type SerialNumberUpdatedEvent struct {
	shared.BaseDomainEvent
	SerialNumberID uuid.UUID          `json:"serial_number_id"`
	OldStatus      SerialNumberStatus `json:"old_status"`
	NewStatus      SerialNumberStatus `json:"new_status"`
}

// NewSerialNumberUpdatedEvent creates a new SerialNumberUpdatedEvent
func NewSerialNumberUpdatedEvent(s *SerialNumber, oldStatus SerialNumberStatus) *SerialNumberUpdatedEvent {
	return &SerialNumberUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSerialNumberUpdated, AggregateTypeSerialNumber, s.ID, s.TenantID),
		SerialNumberID:  s.ID,
		OldStatus:       oldStatus,
		NewStatus:       s.Status,
	}
}

// StockAdjustmentCreatedEvent is published when an adjustment is recorded
type StockAdjustmentCreatedEvent struct {
	shared.BaseDomainEvent
	AdjustmentID     uuid.UUID      `json:"adjustment_id"`
	AdjustmentNumber string         `json:"adjustment_number"`
	WarehouseID      uuid.UUID      `json:"warehouse_id"`
	AdjustmentType   AdjustmentType `json:"adjustment_type"`
}

// NewStockAdjustmentCreatedEvent creates a new StockAdjustmentCreatedEvent
func NewStockAdjustmentCreatedEvent(a *StockAdjustment) *StockAdjustmentCreatedEvent {
	return &StockAdjustmentCreatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeStockAdjustmentCreated, AggregateTypeStockAdjustment, a.ID, a.TenantID),
		AdjustmentID:     a.ID,
		AdjustmentNumber: a.AdjustmentNumber,
		WarehouseID:      a.WarehouseID,
		AdjustmentType:   a.AdjustmentType,
	}
}

// StockAdjustmentUpdatedEvent is published when an unapproved adjustment changes
type StockAdjustmentUpdatedEvent struct {
	shared.BaseDomainEvent
	AdjustmentID  uuid.UUID `json:"adjustment_id"`
	QuantityAfter int       `json:"quantity_after"`
}

// NewStockAdjustmentUpdatedEvent creates a new StockAdjustmentUpdatedEvent
func NewStockAdjustmentUpdatedEvent(a *StockAdjustment) *StockAdjustmentUpdatedEvent {
	return &StockAdjustmentUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjustmentUpdated, AggregateTypeStockAdjustment, a.ID, a.TenantID),
		AdjustmentID:    a.ID,
		QuantityAfter:   a.QuantityAfter,
	}
}

// StockAdjustmentApprovedEvent is published once, on first approval
type StockAdjustmentApprovedEvent struct {
	shared.BaseDomainEvent
	AdjustmentID     uuid.UUID       `json:"adjustment_id"`
	AdjustmentNumber string          `json:"adjustment_number"`
	WarehouseID      uuid.UUID       `json:"warehouse_id"`
	ItemID           uuid.UUID       `json:"item_id"`
	AdjustmentType   AdjustmentType  `json:"adjustment_type"`
	QuantityAfter    int             `json:"quantity_after"`
	TotalCostImpact  decimal.Decimal `json:"total_cost_impact"`
	ApprovedBy       string          `json:"approved_by"`
	ApprovedAt       time.Time       `json:"approved_at"`
}

// NewStockAdjustmentApprovedEvent creates a new StockAdjustmentApprovedEvent
func NewStockAdjustmentApprovedEvent(a *StockAdjustment) *StockAdjustmentApprovedEvent {
	e := &StockAdjustmentApprovedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeStockAdjustmentApproved, AggregateTypeStockAdjustment, a.ID, a.TenantID),
		AdjustmentID:     a.ID,
		AdjustmentNumber: a.AdjustmentNumber,
		WarehouseID:      a.WarehouseID,
		ItemID:           a.ItemID,
		AdjustmentType:   a.AdjustmentType,
		QuantityAfter:    a.QuantityAfter,
		TotalCostImpact:  a.TotalCostImpact,
		ApprovedBy:       a.ApprovedBy,
	}
	if a.ApprovedDate != nil {
		e.ApprovedAt = *a.ApprovedDate
	}
	return e
}
