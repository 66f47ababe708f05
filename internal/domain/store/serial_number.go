package store

import (
	"strings"
	"time"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxSerialNotesLength caps the accumulated notes of a serial number
const MaxSerialNotesLength = 1000

// SerialNumberStatus tracks where a serialised unit is in its lifecycle
type SerialNumberStatus string

const (
	SerialStatusAvailable SerialNumberStatus = "Available"
	SerialStatusAllocated SerialNumberStatus = "Allocated"
	SerialStatusShipped   SerialNumberStatus = "Shipped"
	SerialStatusSold      SerialNumberStatus = "Sold"
	SerialStatusDefective SerialNumberStatus = "Defective"
	SerialStatusReturned  SerialNumberStatus = "Returned"
	SerialStatusInRepair  SerialNumberStatus = "InRepair"
	SerialStatusScrapped  SerialNumberStatus = "Scrapped"
)

// SerialNumberStatuses lists every accepted serial number status
var SerialNumberStatuses = []SerialNumberStatus{
	SerialStatusAvailable,
	SerialStatusAllocated,
	SerialStatusShipped,
	SerialStatusSold,
	SerialStatusDefective,
	SerialStatusReturned,
	SerialStatusInRepair,
	SerialStatusScrapped,
}

// ParseSerialNumberStatus resolves a status case-insensitively; empty means Available
func ParseSerialNumberStatus(value string) (SerialNumberStatus, error) {
	if strings.TrimSpace(value) == "" {
		return SerialStatusAvailable, nil
	}
	s, ok := shared.NormalizeEnum(value, SerialNumberStatuses...)
	if !ok {
		return "", shared.NewDomainError("INVALID_STATUS", "Invalid serial number status")
	}
	return s, nil
}

// IsValidSerialNumberStatus reports whether value names a known status
func IsValidSerialNumberStatus(value string) bool {
	_, ok := shared.NormalizeEnum(value, SerialNumberStatuses...)
	return ok
}

// SerialNumber tracks one serialised unit of an item
type SerialNumber struct {
	shared.TenantAggregateRoot
	SerialValue         string             `gorm:"type:varchar(100);not null;uniqueIndex:idx_store_serial_tenant_value,priority:2"`
	ItemID              uuid.UUID          `gorm:"type:uuid;not null;index"`
	WarehouseID         *uuid.UUID         `gorm:"type:uuid;index"`
	WarehouseLocationID *uuid.UUID         `gorm:"type:uuid"`
	BinID               *uuid.UUID         `gorm:"type:uuid"`
	LotNumberID         *uuid.UUID         `gorm:"type:uuid"`
	Status              SerialNumberStatus `gorm:"type:varchar(20);not null;index"`
	ReceiptDate         *time.Time
	ShipmentDate        *time.Time
	WarrantyExpiration  *time.Time
	ExternalReference   string `gorm:"type:varchar(100)"`
	Notes               string `gorm:"type:varchar(1000)"`
}

// TableName returns the table name for GORM
func (SerialNumber) TableName() string {
	return "store_serial_numbers"
}

// SerialNumberLocation groups the optional placement fields of a serial number
type SerialNumberLocation struct {
	WarehouseID         *uuid.UUID
	WarehouseLocationID *uuid.UUID
	BinID               *uuid.UUID
	LotNumberID         *uuid.UUID
}

// NewSerialNumber registers an Available serial number for an item
func NewSerialNumber(tenantID uuid.UUID, serialValue string, itemID uuid.UUID, loc SerialNumberLocation) (*SerialNumber, error) {
	serialValue = strings.TrimSpace(serialValue)
	if serialValue == "" {
		return nil, shared.NewDomainError("INVALID_SERIAL", "Serial value is required")
	}
	if len(serialValue) > 100 {
		return nil, shared.NewDomainError("INVALID_SERIAL", "Serial value cannot exceed 100 characters")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item is required")
	}

	sn := &SerialNumber{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SerialValue:         serialValue,
		ItemID:              itemID,
		WarehouseID:         loc.WarehouseID,
		WarehouseLocationID: loc.WarehouseLocationID,
		BinID:               loc.BinID,
		LotNumberID:         loc.LotNumberID,
		Status:              SerialStatusAvailable,
	}
	sn.AddDomainEvent(NewSerialNumberCreatedEvent(sn))
	return sn, nil
}

// SetDates records receipt, shipment and warranty dates; nil leaves a date unchanged
func (s *SerialNumber) SetDates(receipt, shipment, warranty *time.Time) {
	if receipt != nil {
		s.ReceiptDate = receipt
	}
	if shipment != nil {
		s.ShipmentDate = shipment
	}
	if warranty != nil {
		s.WarrantyExpiration = warranty
	}
}

// SetExternalReference stores an external reference, truncated to 100
func (s *SerialNumber) SetExternalReference(ref string) {
	s.ExternalReference = shared.TruncateString(ref, 100)
}

// Update changes status, placement and notes. Only differing values are applied.
func (s *SerialNumber) Update(status *SerialNumberStatus, loc SerialNumberLocation, notes *string) (bool, error) {
	changed := false
	oldStatus := s.Status

	if status != nil && *status != s.Status {
		parsed, err := ParseSerialNumberStatus(string(*status))
		if err != nil {
			return false, err
		}
		if parsed != s.Status {
			s.Status = parsed
			changed = true
		}
	}
	if loc.WarehouseID != nil && !sameID(loc.WarehouseID, s.WarehouseID) {
		s.WarehouseID = loc.WarehouseID
		changed = true
	}
	if loc.WarehouseLocationID != nil && !sameID(loc.WarehouseLocationID, s.WarehouseLocationID) {
		s.WarehouseLocationID = loc.WarehouseLocationID
		changed = true
	}
	if loc.BinID != nil && !sameID(loc.BinID, s.BinID) {
		s.BinID = loc.BinID
		changed = true
	}
	if loc.LotNumberID != nil && !sameID(loc.LotNumberID, s.LotNumberID) {
		s.LotNumberID = loc.LotNumberID
		changed = true
	}
	if notes != nil && *notes != s.Notes {
		if shared.RuneLen(*notes) > MaxSerialNotesLength {
			return false, shared.NewDomainError("INVALID_NOTES", "Notes cannot exceed 1000 characters")
		}
		s.Notes = *notes
		changed = true
	}

	if changed {
		s.Touch()
		s.AddDomainEvent(NewSerialNumberUpdatedEvent(s, oldStatus))
	}
	return changed, nil
}

// AddNotes appends a line to the notes, keeping at most 1000 characters
func (s *SerialNumber) AddNotes(note string) error {
	note = strings.TrimSpace(note)
	if note == "" {
		return shared.NewDomainError("INVALID_NOTES", "Note cannot be empty")
	}
	combined := note
	if s.Notes != "" {
		combined = s.Notes + "\n" + note
	}
	s.Notes = shared.TruncateString(combined, MaxSerialNotesLength)
	s.Touch()
	return nil
}

// IsWarrantyValid reports whether the warranty has not yet expired at now
func (s *SerialNumber) IsWarrantyValid(now time.Time) bool {
	return s.WarrantyExpiration != nil && !now.After(*s.WarrantyExpiration)
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
