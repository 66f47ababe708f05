package store

import (
	"strings"
	"time"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdjustmentType is the reason category of a stock adjustment
type AdjustmentType string

const (
	AdjustmentTypePhysicalCount AdjustmentType = "Physical Count"
	AdjustmentTypeDamage        AdjustmentType = "Damage"
	AdjustmentTypeLoss          AdjustmentType = "Loss"
	AdjustmentTypeFound         AdjustmentType = "Found"
	AdjustmentTypeTransfer      AdjustmentType = "Transfer"
	AdjustmentTypeOther         AdjustmentType = "Other"
	AdjustmentTypeIncrease      AdjustmentType = "Increase"
	AdjustmentTypeDecrease      AdjustmentType = "Decrease"
	AdjustmentTypeWriteOff      AdjustmentType = "Write-Off"
)

// AdjustmentTypes lists every accepted adjustment type
var AdjustmentTypes = []AdjustmentType{
	AdjustmentTypePhysicalCount,
	AdjustmentTypeDamage,
	AdjustmentTypeLoss,
	AdjustmentTypeFound,
	AdjustmentTypeTransfer,
	AdjustmentTypeOther,
	AdjustmentTypeIncrease,
	AdjustmentTypeDecrease,
	AdjustmentTypeWriteOff,
}

// ParseAdjustmentType resolves an adjustment type case-insensitively
func ParseAdjustmentType(value string) (AdjustmentType, error) {
	t, ok := shared.NormalizeEnum(value, AdjustmentTypes...)
	if !ok {
		return "", shared.NewDomainError("INVALID_TYPE", "Invalid adjustment type: "+value)
	}
	return t, nil
}

// IsIncrease reports whether the type adds stock
func (t AdjustmentType) IsIncrease() bool {
	return t == AdjustmentTypeIncrease || t == AdjustmentTypeFound
}

// StockAdjustment records a manual correction of an item's on-hand quantity
type StockAdjustment struct {
	shared.TenantAggregateRoot
	AdjustmentNumber   string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_store_adjustment_tenant_number,priority:2"`
	WarehouseID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	AdjustmentDate     time.Time       `gorm:"not null"`
	AdjustmentType     AdjustmentType  `gorm:"type:varchar(20);not null"`
	Reason             string          `gorm:"type:varchar(200);not null"`
	QuantityBefore     int             `gorm:"not null"`
	AdjustmentQuantity int             `gorm:"not null"`
	QuantityAfter      int             `gorm:"not null"`
	UnitCost           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalCostImpact    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	IsApproved         bool            `gorm:"not null;index"`
	ApprovedBy         string          `gorm:"type:varchar(100)"`
	ApprovedDate       *time.Time
	Reference          string `gorm:"type:varchar(100)"`
	Notes              string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (StockAdjustment) TableName() string {
	return "store_stock_adjustments"
}

// StockAdjustmentInput carries the quantity-bearing fields of an adjustment
type StockAdjustmentInput struct {
	ItemID             uuid.UUID
	AdjustmentDate     time.Time
	AdjustmentType     AdjustmentType
	Reason             string
	QuantityBefore     int
	AdjustmentQuantity int
	UnitCost           decimal.Decimal
	Reference          string
	Notes              string
}

// NewStockAdjustment creates an unapproved adjustment and derives its totals
func NewStockAdjustment(tenantID uuid.UUID, number string, warehouseID uuid.UUID, in StockAdjustmentInput) (*StockAdjustment, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Adjustment number is required")
	}
	if len(number) > 50 {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Adjustment number must not exceed 50 characters")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse is required")
	}
	if in.AdjustmentDate.IsZero() {
		in.AdjustmentDate = time.Now()
	}

	a := &StockAdjustment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		AdjustmentNumber:    number,
		WarehouseID:         warehouseID,
	}
	if err := a.apply(in); err != nil {
		return nil, err
	}
	a.AddDomainEvent(NewStockAdjustmentCreatedEvent(a))
	return a, nil
}

// Update replaces the adjustment fields and recomputes the derived totals.
// Approved adjustments are immutable.
func (a *StockAdjustment) Update(in StockAdjustmentInput) (bool, error) {
	if a.IsApproved {
		return false, shared.NewInvalidStateError("Approved stock adjustments cannot be modified")
	}
	if in.AdjustmentDate.IsZero() {
		in.AdjustmentDate = a.AdjustmentDate
	}
	before := *a
	if err := a.apply(in); err != nil {
		return false, err
	}
	changed := before.ItemID != a.ItemID ||
		!before.AdjustmentDate.Equal(a.AdjustmentDate) ||
		before.AdjustmentType != a.AdjustmentType ||
		before.Reason != a.Reason ||
		before.QuantityBefore != a.QuantityBefore ||
		before.AdjustmentQuantity != a.AdjustmentQuantity ||
		!before.UnitCost.Equal(a.UnitCost) ||
		before.Reference != a.Reference ||
		before.Notes != a.Notes
	if changed {
		a.Touch()
		a.AddDomainEvent(NewStockAdjustmentUpdatedEvent(a))
	}
	return changed, nil
}

// Approve marks the adjustment approved. Approving twice is a no-op.
func (a *StockAdjustment) Approve(approvedBy string) error {
	if a.IsApproved {
		return nil
	}
	approvedBy = strings.TrimSpace(approvedBy)
	if approvedBy == "" {
		return shared.NewDomainError("INVALID_APPROVER", "ApprovedBy is required when approving")
	}
	now := time.Now()
	a.IsApproved = true
	a.ApprovedBy = shared.TruncateString(approvedBy, 100)
	a.ApprovedDate = &now
	a.Touch()
	a.AddDomainEvent(NewStockAdjustmentApprovedEvent(a))
	return nil
}

// CanDelete reports whether the adjustment may be removed
func (a *StockAdjustment) CanDelete() error {
	if a.IsApproved {
		return shared.NewInvalidStateError("Approved stock adjustments cannot be deleted")
	}
	return nil
}

func (a *StockAdjustment) apply(in StockAdjustmentInput) error {
	if in.ItemID == uuid.Nil {
		return shared.NewDomainError("INVALID_ITEM", "Item is required")
	}
	adjType, err := ParseAdjustmentType(string(in.AdjustmentType))
	if err != nil {
		return err
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Reason is required")
	}
	if shared.RuneLen(reason) > 200 {
		return shared.NewDomainError("INVALID_REASON", "Reason must not exceed 200 characters")
	}
	if in.QuantityBefore < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity before must be zero or greater")
	}
	if in.AdjustmentQuantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Adjustment quantity must be greater than zero")
	}
	if in.UnitCost.IsNegative() {
		return shared.NewDomainError("INVALID_UNIT_COST", "Unit cost must be zero or greater")
	}

	after := in.QuantityBefore - in.AdjustmentQuantity
	sign := decimal.NewFromInt(-1)
	if adjType.IsIncrease() {
		after = in.QuantityBefore + in.AdjustmentQuantity
		sign = decimal.NewFromInt(1)
	}
	if after < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Resulting quantity cannot be negative")
	}

	a.ItemID = in.ItemID
	a.AdjustmentDate = in.AdjustmentDate
	a.AdjustmentType = adjType
	a.Reason = reason
	a.QuantityBefore = in.QuantityBefore
	a.AdjustmentQuantity = in.AdjustmentQuantity
	a.QuantityAfter = after
	a.UnitCost = in.UnitCost
	a.TotalCostImpact = decimal.NewFromInt(int64(in.AdjustmentQuantity)).Mul(in.UnitCost).Mul(sign)
	a.Reference = shared.TruncateString(in.Reference, 100)
	a.Notes = in.Notes
	return nil
}
