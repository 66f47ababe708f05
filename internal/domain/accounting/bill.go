package accounting

import (
	"strings"
	"time"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	maxBillNumberLength   = 50
	maxBillDescription    = 2048
	maxBillNotes          = 2000
	maxLineDescription    = 500
	maxVendorNameLength   = 256
	maxPaymentTermsLength = 100
)

// BillStatus is the posting state of a bill
type BillStatus string

const (
	BillStatusDraft  BillStatus = "Draft"
	BillStatusPosted BillStatus = "Posted"
	BillStatusPaid   BillStatus = "Paid"
	BillStatusVoid   BillStatus = "Void"
)

// ApprovalStatus is the approval state of a bill
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "Pending"
	ApprovalApproved ApprovalStatus = "Approved"
	ApprovalRejected ApprovalStatus = "Rejected"
)

// BillLineItem is one charge on a vendor bill
type BillLineItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BillID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNumber       int             `gorm:"not null"`
	Description      string          `gorm:"type:varchar(500);not null"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ChartOfAccountID *uuid.UUID      `gorm:"type:uuid"`
	TaxAmount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName returns the table name for GORM
func (BillLineItem) TableName() string {
	return "bill_line_items"
}

// BillLineInput describes a line to add to a bill
type BillLineInput struct {
	Description      string
	Quantity         decimal.Decimal
	UnitPrice        decimal.Decimal
	Amount           *decimal.Decimal
	ChartOfAccountID *uuid.UUID
	TaxAmount        decimal.Decimal
}

// LineAmount returns quantity times unit price rounded to cents
func LineAmount(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Round(2)
}

// NewBillLineItem validates a line and computes its amount
func NewBillLineItem(billID uuid.UUID, lineNumber int, in BillLineInput) (BillLineItem, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return BillLineItem{}, shared.NewDomainError("INVALID_LINE", "Line description is required")
	}
	if shared.RuneLen(desc) > maxLineDescription {
		return BillLineItem{}, shared.NewDomainError("INVALID_LINE", "Line description cannot exceed 500 characters")
	}
	if !in.Quantity.IsPositive() {
		return BillLineItem{}, shared.NewDomainError("INVALID_LINE", "Line quantity must be greater than zero")
	}
	if in.UnitPrice.IsNegative() {
		return BillLineItem{}, shared.NewDomainError("INVALID_LINE", "Line unit price cannot be negative")
	}
	if in.TaxAmount.IsNegative() {
		return BillLineItem{}, shared.NewDomainError("INVALID_LINE", "Line tax amount cannot be negative")
	}
	amount := LineAmount(in.Quantity, in.UnitPrice)
	if in.Amount != nil && !in.Amount.Round(2).Equal(amount) {
		return BillLineItem{}, shared.NewInvalidInputError("amount must equal quantity × unit price")
	}

	now := time.Now()
	return BillLineItem{
		ID:               uuid.New(),
		BillID:           billID,
		LineNumber:       lineNumber,
		Description:      desc,
		Quantity:         in.Quantity,
		UnitPrice:        in.UnitPrice,
		Amount:           amount,
		ChartOfAccountID: in.ChartOfAccountID,
		TaxAmount:        in.TaxAmount,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// Bill is a payable owed to a vendor
type Bill struct {
	shared.TenantAggregateRoot
	BillNumber          string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_bill_tenant_number,priority:2"`
	VendorID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	VendorName          string          `gorm:"type:varchar(256)"`
	BillDate            time.Time       `gorm:"not null"`
	DueDate             time.Time       `gorm:"not null;index"`
	Status              BillStatus      `gorm:"type:varchar(16);not null;index"`
	ApprovalStatus      ApprovalStatus  `gorm:"type:varchar(16);not null"`
	ApprovedBy          string          `gorm:"type:varchar(256)"`
	ApprovedDate        *time.Time
	PostedDate          *time.Time
	PaidDate            *time.Time
	PaymentTerms        string          `gorm:"type:varchar(100)"`
	PurchaseOrderNumber string          `gorm:"type:varchar(100)"`
	Description         string          `gorm:"type:varchar(2048)"`
	Notes               string          `gorm:"type:varchar(2000)"`
	TotalAmount         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Lines               []BillLineItem  `gorm:"foreignKey:BillID"`
}

// TableName returns the table name for GORM
func (Bill) TableName() string {
	return "bills"
}

// BillHeader carries the editable header fields of a bill
type BillHeader struct {
	BillNumber          string
	VendorID            uuid.UUID
	VendorName          string
	BillDate            time.Time
	DueDate             time.Time
	PaymentTerms        string
	PurchaseOrderNumber string
	Description         string
	Notes               string
}

// NewBill creates a draft bill pending approval with the given lines
func NewBill(tenantID uuid.UUID, h BillHeader, lines []BillLineInput) (*Bill, error) {
	h.BillNumber = strings.TrimSpace(h.BillNumber)
	if err := validateBillHeader(h); err != nil {
		return nil, err
	}

	b := &Bill{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Status:              BillStatusDraft,
		ApprovalStatus:      ApprovalPending,
	}
	b.applyHeader(h)
	if err := b.ReplaceLines(lines); err != nil {
		return nil, err
	}
	b.AddDomainEvent(NewBillCreatedEvent(b))
	return b, nil
}

// Update replaces the header and, when lines is non-nil, the lines.
// Posted and paid bills cannot be modified. An update that changes nothing
// leaves the version alone and raises no event.
func (b *Bill) Update(h BillHeader, lines []BillLineInput) error {
	if err := b.ensureModifiable(); err != nil {
		return err
	}
	h.BillNumber = strings.TrimSpace(h.BillNumber)
	if h.BillNumber == "" {
		h.BillNumber = b.BillNumber
	}
	if h.VendorID == uuid.Nil {
		h.VendorID = b.VendorID
	}
	if h.BillDate.IsZero() {
		h.BillDate = b.BillDate
	}
	if h.DueDate.IsZero() {
		h.DueDate = b.DueDate
	}
	if err := validateBillHeader(h); err != nil {
		return err
	}
	var items []BillLineItem
	if lines != nil {
		var err error
		if items, err = buildLines(b.ID, lines); err != nil {
			return err
		}
	}

	linesChanged := lines != nil && !sameLines(b.Lines, items)
	if b.headerMatches(h) && !linesChanged {
		return nil
	}
	b.applyHeader(h)
	if linesChanged {
		b.Lines = items
		b.recalculateTotal()
	}
	b.Touch()
	b.AddDomainEvent(NewBillUpdatedEvent(b))
	return nil
}

// ReplaceLines swaps the line set and recomputes the total
func (b *Bill) ReplaceLines(lines []BillLineInput) error {
	items, err := buildLines(b.ID, lines)
	if err != nil {
		return err
	}
	b.Lines = items
	b.recalculateTotal()
	return nil
}

func buildLines(billID uuid.UUID, lines []BillLineInput) ([]BillLineItem, error) {
	items := make([]BillLineItem, 0, len(lines))
	for i, in := range lines {
		item, err := NewBillLineItem(billID, i+1, in)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func sameLines(a, b []BillLineItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.Description != y.Description ||
			!x.Quantity.Equal(y.Quantity) ||
			!x.UnitPrice.Equal(y.UnitPrice) ||
			!x.TaxAmount.Equal(y.TaxAmount) {
			return false
		}
		if (x.ChartOfAccountID == nil) != (y.ChartOfAccountID == nil) ||
			(x.ChartOfAccountID != nil && *x.ChartOfAccountID != *y.ChartOfAccountID) {
			return false
		}
	}
	return true
}

// Approve records approval; approved or posted bills cannot be approved again
func (b *Bill) Approve(approvedBy string) error {
	approvedBy = strings.TrimSpace(approvedBy)
	if approvedBy == "" {
		return shared.NewDomainError("INVALID_APPROVER", "Approver is required")
	}
	if b.ApprovalStatus == ApprovalApproved {
		return shared.NewInvalidStateError("Bill is already approved")
	}
	if b.Status == BillStatusPosted || b.Status == BillStatusPaid {
		return shared.NewInvalidStateError("Bill is already posted")
	}
	if b.Status == BillStatusVoid {
		return shared.NewInvalidStateError("Bill is void")
	}
	now := time.Now()
	b.ApprovalStatus = ApprovalApproved
	b.ApprovedBy = shared.TruncateString(approvedBy, 256)
	b.ApprovedDate = &now
	b.Touch()
	b.AddDomainEvent(NewBillApprovedEvent(b))
	return nil
}

// Reject marks the bill rejected and appends the reason to its notes
func (b *Bill) Reject(rejectedBy, reason string) error {
	if strings.TrimSpace(rejectedBy) == "" {
		return shared.NewDomainError("INVALID_APPROVER", "Rejector is required")
	}
	if b.Status == BillStatusPosted || b.Status == BillStatusPaid {
		return shared.NewInvalidStateError("Bill is already posted")
	}
	b.ApprovalStatus = ApprovalRejected
	b.ApprovedBy = shared.TruncateString(rejectedBy, 256)
	b.appendNote("Rejected: " + strings.TrimSpace(reason))
	b.Touch()
	b.AddDomainEvent(NewBillRejectedEvent(b, reason))
	return nil
}

// Post posts an approved bill with a positive total
func (b *Bill) Post() error {
	if b.Status == BillStatusPosted || b.Status == BillStatusPaid {
		return shared.NewInvalidStateError("Bill is already posted")
	}
	if b.Status == BillStatusVoid {
		return shared.NewInvalidStateError("Bill is void")
	}
	if b.ApprovalStatus != ApprovalApproved {
		return shared.NewInvalidStateError("Bill must be approved before posting")
	}
	if !b.TotalAmount.IsPositive() {
		return shared.NewInvalidStateError("Total amount must be greater than zero")
	}
	now := time.Now()
	b.Status = BillStatusPosted
	b.PostedDate = &now
	b.Touch()
	b.AddDomainEvent(NewBillPostedEvent(b))
	return nil
}

// MarkAsPaid settles a posted bill; a zero paidDate means now
func (b *Bill) MarkAsPaid(paidDate time.Time) error {
	if b.Status == BillStatusPaid {
		return shared.NewInvalidStateError("Bill is already paid")
	}
	if b.Status != BillStatusPosted {
		return shared.NewInvalidStateError("Bill must be posted before it can be paid")
	}
	if paidDate.IsZero() {
		paidDate = time.Now()
	}
	b.Status = BillStatusPaid
	b.PaidDate = &paidDate
	b.Touch()
	b.AddDomainEvent(NewBillPaidEvent(b))
	return nil
}

// Void cancels an unpaid bill
func (b *Bill) Void(reason string) error {
	if b.Status == BillStatusPaid {
		return shared.NewInvalidStateError("Bill is already paid")
	}
	if b.Status == BillStatusVoid {
		return shared.NewInvalidStateError("Bill is already void")
	}
	b.Status = BillStatusVoid
	b.appendNote("Voided: " + strings.TrimSpace(reason))
	b.Touch()
	b.AddDomainEvent(NewBillVoidedEvent(b, reason))
	return nil
}

// CanDelete allows deleting draft bills only
func (b *Bill) CanDelete() error {
	if b.Status != BillStatusDraft {
		return shared.NewInvalidStateError("Only draft bills can be deleted")
	}
	return nil
}

// IsOverdue reports whether an unpaid, non-void bill is past due at now
func (b *Bill) IsOverdue(now time.Time) bool {
	if b.Status == BillStatusPaid || b.Status == BillStatusVoid {
		return false
	}
	return now.After(b.DueDate)
}

func (b *Bill) ensureModifiable() error {
	switch b.Status {
	case BillStatusPosted:
		return shared.NewInvalidStateError("Bill is already posted")
	case BillStatusPaid:
		return shared.NewInvalidStateError("Bill is already paid")
	case BillStatusVoid:
		return shared.NewInvalidStateError("Bill is void")
	}
	return nil
}

func (b *Bill) headerMatches(h BillHeader) bool {
	return b.BillNumber == h.BillNumber &&
		b.VendorID == h.VendorID &&
		b.VendorName == shared.TruncateString(h.VendorName, maxVendorNameLength) &&
		b.BillDate.Equal(h.BillDate) &&
		b.DueDate.Equal(h.DueDate) &&
		b.PaymentTerms == shared.TruncateString(h.PaymentTerms, maxPaymentTermsLength) &&
		b.PurchaseOrderNumber == shared.TruncateString(h.PurchaseOrderNumber, 100) &&
		b.Description == strings.TrimSpace(h.Description) &&
		b.Notes == strings.TrimSpace(h.Notes)
}

func (b *Bill) applyHeader(h BillHeader) {
	b.BillNumber = h.BillNumber
	b.VendorID = h.VendorID
	b.VendorName = shared.TruncateString(h.VendorName, maxVendorNameLength)
	b.BillDate = h.BillDate
	b.DueDate = h.DueDate
	b.PaymentTerms = shared.TruncateString(h.PaymentTerms, maxPaymentTermsLength)
	b.PurchaseOrderNumber = shared.TruncateString(h.PurchaseOrderNumber, 100)
	b.Description = strings.TrimSpace(h.Description)
	b.Notes = strings.TrimSpace(h.Notes)
}

func (b *Bill) recalculateTotal() {
	total := decimal.Zero
	for _, l := range b.Lines {
		total = total.Add(l.Amount).Add(l.TaxAmount)
	}
	b.TotalAmount = total
}

func (b *Bill) appendNote(note string) {
	if b.Notes == "" {
		b.Notes = note
	} else {
		b.Notes = b.Notes + "\n" + note
	}
	b.Notes = shared.TruncateString(b.Notes, maxBillNotes)
}

func validateBillHeader(h BillHeader) error {
	if h.BillNumber == "" {
		return shared.NewDomainError("INVALID_BILL_NUMBER", "Bill number is required")
	}
	if len(h.BillNumber) > maxBillNumberLength {
		return shared.NewDomainError("INVALID_BILL_NUMBER", "Bill number cannot exceed 50 characters")
	}
	if h.VendorID == uuid.Nil {
		return shared.NewDomainError("INVALID_VENDOR", "Vendor ID is required")
	}
	if h.BillDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Bill date is required")
	}
	if h.DueDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Due date is required")
	}
	if h.DueDate.Before(h.BillDate) {
		return shared.NewDomainError("INVALID_DATE", "Due date cannot be before bill date")
	}
	if shared.RuneLen(strings.TrimSpace(h.Description)) > maxBillDescription {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 2048 characters")
	}
	if shared.RuneLen(strings.TrimSpace(h.Notes)) > maxBillNotes {
		return shared.NewDomainError("INVALID_NOTES", "Notes cannot exceed 2000 characters")
	}
	return nil
}
