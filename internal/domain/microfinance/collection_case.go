package microfinance

import (
	"strings"
	"time"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxClosureReasonLength = 512

// CaseStatus is the workflow state of a collection case
type CaseStatus string

const (
	CaseStatusOpen         CaseStatus = "Open"
	CaseStatusAssigned     CaseStatus = "Assigned"
	CaseStatusInProgress   CaseStatus = "InProgress"
	CaseStatusPromiseToPay CaseStatus = "PromiseToPay"
	CaseStatusLegal        CaseStatus = "Legal"
	CaseStatusRecovered    CaseStatus = "Recovered"
	CaseStatusWrittenOff   CaseStatus = "WrittenOff"
	CaseStatusSettled      CaseStatus = "Settled"
	CaseStatusClosed       CaseStatus = "Closed"
)

// IsTerminal reports whether no further collection work can happen
func (s CaseStatus) IsTerminal() bool {
	return s == CaseStatusClosed || s == CaseStatusRecovered || s == CaseStatusWrittenOff
}

// CasePriority orders the collectors' work queue
type CasePriority string

const (
	PriorityLow      CasePriority = "Low"
	PriorityMedium   CasePriority = "Medium"
	PriorityHigh     CasePriority = "High"
	PriorityCritical CasePriority = "Critical"
)

// LoanClassification is the regulatory classification of the loan in arrears
type LoanClassification string

const (
	ClassificationCurrent     LoanClassification = "Current"
	ClassificationWatch       LoanClassification = "Watch"
	ClassificationSubstandard LoanClassification = "Substandard"
	ClassificationDoubtful    LoanClassification = "Doubtful"
	ClassificationLoss        LoanClassification = "Loss"
)

var (
	criticalOverdue = decimal.NewFromInt(100000)
	highOverdue     = decimal.NewFromInt(50000)
	mediumOverdue   = decimal.NewFromInt(10000)
)

// PriorityFor derives a case priority from arrears
func PriorityFor(daysPastDue int, amountOverdue decimal.Decimal) CasePriority {
	switch {
	case daysPastDue > 90 || amountOverdue.GreaterThan(criticalOverdue):
		return PriorityCritical
	case daysPastDue > 60 || amountOverdue.GreaterThan(highOverdue):
		return PriorityHigh
	case daysPastDue > 30 || amountOverdue.GreaterThan(mediumOverdue):
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// ClassificationFor derives the loan classification from days past due
func ClassificationFor(daysPastDue int) LoanClassification {
	switch {
	case daysPastDue > 180:
		return ClassificationLoss
	case daysPastDue > 90:
		return ClassificationDoubtful
	case daysPastDue > 30:
		return ClassificationSubstandard
	case daysPastDue > 0:
		return ClassificationWatch
	default:
		return ClassificationCurrent
	}
}

// CollectionCase tracks recovery work on a delinquent loan
type CollectionCase struct {
	shared.TenantAggregateRoot
	CaseNumber          string             `gorm:"type:varchar(64);not null;uniqueIndex:idx_cc_tenant_number,priority:2"`
	LoanID              uuid.UUID          `gorm:"type:uuid;not null;index"`
	MemberID            uuid.UUID          `gorm:"type:uuid;not null;index"`
	AssignedCollectorID *uuid.UUID         `gorm:"type:uuid;index"`
	Status              CaseStatus         `gorm:"type:varchar(32);not null;index"`
	Priority            CasePriority       `gorm:"type:varchar(32);not null"`
	Classification      LoanClassification `gorm:"type:varchar(32);not null"`
	DaysPastDueAtOpen   int                `gorm:"not null"`
	DaysPastDue         int                `gorm:"not null"`
	AmountOverdue       decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	TotalOutstanding    decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	AmountRecovered     decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	OpenedDate          time.Time          `gorm:"type:date;not null"`
	AssignedDate        *time.Time         `gorm:"type:date"`
	LastContactDate     *time.Time         `gorm:"type:date"`
	NextFollowUpDate    *time.Time         `gorm:"type:date"`
	ContactAttempts     int                `gorm:"not null"`
	PromiseAmount       *decimal.Decimal   `gorm:"type:decimal(18,2)"`
	PromiseDate         *time.Time         `gorm:"type:date"`
	SettlementAmount    *decimal.Decimal   `gorm:"type:decimal(18,2)"`
	ClosedDate          *time.Time         `gorm:"type:date"`
	ClosureReason       string             `gorm:"type:varchar(512)"`
	Notes               string             `gorm:"type:varchar(4096)"`
}

// TableName returns the table name for GORM
func (CollectionCase) TableName() string {
	return "mf_collection_cases"
}

// NewCollectionCase opens a case and derives priority and classification
func NewCollectionCase(tenantID uuid.UUID, caseNumber string, loanID, memberID uuid.UUID, daysPastDue int, amountOverdue, totalOutstanding decimal.Decimal) (*CollectionCase, error) {
	caseNumber = strings.TrimSpace(caseNumber)
	if caseNumber == "" {
		return nil, shared.NewDomainError("INVALID_CASE_NUMBER", "Case number is required")
	}
	if len(caseNumber) > 64 {
		return nil, shared.NewDomainError("INVALID_CASE_NUMBER", "Case number cannot exceed 64 characters")
	}
	if loanID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOAN", "Loan is required")
	}
	if memberID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MEMBER", "Member is required")
	}
	if err := validateArrears(daysPastDue, amountOverdue, totalOutstanding); err != nil {
		return nil, err
	}

	c := &CollectionCase{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CaseNumber:          caseNumber,
		LoanID:              loanID,
		MemberID:            memberID,
		Status:              CaseStatusOpen,
		Priority:            PriorityFor(daysPastDue, amountOverdue),
		Classification:      ClassificationFor(daysPastDue),
		DaysPastDueAtOpen:   daysPastDue,
		DaysPastDue:         daysPastDue,
		AmountOverdue:       amountOverdue,
		TotalOutstanding:    totalOutstanding,
		AmountRecovered:     decimal.Zero,
		OpenedDate:          dateOnly(time.Now()),
	}
	c.AddDomainEvent(NewCollectionCaseEvent(EventTypeCollectionCaseOpened, c))
	return c, nil
}

// Assign hands the case to a collector
func (c *CollectionCase) Assign(collectorID uuid.UUID, followUp *time.Time) error {
	if c.Status.IsTerminal() {
		return shared.NewInvalidStateError("Cannot assign a case in " + string(c.Status) + " status")
	}
	if collectorID == uuid.Nil {
		return shared.NewDomainError("INVALID_COLLECTOR", "Collector is required")
	}
	today := dateOnly(time.Now())
	c.AssignedCollectorID = &collectorID
	c.AssignedDate = &today
	if followUp != nil {
		f := dateOnly(*followUp)
		c.NextFollowUpDate = &f
	}
	c.Status = CaseStatusAssigned
	c.Touch()
	c.AddDomainEvent(NewCollectionCaseEvent(EventTypeCollectionCaseAssigned, c))
	return nil
}

// RecordContact logs a contact attempt and moves the case in progress
func (c *CollectionCase) RecordContact(contactDate time.Time, followUp *time.Time) error {
	if c.Status.IsTerminal() {
		return shared.NewInvalidStateError("Cannot record contact on a case in " + string(c.Status) + " status")
	}
	if contactDate.IsZero() {
		contactDate = time.Now()
	}
	cd := dateOnly(contactDate)
	c.LastContactDate = &cd
	c.ContactAttempts++
	if followUp != nil {
		f := dateOnly(*followUp)
		c.NextFollowUpDate = &f
	}
	c.Status = CaseStatusInProgress
	c.Touch()
	c.AddDomainEvent(NewCollectionCaseEvent(EventTypeCollectionCaseContacted, c))
	return nil
}

// RecordPromiseToPay records the borrower's commitment to pay amount by date
func (c *CollectionCase) RecordPromiseToPay(amount decimal.Decimal, date, now time.Time) error {
	if c.Status.IsTerminal() {
		return shared.NewInvalidStateError("Cannot record a promise on a case in " + string(c.Status) + " status")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Promise amount must be positive")
	}
	if dateOnly(date).Before(dateOnly(now)) {
		return shared.NewDomainError("INVALID_DATE", "Promise date cannot be in the past")
	}
	pd := dateOnly(date)
	c.PromiseAmount = &amount
	c.PromiseDate = &pd
	c.NextFollowUpDate = &pd
	c.Status = CaseStatusPromiseToPay
	c.Touch()
	c.AddDomainEvent(NewCollectionCaseEvent(EventTypeCollectionCasePromiseRecorded, c))
	return nil
}

// EscalateToLegal hands the case to legal
func (c *CollectionCase) EscalateToLegal(reason string) error {
	if c.Status.IsTerminal() {
		return shared.NewInvalidStateError("Cannot escalate a case in " + string(c.Status) + " status")
	}
	if c.Status == CaseStatusLegal {
		return shared.NewInvalidStateError("Case is already with legal")
	}
	c.Status = CaseStatusLegal
	if reason = strings.TrimSpace(reason); reason != "" {
		c.appendNote("Legal escalation: " + reason)
	}
	c.Touch()
	c.AddDomainEvent(NewCollectionCaseEvent(EventTypeCollectionCaseEscalated, c))
	return nil
}

// RecordRecovery applies a payment; the case is Recovered once nothing is overdue
func (c *CollectionCase) RecordRecovery(amount decimal.Decimal) error {
	if c.Status.IsTerminal() {
		return shared.NewInvalidStateError("Cannot record recovery on a case in " + string(c.Status) + " status")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Recovery amount must be positive")
	}
	c.AmountRecovered = c.AmountRecovered.Add(amount)
	c.AmountOverdue = decimal.Max(decimal.Zero, c.AmountOverdue.Sub(amount))
	c.TotalOutstanding = decimal.Max(decimal.Zero, c.TotalOutstanding.Sub(amount))
	if c.AmountOverdue.IsZero() {
		today := dateOnly(time.Now())
		c.Status = CaseStatusRecovered
		c.ClosedDate = &today
	}
	c.Touch()
	c.AddDomainEvent(NewCollectionCaseEvent(EventTypeCollectionCaseRecovery, c))
	return nil
}

// Settle agrees a settlement amount with the borrower
func (c *CollectionCase) Settle(amount decimal.Decimal, terms string) error {
	if c.Status.IsTerminal() || c.Status == CaseStatusSettled {
		return shared.NewInvalidStateError("Cannot settle a case in " + string(c.Status) + " status")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Settlement amount must be positive")
	}
	c.SettlementAmount = &amount
	c.Status = CaseStatusSettled
	if terms = strings.TrimSpace(terms); terms != "" {
		c.appendNote("Settlement: " + terms)
	}
	c.Touch()
	c.AddDomainEvent(NewCollectionCaseEvent(EventTypeCollectionCaseSettled, c))
	return nil
}

// WriteOff writes the remaining balance off
func (c *CollectionCase) WriteOff(reason string) error {
	if c.Status.IsTerminal() {
		return shared.NewInvalidStateError("Cannot write off a case in " + string(c.Status) + " status")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Write-off reason is required")
	}
	today := dateOnly(time.Now())
	c.Status = CaseStatusWrittenOff
	c.ClosedDate = &today
	c.ClosureReason = shared.TruncateString(reason, maxClosureReasonLength)
	c.Touch()
	c.AddDomainEvent(NewCollectionCaseEvent(EventTypeCollectionCaseWrittenOff, c))
	return nil
}

// Close closes the case with a reason
func (c *CollectionCase) Close(reason string) error {
	if c.Status == CaseStatusClosed {
		return shared.NewInvalidStateError("Case is already closed")
	}
	today := dateOnly(time.Now())
	c.Status = CaseStatusClosed
	c.ClosedDate = &today
	c.ClosureReason = shared.TruncateString(reason, maxClosureReasonLength)
	c.Touch()
	c.AddDomainEvent(NewCollectionCaseEvent(EventTypeCollectionCaseClosed, c))
	return nil
}

// UpdateArrears refreshes the arrears figures and recomputes priority and classification
func (c *CollectionCase) UpdateArrears(daysPastDue int, amountOverdue, totalOutstanding decimal.Decimal) error {
	if err := validateArrears(daysPastDue, amountOverdue, totalOutstanding); err != nil {
		return err
	}
	if daysPastDue == c.DaysPastDue && amountOverdue.Equal(c.AmountOverdue) && totalOutstanding.Equal(c.TotalOutstanding) {
		return nil
	}
	c.DaysPastDue = daysPastDue
	c.AmountOverdue = amountOverdue
	c.TotalOutstanding = totalOutstanding
	c.Priority = PriorityFor(daysPastDue, amountOverdue)
	c.Classification = ClassificationFor(daysPastDue)
	c.Touch()
	c.AddDomainEvent(NewCollectionCaseEvent(EventTypeCollectionCaseArrearsUpdated, c))
	return nil
}

func (c *CollectionCase) appendNote(note string) {
	if c.Notes == "" {
		c.Notes = note
	} else {
		c.Notes += "\n" + note
	}
	c.Notes = shared.TruncateString(c.Notes, maxNotesLength)
}

func validateArrears(daysPastDue int, amountOverdue, totalOutstanding decimal.Decimal) error {
	if daysPastDue < 0 {
		return shared.NewDomainError("INVALID_ARREARS", "Days past due cannot be negative")
	}
	if amountOverdue.IsNegative() || totalOutstanding.IsNegative() {
		return shared.NewDomainError("INVALID_ARREARS", "Amounts cannot be negative")
	}
	return nil
}
