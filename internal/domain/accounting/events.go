package accounting

import (
	"time"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeChartOfAccount   = "ChartOfAccount"
	AggregateTypeAccountingPeriod = "AccountingPeriod"
	AggregateTypeBill             = "Bill"
)

// Event type constants
const (
	EventTypeChartOfAccountCreated        = "ChartOfAccountCreated"
	EventTypeChartOfAccountUpdated        = "ChartOfAccountUpdated"
	EventTypeChartOfAccountBalanceUpdated = "ChartOfAccountBalanceUpdated"
	EventTypeChartOfAccountStatusChanged  = "ChartOfAccountStatusChanged"

	EventTypeAccountingPeriodCreated  = "AccountingPeriodCreated"
	EventTypeAccountingPeriodUpdated  = "AccountingPeriodUpdated"
	EventTypeAccountingPeriodClosed   = "AccountingPeriodClosed"
	EventTypeAccountingPeriodReopened = "AccountingPeriodReopened"

	EventTypeBillCreated  = "BillCreated"
	EventTypeBillUpdated  = "BillUpdated"
	EventTypeBillApproved = "BillApproved"
	EventTypeBillRejected = "BillRejected"
	EventTypeBillPosted   = "BillPosted"
	EventTypeBillPaid     = "BillPaid"
	EventTypeBillVoided   = "BillVoided"
)

// ChartOfAccountEvent carries the identifying fields of an account
type ChartOfAccountEvent struct {
	shared.BaseDomainEvent
	AccountID    uuid.UUID    `json:"account_id"`
	AccountCode  string       `json:"account_code"`
	AccountName  string       `json:"account_name"`
	AccountType  AccountType  `json:"account_type"`
	UsoaCategory UsoaCategory `json:"usoa_category"`
}

func newChartOfAccountEvent(eventType string, a *ChartOfAccount) ChartOfAccountEvent {
	return ChartOfAccountEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeChartOfAccount, a.ID, a.TenantID),
		AccountID:       a.ID,
		AccountCode:     a.AccountCode,
		AccountName:     a.AccountName,
		AccountType:     a.AccountType,
		UsoaCategory:    a.UsoaCategory,
	}
}

// ChartOfAccountCreatedEvent is published when an account is created
type ChartOfAccountCreatedEvent struct {
	ChartOfAccountEvent
}

// NewChartOfAccountCreatedEvent creates a new ChartOfAccountCreatedEvent
func NewChartOfAccountCreatedEvent(a *ChartOfAccount) *ChartOfAccountCreatedEvent {
	return &ChartOfAccountCreatedEvent{newChartOfAccountEvent(EventTypeChartOfAccountCreated, a)}
}

// ChartOfAccountUpdatedEvent is published when account details change
type ChartOfAccountUpdatedEvent struct {
	ChartOfAccountEvent
}

// NewChartOfAccountUpdatedEvent creates a new ChartOfAccountUpdatedEvent
func NewChartOfAccountUpdatedEvent(a *ChartOfAccount) *ChartOfAccountUpdatedEvent {
	return &ChartOfAccountUpdatedEvent{newChartOfAccountEvent(EventTypeChartOfAccountUpdated, a)}
}

// ChartOfAccountBalanceUpdatedEvent is published when the balance changes
type ChartOfAccountBalanceUpdatedEvent struct {
	shared.BaseDomainEvent
	AccountID   uuid.UUID       `json:"account_id"`
	AccountCode string          `json:"account_code"`
	Balance     decimal.Decimal `json:"balance"`
}

// NewChartOfAccountBalanceUpdatedEvent creates a new ChartOfAccountBalanceUpdatedEvent
func NewChartOfAccountBalanceUpdatedEvent(a *ChartOfAccount) *ChartOfAccountBalanceUpdatedEvent {
	return &ChartOfAccountBalanceUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeChartOfAccountBalanceUpdated, AggregateTypeChartOfAccount, a.ID, a.TenantID),
		AccountID:       a.ID,
		AccountCode:     a.AccountCode,
		Balance:         a.Balance,
	}
}

// ChartOfAccountStatusChangedEvent is published on activation or deactivation
type ChartOfAccountStatusChangedEvent struct {
	shared.BaseDomainEvent
	AccountID   uuid.UUID `json:"account_id"`
	AccountCode string    `json:"account_code"`
	IsActive    bool      `json:"is_active"`
}

// NewChartOfAccountStatusChangedEvent creates a new ChartOfAccountStatusChangedEvent
func NewChartOfAccountStatusChangedEvent(a *ChartOfAccount) *ChartOfAccountStatusChangedEvent {
	return &ChartOfAccountStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeChartOfAccountStatusChanged, AggregateTypeChartOfAccount, a.ID, a.TenantID),
		AccountID:       a.ID,
		AccountCode:     a.AccountCode,
		IsActive:        a.IsActive,
	}
}

// AccountingPeriodEvent is published for every accounting period transition
type AccountingPeriodEvent struct {
	shared.BaseDomainEvent
	PeriodID   uuid.UUID `json:"period_id"`
	Name       string    `json:"name"`
	FiscalYear int       `json:"fiscal_year"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	IsClosed   bool      `json:"is_closed"`
}

func newAccountingPeriodEvent(eventType string, p *AccountingPeriod) *AccountingPeriodEvent {
	return &AccountingPeriodEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeAccountingPeriod, p.ID, p.TenantID),
		PeriodID:        p.ID,
		Name:            p.Name,
		FiscalYear:      p.FiscalYear,
		StartDate:       p.StartDate,
		EndDate:         p.EndDate,
		IsClosed:        p.IsClosed,
	}
}

// NewAccountingPeriodCreatedEvent creates an AccountingPeriodCreated event
func NewAccountingPeriodCreatedEvent(p *AccountingPeriod) *AccountingPeriodEvent {
	return newAccountingPeriodEvent(EventTypeAccountingPeriodCreated, p)
}

// NewAccountingPeriodUpdatedEvent creates an AccountingPeriodUpdated event
func NewAccountingPeriodUpdatedEvent(p *AccountingPeriod) *AccountingPeriodEvent {
	return newAccountingPeriodEvent(EventTypeAccountingPeriodUpdated, p)
}

// NewAccountingPeriodClosedEvent creates an AccountingPeriodClosed event
func NewAccountingPeriodClosedEvent(p *AccountingPeriod) *AccountingPeriodEvent {
	return newAccountingPeriodEvent(EventTypeAccountingPeriodClosed, p)
}

// NewAccountingPeriodReopenedEvent creates an AccountingPeriodReopened event
func NewAccountingPeriodReopenedEvent(p *AccountingPeriod) *AccountingPeriodEvent {
	return newAccountingPeriodEvent(EventTypeAccountingPeriodReopened, p)
}

// BillEvent is published for every bill transition
type BillEvent struct {
	shared.BaseDomainEvent
	BillID         uuid.UUID       `json:"bill_id"`
	BillNumber     string          `json:"bill_number"`
	VendorID       uuid.UUID       `json:"vendor_id"`
	Status         BillStatus      `json:"status"`
	ApprovalStatus ApprovalStatus  `json:"approval_status"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Reason         string          `json:"reason,omitempty"`
}

func newBillEvent(eventType string, b *Bill) *BillEvent {
	return &BillEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeBill, b.ID, b.TenantID),
		BillID:          b.ID,
		BillNumber:      b.BillNumber,
		VendorID:        b.VendorID,
		Status:          b.Status,
		ApprovalStatus:  b.ApprovalStatus,
		TotalAmount:     b.TotalAmount,
	}
}

// NewBillCreatedEvent creates a BillCreated event
func NewBillCreatedEvent(b *Bill) *BillEvent { return newBillEvent(EventTypeBillCreated, b) }

// NewBillUpdatedEvent creates a BillUpdated event
func NewBillUpdatedEvent(b *Bill) *BillEvent { return newBillEvent(EventTypeBillUpdated, b) }

// NewBillApprovedEvent creates a BillApproved event
func NewBillApprovedEvent(b *Bill) *BillEvent { return newBillEvent(EventTypeBillApproved, b) }

// NewBillPostedEvent creates a BillPosted event
func NewBillPostedEvent(b *Bill) *BillEvent { return newBillEvent(EventTypeBillPosted, b) }

// NewBillPaidEvent creates a BillPaid event
func NewBillPaidEvent(b *Bill) *BillEvent { return newBillEvent(EventTypeBillPaid, b) }

// NewBillRejectedEvent creates a BillRejected event
func NewBillRejectedEvent(b *Bill, reason string) *BillEvent {
	e := newBillEvent(EventTypeBillRejected, b)
	e.Reason = reason
	return e
}

// NewBillVoidedEvent creates a BillVoided event
func NewBillVoidedEvent(b *Bill, reason string) *BillEvent {
	e := newBillEvent(EventTypeBillVoided, b)
	e.Reason = reason
	return e
}
