package microfinance

import (
	"time"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeFixedDeposit   = "FixedDeposit"
	AggregateTypeCollectionCase = "CollectionCase"
)

// Event type constants
const (
	EventTypeFixedDepositCreated           = "FixedDepositCreated"
	EventTypeFixedDepositInterestPosted    = "FixedDepositInterestPosted"
	EventTypeFixedDepositInterestPaid      = "FixedDepositInterestPaid"
	EventTypeFixedDepositMatured           = "FixedDepositMatured"
	EventTypeFixedDepositRenewed           = "FixedDepositRenewed"
	EventTypeFixedDepositPrematurelyClosed = "FixedDepositPrematurelyClosed"

	EventTypeCollectionCaseOpened          = "CollectionCaseOpened"
	EventTypeCollectionCaseAssigned        = "CollectionCaseAssigned"
	EventTypeCollectionCaseContacted       = "CollectionCaseContacted"
	EventTypeCollectionCasePromiseRecorded = "CollectionCasePromiseRecorded"
	EventTypeCollectionCaseEscalated       = "CollectionCaseEscalated"
	EventTypeCollectionCaseRecovery        = "CollectionCaseRecoveryRecorded"
	EventTypeCollectionCaseSettled         = "CollectionCaseSettled"
	EventTypeCollectionCaseWrittenOff      = "CollectionCaseWrittenOff"
	EventTypeCollectionCaseClosed          = "CollectionCaseClosed"
	EventTypeCollectionCaseArrearsUpdated  = "CollectionCaseArrearsUpdated"
)

// FixedDepositEvent is published for every fixed deposit transition
type FixedDepositEvent struct {
	shared.BaseDomainEvent
	DepositID         uuid.UUID       `json:"deposit_id"`
	CertificateNumber string          `json:"certificate_number"`
	MemberID          uuid.UUID       `json:"member_id"`
	Status            DepositStatus   `json:"status"`
	PrincipalAmount   decimal.Decimal `json:"principal_amount"`
	MaturityDate      time.Time       `json:"maturity_date"`
	Amount            decimal.Decimal `json:"amount,omitempty"`
}

// NewFixedDepositEvent creates a fixed deposit event of the given type
func NewFixedDepositEvent(eventType string, f *FixedDeposit) *FixedDepositEvent {
	return &FixedDepositEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(eventType, AggregateTypeFixedDeposit, f.ID, f.TenantID),
		DepositID:         f.ID,
		CertificateNumber: f.CertificateNumber,
		MemberID:          f.MemberID,
		Status:            f.Status,
		PrincipalAmount:   f.PrincipalAmount,
		MaturityDate:      f.MaturityDate,
	}
}

// NewFixedDepositAmountEvent creates an event carrying a posted or paid amount
func NewFixedDepositAmountEvent(eventType string, f *FixedDeposit, amount decimal.Decimal) *FixedDepositEvent {
	e := NewFixedDepositEvent(eventType, f)
	e.Amount = amount
	return e
}

// CollectionCaseEvent is published for every collection case transition
type CollectionCaseEvent struct {
	shared.BaseDomainEvent
	CaseID         uuid.UUID          `json:"case_id"`
	CaseNumber     string             `json:"case_number"`
	LoanID         uuid.UUID          `json:"loan_id"`
	Status         CaseStatus         `json:"status"`
	Priority       CasePriority       `json:"priority"`
	Classification LoanClassification `json:"classification"`
	AmountOverdue  decimal.Decimal    `json:"amount_overdue"`
}

// NewCollectionCaseEvent creates a collection case event of the given type
func NewCollectionCaseEvent(eventType string, c *CollectionCase) *CollectionCaseEvent {
	return &CollectionCaseEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeCollectionCase, c.ID, c.TenantID),
		CaseID:          c.ID,
		CaseNumber:      c.CaseNumber,
		LoanID:          c.LoanID,
		Status:          c.Status,
		Priority:        c.Priority,
		Classification:  c.Classification,
		AmountOverdue:   c.AmountOverdue,
	}
}
