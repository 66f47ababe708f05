package microfinance

import (
	"time"

	"github.com/erp/lobapi/internal/domain/microfinance"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Fixed deposit DTOs
// =============================================================================

// CreateFixedDepositRequest opens a fixed deposit
type CreateFixedDepositRequest struct {
	CertificateNumber      string          `json:"certificate_number" binding:"required,min=1,max=64"`
	MemberID               uuid.UUID       `json:"member_id" binding:"required"`
	SavingsProductID       *uuid.UUID      `json:"savings_product_id"`
	LinkedSavingsAccountID *uuid.UUID      `json:"linked_savings_account_id"`
	PrincipalAmount        decimal.Decimal `json:"principal_amount" binding:"decimal_gte0"`
	InterestRate           decimal.Decimal `json:"interest_rate" binding:"decimal_gte0"`
	TermMonths             int             `json:"term_months" binding:"required,min=1,max=120"`
	DepositDate            *time.Time      `json:"deposit_date"`
	MaturityInstruction    string          `json:"maturity_instruction" binding:"max=32"`
	Notes                  string          `json:"notes" binding:"max=4096"`
}

func (r CreateFixedDepositRequest) toInput() microfinance.FixedDepositInput {
	in := microfinance.FixedDepositInput{
		CertificateNumber:      r.CertificateNumber,
		MemberID:               r.MemberID,
		SavingsProductID:       r.SavingsProductID,
		LinkedSavingsAccountID: r.LinkedSavingsAccountID,
		PrincipalAmount:        r.PrincipalAmount,
		InterestRate:           r.InterestRate,
		TermMonths:             r.TermMonths,
		MaturityInstruction:    r.MaturityInstruction,
		Notes:                  r.Notes,
	}
	if r.DepositDate != nil {
		in.DepositDate = *r.DepositDate
	}
	return in
}

// InterestAmountRequest posts or pays out interest
type InterestAmountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"decimal_gte0"`
}

// RenewDepositRequest starts a new term; nil keeps the current term or rate
type RenewDepositRequest struct {
	TermMonths   *int             `json:"term_months" binding:"omitempty,min=1,max=120"`
	InterestRate *decimal.Decimal `json:"interest_rate" binding:"omitempty,decimal_gte0"`
}

// ClosePrematureRequest closes a deposit before maturity
type ClosePrematureRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// UpdateMaturityInstructionRequest changes what happens at maturity
type UpdateMaturityInstructionRequest struct {
	MaturityInstruction string `json:"maturity_instruction" binding:"required,max=32"`
}

// SearchFixedDepositsRequest filters fixed deposits
type SearchFixedDepositsRequest struct {
	shared.PageRequest
	MemberID     *uuid.UUID `json:"member_id"`
	Status       *string    `json:"status"`
	MaturityFrom *time.Time `json:"maturity_from"`
	MaturityTo   *time.Time `json:"maturity_to"`
}

// FixedDepositResponse represents a fixed deposit in API responses
type FixedDepositResponse struct {
	ID                     uuid.UUID       `json:"id"`
	TenantID               uuid.UUID       `json:"tenant_id"`
	CertificateNumber      string          `json:"certificate_number"`
	MemberID               uuid.UUID       `json:"member_id"`
	SavingsProductID       *uuid.UUID      `json:"savings_product_id,omitempty"`
	LinkedSavingsAccountID *uuid.UUID      `json:"linked_savings_account_id,omitempty"`
	PrincipalAmount        decimal.Decimal `json:"principal_amount"`
	InterestRate           decimal.Decimal `json:"interest_rate"`
	TermMonths             int             `json:"term_months"`
	DepositDate            time.Time       `json:"deposit_date"`
	MaturityDate           time.Time       `json:"maturity_date"`
	InterestEarned         decimal.Decimal `json:"interest_earned"`
	InterestPaid           decimal.Decimal `json:"interest_paid"`
	ProjectedInterest      decimal.Decimal `json:"projected_interest"`
	MaturityInstruction    string          `json:"maturity_instruction"`
	Status                 string          `json:"status"`
	ClosedDate             *time.Time      `json:"closed_date,omitempty"`
	Notes                  string          `json:"notes"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
	Version                int             `json:"version"`
}

// ToFixedDepositResponse converts a domain FixedDeposit to FixedDepositResponse
func ToFixedDepositResponse(f *microfinance.FixedDeposit) FixedDepositResponse {
	return FixedDepositResponse{
		ID:                     f.ID,
		TenantID:               f.TenantID,
		CertificateNumber:      f.CertificateNumber,
		MemberID:               f.MemberID,
		SavingsProductID:       f.SavingsProductID,
		LinkedSavingsAccountID: f.LinkedSavingsAccountID,
		PrincipalAmount:        f.PrincipalAmount,
		InterestRate:           f.InterestRate,
		TermMonths:             f.TermMonths,
		DepositDate:            f.DepositDate,
		MaturityDate:           f.MaturityDate,
		InterestEarned:         f.InterestEarned,
		InterestPaid:           f.InterestPaid,
		ProjectedInterest:      f.ProjectedInterest(),
		MaturityInstruction:    string(f.MaturityInstruction),
		Status:                 string(f.Status),
		ClosedDate:             f.ClosedDate,
		Notes:                  f.Notes,
		CreatedAt:              f.CreatedAt,
		UpdatedAt:              f.UpdatedAt,
		Version:                f.Version,
	}
}

// =============================================================================
// Collection case DTOs
// =============================================================================

// CreateCollectionCaseRequest opens a collection case
type CreateCollectionCaseRequest struct {
	CaseNumber       string          `json:"case_number" binding:"required,min=1,max=64"`
	LoanID           uuid.UUID       `json:"loan_id" binding:"required"`
	MemberID         uuid.UUID       `json:"member_id" binding:"required"`
	DaysPastDue      int             `json:"days_past_due" binding:"min=0"`
	AmountOverdue    decimal.Decimal `json:"amount_overdue"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
}

// AssignCaseRequest hands a case to a collector
type AssignCaseRequest struct {
	CollectorID      uuid.UUID  `json:"collector_id" binding:"required"`
	NextFollowUpDate *time.Time `json:"next_follow_up_date"`
}

// RecordContactRequest logs a contact attempt
type RecordContactRequest struct {
	ContactDate      *time.Time `json:"contact_date"`
	NextFollowUpDate *time.Time `json:"next_follow_up_date"`
}

// PromiseToPayRequest records a promise to pay
type PromiseToPayRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"decimal_gte0"`
	Date   time.Time       `json:"date" binding:"required"`
}

// CaseReasonRequest carries a reason for escalation, write-off or closure
type CaseReasonRequest struct {
	Reason string `json:"reason" binding:"max=512"`
}

// RecoveryRequest records a recovered amount
type RecoveryRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"decimal_gte0"`
}

// SettleCaseRequest agrees a settlement
type SettleCaseRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"decimal_gte0"`
	Terms  string          `json:"terms" binding:"max=1000"`
}

// UpdateArrearsRequest refreshes the arrears figures of a case
type UpdateArrearsRequest struct {
	DaysPastDue      int             `json:"days_past_due" binding:"min=0"`
	AmountOverdue    decimal.Decimal `json:"amount_overdue" binding:"decimal_gte0"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding" binding:"decimal_gte0"`
}

// SearchCollectionCasesRequest filters collection cases
type SearchCollectionCasesRequest struct {
	shared.PageRequest
	Status              *string    `json:"status"`
	Priority            *string    `json:"priority"`
	Classification      *string    `json:"classification"`
	AssignedCollectorID *uuid.UUID `json:"assigned_collector_id"`
	LoanID              *uuid.UUID `json:"loan_id"`
	MemberID            *uuid.UUID `json:"member_id"`
}

// CollectionCaseResponse represents a collection case in API responses
type CollectionCaseResponse struct {
	ID                  uuid.UUID        `json:"id"`
	TenantID            uuid.UUID        `json:"tenant_id"`
	CaseNumber          string           `json:"case_number"`
	LoanID              uuid.UUID        `json:"loan_id"`
	MemberID            uuid.UUID        `json:"member_id"`
	AssignedCollectorID *uuid.UUID       `json:"assigned_collector_id,omitempty"`
	Status              string           `json:"status"`
	Priority            string           `json:"priority"`
	Classification      string           `json:"classification"`
	DaysPastDueAtOpen   int              `json:"days_past_due_at_open"`
	DaysPastDue         int              `json:"days_past_due"`
	AmountOverdue       decimal.Decimal  `json:"amount_overdue"`
	TotalOutstanding    decimal.Decimal  `json:"total_outstanding"`
	AmountRecovered     decimal.Decimal  `json:"amount_recovered"`
	OpenedDate          time.Time        `json:"opened_date"`
	AssignedDate        *time.Time       `json:"assigned_date,omitempty"`
	LastContactDate     *time.Time       `json:"last_contact_date,omitempty"`
	NextFollowUpDate    *time.Time       `json:"next_follow_up_date,omitempty"`
	ContactAttempts     int              `json:"contact_attempts"`
	PromiseAmount       *decimal.Decimal `json:"promise_amount,omitempty"`
	PromiseDate         *time.Time       `json:"promise_date,omitempty"`
	SettlementAmount    *decimal.Decimal `json:"settlement_amount,omitempty"`
	ClosedDate          *time.Time       `json:"closed_date,omitempty"`
	ClosureReason       string           `json:"closure_reason"`
	Notes               string           `json:"notes"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
	Version             int              `json:"version"`
}

// ToCollectionCaseResponse converts a domain CollectionCase to CollectionCaseResponse
func ToCollectionCaseResponse(c *microfinance.CollectionCase) CollectionCaseResponse {
	return CollectionCaseResponse{
		ID:                  c.ID,
		TenantID:            c.TenantID,
		CaseNumber:          c.CaseNumber,
		LoanID:              c.LoanID,
		MemberID:            c.MemberID,
		AssignedCollectorID: c.AssignedCollectorID,
		Status:              string(c.Status),
		Priority:            string(c.Priority),
		Classification:      string(c.Classification),
		DaysPastDueAtOpen:   c.DaysPastDueAtOpen,
		DaysPastDue:         c.DaysPastDue,
		AmountOverdue:       c.AmountOverdue,
		TotalOutstanding:    c.TotalOutstanding,
		AmountRecovered:     c.AmountRecovered,
		OpenedDate:          c.OpenedDate,
		AssignedDate:        c.AssignedDate,
		LastContactDate:     c.LastContactDate,
		NextFollowUpDate:    c.NextFollowUpDate,
		ContactAttempts:     c.ContactAttempts,
		PromiseAmount:       c.PromiseAmount,
		PromiseDate:         c.PromiseDate,
		SettlementAmount:    c.SettlementAmount,
		ClosedDate:          c.ClosedDate,
		ClosureReason:       c.ClosureReason,
		Notes:               c.Notes,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
		Version:             c.Version,
	}
}

func mapSlice[T, R any](items []T, fn func(*T) R) []R {
	out := make([]R, len(items))
	for i := range items {
		out[i] = fn(&items[i])
	}
	return out
}
