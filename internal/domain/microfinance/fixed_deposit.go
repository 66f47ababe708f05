package microfinance

import (
	"strings"
	"time"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	maxCertificateNumberLength = 64
	maxNotesLength             = 4096
	minTermMonths              = 1
	maxTermMonths              = 120
)

var hundred = decimal.NewFromInt(100)

// DepositStatus is the lifecycle state of a fixed deposit
type DepositStatus string

const (
	DepositStatusPending           DepositStatus = "Pending"
	DepositStatusActive            DepositStatus = "Active"
	DepositStatusMatured           DepositStatus = "Matured"
	DepositStatusPrematurelyClosed DepositStatus = "PrematurelyClosed"
	DepositStatusRenewed           DepositStatus = "Renewed"
)

// IsRunning reports whether the deposit is accruing interest
func (s DepositStatus) IsRunning() bool {
	return s == DepositStatusActive || s == DepositStatusRenewed
}

// MaturityInstruction says what happens to the funds at maturity
type MaturityInstruction string

const (
	MaturityRenewPrincipalAndInterest MaturityInstruction = "RenewPrincipalAndInterest"
	MaturityRenewPrincipal            MaturityInstruction = "RenewPrincipal"
	MaturityTransferToSavings         MaturityInstruction = "TransferToSavings"
	MaturityPayOut                    MaturityInstruction = "PayOut"
)

// MaturityInstructions lists every accepted instruction
var MaturityInstructions = []MaturityInstruction{
	MaturityRenewPrincipalAndInterest,
	MaturityRenewPrincipal,
	MaturityTransferToSavings,
	MaturityPayOut,
}

// ParseMaturityInstruction resolves an instruction; empty means TransferToSavings
func ParseMaturityInstruction(value string) (MaturityInstruction, error) {
	if strings.TrimSpace(value) == "" {
		return MaturityTransferToSavings, nil
	}
	mi, ok := shared.NormalizeEnum(value, MaturityInstructions...)
	if !ok {
		return "", shared.NewDomainError("INVALID_MATURITY_INSTRUCTION", "Invalid maturity instruction: "+value)
	}
	return mi, nil
}

// FixedDeposit is a term deposit certificate held by a member
type FixedDeposit struct {
	shared.TenantAggregateRoot
	CertificateNumber      string              `gorm:"type:varchar(64);not null;uniqueIndex:idx_fd_tenant_certificate,priority:2"`
	MemberID               uuid.UUID           `gorm:"type:uuid;not null;index"`
	SavingsProductID       *uuid.UUID          `gorm:"type:uuid"`
	LinkedSavingsAccountID *uuid.UUID          `gorm:"type:uuid"`
	PrincipalAmount        decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	InterestRate           decimal.Decimal     `gorm:"type:decimal(7,4);not null"`
	TermMonths             int                 `gorm:"not null"`
	DepositDate            time.Time           `gorm:"type:date;not null"`
	MaturityDate           time.Time           `gorm:"type:date;not null;index"`
	InterestEarned         decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	InterestPaid           decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	MaturityInstruction    MaturityInstruction `gorm:"type:varchar(32);not null"`
	Status                 DepositStatus       `gorm:"type:varchar(32);not null;index"`
	ClosedDate             *time.Time          `gorm:"type:date"`
	Notes                  string              `gorm:"type:varchar(4096)"`
}

// TableName returns the table name for GORM
func (FixedDeposit) TableName() string {
	return "mf_fixed_deposits"
}

// FixedDepositInput carries the fields needed to open a deposit
type FixedDepositInput struct {
	CertificateNumber      string
	MemberID               uuid.UUID
	SavingsProductID       *uuid.UUID
	LinkedSavingsAccountID *uuid.UUID
	PrincipalAmount        decimal.Decimal
	InterestRate           decimal.Decimal
	TermMonths             int
	DepositDate            time.Time
	MaturityInstruction    string
	Notes                  string
}

// NewFixedDeposit opens an Active deposit and computes its maturity date
func NewFixedDeposit(tenantID uuid.UUID, in FixedDepositInput) (*FixedDeposit, error) {
	number := strings.TrimSpace(in.CertificateNumber)
	if number == "" {
		return nil, shared.NewDomainError("INVALID_CERTIFICATE_NUMBER", "Certificate number is required")
	}
	if len(number) > maxCertificateNumberLength {
		return nil, shared.NewDomainError("INVALID_CERTIFICATE_NUMBER", "Certificate number cannot exceed 64 characters")
	}
	if in.MemberID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MEMBER", "Member is required")
	}
	if !in.PrincipalAmount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PRINCIPAL", "Principal amount must be positive")
	}
	if err := validateRate(in.InterestRate); err != nil {
		return nil, err
	}
	if err := validateTerm(in.TermMonths); err != nil {
		return nil, err
	}
	mi, err := ParseMaturityInstruction(in.MaturityInstruction)
	if err != nil {
		return nil, err
	}
	depositDate := dateOnly(in.DepositDate)
	if in.DepositDate.IsZero() {
		depositDate = dateOnly(time.Now())
	}

	fd := &FixedDeposit{
		TenantAggregateRoot:    shared.NewTenantAggregateRoot(tenantID),
		CertificateNumber:      number,
		MemberID:               in.MemberID,
		SavingsProductID:       in.SavingsProductID,
		LinkedSavingsAccountID: in.LinkedSavingsAccountID,
		PrincipalAmount:        in.PrincipalAmount,
		InterestRate:           in.InterestRate,
		TermMonths:             in.TermMonths,
		DepositDate:            depositDate,
		MaturityDate:           depositDate.AddDate(0, in.TermMonths, 0),
		InterestEarned:         decimal.Zero,
		InterestPaid:           decimal.Zero,
		MaturityInstruction:    mi,
		Status:                 DepositStatusActive,
		Notes:                  shared.TruncateString(in.Notes, maxNotesLength),
	}
	fd.AddDomainEvent(NewFixedDepositEvent(EventTypeFixedDepositCreated, fd))
	return fd, nil
}

// ProjectedInterest is simple interest over the full term, rounded to cents
func (f *FixedDeposit) ProjectedInterest() decimal.Decimal {
	return f.PrincipalAmount.
		Mul(f.InterestRate).Div(hundred).
		Mul(decimal.NewFromInt(int64(f.TermMonths))).Div(decimal.NewFromInt(12)).
		Round(2)
}

// AvailableInterest is interest earned but not yet paid out
func (f *FixedDeposit) AvailableInterest() decimal.Decimal {
	return f.InterestEarned.Sub(f.InterestPaid)
}

// PostInterest credits earned interest to a running deposit
func (f *FixedDeposit) PostInterest(amount decimal.Decimal) error {
	if !f.Status.IsRunning() {
		return shared.NewInvalidStateError("Cannot post interest to deposit in " + string(f.Status) + " status")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Interest amount must be positive")
	}
	f.InterestEarned = f.InterestEarned.Add(amount)
	f.Touch()
	f.AddDomainEvent(NewFixedDepositAmountEvent(EventTypeFixedDepositInterestPosted, f, amount))
	return nil
}

// PayInterest pays out earned interest up to the unpaid balance
func (f *FixedDeposit) PayInterest(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payout amount must be positive")
	}
	if amount.GreaterThan(f.AvailableInterest()) {
		return shared.NewInvalidStateError("Payout amount exceeds available interest")
	}
	f.InterestPaid = f.InterestPaid.Add(amount)
	f.Touch()
	f.AddDomainEvent(NewFixedDepositAmountEvent(EventTypeFixedDepositInterestPaid, f, amount))
	return nil
}

// Mature closes the term of a running deposit
func (f *FixedDeposit) Mature(at time.Time) error {
	if !f.Status.IsRunning() {
		return shared.NewInvalidStateError("Cannot mature deposit in " + string(f.Status) + " status")
	}
	if at.IsZero() {
		at = time.Now()
	}
	closed := dateOnly(at)
	f.Status = DepositStatusMatured
	f.ClosedDate = &closed
	f.Touch()
	f.AddDomainEvent(NewFixedDepositEvent(EventTypeFixedDepositMatured, f))
	return nil
}

// IsDue reports whether a running deposit has reached its maturity date
func (f *FixedDeposit) IsDue(now time.Time) bool {
	return f.Status.IsRunning() && !f.MaturityDate.After(dateOnly(now))
}

// Renew starts a new term for a matured deposit. Under
// RenewPrincipalAndInterest the unpaid interest is rolled into the principal.
func (f *FixedDeposit) Renew(newTermMonths *int, newRate *decimal.Decimal, now time.Time) error {
	if f.Status != DepositStatusMatured {
		return shared.NewInvalidStateError("Cannot renew deposit in " + string(f.Status) + " status")
	}
	if newTermMonths != nil {
		if err := validateTerm(*newTermMonths); err != nil {
			return err
		}
		f.TermMonths = *newTermMonths
	}
	if newRate != nil {
		if err := validateRate(*newRate); err != nil {
			return err
		}
		f.InterestRate = *newRate
	}
	if f.MaturityInstruction == MaturityRenewPrincipalAndInterest {
		f.PrincipalAmount = f.PrincipalAmount.Add(f.AvailableInterest())
		f.InterestPaid = f.InterestEarned
	}
	if now.IsZero() {
		now = time.Now()
	}
	f.DepositDate = dateOnly(now)
	f.MaturityDate = f.DepositDate.AddDate(0, f.TermMonths, 0)
	f.Status = DepositStatusRenewed
	f.ClosedDate = nil
	f.Touch()
	f.AddDomainEvent(NewFixedDepositEvent(EventTypeFixedDepositRenewed, f))
	return nil
}

// ClosePremature closes a running deposit before maturity
func (f *FixedDeposit) ClosePremature(reason string) error {
	if !f.Status.IsRunning() {
		return shared.NewInvalidStateError("Cannot close deposit in " + string(f.Status) + " status")
	}
	closed := dateOnly(time.Now())
	f.Status = DepositStatusPrematurelyClosed
	f.ClosedDate = &closed
	if reason = strings.TrimSpace(reason); reason != "" {
		f.appendNote("Premature closure: " + reason)
	}
	f.Touch()
	f.AddDomainEvent(NewFixedDepositEvent(EventTypeFixedDepositPrematurelyClosed, f))
	return nil
}

// UpdateMaturityInstruction changes the instruction while the deposit is open
func (f *FixedDeposit) UpdateMaturityInstruction(instruction string) error {
	if f.Status == DepositStatusMatured || f.Status == DepositStatusPrematurelyClosed {
		return shared.NewInvalidStateError("Cannot update instruction for deposit in " + string(f.Status) + " status")
	}
	mi, err := ParseMaturityInstruction(instruction)
	if err != nil {
		return err
	}
	if mi == f.MaturityInstruction {
		return nil
	}
	f.MaturityInstruction = mi
	f.Touch()
	return nil
}

func (f *FixedDeposit) appendNote(note string) {
	if f.Notes == "" {
		f.Notes = note
	} else {
		f.Notes += "\n" + note
	}
	f.Notes = shared.TruncateString(f.Notes, maxNotesLength)
}

func validateRate(rate decimal.Decimal) error {
	if !rate.IsPositive() || rate.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_INTEREST_RATE", "Interest rate must be greater than 0 and at most 100")
	}
	return nil
}

func validateTerm(months int) error {
	if months < minTermMonths || months > maxTermMonths {
		return shared.NewDomainError("INVALID_TERM", "Term must be between 1 and 120 months")
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
