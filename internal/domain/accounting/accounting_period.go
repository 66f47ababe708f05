package accounting

import (
	"strings"
	"time"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	minFiscalYear = 1900
	maxFiscalYear = 2100
)

// PeriodType is the length of an accounting period
type PeriodType string

const (
	PeriodTypeMonthly   PeriodType = "Monthly"
	PeriodTypeQuarterly PeriodType = "Quarterly"
	PeriodTypeYearly    PeriodType = "Yearly"
	PeriodTypeAnnual    PeriodType = "Annual"
)

// PeriodTypes lists every accepted period type
var PeriodTypes = []PeriodType{PeriodTypeMonthly, PeriodTypeQuarterly, PeriodTypeYearly, PeriodTypeAnnual}

// ParsePeriodType resolves a period type case-insensitively
func ParsePeriodType(value string) (PeriodType, error) {
	if len(strings.TrimSpace(value)) > 16 {
		return "", shared.NewDomainError("INVALID_PERIOD_TYPE", "Period type cannot exceed 16 characters")
	}
	pt, ok := shared.NormalizeEnum(value, PeriodTypes...)
	if !ok {
		return "", shared.NewDomainError("INVALID_PERIOD_TYPE", "Invalid period type: "+value)
	}
	return pt, nil
}

// AccountingPeriod is a fiscal window that can be closed to further posting
type AccountingPeriod struct {
	shared.TenantAggregateRoot
	Name               string     `gorm:"type:varchar(1024);not null"`
	StartDate          time.Time  `gorm:"not null"`
	EndDate            time.Time  `gorm:"not null"`
	FiscalYear         int        `gorm:"not null;index"`
	PeriodType         PeriodType `gorm:"type:varchar(16);not null"`
	IsAdjustmentPeriod bool       `gorm:"not null"`
	IsClosed           bool       `gorm:"not null;index"`
	ClosedDate         *time.Time
	ClosedBy           string `gorm:"type:varchar(256)"`
	Description        string `gorm:"type:varchar(2048)"`
	Notes              string `gorm:"type:varchar(2048)"`
}

// TableName returns the table name for GORM
func (AccountingPeriod) TableName() string {
	return "accounting_periods"
}

// AccountingPeriodDetails holds optional period fields; nil means unchanged
type AccountingPeriodDetails struct {
	Name               *string
	StartDate          *time.Time
	EndDate            *time.Time
	FiscalYear         *int
	PeriodType         *string
	IsAdjustmentPeriod *bool
	Description        *string
	Notes              *string
}

// NewAccountingPeriod creates an open period
func NewAccountingPeriod(tenantID uuid.UUID, name string, start, end time.Time, fiscalYear int, periodType string) (*AccountingPeriod, error) {
	name = strings.TrimSpace(name)
	if err := validatePeriodName(name); err != nil {
		return nil, err
	}
	if err := validatePeriodRange(start, end); err != nil {
		return nil, err
	}
	if err := validateFiscalYear(fiscalYear); err != nil {
		return nil, err
	}
	pt, err := ParsePeriodType(periodType)
	if err != nil {
		return nil, err
	}

	p := &AccountingPeriod{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		StartDate:           start,
		EndDate:             end,
		FiscalYear:          fiscalYear,
		PeriodType:          pt,
	}
	p.AddDomainEvent(NewAccountingPeriodCreatedEvent(p))
	return p, nil
}

// Update changes an open period
func (p *AccountingPeriod) Update(d AccountingPeriodDetails) (bool, error) {
	if p.IsClosed {
		return false, shared.NewInvalidStateError("accounting period is already closed")
	}

	start, end := p.StartDate, p.EndDate
	if d.StartDate != nil {
		start = *d.StartDate
	}
	if d.EndDate != nil {
		end = *d.EndDate
	}
	if err := validatePeriodRange(start, end); err != nil {
		return false, err
	}

	changed := false
	if d.Name != nil && strings.TrimSpace(*d.Name) != "" && strings.TrimSpace(*d.Name) != p.Name {
		name := strings.TrimSpace(*d.Name)
		if err := validatePeriodName(name); err != nil {
			return false, err
		}
		p.Name = name
		changed = true
	}
	if !start.Equal(p.StartDate) {
		p.StartDate = start
		changed = true
	}
	if !end.Equal(p.EndDate) {
		p.EndDate = end
		changed = true
	}
	if d.FiscalYear != nil && *d.FiscalYear != p.FiscalYear {
		if err := validateFiscalYear(*d.FiscalYear); err != nil {
			return false, err
		}
		p.FiscalYear = *d.FiscalYear
		changed = true
	}
	if d.PeriodType != nil && strings.TrimSpace(*d.PeriodType) != "" {
		pt, err := ParsePeriodType(*d.PeriodType)
		if err != nil {
			return false, err
		}
		if pt != p.PeriodType {
			p.PeriodType = pt
			changed = true
		}
	}
	if d.IsAdjustmentPeriod != nil && *d.IsAdjustmentPeriod != p.IsAdjustmentPeriod {
		p.IsAdjustmentPeriod = *d.IsAdjustmentPeriod
		changed = true
	}
	if d.Description != nil {
		if v := shared.TruncateString(*d.Description, maxAccountTextLength); v != p.Description {
			p.Description = v
			changed = true
		}
	}
	if d.Notes != nil {
		if v := shared.TruncateString(*d.Notes, maxAccountTextLength); v != p.Notes {
			p.Notes = v
			changed = true
		}
	}

	if changed {
		p.Touch()
		p.AddDomainEvent(NewAccountingPeriodUpdatedEvent(p))
	}
	return changed, nil
}

// Close closes the period as of closingDate, which must fall inside it.
// A zero closingDate means now.
func (p *AccountingPeriod) Close(closingDate time.Time, closedBy string) error {
	if p.IsClosed {
		return shared.NewInvalidStateError("accounting period is already closed")
	}
	if closingDate.IsZero() {
		closingDate = time.Now()
	}
	if !p.IsDateInPeriod(closingDate) {
		return shared.NewInvalidInputError("closing date must fall within the accounting period")
	}

	p.IsClosed = true
	p.ClosedDate = &closingDate
	p.ClosedBy = shared.TruncateString(closedBy, 256)
	p.Touch()
	p.AddDomainEvent(NewAccountingPeriodClosedEvent(p))
	return nil
}

// Reopen reopens a closed period
func (p *AccountingPeriod) Reopen() error {
	if !p.IsClosed {
		return shared.NewInvalidStateError("accounting period is not closed")
	}
	p.IsClosed = false
	p.ClosedDate = nil
	p.ClosedBy = ""
	p.Touch()
	p.AddDomainEvent(NewAccountingPeriodReopenedEvent(p))
	return nil
}

// IsDateInPeriod reports whether t falls in the period, inclusive on both ends
func (p *AccountingPeriod) IsDateInPeriod(t time.Time) bool {
	return !t.Before(p.StartDate) && !t.After(p.EndDate)
}

// CanDelete rejects closed periods
func (p *AccountingPeriod) CanDelete() error {
	if p.IsClosed {
		return shared.NewInvalidStateError("a closed accounting period cannot be deleted")
	}
	return nil
}

func validatePeriodName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Accounting period name is required")
	}
	if shared.RuneLen(name) > maxAccountNameLength {
		return shared.NewDomainError("INVALID_NAME", "Accounting period name cannot exceed 1024 characters")
	}
	return nil
}

func validatePeriodRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return shared.NewDomainError("INVALID_DATE_RANGE", "Start and end dates are required")
	}
	if !end.After(start) {
		return shared.NewDomainError("INVALID_DATE_RANGE", "End date must be after start date")
	}
	return nil
}

func validateFiscalYear(year int) error {
	if year < minFiscalYear || year > maxFiscalYear {
		return shared.NewDomainError("INVALID_FISCAL_YEAR", "Fiscal year must be between 1900 and 2100")
	}
	return nil
}
