package accounting

import (
	"strings"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	maxAccountCodeLength        = 16
	maxAccountNameLength        = 1024
	maxParentCodeLength         = 16
	maxRegulatoryClassification = 256
	maxAccountTextLength        = 2048
)

// AccountType is the top-level classification of a ledger account
type AccountType string

const (
	AccountTypeAsset     AccountType = "Asset"
	AccountTypeLiability AccountType = "Liability"
	AccountTypeEquity    AccountType = "Equity"
	AccountTypeRevenue   AccountType = "Revenue"
	AccountTypeExpense   AccountType = "Expense"
)

// AccountTypes lists every accepted account type
var AccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeRevenue,
	AccountTypeExpense,
}

// UsoaCategory is the Uniform System of Accounts functional category
type UsoaCategory string

const (
	UsoaProduction       UsoaCategory = "Production"
	UsoaTransmission     UsoaCategory = "Transmission"
	UsoaDistribution     UsoaCategory = "Distribution"
	UsoaCustomerAccounts UsoaCategory = "Customer Accounts"
	UsoaCustomerService  UsoaCategory = "Customer Service"
	UsoaSales            UsoaCategory = "Sales"
	UsoaAdministrative   UsoaCategory = "Administrative"
	UsoaGeneral          UsoaCategory = "General"
	UsoaMaintenance      UsoaCategory = "Maintenance"
	UsoaOperation        UsoaCategory = "Operation"
)

// UsoaCategories lists every accepted USOA category
var UsoaCategories = []UsoaCategory{
	UsoaProduction,
	UsoaTransmission,
	UsoaDistribution,
	UsoaCustomerAccounts,
	UsoaCustomerService,
	UsoaSales,
	UsoaAdministrative,
	UsoaGeneral,
	UsoaMaintenance,
	UsoaOperation,
}

// NormalBalance is the side on which an account normally carries its balance
type NormalBalance string

const (
	NormalBalanceDebit  NormalBalance = "Debit"
	NormalBalanceCredit NormalBalance = "Credit"
)

// ParseAccountType resolves an account type case-insensitively
func ParseAccountType(value string) (AccountType, error) {
	t, ok := shared.NormalizeEnum(value, AccountTypes...)
	if !ok {
		return "", shared.NewDomainError("INVALID_ACCOUNT_TYPE", "Invalid account type: "+value)
	}
	return t, nil
}

// ParseUsoaCategory resolves a USOA category case-insensitively
func ParseUsoaCategory(value string) (UsoaCategory, error) {
	c, ok := shared.NormalizeEnum(value, UsoaCategories...)
	if !ok {
		return "", shared.NewDomainError("INVALID_USOA_CATEGORY", "Invalid USOA category: "+value)
	}
	return c, nil
}

// ParseNormalBalance resolves Debit or Credit; empty means Debit
func ParseNormalBalance(value string) (NormalBalance, error) {
	if strings.TrimSpace(value) == "" {
		return NormalBalanceDebit, nil
	}
	nb, ok := shared.NormalizeEnum(value, NormalBalanceDebit, NormalBalanceCredit)
	if !ok {
		return "", shared.NewDomainError("INVALID_NORMAL_BALANCE", "Normal balance must be Debit or Credit")
	}
	return nb, nil
}

// ChartOfAccount is a ledger account in the tenant's chart of accounts
type ChartOfAccount struct {
	shared.TenantAggregateRoot
	AccountCode              string          `gorm:"type:varchar(16);not null;uniqueIndex:idx_coa_tenant_code,priority:2"`
	AccountName              string          `gorm:"type:varchar(1024);not null"`
	AccountType              AccountType     `gorm:"type:varchar(32);not null;index"`
	UsoaCategory             UsoaCategory    `gorm:"type:varchar(32);not null"`
	SubAccountOf             *uuid.UUID      `gorm:"type:uuid"`
	ParentCode               string          `gorm:"type:varchar(16)"`
	Balance                  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	IsControlAccount         bool            `gorm:"not null"`
	NormalBalance            NormalBalance   `gorm:"type:varchar(8);not null"`
	AccountLevel             int             `gorm:"not null"`
	AllowDirectPosting       bool            `gorm:"not null"`
	IsUsoaCompliant          bool            `gorm:"not null"`
	RegulatoryClassification string          `gorm:"type:varchar(256)"`
	Description              string          `gorm:"type:varchar(2048)"`
	Notes                    string          `gorm:"type:varchar(2048)"`
	IsActive                 bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ChartOfAccount) TableName() string {
	return "chart_of_accounts"
}

// ChartOfAccountDetails holds optional account fields. Nil means unchanged.
type ChartOfAccountDetails struct {
	AccountName              *string
	AccountType              *string
	UsoaCategory             *string
	SubAccountOf             *uuid.UUID
	ParentCode               *string
	IsControlAccount         *bool
	NormalBalance            *string
	IsUsoaCompliant          *bool
	RegulatoryClassification *string
	Description              *string
	Notes                    *string
}

// NewChartOfAccount creates an active account. The level and direct posting
// flag are derived from the parent code and the control flag.
func NewChartOfAccount(tenantID uuid.UUID, code, name, accountType, usoaCategory string, d ChartOfAccountDetails) (*ChartOfAccount, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_CODE", "Account code cannot be empty")
	}
	if len(code) > maxAccountCodeLength {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_CODE", "Account code cannot exceed 16 characters")
	}
	name = strings.TrimSpace(name)
	if err := validateAccountName(name); err != nil {
		return nil, err
	}
	at, err := ParseAccountType(accountType)
	if err != nil {
		return nil, err
	}
	uc, err := ParseUsoaCategory(usoaCategory)
	if err != nil {
		return nil, err
	}

	a := &ChartOfAccount{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		AccountCode:         code,
		AccountName:         name,
		AccountType:         at,
		UsoaCategory:        uc,
		Balance:             decimal.Zero,
		NormalBalance:       NormalBalanceDebit,
		IsUsoaCompliant:     true,
		IsActive:            true,
	}
	if d.SubAccountOf != nil {
		a.SubAccountOf = d.SubAccountOf
	}
	if d.ParentCode != nil {
		a.ParentCode = shared.TruncateString(*d.ParentCode, maxParentCodeLength)
	}
	if d.IsControlAccount != nil {
		a.IsControlAccount = *d.IsControlAccount
	}
	if d.NormalBalance != nil {
		nb, err := ParseNormalBalance(*d.NormalBalance)
		if err != nil {
			return nil, err
		}
		a.NormalBalance = nb
	}
	if d.IsUsoaCompliant != nil {
		a.IsUsoaCompliant = *d.IsUsoaCompliant
	}
	if d.RegulatoryClassification != nil {
		a.RegulatoryClassification = shared.TruncateString(*d.RegulatoryClassification, maxRegulatoryClassification)
	}
	if d.Description != nil {
		a.Description = shared.TruncateString(*d.Description, maxAccountTextLength)
	}
	if d.Notes != nil {
		a.Notes = shared.TruncateString(*d.Notes, maxAccountTextLength)
	}
	a.AccountLevel = accountLevel(a.ParentCode)
	a.AllowDirectPosting = !a.IsControlAccount

	a.AddDomainEvent(NewChartOfAccountCreatedEvent(a))
	return a, nil
}

// Update applies the differing fields of d and recomputes derived values
func (a *ChartOfAccount) Update(d ChartOfAccountDetails) (bool, error) {
	changed := false

	if d.AccountName != nil && strings.TrimSpace(*d.AccountName) != "" && strings.TrimSpace(*d.AccountName) != a.AccountName {
		name := strings.TrimSpace(*d.AccountName)
		if err := validateAccountName(name); err != nil {
			return false, err
		}
		a.AccountName = name
		changed = true
	}
	if d.AccountType != nil && strings.TrimSpace(*d.AccountType) != "" {
		at, err := ParseAccountType(*d.AccountType)
		if err != nil {
			return false, err
		}
		if at != a.AccountType {
			a.AccountType = at
			changed = true
		}
	}
	if d.UsoaCategory != nil && strings.TrimSpace(*d.UsoaCategory) != "" {
		uc, err := ParseUsoaCategory(*d.UsoaCategory)
		if err != nil {
			return false, err
		}
		if uc != a.UsoaCategory {
			a.UsoaCategory = uc
			changed = true
		}
	}
	if d.SubAccountOf != nil && (a.SubAccountOf == nil || *a.SubAccountOf != *d.SubAccountOf) {
		a.SubAccountOf = d.SubAccountOf
		changed = true
	}
	if d.ParentCode != nil {
		pc := shared.TruncateString(*d.ParentCode, maxParentCodeLength)
		if pc != a.ParentCode {
			a.ParentCode = pc
			a.AccountLevel = accountLevel(pc)
			changed = true
		}
	}
	if d.IsControlAccount != nil && *d.IsControlAccount != a.IsControlAccount {
		a.IsControlAccount = *d.IsControlAccount
		a.AllowDirectPosting = !a.IsControlAccount
		changed = true
	}
	if d.NormalBalance != nil && strings.TrimSpace(*d.NormalBalance) != "" {
		nb, err := ParseNormalBalance(*d.NormalBalance)
		if err != nil {
			return false, err
		}
		if nb != a.NormalBalance {
			a.NormalBalance = nb
			changed = true
		}
	}
	if d.IsUsoaCompliant != nil && *d.IsUsoaCompliant != a.IsUsoaCompliant {
		a.IsUsoaCompliant = *d.IsUsoaCompliant
		changed = true
	}
	if d.RegulatoryClassification != nil {
		if v := shared.TruncateString(*d.RegulatoryClassification, maxRegulatoryClassification); v != a.RegulatoryClassification {
			a.RegulatoryClassification = v
			changed = true
		}
	}
	if d.Description != nil {
		if v := shared.TruncateString(*d.Description, maxAccountTextLength); v != a.Description {
			a.Description = v
			changed = true
		}
	}
	if d.Notes != nil {
		if v := shared.TruncateString(*d.Notes, maxAccountTextLength); v != a.Notes {
			a.Notes = v
			changed = true
		}
	}

	if changed {
		a.Touch()
		a.AddDomainEvent(NewChartOfAccountUpdatedEvent(a))
	}
	return changed, nil
}

// UpdateBalance sets the running balance
func (a *ChartOfAccount) UpdateBalance(balance decimal.Decimal) {
	if balance.Equal(a.Balance) {
		return
	}
	a.Balance = balance
	a.Touch()
	a.AddDomainEvent(NewChartOfAccountBalanceUpdatedEvent(a))
}

// Activate enables the account; activating an active account does nothing
func (a *ChartOfAccount) Activate() {
	if a.IsActive {
		return
	}
	a.IsActive = true
	a.Touch()
	a.AddDomainEvent(NewChartOfAccountStatusChangedEvent(a))
}

// Deactivate disables the account; deactivating an inactive account does nothing
func (a *ChartOfAccount) Deactivate() {
	if !a.IsActive {
		return
	}
	a.IsActive = false
	a.Touch()
	a.AddDomainEvent(NewChartOfAccountStatusChangedEvent(a))
}

// CanDelete rejects accounts that still carry a balance
func (a *ChartOfAccount) CanDelete() error {
	if !a.Balance.IsZero() {
		return shared.NewInvalidStateError("Cannot delete an account with a non-zero balance")
	}
	return nil
}

// accountLevel is 1 for top-level accounts, otherwise the parent's segment count plus one
func accountLevel(parentCode string) int {
	if strings.TrimSpace(parentCode) == "" {
		return 1
	}
	return len(strings.Split(parentCode, ".")) + 1
}

func validateAccountName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot be empty")
	}
	if shared.RuneLen(name) > maxAccountNameLength {
		return shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot exceed 1024 characters")
	}
	return nil
}
