package accounting

import (
	"time"

	"github.com/erp/lobapi/internal/domain/accounting"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Chart of account DTOs
// =============================================================================

// CreateChartOfAccountRequest represents a request to create a ledger account
type CreateChartOfAccountRequest struct {
	AccountCode              string     `json:"account_code" binding:"required,min=1,max=16"`
	AccountName              string     `json:"account_name" binding:"required,min=1,max=1024"`
	AccountType              string     `json:"account_type" binding:"required"`
	UsoaCategory             string     `json:"usoa_category" binding:"required,max=32"`
	SubAccountOf             *uuid.UUID `json:"sub_account_of"`
	ParentCode               *string    `json:"parent_code" binding:"omitempty,max=16"`
	IsControlAccount         *bool      `json:"is_control_account"`
	NormalBalance            *string    `json:"normal_balance"`
	IsUsoaCompliant          *bool      `json:"is_usoa_compliant"`
	RegulatoryClassification *string    `json:"regulatory_classification" binding:"omitempty,max=256"`
	Description              *string    `json:"description" binding:"omitempty,max=2048"`
	Notes                    *string    `json:"notes" binding:"omitempty,max=2048"`
}

func (r CreateChartOfAccountRequest) details() accounting.ChartOfAccountDetails {
	return accounting.ChartOfAccountDetails{
		SubAccountOf:             r.SubAccountOf,
		ParentCode:               r.ParentCode,
		IsControlAccount:         r.IsControlAccount,
		NormalBalance:            r.NormalBalance,
		IsUsoaCompliant:          r.IsUsoaCompliant,
		RegulatoryClassification: r.RegulatoryClassification,
		Description:              r.Description,
		Notes:                    r.Notes,
	}
}

// UpdateChartOfAccountRequest represents a request to update a ledger account.
// The account code is immutable.
type UpdateChartOfAccountRequest struct {
	AccountName              *string    `json:"account_name" binding:"omitempty,min=1,max=1024"`
	AccountType              *string    `json:"account_type"`
	UsoaCategory             *string    `json:"usoa_category" binding:"omitempty,max=32"`
	SubAccountOf             *uuid.UUID `json:"sub_account_of"`
	ParentCode               *string    `json:"parent_code" binding:"omitempty,max=16"`
	IsControlAccount         *bool      `json:"is_control_account"`
	NormalBalance            *string    `json:"normal_balance"`
	IsUsoaCompliant          *bool      `json:"is_usoa_compliant"`
	RegulatoryClassification *string    `json:"regulatory_classification" binding:"omitempty,max=256"`
	Description              *string    `json:"description" binding:"omitempty,max=2048"`
	Notes                    *string    `json:"notes" binding:"omitempty,max=2048"`
}

func (r UpdateChartOfAccountRequest) details() accounting.ChartOfAccountDetails {
	return accounting.ChartOfAccountDetails{
		AccountName:              r.AccountName,
		AccountType:              r.AccountType,
		UsoaCategory:             r.UsoaCategory,
		SubAccountOf:             r.SubAccountOf,
		ParentCode:               r.ParentCode,
		IsControlAccount:         r.IsControlAccount,
		NormalBalance:            r.NormalBalance,
		IsUsoaCompliant:          r.IsUsoaCompliant,
		RegulatoryClassification: r.RegulatoryClassification,
		Description:              r.Description,
		Notes:                    r.Notes,
	}
}

// UpdateBalanceRequest sets an account's running balance
type UpdateBalanceRequest struct {
	Balance decimal.Decimal `json:"balance"`
}

// SearchChartOfAccountsRequest filters ledger accounts
type SearchChartOfAccountsRequest struct {
	shared.PageRequest
	AccountType  *string `json:"account_type"`
	UsoaCategory *string `json:"usoa_category"`
	IsActive     *bool   `json:"is_active"`
}

// ChartOfAccountResponse represents a ledger account in API responses
type ChartOfAccountResponse struct {
	ID                       uuid.UUID       `json:"id"`
	TenantID                 uuid.UUID       `json:"tenant_id"`
	AccountCode              string          `json:"account_code"`
	AccountName              string          `json:"account_name"`
	AccountType              string          `json:"account_type"`
	UsoaCategory             string          `json:"usoa_category"`
	SubAccountOf             *uuid.UUID      `json:"sub_account_of,omitempty"`
	ParentCode               string          `json:"parent_code"`
	Balance                  decimal.Decimal `json:"balance"`
	IsControlAccount         bool            `json:"is_control_account"`
	NormalBalance            string          `json:"normal_balance"`
	AccountLevel             int             `json:"account_level"`
	AllowDirectPosting       bool            `json:"allow_direct_posting"`
	IsUsoaCompliant          bool            `json:"is_usoa_compliant"`
	RegulatoryClassification string          `json:"regulatory_classification"`
	Description              string          `json:"description"`
	Notes                    string          `json:"notes"`
	IsActive                 bool            `json:"is_active"`
	CreatedAt                time.Time       `json:"created_at"`
	UpdatedAt                time.Time       `json:"updated_at"`
	Version                  int             `json:"version"`
}

// ToChartOfAccountResponse converts a domain ChartOfAccount to ChartOfAccountResponse
func ToChartOfAccountResponse(a *accounting.ChartOfAccount) ChartOfAccountResponse {
	return ChartOfAccountResponse{
		ID:                       a.ID,
		TenantID:                 a.TenantID,
		AccountCode:              a.AccountCode,
		AccountName:              a.AccountName,
		AccountType:              string(a.AccountType),
		UsoaCategory:             string(a.UsoaCategory),
		SubAccountOf:             a.SubAccountOf,
		ParentCode:               a.ParentCode,
		Balance:                  a.Balance,
		IsControlAccount:         a.IsControlAccount,
		NormalBalance:            string(a.NormalBalance),
		AccountLevel:             a.AccountLevel,
		AllowDirectPosting:       a.AllowDirectPosting,
		IsUsoaCompliant:          a.IsUsoaCompliant,
		RegulatoryClassification: a.RegulatoryClassification,
		Description:              a.Description,
		Notes:                    a.Notes,
		IsActive:                 a.IsActive,
		CreatedAt:                a.CreatedAt,
		UpdatedAt:                a.UpdatedAt,
		Version:                  a.Version,
	}
}

// =============================================================================
// Accounting period DTOs
// =============================================================================

// CreateAccountingPeriodRequest represents a request to open an accounting period
type CreateAccountingPeriodRequest struct {
	Name               string    `json:"name" binding:"required,min=1,max=1024"`
	StartDate          time.Time `json:"start_date" binding:"required"`
	EndDate            time.Time `json:"end_date" binding:"required"`
	FiscalYear         int       `json:"fiscal_year" binding:"required,min=1900,max=2100"`
	PeriodType         string    `json:"period_type" binding:"required,max=16"`
	IsAdjustmentPeriod bool      `json:"is_adjustment_period"`
	Description        string    `json:"description" binding:"max=2048"`
	Notes              string    `json:"notes" binding:"max=2048"`
}

// UpdateAccountingPeriodRequest represents a request to update an open period
type UpdateAccountingPeriodRequest struct {
	Name               *string    `json:"name" binding:"omitempty,min=1,max=1024"`
	StartDate          *time.Time `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
	FiscalYear         *int       `json:"fiscal_year" binding:"omitempty,min=1900,max=2100"`
	PeriodType         *string    `json:"period_type" binding:"omitempty,max=16"`
	IsAdjustmentPeriod *bool      `json:"is_adjustment_period"`
	Description        *string    `json:"description" binding:"omitempty,max=2048"`
	Notes              *string    `json:"notes" binding:"omitempty,max=2048"`
}

// ClosePeriodRequest closes an accounting period
type ClosePeriodRequest struct {
	ClosingDate *time.Time `json:"closing_date"`
	ClosedBy    string     `json:"closed_by" binding:"max=256"`
}

// SearchAccountingPeriodsRequest filters accounting periods
type SearchAccountingPeriodsRequest struct {
	shared.PageRequest
	FiscalYear *int    `json:"fiscal_year"`
	PeriodType *string `json:"period_type"`
	IsClosed   *bool   `json:"is_closed"`
	shared.DateRange
}

// AccountingPeriodResponse represents an accounting period in API responses
type AccountingPeriodResponse struct {
	ID                 uuid.UUID  `json:"id"`
	TenantID           uuid.UUID  `json:"tenant_id"`
	Name               string     `json:"name"`
	StartDate          time.Time  `json:"start_date"`
	EndDate            time.Time  `json:"end_date"`
	FiscalYear         int        `json:"fiscal_year"`
	PeriodType         string     `json:"period_type"`
	IsAdjustmentPeriod bool       `json:"is_adjustment_period"`
	IsClosed           bool       `json:"is_closed"`
	ClosedDate         *time.Time `json:"closed_date,omitempty"`
	ClosedBy           string     `json:"closed_by"`
	Description        string     `json:"description"`
	Notes              string     `json:"notes"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	Version            int        `json:"version"`
}

// ToAccountingPeriodResponse converts a domain AccountingPeriod to AccountingPeriodResponse
func ToAccountingPeriodResponse(p *accounting.AccountingPeriod) AccountingPeriodResponse {
	return AccountingPeriodResponse{
		ID:                 p.ID,
		TenantID:           p.TenantID,
		Name:               p.Name,
		StartDate:          p.StartDate,
		EndDate:            p.EndDate,
		FiscalYear:         p.FiscalYear,
		PeriodType:         string(p.PeriodType),
		IsAdjustmentPeriod: p.IsAdjustmentPeriod,
		IsClosed:           p.IsClosed,
		ClosedDate:         p.ClosedDate,
		ClosedBy:           p.ClosedBy,
		Description:        p.Description,
		Notes:              p.Notes,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
		Version:            p.Version,
	}
}

// =============================================================================
// Bill DTOs
// =============================================================================

// BillLineRequest is one line of a bill request.
// When Amount is given it must equal quantity times unit price.
type BillLineRequest struct {
	Description      string           `json:"description" binding:"required,max=500"`
	Quantity         decimal.Decimal  `json:"quantity" binding:"decimal_gte0"`
	UnitPrice        decimal.Decimal  `json:"unit_price" binding:"decimal_gte0"`
	Amount           *decimal.Decimal `json:"amount" binding:"omitempty,decimal_gte0"`
	ChartOfAccountID *uuid.UUID       `json:"chart_of_account_id"`
	TaxAmount        decimal.Decimal  `json:"tax_amount" binding:"decimal_gte0"`
}

// BillRequest creates or replaces a bill
type BillRequest struct {
	BillNumber          string            `json:"bill_number" binding:"required,min=1,max=50"`
	VendorID            uuid.UUID         `json:"vendor_id" binding:"required"`
	VendorName          string            `json:"vendor_name" binding:"max=256"`
	BillDate            time.Time         `json:"bill_date" binding:"required"`
	DueDate             time.Time         `json:"due_date" binding:"required"`
	PaymentTerms        string            `json:"payment_terms" binding:"max=100"`
	PurchaseOrderNumber string            `json:"purchase_order_number" binding:"max=100"`
	Description         string            `json:"description" binding:"max=2048"`
	Notes               string            `json:"notes" binding:"max=2000"`
	Lines               []BillLineRequest `json:"lines" binding:"dive"`
}

func (r BillRequest) header() accounting.BillHeader {
	return accounting.BillHeader{
		BillNumber:          r.BillNumber,
		VendorID:            r.VendorID,
		VendorName:          r.VendorName,
		BillDate:            r.BillDate,
		DueDate:             r.DueDate,
		PaymentTerms:        r.PaymentTerms,
		PurchaseOrderNumber: r.PurchaseOrderNumber,
		Description:         r.Description,
		Notes:               r.Notes,
	}
}

func (r BillRequest) lines() []accounting.BillLineInput {
	if r.Lines == nil {
		return nil
	}
	out := make([]accounting.BillLineInput, len(r.Lines))
	for i, l := range r.Lines {
		out[i] = accounting.BillLineInput{
			Description:      l.Description,
			Quantity:         l.Quantity,
			UnitPrice:        l.UnitPrice,
			Amount:           l.Amount,
			ChartOfAccountID: l.ChartOfAccountID,
			TaxAmount:        l.TaxAmount,
		}
	}
	return out
}

// ApproveBillRequest approves a bill
type ApproveBillRequest struct {
	ApprovedBy string `json:"approved_by" binding:"required,max=256"`
}

// RejectBillRequest rejects a bill
type RejectBillRequest struct {
	RejectedBy string `json:"rejected_by" binding:"required,max=256"`
	Reason     string `json:"reason" binding:"max=500"`
}

// PayBillRequest marks a bill paid
type PayBillRequest struct {
	PaidDate *time.Time `json:"paid_date"`
}

// VoidBillRequest voids a bill
type VoidBillRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// SearchBillsRequest filters bills
type SearchBillsRequest struct {
	shared.PageRequest
	VendorID       *uuid.UUID `json:"vendor_id"`
	Status         *string    `json:"status"`
	ApprovalStatus *string    `json:"approval_status"`
	BillDateFrom   *time.Time `json:"bill_date_from"`
	BillDateTo     *time.Time `json:"bill_date_to"`
	DueDateFrom    *time.Time `json:"due_date_from"`
	DueDateTo      *time.Time `json:"due_date_to"`
	OverdueOnly    bool       `json:"overdue_only"`
}

// BillLineResponse represents a bill line in API responses
type BillLineResponse struct {
	ID               uuid.UUID       `json:"id"`
	LineNumber       int             `json:"line_number"`
	Description      string          `json:"description"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Amount           decimal.Decimal `json:"amount"`
	ChartOfAccountID *uuid.UUID      `json:"chart_of_account_id,omitempty"`
	TaxAmount        decimal.Decimal `json:"tax_amount"`
}

// BillResponse represents a bill in API responses
type BillResponse struct {
	ID                  uuid.UUID          `json:"id"`
	TenantID            uuid.UUID          `json:"tenant_id"`
	BillNumber          string             `json:"bill_number"`
	VendorID            uuid.UUID          `json:"vendor_id"`
	VendorName          string             `json:"vendor_name"`
	BillDate            time.Time          `json:"bill_date"`
	DueDate             time.Time          `json:"due_date"`
	Status              string             `json:"status"`
	ApprovalStatus      string             `json:"approval_status"`
	ApprovedBy          string             `json:"approved_by"`
	ApprovedDate        *time.Time         `json:"approved_date,omitempty"`
	PostedDate          *time.Time         `json:"posted_date,omitempty"`
	PaidDate            *time.Time         `json:"paid_date,omitempty"`
	PaymentTerms        string             `json:"payment_terms"`
	PurchaseOrderNumber string             `json:"purchase_order_number"`
	Description         string             `json:"description"`
	Notes               string             `json:"notes"`
	TotalAmount         decimal.Decimal    `json:"total_amount"`
	IsOverdue           bool               `json:"is_overdue"`
	Lines               []BillLineResponse `json:"lines,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
	Version             int                `json:"version"`
}

// ToBillResponse converts a domain Bill to BillResponse, evaluating overdue at now
func ToBillResponse(b *accounting.Bill, now time.Time) BillResponse {
	resp := BillResponse{
		ID:                  b.ID,
		TenantID:            b.TenantID,
		BillNumber:          b.BillNumber,
		VendorID:            b.VendorID,
		VendorName:          b.VendorName,
		BillDate:            b.BillDate,
		DueDate:             b.DueDate,
		Status:              string(b.Status),
		ApprovalStatus:      string(b.ApprovalStatus),
		ApprovedBy:          b.ApprovedBy,
		ApprovedDate:        b.ApprovedDate,
		PostedDate:          b.PostedDate,
		PaidDate:            b.PaidDate,
		PaymentTerms:        b.PaymentTerms,
		PurchaseOrderNumber: b.PurchaseOrderNumber,
		Description:         b.Description,
		Notes:               b.Notes,
		TotalAmount:         b.TotalAmount,
		IsOverdue:           b.IsOverdue(now),
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
		Version:             b.Version,
	}
	for _, l := range b.Lines {
		resp.Lines = append(resp.Lines, BillLineResponse{
			ID:               l.ID,
			LineNumber:       l.LineNumber,
			Description:      l.Description,
			Quantity:         l.Quantity,
			UnitPrice:        l.UnitPrice,
			Amount:           l.Amount,
			ChartOfAccountID: l.ChartOfAccountID,
			TaxAmount:        l.TaxAmount,
		})
	}
	return resp
}

func mapSlice[T, R any](items []T, fn func(*T) R) []R {
	out := make([]R, len(items))
	for i := range items {
		out[i] = fn(&items[i])
	}
	return out
}
