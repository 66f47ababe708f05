package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to every aggregate
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// ChartOfAccountSortFields contains allowed sort fields for ledger accounts
var ChartOfAccountSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"account_code":  true,
	"account_name":  true,
	"account_type":  true,
	"usoa_category": true,
	"balance":       true,
	"account_level": true,
	"is_active":     true,
}

// AccountingPeriodSortFields contains allowed sort fields for accounting periods
var AccountingPeriodSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"name":        true,
	"start_date":  true,
	"end_date":    true,
	"fiscal_year": true,
	"period_type": true,
	"is_closed":   true,
}

// BillSortFields contains allowed sort fields for bills
var BillSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"bill_number":     true,
	"vendor_name":     true,
	"bill_date":       true,
	"due_date":        true,
	"status":          true,
	"approval_status": true,
	"total_amount":    true,
}

// EmployeeSortFields contains allowed sort fields for employees
var EmployeeSortFields = map[string]bool{
	"id":                        true,
	"created_at":                true,
	"updated_at":                true,
	"employee_number":           true,
	"first_name":                true,
	"last_name":                 true,
	"email":                     true,
	"hire_date":                 true,
	"status":                    true,
	"employment_classification": true,
	"basic_monthly_salary":      true,
}

// LeaveRequestSortFields contains allowed sort fields for leave requests
var LeaveRequestSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"start_date":     true,
	"end_date":       true,
	"leave_type":     true,
	"number_of_days": true,
	"status":         true,
	"submitted_date": true,
}

// WarehouseSortFields contains allowed sort fields for warehouses
var WarehouseSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"code":              true,
	"name":              true,
	"warehouse_type":    true,
	"total_capacity":    true,
	"used_capacity":     true,
	"is_active":         true,
	"is_main_warehouse": true,
}

// SupplierSortFields contains allowed sort fields for suppliers
var SupplierSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"code":               true,
	"name":               true,
	"country":            true,
	"city":               true,
	"credit_limit":       true,
	"payment_terms_days": true,
	"rating":             true,
	"is_active":          true,
}

// SerialNumberSortFields contains allowed sort fields for serial numbers
var SerialNumberSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"serial_value":        true,
	"status":              true,
	"receipt_date":        true,
	"shipment_date":       true,
	"warranty_expiration": true,
}

// StockAdjustmentSortFields contains allowed sort fields for stock adjustments
var StockAdjustmentSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"adjustment_number":   true,
	"adjustment_date":     true,
	"adjustment_type":     true,
	"adjustment_quantity": true,
	"total_cost_impact":   true,
	"is_approved":         true,
}

// FixedDepositSortFields contains allowed sort fields for fixed deposits
var FixedDepositSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"certificate_number": true,
	"principal_amount":   true,
	"interest_rate":      true,
	"term_months":        true,
	"deposit_date":       true,
	"maturity_date":      true,
	"status":             true,
}

// CollectionCaseSortFields contains allowed sort fields for collection cases
var CollectionCaseSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"case_number":         true,
	"status":              true,
	"priority":            true,
	"classification":      true,
	"days_past_due":       true,
	"amount_overdue":      true,
	"opened_date":         true,
	"next_follow_up_date": true,
}

// ConversationSortFields contains allowed sort fields for conversations
var ConversationSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"title":           true,
	"type":            true,
	"last_message_at": true,
}
