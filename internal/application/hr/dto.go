package hr

import (
	"time"

	"github.com/erp/lobapi/internal/domain/hr"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Employee DTOs
// =============================================================================

// CreateEmployeeRequest represents a request to create an employee
type CreateEmployeeRequest struct {
	EmployeeNumber           string           `json:"employee_number" binding:"required,min=1,max=50"`
	FirstName                string           `json:"first_name" binding:"required,min=1,max=100"`
	MiddleName               string           `json:"middle_name" binding:"max=100"`
	LastName                 string           `json:"last_name" binding:"required,min=1,max=100"`
	Email                    string           `json:"email" binding:"omitempty,email,max=256"`
	PhoneNumber              string           `json:"phone_number" binding:"max=20"`
	HireDate                 *time.Time       `json:"hire_date"`
	EmploymentClassification string           `json:"employment_classification" binding:"max=20"`
	BasicMonthlySalary       *decimal.Decimal `json:"basic_monthly_salary" binding:"omitempty,decimal_gte0"`
}

// UpdateContactInfoRequest changes an employee's email or phone
type UpdateContactInfoRequest struct {
	Email       *string `json:"email" binding:"omitempty,max=256"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=20"`
}

// UpdatePersonalInfoRequest changes an employee's names
type UpdatePersonalInfoRequest struct {
	FirstName  *string `json:"first_name" binding:"omitempty,max=100"`
	MiddleName *string `json:"middle_name" binding:"omitempty,max=100"`
	LastName   *string `json:"last_name" binding:"omitempty,max=100"`
}

// SetHireDateRequest records an employee's hire date
type SetHireDateRequest struct {
	HireDate time.Time `json:"hire_date" binding:"required"`
}

// TerminateEmployeeRequest ends an employee's employment
type TerminateEmployeeRequest struct {
	TerminationDate *time.Time `json:"termination_date"`
	Reason          string     `json:"reason" binding:"max=500"`
	Mode            string     `json:"mode" binding:"max=50"`
}

// RegularizeEmployeeRequest converts an employee to Regular
type RegularizeEmployeeRequest struct {
	RegularizationDate *time.Time `json:"regularization_date"`
}

// SetSalaryRequest sets the basic monthly salary
type SetSalaryRequest struct {
	BasicMonthlySalary decimal.Decimal `json:"basic_monthly_salary" binding:"decimal_gte0"`
}

// SearchEmployeesRequest filters employees. Keyword matches number, names and email.
type SearchEmployeesRequest struct {
	shared.PageRequest
	Status         *string `json:"status"`
	Classification *string `json:"classification"`
	IsActive       *bool   `json:"is_active"`
}

// EmployeeResponse represents an employee in API responses
type EmployeeResponse struct {
	ID                       uuid.UUID       `json:"id"`
	TenantID                 uuid.UUID       `json:"tenant_id"`
	EmployeeNumber           string          `json:"employee_number"`
	FirstName                string          `json:"first_name"`
	MiddleName               string          `json:"middle_name"`
	LastName                 string          `json:"last_name"`
	FullName                 string          `json:"full_name"`
	Email                    string          `json:"email"`
	PhoneNumber              string          `json:"phone_number"`
	HireDate                 *time.Time      `json:"hire_date,omitempty"`
	Status                   string          `json:"status"`
	EmploymentClassification string          `json:"employment_classification"`
	RegularizationDate       *time.Time      `json:"regularization_date,omitempty"`
	BasicMonthlySalary       decimal.Decimal `json:"basic_monthly_salary"`
	TerminationDate          *time.Time      `json:"termination_date,omitempty"`
	TerminationReason        string          `json:"termination_reason"`
	TerminationMode          string          `json:"termination_mode"`
	IsActive                 bool            `json:"is_active"`
	CreatedAt                time.Time       `json:"created_at"`
	UpdatedAt                time.Time       `json:"updated_at"`
	Version                  int             `json:"version"`
}

// ToEmployeeResponse converts a domain Employee to EmployeeResponse
func ToEmployeeResponse(e *hr.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:                       e.ID,
		TenantID:                 e.TenantID,
		EmployeeNumber:           e.EmployeeNumber,
		FirstName:                e.FirstName,
		MiddleName:               e.MiddleName,
		LastName:                 e.LastName,
		FullName:                 e.FullName(),
		Email:                    e.Email,
		PhoneNumber:              e.PhoneNumber,
		HireDate:                 e.HireDate,
		Status:                   string(e.Status),
		EmploymentClassification: string(e.EmploymentClassification),
		RegularizationDate:       e.RegularizationDate,
		BasicMonthlySalary:       e.BasicMonthlySalary,
		TerminationDate:          e.TerminationDate,
		TerminationReason:        e.TerminationReason,
		TerminationMode:          e.TerminationMode,
		IsActive:                 e.IsActive,
		CreatedAt:                e.CreatedAt,
		UpdatedAt:                e.UpdatedAt,
		Version:                  e.Version,
	}
}

// =============================================================================
// Leave request DTOs
// =============================================================================

// CreateLeaveRequest represents a request to file a leave
type CreateLeaveRequest struct {
	EmployeeID     uuid.UUID `json:"employee_id" binding:"required"`
	LeaveType      string    `json:"leave_type" binding:"required,max=20"`
	StartDate      time.Time `json:"start_date" binding:"required"`
	EndDate        time.Time `json:"end_date" binding:"required"`
	Reason         string    `json:"reason" binding:"required,max=500"`
	AttachmentPath string    `json:"attachment_path" binding:"max=500"`
}

// UpdateLeaveRequest edits a draft leave request; zero values keep the current value
type UpdateLeaveRequest struct {
	LeaveType      string    `json:"leave_type" binding:"max=20"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	Reason         string    `json:"reason" binding:"max=500"`
	AttachmentPath *string   `json:"attachment_path" binding:"omitempty,max=500"`
}

// ApproveLeaveRequest approves a submitted leave request
type ApproveLeaveRequest struct {
	ApproverID uuid.UUID `json:"approver_id" binding:"required"`
	Comment    string    `json:"comment" binding:"max=500"`
}

// RejectLeaveRequest rejects a submitted leave request
type RejectLeaveRequest struct {
	ApproverID uuid.UUID `json:"approver_id"`
	Reason     string    `json:"reason" binding:"required,max=500"`
}

// SearchLeaveRequestsRequest filters leave requests
type SearchLeaveRequestsRequest struct {
	shared.PageRequest
	EmployeeID *uuid.UUID `json:"employee_id"`
	LeaveType  *string    `json:"leave_type"`
	Status     *string    `json:"status"`
	shared.DateRange
}

// LeaveRequestResponse represents a leave request in API responses
type LeaveRequestResponse struct {
	ID              uuid.UUID  `json:"id"`
	TenantID        uuid.UUID  `json:"tenant_id"`
	EmployeeID      uuid.UUID  `json:"employee_id"`
	LeaveType       string     `json:"leave_type"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         time.Time  `json:"end_date"`
	NumberOfDays    int        `json:"number_of_days"`
	Reason          string     `json:"reason"`
	Status          string     `json:"status"`
	SubmittedDate   *time.Time `json:"submitted_date,omitempty"`
	ApproverID      *uuid.UUID `json:"approver_id,omitempty"`
	ApprovedDate    *time.Time `json:"approved_date,omitempty"`
	ApproverComment string     `json:"approver_comment"`
	AttachmentPath  string     `json:"attachment_path"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Version         int        `json:"version"`
}

// ToLeaveRequestResponse converts a domain LeaveRequest to LeaveRequestResponse
func ToLeaveRequestResponse(l *hr.LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:              l.ID,
		TenantID:        l.TenantID,
		EmployeeID:      l.EmployeeID,
		LeaveType:       string(l.LeaveType),
		StartDate:       l.StartDate,
		EndDate:         l.EndDate,
		NumberOfDays:    l.NumberOfDays,
		Reason:          l.Reason,
		Status:          string(l.Status),
		SubmittedDate:   l.SubmittedDate,
		ApproverID:      l.ApproverID,
		ApprovedDate:    l.ApprovedDate,
		ApproverComment: l.ApproverComment,
		AttachmentPath:  l.AttachmentPath,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
		Version:         l.Version,
	}
}

func mapSlice[T, R any](items []T, fn func(*T) R) []R {
	out := make([]R, len(items))
	for i := range items {
		out[i] = fn(&items[i])
	}
	return out
}
