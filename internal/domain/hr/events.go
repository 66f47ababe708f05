package hr

import (
	"time"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeEmployee     = "Employee"
	AggregateTypeLeaveRequest = "LeaveRequest"
)

// Event type constants
const (
	EventTypeEmployeeCreated             = "EmployeeCreated"
	EventTypeEmployeeContactInfoUpdated  = "EmployeeContactInfoUpdated"
	EventTypeEmployeePersonalInfoUpdated = "EmployeePersonalInfoUpdated"
	EventTypeEmployeeHired               = "EmployeeHired"
	EventTypeEmployeeOnLeave             = "EmployeeOnLeave"
	EventTypeEmployeeReturnedFromLeave   = "EmployeeReturnedFromLeave"
	EventTypeEmployeeTerminated          = "EmployeeTerminated"
	EventTypeEmployeeRegularized         = "EmployeeRegularized"
	EventTypeEmployeeSalaryChanged       = "EmployeeSalaryChanged"

	EventTypeLeaveRequestCreated   = "LeaveRequestCreated"
	EventTypeLeaveRequestUpdated   = "LeaveRequestUpdated"
	EventTypeLeaveRequestSubmitted = "LeaveRequestSubmitted"
	EventTypeLeaveRequestApproved  = "LeaveRequestApproved"
	EventTypeLeaveRequestRejected  = "LeaveRequestRejected"
	EventTypeLeaveRequestCancelled = "LeaveRequestCancelled"
)

// EmployeeEvent is published for every employee lifecycle change
type EmployeeEvent struct {
	shared.BaseDomainEvent
	EmployeeID     uuid.UUID                `json:"employee_id"`
	EmployeeNumber string                   `json:"employee_number"`
	FullName       string                   `json:"full_name"`
	Status         EmploymentStatus         `json:"status"`
	Classification EmploymentClassification `json:"classification"`
}

// NewEmployeeEvent creates an employee event of the given type
func NewEmployeeEvent(eventType string, e *Employee) *EmployeeEvent {
	return &EmployeeEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeEmployee, e.ID, e.TenantID),
		EmployeeID:      e.ID,
		EmployeeNumber:  e.EmployeeNumber,
		FullName:        e.FullName(),
		Status:          e.Status,
		Classification:  e.EmploymentClassification,
	}
}

// LeaveRequestEvent is published for every leave request transition
type LeaveRequestEvent struct {
	shared.BaseDomainEvent
	LeaveRequestID uuid.UUID   `json:"leave_request_id"`
	EmployeeID     uuid.UUID   `json:"employee_id"`
	LeaveType      LeaveType   `json:"leave_type"`
	Status         LeaveStatus `json:"status"`
	StartDate      time.Time   `json:"start_date"`
	EndDate        time.Time   `json:"end_date"`
	NumberOfDays   int         `json:"number_of_days"`
}

// NewLeaveRequestEvent creates a leave request event of the given type
func NewLeaveRequestEvent(eventType string, l *LeaveRequest) *LeaveRequestEvent {
	return &LeaveRequestEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeLeaveRequest, l.ID, l.TenantID),
		LeaveRequestID:  l.ID,
		EmployeeID:      l.EmployeeID,
		LeaveType:       l.LeaveType,
		Status:          l.Status,
		StartDate:       l.StartDate,
		EndDate:         l.EndDate,
		NumberOfDays:    l.NumberOfDays,
	}
}
