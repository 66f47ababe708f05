package hr

import (
	"strings"
	"time"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
)

// LeaveType is the kind of absence requested
type LeaveType string

const (
	LeaveTypeVacation    LeaveType = "Vacation"
	LeaveTypeSick        LeaveType = "Sick"
	LeaveTypeMaternity   LeaveType = "Maternity"
	LeaveTypePaternity   LeaveType = "Paternity"
	LeaveTypeBereavement LeaveType = "Bereavement"
	LeaveTypeEmergency   LeaveType = "Emergency"
	LeaveTypeUnpaid      LeaveType = "Unpaid"
	LeaveTypeOther       LeaveType = "Other"
)

// LeaveTypes lists every accepted leave type
var LeaveTypes = []LeaveType{
	LeaveTypeVacation,
	LeaveTypeSick,
	LeaveTypeMaternity,
	LeaveTypePaternity,
	LeaveTypeBereavement,
	LeaveTypeEmergency,
	LeaveTypeUnpaid,
	LeaveTypeOther,
}

// ParseLeaveType resolves a leave type case-insensitively
func ParseLeaveType(value string) (LeaveType, error) {
	t, ok := shared.NormalizeEnum(value, LeaveTypes...)
	if !ok {
		return "", shared.NewDomainError("INVALID_LEAVE_TYPE", "Invalid leave type: "+value)
	}
	return t, nil
}

// LeaveStatus is the workflow state of a leave request
type LeaveStatus string

const (
	LeaveStatusDraft     LeaveStatus = "Draft"
	LeaveStatusSubmitted LeaveStatus = "Submitted"
	LeaveStatusApproved  LeaveStatus = "Approved"
	LeaveStatusRejected  LeaveStatus = "Rejected"
	LeaveStatusCancelled LeaveStatus = "Cancelled"
)

// LeaveRequest is an employee's request for time off
type LeaveRequest struct {
	shared.TenantAggregateRoot
	EmployeeID      uuid.UUID   `gorm:"type:uuid;not null;index"`
	LeaveType       LeaveType   `gorm:"type:varchar(20);not null"`
	StartDate       time.Time   `gorm:"not null"`
	EndDate         time.Time   `gorm:"not null"`
	NumberOfDays    int         `gorm:"not null"`
	Reason          string      `gorm:"type:varchar(500);not null"`
	Status          LeaveStatus `gorm:"type:varchar(20);not null;index"`
	SubmittedDate   *time.Time
	ApproverID      *uuid.UUID `gorm:"type:uuid"`
	ApprovedDate    *time.Time
	ApproverComment string `gorm:"type:varchar(500)"`
	AttachmentPath  string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (LeaveRequest) TableName() string {
	return "hr_leave_requests"
}

// LeaveDays counts the calendar days spanned by start and end, both inclusive
func LeaveDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1
}

// NewLeaveRequest creates a draft leave request
func NewLeaveRequest(tenantID, employeeID uuid.UUID, leaveType string, start, end time.Time, reason string) (*LeaveRequest, error) {
	if employeeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE", "Employee is required")
	}
	lr := &LeaveRequest{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		EmployeeID:          employeeID,
		Status:              LeaveStatusDraft,
	}
	if err := lr.apply(leaveType, start, end, reason); err != nil {
		return nil, err
	}
	lr.AddDomainEvent(NewLeaveRequestEvent(EventTypeLeaveRequestCreated, lr))
	return lr, nil
}

// Update edits a draft request
func (l *LeaveRequest) Update(leaveType string, start, end time.Time, reason string) (bool, error) {
	if l.Status != LeaveStatusDraft {
		return false, shared.NewInvalidStateError("Only draft leave requests can be updated")
	}
	before := struct {
		t      LeaveType
		s, e   time.Time
		reason string
	}{l.LeaveType, l.StartDate, l.EndDate, l.Reason}

	if strings.TrimSpace(leaveType) == "" {
		leaveType = string(l.LeaveType)
	}
	if start.IsZero() {
		start = l.StartDate
	}
	if end.IsZero() {
		end = l.EndDate
	}
	if strings.TrimSpace(reason) == "" {
		reason = l.Reason
	}
	if err := l.apply(leaveType, start, end, reason); err != nil {
		return false, err
	}
	changed := before.t != l.LeaveType || !before.s.Equal(l.StartDate) || !before.e.Equal(l.EndDate) || before.reason != l.Reason
	if changed {
		l.Touch()
		l.AddDomainEvent(NewLeaveRequestEvent(EventTypeLeaveRequestUpdated, l))
	}
	return changed, nil
}

// SetAttachmentPath stores a supporting document path
func (l *LeaveRequest) SetAttachmentPath(path string) {
	l.AttachmentPath = shared.TruncateString(path, 500)
}

// Submit sends a draft request for approval
func (l *LeaveRequest) Submit() error {
	if l.Status != LeaveStatusDraft {
		return shared.NewInvalidStateError("Only draft leave requests can be submitted")
	}
	now := time.Now()
	l.Status = LeaveStatusSubmitted
	l.SubmittedDate = &now
	l.Touch()
	l.AddDomainEvent(NewLeaveRequestEvent(EventTypeLeaveRequestSubmitted, l))
	return nil
}

// Approve approves a submitted request
func (l *LeaveRequest) Approve(approverID uuid.UUID, comment string) error {
	if l.Status != LeaveStatusSubmitted {
		return shared.NewInvalidStateError("Only submitted leave requests can be approved")
	}
	if approverID == uuid.Nil {
		return shared.NewDomainError("INVALID_APPROVER", "Approver is required")
	}
	if shared.RuneLen(comment) > 500 {
		return shared.NewDomainError("INVALID_COMMENT", "Comment cannot exceed 500 characters")
	}
	now := time.Now()
	l.Status = LeaveStatusApproved
	l.ApproverID = &approverID
	l.ApprovedDate = &now
	l.ApproverComment = strings.TrimSpace(comment)
	l.Touch()
	l.AddDomainEvent(NewLeaveRequestEvent(EventTypeLeaveRequestApproved, l))
	return nil
}

// Reject rejects a submitted request; a reason is required
func (l *LeaveRequest) Reject(approverID uuid.UUID, reason string) error {
	if l.Status != LeaveStatusSubmitted {
		return shared.NewInvalidStateError("Only submitted leave requests can be rejected")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason is required")
	}
	if shared.RuneLen(reason) > 500 {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason cannot exceed 500 characters")
	}
	now := time.Now()
	l.Status = LeaveStatusRejected
	if approverID != uuid.Nil {
		l.ApproverID = &approverID
	}
	l.ApprovedDate = &now
	l.ApproverComment = reason
	l.Touch()
	l.AddDomainEvent(NewLeaveRequestEvent(EventTypeLeaveRequestRejected, l))
	return nil
}

// Cancel withdraws a draft or submitted request
func (l *LeaveRequest) Cancel() error {
	if l.Status != LeaveStatusDraft && l.Status != LeaveStatusSubmitted {
		return shared.NewInvalidStateError("Only draft or submitted leave requests can be cancelled")
	}
	l.Status = LeaveStatusCancelled
	l.Touch()
	l.AddDomainEvent(NewLeaveRequestEvent(EventTypeLeaveRequestCancelled, l))
	return nil
}

// CanDelete allows deleting draft or rejected requests
func (l *LeaveRequest) CanDelete() error {
	if l.Status != LeaveStatusDraft && l.Status != LeaveStatusRejected {
		return shared.NewInvalidStateError("Only draft or rejected leave requests can be deleted")
	}
	return nil
}

func (l *LeaveRequest) apply(leaveType string, start, end time.Time, reason string) error {
	lt, err := ParseLeaveType(leaveType)
	if err != nil {
		return err
	}
	if start.IsZero() || end.IsZero() {
		return shared.NewDomainError("INVALID_DATE_RANGE", "Start and end dates are required")
	}
	if !end.After(start) {
		return shared.NewDomainError("INVALID_DATE_RANGE", "End date must be after start date")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Reason is required")
	}
	if shared.RuneLen(reason) > 500 {
		return shared.NewDomainError("INVALID_REASON", "Reason cannot exceed 500 characters")
	}
	l.LeaveType = lt
	l.StartDate = start
	l.EndDate = end
	l.NumberOfDays = LeaveDays(start, end)
	l.Reason = reason
	return nil
}
