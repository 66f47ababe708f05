package hr

import (
	"errors"
	"testing"
	"time"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	leaveStart = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	leaveEnd   = time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC)
)

func newTestLeave(t *testing.T) *LeaveRequest {
	t.Helper()
	l, err := NewLeaveRequest(uuid.New(), uuid.New(), "vacation", leaveStart, leaveEnd, "family trip")
	require.NoError(t, err)
	l.ClearDomainEvents()
	return l
}

func TestLeaveDays(t *testing.T) {
	assert.Equal(t, 3, LeaveDays(leaveStart, leaveEnd))
	assert.Equal(t, 2, LeaveDays(leaveStart, leaveStart.Add(30*time.Hour)))
}

func TestNewLeaveRequest(t *testing.T) {
	l := newTestLeave(t)
	assert.Equal(t, LeaveTypeVacation, l.LeaveType)
	assert.Equal(t, LeaveStatusDraft, l.Status)
	assert.Equal(t, 3, l.NumberOfDays)

	_, err := NewLeaveRequest(uuid.New(), uuid.New(), "Sick", leaveStart, leaveStart, "flu")
	assert.Error(t, err, "end must be strictly after start")

	_, err = NewLeaveRequest(uuid.New(), uuid.New(), "Sabbatical", leaveStart, leaveEnd, "rest")
	assert.Error(t, err)

	_, err = NewLeaveRequest(uuid.New(), uuid.New(), "Sick", leaveStart, leaveEnd, " ")
	assert.Error(t, err)
}

func TestLeaveRequest_ApprovalFlow(t *testing.T) {
	l := newTestLeave(t)
	approver := uuid.New()

	assert.True(t, errors.Is(l.Approve(approver, ""), shared.ErrInvalidState), "draft cannot be approved")

	require.NoError(t, l.Submit())
	assert.Equal(t, LeaveStatusSubmitted, l.Status)
	assert.NotNil(t, l.SubmittedDate)

	_, err := l.Update("Sick", time.Time{}, time.Time{}, "")
	assert.Error(t, err, "submitted requests are read-only")

	require.NoError(t, l.Approve(approver, "enjoy"))
	assert.Equal(t, LeaveStatusApproved, l.Status)
	assert.Equal(t, approver, *l.ApproverID)
	assert.Error(t, l.Cancel())
	assert.Error(t, l.CanDelete())
}

func TestLeaveRequest_Reject(t *testing.T) {
	l := newTestLeave(t)
	require.NoError(t, l.Submit())
	assert.Error(t, l.Reject(uuid.New(), ""))
	require.NoError(t, l.Reject(uuid.New(), "peak season"))
	assert.Equal(t, LeaveStatusRejected, l.Status)
	assert.Equal(t, "peak season", l.ApproverComment)
	assert.NoError(t, l.CanDelete())
}

func TestLeaveRequest_CancelAndUpdate(t *testing.T) {
	l := newTestLeave(t)

	changed, err := l.Update("", time.Time{}, leaveEnd.AddDate(0, 0, 2), "")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 5, l.NumberOfDays)

	changed, err = l.Update("Vacation", time.Time{}, time.Time{}, "")
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, l.Cancel())
	assert.Equal(t, LeaveStatusCancelled, l.Status)
	assert.Error(t, l.Submit())
}
