package hr

import (
	"context"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
)

// EmployeeRepository defines persistence for employees
type EmployeeRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Employee, error)
	// FindAllForTenant lists employees; filter keys: status, classification, is_active
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Employee, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error)
	Save(ctx context.Context, employee *Employee) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// LeaveRequestRepository defines persistence for leave requests
type LeaveRequestRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*LeaveRequest, error)
	// FindAllForTenant lists requests; filter keys: employee_id, leave_type, status, from, to
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]LeaveRequest, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, request *LeaveRequest) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
