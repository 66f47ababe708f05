package persistence

import (
	"context"

	"github.com/erp/lobapi/internal/domain/hr"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLeaveRequestRepository implements LeaveRequestRepository using GORM
type GormLeaveRequestRepository struct {
	db *gorm.DB
}

// NewGormLeaveRequestRepository creates a new GormLeaveRequestRepository
func NewGormLeaveRequestRepository(db *gorm.DB) *GormLeaveRequestRepository {
	return &GormLeaveRequestRepository{db: db}
}

var _ hr.LeaveRequestRepository = (*GormLeaveRequestRepository)(nil)

// FindByIDForTenant finds a leave request by ID within a tenant
func (r *GormLeaveRequestRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*hr.LeaveRequest, error) {
	var request hr.LeaveRequest
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&request).Error; err != nil {
		return nil, notFoundOr(err, "LeaveRequest", id)
	}
	return &request, nil
}

// FindAllForTenant lists leave requests with filtering and paging
func (r *GormLeaveRequestRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]hr.LeaveRequest, error) {
	var requests []hr.LeaveRequest
	query := r.db.WithContext(ctx).Model(&hr.LeaveRequest{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	query = paginate(query, filter, LeaveRequestSortFields, "start_date")

	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// CountForTenant counts leave requests matching the filter
func (r *GormLeaveRequestRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&hr.LeaveRequest{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a leave request
func (r *GormLeaveRequestRepository) Save(ctx context.Context, request *hr.LeaveRequest) error {
	return saveVersioned(r.db.WithContext(ctx), request, request.TenantID, request.ID, request.Version)
}

// DeleteForTenant deletes a leave request within a tenant
func (r *GormLeaveRequestRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &hr.LeaveRequest{}, tenantID, id)
}

func (r *GormLeaveRequestRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "reason")
	if employeeID, ok := filterUUID(filter.Filters, "employee_id"); ok {
		query = query.Where("employee_id = ?", employeeID)
	}
	query = equalFold(query, "leave_type", filter.Filters["leave_type"])
	query = equalFold(query, "status", filter.Filters["status"])
	// from/to select requests overlapping the window
	if from, ok := filterTime(filter.Filters, "from"); ok {
		query = query.Where("end_date >= ?", from)
	}
	if to, ok := filterTime(filter.Filters, "to"); ok {
		query = query.Where("start_date <= ?", to)
	}
	return query
}
