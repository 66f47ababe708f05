package persistence

import (
	"context"

	"github.com/erp/lobapi/internal/domain/hr"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEmployeeRepository implements EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

var _ hr.EmployeeRepository = (*GormEmployeeRepository)(nil)

// FindByIDForTenant finds an employee by ID within a tenant
func (r *GormEmployeeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*hr.Employee, error) {
	var employee hr.Employee
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&employee).Error; err != nil {
		return nil, notFoundOr(err, "Employee", id)
	}
	return &employee, nil
}

// FindAllForTenant lists employees with filtering and paging
func (r *GormEmployeeRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]hr.Employee, error) {
	var employees []hr.Employee
	query := r.db.WithContext(ctx).Model(&hr.Employee{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	query = paginate(query, filter, EmployeeSortFields, "employee_number")

	if err := query.Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// CountForTenant counts employees matching the filter
func (r *GormEmployeeRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&hr.Employee{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByNumber checks whether an employee number is taken
func (r *GormEmployeeRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	return exists(r.db.WithContext(ctx), &hr.Employee{}, tenantID, nil, "employee_number = ?", number)
}

// Save creates or updates an employee
func (r *GormEmployeeRepository) Save(ctx context.Context, employee *hr.Employee) error {
	return saveVersioned(r.db.WithContext(ctx), employee, employee.TenantID, employee.ID, employee.Version)
}

// DeleteForTenant deletes an employee within a tenant
func (r *GormEmployeeRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &hr.Employee{}, tenantID, id)
}

func (r *GormEmployeeRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "employee_number", "first_name", "last_name", "email")
	query = equalFold(query, "status", filter.Filters["status"])
	query = equalFold(query, "employment_classification", filter.Filters["classification"])
	if active, ok := filterBool(filter.Filters, "is_active"); ok {
		query = query.Where("is_active = ?", active)
	}
	return query
}
