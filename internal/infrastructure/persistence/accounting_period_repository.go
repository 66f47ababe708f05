package persistence

import (
	"context"

	"github.com/erp/lobapi/internal/domain/accounting"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAccountingPeriodRepository implements AccountingPeriodRepository using GORM
type GormAccountingPeriodRepository struct {
	db *gorm.DB
}

// NewGormAccountingPeriodRepository creates a new GormAccountingPeriodRepository
func NewGormAccountingPeriodRepository(db *gorm.DB) *GormAccountingPeriodRepository {
	return &GormAccountingPeriodRepository{db: db}
}

var _ accounting.AccountingPeriodRepository = (*GormAccountingPeriodRepository)(nil)

// FindByIDForTenant finds a period by ID within a tenant
func (r *GormAccountingPeriodRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*accounting.AccountingPeriod, error) {
	var period accounting.AccountingPeriod
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&period).Error; err != nil {
		return nil, notFoundOr(err, "AccountingPeriod", id)
	}
	return &period, nil
}

// FindAllForTenant lists periods with filtering and paging
func (r *GormAccountingPeriodRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]accounting.AccountingPeriod, error) {
	var periods []accounting.AccountingPeriod
	query := r.db.WithContext(ctx).Model(&accounting.AccountingPeriod{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	query = paginate(query, filter, AccountingPeriodSortFields, "start_date")

	if err := query.Find(&periods).Error; err != nil {
		return nil, err
	}
	return periods, nil
}

// CountForTenant counts periods matching the filter
func (r *GormAccountingPeriodRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&accounting.AccountingPeriod{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByName checks for a period with the same name in the fiscal year
func (r *GormAccountingPeriodRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, fiscalYear int, name string, excludeID *uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx), &accounting.AccountingPeriod{}, tenantID, excludeID,
		"fiscal_year = ? AND LOWER(name) = LOWER(?)", fiscalYear, name)
}

// Save creates or updates a period
func (r *GormAccountingPeriodRepository) Save(ctx context.Context, period *accounting.AccountingPeriod) error {
	return saveVersioned(r.db.WithContext(ctx), period, period.TenantID, period.ID, period.Version)
}

// DeleteForTenant deletes a period within a tenant
func (r *GormAccountingPeriodRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &accounting.AccountingPeriod{}, tenantID, id)
}

func (r *GormAccountingPeriodRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "name", "description")
	if year, ok := filterInt(filter.Filters, "fiscal_year"); ok {
		query = query.Where("fiscal_year = ?", year)
	}
	query = equalFold(query, "period_type", filter.Filters["period_type"])
	if closed, ok := filterBool(filter.Filters, "is_closed"); ok {
		query = query.Where("is_closed = ?", closed)
	}
	// from/to select periods overlapping the window
	if from, ok := filterTime(filter.Filters, "from"); ok {
		query = query.Where("end_date >= ?", from)
	}
	if to, ok := filterTime(filter.Filters, "to"); ok {
		query = query.Where("start_date <= ?", to)
	}
	return query
}
