package persistence

import (
	"context"

	"github.com/erp/lobapi/internal/domain/accounting"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormChartOfAccountRepository implements ChartOfAccountRepository using GORM
type GormChartOfAccountRepository struct {
	db *gorm.DB
}

// NewGormChartOfAccountRepository creates a new GormChartOfAccountRepository
func NewGormChartOfAccountRepository(db *gorm.DB) *GormChartOfAccountRepository {
	return &GormChartOfAccountRepository{db: db}
}

var _ accounting.ChartOfAccountRepository = (*GormChartOfAccountRepository)(nil)

// FindByIDForTenant finds an account by ID within a tenant
func (r *GormChartOfAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*accounting.ChartOfAccount, error) {
	var account accounting.ChartOfAccount
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&account).Error; err != nil {
		return nil, notFoundOr(err, "ChartOfAccount", id)
	}
	return &account, nil
}

// FindAllForTenant lists accounts with filtering and paging
func (r *GormChartOfAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]accounting.ChartOfAccount, error) {
	var accounts []accounting.ChartOfAccount
	query := r.db.WithContext(ctx).Model(&accounting.ChartOfAccount{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	query = paginate(query, filter, ChartOfAccountSortFields, "account_code")

	if err := query.Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// CountForTenant counts accounts matching the filter
func (r *GormChartOfAccountRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&accounting.ChartOfAccount{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks whether an account code is taken in the tenant
func (r *GormChartOfAccountRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	return exists(r.db.WithContext(ctx), &accounting.ChartOfAccount{}, tenantID, nil, "account_code = ?", code)
}

// Save creates or updates an account
func (r *GormChartOfAccountRepository) Save(ctx context.Context, account *accounting.ChartOfAccount) error {
	return saveVersioned(r.db.WithContext(ctx), account, account.TenantID, account.ID, account.Version)
}

// DeleteForTenant deletes an account within a tenant
func (r *GormChartOfAccountRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &accounting.ChartOfAccount{}, tenantID, id)
}

func (r *GormChartOfAccountRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "account_code", "account_name", "description")
	query = equalFold(query, "account_type", filter.Filters["account_type"])
	query = equalFold(query, "usoa_category", filter.Filters["usoa_category"])
	if active, ok := filterBool(filter.Filters, "is_active"); ok {
		query = query.Where("is_active = ?", active)
	}
	return query
}
