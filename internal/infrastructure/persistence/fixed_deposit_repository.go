package persistence

import (
	"context"
	"time"

	"github.com/erp/lobapi/internal/domain/microfinance"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFixedDepositRepository implements FixedDepositRepository using GORM
type GormFixedDepositRepository struct {
	db *gorm.DB
}

// NewGormFixedDepositRepository creates a new GormFixedDepositRepository
func NewGormFixedDepositRepository(db *gorm.DB) *GormFixedDepositRepository {
	return &GormFixedDepositRepository{db: db}
}

var _ microfinance.FixedDepositRepository = (*GormFixedDepositRepository)(nil)

// runningStatuses are the deposit statuses that still accrue toward maturity
var runningStatuses = []microfinance.DepositStatus{
	microfinance.DepositStatusActive,
	microfinance.DepositStatusRenewed,
}

// FindByIDForTenant finds a deposit by ID within a tenant
func (r *GormFixedDepositRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*microfinance.FixedDeposit, error) {
	var deposit microfinance.FixedDeposit
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&deposit).Error; err != nil {
		return nil, notFoundOr(err, "FixedDeposit", id)
	}
	return &deposit, nil
}

// FindAllForTenant lists deposits with filtering and paging
func (r *GormFixedDepositRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]microfinance.FixedDeposit, error) {
	var deposits []microfinance.FixedDeposit
	query := r.db.WithContext(ctx).Model(&microfinance.FixedDeposit{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	query = paginate(query, filter, FixedDepositSortFields, "deposit_date")

	if err := query.Find(&deposits).Error; err != nil {
		return nil, err
	}
	return deposits, nil
}

// CountForTenant counts deposits matching the filter
func (r *GormFixedDepositRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&microfinance.FixedDeposit{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCertificateNumber checks whether a certificate number is issued in the tenant
func (r *GormFixedDepositRepository) ExistsByCertificateNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	return exists(r.db.WithContext(ctx), &microfinance.FixedDeposit{}, tenantID, nil, "certificate_number = ?", number)
}

// FindDueForMaturity returns running deposits of every tenant whose maturity
// date is on or before asOf, oldest first
func (r *GormFixedDepositRepository) FindDueForMaturity(ctx context.Context, asOf time.Time, limit int) ([]microfinance.FixedDeposit, error) {
	if limit <= 0 {
		limit = shared.MaxPageSize
	}
	day := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)

	var deposits []microfinance.FixedDeposit
	err := r.db.WithContext(ctx).
		Where("status IN ? AND maturity_date <= ?", runningStatuses, day).
		Order("maturity_date ASC, id ASC").
		Limit(limit).
		Find(&deposits).Error
	if err != nil {
		return nil, err
	}
	return deposits, nil
}

// Save creates or updates a deposit
func (r *GormFixedDepositRepository) Save(ctx context.Context, deposit *microfinance.FixedDeposit) error {
	return upsert(r.db.WithContext(ctx), deposit, deposit.TenantID, deposit.ID)
}

func (r *GormFixedDepositRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "certificate_number", "notes")
	if memberID, ok := filterUUID(filter.Filters, "member_id"); ok {
		query = query.Where("member_id = ?", memberID)
	}
	query = equalFold(query, "status", filter.Filters["status"])
	if from, ok := filterTime(filter.Filters, "maturity_from"); ok {
		query = query.Where("maturity_date >= ?", from)
	}
	if to, ok := filterTime(filter.Filters, "maturity_to"); ok {
		query = query.Where("maturity_date <= ?", to)
	}
	return query
}
