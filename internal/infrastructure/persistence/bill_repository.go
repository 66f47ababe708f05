package persistence

import (
	"context"

	"github.com/erp/lobapi/internal/domain/accounting"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBillRepository implements BillRepository using GORM
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: db}
}

var _ accounting.BillRepository = (*GormBillRepository)(nil)

// FindByIDForTenant loads a bill with its lines ordered by line number
func (r *GormBillRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*accounting.Bill, error) {
	var bill accounting.Bill
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("line_number ASC") }).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&bill).Error
	if err != nil {
		return nil, notFoundOr(err, "Bill", id)
	}
	return &bill, nil
}

// FindAllForTenant lists bill headers with filtering and paging
func (r *GormBillRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]accounting.Bill, error) {
	var bills []accounting.Bill
	query := r.db.WithContext(ctx).Model(&accounting.Bill{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	query = paginate(query, filter, BillSortFields, "bill_date")

	if err := query.Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

// CountForTenant counts bills matching the filter
func (r *GormBillRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&accounting.Bill{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByNumber checks whether a bill number is taken, ignoring excludeID
func (r *GormBillRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string, excludeID *uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx), &accounting.Bill{}, tenantID, excludeID, "bill_number = ?", number)
}

// Save writes the header and replaces the line set in one transaction
func (r *GormBillRepository) Save(ctx context.Context, bill *accounting.Bill) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(tx, bill, bill.TenantID, bill.ID, bill.Version); err != nil {
			return err
		}
		if err := tx.Where("bill_id = ?", bill.ID).Delete(&accounting.BillLineItem{}).Error; err != nil {
			return err
		}
		if len(bill.Lines) == 0 {
			return nil
		}
		for i := range bill.Lines {
			bill.Lines[i].BillID = bill.ID
		}
		return tx.Create(&bill.Lines).Error
	})
}

// DeleteForTenant deletes a bill together with its lines
func (r *GormBillRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteForTenant(tx, &accounting.Bill{}, tenantID, id); err != nil {
			return err
		}
		return tx.Where("bill_id = ?", id).Delete(&accounting.BillLineItem{}).Error
	})
}

func (r *GormBillRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "bill_number", "vendor_name", "purchase_order_number", "description")
	query = equalFold(query, "status", filter.Filters["status"])
	query = equalFold(query, "approval_status", filter.Filters["approval_status"])
	if vendorID, ok := filterUUID(filter.Filters, "vendor_id"); ok {
		query = query.Where("vendor_id = ?", vendorID)
	}
	if from, ok := filterTime(filter.Filters, "bill_date_from"); ok {
		query = query.Where("bill_date >= ?", from)
	}
	if to, ok := filterTime(filter.Filters, "bill_date_to"); ok {
		query = query.Where("bill_date <= ?", to)
	}
	if from, ok := filterTime(filter.Filters, "due_date_from"); ok {
		query = query.Where("due_date >= ?", from)
	}
	if to, ok := filterTime(filter.Filters, "due_date_to"); ok {
		query = query.Where("due_date <= ?", to)
	}
	if at, ok := filterTime(filter.Filters, "overdue_at"); ok {
		query = query.Where("due_date < ? AND status NOT IN ?", at,
			[]accounting.BillStatus{accounting.BillStatusPaid, accounting.BillStatusVoid})
	}
	return query
}
