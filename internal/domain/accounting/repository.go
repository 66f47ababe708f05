package accounting

import (
	"context"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
)

// ChartOfAccountRepository defines persistence for ledger accounts
type ChartOfAccountRepository interface {
	// FindByIDForTenant finds an account by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ChartOfAccount, error)

	// FindAllForTenant lists accounts. Filter keys: account_type, usoa_category, is_active.
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ChartOfAccount, error)

	// CountForTenant counts accounts matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByCode checks whether an account code is taken
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)

	// Save creates or updates an account
	Save(ctx context.Context, account *ChartOfAccount) error

	// DeleteForTenant deletes an account within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// AccountingPeriodRepository defines persistence for accounting periods
type AccountingPeriodRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*AccountingPeriod, error)

	// FindAllForTenant lists periods. Filter keys: fiscal_year, period_type,
	// is_closed, and from/to for date range overlap.
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]AccountingPeriod, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByName checks whether a period name is used in a fiscal year, ignoring excludeID when set
	ExistsByName(ctx context.Context, tenantID uuid.UUID, fiscalYear int, name string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, period *AccountingPeriod) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// BillRepository defines persistence for bills and their lines
type BillRepository interface {
	// FindByIDForTenant loads a bill with its lines
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Bill, error)

	// FindAllForTenant lists bills without lines. Filter keys: vendor_id, status,
	// approval_status, bill_date_from, bill_date_to, due_date_from, due_date_to, overdue_at.
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Bill, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string, excludeID *uuid.UUID) (bool, error)

	// Save writes the bill and replaces its lines in one transaction
	Save(ctx context.Context, bill *Bill) error

	// DeleteForTenant deletes a bill and its lines
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
