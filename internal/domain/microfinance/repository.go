package microfinance

import (
	"context"
	"time"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
)

// FixedDepositRepository defines persistence for fixed deposits
type FixedDepositRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*FixedDeposit, error)
	// FindAllForTenant lists deposits; filter keys: member_id, status, maturity_from, maturity_to
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]FixedDeposit, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByCertificateNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error)

	// FindDueForMaturity returns running deposits of every tenant maturing on or before asOf
	FindDueForMaturity(ctx context.Context, asOf time.Time, limit int) ([]FixedDeposit, error)
	Save(ctx context.Context, deposit *FixedDeposit) error
}

// CollectionCaseRepository defines persistence for collection cases
type CollectionCaseRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*CollectionCase, error)
	// FindAllForTenant lists cases; filter keys: status, priority, classification,
	// assigned_collector_id, loan_id, member_id
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CollectionCase, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByCaseNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error)
	Save(ctx context.Context, c *CollectionCase) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
