package microfinance

import (
	"context"
	"time"

	"github.com/erp/lobapi/internal/domain/microfinance"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockFixedDepositRepository is a mock implementation of microfinance.FixedDepositRepository
type MockFixedDepositRepository struct {
	mock.Mock
}

func (m *MockFixedDepositRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*microfinance.FixedDeposit, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*microfinance.FixedDeposit), args.Error(1)
}

func (m *MockFixedDepositRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]microfinance.FixedDeposit, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]microfinance.FixedDeposit), args.Error(1)
}

func (m *MockFixedDepositRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFixedDepositRepository) ExistsByCertificateNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	args := m.Called(ctx, tenantID, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockFixedDepositRepository) FindDueForMaturity(ctx context.Context, asOf time.Time, limit int) ([]microfinance.FixedDeposit, error) {
	args := m.Called(ctx, asOf, limit)
	return args.Get(0).([]microfinance.FixedDeposit), args.Error(1)
}

func (m *MockFixedDepositRepository) Save(ctx context.Context, deposit *microfinance.FixedDeposit) error {
	return m.Called(ctx, deposit).Error(0)
}

// MockCollectionCaseRepository is a mock implementation of microfinance.CollectionCaseRepository
type MockCollectionCaseRepository struct {
	mock.Mock
}

func (m *MockCollectionCaseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*microfinance.CollectionCase, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*microfinance.CollectionCase), args.Error(1)
}

func (m *MockCollectionCaseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]microfinance.CollectionCase, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]microfinance.CollectionCase), args.Error(1)
}

func (m *MockCollectionCaseRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCollectionCaseRepository) ExistsByCaseNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	args := m.Called(ctx, tenantID, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockCollectionCaseRepository) Save(ctx context.Context, c *microfinance.CollectionCase) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCollectionCaseRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
