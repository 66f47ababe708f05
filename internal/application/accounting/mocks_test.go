package accounting

import (
	"context"

	"github.com/erp/lobapi/internal/domain/accounting"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockChartOfAccountRepository is a mock implementation of accounting.ChartOfAccountRepository
type MockChartOfAccountRepository struct {
	mock.Mock
}

func (m *MockChartOfAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*accounting.ChartOfAccount, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.ChartOfAccount), args.Error(1)
}

func (m *MockChartOfAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]accounting.ChartOfAccount, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]accounting.ChartOfAccount), args.Error(1)
}

func (m *MockChartOfAccountRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChartOfAccountRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockChartOfAccountRepository) Save(ctx context.Context, account *accounting.ChartOfAccount) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockChartOfAccountRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockAccountingPeriodRepository is a mock implementation of accounting.AccountingPeriodRepository
type MockAccountingPeriodRepository struct {
	mock.Mock
}

func (m *MockAccountingPeriodRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*accounting.AccountingPeriod, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.AccountingPeriod), args.Error(1)
}

func (m *MockAccountingPeriodRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]accounting.AccountingPeriod, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]accounting.AccountingPeriod), args.Error(1)
}

func (m *MockAccountingPeriodRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountingPeriodRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, fiscalYear int, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, fiscalYear, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountingPeriodRepository) Save(ctx context.Context, period *accounting.AccountingPeriod) error {
	return m.Called(ctx, period).Error(0)
}

func (m *MockAccountingPeriodRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockBillRepository is a mock implementation of accounting.BillRepository
type MockBillRepository struct {
	mock.Mock
}

func (m *MockBillRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*accounting.Bill, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Bill), args.Error(1)
}

func (m *MockBillRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]accounting.Bill, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]accounting.Bill), args.Error(1)
}

func (m *MockBillRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBillRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, number, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBillRepository) Save(ctx context.Context, bill *accounting.Bill) error {
	return m.Called(ctx, bill).Error(0)
}

func (m *MockBillRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
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
