package accounting

import (
	"context"
	"testing"
	"time"

	"github.com/erp/lobapi/internal/domain/accounting"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	periodStart = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)
)

func newTestPeriod(t *testing.T, tenantID uuid.UUID) *accounting.AccountingPeriod {
	t.Helper()
	p, err := accounting.NewAccountingPeriod(tenantID, "January 2026", periodStart, periodEnd, 2026, "Monthly")
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func TestAccountingPeriodService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockAccountingPeriodRepository)
	svc := NewAccountingPeriodService(repo, nil)

	repo.On("ExistsByName", ctx, tenantID, 2026, "January 2026", (*uuid.UUID)(nil)).Return(false, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*accounting.AccountingPeriod")).Return(nil)

	resp, err := svc.Create(ctx, tenantID, CreateAccountingPeriodRequest{
		Name:               " January 2026 ",
		StartDate:          periodStart,
		EndDate:            periodEnd,
		FiscalYear:         2026,
		PeriodType:         "monthly",
		IsAdjustmentPeriod: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Monthly", resp.PeriodType)
	assert.True(t, resp.IsAdjustmentPeriod)
	assert.False(t, resp.IsClosed)
}

func TestAccountingPeriodService_Create_EndBeforeStart(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAccountingPeriodRepository)
	svc := NewAccountingPeriodService(repo, nil)

	_, err := svc.Create(ctx, uuid.New(), CreateAccountingPeriodRequest{
		Name: "Bad", StartDate: periodEnd, EndDate: periodStart, FiscalYear: 2026, PeriodType: "Monthly",
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_DATE_RANGE", domainErr.Code)
}

func TestAccountingPeriodService_Create_DuplicateName(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockAccountingPeriodRepository)
	svc := NewAccountingPeriodService(repo, nil)

	repo.On("ExistsByName", ctx, tenantID, 2026, "January 2026", (*uuid.UUID)(nil)).Return(true, nil)

	_, err := svc.Create(ctx, tenantID, CreateAccountingPeriodRequest{
		Name: "January 2026", StartDate: periodStart, EndDate: periodEnd, FiscalYear: 2026, PeriodType: "Monthly",
	})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestAccountingPeriodService_CloseAndReopen(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockAccountingPeriodRepository)
	svc := NewAccountingPeriodService(repo, nil)
	period := newTestPeriod(t, tenantID)

	repo.On("FindByIDForTenant", ctx, tenantID, period.ID).Return(period, nil)
	repo.On("Save", ctx, period).Return(nil)

	closing := time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC)
	resp, err := svc.Close(ctx, tenantID, period.ID, ClosePeriodRequest{ClosingDate: &closing, ClosedBy: "controller"})
	require.NoError(t, err)
	assert.True(t, resp.IsClosed)
	assert.Equal(t, "controller", resp.ClosedBy)

	_, err = svc.Close(ctx, tenantID, period.ID, ClosePeriodRequest{ClosingDate: &closing})
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	name := "Renamed"
	_, err = svc.Update(ctx, tenantID, period.ID, UpdateAccountingPeriodRequest{Name: &name})
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	assert.ErrorIs(t, svc.Delete(ctx, tenantID, period.ID), shared.ErrInvalidState)

	resp, err = svc.Reopen(ctx, tenantID, period.ID)
	require.NoError(t, err)
	assert.False(t, resp.IsClosed)
	assert.Nil(t, resp.ClosedDate)
}

func TestAccountingPeriodService_Close_OutsidePeriod(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockAccountingPeriodRepository)
	svc := NewAccountingPeriodService(repo, nil)
	period := newTestPeriod(t, tenantID)

	repo.On("FindByIDForTenant", ctx, tenantID, period.ID).Return(period, nil)

	closing := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Close(ctx, tenantID, period.ID, ClosePeriodRequest{ClosingDate: &closing})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAccountingPeriodService_Update_Rename(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockAccountingPeriodRepository)
	svc := NewAccountingPeriodService(repo, nil)
	period := newTestPeriod(t, tenantID)

	name := "Jan 2026"
	repo.On("FindByIDForTenant", ctx, tenantID, period.ID).Return(period, nil)
	repo.On("ExistsByName", ctx, tenantID, 2026, name, &period.ID).Return(false, nil)
	repo.On("Save", ctx, period).Return(nil)

	resp, err := svc.Update(ctx, tenantID, period.ID, UpdateAccountingPeriodRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, resp.Name)
	assert.Equal(t, 2, resp.Version)
}
