package accounting

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/lobapi/internal/domain/accounting"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestAccount(t *testing.T, tenantID uuid.UUID) *accounting.ChartOfAccount {
	t.Helper()
	a, err := accounting.NewChartOfAccount(tenantID, "1010", "Cash", "Asset", "General", accounting.ChartOfAccountDetails{})
	require.NoError(t, err)
	a.ClearDomainEvents()
	return a
}

func TestChartOfAccountService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockChartOfAccountRepository)
	publisher := new(MockEventPublisher)
	svc := NewChartOfAccountService(repo, nil)
	svc.SetEventPublisher(publisher)

	repo.On("ExistsByCode", ctx, tenantID, "1010").Return(false, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*accounting.ChartOfAccount")).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(nil)

	parent := "10"
	resp, err := svc.Create(ctx, tenantID, CreateChartOfAccountRequest{
		AccountCode:  "1010",
		AccountName:  "Cash on hand",
		AccountType:  "asset",
		UsoaCategory: "general",
		ParentCode:   &parent,
	})
	require.NoError(t, err)
	assert.Equal(t, "Asset", resp.AccountType)
	assert.Equal(t, "General", resp.UsoaCategory)
	assert.Equal(t, "Debit", resp.NormalBalance)
	assert.True(t, resp.IsActive)
	assert.True(t, resp.Balance.IsZero())
	publisher.AssertExpectations(t)
}

func TestChartOfAccountService_Create_DuplicateCode(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockChartOfAccountRepository)
	svc := NewChartOfAccountService(repo, nil)

	repo.On("ExistsByCode", ctx, tenantID, "1010").Return(true, nil)

	_, err := svc.Create(ctx, tenantID, CreateChartOfAccountRequest{
		AccountCode: "1010", AccountName: "Cash", AccountType: "Asset", UsoaCategory: "General",
	})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestChartOfAccountService_Create_InvalidType(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockChartOfAccountRepository)
	svc := NewChartOfAccountService(repo, nil)

	repo.On("ExistsByCode", ctx, tenantID, "1010").Return(false, nil)

	_, err := svc.Create(ctx, tenantID, CreateChartOfAccountRequest{
		AccountCode: "1010", AccountName: "Cash", AccountType: "Bogus", UsoaCategory: "General",
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_ACCOUNT_TYPE", domainErr.Code)
}

func TestChartOfAccountService_Deactivate_Idempotent(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockChartOfAccountRepository)
	svc := NewChartOfAccountService(repo, nil)
	account := newTestAccount(t, tenantID)

	repo.On("FindByIDForTenant", ctx, tenantID, account.ID).Return(account, nil)
	repo.On("Save", ctx, account).Return(nil).Once()

	resp, err := svc.Deactivate(ctx, tenantID, account.ID)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)

	account.ClearDomainEvents()
	resp, err = svc.Deactivate(ctx, tenantID, account.ID)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)
	repo.AssertNumberOfCalls(t, "Save", 1)
}

func TestChartOfAccountService_Delete_NonZeroBalance(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockChartOfAccountRepository)
	svc := NewChartOfAccountService(repo, nil)
	account := newTestAccount(t, tenantID)
	account.UpdateBalance(decimal.NewFromInt(250))

	repo.On("FindByIDForTenant", ctx, tenantID, account.ID).Return(account, nil)

	err := svc.Delete(ctx, tenantID, account.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	repo.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestChartOfAccountService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockChartOfAccountRepository)
	svc := NewChartOfAccountService(repo, nil)
	account := newTestAccount(t, tenantID)

	repo.On("FindByIDForTenant", ctx, tenantID, account.ID).Return(account, nil)
	repo.On("DeleteForTenant", ctx, tenantID, account.ID).Return(nil)

	require.NoError(t, svc.Delete(ctx, tenantID, account.ID))
}

func TestChartOfAccountService_Search(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockChartOfAccountRepository)
	svc := NewChartOfAccountService(repo, nil)
	account := newTestAccount(t, tenantID)

	accountType := "Asset"
	req := SearchChartOfAccountsRequest{AccountType: &accountType}
	req.PageSize = 10

	matchFilter := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["account_type"] == "Asset" && f.PageSize == 10
	})
	repo.On("FindAllForTenant", ctx, tenantID, matchFilter).Return([]accounting.ChartOfAccount{*account}, nil)
	repo.On("CountForTenant", ctx, tenantID, matchFilter).Return(int64(1), nil)

	page, err := svc.Search(ctx, tenantID, req)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, "1010", page.Items[0].AccountCode)
}

func TestChartOfAccountService_GetByID_RepoError(t *testing.T) {
	ctx := context.Background()
	tenantID, id := uuid.New(), uuid.New()
	repo := new(MockChartOfAccountRepository)
	svc := NewChartOfAccountService(repo, nil)

	repo.On("FindByIDForTenant", ctx, tenantID, id).Return(nil, errors.New("connection refused"))
	_, err := svc.GetByID(ctx, tenantID, id)
	assert.EqualError(t, err, "connection refused")
}
