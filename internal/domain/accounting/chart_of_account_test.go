package accounting

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestNewChartOfAccount(t *testing.T) {
	tenantID := uuid.New()

	t.Run("normalises enums and derives level", func(t *testing.T) {
		a, err := NewChartOfAccount(tenantID, "101.1", "Cash", "asset", "general", ChartOfAccountDetails{
			ParentCode:       ptr("101"),
			IsControlAccount: ptr(true),
		})
		require.NoError(t, err)
		assert.Equal(t, AccountTypeAsset, a.AccountType)
		assert.Equal(t, UsoaGeneral, a.UsoaCategory)
		assert.Equal(t, 2, a.AccountLevel)
		assert.False(t, a.AllowDirectPosting)
		assert.Equal(t, NormalBalanceDebit, a.NormalBalance)
		assert.True(t, a.IsActive)
		require.Len(t, a.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeChartOfAccountCreated, a.GetDomainEvents()[0].EventType())
	})

	t.Run("top level account has level one", func(t *testing.T) {
		a, err := NewChartOfAccount(tenantID, "101", "Cash", "Asset", "Customer Accounts", ChartOfAccountDetails{})
		require.NoError(t, err)
		assert.Equal(t, 1, a.AccountLevel)
		assert.True(t, a.AllowDirectPosting)
	})

	t.Run("rejects code longer than 16", func(t *testing.T) {
		_, err := NewChartOfAccount(tenantID, "12345678901234567", "Cash", "Asset", "General", ChartOfAccountDetails{})
		assert.Error(t, err)
	})

	t.Run("rejects unknown account type", func(t *testing.T) {
		_, err := NewChartOfAccount(tenantID, "101", "Cash", "Goodwillish", "General", ChartOfAccountDetails{})
		assert.Error(t, err)
	})

	t.Run("truncates parent code", func(t *testing.T) {
		a, err := NewChartOfAccount(tenantID, "101", "Cash", "Asset", "General", ChartOfAccountDetails{
			ParentCode: ptr("1.2.3.4.5.6.7.8.9.10"),
		})
		require.NoError(t, err)
		assert.Len(t, a.ParentCode, 16)
	})
}

func TestChartOfAccount_Update(t *testing.T) {
	a, err := NewChartOfAccount(uuid.New(), "101", "Cash", "Asset", "General", ChartOfAccountDetails{})
	require.NoError(t, err)
	a.ClearDomainEvents()

	changed, err := a.Update(ChartOfAccountDetails{AccountName: ptr("Cash"), AccountType: ptr("ASSET")})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, a.GetDomainEvents())

	changed, err = a.Update(ChartOfAccountDetails{ParentCode: ptr("1.2"), IsControlAccount: ptr(true)})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 3, a.AccountLevel)
	assert.False(t, a.AllowDirectPosting)
	require.Len(t, a.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeChartOfAccountUpdated, a.GetDomainEvents()[0].EventType())
}

func TestChartOfAccount_BalanceAndDelete(t *testing.T) {
	a, err := NewChartOfAccount(uuid.New(), "101", "Cash", "Asset", "General", ChartOfAccountDetails{})
	require.NoError(t, err)
	a.ClearDomainEvents()

	a.UpdateBalance(decimal.NewFromInt(250))
	assert.Error(t, a.CanDelete())
	a.UpdateBalance(decimal.NewFromInt(250))
	require.Len(t, a.GetDomainEvents(), 1, "unchanged balance raises nothing")

	a.UpdateBalance(decimal.Zero)
	assert.NoError(t, a.CanDelete())
}

func TestChartOfAccount_ActivationIsIdempotent(t *testing.T) {
	a, err := NewChartOfAccount(uuid.New(), "101", "Cash", "Asset", "General", ChartOfAccountDetails{})
	require.NoError(t, err)
	a.ClearDomainEvents()

	a.Activate()
	assert.Empty(t, a.GetDomainEvents())
	a.Deactivate()
	a.Deactivate()
	assert.False(t, a.IsActive)
	assert.Len(t, a.GetDomainEvents(), 1)
}
