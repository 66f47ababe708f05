package accounting

import (
	"errors"
	"testing"
	"time"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func january(t *testing.T) *AccountingPeriod {
	t.Helper()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	p, err := NewAccountingPeriod(uuid.New(), "January 2025", start, end, 2025, "monthly")
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func TestNewAccountingPeriod(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	p, err := NewAccountingPeriod(uuid.New(), "Q1", start, start.AddDate(0, 3, -1), 2025, "quarterly")
	require.NoError(t, err)
	assert.Equal(t, PeriodTypeQuarterly, p.PeriodType)
	assert.False(t, p.IsClosed)

	_, err = NewAccountingPeriod(uuid.New(), "Q1", start, start, 2025, "Monthly")
	assert.Error(t, err, "end equal to start")

	_, err = NewAccountingPeriod(uuid.New(), "Q1", start, start.AddDate(0, 1, 0), 1899, "Monthly")
	assert.Error(t, err, "fiscal year too small")

	_, err = NewAccountingPeriod(uuid.New(), "Q1", start, start.AddDate(0, 1, 0), 2025, "Weekly")
	assert.Error(t, err)

	_, err = NewAccountingPeriod(uuid.New(), "", start, start.AddDate(0, 1, 0), 2025, "Monthly")
	assert.Error(t, err)
}

func TestAccountingPeriod_Close(t *testing.T) {
	t.Run("closing date outside the period is invalid input", func(t *testing.T) {
		p := january(t)
		err := p.Close(time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC), "controller")
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		assert.False(t, p.IsClosed)
	})

	t.Run("closes inside the period and rejects a second close", func(t *testing.T) {
		p := january(t)
		closing := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
		require.NoError(t, p.Close(closing, "controller"))
		assert.True(t, p.IsClosed)
		assert.Equal(t, closing, *p.ClosedDate)
		assert.Equal(t, "controller", p.ClosedBy)

		err := p.Close(closing, "controller")
		assert.True(t, errors.Is(err, shared.ErrInvalidState))

		_, err = p.Update(AccountingPeriodDetails{Name: ptr("Renamed")})
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
		assert.Error(t, p.CanDelete())
	})

	t.Run("reopen requires a closed period", func(t *testing.T) {
		p := january(t)
		assert.True(t, errors.Is(p.Reopen(), shared.ErrInvalidState))
		require.NoError(t, p.Close(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), "controller"))
		require.NoError(t, p.Reopen())
		assert.False(t, p.IsClosed)
		assert.Nil(t, p.ClosedDate)
	})
}

func TestAccountingPeriod_IsDateInPeriod(t *testing.T) {
	p := january(t)
	assert.True(t, p.IsDateInPeriod(p.StartDate))
	assert.True(t, p.IsDateInPeriod(p.EndDate))
	assert.False(t, p.IsDateInPeriod(p.EndDate.Add(time.Second)))
	assert.False(t, p.IsDateInPeriod(p.StartDate.Add(-time.Second)))
}

func TestAccountingPeriod_Update(t *testing.T) {
	p := january(t)

	changed, err := p.Update(AccountingPeriodDetails{Name: ptr("January 2025"), PeriodType: ptr("MONTHLY")})
	require.NoError(t, err)
	assert.False(t, changed)

	newEnd := p.StartDate.Add(-time.Hour)
	_, err = p.Update(AccountingPeriodDetails{EndDate: &newEnd})
	assert.Error(t, err)

	changed, err = p.Update(AccountingPeriodDetails{Notes: ptr("year start")})
	require.NoError(t, err)
	assert.True(t, changed)
	require.Len(t, p.GetDomainEvents(), 1)
}
