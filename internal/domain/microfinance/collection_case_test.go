package microfinance

import (
	"testing"
	"time"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCase(t *testing.T, dpd int, overdue int64) *CollectionCase {
	t.Helper()
	c, err := NewCollectionCase(uuid.New(), "CC-1", uuid.New(), uuid.New(), dpd,
		decimal.NewFromInt(overdue), decimal.NewFromInt(overdue*4))
	require.NoError(t, err)
	c.ClearDomainEvents()
	return c
}

func TestPriorityFor(t *testing.T) {
	tests := []struct {
		dpd     int
		overdue int64
		want    CasePriority
	}{
		{91, 0, PriorityCritical},
		{0, 100001, PriorityCritical},
		{61, 0, PriorityHigh},
		{0, 50001, PriorityHigh},
		{31, 0, PriorityMedium},
		{0, 10001, PriorityMedium},
		{30, 10000, PriorityLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PriorityFor(tt.dpd, decimal.NewFromInt(tt.overdue)), "dpd=%d overdue=%d", tt.dpd, tt.overdue)
	}
}

func TestClassificationFor(t *testing.T) {
	assert.Equal(t, ClassificationLoss, ClassificationFor(181))
	assert.Equal(t, ClassificationDoubtful, ClassificationFor(180))
	assert.Equal(t, ClassificationDoubtful, ClassificationFor(91))
	assert.Equal(t, ClassificationSubstandard, ClassificationFor(31))
	assert.Equal(t, ClassificationWatch, ClassificationFor(1))
	assert.Equal(t, ClassificationCurrent, ClassificationFor(0))
}

func TestNewCollectionCase(t *testing.T) {
	c, err := NewCollectionCase(uuid.New(), "CC-1", uuid.New(), uuid.New(), 45, decimal.NewFromInt(2000), decimal.NewFromInt(9000))
	require.NoError(t, err)
	assert.Equal(t, CaseStatusOpen, c.Status)
	assert.Equal(t, PriorityMedium, c.Priority)
	assert.Equal(t, ClassificationSubstandard, c.Classification)
	assert.Equal(t, 45, c.DaysPastDueAtOpen)
	require.Len(t, c.GetDomainEvents(), 1)

	_, err = NewCollectionCase(uuid.New(), "CC-2", uuid.New(), uuid.New(), -1, decimal.Zero, decimal.Zero)
	assert.Error(t, err)
	_, err = NewCollectionCase(uuid.New(), "", uuid.New(), uuid.New(), 0, decimal.Zero, decimal.Zero)
	assert.Error(t, err)
}

func TestCollectionCase_Workflow(t *testing.T) {
	c := newCase(t, 40, 1000)

	require.NoError(t, c.Assign(uuid.New(), nil))
	assert.Equal(t, CaseStatusAssigned, c.Status)
	assert.NotNil(t, c.AssignedDate)

	require.NoError(t, c.RecordContact(time.Time{}, nil))
	require.NoError(t, c.RecordContact(time.Time{}, nil))
	assert.Equal(t, CaseStatusInProgress, c.Status)
	assert.Equal(t, 2, c.ContactAttempts)

	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	err := c.RecordPromiseToPay(decimal.NewFromInt(500), now.AddDate(0, 0, -1), now)
	assert.Error(t, err, "promise in the past")
	err = c.RecordPromiseToPay(decimal.Zero, now, now)
	assert.Error(t, err)
	require.NoError(t, c.RecordPromiseToPay(decimal.NewFromInt(500), now, now))
	assert.Equal(t, CaseStatusPromiseToPay, c.Status)

	require.NoError(t, c.RecordRecovery(decimal.NewFromInt(400)))
	assert.Equal(t, CaseStatusPromiseToPay, c.Status)
	assert.True(t, c.AmountOverdue.Equal(decimal.NewFromInt(600)))

	require.NoError(t, c.RecordRecovery(decimal.NewFromInt(600)))
	assert.Equal(t, CaseStatusRecovered, c.Status)
	assert.True(t, c.AmountRecovered.Equal(decimal.NewFromInt(1000)))

	err = c.Assign(uuid.New(), nil)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestCollectionCase_EscalateAndWriteOff(t *testing.T) {
	c := newCase(t, 120, 60000)
	require.NoError(t, c.EscalateToLegal("no response"))
	assert.Error(t, c.EscalateToLegal(""), "already with legal")
	assert.Contains(t, c.Notes, "Legal escalation: no response")

	assert.Error(t, c.WriteOff(" "))
	require.NoError(t, c.WriteOff("uncollectible"))
	assert.Equal(t, CaseStatusWrittenOff, c.Status)
	assert.Error(t, c.RecordRecovery(decimal.NewFromInt(1)))
}

func TestCollectionCase_SettleAndClose(t *testing.T) {
	c := newCase(t, 10, 100)
	require.NoError(t, c.Settle(decimal.NewFromInt(80), "80 percent"))
	assert.Equal(t, CaseStatusSettled, c.Status)
	assert.Error(t, c.Settle(decimal.NewFromInt(80), ""))

	require.NoError(t, c.Close("settled in full"))
	assert.Error(t, c.Close("again"))
}

func TestCollectionCase_UpdateArrears(t *testing.T) {
	c := newCase(t, 10, 100)
	require.NoError(t, c.UpdateArrears(10, decimal.NewFromInt(100), decimal.NewFromInt(400)))
	assert.Empty(t, c.GetDomainEvents(), "no change no event")

	require.NoError(t, c.UpdateArrears(95, decimal.NewFromInt(100), decimal.NewFromInt(400)))
	assert.Equal(t, PriorityCritical, c.Priority)
	assert.Equal(t, ClassificationDoubtful, c.Classification)
	assert.Len(t, c.GetDomainEvents(), 1)
}
