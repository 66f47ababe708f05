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

func depositInput() FixedDepositInput {
	return FixedDepositInput{
		CertificateNumber: "FD-0001",
		MemberID:          uuid.New(),
		PrincipalAmount:   decimal.NewFromInt(10000),
		InterestRate:      decimal.RequireFromString("6"),
		TermMonths:        12,
		DepositDate:       time.Date(2026, 1, 31, 15, 0, 0, 0, time.UTC),
	}
}

func newDeposit(t *testing.T) *FixedDeposit {
	t.Helper()
	fd, err := NewFixedDeposit(uuid.New(), depositInput())
	require.NoError(t, err)
	fd.ClearDomainEvents()
	return fd
}

func TestNewFixedDeposit(t *testing.T) {
	fd, err := NewFixedDeposit(uuid.New(), depositInput())
	require.NoError(t, err)

	assert.Equal(t, DepositStatusActive, fd.Status)
	assert.Equal(t, MaturityTransferToSavings, fd.MaturityInstruction)
	assert.Equal(t, time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC), fd.MaturityDate)
	assert.True(t, fd.ProjectedInterest().Equal(decimal.NewFromInt(600)))
	require.Len(t, fd.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeFixedDepositCreated, fd.GetDomainEvents()[0].EventType())
}

func TestNewFixedDeposit_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*FixedDepositInput)
	}{
		{"missing certificate", func(in *FixedDepositInput) { in.CertificateNumber = "  " }},
		{"missing member", func(in *FixedDepositInput) { in.MemberID = uuid.Nil }},
		{"zero principal", func(in *FixedDepositInput) { in.PrincipalAmount = decimal.Zero }},
		{"zero rate", func(in *FixedDepositInput) { in.InterestRate = decimal.Zero }},
		{"rate above 100", func(in *FixedDepositInput) { in.InterestRate = decimal.NewFromInt(101) }},
		{"term too short", func(in *FixedDepositInput) { in.TermMonths = 0 }},
		{"term too long", func(in *FixedDepositInput) { in.TermMonths = 121 }},
		{"unknown instruction", func(in *FixedDepositInput) { in.MaturityInstruction = "Burn" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := depositInput()
			tt.mutate(&in)
			_, err := NewFixedDeposit(uuid.New(), in)
			assert.Error(t, err)
		})
	}
}

func TestParseMaturityInstruction_CaseInsensitive(t *testing.T) {
	mi, err := ParseMaturityInstruction("payout")
	require.NoError(t, err)
	assert.Equal(t, MaturityPayOut, mi)
}

func TestFixedDeposit_Interest(t *testing.T) {
	fd := newDeposit(t)

	require.NoError(t, fd.PostInterest(decimal.NewFromInt(50)))
	require.NoError(t, fd.PayInterest(decimal.NewFromInt(20)))
	assert.True(t, fd.AvailableInterest().Equal(decimal.NewFromInt(30)))

	err := fd.PayInterest(decimal.NewFromInt(31))
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.Error(t, fd.PostInterest(decimal.Zero))
	assert.Len(t, fd.GetDomainEvents(), 2)
}

func TestFixedDeposit_MatureAndRenew(t *testing.T) {
	fd := newDeposit(t)
	fd.MaturityInstruction = MaturityRenewPrincipalAndInterest
	require.NoError(t, fd.PostInterest(decimal.NewFromInt(600)))

	assert.False(t, fd.IsDue(time.Date(2027, 1, 30, 0, 0, 0, 0, time.UTC)))
	assert.True(t, fd.IsDue(time.Date(2027, 1, 31, 8, 0, 0, 0, time.UTC)))

	require.NoError(t, fd.Mature(time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, DepositStatusMatured, fd.Status)
	assert.Error(t, fd.Mature(time.Time{}), "already matured")

	term := 6
	now := time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, fd.Renew(&term, nil, now))
	assert.Equal(t, DepositStatusRenewed, fd.Status)
	assert.True(t, fd.PrincipalAmount.Equal(decimal.NewFromInt(10600)))
	assert.True(t, fd.AvailableInterest().IsZero())
	assert.Equal(t, time.Date(2027, 8, 1, 0, 0, 0, 0, time.UTC), fd.MaturityDate)
	assert.Nil(t, fd.ClosedDate)
	assert.True(t, fd.Status.IsRunning())
}

func TestFixedDeposit_RenewRequiresMatured(t *testing.T) {
	fd := newDeposit(t)
	err := fd.Renew(nil, nil, time.Now())
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestFixedDeposit_ClosePremature(t *testing.T) {
	fd := newDeposit(t)
	require.NoError(t, fd.ClosePremature("member emergency"))
	assert.Equal(t, DepositStatusPrematurelyClosed, fd.Status)
	assert.Contains(t, fd.Notes, "Premature closure: member emergency")
	assert.NotNil(t, fd.ClosedDate)

	assert.Error(t, fd.ClosePremature(""))
	assert.Error(t, fd.UpdateMaturityInstruction("PayOut"))
}
