package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adjustmentInput(t AdjustmentType) StockAdjustmentInput {
	return StockAdjustmentInput{
		ItemID:             uuid.New(),
		AdjustmentType:     t,
		Reason:             "cycle count",
		QuantityBefore:     10,
		AdjustmentQuantity: 4,
		UnitCost:           decimal.RequireFromString("2.50"),
	}
}

func TestNewStockAdjustment_DerivesTotals(t *testing.T) {
	tests := []struct {
		name      string
		adjType   AdjustmentType
		wantAfter int
		wantCost  string
	}{
		{"increase adds stock", AdjustmentTypeIncrease, 14, "10"},
		{"found adds stock", AdjustmentTypeFound, 14, "10"},
		{"damage removes stock", AdjustmentTypeDamage, 6, "-10"},
		{"write-off removes stock", AdjustmentTypeWriteOff, 6, "-10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewStockAdjustment(uuid.New(), "ADJ-1", uuid.New(), adjustmentInput(tt.adjType))
			require.NoError(t, err)
			assert.Equal(t, tt.wantAfter, a.QuantityAfter)
			assert.True(t, a.TotalCostImpact.Equal(decimal.RequireFromString(tt.wantCost)), a.TotalCostImpact.String())
			assert.False(t, a.IsApproved)
		})
	}
}

func TestNewStockAdjustment_Validation(t *testing.T) {
	in := adjustmentInput(AdjustmentTypeLoss)
	in.AdjustmentQuantity = 11
	_, err := NewStockAdjustment(uuid.New(), "ADJ-1", uuid.New(), in)
	assert.Error(t, err, "quantity after would be negative")

	in = adjustmentInput("Teleported")
	_, err = NewStockAdjustment(uuid.New(), "ADJ-1", uuid.New(), in)
	assert.Error(t, err)

	in = adjustmentInput(AdjustmentTypeLoss)
	in.AdjustmentQuantity = 0
	_, err = NewStockAdjustment(uuid.New(), "ADJ-1", uuid.New(), in)
	assert.Error(t, err)

	_, err = NewStockAdjustment(uuid.New(), "", uuid.New(), adjustmentInput(AdjustmentTypeLoss))
	assert.Error(t, err)
}

func TestStockAdjustment_ApproveIsIdempotent(t *testing.T) {
	a, err := NewStockAdjustment(uuid.New(), "ADJ-1", uuid.New(), adjustmentInput("physical count"))
	require.NoError(t, err)
	assert.Equal(t, AdjustmentTypePhysicalCount, a.AdjustmentType)
	a.ClearDomainEvents()

	assert.Error(t, a.Approve(""))
	require.NoError(t, a.Approve("supervisor"))
	require.NoError(t, a.Approve("someone else"))

	assert.True(t, a.IsApproved)
	assert.Equal(t, "supervisor", a.ApprovedBy)
	require.Len(t, a.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeStockAdjustmentApproved, a.GetDomainEvents()[0].EventType())

	_, err = a.Update(adjustmentInput(AdjustmentTypeLoss))
	assert.Error(t, err)
	assert.Error(t, a.CanDelete())
}

func TestStockAdjustment_Update(t *testing.T) {
	in := adjustmentInput(AdjustmentTypeDecrease)
	a, err := NewStockAdjustment(uuid.New(), "ADJ-1", uuid.New(), in)
	require.NoError(t, err)
	a.ClearDomainEvents()

	changed, err := a.Update(in)
	require.NoError(t, err)
	assert.False(t, changed)

	in.AdjustmentQuantity = 2
	changed, err = a.Update(in)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 8, a.QuantityAfter)
	assert.True(t, a.TotalCostImpact.Equal(decimal.RequireFromString("-5")))
}
