package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/erp/lobapi/internal/domain/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormStockAdjustmentRepository_SQLite(t *testing.T) {
	db := newSQLiteDB(t, &store.StockAdjustment{})
	repo := NewGormStockAdjustmentRepository(db)
	ctx := context.Background()
	tenantID, warehouseID, itemID := uuid.New(), uuid.New(), uuid.New()

	newAdjustment := func(number string, day int, adjType store.AdjustmentType) *store.StockAdjustment {
		a, err := store.NewStockAdjustment(tenantID, number, warehouseID, store.StockAdjustmentInput{
			ItemID:             itemID,
			AdjustmentDate:     time.Date(2026, 4, day, 9, 0, 0, 0, time.UTC),
			AdjustmentType:     adjType,
			Reason:             "Cycle count",
			QuantityBefore:     20,
			AdjustmentQuantity: 2,
			UnitCost:           decimal.NewFromFloat(12.5),
		})
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, a))
		return a
	}
	damage := newAdjustment("ADJ-001", 3, store.AdjustmentTypeDamage)
	newAdjustment("ADJ-002", 12, store.AdjustmentTypeFound)

	t.Run("derived totals round-trip", func(t *testing.T) {
		loaded, err := repo.FindByIDForTenant(ctx, tenantID, damage.ID)
		require.NoError(t, err)
		assert.Equal(t, 18, loaded.QuantityAfter)
		assert.True(t, loaded.TotalCostImpact.Equal(decimal.NewFromInt(-25)))
	})

	t.Run("approval persists", func(t *testing.T) {
		loaded, err := repo.FindByIDForTenant(ctx, tenantID, damage.ID)
		require.NoError(t, err)
		require.NoError(t, loaded.Approve("warehouse.lead"))
		require.NoError(t, repo.Save(ctx, loaded))

		approved, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{}.With("is_approved", true))
		require.NoError(t, err)
		require.Len(t, approved, 1)
		assert.Equal(t, "warehouse.lead", approved[0].ApprovedBy)
		assert.NotNil(t, approved[0].ApprovedDate)
	})

	t.Run("date window and type", func(t *testing.T) {
		filter := shared.Filter{}.
			With("from", time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)).
			With("to", time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)).
			With("adjustment_type", "found")
		found, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "ADJ-002", found[0].AdjustmentNumber)
	})

	t.Run("number lookup", func(t *testing.T) {
		ok, err := repo.ExistsByNumber(ctx, tenantID, "ADJ-001")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
