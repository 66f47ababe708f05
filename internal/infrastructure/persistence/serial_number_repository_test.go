package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/erp/lobapi/internal/domain/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormSerialNumberRepository_SQLite(t *testing.T) {
	db := newSQLiteDB(t, &store.SerialNumber{})
	repo := NewGormSerialNumberRepository(db)
	ctx := context.Background()
	tenantID, itemID, warehouseID := uuid.New(), uuid.New(), uuid.New()
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	newSerial := func(value string, warranty *time.Time) *store.SerialNumber {
		sn, err := store.NewSerialNumber(tenantID, value, itemID, store.SerialNumberLocation{WarehouseID: &warehouseID})
		require.NoError(t, err)
		sn.SetDates(nil, nil, warranty)
		require.NoError(t, repo.Save(ctx, sn))
		return sn
	}
	future, past := now.AddDate(1, 0, 0), now.AddDate(0, -1, 0)
	covered := newSerial("SN-1001", &future)
	newSerial("SN-1002", &past)
	newSerial("SN-1003", nil)

	t.Run("warranty filters", func(t *testing.T) {
		valid, err := repo.FindAllForTenant(ctx, tenantID,
			shared.Filter{}.With("warranty_valid_at", now).With("warranty_valid", true))
		require.NoError(t, err)
		require.Len(t, valid, 1)
		assert.Equal(t, covered.ID, valid[0].ID)

		count, err := repo.CountForTenant(ctx, tenantID,
			shared.Filter{}.With("warranty_valid_at", now).With("warranty_valid", false))
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("location filters", func(t *testing.T) {
		count, err := repo.CountForTenant(ctx, tenantID,
			shared.Filter{}.With("item_id", itemID).With("warehouse_id", warehouseID).With("status", "Available"))
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)

		count, err = repo.CountForTenant(ctx, tenantID, shared.Filter{}.With("warehouse_id", uuid.New()))
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("serial value lookup", func(t *testing.T) {
		ok, err := repo.ExistsBySerialValue(ctx, tenantID, "SN-1002")
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = repo.ExistsBySerialValue(ctx, uuid.New(), "SN-1002")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
