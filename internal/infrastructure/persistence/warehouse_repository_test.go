package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/erp/lobapi/internal/domain/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestNewGormWarehouseRepository(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewGormWarehouseRepository(db)
	assert.NotNil(t, repo)
	assert.NotNil(t, repo.db)
}

func TestGormWarehouseRepository_FindMain(t *testing.T) {
	t.Run("finds main warehouse", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormWarehouseRepository(db)
		tenantID, id := uuid.New(), uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "code", "name", "warehouse_type", "is_active", "is_main_warehouse"}).
			AddRow(id.String(), tenantID.String(), "WH-MAIN", "Main Warehouse", "Standard", true, true)
		mock.ExpectQuery(`SELECT \* FROM "store_warehouses" WHERE tenant_id = \$1 AND is_main_warehouse = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, true, 1).
			WillReturnRows(rows)

		warehouse, err := repo.FindMain(context.Background(), tenantID)
		require.NoError(t, err)
		assert.Equal(t, id, warehouse.ID)
		assert.True(t, warehouse.IsMainWarehouse)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no main warehouse is not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormWarehouseRepository(db)
		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "store_warehouses" WHERE tenant_id = \$1 AND is_main_warehouse = \$2`).
			WithArgs(tenantID, true, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindMain(context.Background(), tenantID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormWarehouseRepository_SaveAsMain_RollsBackOnClearFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormWarehouseRepository(db)
	tenantID := uuid.New()
	w, err := store.NewWarehouse(tenantID, "WH-01", "North Depot", store.WarehouseTypeStandard)
	require.NoError(t, err)
	require.NoError(t, w.SetAsMain())

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "store_warehouses" SET "is_main_warehouse"=\$1,"updated_at"=\$2,"version"=version \+ 1 WHERE tenant_id = \$3 AND is_main_warehouse = \$4 AND id <> \$5`).
		WithArgs(false, sqlmock.AnyArg(), tenantID, true, w.ID).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.SaveAsMain(context.Background(), w), assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormWarehouseRepository_SQLite(t *testing.T) {
	db := newSQLiteDB(t, &store.Warehouse{})
	repo := NewGormWarehouseRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	first, err := store.NewWarehouse(tenantID, "WH-01", "North Depot", store.WarehouseTypeStandard)
	require.NoError(t, err)
	require.NoError(t, first.SetAsMain())
	require.NoError(t, repo.Save(ctx, first), "a new aggregate already mutated past version 1 is inserted")

	second, err := store.NewWarehouse(tenantID, "WH-02", "Cold Room", store.WarehouseTypeColdStorage)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, second))

	t.Run("moving the main flag", func(t *testing.T) {
		loaded, err := repo.FindByIDForTenant(ctx, tenantID, second.ID)
		require.NoError(t, err)
		require.NoError(t, loaded.SetAsMain())
		require.NoError(t, repo.SaveAsMain(ctx, loaded))

		main, err := repo.FindMain(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, second.ID, main.ID)

		count, err := repo.CountForTenant(ctx, tenantID, shared.Filter{}.With("is_main", true))
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		// the stale copy of the old main warehouse lost the race
		first.ClearMain()
		first.IsMainWarehouse = true
		assert.ErrorIs(t, repo.Save(ctx, first), shared.ErrConcurrencyConflict)
	})

	t.Run("a failed promotion keeps the current main", func(t *testing.T) {
		stale, err := repo.FindByIDForTenant(ctx, tenantID, first.ID)
		require.NoError(t, err)
		stale.Version-- // loaded before the previous promotion
		require.NoError(t, stale.SetAsMain())

		assert.ErrorIs(t, repo.SaveAsMain(ctx, stale), shared.ErrConcurrencyConflict)

		main, err := repo.FindMain(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, second.ID, main.ID)
		count, err := repo.CountForTenant(ctx, tenantID, shared.Filter{}.With("is_main", true))
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("code check is case-insensitive and honours exclusion", func(t *testing.T) {
		ok, err := repo.ExistsByCode(ctx, tenantID, "wh-01", nil)
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = repo.ExistsByCode(ctx, tenantID, "WH-01", &first.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("type filter", func(t *testing.T) {
		found, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{}.With("warehouse_type", "coldstorage"))
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "WH-02", found[0].Code)
	})
}
