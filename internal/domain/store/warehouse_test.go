package store

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newTestWarehouse(t *testing.T) *Warehouse {
	t.Helper()
	w, err := NewWarehouse(uuid.New(), "WH-001", "Central", WarehouseTypeStandard)
	require.NoError(t, err)
	w.ClearDomainEvents()
	return w
}

func TestNewWarehouse(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates warehouse with valid input", func(t *testing.T) {
		w, err := NewWarehouse(tenantID, "WH-001", "Central", "")
		require.NoError(t, err)

		assert.Equal(t, tenantID, w.TenantID)
		assert.Equal(t, "WH-001", w.Code)
		assert.Equal(t, WarehouseTypeStandard, w.WarehouseType)
		assert.True(t, w.IsActive)
		assert.False(t, w.IsMainWarehouse)
		assert.True(t, w.TotalCapacity.IsZero())

		events := w.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeWarehouseCreated, events[0].EventType())
	})

	t.Run("fails with empty code", func(t *testing.T) {
		w, err := NewWarehouse(tenantID, "", "Central", WarehouseTypeStandard)
		assert.Nil(t, w)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("fails with code too long", func(t *testing.T) {
		_, err := NewWarehouse(tenantID, strings.Repeat("A", 51), "Central", WarehouseTypeStandard)
		assert.Contains(t, err.Error(), "cannot exceed 50 characters")
	})

	t.Run("fails with invalid type", func(t *testing.T) {
		_, err := NewWarehouse(tenantID, "WH", "Central", WarehouseType("Floating"))
		assert.Contains(t, err.Error(), "Invalid warehouse type")
	})
}

func TestParseWarehouseType(t *testing.T) {
	got, err := ParseWarehouseType("coldstorage")
	require.NoError(t, err)
	assert.Equal(t, WarehouseTypeColdStorage, got)

	got, err = ParseWarehouseType("")
	require.NoError(t, err)
	assert.Equal(t, WarehouseTypeStandard, got)
}

func TestWarehouse_Update(t *testing.T) {
	t.Run("raises no event when nothing differs", func(t *testing.T) {
		w := newTestWarehouse(t)
		changed, err := w.Update(WarehouseDetails{Name: strPtr("Central"), Code: strPtr("WH-001")})
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Empty(t, w.GetDomainEvents())
		assert.Equal(t, 1, w.Version)
	})

	t.Run("applies changed fields", func(t *testing.T) {
		w := newTestWarehouse(t)
		total := decimal.NewFromInt(500)
		changed, err := w.Update(WarehouseDetails{Name: strPtr("North"), TotalCapacity: &total})
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, "North", w.Name)
		assert.True(t, w.TotalCapacity.Equal(total))
		require.Len(t, w.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeWarehouseUpdated, w.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects total below used capacity", func(t *testing.T) {
		w := newTestWarehouse(t)
		w.TotalCapacity = decimal.NewFromInt(100)
		w.UsedCapacity = decimal.NewFromInt(80)
		total := decimal.NewFromInt(50)
		_, err := w.Update(WarehouseDetails{TotalCapacity: &total})
		assert.Error(t, err)
	})

	t.Run("rejects bad manager email", func(t *testing.T) {
		w := newTestWarehouse(t)
		_, err := w.Update(WarehouseDetails{ManagerEmail: strPtr("not-an-email")})
		assert.Error(t, err)
	})
}

func TestWarehouse_UpdateCapacity(t *testing.T) {
	w := newTestWarehouse(t)
	w.TotalCapacity = decimal.NewFromInt(100)

	require.NoError(t, w.UpdateCapacity(decimal.NewFromInt(40)))
	assert.True(t, w.AvailableCapacity().Equal(decimal.NewFromInt(60)))

	assert.Error(t, w.UpdateCapacity(decimal.NewFromInt(101)))
	assert.Error(t, w.UpdateCapacity(decimal.NewFromInt(-1)))
}

func TestWarehouse_MainAndStatus(t *testing.T) {
	w := newTestWarehouse(t)

	require.NoError(t, w.SetAsMain())
	assert.True(t, w.IsMainWarehouse)
	assert.Error(t, w.CanDelete())
	assert.Error(t, w.Deactivate())

	w.ClearMain()
	assert.NoError(t, w.CanDelete())
	require.NoError(t, w.Deactivate())
	assert.False(t, w.IsActive)
	assert.Error(t, w.Deactivate())
	assert.Error(t, w.SetAsMain())
	require.NoError(t, w.Activate())
}
