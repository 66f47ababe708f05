package hr

import (
	"errors"
	"testing"
	"time"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newTestEmployee(t *testing.T) *Employee {
	t.Helper()
	e, err := NewEmployee(uuid.New(), "EMP-001", "Ana", "Reyes", ClassificationProbationary)
	require.NoError(t, err)
	e.ClearDomainEvents()
	return e
}

func TestNewEmployee(t *testing.T) {
	e, err := NewEmployee(uuid.New(), "EMP-001", "Ana", "Reyes", "")
	require.NoError(t, err)
	assert.Equal(t, EmploymentStatusActive, e.Status)
	assert.Equal(t, ClassificationRegular, e.EmploymentClassification)
	assert.True(t, e.IsActive)
	assert.Equal(t, "Ana Reyes", e.FullName())

	_, err = NewEmployee(uuid.New(), "", "Ana", "Reyes", "")
	assert.Error(t, err)
	_, err = NewEmployee(uuid.New(), "EMP", "", "Reyes", "")
	assert.Error(t, err)
	_, err = NewEmployee(uuid.New(), "EMP", "Ana", "Reyes", "Intern")
	assert.Error(t, err)
}

func TestEmployee_UpdateContactInfo(t *testing.T) {
	e := newTestEmployee(t)

	changed, err := e.UpdateContactInfo(strPtr("ana@example.com"), nil)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = e.UpdateContactInfo(strPtr("ana@example.com"), nil)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, e.GetDomainEvents(), 1)

	_, err = e.UpdateContactInfo(strPtr("not an email"), nil)
	assert.Error(t, err)
	_, err = e.UpdateContactInfo(nil, strPtr("012345678901234567890"))
	assert.Error(t, err)
}

func TestEmployee_UpdatePersonalInfo(t *testing.T) {
	e := newTestEmployee(t)
	changed, err := e.UpdatePersonalInfo(nil, strPtr("Cruz"), nil)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "Ana Cruz Reyes", e.FullName())

	_, err = e.UpdatePersonalInfo(strPtr(""), nil, nil)
	assert.Error(t, err)
}

func TestEmployee_Lifecycle(t *testing.T) {
	e := newTestEmployee(t)

	require.NoError(t, e.MarkOnLeave())
	assert.Equal(t, EmploymentStatusOnLeave, e.Status)
	require.NoError(t, e.ReturnFromLeave())
	assert.Equal(t, EmploymentStatusActive, e.Status)

	require.NoError(t, e.Regularize(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, ClassificationRegular, e.EmploymentClassification)
	assert.Error(t, e.Regularize(time.Now()))

	require.NoError(t, e.SetBasicSalary(decimal.NewFromInt(30000)))
	assert.Error(t, e.SetBasicSalary(decimal.NewFromInt(-1)))

	require.NoError(t, e.Terminate(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), "resigned", "Voluntary"))
	assert.True(t, e.IsTerminated())
	assert.False(t, e.IsActive)

	err := e.Terminate(time.Now(), "again", "")
	assert.True(t, errors.Is(err, shared.ErrInvalidState))
	assert.Error(t, e.MarkOnLeave())
}
