package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	err := NewNotFoundError("Warehouse", "42")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrAlreadyExists))
	assert.Equal(t, "Warehouse with id 42 not found", err.Error())

	wrapped := fmt.Errorf("load: %w", NewInvalidStateError("closed"))
	assert.True(t, errors.Is(wrapped, ErrInvalidState))

	var domainErr *DomainError
	assert.True(t, errors.As(wrapped, &domainErr))
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}
