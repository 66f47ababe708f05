package shared

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAggregate struct {
	TenantAggregateRoot
}

type capturePublisher struct {
	got []DomainEvent
	err error
}

func (p *capturePublisher) Publish(_ context.Context, events ...DomainEvent) error {
	p.got = append(p.got, events...)
	return p.err
}

func TestTenantAggregateRoot_New(t *testing.T) {
	tenant, user := uuid.New(), uuid.New()

	root := NewTenantAggregateRoot(tenant)
	assert.NotEqual(t, uuid.Nil, root.ID)
	assert.Equal(t, 1, root.Version)
	assert.Equal(t, root.CreatedAt, root.UpdatedAt)
	assert.Nil(t, root.CreatedBy)

	withCreator := NewTenantAggregateRootWithCreator(tenant, user)
	require.NotNil(t, withCreator.CreatedBy)
	assert.Equal(t, user, *withCreator.CreatedBy)
	assert.NotEqual(t, root.ID, withCreator.ID)
}

func TestBaseAggregateRoot_Touch(t *testing.T) {
	a := &fakeAggregate{NewTenantAggregateRoot(uuid.New())}
	a.UpdatedAt = time.Now().Add(-time.Hour)
	before := a.UpdatedAt

	a.Touch()
	a.Touch()

	assert.Equal(t, 3, a.Version)
	assert.True(t, a.UpdatedAt.After(before))
}

func TestPublishEvents(t *testing.T) {
	ctx := context.Background()
	a := &fakeAggregate{NewTenantAggregateRoot(uuid.New())}
	e1 := NewBaseDomainEvent("WarehouseCreated", "Warehouse", a.ID, a.TenantID)
	e2 := NewBaseDomainEvent("WarehouseSetAsMain", "Warehouse", a.ID, a.TenantID)
	a.AddDomainEvent(&e1)
	a.AddDomainEvent(&e2)

	pub := &capturePublisher{}
	require.NoError(t, PublishEvents(ctx, pub, a))
	require.Len(t, pub.got, 2)
	assert.Equal(t, "WarehouseCreated", pub.got[0].EventType())
	assert.Equal(t, a.ID, pub.got[1].AggregateID())
	assert.Equal(t, "Warehouse", pub.got[1].AggregateType())
	assert.Empty(t, a.GetDomainEvents())

	// nothing pending, nothing published
	require.NoError(t, PublishEvents(ctx, pub, a))
	assert.Len(t, pub.got, 2)
}

func TestPublishEvents_DrainsOnFailureAndNilPublisher(t *testing.T) {
	ctx := context.Background()
	a := &fakeAggregate{NewTenantAggregateRoot(uuid.New())}

	e := NewBaseDomainEvent("BillPosted", "Bill", a.ID, a.TenantID)
	a.AddDomainEvent(&e)
	assert.NoError(t, PublishEvents(ctx, nil, a))
	assert.Empty(t, a.GetDomainEvents())

	a.AddDomainEvent(&e)
	boom := errors.New("bus stopped")
	assert.ErrorIs(t, PublishEvents(ctx, &capturePublisher{err: boom}, a), boom)
	assert.Empty(t, a.GetDomainEvents())
}
