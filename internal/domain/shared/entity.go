package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is anything addressed by a UUID
type Entity interface {
	GetID() uuid.UUID
}

// BaseEntity holds the identity and audit timestamps every table row carries
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// NewBaseEntity assigns a random id; both timestamps start at now
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}
