package messaging

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type trackerKey struct {
	tenantID uuid.UUID
	userID   uuid.UUID
}

// MemoryConnectionTracker tracks connections of a single instance
type MemoryConnectionTracker struct {
	mu    sync.RWMutex
	conns map[trackerKey]map[string]struct{}
}

// NewMemoryConnectionTracker creates an empty tracker
func NewMemoryConnectionTracker() *MemoryConnectionTracker {
	return &MemoryConnectionTracker{conns: make(map[trackerKey]map[string]struct{})}
}

func (t *MemoryConnectionTracker) AddConnection(_ context.Context, tenantID, userID uuid.UUID, connectionID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := trackerKey{tenantID, userID}
	if t.conns[key] == nil {
		t.conns[key] = make(map[string]struct{})
	}
	t.conns[key][connectionID] = struct{}{}
	return nil
}

func (t *MemoryConnectionTracker) RemoveConnection(_ context.Context, tenantID, userID uuid.UUID, connectionID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := trackerKey{tenantID, userID}
	delete(t.conns[key], connectionID)
	if len(t.conns[key]) == 0 {
		delete(t.conns, key)
	}
	return nil
}

func (t *MemoryConnectionTracker) GetConnections(_ context.Context, tenantID, userID uuid.UUID) ([]string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	set := t.conns[trackerKey{tenantID, userID}]
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (t *MemoryConnectionTracker) IsOnline(_ context.Context, tenantID, userID uuid.UUID) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.conns[trackerKey{tenantID, userID}]) > 0, nil
}
