package storage

import (
	"context"
	"net/url"
	"sync"
	"time"

	messagingapp "github.com/erp/lobapi/internal/application/messaging"
)

var _ messagingapp.ObjectStorageService = (*MemoryObjectStorage)(nil)

// MemoryObjectStorage is the development backend used when no bucket is configured.
// A key counts as uploaded once an upload URL has been issued for it.
type MemoryObjectStorage struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]string
	now     func() time.Time
}

// NewMemoryObjectStorage creates a MemoryObjectStorage serving URLs under baseURL
func NewMemoryObjectStorage(baseURL string) *MemoryObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost:9000/attachments"
	}
	return &MemoryObjectStorage{
		BaseURL: baseURL,
		objects: make(map[string]string),
		now:     time.Now,
	}
}

func (s *MemoryObjectStorage) GenerateUploadURL(_ context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, ErrEmptyKey
	}
	s.mu.Lock()
	s.objects[storageKey] = contentType
	s.mu.Unlock()
	return s.url("upload", storageKey, expiresIn)
}

func (s *MemoryObjectStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, ErrEmptyKey
	}
	return s.url("download", storageKey, expiresIn)
}

func (s *MemoryObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return ErrEmptyKey
	}
	s.mu.Lock()
	delete(s.objects, storageKey)
	s.mu.Unlock()
	return nil
}

func (s *MemoryObjectStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, ErrEmptyKey
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[storageKey]
	return ok, nil
}

func (s *MemoryObjectStorage) url(action, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if expiresIn <= 0 {
		expiresIn = defaultPresign
	}
	expiresAt := s.now().Add(expiresIn)
	q := url.Values{"expires": {expiresAt.UTC().Format(time.RFC3339)}}
	return s.BaseURL + "/" + action + "/" + storageKey + "?" + q.Encode(), expiresAt, nil
}
