package messaging

import (
	"context"
	"sync"
	"time"

	"github.com/erp/lobapi/internal/domain/messaging"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockConversationRepository is a mock implementation of messaging.ConversationRepository
type MockConversationRepository struct {
	mock.Mock
}

func (m *MockConversationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*messaging.Conversation, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messaging.Conversation), args.Error(1)
}

func (m *MockConversationRepository) FindForParticipant(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) ([]messaging.Conversation, error) {
	args := m.Called(ctx, tenantID, userID, filter)
	return args.Get(0).([]messaging.Conversation), args.Error(1)
}

func (m *MockConversationRepository) CountForParticipant(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, userID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockConversationRepository) FindDirectBetween(ctx context.Context, tenantID, userA, userB uuid.UUID) (*messaging.Conversation, error) {
	args := m.Called(ctx, tenantID, userA, userB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messaging.Conversation), args.Error(1)
}

func (m *MockConversationRepository) Save(ctx context.Context, c *messaging.Conversation) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockConversationRepository) RecordActivity(ctx context.Context, tenantID, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, tenantID, id, at).Error(0)
}

// MockMessageRepository is a mock implementation of messaging.MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*messaging.Message, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messaging.Message), args.Error(1)
}

func (m *MockMessageRepository) FindByConversation(ctx context.Context, tenantID, conversationID uuid.UUID, before *time.Time, filter shared.Filter) ([]messaging.Message, error) {
	args := m.Called(ctx, tenantID, conversationID, before, filter)
	return args.Get(0).([]messaging.Message), args.Error(1)
}

func (m *MockMessageRepository) CountByConversation(ctx context.Context, tenantID, conversationID uuid.UUID, before *time.Time) (int64, error) {
	args := m.Called(ctx, tenantID, conversationID, before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageRepository) Save(ctx context.Context, msg *messaging.Message) error {
	return m.Called(ctx, msg).Error(0)
}

// MockObjectStorage is a mock implementation of ObjectStorageService
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	return m.Called(ctx, storageKey).Error(0)
}

func (m *MockObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// fakeConnection buffers frames like a socket writer with a bounded queue
type fakeConnection struct {
	id       string
	tenantID uuid.UUID
	userID   uuid.UUID
	capacity int

	mu     sync.Mutex
	frames []OutboundFrame
}

func newFakeConnection(tenantID, userID uuid.UUID, capacity int) *fakeConnection {
	return &fakeConnection{id: uuid.NewString(), tenantID: tenantID, userID: userID, capacity: capacity}
}

func (c *fakeConnection) ID() string          { return c.id }
func (c *fakeConnection) TenantID() uuid.UUID { return c.tenantID }
func (c *fakeConnection) UserID() uuid.UUID   { return c.userID }

func (c *fakeConnection) Send(frame OutboundFrame) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.frames) >= c.capacity {
		return false
	}
	c.frames = append(c.frames, frame)
	return true
}

func (c *fakeConnection) Frames() []OutboundFrame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]OutboundFrame(nil), c.frames...)
}
