package messaging

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/erp/lobapi/internal/domain/messaging"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type messageFixture struct {
	ctx          context.Context
	tenantID     uuid.UUID
	admin        uuid.UUID
	member       uuid.UUID
	conversation *messaging.Conversation
	convRepo     *MockConversationRepository
	msgRepo      *MockMessageRepository
	storage      *MockObjectStorage
	publisher    *MockEventPublisher
	svc          *MessageService
}

func newMessageFixture(t *testing.T) *messageFixture {
	t.Helper()
	f := &messageFixture{
		ctx:       context.Background(),
		tenantID:  uuid.New(),
		admin:     uuid.New(),
		member:    uuid.New(),
		convRepo:  new(MockConversationRepository),
		msgRepo:   new(MockMessageRepository),
		storage:   new(MockObjectStorage),
		publisher: new(MockEventPublisher),
	}
	f.conversation = newTestGroup(t, f.tenantID, f.admin, f.member)
	f.svc = NewMessageService(f.convRepo, f.msgRepo, f.storage, nil)
	f.svc.SetEventPublisher(f.publisher)
	f.convRepo.On("FindByIDForTenant", f.ctx, f.tenantID, f.conversation.ID).Return(f.conversation, nil)
	return f
}

func (f *messageFixture) existingMessage(t *testing.T, sender uuid.UUID, content string) *messaging.Message {
	t.Helper()
	m, err := messaging.NewMessage(f.tenantID, f.conversation.ID, sender, content, nil, nil)
	require.NoError(t, err)
	m.ClearDomainEvents()
	f.msgRepo.On("FindByIDForTenant", f.ctx, f.tenantID, m.ID).Return(m, nil)
	return m
}

func TestMessageService_Send(t *testing.T) {
	f := newMessageFixture(t)

	f.msgRepo.On("Save", f.ctx, mock.AnythingOfType("*messaging.Message")).Return(nil)
	f.convRepo.On("RecordActivity", f.ctx, f.tenantID, f.conversation.ID, mock.Anything).Return(nil)
	f.publisher.On("Publish", f.ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		return len(events) == 1 && events[0].EventType() == messaging.EventTypeMessageSent
	})).Return(nil)

	resp, err := f.svc.Send(f.ctx, f.tenantID, f.member, f.conversation.ID, SendMessageRequest{Content: "  Stock count done  "})
	require.NoError(t, err)
	assert.Equal(t, "Stock count done", resp.Content)
	assert.Equal(t, "Text", resp.MessageType)
	assert.Equal(t, f.member, resp.SenderID)
	f.convRepo.AssertCalled(t, "RecordActivity", f.ctx, f.tenantID, f.conversation.ID, mock.Anything)
	f.publisher.AssertExpectations(t)
}

func TestMessageService_Send_Rejections(t *testing.T) {
	f := newMessageFixture(t)

	_, err := f.svc.Send(f.ctx, f.tenantID, uuid.New(), f.conversation.ID, SendMessageRequest{Content: "hi"})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	_, err = f.svc.Send(f.ctx, f.tenantID, f.member, f.conversation.ID, SendMessageRequest{Content: "   "})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CONTENT", domainErr.Code)

	foreign, err := messaging.NewMessage(f.tenantID, uuid.New(), f.member, "elsewhere", nil, nil)
	require.NoError(t, err)
	f.msgRepo.On("FindByIDForTenant", f.ctx, f.tenantID, foreign.ID).Return(foreign, nil)
	_, err = f.svc.Send(f.ctx, f.tenantID, f.member, f.conversation.ID, SendMessageRequest{Content: "re", ReplyToID: &foreign.ID})
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_REPLY", domainErr.Code)

	f.conversation.IsArchived = true
	_, err = f.svc.Send(f.ctx, f.tenantID, f.member, f.conversation.ID, SendMessageRequest{Content: "hi"})
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	f.msgRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestMessageService_Send_WithAttachment(t *testing.T) {
	f := newMessageFixture(t)
	key := AttachmentKey(f.tenantID, f.conversation.ID, uuid.New(), "invoice.pdf")

	f.storage.On("ObjectExists", f.ctx, key).Return(true, nil)
	f.msgRepo.On("Save", f.ctx, mock.Anything).Return(nil)
	f.convRepo.On("RecordActivity", f.ctx, f.tenantID, f.conversation.ID, mock.Anything).Return(nil)
	f.publisher.On("Publish", f.ctx, mock.Anything).Return(nil)

	resp, err := f.svc.Send(f.ctx, f.tenantID, f.admin, f.conversation.ID, SendMessageRequest{
		Attachment: &AttachmentRequest{Key: key, ContentType: "application/pdf"},
	})
	require.NoError(t, err)
	assert.Equal(t, "File", resp.MessageType)
	assert.Equal(t, "invoice.pdf", resp.AttachmentName)

	otherKey := AttachmentKey(f.tenantID, uuid.New(), uuid.New(), "x.pdf")
	_, err = f.svc.Send(f.ctx, f.tenantID, f.admin, f.conversation.ID, SendMessageRequest{
		Attachment: &AttachmentRequest{Key: otherKey},
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_ATTACHMENT", domainErr.Code)

	missing := AttachmentKey(f.tenantID, f.conversation.ID, uuid.New(), "late.pdf")
	f.storage.On("ObjectExists", f.ctx, missing).Return(false, nil)
	_, err = f.svc.Send(f.ctx, f.tenantID, f.admin, f.conversation.ID, SendMessageRequest{
		Attachment: &AttachmentRequest{Key: missing},
	})
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_ATTACHMENT", domainErr.Code)
}

func TestMessageService_EditAndDelete(t *testing.T) {
	f := newMessageFixture(t)
	m := f.existingMessage(t, f.member, "draft")
	f.msgRepo.On("Save", f.ctx, m).Return(nil)
	f.publisher.On("Publish", f.ctx, mock.Anything).Return(nil)

	_, err := f.svc.Edit(f.ctx, f.tenantID, f.admin, m.ID, EditMessageRequest{Content: "hijack"})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	resp, err := f.svc.Edit(f.ctx, f.tenantID, f.member, m.ID, EditMessageRequest{Content: "final"})
	require.NoError(t, err)
	assert.True(t, resp.IsEdited)
	assert.Equal(t, "final", resp.Content)

	_, err = f.svc.Edit(f.ctx, f.tenantID, f.member, m.ID, EditMessageRequest{Content: "final"})
	require.NoError(t, err)
	f.msgRepo.AssertNumberOfCalls(t, "Save", 1)

	require.NoError(t, f.svc.Delete(f.ctx, f.tenantID, f.member, m.ID))
	assert.True(t, m.IsDeleted)
	assert.Empty(t, m.Content)

	assert.ErrorIs(t, f.svc.Delete(f.ctx, f.tenantID, f.member, m.ID), shared.ErrInvalidState)
}

func TestMessageService_DeleteRemovesAttachmentObject(t *testing.T) {
	f := newMessageFixture(t)
	key := AttachmentKey(f.tenantID, f.conversation.ID, uuid.New(), "invoice.pdf")
	m, err := messaging.NewMessage(f.tenantID, f.conversation.ID, f.member, "", &messaging.Attachment{Key: key, Name: "invoice.pdf"}, nil)
	require.NoError(t, err)
	m.ClearDomainEvents()
	f.msgRepo.On("FindByIDForTenant", f.ctx, f.tenantID, m.ID).Return(m, nil)
	f.msgRepo.On("Save", f.ctx, m).Return(nil)
	f.publisher.On("Publish", f.ctx, mock.Anything).Return(nil)
	f.storage.On("DeleteObject", f.ctx, key).Return(errors.New("bucket unavailable"))

	require.NoError(t, f.svc.Delete(f.ctx, f.tenantID, f.member, m.ID))
	f.storage.AssertCalled(t, "DeleteObject", f.ctx, key)
}

func TestMessageService_MarkRead(t *testing.T) {
	f := newMessageFixture(t)
	m := f.existingMessage(t, f.admin, "please confirm")
	readAt := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return readAt }

	f.convRepo.On("Save", f.ctx, f.conversation).Return(nil)
	f.publisher.On("Publish", f.ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		if len(events) != 1 {
			return false
		}
		e, ok := events[0].(*messaging.MessageReadEvent)
		return ok && e.UserID == f.member && e.MessageID == m.ID && e.ReadAt.Equal(readAt)
	})).Return(nil)

	resp, err := f.svc.MarkRead(f.ctx, f.tenantID, f.member, f.conversation.ID, MarkReadRequest{MessageID: m.ID})
	require.NoError(t, err)
	for _, p := range resp.Participants {
		if p.UserID == f.member {
			require.NotNil(t, p.LastReadMessageID)
			assert.Equal(t, m.ID, *p.LastReadMessageID)
		}
	}
	f.publisher.AssertExpectations(t)
}

func TestMessageService_MarkRead_OtherConversation(t *testing.T) {
	f := newMessageFixture(t)
	foreign, err := messaging.NewMessage(f.tenantID, uuid.New(), f.admin, "elsewhere", nil, nil)
	require.NoError(t, err)
	f.msgRepo.On("FindByIDForTenant", f.ctx, f.tenantID, foreign.ID).Return(foreign, nil)

	_, err = f.svc.MarkRead(f.ctx, f.tenantID, f.member, f.conversation.ID, MarkReadRequest{MessageID: foreign.ID})
	assert.ErrorIs(t, err, shared.ErrNotFound)
	f.convRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestMessageService_List(t *testing.T) {
	f := newMessageFixture(t)
	before := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	m := f.existingMessage(t, f.admin, "older")

	f.msgRepo.On("FindByConversation", f.ctx, f.tenantID, f.conversation.ID, &before, mock.Anything).Return([]messaging.Message{*m}, nil)
	f.msgRepo.On("CountByConversation", f.ctx, f.tenantID, f.conversation.ID, &before).Return(int64(41), nil)

	page, err := f.svc.List(f.ctx, f.tenantID, f.member, f.conversation.ID, ListMessagesRequest{Before: &before})
	require.NoError(t, err)
	assert.Equal(t, int64(41), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "older", page.Items[0].Content)

	_, err = f.svc.List(f.ctx, f.tenantID, uuid.New(), f.conversation.ID, ListMessagesRequest{})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestMessageService_RequestAttachmentUpload(t *testing.T) {
	f := newMessageFixture(t)
	expires := time.Now().Add(15 * time.Minute)

	f.storage.On("GenerateUploadURL", f.ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "messaging/"+f.tenantID.String()+"/"+f.conversation.ID.String()+"/") &&
			strings.HasSuffix(key, "/Q3_report__final_.pdf")
	}), "application/pdf", 15*time.Minute).Return("https://s3.local/put", expires, nil)

	resp, err := f.svc.RequestAttachmentUpload(f.ctx, f.tenantID, f.member, f.conversation.ID, AttachmentUploadRequest{
		FileName:    "../Q3 report (final).pdf",
		ContentType: "application/pdf",
		FileSize:    2048,
	})
	require.NoError(t, err)
	assert.Equal(t, "PUT", resp.Method)
	assert.Equal(t, "https://s3.local/put", resp.UploadURL)

	var domainErr *shared.DomainError
	_, err = f.svc.RequestAttachmentUpload(f.ctx, f.tenantID, f.member, f.conversation.ID, AttachmentUploadRequest{
		FileName: "logo.svg", ContentType: "image/svg+xml", FileSize: 10,
	})
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CONTENT_TYPE", domainErr.Code)

	_, err = f.svc.RequestAttachmentUpload(f.ctx, f.tenantID, f.member, f.conversation.ID, AttachmentUploadRequest{
		FileName: "huge.zip", ContentType: "application/zip", FileSize: 26 << 20,
	})
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_FILE_SIZE", domainErr.Code)
}

func TestMessageService_AttachmentDownloadURL(t *testing.T) {
	f := newMessageFixture(t)
	key := AttachmentKey(f.tenantID, f.conversation.ID, uuid.New(), "photo.png")
	m, err := messaging.NewMessage(f.tenantID, f.conversation.ID, f.admin, "", &messaging.Attachment{Key: key, Name: "photo.png", ContentType: "image/png"}, nil)
	require.NoError(t, err)
	f.msgRepo.On("FindByIDForTenant", f.ctx, f.tenantID, m.ID).Return(m, nil)
	f.storage.On("GenerateDownloadURL", f.ctx, key, time.Hour).Return("https://s3.local/get", time.Now().Add(time.Hour), nil)

	resp, err := f.svc.AttachmentDownloadURL(f.ctx, f.tenantID, f.member, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://s3.local/get", resp.URL)
	assert.Equal(t, "photo.png", resp.FileName)

	_, err = f.svc.AttachmentDownloadURL(f.ctx, f.tenantID, uuid.New(), m.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	text := f.existingMessage(t, f.admin, "no file")
	_, err = f.svc.AttachmentDownloadURL(f.ctx, f.tenantID, f.member, text.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestMessageService_AttachmentsDisabledWithoutStorage(t *testing.T) {
	svc := NewMessageService(new(MockConversationRepository), new(MockMessageRepository), nil, nil)

	_, err := svc.RequestAttachmentUpload(context.Background(), uuid.New(), uuid.New(), uuid.New(), AttachmentUploadRequest{})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestMessageService_UploadURLFailure(t *testing.T) {
	f := newMessageFixture(t)
	f.storage.On("GenerateUploadURL", f.ctx, mock.Anything, "text/plain", mock.Anything).
		Return("", time.Time{}, errors.New("signing failed"))

	_, err := f.svc.RequestAttachmentUpload(f.ctx, f.tenantID, f.member, f.conversation.ID, AttachmentUploadRequest{
		FileName: "notes.txt", ContentType: "text/plain", FileSize: 12,
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UPLOAD_URL_FAILED", domainErr.Code)
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "report.pdf", sanitizeFileName("report.pdf"))
	assert.Equal(t, "passwd", sanitizeFileName("../../etc/passwd"))
	assert.Equal(t, "evil.exe", sanitizeFileName(`C:\temp\evil.exe`))
	assert.Equal(t, "r_sum_.doc", sanitizeFileName("résumé.doc"))
	assert.Equal(t, "file", sanitizeFileName(""))
}
