package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/erp/lobapi/internal/domain/messaging"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Inbound hub methods
const (
	MethodSendMessageToConversation   = "SendMessageToConversation"
	MethodSendTypingIndicator         = "SendTypingIndicator"
	MethodSendMessageReadNotification = "SendMessageReadNotification"
)

// Outbound client events
const (
	ClientEventReceiveMessage = "ReceiveMessage"
	ClientEventUserTyping     = "UserTyping"
	ClientEventMessageRead    = "MessageRead"
	ClientEventError          = "Error"
)

// InboundFrame is a client call: {"method": "...", "args": {...}}
type InboundFrame struct {
	Method string          `json:"method"`
	Args   json.RawMessage `json:"args"`
}

// OutboundFrame is a server push: {"event": "...", "data": {...}}
type OutboundFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type sendMessageArgs struct {
	ConversationID uuid.UUID  `json:"conversationId"`
	Content        string     `json:"content"`
	ReplyToID      *uuid.UUID `json:"replyToId"`
}

type typingArgs struct {
	ConversationID uuid.UUID `json:"conversationId"`
	IsTyping       bool      `json:"isTyping"`
}

type readArgs struct {
	ConversationID uuid.UUID `json:"conversationId"`
	MessageID      uuid.UUID `json:"messageId"`
}

// ReceiveMessagePayload is pushed to participants for every new message
type ReceiveMessagePayload struct {
	ID             uuid.UUID  `json:"id"`
	ConversationID uuid.UUID  `json:"conversationId"`
	SenderID       uuid.UUID  `json:"senderId"`
	Content        string     `json:"content"`
	MessageType    string     `json:"messageType"`
	AttachmentName string     `json:"attachmentName,omitempty"`
	ReplyToID      *uuid.UUID `json:"replyToId,omitempty"`
	SentAt         time.Time  `json:"sentAt"`
}

// UserTypingPayload is pushed to the other participants while a user types
type UserTypingPayload struct {
	ConversationID uuid.UUID `json:"conversationId"`
	UserID         uuid.UUID `json:"userId"`
	IsTyping       bool      `json:"isTyping"`
}

// MessageReadPayload is pushed when a participant's read pointer moves
type MessageReadPayload struct {
	ConversationID uuid.UUID `json:"conversationId"`
	MessageID      uuid.UUID `json:"messageId"`
	UserID         uuid.UUID `json:"userId"`
	ReadAt         time.Time `json:"readAt"`
}

// ErrorPayload reports a failed client call
type ErrorPayload struct {
	Method  string `json:"method,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Connection is one live client socket
type Connection interface {
	ID() string
	TenantID() uuid.UUID
	UserID() uuid.UUID
	// Send queues a frame without blocking; false means the frame was dropped
	Send(frame OutboundFrame) bool
}

// ConnectionTracker maps users to their open connection ids, possibly across instances
type ConnectionTracker interface {
	AddConnection(ctx context.Context, tenantID, userID uuid.UUID, connectionID string) error
	RemoveConnection(ctx context.Context, tenantID, userID uuid.UUID, connectionID string) error
	GetConnections(ctx context.Context, tenantID, userID uuid.UUID) ([]string, error)
	IsOnline(ctx context.Context, tenantID, userID uuid.UUID) (bool, error)
}

// Hub routes client calls to the message service and fans events out to
// connected participants. Delivery is best effort and ordered per connection only.
type Hub struct {
	conversationRepo messaging.ConversationRepository
	messages         *MessageService
	tracker          ConnectionTracker
	logger           *zap.Logger

	mu    sync.RWMutex
	conns map[string]Connection
}

// NewHub creates a new Hub
func NewHub(conversationRepo messaging.ConversationRepository, messages *MessageService, tracker ConnectionTracker, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		conversationRepo: conversationRepo,
		messages:         messages,
		tracker:          tracker,
		logger:           logger,
		conns:            make(map[string]Connection),
	}
}

// Register makes conn reachable for fan-out
func (h *Hub) Register(ctx context.Context, conn Connection) error {
	if err := h.tracker.AddConnection(ctx, conn.TenantID(), conn.UserID(), conn.ID()); err != nil {
		return err
	}
	h.mu.Lock()
	h.conns[conn.ID()] = conn
	h.mu.Unlock()

	h.logger.Debug("hub connection registered",
		zap.String("connection_id", conn.ID()),
		zap.String("user_id", conn.UserID().String()),
	)
	return nil
}

// Touch re-announces a live connection so tracker entries outlive their TTL
func (h *Hub) Touch(ctx context.Context, conn Connection) error {
	return h.tracker.AddConnection(ctx, conn.TenantID(), conn.UserID(), conn.ID())
}

// Unregister forgets conn
func (h *Hub) Unregister(ctx context.Context, conn Connection) {
	h.mu.Lock()
	delete(h.conns, conn.ID())
	h.mu.Unlock()

	if err := h.tracker.RemoveConnection(ctx, conn.TenantID(), conn.UserID(), conn.ID()); err != nil {
		h.logger.Warn("failed to remove hub connection",
			zap.String("connection_id", conn.ID()),
			zap.Error(err),
		)
	}
}

// ConnectionCount returns the number of connections local to this instance
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// HandleFrame dispatches one inbound frame. Failures are reported to the
// caller's connection as Error events.
func (h *Hub) HandleFrame(ctx context.Context, conn Connection, raw []byte) {
	var frame InboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		h.sendError(conn, "", shared.NewDomainError("INVALID_FRAME", "Frame must be a JSON object with method and args"))
		return
	}

	var err error
	switch frame.Method {
	case MethodSendMessageToConversation:
		var args sendMessageArgs
		if err = decodeArgs(frame.Args, &args); err == nil {
			_, err = h.messages.Send(ctx, conn.TenantID(), conn.UserID(), args.ConversationID, SendMessageRequest{
				Content:   args.Content,
				ReplyToID: args.ReplyToID,
			})
		}
	case MethodSendTypingIndicator:
		var args typingArgs
		if err = decodeArgs(frame.Args, &args); err == nil {
			err = h.typing(ctx, conn, args)
		}
	case MethodSendMessageReadNotification:
		var args readArgs
		if err = decodeArgs(frame.Args, &args); err == nil {
			_, err = h.messages.MarkRead(ctx, conn.TenantID(), conn.UserID(), args.ConversationID, MarkReadRequest{MessageID: args.MessageID})
		}
	default:
		err = shared.NewDomainError("UNKNOWN_METHOD", "Unknown hub method: "+frame.Method)
	}

	if err != nil {
		h.sendError(conn, frame.Method, err)
	}
}

func (h *Hub) typing(ctx context.Context, conn Connection, args typingArgs) error {
	c, err := h.conversationRepo.FindByIDForTenant(ctx, conn.TenantID(), args.ConversationID)
	if err != nil {
		return err
	}
	if err := c.EnsureParticipant(conn.UserID()); err != nil {
		return err
	}
	sender := conn.UserID()
	h.Deliver(ctx, c.TenantID, c.ParticipantIDs(), &sender, OutboundFrame{
		Event: ClientEventUserTyping,
		Data:  UserTypingPayload{ConversationID: c.ID, UserID: sender, IsTyping: args.IsTyping},
	})
	return nil
}

// Deliver pushes frame to every local connection of userIDs, skipping except when set
func (h *Hub) Deliver(ctx context.Context, tenantID uuid.UUID, userIDs []uuid.UUID, except *uuid.UUID, frame OutboundFrame) {
	for _, userID := range userIDs {
		if except != nil && userID == *except {
			continue
		}
		connIDs, err := h.tracker.GetConnections(ctx, tenantID, userID)
		if err != nil {
			h.logger.Warn("failed to resolve connections",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
			continue
		}
		for _, id := range connIDs {
			h.mu.RLock()
			conn, ok := h.conns[id]
			h.mu.RUnlock()
			if !ok {
				continue
			}
			if !conn.Send(frame) {
				h.logger.Warn("dropped hub frame for slow connection",
					zap.String("connection_id", id),
					zap.String("event", frame.Event),
				)
			}
		}
	}
}

// Handle implements shared.EventHandler for message events published on the bus
func (h *Hub) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *messaging.MessageSentEvent:
		c, err := h.conversationRepo.FindByIDForTenant(ctx, e.TenantID(), e.ConversationID)
		if err != nil {
			return err
		}
		h.Deliver(ctx, c.TenantID, c.ParticipantIDs(), nil, OutboundFrame{
			Event: ClientEventReceiveMessage,
			Data: ReceiveMessagePayload{
				ID:             e.MessageID,
				ConversationID: e.ConversationID,
				SenderID:       e.SenderID,
				Content:        e.Content,
				MessageType:    string(e.MessageType),
				AttachmentName: e.AttachmentName,
				ReplyToID:      e.ReplyToID,
				SentAt:         e.SentAt,
			},
		})
	case *messaging.MessageReadEvent:
		c, err := h.conversationRepo.FindByIDForTenant(ctx, e.TenantID(), e.ConversationID)
		if err != nil {
			return err
		}
		reader := e.UserID
		h.Deliver(ctx, c.TenantID, c.ParticipantIDs(), &reader, OutboundFrame{
			Event: ClientEventMessageRead,
			Data: MessageReadPayload{
				ConversationID: e.ConversationID,
				MessageID:      e.MessageID,
				UserID:         e.UserID,
				ReadAt:         e.ReadAt,
			},
		})
	}
	return nil
}

// EventTypes returns the event types the hub fans out
func (h *Hub) EventTypes() []string {
	return []string{messaging.EventTypeMessageSent, messaging.EventTypeMessageRead}
}

func (h *Hub) sendError(conn Connection, method string, err error) {
	payload := ErrorPayload{Method: method, Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		payload.Code = domainErr.Code
		payload.Message = domainErr.Message
	} else {
		h.logger.Error("hub call failed",
			zap.String("method", method),
			zap.String("connection_id", conn.ID()),
			zap.Error(err),
		)
	}
	conn.Send(OutboundFrame{Event: ClientEventError, Data: payload})
}

func decodeArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return shared.NewDomainError("INVALID_FRAME", "Frame args are required")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return shared.NewDomainError("INVALID_FRAME", "Frame args are malformed")
	}
	return nil
}
