package handler

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	msgapp "github.com/erp/lobapi/internal/application/messaging"
	"github.com/erp/lobapi/internal/infrastructure/config"
	"github.com/erp/lobapi/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// HubMetrics tracks open hub connections
type HubMetrics interface {
	HubConnectionOpened(ctx context.Context)
	HubConnectionClosed(ctx context.Context)
}

// HubHandler upgrades /messaging/hub to a websocket and pumps frames
// between the socket and the messaging hub
type HubHandler struct {
	BaseHandler
	hub      *msgapp.Hub
	cfg      config.MessagingConfig
	upgrader websocket.Upgrader
	metrics  HubMetrics
}

// NewHubHandler creates a new HubHandler; metrics may be nil
func NewHubHandler(hub *msgapp.Hub, cfg config.MessagingConfig, metrics HubMetrics) *HubHandler {
	h := &HubHandler{hub: hub, cfg: cfg, metrics: metrics}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin accepts configured origins, or the request host when none are configured
func (h *HubHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if len(h.cfg.AllowedOrigins) > 0 {
		return slices.Contains(h.cfg.AllowedOrigins, "*") ||
			slices.ContainsFunc(h.cfg.AllowedOrigins, func(o string) bool { return strings.EqualFold(o, origin) })
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// Connect godoc
// @ID           connectMessagingHub
// @Summary      Open the realtime messaging socket
// @Description  Browsers pass the token as ?access_token=. Client frames are {"method","args"}; server frames are {"event","data"}.
// @Tags         messaging
// @Param        access_token query string false "Access token"
// @Success      101
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /messaging/hub [get]
func (h *HubHandler) Connect(c *gin.Context) {
	userID, ok := h.actor(c)
	if !ok {
		return
	}
	tenantID := getTenantID(c)
	log := logger.GetGinLogger(c)

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	// Keep request-scoped values but not the request cancellation
	ctx, cancel := context.WithCancel(context.WithoutCancel(c.Request.Context()))
	defer cancel()

	conn := newWSConnection(ws, tenantID, userID, h.cfg.HubSendBuffer)
	if err := h.hub.Register(ctx, conn); err != nil {
		log.Error("failed to register hub connection", zap.Error(err))
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "registration failed"),
			time.Now().Add(h.cfg.HubWriteTimeout))
		_ = ws.Close()
		return
	}
	if h.metrics != nil {
		h.metrics.HubConnectionOpened(ctx)
	}
	log.Info("hub connection opened", zap.String("connection_id", conn.ID()))

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		h.writePump(conn, log)
	}()
	h.readPump(ctx, conn, log)

	conn.close()
	<-writerDone
	h.hub.Unregister(ctx, conn)
	if h.metrics != nil {
		h.metrics.HubConnectionClosed(ctx)
	}
	log.Info("hub connection closed", zap.String("connection_id", conn.ID()))
}

func (h *HubHandler) readPump(ctx context.Context, conn *wsConnection, log *zap.Logger) {
	ws := conn.ws
	ws.SetReadLimit(h.cfg.HubMaxFrameSize)
	_ = ws.SetReadDeadline(time.Now().Add(h.cfg.HubPongTimeout))
	ws.SetPongHandler(func(string) error {
		if err := h.hub.Touch(ctx, conn); err != nil {
			log.Warn("failed to refresh hub connection", zap.Error(err))
		}
		return ws.SetReadDeadline(time.Now().Add(h.cfg.HubPongTimeout))
	})

	for {
		msgType, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("hub read failed", zap.String("connection_id", conn.ID()), zap.Error(err))
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		h.hub.HandleFrame(ctx, conn, data)
	}
}

// writePump owns all data writes to the socket
func (h *HubHandler) writePump(conn *wsConnection, log *zap.Logger) {
	ws := conn.ws
	ticker := time.NewTicker(h.cfg.HubPingInterval)
	defer func() {
		ticker.Stop()
		_ = ws.Close()
	}()

	for {
		select {
		case <-conn.done:
			_ = ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(h.cfg.HubWriteTimeout))
			return
		case frame := <-conn.send:
			_ = ws.SetWriteDeadline(time.Now().Add(h.cfg.HubWriteTimeout))
			if err := ws.WriteJSON(frame); err != nil {
				log.Debug("hub write failed", zap.String("connection_id", conn.ID()), zap.Error(err))
				conn.close()
				return
			}
		case <-ticker.C:
			_ = ws.SetWriteDeadline(time.Now().Add(h.cfg.HubWriteTimeout))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.close()
				return
			}
		}
	}
}

// wsConnection adapts a websocket to msgapp.Connection
type wsConnection struct {
	id       string
	tenantID uuid.UUID
	userID   uuid.UUID
	ws       *websocket.Conn
	send     chan msgapp.OutboundFrame
	done     chan struct{}
	once     sync.Once
}

func newWSConnection(ws *websocket.Conn, tenantID, userID uuid.UUID, buffer int) *wsConnection {
	return &wsConnection{
		id:       uuid.NewString(),
		tenantID: tenantID,
		userID:   userID,
		ws:       ws,
		send:     make(chan msgapp.OutboundFrame, buffer),
		done:     make(chan struct{}),
	}
}

func (c *wsConnection) ID() string          { return c.id }
func (c *wsConnection) TenantID() uuid.UUID { return c.tenantID }
func (c *wsConnection) UserID() uuid.UUID   { return c.userID }

// Send queues frame unless the buffer is full or the connection is closing
func (c *wsConnection) Send(frame msgapp.OutboundFrame) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *wsConnection) close() {
	c.once.Do(func() { close(c.done) })
}

var _ msgapp.Connection = (*wsConnection)(nil)
