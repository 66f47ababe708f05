package handler

import (
	msgapp "github.com/erp/lobapi/internal/application/messaging"
	"github.com/gin-gonic/gin"
)

// ConversationHandler serves /messaging/conversations. Every call acts as the
// authenticated user, who must be a participant of the conversation.
type ConversationHandler struct {
	BaseHandler
	service *msgapp.ConversationService
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(service *msgapp.ConversationService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

// Create godoc
// @ID           createConversation
// @Summary      Start a conversation
// @Description  A direct conversation with the same peer returns the existing one
// @Tags         messaging
// @Accept       json
// @Produce      json
// @Param        request body     msgapp.CreateConversationRequest true "Conversation"
// @Success      201     {object} APIResponse[msgapp.ConversationResponse]
// @Failure      400     {object} ErrorResponse
// @Security     BearerAuth
// @Router       /messaging/conversations [post]
func (h *ConversationHandler) Create(c *gin.Context) {
	actorID, ok := h.actor(c)
	if !ok {
		return
	}
	var req msgapp.CreateConversationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	conv, err := h.service.Create(c.Request.Context(), getTenantID(c), actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, conv)
}

// GetByID godoc
// @ID           getConversation
// @Summary      Get a conversation
// @Tags         messaging
// @Param        id  path     string true "Conversation ID" format(uuid)
// @Success      200 {object} APIResponse[msgapp.ConversationResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /messaging/conversations/{id} [get]
func (h *ConversationHandler) GetByID(c *gin.Context) {
	actorID, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	conv, err := h.service.GetByID(c.Request.Context(), getTenantID(c), actorID, id)
	respond(&h.BaseHandler, c, conv, err)
}

// ListMine godoc
// @ID           listMyConversations
// @Summary      List the caller's conversations, most recent activity first
// @Tags         messaging
// @Param        request body     msgapp.ListConversationsRequest false "Paging"
// @Success      200     {object} ListResponse[msgapp.ConversationResponse]
// @Security     BearerAuth
// @Router       /messaging/conversations/search [post]
func (h *ConversationHandler) ListMine(c *gin.Context) {
	actorID, ok := h.actor(c)
	if !ok {
		return
	}
	var req msgapp.ListConversationsRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	page, err := h.service.ListMine(c.Request.Context(), getTenantID(c), actorID, req)
	respondPage(&h.BaseHandler, c, page, err)
}

// AddParticipant godoc
// @ID           addConversationParticipant
// @Summary      Add a participant to a group conversation
// @Tags         messaging
// @Param        id      path     string                    true "Conversation ID" format(uuid)
// @Param        request body     msgapp.ParticipantRequest true "Participant"
// @Success      200     {object} APIResponse[msgapp.ConversationResponse]
// @Failure      422     {object} ErrorResponse
// @Security     BearerAuth
// @Router       /messaging/conversations/{id}/participants [post]
func (h *ConversationHandler) AddParticipant(c *gin.Context) {
	actorID, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req msgapp.ParticipantRequest
	if !h.bindJSON(c, &req) {
		return
	}
	conv, err := h.service.AddParticipant(c.Request.Context(), getTenantID(c), actorID, id, req)
	respond(&h.BaseHandler, c, conv, err)
}

// RemoveParticipant godoc
// @ID           removeConversationParticipant
// @Summary      Remove a participant, or leave when removing yourself
// @Tags         messaging
// @Param        id     path     string true "Conversation ID" format(uuid)
// @Param        userId path     string true "User ID" format(uuid)
// @Success      200    {object} APIResponse[msgapp.ConversationResponse]
// @Failure      422    {object} ErrorResponse
// @Security     BearerAuth
// @Router       /messaging/conversations/{id}/participants/{userId} [delete]
func (h *ConversationHandler) RemoveParticipant(c *gin.Context) {
	actorID, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := h.pathID(c, "userId")
	if !ok {
		return
	}
	conv, err := h.service.RemoveParticipant(c.Request.Context(), getTenantID(c), actorID, id, userID)
	respond(&h.BaseHandler, c, conv, err)
}

// Archive godoc
// @ID           archiveConversation
// @Summary      Archive a conversation
// @Tags         messaging
// @Param        id  path     string true "Conversation ID" format(uuid)
// @Success      200 {object} APIResponse[msgapp.ConversationResponse]
// @Security     BearerAuth
// @Router       /messaging/conversations/{id}/archive [post]
func (h *ConversationHandler) Archive(c *gin.Context) {
	actorID, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	conv, err := h.service.Archive(c.Request.Context(), getTenantID(c), actorID, id)
	respond(&h.BaseHandler, c, conv, err)
}

// MessageHandler serves message routes nested under conversations and /messaging/messages
type MessageHandler struct {
	BaseHandler
	service *msgapp.MessageService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(service *msgapp.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// Send godoc
// @ID           sendMessage
// @Summary      Send a message
// @Description  Attachments must be uploaded first through the attachment upload URL
// @Tags         messaging
// @Param        id      path     string                    true "Conversation ID" format(uuid)
// @Param        request body     msgapp.SendMessageRequest true "Message"
// @Success      201     {object} APIResponse[msgapp.MessageResponse]
// @Failure      403     {object} ErrorResponse
// @Failure      422     {object} ErrorResponse
// @Security     BearerAuth
// @Router       /messaging/conversations/{id}/messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	actorID, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req msgapp.SendMessageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	msg, err := h.service.Send(c.Request.Context(), getTenantID(c), actorID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, msg)
}

// List godoc
// @ID           listMessages
// @Summary      List messages, newest first
// @Tags         messaging
// @Param        id      path     string                     true  "Conversation ID" format(uuid)
// @Param        request body     msgapp.ListMessagesRequest false "Paging"
// @Success      200     {object} ListResponse[msgapp.MessageResponse]
// @Security     BearerAuth
// @Router       /messaging/conversations/{id}/messages/search [post]
func (h *MessageHandler) List(c *gin.Context) {
	actorID, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req msgapp.ListMessagesRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	page, err := h.service.List(c.Request.Context(), getTenantID(c), actorID, id, req)
	respondPage(&h.BaseHandler, c, page, err)
}

// MarkRead godoc
// @ID           markConversationRead
// @Summary      Move the caller's read pointer
// @Tags         messaging
// @Param        id      path     string                 true "Conversation ID" format(uuid)
// @Param        request body     msgapp.MarkReadRequest true "Last read message"
// @Success      200     {object} APIResponse[msgapp.ConversationResponse]
// @Security     BearerAuth
// @Router       /messaging/conversations/{id}/read [post]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	actorID, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req msgapp.MarkReadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	conv, err := h.service.MarkRead(c.Request.Context(), getTenantID(c), actorID, id, req)
	respond(&h.BaseHandler, c, conv, err)
}

// RequestAttachmentUpload godoc
// @ID           requestAttachmentUpload
// @Summary      Get a presigned URL to upload an attachment
// @Tags         messaging
// @Param        id      path     string                         true "Conversation ID" format(uuid)
// @Param        request body     msgapp.AttachmentUploadRequest true "File"
// @Success      200     {object} APIResponse[msgapp.AttachmentUploadResponse]
// @Failure      413     {object} ErrorResponse
// @Security     BearerAuth
// @Router       /messaging/conversations/{id}/attachments [post]
func (h *MessageHandler) RequestAttachmentUpload(c *gin.Context) {
	actorID, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req msgapp.AttachmentUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	upload, err := h.service.RequestAttachmentUpload(c.Request.Context(), getTenantID(c), actorID, id, req)
	respond(&h.BaseHandler, c, upload, err)
}

// Edit godoc
// @ID           editMessage
// @Summary      Edit one of your messages
// @Tags         messaging
// @Param        id      path     string                    true "Message ID" format(uuid)
// @Param        request body     msgapp.EditMessageRequest true "Content"
// @Success      200     {object} APIResponse[msgapp.MessageResponse]
// @Failure      403     {object} ErrorResponse
// @Security     BearerAuth
// @Router       /messaging/messages/{id} [put]
func (h *MessageHandler) Edit(c *gin.Context) {
	actorID, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req msgapp.EditMessageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	msg, err := h.service.Edit(c.Request.Context(), getTenantID(c), actorID, id, req)
	respond(&h.BaseHandler, c, msg, err)
}

// Delete godoc
// @ID           deleteMessage
// @Summary      Delete one of your messages
// @Tags         messaging
// @Param        id path string true "Message ID" format(uuid)
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /messaging/messages/{id} [delete]
func (h *MessageHandler) Delete(c *gin.Context) {
	actorID, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), getTenantID(c), actorID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AttachmentDownloadURL godoc
// @ID           getAttachmentDownloadURL
// @Summary      Get a presigned URL to download a message's attachment
// @Tags         messaging
// @Param        id  path     string true "Message ID" format(uuid)
// @Success      200 {object} APIResponse[msgapp.AttachmentDownloadResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /messaging/messages/{id}/attachment [get]
func (h *MessageHandler) AttachmentDownloadURL(c *gin.Context) {
	actorID, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	download, err := h.service.AttachmentDownloadURL(c.Request.Context(), getTenantID(c), actorID, id)
	respond(&h.BaseHandler, c, download, err)
}
