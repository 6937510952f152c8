package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tanvi-28/huddle/internal/middleware"
	"github.com/tanvi-28/huddle/internal/models"
	"github.com/tanvi-28/huddle/internal/workspace"
)

// MessageHandler serves sends, edits, shares, reactions, pins, deferred
// sends, and search.
type MessageHandler struct {
	svc    *workspace.Service
	logger *zap.Logger
}

func NewMessageHandler(svc *workspace.Service, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{svc: svc, logger: logger}
}

type sendRequest struct {
	Message string `json:"message" binding:"required"`
}

// Send handles POST /v1/channels/:id/messages. During an active standup the
// message lands in the standup buffer and no id is returned.
func (h *MessageHandler) Send(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	messageID, err := h.svc.Send(c.Request.Context(), middleware.Session(c), id, req.Message)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"messageId": messageID})
}

// SendDM handles POST /v1/dms/:id/messages
func (h *MessageHandler) SendDM(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	messageID, err := h.svc.SendDM(c.Request.Context(), middleware.Session(c), id, req.Message)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"messageId": messageID})
}

type editRequest struct {
	Message string `json:"message"`
}

// Edit handles PUT /v1/messages/:id. An empty message removes it.
func (h *MessageHandler) Edit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.EditMessage(c.Request.Context(), middleware.Session(c), id, req.Message); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Remove handles DELETE /v1/messages/:id
func (h *MessageHandler) Remove(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.RemoveMessage(c.Request.Context(), middleware.Session(c), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

type shareRequest struct {
	Message   string `json:"message"`
	ChannelID *int64 `json:"channelId" binding:"required"`
	DMID      *int64 `json:"dmId" binding:"required"`
}

// Share handles POST /v1/messages/:id/share. Exactly one of channelId and
// dmId is a real target; the other must be -1.
func (h *MessageHandler) Share(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sharedID, err := h.svc.ShareMessage(c.Request.Context(), middleware.Session(c), id, req.Message, *req.ChannelID, *req.DMID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"sharedMessageId": sharedID})
}

type reactRequest struct {
	ReactID int64 `json:"reactId" binding:"required"`
}

// React handles POST /v1/messages/:id/react
func (h *MessageHandler) React(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.React(c.Request.Context(), middleware.Session(c), id, req.ReactID); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Unreact handles POST /v1/messages/:id/unreact
func (h *MessageHandler) Unreact(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.Unreact(c.Request.Context(), middleware.Session(c), id, req.ReactID); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Pin handles POST /v1/messages/:id/pin
func (h *MessageHandler) Pin(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Pin(c.Request.Context(), middleware.Session(c), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Unpin handles POST /v1/messages/:id/unpin
func (h *MessageHandler) Unpin(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Unpin(c.Request.Context(), middleware.Session(c), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

type sendLaterRequest struct {
	Message string `json:"message" binding:"required"`
	SendAt  int64  `json:"timeSent" binding:"required"`
}

// SendLater handles POST /v1/channels/:id/messages/later
func (h *MessageHandler) SendLater(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req sendLaterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	messageID, err := h.svc.SendLater(c.Request.Context(), middleware.Session(c), id, req.Message, req.SendAt)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"messageId": messageID})
}

// SendLaterDM handles POST /v1/dms/:id/messages/later
func (h *MessageHandler) SendLaterDM(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req sendLaterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	messageID, err := h.svc.SendLaterDM(c.Request.Context(), middleware.Session(c), id, req.Message, req.SendAt)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"messageId": messageID})
}

// Search handles GET /v1/search?q=term
func (h *MessageHandler) Search(c *gin.Context) {
	query := c.Query("q")

	messages, err := h.svc.Search(c.Request.Context(), middleware.Session(c), query)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
