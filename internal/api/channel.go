package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tanvi-28/huddle/internal/middleware"
	"github.com/tanvi-28/huddle/internal/workspace"
)

// ChannelHandler serves channel lifecycle, membership, and ownership.
type ChannelHandler struct {
	svc    *workspace.Service
	logger *zap.Logger
}

func NewChannelHandler(svc *workspace.Service, logger *zap.Logger) *ChannelHandler {
	return &ChannelHandler{svc: svc, logger: logger}
}

type createChannelRequest struct {
	Name     string `json:"name" binding:"required"`
	IsPublic *bool  `json:"isPublic" binding:"required"`
}

// Create handles POST /v1/channels
func (h *ChannelHandler) Create(c *gin.Context) {
	var req createChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.svc.CreateChannel(c.Request.Context(), middleware.Session(c), req.Name, *req.IsPublic)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"channelId": id})
}

// List handles GET /v1/channels, returning the caller's channels only.
func (h *ChannelHandler) List(c *gin.Context) {
	channels, err := h.svc.ListChannels(c.Request.Context(), middleware.Session(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channels": channels})
}

// ListAll handles GET /v1/channels/all, returning every channel, public and
// private.
func (h *ChannelHandler) ListAll(c *gin.Context) {
	channels, err := h.svc.ListAllChannels(c.Request.Context(), middleware.Session(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channels": channels})
}

// Details handles GET /v1/channels/:id
func (h *ChannelHandler) Details(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	details, err := h.svc.ChannelDetails(c.Request.Context(), middleware.Session(c), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// Join handles POST /v1/channels/:id/join
func (h *ChannelHandler) Join(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.JoinChannel(c.Request.Context(), middleware.Session(c), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

type channelUserRequest struct {
	UserID int64 `json:"uId" binding:"required"`
}

// Invite handles POST /v1/channels/:id/invite
func (h *ChannelHandler) Invite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req channelUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.InviteToChannel(c.Request.Context(), middleware.Session(c), id, req.UserID); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Leave handles POST /v1/channels/:id/leave
func (h *ChannelHandler) Leave(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.LeaveChannel(c.Request.Context(), middleware.Session(c), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// AddOwner handles POST /v1/channels/:id/owners
func (h *ChannelHandler) AddOwner(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req channelUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.AddChannelOwner(c.Request.Context(), middleware.Session(c), id, req.UserID); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// RemoveOwner handles DELETE /v1/channels/:id/owners/:uid
func (h *ChannelHandler) RemoveOwner(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathID(c, "uid")
	if !ok {
		return
	}

	if err := h.svc.RemoveChannelOwner(c.Request.Context(), middleware.Session(c), id, userID); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Messages handles GET /v1/channels/:id/messages?start=N
func (h *ChannelHandler) Messages(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	start, err := strconv.ParseInt(c.DefaultQuery("start", "0"), 10, 64)
	if err != nil || start < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start"})
		return
	}

	page, err := h.svc.Messages(c.Request.Context(), middleware.Session(c), id, start)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
