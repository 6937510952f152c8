package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tanvi-28/huddle/internal/middleware"
	"github.com/tanvi-28/huddle/internal/workspace"
)

// UserHandler serves profiles, profile mutation, and involvement stats.
type UserHandler struct {
	svc    *workspace.Service
	logger *zap.Logger
}

func NewUserHandler(svc *workspace.Service, logger *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// Profile handles GET /v1/users/:id
func (h *UserHandler) Profile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	profile, err := h.svc.Profile(c.Request.Context(), middleware.Session(c), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profile})
}

// List handles GET /v1/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.svc.AllUsers(c.Request.Context(), middleware.Session(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

type setNameRequest struct {
	NameFirst string `json:"nameFirst" binding:"required"`
	NameLast  string `json:"nameLast" binding:"required"`
}

// SetName handles PUT /v1/user/name
func (h *UserHandler) SetName(c *gin.Context) {
	var req setNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.SetName(c.Request.Context(), middleware.Session(c), req.NameFirst, req.NameLast); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

type setEmailRequest struct {
	Email string `json:"email" binding:"required"`
}

// SetEmail handles PUT /v1/user/email
func (h *UserHandler) SetEmail(c *gin.Context) {
	var req setEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.SetEmail(c.Request.Context(), middleware.Session(c), req.Email); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

type setHandleRequest struct {
	Handle string `json:"handleStr" binding:"required"`
}

// SetHandle handles PUT /v1/user/handle
func (h *UserHandler) SetHandle(c *gin.Context) {
	var req setHandleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.SetHandle(c.Request.Context(), middleware.Session(c), req.Handle); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Stats handles GET /v1/user/stats
func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(), middleware.Session(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"userStats": stats})
}

// WorkspaceStats handles GET /v1/stats
func (h *UserHandler) WorkspaceStats(c *gin.Context) {
	stats, err := h.svc.WorkspaceStats(c.Request.Context(), middleware.Session(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workspaceStats": stats})
}
