package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tanvi-28/huddle/internal/middleware"
	"github.com/tanvi-28/huddle/internal/workspace"
)

// StandupHandler serves the per-channel standup window.
type StandupHandler struct {
	svc    *workspace.Service
	logger *zap.Logger
}

func NewStandupHandler(svc *workspace.Service, logger *zap.Logger) *StandupHandler {
	return &StandupHandler{svc: svc, logger: logger}
}

type standupStartRequest struct {
	Length *int64 `json:"length" binding:"required"`
}

// Start handles POST /v1/channels/:id/standup/start
func (h *StandupHandler) Start(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req standupStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	finishAt, err := h.svc.StandupStart(c.Request.Context(), middleware.Session(c), id, *req.Length)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timeFinish": finishAt})
}

// Active handles GET /v1/channels/:id/standup
func (h *StandupHandler) Active(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	status, err := h.svc.StandupActive(c.Request.Context(), middleware.Session(c), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

type standupSendRequest struct {
	Message string `json:"message" binding:"required"`
}

// Send handles POST /v1/channels/:id/standup/send
func (h *StandupHandler) Send(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req standupSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.StandupSend(c.Request.Context(), middleware.Session(c), id, req.Message); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
