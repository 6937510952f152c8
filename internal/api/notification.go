package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tanvi-28/huddle/internal/middleware"
	"github.com/tanvi-28/huddle/internal/workspace"
)

// NotificationHandler serves the per-user notification ledger.
type NotificationHandler struct {
	svc    *workspace.Service
	logger *zap.Logger
}

func NewNotificationHandler(svc *workspace.Service, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, logger: logger}
}

// List handles GET /v1/notifications, returning the caller's twenty most
// recent entries.
func (h *NotificationHandler) List(c *gin.Context) {
	notifications, err := h.svc.Notifications(c.Request.Context(), middleware.Session(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}
