package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tanvi-28/huddle/internal/middleware"
	"github.com/tanvi-28/huddle/internal/workspace"
)

// AdminHandler serves workspace-owner escalation and user removal.
type AdminHandler struct {
	svc    *workspace.Service
	logger *zap.Logger
}

func NewAdminHandler(svc *workspace.Service, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, logger: logger}
}

type permissionChangeRequest struct {
	UserID       int64 `json:"uId" binding:"required"`
	PermissionID int64 `json:"permissionId" binding:"required"`
}

// PermissionChange handles POST /v1/admin/permissions
func (h *AdminHandler) PermissionChange(c *gin.Context) {
	var req permissionChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.PermissionChange(c.Request.Context(), middleware.Session(c), req.UserID, req.PermissionID); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// RemoveUser handles DELETE /v1/admin/users/:id
func (h *AdminHandler) RemoveUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.RemoveUser(c.Request.Context(), middleware.Session(c), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
