package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tanvi-28/huddle/internal/middleware"
	"github.com/tanvi-28/huddle/internal/workspace"
)

// DMHandler serves direct-message group lifecycle and membership.
type DMHandler struct {
	svc    *workspace.Service
	logger *zap.Logger
}

func NewDMHandler(svc *workspace.Service, logger *zap.Logger) *DMHandler {
	return &DMHandler{svc: svc, logger: logger}
}

type createDMRequest struct {
	UserIDs []int64 `json:"uIds" binding:"required"`
}

// Create handles POST /v1/dms
func (h *DMHandler) Create(c *gin.Context) {
	var req createDMRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.svc.CreateDM(c.Request.Context(), middleware.Session(c), req.UserIDs)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"dmId": id})
}

// List handles GET /v1/dms
func (h *DMHandler) List(c *gin.Context) {
	dms, err := h.svc.ListDMs(c.Request.Context(), middleware.Session(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dms": dms})
}

// Details handles GET /v1/dms/:id
func (h *DMHandler) Details(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	details, err := h.svc.DMDetails(c.Request.Context(), middleware.Session(c), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// Remove handles DELETE /v1/dms/:id
func (h *DMHandler) Remove(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.RemoveDM(c.Request.Context(), middleware.Session(c), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Leave handles POST /v1/dms/:id/leave
func (h *DMHandler) Leave(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.LeaveDM(c.Request.Context(), middleware.Session(c), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Messages handles GET /v1/dms/:id/messages?start=N
func (h *DMHandler) Messages(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	start, err := strconv.ParseInt(c.DefaultQuery("start", "0"), 10, 64)
	if err != nil || start < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start"})
		return
	}

	page, err := h.svc.DMMessages(c.Request.Context(), middleware.Session(c), id, start)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
