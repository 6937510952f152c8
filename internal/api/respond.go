// Package api exposes the workspace engine over HTTP. One handler struct
// per concern, wired together in cmd/server.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tanvi-28/huddle/internal/workspace"
)

// writeError maps a workspace failure to its status code. Non-domain errors
// (snapshot I/O and the like) become opaque 500s; the detail goes to the log
// only.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	kind, ok := workspace.KindOf(err)
	if !ok {
		logger.Error("operation failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	status := http.StatusBadRequest
	switch kind {
	case workspace.KindForbidden:
		status = http.StatusForbidden
	case workspace.KindUnauthenticated:
		status = http.StatusUnauthorized
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
