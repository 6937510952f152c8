package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tanvi-28/huddle/internal/auth"
	"github.com/tanvi-28/huddle/internal/middleware"
	"github.com/tanvi-28/huddle/internal/workspace"
)

// AuthHandler serves registration, login/logout, and password reset. It is
// the only handler that mints tokens, so it alone holds the signing secret.
type AuthHandler struct {
	svc    *workspace.Service
	logger *zap.Logger
	secret string
	ttl    time.Duration
}

func NewAuthHandler(svc *workspace.Service, logger *zap.Logger, secret string, ttl time.Duration) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger, secret: secret, ttl: ttl}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	NameFirst string `json:"nameFirst" binding:"required"`
	NameLast  string `json:"nameLast" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) token(res workspace.AuthResult) (string, error) {
	return auth.GenerateToken(res.UserID, res.SessionID, h.secret, h.ttl)
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.svc.Register(c.Request.Context(), req.Email, req.Password, req.NameFirst, req.NameLast)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	token, err := h.token(res)
	if err != nil {
		h.logger.Error("failed to sign token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"authUserId": res.UserID, "token": token})
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	token, err := h.token(res)
	if err != nil {
		h.logger.Error("failed to sign token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authUserId": res.UserID, "token": token})
}

// Logout handles POST /v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.Session(c)); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

type resetRequestRequest struct {
	Email string `json:"email" binding:"required"`
}

// RequestPasswordReset handles POST /v1/auth/password-reset/request.
// Always 200, whether or not the email exists.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req resetRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.PasswordResetRequest(c.Request.Context(), req.Email); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

type resetRequest struct {
	ResetCode   string `json:"resetCode" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// PasswordReset handles POST /v1/auth/password-reset
func (h *AuthHandler) PasswordReset(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.PasswordReset(c.Request.Context(), req.ResetCode, req.NewPassword); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
