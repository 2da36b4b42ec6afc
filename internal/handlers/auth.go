package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"review-service/internal/services"
	"review-service/internal/telemetry"
)

// AuthHandler serves registration, token exchange and the current user.
type AuthHandler struct {
	auditor
	identity *services.IdentityService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(identity *services.IdentityService, audit *telemetry.AuditEmitter) *AuthHandler {
	return &AuthHandler{auditor: auditor{audit: audit}, identity: identity}
}

// Register handles POST /register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.emitAudit(c, "ERROR", "invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.identity.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}

	h.emitAudit(c, "INFO", "User registered")
	c.JSON(http.StatusOK, user)
}

// Token handles POST /token. Credentials come as form fields or JSON.
func (h *AuthHandler) Token(c *gin.Context) {
	var req struct {
		Username string `json:"username" form:"username" binding:"required"`
		Password string `json:"password" form:"password" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		h.emitAudit(c, "ERROR", "invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, _, err := h.identity.Login(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, services.ErrForbidden) {
		h.emitAudit(c, "ERROR", "login failed")
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect username or password"})
		return
	}
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// Me handles GET /users/me.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.identity.GetUser(c.Request.Context(), c.GetInt("userID"))
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
