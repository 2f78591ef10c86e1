package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mailmeow/mailmeow/internal/config"
	"github.com/mailmeow/mailmeow/internal/security"
	"github.com/mailmeow/mailmeow/internal/service"
)

// UserHandler handles account registration, deletion, and login.
type UserHandler struct {
	svc    *service.Service
	jwtCfg config.JWTConfig
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(svc *service.Service, jwtCfg config.JWTConfig) *UserHandler {
	return &UserHandler{svc: svc, jwtCfg: jwtCfg}
}

// credentialsRequest defines the request body carrying account credentials.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new user account.
func (h *UserHandler) Register(c *gin.Context) {
	var body credentialsRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	user, errRegister := h.svc.RegisterUser(c.Request.Context(), body.Email, body.Password)
	if errRegister != nil {
		// Duplicate registration surfaces as 400 on this endpoint.
		if service.IsKind(errRegister, service.KindConflict) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user already exists"})
			return
		}
		respondError(c, errRegister)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"email":      user.Email,
		"created_at": user.CreatedAt,
	})
}

// Delete removes an account and everything it owns.
func (h *UserHandler) Delete(c *gin.Context) {
	var body credentialsRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if errDelete := h.svc.DeleteUser(c.Request.Context(), body.Email, body.Password); errDelete != nil {
		respondError(c, errDelete)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "user deleted"})
}

// Login authenticates a user and issues a session JWT.
func (h *UserHandler) Login(c *gin.Context) {
	var body credentialsRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	user, errLogin := h.svc.Login(c.Request.Context(), body.Email, body.Password)
	if errLogin != nil {
		respondError(c, errLogin)
		return
	}

	token, errToken := security.GenerateToken(h.jwtCfg.Secret, user.ID, user.Email, h.jwtCfg.Expiry.Std())
	if errToken != nil {
		respondError(c, errToken)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
