package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mailmeow/mailmeow/internal/service"
)

// APIKeyHandler handles key issuance, revocation, and listing.
type APIKeyHandler struct {
	svc *service.Service
}

// NewAPIKeyHandler constructs an APIKeyHandler.
func NewAPIKeyHandler(svc *service.Service) *APIKeyHandler {
	return &APIKeyHandler{svc: svc}
}

// Issue authenticates the user and returns their API key. Issuance is
// idempotent: 200 with the existing key, 201 when a new one was minted.
func (h *APIKeyHandler) Issue(c *gin.Context) {
	var body credentialsRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	key, created, errIssue := h.svc.IssueAPIKey(c.Request.Context(), body.Email, body.Password)
	if errIssue != nil {
		respondError(c, errIssue)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"api_key":    key.Token,
		"created_at": key.CreatedAt,
	})
}

// revokeAPIKeyRequest defines the request body for key revocation.
type revokeAPIKeyRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	APIKey   string `json:"api_key"`
}

// Revoke deletes an API key after verifying credentials and ownership.
func (h *APIKeyHandler) Revoke(c *gin.Context) {
	var body revokeAPIKeyRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if errRevoke := h.svc.RevokeAPIKey(c.Request.Context(), body.Email, body.Password, body.APIKey); errRevoke != nil {
		respondError(c, errRevoke)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "api key revoked"})
}

// List returns the session user's keys with masked token values.
func (h *APIKeyHandler) List(c *gin.Context) {
	userID := getUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	keys, errList := h.svc.ListAPIKeys(c.Request.Context(), userID)
	if errList != nil {
		respondError(c, errList)
		return
	}

	out := make([]gin.H, 0, len(keys))
	for _, key := range keys {
		out = append(out, gin.H{
			"id":         key.ID,
			"key_prefix": key.MaskedToken(),
			"created_at": key.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"api_keys": out})
}
