package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mailmeow/mailmeow/internal/service"
)

// OAuthHandler handles credential bind, rebind, unbind, and listing.
type OAuthHandler struct {
	svc *service.Service
}

// NewOAuthHandler constructs an OAuthHandler.
func NewOAuthHandler(svc *service.Service) *OAuthHandler {
	return &OAuthHandler{svc: svc}
}

// bindRequest defines the request body for bind and rebind.
type bindRequest struct {
	Provider     string `json:"provider"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// toInput converts the request body, parsing the optional expiry.
func (r *bindRequest) toInput() (service.BindInput, error) {
	in := service.BindInput{
		Provider:     r.Provider,
		AccessToken:  r.AccessToken,
		RefreshToken: strings.TrimSpace(r.RefreshToken),
	}
	if trimmed := strings.TrimSpace(r.ExpiresAt); trimmed != "" {
		expiresAt, errParse := time.Parse(time.RFC3339, trimmed)
		if errParse != nil {
			return in, service.ErrValidation("invalid expires_at, want RFC 3339")
		}
		in.ExpiresAt = &expiresAt
	}
	return in, nil
}

// Bind creates a new OAuth credential for the key's owner.
func (h *OAuthHandler) Bind(c *gin.Context) {
	var body bindRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	in, errInput := body.toInput()
	if errInput != nil {
		respondError(c, errInput)
		return
	}

	cred, errCreate := h.svc.BindCredential(c.Request.Context(), c.Param("api_key"), in)
	if errCreate != nil {
		respondError(c, errCreate)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "oauth credential bound",
		"provider":   cred.Provider,
		"created_at": cred.CreatedAt,
	})
}

// Rebind replaces the token material of an existing credential.
func (h *OAuthHandler) Rebind(c *gin.Context) {
	var body bindRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	in, errInput := body.toInput()
	if errInput != nil {
		respondError(c, errInput)
		return
	}

	cred, errUpdate := h.svc.RebindCredential(c.Request.Context(), c.Param("api_key"), in)
	if errUpdate != nil {
		respondError(c, errUpdate)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "oauth credential updated",
		"provider": cred.Provider,
	})
}

// unbindRequest defines the request body for unbind.
type unbindRequest struct {
	Provider string `json:"provider"`
}

// Unbind deletes the credential for the given provider.
func (h *OAuthHandler) Unbind(c *gin.Context) {
	var body unbindRequest
	// An empty body is accepted for single-credential users; the service
	// resolves the sole bound provider.
	_ = c.ShouldBindJSON(&body)

	provider := strings.TrimSpace(body.Provider)
	apiKey := c.Param("api_key")
	if provider == "" {
		cred, errResolve := h.svc.AuthorizeSend(c.Request.Context(), apiKey, "")
		if errResolve != nil {
			respondError(c, errResolve)
			return
		}
		provider = cred.Provider
	}

	if errUnbind := h.svc.UnbindCredential(c.Request.Context(), apiKey, provider); errUnbind != nil {
		respondError(c, errUnbind)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "oauth credential deleted"})
}

// ListProviders returns the providers bound to the key's owner.
func (h *OAuthHandler) ListProviders(c *gin.Context) {
	bindings, errList := h.svc.ListProviders(c.Request.Context(), c.Param("api_key"))
	if errList != nil {
		respondError(c, errList)
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": bindings})
}
