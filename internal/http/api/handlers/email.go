package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mailmeow/mailmeow/internal/mail"
	"github.com/mailmeow/mailmeow/internal/service"
	"github.com/mailmeow/mailmeow/internal/util"
	log "github.com/sirupsen/logrus"
)

// EmailHandler handles delegated email sends.
type EmailHandler struct {
	svc    *service.Service
	sender mail.Sender
}

// NewEmailHandler constructs an EmailHandler.
func NewEmailHandler(svc *service.Service, sender mail.Sender) *EmailHandler {
	return &EmailHandler{svc: svc, sender: sender}
}

// sendEmailRequest defines the request body for a send.
type sendEmailRequest struct {
	To          string `json:"to"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	ContentType string `json:"contentType"`
	Provider    string `json:"provider"`
}

// Send authorizes the caller's key, picks the bound credential, and delegates
// the provider call to the mail sender.
func (h *EmailHandler) Send(c *gin.Context) {
	var body sendEmailRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(body.To) == "" || strings.TrimSpace(body.Subject) == "" || body.Body == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields: to, subject, body"})
		return
	}

	ctx := c.Request.Context()
	apiKey := c.Param("api_key")

	user, errResolve := h.svc.ResolveUser(ctx, apiKey)
	if errResolve != nil {
		respondError(c, errResolve)
		return
	}

	cred, errAuthorize := h.svc.AuthorizeSend(ctx, apiKey, body.Provider)
	if errAuthorize != nil {
		respondError(c, errAuthorize)
		return
	}

	msg := mail.Message{
		From:        user.Email,
		To:          strings.TrimSpace(body.To),
		Subject:     body.Subject,
		Body:        body.Body,
		ContentType: strings.TrimSpace(body.ContentType),
	}
	if errSend := h.sender.Send(ctx, cred.Provider, cred.AccessToken, msg); errSend != nil {
		respondError(c, errSend)
		return
	}

	log.WithFields(log.Fields{
		"provider": cred.Provider,
		"user":     user.ID,
		"api_key":  util.HideAPIKey(apiKey),
	}).Info("email sent")
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "email sent"})
}
