// Package mail performs the provider API call for an authorized email send.
package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mailmeow/mailmeow/internal/config"
	"github.com/mailmeow/mailmeow/internal/models"
	"github.com/mailmeow/mailmeow/internal/service"
	log "github.com/sirupsen/logrus"
)

// Message holds the fields of a transactional email.
type Message struct {
	From        string
	To          string
	Subject     string
	Body        string
	ContentType string // "text" or "html", defaults to "text"
}

// Sender performs the provider HTTP call for one message.
type Sender interface {
	Send(ctx context.Context, provider, accessToken string, msg Message) error
}

// HTTPSender sends through the Microsoft Graph and Gmail REST APIs.
type HTTPSender struct {
	client       *http.Client
	graphBaseURL string
	gmailBaseURL string
}

// NewHTTPSender constructs an HTTPSender from mail config.
func NewHTTPSender(cfg config.MailConfig) *HTTPSender {
	return &HTTPSender{
		client:       &http.Client{Timeout: cfg.SendTimeout.Std()},
		graphBaseURL: strings.TrimRight(cfg.GraphBaseURL, "/"),
		gmailBaseURL: strings.TrimRight(cfg.GmailBaseURL, "/"),
	}
}

// Send dispatches the message through the provider's API. A non-2xx provider
// response surfaces as an upstream error; this service never retries.
func (s *HTTPSender) Send(ctx context.Context, provider, accessToken string, msg Message) error {
	if strings.TrimSpace(msg.To) == "" || strings.TrimSpace(msg.Subject) == "" || msg.Body == "" {
		return service.ErrValidation("missing to, subject or body")
	}

	switch provider {
	case models.ProviderOutlook, models.ProviderMicrosoftPersonal:
		return s.sendGraph(ctx, accessToken, msg)
	case models.ProviderGmail:
		return s.sendGmail(ctx, accessToken, msg)
	default:
		return service.ErrValidation("unsupported provider")
	}
}

// graphSendRequest is the Microsoft Graph sendMail payload.
type graphSendRequest struct {
	Message graphMessage `json:"message"`
}

type graphMessage struct {
	Subject      string           `json:"subject"`
	Body         graphBody        `json:"body"`
	ToRecipients []graphRecipient `json:"toRecipients"`
}

type graphBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type graphRecipient struct {
	EmailAddress graphEmailAddress `json:"emailAddress"`
}

type graphEmailAddress struct {
	Address string `json:"address"`
}

// sendGraph posts to the Graph sendMail endpoint of the signed-in mailbox.
func (s *HTTPSender) sendGraph(ctx context.Context, accessToken string, msg Message) error {
	contentType := "Text"
	if msg.ContentType == "html" {
		contentType = "HTML"
	}
	payload := graphSendRequest{
		Message: graphMessage{
			Subject: msg.Subject,
			Body: graphBody{
				ContentType: contentType,
				Content:     msg.Body,
			},
			ToRecipients: []graphRecipient{
				{EmailAddress: graphEmailAddress{Address: msg.To}},
			},
		},
	}
	return s.post(ctx, s.graphBaseURL+"/v1.0/me/sendMail", accessToken, payload)
}

// gmailSendRequest is the Gmail messages.send payload.
type gmailSendRequest struct {
	Raw string `json:"raw"`
}

// sendGmail posts a base64url RFC 2822 message to the Gmail API.
func (s *HTTPSender) sendGmail(ctx context.Context, accessToken string, msg Message) error {
	mime := "text/plain"
	if msg.ContentType == "html" {
		mime = "text/html"
	}

	var raw strings.Builder
	if from := strings.TrimSpace(msg.From); from != "" {
		fmt.Fprintf(&raw, "From: %s\r\n", from)
	}
	fmt.Fprintf(&raw, "To: %s\r\n", msg.To)
	fmt.Fprintf(&raw, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&raw, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&raw, "Content-Type: %s; charset=UTF-8\r\n", mime)
	fmt.Fprintf(&raw, "\r\n%s", msg.Body)

	payload := gmailSendRequest{
		Raw: base64.RawURLEncoding.EncodeToString([]byte(raw.String())),
	}
	return s.post(ctx, s.gmailBaseURL+"/gmail/v1/users/me/messages/send", accessToken, payload)
}

// post issues one authorized JSON POST and classifies the response.
func (s *HTTPSender) post(ctx context.Context, url, accessToken string, payload any) error {
	body, errMarshal := json.Marshal(payload)
	if errMarshal != nil {
		return fmt.Errorf("mail: marshal payload: %w", errMarshal)
	}

	req, errRequest := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if errRequest != nil {
		return fmt.Errorf("mail: build request: %w", errRequest)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, errDo := s.client.Do(req)
	if errDo != nil {
		log.WithError(errDo).Warn("provider send request failed")
		return service.ErrUpstream("provider request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	log.WithFields(log.Fields{
		"status": resp.StatusCode,
		"detail": string(detail),
	}).Warn("provider rejected send")
	return service.ErrUpstream(fmt.Sprintf("provider rejected send (status %d)", resp.StatusCode))
}
