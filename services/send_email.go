package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/config"
	"github.com/rpupo63/portfolio-site/models"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// Mailer sends e-mail through Resend. A Mailer without API key is disabled and sends nothing.
type Mailer struct {
	apiKey   string
	from     string
	notifyTo []string
	endpoint string
	client   *http.Client
	logger   zerolog.Logger
}

// NewMailer reads RESEND_API_KEY, RESEND_FROM_EMAIL and CONTACT_NOTIFY_EMAIL.
func NewMailer(c map[string]string) *Mailer {
	return &Mailer{
		apiKey:   config.GetString(c, "RESEND_API_KEY", ""),
		from:     config.GetString(c, "RESEND_FROM_EMAIL", ""),
		notifyTo: config.GetList(c, "CONTACT_NOTIFY_EMAIL"),
		endpoint: config.GetString(c, "RESEND_ENDPOINT", resendEndpoint),
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   log.With().Str("service", "mailer").Logger(),
	}
}

func (m *Mailer) Enabled() bool {
	return m.apiKey != "" && m.from != "" && len(m.notifyTo) > 0
}

// SendEmail sends an HTML e-mail to recipients.
func (m *Mailer) SendEmail(ctx context.Context, req ResendEmailRequest) error {
	if len(req.To) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}
	if m.apiKey == "" {
		return fmt.Errorf("RESEND_API_KEY environment variable is required")
	}
	if req.From == "" {
		req.From = m.from
	}

	jsonPayload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+m.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		m.logger.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		m.logger.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}
	return nil
}

var contactTemplate = template.Must(template.New("contact").Parse(
	`<p><strong>{{.Name}}</strong> &lt;{{.Email}}&gt; a écrit :</p>
<p><em>{{.Subject}}</em></p>
<p style="white-space: pre-wrap">{{.Message}}</p>`))

// NotifyContact forwards a new contact message to the site owner. It is a no-op when disabled.
func (m *Mailer) NotifyContact(ctx context.Context, msg models.Message) error {
	if !m.Enabled() {
		return nil
	}

	var body strings.Builder
	if err := contactTemplate.Execute(&body, msg); err != nil {
		return fmt.Errorf("render contact notification: %w", err)
	}

	return m.SendEmail(ctx, ResendEmailRequest{
		To:      m.notifyTo,
		Subject: "[Portfolio] " + msg.Subject,
		Html:    body.String(),
		ReplyTo: msg.Email,
	})
}
