package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	config "github.com/talesoul/talesoul-api/configs"
)

type Recipient struct {
	Name  string
	Email string
}

type Message struct {
	To      []Recipient
	Subject string
	HTML    string
	Text    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// BrevoMailer sends transactional email through the Brevo HTTP API.
type BrevoMailer struct {
	apiKey      string
	senderEmail string
	senderName  string
	baseURL     string
	client      *http.Client
}

type brevoContact struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoPayload struct {
	Sender      brevoContact   `json:"sender"`
	To          []brevoContact `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
	TextContent string         `json:"textContent,omitempty"`
}

// NewBrevoMailer returns nil when the API key or sender is missing.
func NewBrevoMailer(cfg *config.Config) *BrevoMailer {
	if cfg.BrevoAPIKey == "" || cfg.EmailSender == "" {
		return nil
	}
	return &BrevoMailer{
		apiKey:      cfg.BrevoAPIKey,
		senderEmail: cfg.EmailSender,
		senderName:  cfg.EmailSenderName,
		baseURL:     strings.TrimSuffix(cfg.BrevoBaseURL, "/"),
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *BrevoMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return errors.New("no recipients")
	}

	payload := brevoPayload{
		Sender:      brevoContact{Email: s.senderEmail, Name: s.senderName},
		Subject:     msg.Subject,
		HTMLContent: msg.HTML,
		TextContent: msg.Text,
	}
	for _, r := range msg.To {
		if r.Email == "" || !strings.Contains(r.Email, "@") {
			return fmt.Errorf("invalid recipient email: %q", r.Email)
		}
		name := r.Name
		if name == "" {
			name = r.Email[:strings.Index(r.Email, "@")]
		}
		payload.To = append(payload.To, brevoContact{Email: r.Email, Name: name})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v3/smtp/email", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", s.apiKey)
	req.Header.Set("content-type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("brevo API returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
