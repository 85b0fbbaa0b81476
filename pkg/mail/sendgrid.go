package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// ErrNotConfigured is returned when the SendGrid key or sender is missing
var ErrNotConfigured = errors.New("sendgrid not configured")

// Message is a single plain-text + HTML email
type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers email messages
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SendGridConfig holds configuration for the SendGrid sender
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// SendGridSender implements Sender via the SendGrid v3 mail API
type SendGridSender struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

// NewSendGridSender creates a SendGrid sender
func NewSendGridSender(config SendGridConfig) (*SendGridSender, error) {
	if config.APIKey == "" || config.FromEmail == "" {
		return nil, ErrNotConfigured
	}
	fromName := config.FromName
	if fromName == "" {
		fromName = "Carwash"
	}
	return &SendGridSender{
		client: sendgrid.NewSendClient(config.APIKey),
		from:   sgmail.NewEmail(fromName, config.FromEmail),
	}, nil
}

// Send sends msg. Non-2xx responses are errors.
func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	to := sgmail.NewEmail(msg.ToName, msg.ToEmail)
	message := sgmail.NewSingleEmail(s.from, msg.Subject, to, msg.Text, msg.HTML)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
