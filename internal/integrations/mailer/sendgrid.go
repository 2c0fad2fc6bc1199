package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendEndpoint = "/v3/mail/send"

// SendGridSender отправляет письма через SendGrid API
type SendGridSender struct {
	apiKey    string
	host      string
	fromEmail string
	fromName  string
	log       Logger
}

// NewSendGridSender создает отправителя SendGrid
func NewSendGridSender(cfg Config, log Logger) (*SendGridSender, error) {
	if cfg.APIKey == "" || cfg.FromEmail == "" {
		return nil, fmt.Errorf("%w: api key and from email are required", ErrNotConfigured)
	}

	return &SendGridSender{
		apiKey:    cfg.APIKey,
		host:      cfg.Host,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		log:       log,
	}, nil
}

// Send отправляет письмо
func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("%w: recipient is empty", ErrInvalidMessage)
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.To)
	message := mail.NewSingleEmailPlainText(from, msg.Subject, to, msg.Body)

	// клиент SendGrid хранит тело запроса в себе, поэтому создается на каждое письмо
	response, err := s.newClient().SendWithContext(ctx, message)
	if err != nil {
		s.log.Error("SendGrid: send to %s failed: %v", msg.To, err)
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	if response.StatusCode >= 400 {
		s.log.Error("SendGrid: status %d for %s: %s", response.StatusCode, msg.To, response.Body)
		return fmt.Errorf("%w: status %d", ErrSendFailed, response.StatusCode)
	}

	s.log.Info("SendGrid: email %q sent to %s, status %d", msg.Subject, msg.To, response.StatusCode)
	return nil
}

func (s *SendGridSender) newClient() *sendgrid.Client {
	request := sendgrid.GetRequest(s.apiKey, sendEndpoint, s.host)
	request.Method = "POST"
	return &sendgrid.Client{Request: request}
}
