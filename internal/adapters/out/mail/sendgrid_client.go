package mail

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridClient implements EmailClient
type SendGridClient struct {
	apiKey     string
	senderName string
}

func NewSendGridClient(apiKey, senderName string) *SendGridClient {
	return &SendGridClient{apiKey: apiKey, senderName: senderName}
}

// Send sends a plain text + HTML email using SendGrid
func (c *SendGridClient) Send(ctx context.Context, from, to, subject, textBody, htmlBody string) error {
	if c.apiKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if from == "" {
		return fmt.Errorf("from address is empty")
	}
	if to == "" {
		return fmt.Errorf("to address is empty")
	}

	message := mail.NewSingleEmail(
		mail.NewEmail(c.senderName, from),
		subject,
		mail.NewEmail("", to),
		textBody,
		htmlBody,
	)

	client := sendgrid.NewSendClient(c.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}

	if response.StatusCode >= 400 {
		log.Printf("[sendgrid] error status=%d, body=%s", response.StatusCode, response.Body)
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}

	log.Printf("[sendgrid] mail sent: status=%d subject=%s", response.StatusCode, subject)
	return nil
}
