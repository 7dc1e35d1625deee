package mail

import (
	"log"
	"strings"
)

// NewOrderConfirmationMailerWithSendGrid wires a SendGrid-backed mailer.
// Returns nil when apiKey or from is empty (mail disabled).
func NewOrderConfirmationMailerWithSendGrid(apiKey, from, storeName string) *OrderConfirmationMailer {
	apiKey = strings.TrimSpace(apiKey)
	from = strings.TrimSpace(from)

	if apiKey == "" || from == "" {
		log.Printf("[mail] INFO: sendgrid not configured (apiKey=%t from=%t); order mails disabled", apiKey != "", from != "")
		return nil
	}
	return NewOrderConfirmationMailer(NewSendGridClient(apiKey, storeName), from, storeName)
}
