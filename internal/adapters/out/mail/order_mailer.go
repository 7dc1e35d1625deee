package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	orderdom "storefront/internal/domain/order"
)

// EmailClient は実際のメール送信クライアント (SendGrid など) を抽象化する。
type EmailClient interface {
	Send(ctx context.Context, from, to, subject, textBody, htmlBody string) error
}

// OrderConfirmationMailer sends the customer a summary of a new order.
type OrderConfirmationMailer struct {
	client      EmailClient
	fromAddress string
	storeName   string
}

func NewOrderConfirmationMailer(client EmailClient, fromAddress, storeName string) *OrderConfirmationMailer {
	if strings.TrimSpace(storeName) == "" {
		storeName = "Storefront"
	}
	return &OrderConfirmationMailer{
		client:      client,
		fromAddress: strings.TrimSpace(fromAddress),
		storeName:   strings.TrimSpace(storeName),
	}
}

// SendOrderConfirmation is a no-op when the order has no customer email.
func (m *OrderConfirmationMailer) SendOrderConfirmation(ctx context.Context, o orderdom.Order) error {
	to := strings.TrimSpace(o.Customer.Email)
	if to == "" {
		return nil
	}

	subject := fmt.Sprintf("%s: order %s / طلبك رقم %s", m.storeName, o.Number, o.Number)
	text := buildOrderText(o)

	var html bytes.Buffer
	if err := orderHTML.Execute(&html, o); err != nil {
		return fmt.Errorf("render order mail: %w", err)
	}
	return m.client.Send(ctx, m.fromAddress, to, subject, text, html.String())
}

func buildOrderText(o orderdom.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order / الطلب: %s\n", o.Number)
	fmt.Fprintf(&b, "Name / الاسم: %s\n\n", o.Customer.Name)
	for _, it := range o.Items {
		line := fmt.Sprintf("- %s (%s", it.Name, it.UnitLabel)
		if it.Color != "" {
			line += ", " + it.Color
		}
		fmt.Fprintf(&b, "%s) x%d = %s\n", line, it.Quantity, it.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal / المجموع: %s\n", o.Total.StringFixed(2))
	if o.Notes != "" {
		fmt.Fprintf(&b, "\n%s\n", o.Notes)
	}
	return b.String()
}

var orderHTML = template.Must(template.New("order").Parse(`<div dir="auto">
<h2>{{.Number}}</h2>
<p>{{.Customer.Name}}</p>
<table>
{{range .Items}}<tr><td>{{.Name}}</td><td>{{.UnitLabel}}</td><td>{{.Color}}</td><td>{{.Quantity}}</td><td>{{.Subtotal.StringFixed 2}}</td></tr>
{{end}}</table>
<p><b>{{.Total.StringFixed 2}}</b></p>
{{if .Notes}}<pre>{{.Notes}}</pre>{{end}}
</div>`))
