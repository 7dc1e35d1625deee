package mail

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/catalog"
	orderdom "storefront/internal/domain/order"
)

type capturedMail struct {
	from, to, subject, text, html string
}

type fakeClient struct {
	sent []capturedMail
}

func (f *fakeClient) Send(_ context.Context, from, to, subject, text, html string) error {
	f.sent = append(f.sent, capturedMail{from, to, subject, text, html})
	return nil
}

func sampleOrder(t *testing.T, email string) orderdom.Order {
	t.Helper()
	at := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	o, err := orderdom.New(
		orderdom.Customer{Name: "Amal <b>", Email: email},
		"Restaurant: Al Bait",
		[]orderdom.Item{{ProductID: "P1", Name: "Velvet", UnitType: catalog.UnitPiece, UnitLabel: "Piece",
			UnitPrice: decimal.NewFromInt(10), Quantity: 2, Color: "red"}},
		at,
	)
	require.NoError(t, err)
	o.AssignNumber(orderdom.NumberFor(at, 8))
	return o
}

func TestSendOrderConfirmation(t *testing.T) {
	client := &fakeClient{}
	m := NewOrderConfirmationMailer(client, "shop@example.com", "Souq")

	require.NoError(t, m.SendOrderConfirmation(context.Background(), sampleOrder(t, "amal@example.com")))
	require.Len(t, client.sent, 1)

	got := client.sent[0]
	assert.Equal(t, "amal@example.com", got.to)
	assert.Contains(t, got.subject, "2025-06-0008")
	assert.Contains(t, got.text, "- Velvet (Piece, red) x2 = 20.00")
	assert.Contains(t, got.text, "20.00")
	assert.Contains(t, got.html, "Amal &lt;b&gt;")
}

func TestSendOrderConfirmation_NoEmail(t *testing.T) {
	client := &fakeClient{}
	m := NewOrderConfirmationMailer(client, "shop@example.com", "")

	require.NoError(t, m.SendOrderConfirmation(context.Background(), sampleOrder(t, "")))
	assert.Empty(t, client.sent)
}

func TestNewOrderConfirmationMailerWithSendGrid_Disabled(t *testing.T) {
	assert.Nil(t, NewOrderConfirmationMailerWithSendGrid("", "shop@example.com", "Souq"))
	assert.NotNil(t, NewOrderConfirmationMailerWithSendGrid("key", "shop@example.com", "Souq"))
}
