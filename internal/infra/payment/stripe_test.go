package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v80/webhook"
)

const testSecret = "whsec_test_secret"

const completedPayload = `{
  "id": "evt_1",
  "object": "event",
  "type": "checkout.session.completed",
  "data": {
    "object": {
      "id": "cs_1",
      "object": "checkout.session",
      "metadata": {"userId": "u1", "orderId": "o1"},
      "customer_details": {
        "email": "ada@example.com",
        "name": "Ada Lovelace",
        "address": {"line1": "1 Billing Rd", "city": "London", "postal_code": "N1", "country": "GB"}
      },
      "shipping_details": {
        "name": "Ada Lovelace",
        "address": {"line1": "2 Shipping St", "city": "Berlin", "state": "BE", "postal_code": "10115", "country": "DE"}
      }
    }
  }
}`

func sign(t *testing.T, payload, secret string) string {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    secret,
		Timestamp: time.Now(),
		Scheme:    "v1",
	})
	return signed.Header
}

func TestStripeGateway_ParseWebhook_CheckoutCompleted(t *testing.T) {
	g := NewStripeGateway("sk_test", testSecret)

	evt, err := g.ParseWebhook([]byte(completedPayload), sign(t, completedPayload, testSecret))
	require.NoError(t, err)

	assert.Equal(t, "evt_1", evt.ID)
	assert.Equal(t, EventCheckoutCompleted, evt.Type)
	require.NotNil(t, evt.Checkout)
	assert.Equal(t, "cs_1", evt.Checkout.SessionID)
	assert.Equal(t, map[string]string{"userId": "u1", "orderId": "o1"}, evt.Checkout.Metadata)
	assert.Equal(t, "ada@example.com", evt.Checkout.CustomerEmail)
	assert.Equal(t, "Ada Lovelace", evt.Checkout.CustomerName)
	assert.Equal(t, &Address{Line1: "1 Billing Rd", City: "London", PostalCode: "N1", Country: "GB"}, evt.Checkout.BillingAddress)
	assert.Equal(t, &Address{Line1: "2 Shipping St", City: "Berlin", State: "BE", PostalCode: "10115", Country: "DE"}, evt.Checkout.ShippingAddress)
}

func TestStripeGateway_ParseWebhook_OtherEvent(t *testing.T) {
	g := NewStripeGateway("sk_test", testSecret)
	payload := `{"id":"evt_2","object":"event","type":"charge.refunded","data":{"object":{"id":"ch_1"}}}`

	evt, err := g.ParseWebhook([]byte(payload), sign(t, payload, testSecret))
	require.NoError(t, err)
	assert.Equal(t, "charge.refunded", evt.Type)
	assert.Nil(t, evt.Checkout)
}

func TestStripeGateway_ParseWebhook_RejectsBadSignature(t *testing.T) {
	g := NewStripeGateway("sk_test", testSecret)

	tests := []struct {
		name      string
		signature string
	}{
		{name: "wrong secret", signature: sign(t, completedPayload, "whsec_other")},
		{name: "garbage header", signature: "t=1,v1=deadbeef"},
		{name: "empty header", signature: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt, err := g.ParseWebhook([]byte(completedPayload), tt.signature)
			assert.ErrorIs(t, err, ErrInvalidSignature)
			assert.Nil(t, evt)
		})
	}
}

func TestCheckoutParams(t *testing.T) {
	p := checkoutParams(CheckoutRequest{
		ProductName:      "Custom iPhone Case",
		ImageURL:         "https://cdn.example.com/c.png",
		Amount:           1900,
		Currency:         "usd",
		SuccessURL:       "https://shop/thank-you?orderId=o1",
		CancelURL:        "https://shop/configure/preview?id=c1",
		PaymentMethods:   []string{"card", "paypal"},
		AllowedCountries: []string{"DE", "US", "NL"},
		Metadata:         map[string]string{"userId": "u1", "orderId": "o1"},
	})

	assert.Equal(t, "payment", *p.Mode)
	assert.Equal(t, "https://shop/thank-you?orderId=o1", *p.SuccessURL)
	assert.Equal(t, map[string]string{"userId": "u1", "orderId": "o1"}, p.Metadata)
	require.Len(t, p.LineItems, 1)
	assert.Equal(t, int64(1900), *p.LineItems[0].PriceData.UnitAmount)
	assert.Equal(t, int64(1), *p.LineItems[0].Quantity)
	assert.Len(t, p.ShippingAddressCollection.AllowedCountries, 3)
	assert.Len(t, p.LineItems[0].PriceData.ProductData.Images, 1)
}
