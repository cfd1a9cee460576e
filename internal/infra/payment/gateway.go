// Package payment talks to the hosted-checkout provider.
package payment

import (
	"context"
	"errors"
)

const EventCheckoutCompleted = "checkout.session.completed"

var ErrInvalidSignature = errors.New("payment: invalid webhook signature")

type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	ParseWebhook(payload []byte, signature string) (*Event, error)
}

type CheckoutRequest struct {
	ProductName      string
	ImageURL         string
	Amount           int64
	Currency         string
	SuccessURL       string
	CancelURL        string
	PaymentMethods   []string
	AllowedCountries []string
	Metadata         map[string]string
}

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Address is a provider address. Absent fields are empty strings.
type Address struct {
	Line1      string `json:"line1"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// CheckoutCompleted carries the fields of a completed checkout session the
// storefront acts on. Nil addresses mean the provider sent none.
type CheckoutCompleted struct {
	SessionID       string            `json:"sessionId"`
	Metadata        map[string]string `json:"metadata"`
	CustomerEmail   string            `json:"customerEmail"`
	CustomerName    string            `json:"customerName"`
	BillingAddress  *Address          `json:"billingAddress"`
	ShippingName    string            `json:"shippingName"`
	ShippingAddress *Address          `json:"shippingAddress"`
}

// Event is a verified webhook event.
type Event struct {
	ID       string             `json:"id"`
	Type     string             `json:"type"`
	Checkout *CheckoutCompleted `json:"checkout,omitempty"`
}
