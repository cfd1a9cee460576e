package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"
	"github.com/stripe/stripe-go/v80/webhook"
)

type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

var _ Gateway = (*StripeGateway)(nil)

func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	return &StripeGateway{
		api:           client.New(secretKey, nil),
		webhookSecret: webhookSecret,
	}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	params := checkoutParams(req)
	params.Context = ctx

	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}
	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func checkoutParams(req CheckoutRequest) *stripe.CheckoutSessionParams {
	product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(req.ProductName),
	}
	if req.ImageURL != "" {
		product.Images = []*string{stripe.String(req.ImageURL)}
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
		PaymentMethodTypes: stripe.StringSlice(req.PaymentMethods),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(req.AllowedCountries),
		},
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:    stripe.String(req.Currency),
					UnitAmount:  stripe.Int64(req.Amount),
					ProductData: product,
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	return params
}

// ParseWebhook verifies the Stripe-Signature header against the raw payload
// before decoding anything from it.
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*Event, error) {
	evt, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &Event{ID: evt.ID, Type: string(evt.Type)}
	if evt.Type != stripe.EventTypeCheckoutSessionCompleted {
		return out, nil
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(evt.Data.Raw, &cs); err != nil {
		return nil, fmt.Errorf("stripe: decode checkout session: %w", err)
	}
	out.Checkout = completedFromSession(&cs)
	return out, nil
}

func completedFromSession(cs *stripe.CheckoutSession) *CheckoutCompleted {
	out := &CheckoutCompleted{
		SessionID: cs.ID,
		Metadata:  cs.Metadata,
	}
	if d := cs.CustomerDetails; d != nil {
		out.CustomerEmail = d.Email
		out.CustomerName = d.Name
		out.BillingAddress = fromStripeAddress(d.Address)
	}
	if d := cs.ShippingDetails; d != nil {
		out.ShippingName = d.Name
		out.ShippingAddress = fromStripeAddress(d.Address)
	}
	return out
}

func fromStripeAddress(a *stripe.Address) *Address {
	if a == nil {
		return nil
	}
	return &Address{
		Line1:      a.Line1,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}
