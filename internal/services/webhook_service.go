package services

import (
	"context"
	"log"
	"time"

	"caseshop/internal/domain"
	"caseshop/internal/infra/mailer"
	"caseshop/internal/infra/payment"
	"caseshop/internal/infra/rabbitmq"
	"caseshop/internal/metrics"
	"caseshop/internal/repository"
)

type WebhookService struct {
	orders    repository.OrderRepository
	mailer    mailer.Mailer
	publisher rabbitmq.PublisherInterface
	baseURL   string
}

func NewWebhookService(orders repository.OrderRepository, m mailer.Mailer, publisher rabbitmq.PublisherInterface, baseURL string) *WebhookService {
	return &WebhookService{
		orders:    orders,
		mailer:    m,
		publisher: publisher,
		baseURL:   baseURL,
	}
}

// HandleEvent applies a verified provider event. Only completed checkouts
// change state; every other type is acknowledged untouched. Validation runs
// before any write, and a redelivered completion is a no-op.
func (s *WebhookService) HandleEvent(ctx context.Context, evt *payment.Event) error {
	if evt.Type != payment.EventCheckoutCompleted || evt.Checkout == nil {
		metrics.WebhookEvents.WithLabelValues(evt.Type, "ignored").Inc()
		return nil
	}

	err := s.handleCheckoutCompleted(ctx, evt)
	outcome := "processed"
	if err != nil {
		outcome = "failed"
	}
	metrics.WebhookEvents.WithLabelValues(evt.Type, outcome).Inc()
	return err
}

func (s *WebhookService) handleCheckoutCompleted(ctx context.Context, evt *payment.Event) error {
	cs := evt.Checkout
	if cs.CustomerEmail == "" {
		return domain.ErrMissingEmail
	}

	userID, orderID := cs.Metadata["userId"], cs.Metadata["orderId"]
	if userID == "" || orderID == "" {
		return domain.ErrInvalidMetadata
	}

	shipping, billing, err := addressesFrom(cs)
	if err != nil {
		return err
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrOrderNotFound
	}
	if order.UserID != userID {
		return domain.ErrInvalidMetadata
	}
	if order.IsPaid {
		log.Printf("Order %s already paid, ignoring event %s", orderID, evt.ID)
		return nil
	}

	paid, err := s.orders.MarkPaid(ctx, orderID, shipping, billing)
	if err != nil {
		return err
	}
	if paid == nil {
		log.Printf("Order %s was paid concurrently, ignoring event %s", orderID, evt.ID)
		return nil
	}
	metrics.OrdersPaid.Inc()

	err = s.mailer.SendOrderReceived(ctx, mailer.OrderReceived{
		ToName:          cs.CustomerName,
		ToEmail:         cs.CustomerEmail,
		OrderID:         paid.ID,
		OrderDate:       paid.CreatedAt,
		Amount:          paid.Amount,
		ShippingAddress: shipping.AddressFields,
		BaseURL:         s.baseURL,
	})
	if err != nil {
		log.Printf("Failed to send confirmation for order %s: %v", paid.ID, err)
	}

	event := domain.OrderPaidEvent{
		OrderID: paid.ID,
		UserID:  paid.UserID,
		Amount:  paid.Amount,
		Email:   cs.CustomerEmail,
		PaidAt:  time.Now(),
	}
	go func() {
		if err := s.publisher.Publish(context.Background(), domain.EventOrderPaid, event); err != nil {
			log.Printf("Failed to publish order paid event: %v", err)
		}
	}()

	return nil
}

func addressesFrom(cs *payment.CheckoutCompleted) (*domain.ShippingAddress, *domain.BillingAddress, error) {
	shippingName := cs.ShippingName
	if shippingName == "" {
		shippingName = cs.CustomerName
	}

	shipping := addressFields(shippingName, cs.ShippingAddress)
	if err := shipping.Validate("shipping"); err != nil {
		return nil, nil, err
	}
	billing := addressFields(cs.CustomerName, cs.BillingAddress)
	if err := billing.Validate("billing"); err != nil {
		return nil, nil, err
	}

	return &domain.ShippingAddress{AddressFields: shipping}, &domain.BillingAddress{AddressFields: billing}, nil
}

func addressFields(name string, a *payment.Address) domain.AddressFields {
	f := domain.AddressFields{Name: name}
	if a == nil {
		return f
	}
	f.Street = a.Line1
	f.City = a.City
	f.PostalCode = a.PostalCode
	f.Country = a.Country
	if a.State != "" {
		state := a.State
		f.State = &state
	}
	return f
}
