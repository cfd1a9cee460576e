package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"caseshop/internal/auth"
	"caseshop/internal/domain"
	"caseshop/internal/infra/payment"
	"caseshop/internal/infra/rabbitmq"
	"caseshop/internal/metrics"
	"caseshop/internal/pricing"
	"caseshop/internal/repository"
)

const ProductName = "Custom iPhone Case"

var (
	checkoutPaymentMethods   = []string{"card", "paypal"}
	checkoutAllowedCountries = []string{"DE", "US", "NL"}
)

type CheckoutService struct {
	configs   repository.ConfigurationRepository
	orders    repository.OrderRepository
	users     *UserService
	gateway   payment.Gateway
	publisher rabbitmq.PublisherInterface
	baseURL   string
}

func NewCheckoutService(
	configs repository.ConfigurationRepository,
	orders repository.OrderRepository,
	users *UserService,
	gateway payment.Gateway,
	publisher rabbitmq.PublisherInterface,
	baseURL string,
) *CheckoutService {
	return &CheckoutService{
		configs:   configs,
		orders:    orders,
		users:     users,
		gateway:   gateway,
		publisher: publisher,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

type CheckoutResult struct {
	URL       string `json:"url"`
	OrderID   string `json:"orderId"`
	SessionID string `json:"-"`
}

// CreateCheckoutSession prices the configuration, reuses or creates the
// caller's order for it and opens a hosted checkout session. Repeated calls
// for the same (user, configuration) pair never create a second order.
func (s *CheckoutService) CreateCheckoutSession(ctx context.Context, sess auth.Session, configID string) (*CheckoutResult, error) {
	cfg, err := s.configs.FindByID(ctx, configID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, domain.ErrConfigurationNotFound
	}

	if !sess.Complete() {
		return nil, domain.ErrNotLoggedIn
	}
	if err := s.users.EnsureUser(ctx, sess); err != nil {
		return nil, err
	}

	amount := pricing.ForConfiguration(cfg)

	order, created, err := s.orders.FindOrCreate(ctx, &domain.Order{
		UserID:          sess.UserID,
		ConfigurationID: cfg.ID,
		Amount:          amount,
		Status:          domain.StatusAwaitingShipment,
	})
	if err != nil {
		return nil, err
	}
	if !created && !order.IsPaid && order.Amount != amount {
		if err := s.orders.UpdateAmount(ctx, order.ID, amount); err != nil {
			return nil, err
		}
		log.Printf("Order %s repriced from %d to %d", order.ID, order.Amount, amount)
		order.Amount = amount
	}

	imageURL := cfg.ImageURL
	if cfg.CroppedImageURL != nil && *cfg.CroppedImageURL != "" {
		imageURL = *cfg.CroppedImageURL
	}

	cs, err := s.gateway.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		ProductName:      ProductName,
		ImageURL:         imageURL,
		Amount:           amount,
		Currency:         pricing.Currency,
		SuccessURL:       fmt.Sprintf("%s/thank-you?orderId=%s", s.baseURL, order.ID),
		CancelURL:        fmt.Sprintf("%s/configure/preview?id=%s", s.baseURL, cfg.ID),
		PaymentMethods:   checkoutPaymentMethods,
		AllowedCountries: checkoutAllowedCountries,
		Metadata: map[string]string{
			"userId":  sess.UserID,
			"orderId": order.ID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	if created {
		metrics.CheckoutSessions.WithLabelValues("new").Inc()
		event := domain.OrderCreatedEvent{
			OrderID:         order.ID,
			UserID:          order.UserID,
			ConfigurationID: order.ConfigurationID,
			Amount:          order.Amount,
			CreatedAt:       order.CreatedAt,
		}
		go func() {
			if err := s.publisher.Publish(context.Background(), domain.EventOrderCreated, event); err != nil {
				log.Printf("Failed to publish order created event: %v", err)
			}
		}()
	} else {
		metrics.CheckoutSessions.WithLabelValues("existing").Inc()
	}

	return &CheckoutResult{URL: cs.URL, OrderID: order.ID, SessionID: cs.ID}, nil
}
