package services

import (
	"time"

	"caseshop/internal/auth"
	"caseshop/internal/domain"
	"caseshop/internal/infra/payment"
)

func CreateMockConfiguration(id string, o domain.Options) *domain.Configuration {
	c := &domain.Configuration{
		ID:       id,
		ImageURL: "https://cdn.example.com/" + id + ".png",
		Width:    TestImageWidth,
		Height:   TestImageHeight,
	}
	if o != (domain.Options{}) {
		c.Color = &o.Color
		c.Model = &o.Model
		c.Material = &o.Material
		c.Finish = &o.Finish
	}
	return c
}

func CreateMockOrder(id, userID, configID string, amount int64, paid bool) *domain.Order {
	return &domain.Order{
		ID:              id,
		UserID:          userID,
		ConfigurationID: configID,
		Amount:          amount,
		IsPaid:          paid,
		Status:          domain.StatusAwaitingShipment,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
}

func CreateMockCheckoutEvent(userID, orderID string) *payment.Event {
	addr := &payment.Address{
		Line1:      "Main St 1",
		City:       "Berlin",
		PostalCode: "10115",
		Country:    "DE",
	}
	return &payment.Event{
		ID:   "evt_test",
		Type: payment.EventCheckoutCompleted,
		Checkout: &payment.CheckoutCompleted{
			SessionID:       "cs_test",
			Metadata:        map[string]string{"userId": userID, "orderId": orderID},
			CustomerEmail:   TestEmail,
			CustomerName:    "Jane Doe",
			BillingAddress:  addr,
			ShippingName:    "Jane Doe",
			ShippingAddress: addr,
		},
	}
}

var TestSession = auth.Session{UserID: TestUserID, Email: TestEmail}

const (
	TestUserID      = "kp_user_1"
	TestOtherUserID = "kp_user_2"
	TestEmail       = "jane@example.com"
	TestConfigID    = "cfg-1"
	TestOrderID     = "order-1"
	TestImageWidth  = 800
	TestImageHeight = 600
	TestBaseURL     = "https://shop.example.com"
)
