package domain

import "time"

const (
	EventOrderCreated       = "order.created"
	EventOrderPaid          = "order.paid"
	EventOrderStatusChanged = "order.status_changed"
)

type OrderCreatedEvent struct {
	OrderID         string    `json:"orderId"`
	UserID          string    `json:"userId"`
	ConfigurationID string    `json:"configurationId"`
	Amount          int64     `json:"amount"`
	CreatedAt       time.Time `json:"createdAt"`
}

type OrderPaidEvent struct {
	OrderID string    `json:"orderId"`
	UserID  string    `json:"userId"`
	Amount  int64     `json:"amount"`
	Email   string    `json:"email"`
	PaidAt  time.Time `json:"paidAt"`
}

type OrderStatusChangedEvent struct {
	OrderID   string      `json:"orderId"`
	Status    OrderStatus `json:"status"`
	ChangedAt time.Time   `json:"changedAt"`
}
