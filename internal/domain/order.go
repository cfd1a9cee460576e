package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus tracks fulfillment. It is independent of IsPaid.
type OrderStatus string

const (
	StatusAwaitingShipment OrderStatus = "awaiting_shipment"
	StatusShipped          OrderStatus = "shipped"
	StatusFulfilled        OrderStatus = "fulfilled"
)

var OrderStatuses = []OrderStatus{StatusAwaitingShipment, StatusShipped, StatusFulfilled}

func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

type Order struct {
	ID                string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID            string           `json:"userId" gorm:"type:varchar(64);not null;uniqueIndex:idx_orders_user_configuration,priority:1"`
	User              *User            `json:"user,omitempty"`
	ConfigurationID   string           `json:"configurationId" gorm:"type:varchar(36);not null;uniqueIndex:idx_orders_user_configuration,priority:2"`
	Configuration     *Configuration   `json:"configuration,omitempty"`
	Amount            int64            `json:"amount" gorm:"not null"`
	IsPaid            bool             `json:"isPaid" gorm:"not null;default:false;index"`
	Status            OrderStatus      `json:"status" gorm:"type:varchar(32);not null;default:'awaiting_shipment'"`
	ShippingAddressID *string          `json:"shippingAddressId" gorm:"type:varchar(36)"`
	ShippingAddress   *ShippingAddress `json:"shippingAddress,omitempty"`
	BillingAddressID  *string          `json:"billingAddressId" gorm:"type:varchar(36)"`
	BillingAddress    *BillingAddress  `json:"billingAddress,omitempty"`
	CreatedAt         time.Time        `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt         time.Time        `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
