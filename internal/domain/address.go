package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AddressFields struct {
	Name       string  `json:"name" gorm:"type:varchar(255);not null"`
	Street     string  `json:"street" gorm:"type:varchar(255);not null"`
	City       string  `json:"city" gorm:"type:varchar(255);not null"`
	State      *string `json:"state" gorm:"type:varchar(255)"`
	PostalCode string  `json:"postalCode" gorm:"type:varchar(32);not null"`
	Country    string  `json:"country" gorm:"type:varchar(8);not null"`
}

// Validate reports every required field that is empty. kind names the address
// ("shipping", "billing") in the returned *IncompleteAddressError.
func (a AddressFields) Validate(kind string) error {
	var missing []string
	if a.Name == "" {
		missing = append(missing, "name")
	}
	if a.Street == "" {
		missing = append(missing, "street")
	}
	if a.City == "" {
		missing = append(missing, "city")
	}
	if a.PostalCode == "" {
		missing = append(missing, "postalCode")
	}
	if a.Country == "" {
		missing = append(missing, "country")
	}
	if len(missing) > 0 {
		return &IncompleteAddressError{Kind: kind, Missing: missing}
	}
	return nil
}

type ShippingAddress struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`

	AddressFields `gorm:"embedded"`
}

func (a *ShippingAddress) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

type BillingAddress struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`

	AddressFields `gorm:"embedded"`
}

func (a *BillingAddress) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
