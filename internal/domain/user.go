package domain

import "time"

// User mirrors an identity-provider account. ID is the provider subject.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Email     string    `json:"email" gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}
