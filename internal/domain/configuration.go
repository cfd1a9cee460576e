package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Default source dimensions used when the uploaded image cannot be measured.
const (
	DefaultImageWidth  = 500
	DefaultImageHeight = 500
)

type Configuration struct {
	ID              string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ImageURL        string        `json:"imageUrl" gorm:"type:text;not null"`
	Width           int           `json:"width" gorm:"not null"`
	Height          int           `json:"height" gorm:"not null"`
	CroppedImageURL *string       `json:"croppedImageUrl" gorm:"type:text"`
	Color           *CaseColor    `json:"color" gorm:"type:varchar(16)"`
	Model           *PhoneModel   `json:"model" gorm:"type:varchar(16)"`
	Material        *CaseMaterial `json:"material" gorm:"type:varchar(16)"`
	Finish          *CaseFinish   `json:"finish" gorm:"type:varchar(16)"`
	CreatedAt       time.Time     `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt       time.Time     `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (c *Configuration) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Selected returns the chosen options, falling back to the first option of
// every group that has not been chosen yet.
func (c *Configuration) Selected() Options {
	o := Options{
		Color:    Colors[0],
		Model:    Models[0],
		Material: Materials[0],
		Finish:   Finishes[0],
	}
	if c.Color != nil {
		o.Color = *c.Color
	}
	if c.Model != nil {
		o.Model = *c.Model
	}
	if c.Material != nil {
		o.Material = *c.Material
	}
	if c.Finish != nil {
		o.Finish = *c.Finish
	}
	return o
}
