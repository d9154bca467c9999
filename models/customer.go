package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"not null;index" json:"name"`
	Email    string    `gorm:"not null" json:"email"`
	ImageURL string    `gorm:"column:image_url;not null" json:"image_url"`

	Invoices []Invoice `gorm:"foreignKey:CustomerID" json:"-"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
