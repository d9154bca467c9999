package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceStatus is the closed set of states an invoice can be in.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// ParseInvoiceStatus maps a raw value onto the enum.
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	switch InvoiceStatus(s) {
	case InvoiceStatusPending, InvoiceStatusPaid:
		return InvoiceStatus(s), nil
	default:
		return "", fmt.Errorf("invalid invoice status %q", s)
	}
}

func (s InvoiceStatus) Value() (driver.Value, error) {
	if _, err := ParseInvoiceStatus(string(s)); err != nil {
		return nil, err
	}
	return string(s), nil
}

func (s *InvoiceStatus) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into InvoiceStatus", value)
	}
	parsed, err := ParseInvoiceStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Invoice amounts are stored in cents.
type Invoice struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID uuid.UUID     `gorm:"type:uuid;index;not null" json:"customer_id"`
	Amount     int64         `gorm:"not null" json:"amount"`
	Status     InvoiceStatus `gorm:"type:varchar(16);not null" json:"status"`
	Date       time.Time     `gorm:"type:date;index;not null" json:"date"`

	Customer Customer `gorm:"foreignKey:CustomerID" json:"-"`
}

// Initialize UUID before creating
func (i *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
