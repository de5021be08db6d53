package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/kedaikopi/pos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// PaymentMethod is a configured way to pay (Cash, Debit Card, QRIS/GoPay...).
// Type decides the validation rules; Name is what prints on the receipt.
type PaymentMethod struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Name      string           `gorm:"size:100;not null" json:"name"`
	Type      enum.PaymentType `gorm:"size:20;not null" json:"type"`
	IsActive  bool             `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new payment method
func (m *PaymentMethod) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PaymentMethod model
func (PaymentMethod) TableName() string {
	return "payment_methods"
}
