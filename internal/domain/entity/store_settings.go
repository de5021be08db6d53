package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoreSettings is the single row of store-level POS configuration. It is a
// closed, typed structure with seeded defaults; rates are percentages
// (TaxRate 10 means 10%).
type StoreSettings struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StoreName    string    `gorm:"size:255;default:'Kedai Kopi'" json:"store_name"`
	StoreAddress string    `gorm:"type:text" json:"store_address,omitempty"`
	StorePhone   string    `gorm:"size:50" json:"store_phone,omitempty"`
	Currency     string    `gorm:"size:10;default:'IDR'" json:"currency"`

	TaxRate     float64 `gorm:"default:0" json:"tax_rate"`
	ServiceRate float64 `gorm:"default:0" json:"service_rate"`

	RequireStartingCash bool `gorm:"default:true" json:"require_starting_cash"`
	RequireBlindClose   bool `gorm:"default:false" json:"require_blind_close"`
	AutoOpenDrawer      bool `gorm:"default:true" json:"auto_open_drawer"`
	EnableManagerAuth   bool `gorm:"default:false" json:"enable_manager_auth"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating new settings
func (s *StoreSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StoreSettings model
func (StoreSettings) TableName() string {
	return "store_settings"
}

// DefaultStoreSettings returns the seeded configuration for a new install.
func DefaultStoreSettings() *StoreSettings {
	return &StoreSettings{
		StoreName:           "Kedai Kopi",
		Currency:            "IDR",
		TaxRate:             10,
		ServiceRate:         5,
		RequireStartingCash: true,
		RequireBlindClose:   false,
		AutoOpenDrawer:      true,
		EnableManagerAuth:   false,
	}
}

// Validate clamps nonsense rate values instead of failing the whole store.
func (s *StoreSettings) Validate() {
	if s.TaxRate < 0 {
		s.TaxRate = 0
	}
	if s.ServiceRate < 0 {
		s.ServiceRate = 0
	}
	if s.Currency == "" {
		s.Currency = "IDR"
	}
}
