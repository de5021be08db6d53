package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/kedaikopi/pos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Sale represents a recorded transaction. All amounts are whole Rupiah.
// SessionID links the sale to the cashier session that recorded it; older
// rows may have a nil SessionID and are attributed by timestamp range
// instead.
type Sale struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	UserID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	SessionID    *uuid.UUID       `gorm:"type:uuid;index" json:"session_id,omitempty"`
	SaleNumber   string           `gorm:"size:100;unique;not null" json:"sale_number"`
	Status       enum.SaleStatus  `gorm:"default:0" json:"status"`
	TableNo      *int             `gorm:"index" json:"table_no,omitempty"`
	CustomerName string           `gorm:"size:255" json:"customer_name,omitempty"`
	WaiterName   string           `gorm:"size:255" json:"waiter_name,omitempty"`
	Subtotal     int64            `gorm:"default:0" json:"subtotal"`
	Discount     int64            `gorm:"default:0" json:"discount"`
	DiscountNote string           `gorm:"size:255" json:"discount_note,omitempty"`
	Tax          int64            `gorm:"default:0" json:"tax"`
	Service      int64            `gorm:"default:0" json:"service"`
	Total        int64            `gorm:"default:0" json:"total"`
	PaymentType  enum.PaymentType `gorm:"size:20" json:"payment_type,omitempty"`
	Tendered     int64            `gorm:"default:0" json:"tendered"`
	Change       int64            `gorm:"default:0" json:"change"`
	EWalletTag   string           `gorm:"size:100" json:"ewallet_tag,omitempty"`
	IsSplit      bool             `gorm:"default:false" json:"is_split"`
	PaidAt       *time.Time       `json:"paid_at,omitempty"`
	CreatedAt    time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	User    User       `gorm:"foreignKey:UserID" json:"-"`
	Session *CashierSession `gorm:"foreignKey:SessionID" json:"-"`
	Items   []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// SaleItem is a persisted cart line. ProductID is nil for manual entries.
type SaleItem struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	SaleID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID *uuid.UUID     `gorm:"type:uuid;index" json:"product_id,omitempty"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	UnitPrice int64          `gorm:"not null" json:"unit_price"`
	Quantity  int            `gorm:"not null" json:"quantity"`
	LineTotal int64          `gorm:"not null" json:"line_total"`
	IsManual  bool           `gorm:"default:false" json:"is_manual"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Sale   Sale            `gorm:"foreignKey:SaleID" json:"-"`
	Addons []SaleItemAddon `gorm:"foreignKey:SaleItemID" json:"addons,omitempty"`
}

// BeforeCreate generates a UUID before creating a new sale item
func (si *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if si.ID == uuid.Nil {
		si.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}

// SaleItemAddon is a snapshot of an addon chosen for a sale item.
type SaleItemAddon struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	SaleItemID uuid.UUID  `gorm:"type:uuid;not null;index" json:"sale_item_id"`
	AddonID    *uuid.UUID `gorm:"type:uuid" json:"addon_id,omitempty"`
	Name       string     `gorm:"size:255;not null" json:"name"`
	Price      int64      `gorm:"not null" json:"price"`
	CreatedAt  time.Time  `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new sale item addon
func (sa *SaleItemAddon) BeforeCreate(tx *gorm.DB) error {
	if sa.ID == uuid.Nil {
		sa.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItemAddon model
func (SaleItemAddon) TableName() string {
	return "sale_item_addons"
}
