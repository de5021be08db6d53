package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/kedaikopi/pos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// CashierSession is one cashier's cash-handling shift, from declared
// starting cash to reconciled closing cash. Closing fields stay zero until
// the shift is closed; a closed session is never mutated again.
type CashierSession struct {
	ID           uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	UserID       uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	BranchID     *uuid.UUID         `gorm:"type:uuid" json:"branch_id,omitempty"`
	Status       enum.SessionStatus `gorm:"default:0" json:"status"`
	OpenedAt     time.Time          `gorm:"not null;index" json:"opened_at"`
	ClosedAt     *time.Time         `json:"closed_at,omitempty"`
	StartingCash int64              `gorm:"default:0" json:"starting_cash"`
	OpeningNotes string             `gorm:"type:text" json:"opening_notes,omitempty"`

	// Closing figures, written once on close.
	CashSales    int64  `gorm:"default:0" json:"cash_sales"`
	CardSales    int64  `gorm:"default:0" json:"card_sales"`
	QrisSales    int64  `gorm:"default:0" json:"qris_sales"`
	TotalSales   int64  `gorm:"default:0" json:"total_sales"`
	ExpectedCash int64  `gorm:"default:0" json:"expected_cash"`
	ActualCash   int64  `gorm:"default:0" json:"actual_cash"`
	Difference   int64  `gorm:"default:0" json:"difference"`
	ClosingNotes string `gorm:"type:text" json:"closing_notes,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new session
func (s *CashierSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CashierSession model
func (CashierSession) TableName() string {
	return "cashier_sessions"
}

// IsOpen reports whether the shift is still accepting sales.
func (s *CashierSession) IsOpen() bool {
	return s.Status == enum.SessionStatusOpen
}
