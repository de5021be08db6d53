package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/kedaikopi/pos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// DiningTable is a physical table. Its Status flag is only half of the
// occupancy story: a table also counts as occupied while an active sale
// references its number.
type DiningTable struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	TableNo   int              `gorm:"unique;not null" json:"table_no"`
	Seats     int              `gorm:"default:2" json:"seats"`
	Status    enum.TableStatus `gorm:"default:0" json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new table
func (t *DiningTable) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DiningTable model
func (DiningTable) TableName() string {
	return "dining_tables"
}
