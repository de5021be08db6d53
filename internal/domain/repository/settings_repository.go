package repository

import (
	"context"

	"github.com/kedaikopi/pos-api/internal/domain/entity"
)

// SettingsRepository defines the interface for the store settings row
type SettingsRepository interface {
	// Get returns the settings row, or nil if the store is not configured.
	Get(ctx context.Context) (*entity.StoreSettings, error)
	Create(ctx context.Context, settings *entity.StoreSettings) error
	Update(ctx context.Context, settings *entity.StoreSettings) error
}
