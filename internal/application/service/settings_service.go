package service

import (
	"context"

	"github.com/kedaikopi/pos-api/internal/domain/entity"
	"github.com/kedaikopi/pos-api/internal/domain/repository"
	"github.com/kedaikopi/pos-api/pkg/apperror"
)

// SettingsService manages the store-level POS configuration row.
type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// GetSettings returns the store settings, creating the default row on
// first access.
func (s *SettingsService) GetSettings(ctx context.Context) (*entity.StoreSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = entity.DefaultStoreSettings()
		if err := s.settingsRepo.Create(ctx, settings); err != nil {
			return nil, err
		}
	}
	return settings, nil
}

// UpdateSettingsInput represents a partial settings update. Nil fields
// keep their current value.
type UpdateSettingsInput struct {
	StoreName    *string
	StoreAddress *string
	StorePhone   *string
	Currency     *string

	TaxRate     *float64
	ServiceRate *float64

	RequireStartingCash *bool
	RequireBlindClose   *bool
	AutoOpenDrawer      *bool
	EnableManagerAuth   *bool
}

// UpdateSettings applies a partial update. Only managers may change store
// settings; the handler enforces the role, this validates the values.
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.StoreSettings, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	if input.StoreName != nil {
		if *input.StoreName == "" {
			return nil, apperror.NewBadRequestError("Store name cannot be empty")
		}
		settings.StoreName = *input.StoreName
	}
	if input.StoreAddress != nil {
		settings.StoreAddress = *input.StoreAddress
	}
	if input.StorePhone != nil {
		settings.StorePhone = *input.StorePhone
	}
	if input.Currency != nil {
		settings.Currency = *input.Currency
	}
	if input.TaxRate != nil {
		settings.TaxRate = *input.TaxRate
	}
	if input.ServiceRate != nil {
		settings.ServiceRate = *input.ServiceRate
	}
	if input.RequireStartingCash != nil {
		settings.RequireStartingCash = *input.RequireStartingCash
	}
	if input.RequireBlindClose != nil {
		settings.RequireBlindClose = *input.RequireBlindClose
	}
	if input.AutoOpenDrawer != nil {
		settings.AutoOpenDrawer = *input.AutoOpenDrawer
	}
	if input.EnableManagerAuth != nil {
		settings.EnableManagerAuth = *input.EnableManagerAuth
	}

	settings.Validate()

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
