package request

// UpdateSettingsRequest partially updates store settings; omitted fields
// keep their current values
type UpdateSettingsRequest struct {
	StoreName    *string `json:"store_name"`
	StoreAddress *string `json:"store_address"`
	StorePhone   *string `json:"store_phone"`
	Currency     *string `json:"currency"`

	TaxRate     *float64 `json:"tax_rate"`
	ServiceRate *float64 `json:"service_rate"`

	RequireStartingCash *bool `json:"require_starting_cash"`
	RequireBlindClose   *bool `json:"require_blind_close"`
	AutoOpenDrawer      *bool `json:"auto_open_drawer"`
	EnableManagerAuth   *bool `json:"enable_manager_auth"`
}
