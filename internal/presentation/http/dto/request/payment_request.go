package request

import "github.com/google/uuid"

// PaymentRequest settles a bill. When SaleID is set, a previously saved
// sale is settled; when Split is set, only the selected portion of the
// cart is paid.
type PaymentRequest struct {
	SaleID      *uuid.UUID        `json:"sale_id"`
	Split       map[uuid.UUID]int `json:"split"`
	PaymentType string            `json:"payment_type" binding:"required,oneof=cash card qris"`
	Tendered    int64             `json:"tendered" binding:"min=0"`
	EWalletTag  string            `json:"ewallet_tag" binding:"max=100"`
}
