package request

import "github.com/google/uuid"

// AddProductRequest adds a catalog product to the cart
type AddProductRequest struct {
	ProductID uuid.UUID   `json:"product_id" binding:"required"`
	AddonIDs  []uuid.UUID `json:"addon_ids"`
	Quantity  int         `json:"quantity"`
}

// AddManualItemRequest adds a free-form priced line to the cart
type AddManualItemRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Price    int64  `json:"price" binding:"required,min=0"`
	Quantity int    `json:"quantity"`
}

// SetQuantityRequest changes a cart line quantity; zero removes the line
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// OrderInfoRequest attaches table and customer details to the cart
type OrderInfoRequest struct {
	TableNo      *int   `json:"table_no"`
	CustomerName string `json:"customer_name" binding:"max=255"`
	WaiterName   string `json:"waiter_name" binding:"max=255"`
}

// DiscountRequest applies a cart discount
type DiscountRequest struct {
	Type   string `json:"type" binding:"required,oneof=percentage fixed"`
	Value  int64  `json:"value" binding:"required,gt=0"`
	Reason string `json:"reason" binding:"required,max=255"`
}

// SplitRequest selects line quantities for a split bill payment
type SplitRequest struct {
	Selections map[uuid.UUID]int `json:"selections" binding:"required"`
}
