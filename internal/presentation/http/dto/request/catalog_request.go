package request

import "github.com/google/uuid"

// AddonRequest defines a product addon
type AddonRequest struct {
	Name  string `json:"name" binding:"required,max=255"`
	Price int64  `json:"price" binding:"min=0"`
}

// CreateProductRequest creates a catalog product
type CreateProductRequest struct {
	Name       string         `json:"name" binding:"required,max=255"`
	Price      int64          `json:"price" binding:"min=0"`
	Stock      int            `json:"stock" binding:"min=0"`
	StockAlert int            `json:"stock_alert" binding:"min=0"`
	CategoryID *uuid.UUID     `json:"category_id"`
	ImageURL   *string        `json:"image_url"`
	Addons     []AddonRequest `json:"addons"`
}

// UpdateProductRequest partially updates a product
type UpdateProductRequest struct {
	Name       *string    `json:"name"`
	Price      *int64     `json:"price"`
	Stock      *int       `json:"stock"`
	StockAlert *int       `json:"stock_alert"`
	CategoryID *uuid.UUID `json:"category_id"`
	ImageURL   *string    `json:"image_url"`
}

// CreateCategoryRequest creates a product category
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// CreateTableRequest adds a dining table to the floor plan
type CreateTableRequest struct {
	TableNo int `json:"table_no" binding:"required,min=1"`
	Seats   int `json:"seats" binding:"min=1"`
}
