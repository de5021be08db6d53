package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kedaikopi/pos-api/internal/domain/entity"
	"github.com/kedaikopi/pos-api/internal/domain/enum"
	"github.com/kedaikopi/pos-api/pkg/pagination"
)

// SaleRepository defines the interface for sale data operations
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	Update(ctx context.Context, sale *entity.Sale) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.SaleStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
	// ListActive returns Unpaid/Pending sales, used for table occupancy.
	ListActive(ctx context.Context) ([]entity.Sale, error)
	// GetActiveByTable returns the active sale referencing a table, or nil.
	GetActiveByTable(ctx context.Context, tableNo int) (*entity.Sale, error)
	// TotalsByPaymentType sums paid sales attributed to a session, split by
	// payment type. Attribution is by the sale's session_id; rows without a
	// session reference fall back to the created_at >= openedAt range.
	TotalsByPaymentType(ctx context.Context, sessionID uuid.UUID, openedAt time.Time) (SessionSalesTotals, error)
}

// SessionSalesTotals carries per-method sale subtotals for a session.
type SessionSalesTotals struct {
	Cash  int64
	Card  int64
	Qris  int64
	Total int64
}

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.SaleStatus
	SessionID  *uuid.UUID
	TableNo    *int
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}

// SaleItemRepository defines the interface for sale line item operations
type SaleItemRepository interface {
	CreateBatch(ctx context.Context, items []entity.SaleItem) error
	GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]entity.SaleItem, error)
	DeleteBySaleID(ctx context.Context, saleID uuid.UUID) error
}
