package repository

import (
	"context"

	"github.com/kedaikopi/pos-api/internal/domain/entity"
	"github.com/kedaikopi/pos-api/internal/domain/enum"
)

// TableRepository defines the interface for dining table persistence
type TableRepository interface {
	Create(ctx context.Context, table *entity.DiningTable) error
	GetByTableNo(ctx context.Context, tableNo int) (*entity.DiningTable, error)
	List(ctx context.Context) ([]entity.DiningTable, error)
	UpdateStatus(ctx context.Context, tableNo int, status enum.TableStatus) error
}
