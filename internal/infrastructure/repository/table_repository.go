package repository

import (
	"context"
	"errors"

	"github.com/kedaikopi/pos-api/internal/domain/entity"
	"github.com/kedaikopi/pos-api/internal/domain/enum"
	domainRepo "github.com/kedaikopi/pos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type tableRepository struct {
	db *gorm.DB
}

// NewTableRepository creates a new dining table repository
func NewTableRepository(db *gorm.DB) domainRepo.TableRepository {
	return &tableRepository{db: db}
}

func (r *tableRepository) Create(ctx context.Context, table *entity.DiningTable) error {
	return r.db.WithContext(ctx).Create(table).Error
}

func (r *tableRepository) GetByTableNo(ctx context.Context, tableNo int) (*entity.DiningTable, error) {
	var table entity.DiningTable
	err := r.db.WithContext(ctx).First(&table, "table_no = ?", tableNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &table, err
}

func (r *tableRepository) List(ctx context.Context) ([]entity.DiningTable, error) {
	var tables []entity.DiningTable
	err := r.db.WithContext(ctx).
		Order("table_no ASC").
		Find(&tables).Error
	return tables, err
}

func (r *tableRepository) UpdateStatus(ctx context.Context, tableNo int, status enum.TableStatus) error {
	return r.db.WithContext(ctx).Model(&entity.DiningTable{}).
		Where("table_no = ?", tableNo).
		Update("status", status).Error
}
