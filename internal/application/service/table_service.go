package service

import (
	"context"

	"github.com/kedaikopi/pos-api/internal/domain/entity"
	"github.com/kedaikopi/pos-api/internal/domain/enum"
	"github.com/kedaikopi/pos-api/internal/domain/repository"
	"github.com/kedaikopi/pos-api/pkg/apperror"
)

// TableService answers floor questions. A table is occupied when its flag
// says so OR when an unsettled sale references its number; the sale rows
// are the source of truth, the flag just survives restarts.
type TableService struct {
	tableRepo repository.TableRepository
	saleRepo  repository.SaleRepository
}

// NewTableService creates a new table service
func NewTableService(tableRepo repository.TableRepository, saleRepo repository.SaleRepository) *TableService {
	return &TableService{
		tableRepo: tableRepo,
		saleRepo:  saleRepo,
	}
}

// TableView is a dining table with its derived occupancy.
type TableView struct {
	Table      entity.DiningTable `json:"table"`
	Occupied   bool               `json:"occupied"`
	ActiveSale *entity.Sale       `json:"active_sale,omitempty"`
}

// ListTables returns every table with occupancy derived from active sales.
func (s *TableService) ListTables(ctx context.Context) ([]TableView, error) {
	tables, err := s.tableRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	active, err := s.saleRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	activeByTable := make(map[int]*entity.Sale)
	for i := range active {
		if active[i].TableNo != nil {
			if _, taken := activeByTable[*active[i].TableNo]; !taken {
				activeByTable[*active[i].TableNo] = &active[i]
			}
		}
	}

	views := make([]TableView, 0, len(tables))
	for _, table := range tables {
		sale := activeByTable[table.TableNo]
		views = append(views, TableView{
			Table:      table,
			Occupied:   sale != nil || table.Status == enum.TableStatusOccupied,
			ActiveSale: sale,
		})
	}
	return views, nil
}

// GetTable returns one table with its occupancy.
func (s *TableService) GetTable(ctx context.Context, tableNo int) (*TableView, error) {
	table, err := s.tableRepo.GetByTableNo(ctx, tableNo)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, apperror.NewNotFoundError("Table")
	}

	sale, err := s.saleRepo.GetActiveByTable(ctx, tableNo)
	if err != nil {
		return nil, err
	}

	return &TableView{
		Table:      *table,
		Occupied:   sale != nil || table.Status == enum.TableStatusOccupied,
		ActiveSale: sale,
	}, nil
}

// CreateTable adds a table to the floor plan.
func (s *TableService) CreateTable(ctx context.Context, tableNo, seats int) (*entity.DiningTable, error) {
	if tableNo < 1 {
		return nil, apperror.NewBadRequestError("Table number must be positive")
	}
	if seats < 1 {
		seats = 2
	}

	existing, err := s.tableRepo.GetByTableNo(ctx, tableNo)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Table number already exists")
	}

	table := &entity.DiningTable{TableNo: tableNo, Seats: seats}
	if err := s.tableRepo.Create(ctx, table); err != nil {
		return nil, err
	}
	return table, nil
}

// ClearTable frees a table. A table with an unsettled sale cannot be
// cleared; the bill has to be paid or voided first. An active sale that
// somehow carries no items is dropped along with the flag. Clearing an
// already free table is a no-op.
func (s *TableService) ClearTable(ctx context.Context, tableNo int) error {
	table, err := s.tableRepo.GetByTableNo(ctx, tableNo)
	if err != nil {
		return err
	}
	if table == nil {
		return apperror.NewNotFoundError("Table")
	}

	sale, err := s.saleRepo.GetActiveByTable(ctx, tableNo)
	if err != nil {
		return err
	}
	if sale != nil {
		full, err := s.saleRepo.GetWithItems(ctx, sale.ID)
		if err != nil {
			return err
		}
		if full != nil && len(full.Items) > 0 {
			return apperror.ErrTableHasActiveOrder
		}
		if err := s.saleRepo.Delete(ctx, sale.ID); err != nil {
			return err
		}
		return s.tableRepo.UpdateStatus(ctx, tableNo, enum.TableStatusAvailable)
	}

	if table.Status == enum.TableStatusAvailable {
		return nil
	}
	return s.tableRepo.UpdateStatus(ctx, tableNo, enum.TableStatusAvailable)
}
