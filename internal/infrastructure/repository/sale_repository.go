package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kedaikopi/pos-api/internal/domain/entity"
	"github.com/kedaikopi/pos-api/internal/domain/enum"
	domainRepo "github.com/kedaikopi/pos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Addons").
		Preload("User").
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) Update(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Save(sale).Error
}

func (r *saleRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.SaleStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Sale{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *saleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Sale{}, "id = ?", id).Error
}

func (r *saleRepository) List(ctx context.Context, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Sale{})

	if params.Search != "" {
		query = query.Where("sale_number ILIKE ? OR customer_name ILIKE ?", "%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.SessionID != nil {
		query = query.Where("session_id = ?", *params.SessionID)
	}

	if params.TableNo != nil {
		query = query.Where("table_no = ?", *params.TableNo)
	}

	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sorting
	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder != "" && (params.SortOrder == "ASC" || params.SortOrder == "asc") {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Items").
		Order(sortBy + " " + sortOrder).
		Find(&sales).Error

	return sales, total, err
}

func (r *saleRepository) ListActive(ctx context.Context) ([]entity.Sale, error) {
	var sales []entity.Sale
	err := r.db.WithContext(ctx).
		Where("status IN ?", []enum.SaleStatus{enum.SaleStatusUnpaid, enum.SaleStatusPending}).
		Order("created_at ASC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepository) GetActiveByTable(ctx context.Context, tableNo int) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).
		Where("table_no = ? AND status IN ?", tableNo, []enum.SaleStatus{enum.SaleStatusUnpaid, enum.SaleStatusPending}).
		Order("created_at DESC").
		First(&sale).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) TotalsByPaymentType(ctx context.Context, sessionID uuid.UUID, openedAt time.Time) (domainRepo.SessionSalesTotals, error) {
	var rows []struct {
		PaymentType string
		Amount      int64
	}

	// session_id is authoritative; rows recorded before the column existed
	// carry a NULL and are attributed by timestamp range instead.
	err := r.db.WithContext(ctx).Model(&entity.Sale{}).
		Select("payment_type, COALESCE(SUM(total), 0) AS amount").
		Where("status = ?", enum.SaleStatusPaid).
		Where("session_id = ? OR (session_id IS NULL AND created_at >= ?)", sessionID, openedAt).
		Group("payment_type").
		Scan(&rows).Error
	if err != nil {
		return domainRepo.SessionSalesTotals{}, err
	}

	var totals domainRepo.SessionSalesTotals
	for _, row := range rows {
		switch enum.PaymentType(row.PaymentType) {
		case enum.PaymentTypeCash:
			totals.Cash += row.Amount
		case enum.PaymentTypeCard:
			totals.Card += row.Amount
		case enum.PaymentTypeQris:
			totals.Qris += row.Amount
		}
		totals.Total += row.Amount
	}
	return totals, nil
}

type saleItemRepository struct {
	db *gorm.DB
}

// NewSaleItemRepository creates a new sale item repository
func NewSaleItemRepository(db *gorm.DB) domainRepo.SaleItemRepository {
	return &saleItemRepository{db: db}
}

func (r *saleItemRepository) CreateBatch(ctx context.Context, items []entity.SaleItem) error {
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *saleItemRepository) GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]entity.SaleItem, error) {
	var items []entity.SaleItem
	err := r.db.WithContext(ctx).
		Preload("Addons").
		Where("sale_id = ?", saleID).
		Find(&items).Error
	return items, err
}

func (r *saleItemRepository) DeleteBySaleID(ctx context.Context, saleID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.SaleItem{}, "sale_id = ?", saleID).Error
}
