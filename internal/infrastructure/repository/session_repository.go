package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kedaikopi/pos-api/internal/domain/entity"
	"github.com/kedaikopi/pos-api/internal/domain/enum"
	domainRepo "github.com/kedaikopi/pos-api/internal/domain/repository"
	"github.com/kedaikopi/pos-api/pkg/pagination"
	"gorm.io/gorm"
)

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new cashier session repository
func NewSessionRepository(db *gorm.DB) domainRepo.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *entity.CashierSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CashierSession, error) {
	var session entity.CashierSession
	err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *sessionRepository) GetOpenByUser(ctx context.Context, userID uuid.UUID) (*entity.CashierSession, error) {
	var session entity.CashierSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, enum.SessionStatusOpen).
		Order("opened_at DESC").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *sessionRepository) Update(ctx context.Context, session *entity.CashierSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *sessionRepository) List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.CashierSession, int64, error) {
	var sessions []entity.CashierSession
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.CashierSession{})
	if userID != uuid.Nil {
		query = query.Where("user_id = ?", userID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("User").
		Order("opened_at DESC").
		Find(&sessions).Error

	return sessions, total, err
}
