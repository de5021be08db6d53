package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/kedaikopi/pos-api/internal/domain/entity"
	"github.com/kedaikopi/pos-api/pkg/pagination"
)

// SessionRepository defines the interface for cashier session persistence.
// One-open-session-per-user is enforced by querying, not by a constraint.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.CashierSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CashierSession, error)
	// GetOpenByUser returns the user's open session, or nil.
	GetOpenByUser(ctx context.Context, userID uuid.UUID) (*entity.CashierSession, error)
	Update(ctx context.Context, session *entity.CashierSession) error
	List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.CashierSession, int64, error)
}
