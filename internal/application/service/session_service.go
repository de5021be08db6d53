package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/kedaikopi/pos-api/internal/domain/entity"
	"github.com/kedaikopi/pos-api/internal/domain/enum"
	"github.com/kedaikopi/pos-api/internal/domain/repository"
	"github.com/kedaikopi/pos-api/pkg/apperror"
	"github.com/kedaikopi/pos-api/pkg/pagination"
)

// SessionService manages cashier shifts: opening with declared starting
// cash, attributing sales, and closing with cash reconciliation.
//
// Concurrent closes of the same session are not locked against each other;
// a single terminal per cashier makes the race practically unreachable.
type SessionService struct {
	sessionRepo  repository.SessionRepository
	saleRepo     repository.SaleRepository
	settingsRepo repository.SettingsRepository

	heartbeatInterval time.Duration
	heartbeatCancel   context.CancelFunc
}

// NewSessionService creates a new session service
func NewSessionService(
	sessionRepo repository.SessionRepository,
	saleRepo repository.SaleRepository,
	settingsRepo repository.SettingsRepository,
	heartbeatInterval time.Duration,
) *SessionService {
	return &SessionService{
		sessionRepo:       sessionRepo,
		saleRepo:          saleRepo,
		settingsRepo:      settingsRepo,
		heartbeatInterval: heartbeatInterval,
	}
}

// Open starts a new shift for the cashier. Only one shift may be open per
// user at a time. A nil startingCash means the drawer count was not
// declared; an explicit zero is a valid declaration of an empty drawer.
func (s *SessionService) Open(ctx context.Context, userID uuid.UUID, startingCash *int64, notes string) (*entity.CashierSession, error) {
	if startingCash != nil && *startingCash < 0 {
		return nil, apperror.NewBadRequestError("Starting cash cannot be negative")
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings != nil && settings.RequireStartingCash && startingCash == nil {
		return nil, apperror.NewUnprocessableError("Starting cash must be declared")
	}

	existing, err := s.sessionRepo.GetOpenByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.ErrSessionAlreadyOpen
	}

	var opening int64
	if startingCash != nil {
		opening = *startingCash
	}

	session := &entity.CashierSession{
		UserID:       userID,
		Status:       enum.SessionStatusOpen,
		OpenedAt:     time.Now(),
		StartingCash: opening,
		OpeningNotes: notes,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Current returns the cashier's open shift.
func (s *SessionService) Current(ctx context.Context, userID uuid.UUID) (*entity.CashierSession, error) {
	session, err := s.sessionRepo.GetOpenByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.ErrNoOpenSession
	}
	return session, nil
}

// ClosingFigures are the derived numbers shown on the close-shift screen.
type ClosingFigures struct {
	CashSales    int64 `json:"cash_sales"`
	CardSales    int64 `json:"card_sales"`
	QrisSales    int64 `json:"qris_sales"`
	TotalSales   int64 `json:"total_sales"`
	ExpectedCash int64 `json:"expected_cash"`
}

// ComputeClosingFigures derives the expected drawer contents for a shift:
// starting cash plus cash sales. Card and QRIS money never enters the
// drawer, so it only appears in the sales breakdown.
func (s *SessionService) ComputeClosingFigures(ctx context.Context, session *entity.CashierSession) (*ClosingFigures, error) {
	totals, err := s.saleRepo.TotalsByPaymentType(ctx, session.ID, session.OpenedAt)
	if err != nil {
		return nil, err
	}
	return &ClosingFigures{
		CashSales:    totals.Cash,
		CardSales:    totals.Card,
		QrisSales:    totals.Qris,
		TotalSales:   totals.Total,
		ExpectedCash: session.StartingCash + totals.Cash,
	}, nil
}

// ClosingPreview returns the closing figures for the cashier's open shift.
func (s *SessionService) ClosingPreview(ctx context.Context, userID uuid.UUID) (*entity.CashierSession, *ClosingFigures, error) {
	session, err := s.Current(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	figures, err := s.ComputeClosingFigures(ctx, session)
	if err != nil {
		return nil, nil, err
	}
	return session, figures, nil
}

// Close ends the cashier's open shift. The counted drawer amount is
// recorded against the expected figure; the difference is signed, negative
// meaning the drawer is short. A closed session is never reopened.
func (s *SessionService) Close(ctx context.Context, userID uuid.UUID, actualCash int64, notes string) (*entity.CashierSession, error) {
	if actualCash < 0 {
		return nil, apperror.NewBadRequestError("Counted cash cannot be negative")
	}

	session, err := s.Current(ctx, userID)
	if err != nil {
		return nil, err
	}

	figures, err := s.ComputeClosingFigures(ctx, session)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session.Status = enum.SessionStatusClosed
	session.ClosedAt = &now
	session.CashSales = figures.CashSales
	session.CardSales = figures.CardSales
	session.QrisSales = figures.QrisSales
	session.TotalSales = figures.TotalSales
	session.ExpectedCash = figures.ExpectedCash
	session.ActualCash = actualCash
	session.Difference = actualCash - figures.ExpectedCash
	session.ClosingNotes = notes

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession retrieves one session by ID.
func (s *SessionService) GetSession(ctx context.Context, id uuid.UUID) (*entity.CashierSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Session")
	}
	return session, nil
}

// ListSessions lists a user's shift history. A nil userID lists all.
func (s *SessionService) ListSessions(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.CashierSession], error) {
	sessions, total, err := s.sessionRepo.List(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(sessions, pag), nil
}

// StartHeartbeat launches the background ticker that touches open sessions
// so stale shifts are visible in the logs. It stops when the passed
// context is cancelled or StopHeartbeat is called.
func (s *SessionService) StartHeartbeat(ctx context.Context) {
	if s.heartbeatInterval <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.heartbeatCancel = cancel

	go func() {
		ticker := time.NewTicker(s.heartbeatInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.heartbeat(ctx)
			}
		}
	}()
}

// StopHeartbeat cancels the heartbeat ticker.
func (s *SessionService) StopHeartbeat() {
	if s.heartbeatCancel != nil {
		s.heartbeatCancel()
	}
}

func (s *SessionService) heartbeat(ctx context.Context) {
	params := &pagination.PaginationParams{Page: 1, PerPage: 100}
	sessions, _, err := s.sessionRepo.List(ctx, uuid.Nil, params)
	if err != nil {
		log.Printf("session heartbeat: %v", err)
		return
	}

	for i := range sessions {
		if !sessions[i].IsOpen() {
			continue
		}
		age := time.Since(sessions[i].OpenedAt)
		if age > 12*time.Hour {
			log.Printf("session heartbeat: session %s open for %s, consider closing",
				sessions[i].ID, age.Round(time.Minute))
		}
		// Save bumps UpdatedAt, which doubles as the liveness marker.
		if err := s.sessionRepo.Update(ctx, &sessions[i]); err != nil {
			log.Printf("session heartbeat: touch %s: %v", sessions[i].ID, err)
		}
	}
}
