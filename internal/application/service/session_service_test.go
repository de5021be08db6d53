package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/kedaikopi/pos-api/internal/domain/entity"
	"github.com/kedaikopi/pos-api/internal/domain/enum"
	"github.com/kedaikopi/pos-api/pkg/apperror"
)

func newSessionFixture() (*SessionService, *fakeSessionRepo, *fakeSaleRepo, *fakeSettingsRepo) {
	sessionRepo := newFakeSessionRepo()
	saleRepo := newFakeSaleRepo()
	settings := &fakeSettingsRepo{settings: entity.DefaultStoreSettings()}
	svc := NewSessionService(sessionRepo, saleRepo, settings, 0)
	return svc, sessionRepo, saleRepo, settings
}

func openingCash(v int64) *int64 {
	return &v
}

func paidSaleFor(sessionID uuid.UUID, paymentType enum.PaymentType, total int64) *entity.Sale {
	sid := sessionID
	return &entity.Sale{
		UserID:      uuid.New(),
		SessionID:   &sid,
		SaleNumber:  uuid.NewString(),
		Status:      enum.SaleStatusPaid,
		PaymentType: paymentType,
		Total:       total,
	}
}

func TestSessionService_Open(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("opens with declared starting cash", func(t *testing.T) {
		svc, _, _, _ := newSessionFixture()

		session, err := svc.Open(ctx, userID, openingCash(100000), "morning shift")
		require.NoError(t, err)

		assert.Equal(t, enum.SessionStatusOpen, session.Status)
		assert.Equal(t, int64(100000), session.StartingCash)
		assert.False(t, session.OpenedAt.IsZero())
	})

	t.Run("second open for the same user is rejected", func(t *testing.T) {
		svc, _, _, _ := newSessionFixture()

		_, err := svc.Open(ctx, userID, openingCash(100000), "")
		require.NoError(t, err)

		_, err = svc.Open(ctx, userID, openingCash(50000), "")
		assert.ErrorIs(t, err, apperror.ErrSessionAlreadyOpen)
	})

	t.Run("undeclared starting cash rejected when the store requires it", func(t *testing.T) {
		svc, _, _, _ := newSessionFixture()

		_, err := svc.Open(ctx, userID, nil, "")
		require.Error(t, err)
	})

	t.Run("an empty drawer can be declared explicitly", func(t *testing.T) {
		svc, _, _, _ := newSessionFixture()

		session, err := svc.Open(ctx, userID, openingCash(0), "")
		require.NoError(t, err)
		assert.Equal(t, int64(0), session.StartingCash)
	})

	t.Run("undeclared starting cash allowed when not required", func(t *testing.T) {
		svc, _, _, settings := newSessionFixture()
		settings.settings.RequireStartingCash = false

		session, err := svc.Open(ctx, userID, nil, "")
		require.NoError(t, err)
		assert.Equal(t, int64(0), session.StartingCash)
	})

	t.Run("negative starting cash is rejected", func(t *testing.T) {
		svc, _, _, _ := newSessionFixture()

		_, err := svc.Open(ctx, userID, openingCash(-1), "")
		require.Error(t, err)
	})
}

func TestSessionService_Current(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	svc, _, _, _ := newSessionFixture()

	_, err := svc.Current(ctx, userID)
	assert.ErrorIs(t, err, apperror.ErrNoOpenSession)

	opened, err := svc.Open(ctx, userID, openingCash(100000), "")
	require.NoError(t, err)

	current, err := svc.Current(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, opened.ID, current.ID)
}

func TestSessionService_ClosingFigures(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("expected cash is starting cash plus cash sales only", func(t *testing.T) {
		svc, _, saleRepo, _ := newSessionFixture()

		session, err := svc.Open(ctx, userID, openingCash(100000), "")
		require.NoError(t, err)

		require.NoError(t, saleRepo.Create(ctx, paidSaleFor(session.ID, enum.PaymentTypeCash, 150000)))
		require.NoError(t, saleRepo.Create(ctx, paidSaleFor(session.ID, enum.PaymentTypeCash, 100000)))
		require.NoError(t, saleRepo.Create(ctx, paidSaleFor(session.ID, enum.PaymentTypeCard, 80000)))
		require.NoError(t, saleRepo.Create(ctx, paidSaleFor(session.ID, enum.PaymentTypeQris, 50000)))

		figures, err := svc.ComputeClosingFigures(ctx, session)
		require.NoError(t, err)

		assert.Equal(t, int64(250000), figures.CashSales)
		assert.Equal(t, int64(80000), figures.CardSales)
		assert.Equal(t, int64(50000), figures.QrisSales)
		assert.Equal(t, int64(380000), figures.TotalSales)
		assert.Equal(t, int64(350000), figures.ExpectedCash)
	})

	t.Run("sales from another session are excluded", func(t *testing.T) {
		svc, _, saleRepo, _ := newSessionFixture()

		session, err := svc.Open(ctx, userID, openingCash(100000), "")
		require.NoError(t, err)

		require.NoError(t, saleRepo.Create(ctx, paidSaleFor(session.ID, enum.PaymentTypeCash, 50000)))
		require.NoError(t, saleRepo.Create(ctx, paidSaleFor(uuid.New(), enum.PaymentTypeCash, 999999)))

		figures, err := svc.ComputeClosingFigures(ctx, session)
		require.NoError(t, err)
		assert.Equal(t, int64(50000), figures.CashSales)
	})

	t.Run("unattributed sales fall back to the time range", func(t *testing.T) {
		svc, _, saleRepo, _ := newSessionFixture()

		session, err := svc.Open(ctx, userID, openingCash(100000), "")
		require.NoError(t, err)

		legacy := &entity.Sale{
			UserID:      uuid.New(),
			SaleNumber:  uuid.NewString(),
			Status:      enum.SaleStatusPaid,
			PaymentType: enum.PaymentTypeCash,
			Total:       20000,
			CreatedAt:   session.OpenedAt.Add(time.Minute),
		}
		require.NoError(t, saleRepo.Create(ctx, legacy))

		figures, err := svc.ComputeClosingFigures(ctx, session)
		require.NoError(t, err)
		assert.Equal(t, int64(20000), figures.CashSales)
	})
}

func TestSessionService_Close(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("difference is signed, negative means short", func(t *testing.T) {
		svc, _, saleRepo, _ := newSessionFixture()

		session, err := svc.Open(ctx, userID, openingCash(100000), "")
		require.NoError(t, err)
		require.NoError(t, saleRepo.Create(ctx, paidSaleFor(session.ID, enum.PaymentTypeCash, 250000)))

		closed, err := svc.Close(ctx, userID, 345000, "drawer short")
		require.NoError(t, err)

		assert.Equal(t, enum.SessionStatusClosed, closed.Status)
		assert.Equal(t, int64(350000), closed.ExpectedCash)
		assert.Equal(t, int64(345000), closed.ActualCash)
		assert.Equal(t, int64(-5000), closed.Difference)
		require.NotNil(t, closed.ClosedAt)
	})

	t.Run("overage is positive", func(t *testing.T) {
		svc, _, _, _ := newSessionFixture()

		_, err := svc.Open(ctx, userID, openingCash(100000), "")
		require.NoError(t, err)

		closed, err := svc.Close(ctx, userID, 101000, "")
		require.NoError(t, err)
		assert.Equal(t, int64(1000), closed.Difference)
	})

	t.Run("close without an open session fails", func(t *testing.T) {
		svc, _, _, _ := newSessionFixture()

		_, err := svc.Close(ctx, userID, 100000, "")
		assert.ErrorIs(t, err, apperror.ErrNoOpenSession)
	})

	t.Run("closed session stays closed", func(t *testing.T) {
		svc, _, _, _ := newSessionFixture()

		_, err := svc.Open(ctx, userID, openingCash(100000), "")
		require.NoError(t, err)
		_, err = svc.Close(ctx, userID, 100000, "")
		require.NoError(t, err)

		_, err = svc.Close(ctx, userID, 100000, "")
		assert.ErrorIs(t, err, apperror.ErrNoOpenSession)
	})

	t.Run("negative counted cash is rejected", func(t *testing.T) {
		svc, _, _, _ := newSessionFixture()

		_, err := svc.Open(ctx, userID, openingCash(100000), "")
		require.NoError(t, err)

		_, err = svc.Close(ctx, userID, -1, "")
		require.Error(t, err)
	})
}
