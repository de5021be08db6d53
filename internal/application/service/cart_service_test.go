package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/kedaikopi/pos-api/internal/domain/entity"
	"github.com/kedaikopi/pos-api/internal/domain/enum"
	"github.com/kedaikopi/pos-api/pkg/apperror"
)

func newTestCartService(products ...*entity.Product) (*CartService, *fakeSaleRepo) {
	saleRepo := newFakeSaleRepo()
	settings := entity.DefaultStoreSettings()
	svc := NewCartService(
		newFakeProductRepo(products...),
		&fakeSettingsRepo{settings: settings},
		saleRepo,
		nil,
	)
	return svc, saleRepo
}

func kopiSusu() *entity.Product {
	p := &entity.Product{
		ID:    uuid.New(),
		Name:  "Es Kopi Susu",
		Price: 18000,
		Stock: 50,
	}
	p.Addons = []entity.Addon{
		{ID: uuid.New(), ProductID: p.ID, Name: "Extra Shot", Price: 5000},
		{ID: uuid.New(), ProductID: p.ID, Name: "Oat Milk", Price: 7000},
	}
	return p
}

func TestCartService_AddProduct(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("merges addon-free lines for the same product", func(t *testing.T) {
		product := kopiSusu()
		svc, _ := newTestCartService(product)

		_, err := svc.AddProduct(ctx, userID, product.ID, nil, 1)
		require.NoError(t, err)
		view, err := svc.AddProduct(ctx, userID, product.ID, nil, 2)
		require.NoError(t, err)

		require.Len(t, view.Cart.Lines, 1)
		assert.Equal(t, 3, view.Cart.Lines[0].Quantity)
	})

	t.Run("addon selection makes a separate line", func(t *testing.T) {
		product := kopiSusu()
		svc, _ := newTestCartService(product)

		_, err := svc.AddProduct(ctx, userID, product.ID, nil, 1)
		require.NoError(t, err)
		view, err := svc.AddProduct(ctx, userID, product.ID, []uuid.UUID{product.Addons[0].ID}, 1)
		require.NoError(t, err)

		require.Len(t, view.Cart.Lines, 2)
		// 18000 + (18000 + 5000)
		assert.Equal(t, int64(41000), view.Totals.Subtotal)
	})

	t.Run("addon lines never merge with each other", func(t *testing.T) {
		product := kopiSusu()
		svc, _ := newTestCartService(product)

		addonIDs := []uuid.UUID{product.Addons[0].ID}
		_, err := svc.AddProduct(ctx, userID, product.ID, addonIDs, 1)
		require.NoError(t, err)
		view, err := svc.AddProduct(ctx, userID, product.ID, addonIDs, 1)
		require.NoError(t, err)

		assert.Len(t, view.Cart.Lines, 2)
	})

	t.Run("unknown addon is rejected", func(t *testing.T) {
		product := kopiSusu()
		svc, _ := newTestCartService(product)

		_, err := svc.AddProduct(ctx, userID, product.ID, []uuid.UUID{uuid.New()}, 1)
		require.Error(t, err)
	})

	t.Run("out of stock product is rejected", func(t *testing.T) {
		product := kopiSusu()
		product.Stock = 0
		svc, _ := newTestCartService(product)

		_, err := svc.AddProduct(ctx, userID, product.ID, nil, 1)
		assert.ErrorIs(t, err, apperror.ErrOutOfStock)
	})
}

func TestCartService_ManualItems(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("manual lines never merge", func(t *testing.T) {
		svc, _ := newTestCartService()

		_, err := svc.AddManualItem(ctx, userID, "Nasi Goreng Spesial", 25000, 1)
		require.NoError(t, err)
		view, err := svc.AddManualItem(ctx, userID, "Nasi Goreng Spesial", 25000, 1)
		require.NoError(t, err)

		assert.Len(t, view.Cart.Lines, 2)
	})

	t.Run("rejects empty name and negative price", func(t *testing.T) {
		svc, _ := newTestCartService()

		_, err := svc.AddManualItem(ctx, userID, "", 1000, 1)
		require.Error(t, err)
		_, err = svc.AddManualItem(ctx, userID, "Item", -1, 1)
		require.Error(t, err)
	})
}

func TestCartService_SetQuantity(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	product := kopiSusu()
	svc, _ := newTestCartService(product)

	view, err := svc.AddProduct(ctx, userID, product.ID, nil, 2)
	require.NoError(t, err)
	lineID := view.Cart.Lines[0].ID

	view, err = svc.SetQuantity(ctx, userID, lineID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, view.Cart.Lines[0].Quantity)

	// zero removes the line
	view, err = svc.SetQuantity(ctx, userID, lineID, 0)
	require.NoError(t, err)
	assert.True(t, view.Cart.IsEmpty())

	_, err = svc.SetQuantity(ctx, userID, lineID, 1)
	require.Error(t, err)
}

func TestCartService_Discount(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	product := kopiSusu()

	t.Run("percentage discount affects totals", func(t *testing.T) {
		svc, _ := newTestCartService(product)
		_, err := svc.AddManualItem(ctx, userID, "Paket", 100000, 1)
		require.NoError(t, err)

		view, err := svc.ApplyDiscount(ctx, userID, enum.DiscountTypePercentage, 10, "member")
		require.NoError(t, err)

		assert.Equal(t, int64(10000), view.Totals.Discount)
		assert.Equal(t, int64(90000), view.Totals.Taxable)
		// default rates: 10% tax, 5% service
		assert.Equal(t, int64(103500), view.Totals.Total)
	})

	t.Run("rejects percentage over 100 and negative values", func(t *testing.T) {
		svc, _ := newTestCartService(product)

		_, err := svc.ApplyDiscount(ctx, userID, enum.DiscountTypePercentage, 101, "promo")
		require.Error(t, err)
		_, err = svc.ApplyDiscount(ctx, userID, enum.DiscountTypeFixed, -1, "promo")
		require.Error(t, err)
	})

	t.Run("rejects a zero value and an empty reason", func(t *testing.T) {
		svc, _ := newTestCartService(product)

		_, err := svc.ApplyDiscount(ctx, userID, enum.DiscountTypePercentage, 0, "member")
		require.Error(t, err)
		_, err = svc.ApplyDiscount(ctx, userID, enum.DiscountTypeFixed, 5000, "")
		require.Error(t, err)

		view, err := svc.GetCart(ctx, userID)
		require.NoError(t, err)
		assert.Nil(t, view.Cart.Discount)
	})

	t.Run("remove clears the discount", func(t *testing.T) {
		svc, _ := newTestCartService(product)
		_, err := svc.ApplyDiscount(ctx, userID, enum.DiscountTypeFixed, 5000, "staff meal")
		require.NoError(t, err)

		view, err := svc.RemoveDiscount(ctx, userID)
		require.NoError(t, err)
		assert.Nil(t, view.Cart.Discount)
	})
}

func TestCartService_OrderInfo(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	product := kopiSusu()

	t.Run("rejects a table with an unsettled sale", func(t *testing.T) {
		svc, saleRepo := newTestCartService(product)

		tableNo := 4
		require.NoError(t, saleRepo.Create(ctx, &entity.Sale{
			UserID:     uuid.New(),
			SaleNumber: "POS-1",
			Status:     enum.SaleStatusUnpaid,
			TableNo:    &tableNo,
		}))

		_, err := svc.SetOrderInfo(ctx, userID, &tableNo, "Budi", "")
		assert.ErrorIs(t, err, apperror.ErrTableHasActiveOrder)
	})

	t.Run("sets table and customer on a free table", func(t *testing.T) {
		svc, _ := newTestCartService(product)

		tableNo := 2
		view, err := svc.SetOrderInfo(ctx, userID, &tableNo, "Sari", "Andi")
		require.NoError(t, err)

		require.NotNil(t, view.Cart.TableNo)
		assert.Equal(t, 2, *view.Cart.TableNo)
		assert.Equal(t, "Sari", view.Cart.CustomerName)
	})
}

func TestCartService_HoldAndRestore(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	product := kopiSusu()

	t.Run("hold snapshots the cart and starts fresh", func(t *testing.T) {
		svc, _ := newTestCartService(product)
		_, err := svc.AddProduct(ctx, userID, product.ID, nil, 2)
		require.NoError(t, err)

		order, err := svc.Hold(ctx, userID)
		require.NoError(t, err)

		// 36000 + 10% tax + 5% service
		assert.Equal(t, int64(41400), order.Total)

		view, err := svc.GetCart(ctx, userID)
		require.NoError(t, err)
		assert.True(t, view.Cart.IsEmpty())
	})

	t.Run("holding an empty cart is rejected", func(t *testing.T) {
		svc, _ := newTestCartService(product)
		_, err := svc.Hold(ctx, userID)
		require.Error(t, err)
	})

	t.Run("restore requires an empty cart", func(t *testing.T) {
		svc, _ := newTestCartService(product)
		_, err := svc.AddProduct(ctx, userID, product.ID, nil, 1)
		require.NoError(t, err)
		order, err := svc.Hold(ctx, userID)
		require.NoError(t, err)

		_, err = svc.AddManualItem(ctx, userID, "Teh Tawar", 5000, 1)
		require.NoError(t, err)

		_, err = svc.Restore(ctx, userID, order.ID)
		assert.ErrorIs(t, err, apperror.ErrCartNotEmpty)

		_, err = svc.Clear(ctx, userID)
		require.NoError(t, err)

		view, err := svc.Restore(ctx, userID, order.ID)
		require.NoError(t, err)
		assert.Len(t, view.Cart.Lines, 1)
		assert.Empty(t, svc.ListHeld(userID))
	})

	t.Run("restore latest pops newest first", func(t *testing.T) {
		svc, _ := newTestCartService(product)

		_, err := svc.AddManualItem(ctx, userID, "First", 1000, 1)
		require.NoError(t, err)
		_, err = svc.Hold(ctx, userID)
		require.NoError(t, err)

		_, err = svc.AddManualItem(ctx, userID, "Second", 2000, 1)
		require.NoError(t, err)
		_, err = svc.Hold(ctx, userID)
		require.NoError(t, err)

		held := svc.ListHeld(userID)
		require.Len(t, held, 2)
		assert.Equal(t, "Second", held[0].Lines[0].Name)

		view, err := svc.RestoreLatest(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "Second", view.Cart.Lines[0].Name)
	})

	t.Run("delete discards without restoring", func(t *testing.T) {
		svc, _ := newTestCartService(product)
		_, err := svc.AddManualItem(ctx, userID, "Item", 1000, 1)
		require.NoError(t, err)
		order, err := svc.Hold(ctx, userID)
		require.NoError(t, err)

		require.NoError(t, svc.DeleteHeld(userID, order.ID))
		assert.Empty(t, svc.ListHeld(userID))
		assert.Error(t, svc.DeleteHeld(userID, order.ID))
	})
}

func TestCartService_Split(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	product := kopiSusu()

	t.Run("preview does not mutate the cart", func(t *testing.T) {
		svc, _ := newTestCartService(product)
		view, err := svc.AddProduct(ctx, userID, product.ID, nil, 3)
		require.NoError(t, err)
		lineID := view.Cart.Lines[0].ID

		result, err := svc.PreviewSplit(userID, map[uuid.UUID]int{lineID: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(36000), result.Total)

		view, err = svc.GetCart(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 3, view.Cart.Lines[0].Quantity)
	})

	t.Run("commit removes the split quantities", func(t *testing.T) {
		svc, _ := newTestCartService(product)
		view, err := svc.AddProduct(ctx, userID, product.ID, nil, 3)
		require.NoError(t, err)
		lineID := view.Cart.Lines[0].ID

		result, err := svc.CommitSplit(userID, map[uuid.UUID]int{lineID: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(36000), result.Total)

		view, err = svc.GetCart(ctx, userID)
		require.NoError(t, err)
		require.Len(t, view.Cart.Lines, 1)
		assert.Equal(t, 1, view.Cart.Lines[0].Quantity)
	})

	t.Run("fully consumed lines are dropped", func(t *testing.T) {
		svc, _ := newTestCartService(product)
		view, err := svc.AddProduct(ctx, userID, product.ID, nil, 2)
		require.NoError(t, err)
		lineID := view.Cart.Lines[0].ID

		_, err = svc.CommitSplit(userID, map[uuid.UUID]int{lineID: 2})
		require.NoError(t, err)

		view, err = svc.GetCart(ctx, userID)
		require.NoError(t, err)
		assert.True(t, view.Cart.IsEmpty())
	})

	t.Run("rejects over-selection and empty selections", func(t *testing.T) {
		svc, _ := newTestCartService(product)
		view, err := svc.AddProduct(ctx, userID, product.ID, nil, 2)
		require.NoError(t, err)
		lineID := view.Cart.Lines[0].ID

		_, err = svc.PreviewSplit(userID, map[uuid.UUID]int{lineID: 3})
		require.Error(t, err)

		_, err = svc.PreviewSplit(userID, map[uuid.UUID]int{})
		assert.ErrorIs(t, err, apperror.ErrEmptySplit)
	})
}
