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

type paymentFixture struct {
	svc         *PaymentService
	cart        *CartService
	productRepo *fakeProductRepo
	saleRepo    *fakeSaleRepo
	sessionRepo *fakeSessionRepo
	tableRepo   *fakeTableRepo
	settings    *fakeSettingsRepo
	printer     *fakeReceiptPrinter
}

func newPaymentFixture(products ...*entity.Product) *paymentFixture {
	productRepo := newFakeProductRepo(products...)
	saleRepo := newFakeSaleRepo()
	sessionRepo := newFakeSessionRepo()
	tableRepo := newFakeTableRepo(&entity.DiningTable{TableNo: 4, Seats: 4})
	settings := &fakeSettingsRepo{settings: entity.DefaultStoreSettings()}
	printer := &fakeReceiptPrinter{}

	cart := NewCartService(productRepo, settings, saleRepo, nil)
	svc := NewPaymentService(saleRepo, &fakeSaleItemRepo{sales: saleRepo}, productRepo,
		sessionRepo, settings, tableRepo, cart, printer, nil)

	return &paymentFixture{
		svc:         svc,
		cart:        cart,
		productRepo: productRepo,
		saleRepo:    saleRepo,
		sessionRepo: sessionRepo,
		tableRepo:   tableRepo,
		settings:    settings,
		printer:     printer,
	}
}

func TestValidateTender(t *testing.T) {
	t.Run("cash must cover the total", func(t *testing.T) {
		_, _, err := validateTender(enum.PaymentTypeCash, 40000, 45000)
		assert.ErrorIs(t, err, apperror.ErrInsufficientPayment)
	})

	t.Run("cash change is tendered minus total", func(t *testing.T) {
		tendered, change, err := validateTender(enum.PaymentTypeCash, 50000, 45000)
		require.NoError(t, err)
		assert.Equal(t, int64(50000), tendered)
		assert.Equal(t, int64(5000), change)
	})

	t.Run("exact cash yields zero change", func(t *testing.T) {
		tendered, change, err := validateTender(enum.PaymentTypeCash, 45000, 45000)
		require.NoError(t, err)
		assert.Equal(t, int64(45000), tendered)
		assert.Equal(t, int64(0), change)
	})

	t.Run("non-cash is recorded at face value", func(t *testing.T) {
		tendered, change, err := validateTender(enum.PaymentTypeQris, 0, 45000)
		require.NoError(t, err)
		assert.Equal(t, int64(45000), tendered)
		assert.Equal(t, int64(0), change)
	})

	t.Run("unknown payment type is rejected", func(t *testing.T) {
		_, _, err := validateTender(enum.PaymentType("cheque"), 0, 45000)
		require.Error(t, err)
	})
}

func TestPaymentService_PayCart(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("cash payment commits the sale and resets the cart", func(t *testing.T) {
		product := kopiSusu()
		f := newPaymentFixture(product)

		_, err := f.cart.AddProduct(ctx, userID, product.ID, nil, 2)
		require.NoError(t, err)

		// 36000 subtotal + 3600 tax + 1800 service = 41400
		sale, err := f.svc.ProcessPayment(ctx, userID, &PaymentInput{
			PaymentType: enum.PaymentTypeCash,
			Tendered:    50000,
		})
		require.NoError(t, err)

		assert.Equal(t, enum.SaleStatusPaid, sale.Status)
		assert.Equal(t, int64(41400), sale.Total)
		assert.Equal(t, int64(8600), sale.Change)
		require.NotNil(t, sale.PaidAt)
		require.Len(t, sale.Items, 1)

		view, err := f.cart.GetCart(ctx, userID)
		require.NoError(t, err)
		assert.True(t, view.Cart.IsEmpty())

		// stock decremented
		p, _ := f.productRepo.GetByID(ctx, product.ID)
		assert.Equal(t, 48, p.Stock)
	})

	t.Run("underpaid cash leaves cart and stock untouched", func(t *testing.T) {
		product := kopiSusu()
		f := newPaymentFixture(product)

		_, err := f.cart.AddProduct(ctx, userID, product.ID, nil, 2)
		require.NoError(t, err)

		_, err = f.svc.ProcessPayment(ctx, userID, &PaymentInput{
			PaymentType: enum.PaymentTypeCash,
			Tendered:    10000,
		})
		assert.ErrorIs(t, err, apperror.ErrInsufficientPayment)

		view, err := f.cart.GetCart(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, view.Cart.Lines, 1)

		p, _ := f.productRepo.GetByID(ctx, product.ID)
		assert.Equal(t, 50, p.Stock)
	})

	t.Run("sale is attributed to the open session", func(t *testing.T) {
		product := kopiSusu()
		f := newPaymentFixture(product)

		session := &entity.CashierSession{UserID: userID, Status: enum.SessionStatusOpen}
		require.NoError(t, f.sessionRepo.Create(ctx, session))

		_, err := f.cart.AddProduct(ctx, userID, product.ID, nil, 1)
		require.NoError(t, err)

		sale, err := f.svc.ProcessPayment(ctx, userID, &PaymentInput{
			PaymentType: enum.PaymentTypeQris,
			EWalletTag:  "GoPay",
		})
		require.NoError(t, err)

		require.NotNil(t, sale.SessionID)
		assert.Equal(t, session.ID, *sale.SessionID)
		assert.Equal(t, "GoPay", sale.EWalletTag)
	})

	t.Run("empty cart is rejected", func(t *testing.T) {
		f := newPaymentFixture()
		_, err := f.svc.ProcessPayment(ctx, userID, &PaymentInput{PaymentType: enum.PaymentTypeCash})
		require.Error(t, err)
	})

	t.Run("insufficient stock aborts the sale", func(t *testing.T) {
		product := kopiSusu()
		product.Stock = 1
		f := newPaymentFixture(product)

		// stock check at add time passes, the atomic decrement catches it
		_, err := f.cart.AddProduct(ctx, userID, product.ID, nil, 3)
		require.NoError(t, err)

		_, err = f.svc.ProcessPayment(ctx, userID, &PaymentInput{
			PaymentType: enum.PaymentTypeCash,
			Tendered:    100000,
		})
		assert.ErrorIs(t, err, apperror.ErrOutOfStock)
	})
}

func TestPaymentService_PaySplit(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("split portion is priced flat and removed from the cart", func(t *testing.T) {
		product := kopiSusu()
		f := newPaymentFixture(product)

		view, err := f.cart.AddProduct(ctx, userID, product.ID, nil, 3)
		require.NoError(t, err)
		lineID := view.Cart.Lines[0].ID

		sale, err := f.svc.ProcessPayment(ctx, userID, &PaymentInput{
			Split:       map[uuid.UUID]int{lineID: 2},
			PaymentType: enum.PaymentTypeCash,
			Tendered:    36000,
		})
		require.NoError(t, err)

		// no discount, tax or service on split portions
		assert.Equal(t, int64(36000), sale.Total)
		assert.Equal(t, int64(0), sale.Tax)
		assert.True(t, sale.IsSplit)

		view, err = f.cart.GetCart(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 1, view.Cart.Lines[0].Quantity)
	})

	t.Run("underpaid split leaves the cart intact", func(t *testing.T) {
		product := kopiSusu()
		f := newPaymentFixture(product)

		view, err := f.cart.AddProduct(ctx, userID, product.ID, nil, 3)
		require.NoError(t, err)
		lineID := view.Cart.Lines[0].ID

		_, err = f.svc.ProcessPayment(ctx, userID, &PaymentInput{
			Split:       map[uuid.UUID]int{lineID: 2},
			PaymentType: enum.PaymentTypeCash,
			Tendered:    10000,
		})
		assert.ErrorIs(t, err, apperror.ErrInsufficientPayment)

		view, err = f.cart.GetCart(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 3, view.Cart.Lines[0].Quantity)
	})
}

func TestPaymentService_SavedSales(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("save order occupies the table and settling frees it", func(t *testing.T) {
		product := kopiSusu()
		f := newPaymentFixture(product)

		tableNo := 4
		_, err := f.cart.AddProduct(ctx, userID, product.ID, nil, 1)
		require.NoError(t, err)
		_, err = f.cart.SetOrderInfo(ctx, userID, &tableNo, "Budi", "")
		require.NoError(t, err)

		saved, err := f.svc.SaveOrder(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, enum.SaleStatusUnpaid, saved.Status)

		table, _ := f.tableRepo.GetByTableNo(ctx, tableNo)
		assert.Equal(t, enum.TableStatusOccupied, table.Status)

		settled, err := f.svc.ProcessPayment(ctx, userID, &PaymentInput{
			SaleID:      &saved.ID,
			PaymentType: enum.PaymentTypeCard,
		})
		require.NoError(t, err)
		assert.Equal(t, enum.SaleStatusPaid, settled.Status)

		table, _ = f.tableRepo.GetByTableNo(ctx, tableNo)
		assert.Equal(t, enum.TableStatusAvailable, table.Status)
	})

	t.Run("settling an already paid sale is rejected", func(t *testing.T) {
		product := kopiSusu()
		f := newPaymentFixture(product)

		_, err := f.cart.AddProduct(ctx, userID, product.ID, nil, 1)
		require.NoError(t, err)
		saved, err := f.svc.SaveOrder(ctx, userID)
		require.NoError(t, err)

		_, err = f.svc.ProcessPayment(ctx, userID, &PaymentInput{
			SaleID:      &saved.ID,
			PaymentType: enum.PaymentTypeCash,
			Tendered:    100000,
		})
		require.NoError(t, err)

		_, err = f.svc.ProcessPayment(ctx, userID, &PaymentInput{
			SaleID:      &saved.ID,
			PaymentType: enum.PaymentTypeCash,
			Tendered:    100000,
		})
		require.Error(t, err)
	})
}

func TestPaymentService_VoidAndRefund(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	cashier := &entity.User{Role: entity.RoleCashier}
	manager := &entity.User{Role: entity.RoleManager}

	paidSale := func(f *paymentFixture, product *entity.Product) *entity.Sale {
		_, err := f.cart.AddProduct(ctx, userID, product.ID, nil, 2)
		if err != nil {
			panic(err)
		}
		sale, err := f.svc.ProcessPayment(ctx, userID, &PaymentInput{
			PaymentType: enum.PaymentTypeCash,
			Tendered:    100000,
		})
		if err != nil {
			panic(err)
		}
		return sale
	}

	t.Run("refund restores stock and voids the row", func(t *testing.T) {
		product := kopiSusu()
		f := newPaymentFixture(product)
		sale := paidSale(f, product)

		p, _ := f.productRepo.GetByID(ctx, product.ID)
		require.Equal(t, 48, p.Stock)

		require.NoError(t, f.svc.RefundSale(ctx, manager, sale.ID))

		p, _ = f.productRepo.GetByID(ctx, product.ID)
		assert.Equal(t, 50, p.Stock)

		stored, _ := f.saleRepo.GetByID(ctx, sale.ID)
		assert.Equal(t, enum.SaleStatusVoided, stored.Status)
	})

	t.Run("void only applies to unsettled sales", func(t *testing.T) {
		product := kopiSusu()
		f := newPaymentFixture(product)
		sale := paidSale(f, product)

		err := f.svc.VoidSale(ctx, manager, sale.ID)
		require.Error(t, err)
	})

	t.Run("manager gate blocks cashiers when enabled", func(t *testing.T) {
		product := kopiSusu()
		f := newPaymentFixture(product)
		f.settings.settings.EnableManagerAuth = true
		sale := paidSale(f, product)

		err := f.svc.RefundSale(ctx, cashier, sale.ID)
		assert.ErrorIs(t, err, apperror.ErrManagerRequired)

		require.NoError(t, f.svc.RefundSale(ctx, manager, sale.ID))
	})

	t.Run("gate is open when manager auth is disabled", func(t *testing.T) {
		product := kopiSusu()
		f := newPaymentFixture(product)
		sale := paidSale(f, product)

		require.NoError(t, f.svc.RefundSale(ctx, cashier, sale.ID))
	})
}
