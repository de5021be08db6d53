package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/kedaikopi/pos-api/internal/domain/entity"
	"github.com/kedaikopi/pos-api/internal/domain/enum"
	"github.com/kedaikopi/pos-api/internal/domain/pricing"
	"github.com/kedaikopi/pos-api/internal/domain/repository"
	"github.com/kedaikopi/pos-api/pkg/apperror"
	"github.com/kedaikopi/pos-api/pkg/pagination"
	"github.com/kedaikopi/pos-api/pkg/taskqueue"
	"github.com/kedaikopi/pos-api/pkg/utils"
)

// ReceiptPrinter is the slice of the printing stack the payment flow needs.
type ReceiptPrinter interface {
	PrintSale(sale *entity.Sale) error
	OpenDrawer() error
}

// PaymentService records sales and settles payments. Completion is
// optimistic: the sale is committed first and the hardware side effects
// (receipt, drawer) run on the task queue with retries.
type PaymentService struct {
	saleRepo     repository.SaleRepository
	saleItemRepo repository.SaleItemRepository
	productRepo  repository.ProductRepository
	sessionRepo  repository.SessionRepository
	settingsRepo repository.SettingsRepository
	tableRepo    repository.TableRepository
	cartService  *CartService
	printer      ReceiptPrinter
	tasks        *taskqueue.Queue
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	saleRepo repository.SaleRepository,
	saleItemRepo repository.SaleItemRepository,
	productRepo repository.ProductRepository,
	sessionRepo repository.SessionRepository,
	settingsRepo repository.SettingsRepository,
	tableRepo repository.TableRepository,
	cartService *CartService,
	printer ReceiptPrinter,
	tasks *taskqueue.Queue,
) *PaymentService {
	return &PaymentService{
		saleRepo:     saleRepo,
		saleItemRepo: saleItemRepo,
		productRepo:  productRepo,
		sessionRepo:  sessionRepo,
		settingsRepo: settingsRepo,
		tableRepo:    tableRepo,
		cartService:  cartService,
		printer:      printer,
		tasks:        tasks,
	}
}

// PaymentInput describes how a bill is being settled.
type PaymentInput struct {
	// SaleID settles a previously saved (unpaid) sale instead of the cart.
	SaleID *uuid.UUID
	// Split, when set, pays only the selected portion of the cart.
	Split       map[uuid.UUID]int
	PaymentType enum.PaymentType
	Tendered    int64
	EWalletTag  string
}

// validateTender applies the cash rules: cash must cover the total and
// yields change; non-cash is recorded at face value on the cashier's
// attestation that the external device approved it.
func validateTender(paymentType enum.PaymentType, tendered, total int64) (int64, int64, error) {
	if !paymentType.Valid() {
		return 0, 0, apperror.NewBadRequestError("Unknown payment type")
	}
	if paymentType.RequiresTender() {
		if tendered < total {
			return 0, 0, apperror.ErrInsufficientPayment
		}
		return tendered, tendered - total, nil
	}
	return total, 0, nil
}

// SaveOrder persists the cart as an unpaid sale (open bill), decrementing
// stock and occupying the table. The cart is cleared for the next order.
func (s *PaymentService) SaveOrder(ctx context.Context, userID uuid.UUID) (*entity.Sale, error) {
	cart := s.cartService.Snapshot(userID)
	if cart.IsEmpty() {
		return nil, apperror.NewBadRequestError("Cart is empty")
	}

	rates, err := s.cartService.rates(ctx)
	if err != nil {
		return nil, err
	}
	totals := pricing.Compute(cart.Lines, cart.Discount, rates)

	sale, err := s.persistSale(ctx, userID, cart, totals, enum.SaleStatusUnpaid, nil)
	if err != nil {
		return nil, err
	}

	if cart.TableNo != nil {
		if err := s.tableRepo.UpdateStatus(ctx, *cart.TableNo, enum.TableStatusOccupied); err != nil {
			// The sale row already marks the table busy; the flag is cosmetic.
			log.Printf("warning: failed to mark table %d occupied: %v", *cart.TableNo, err)
		}
	}

	s.cartService.Reset(userID)
	return sale, nil
}

// ProcessPayment settles a bill: the whole cart, a split portion of it, or
// a previously saved sale. On success the receipt and drawer kick are
// queued in the background.
func (s *PaymentService) ProcessPayment(ctx context.Context, userID uuid.UUID, input *PaymentInput) (*entity.Sale, error) {
	switch {
	case input.SaleID != nil:
		return s.settleSavedSale(ctx, userID, input)
	case len(input.Split) > 0:
		return s.paySplit(ctx, userID, input)
	default:
		return s.payCart(ctx, userID, input)
	}
}

func (s *PaymentService) payCart(ctx context.Context, userID uuid.UUID, input *PaymentInput) (*entity.Sale, error) {
	cart := s.cartService.Snapshot(userID)
	if cart.IsEmpty() {
		return nil, apperror.NewBadRequestError("Cart is empty")
	}

	rates, err := s.cartService.rates(ctx)
	if err != nil {
		return nil, err
	}
	totals := pricing.Compute(cart.Lines, cart.Discount, rates)

	tendered, change, err := validateTender(input.PaymentType, input.Tendered, totals.Total)
	if err != nil {
		return nil, err
	}

	sale, err := s.persistSale(ctx, userID, cart, totals, enum.SaleStatusPaid, &paymentDetails{
		paymentType: input.PaymentType,
		tendered:    tendered,
		change:      change,
		eWalletTag:  input.EWalletTag,
	})
	if err != nil {
		return nil, err
	}

	if cart.TableNo != nil {
		_ = s.tableRepo.UpdateStatus(ctx, *cart.TableNo, enum.TableStatusAvailable)
	}

	s.cartService.Reset(userID)
	s.enqueueSideEffects(ctx, sale)
	return sale, nil
}

func (s *PaymentService) paySplit(ctx context.Context, userID uuid.UUID, input *PaymentInput) (*entity.Sale, error) {
	// Price first so an underpaid cash tender leaves the cart untouched.
	preview, err := s.cartService.PreviewSplit(userID, input.Split)
	if err != nil {
		return nil, err
	}

	tendered, change, err := validateTender(input.PaymentType, input.Tendered, preview.Total)
	if err != nil {
		return nil, err
	}

	result, err := s.cartService.CommitSplit(userID, input.Split)
	if err != nil {
		return nil, err
	}

	// Split portions are priced flat: no discount, no tax, no service.
	cart := &entity.Cart{Lines: result.Lines}
	totals := pricing.Compute(result.Lines, nil, pricing.ZeroRates)

	sale, err := s.persistSale(ctx, userID, cart, totals, enum.SaleStatusPaid, &paymentDetails{
		paymentType: input.PaymentType,
		tendered:    tendered,
		change:      change,
		eWalletTag:  input.EWalletTag,
		isSplit:     true,
	})
	if err != nil {
		return nil, err
	}

	s.enqueueSideEffects(ctx, sale)
	return sale, nil
}

func (s *PaymentService) settleSavedSale(ctx context.Context, userID uuid.UUID, input *PaymentInput) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithItems(ctx, *input.SaleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	if !sale.Status.IsActive() {
		return nil, apperror.NewConflictError("Sale is already settled")
	}

	tendered, change, err := validateTender(input.PaymentType, input.Tendered, sale.Total)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sale.Status = enum.SaleStatusPaid
	sale.PaymentType = input.PaymentType
	sale.Tendered = tendered
	sale.Change = change
	sale.EWalletTag = input.EWalletTag
	sale.PaidAt = &now
	if sale.SessionID == nil {
		if session, err := s.sessionRepo.GetOpenByUser(ctx, userID); err == nil && session != nil {
			sid := session.ID
			sale.SessionID = &sid
		}
	}

	if err := s.saleRepo.Update(ctx, sale); err != nil {
		return nil, err
	}

	if sale.TableNo != nil {
		_ = s.tableRepo.UpdateStatus(ctx, *sale.TableNo, enum.TableStatusAvailable)
	}

	s.enqueueSideEffects(ctx, sale)
	return sale, nil
}

type paymentDetails struct {
	paymentType enum.PaymentType
	tendered    int64
	change      int64
	eWalletTag  string
	isSplit     bool
}

// persistSale writes the sale and its item snapshots, decrementing stock
// for catalog lines. Stock is restored if the write fails partway.
func (s *PaymentService) persistSale(ctx context.Context, userID uuid.UUID, cart *entity.Cart, totals pricing.Totals, status enum.SaleStatus, payment *paymentDetails) (*entity.Sale, error) {
	decrements := make(map[uuid.UUID]int)
	for i := range cart.Lines {
		line := &cart.Lines[i]
		if line.ProductID != nil {
			decrements[*line.ProductID] += line.Quantity
		}
	}

	failedIDs, err := s.productRepo.AtomicDecrementBatch(ctx, decrements)
	if err != nil {
		return nil, err
	}
	if len(failedIDs) > 0 {
		return nil, apperror.ErrOutOfStock
	}

	sale := &entity.Sale{
		UserID:       userID,
		SaleNumber:   utils.GenerateSaleNumber(),
		Status:       status,
		TableNo:      cart.TableNo,
		CustomerName: cart.CustomerName,
		WaiterName:   cart.WaiterName,
		Subtotal:     totals.Subtotal,
		Discount:     totals.Discount,
		Tax:          totals.Tax,
		Service:      totals.Service,
		Total:        totals.Total,
	}
	if cart.Discount != nil {
		sale.DiscountNote = cart.Discount.Reason
	}
	if payment != nil {
		now := time.Now()
		sale.PaymentType = payment.paymentType
		sale.Tendered = payment.tendered
		sale.Change = payment.change
		sale.EWalletTag = payment.eWalletTag
		sale.IsSplit = payment.isSplit
		sale.PaidAt = &now
	}

	// Attribute the sale to the open shift when there is one.
	if session, err := s.sessionRepo.GetOpenByUser(ctx, userID); err == nil && session != nil {
		sid := session.ID
		sale.SessionID = &sid
	}

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		_ = s.productRepo.AtomicIncrementBatch(ctx, decrements)
		return nil, err
	}

	items := make([]entity.SaleItem, 0, len(cart.Lines))
	for i := range cart.Lines {
		line := &cart.Lines[i]
		item := entity.SaleItem{
			SaleID:    sale.ID,
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal(),
			IsManual:  line.IsManual,
		}
		for _, addon := range line.Addons {
			aid := addon.ID
			item.Addons = append(item.Addons, entity.SaleItemAddon{
				AddonID: &aid,
				Name:    addon.Name,
				Price:   addon.Price,
			})
		}
		items = append(items, item)
	}

	if err := s.saleItemRepo.CreateBatch(ctx, items); err != nil {
		_ = s.productRepo.AtomicIncrementBatch(ctx, decrements)
		_ = s.saleRepo.Delete(ctx, sale.ID)
		return nil, err
	}

	return s.saleRepo.GetWithItems(ctx, sale.ID)
}

// enqueueSideEffects queues the receipt print and, for cash sales when the
// store opts in, the drawer kick. Failures retry off the request path.
func (s *PaymentService) enqueueSideEffects(ctx context.Context, sale *entity.Sale) {
	if s.printer == nil || s.tasks == nil {
		return
	}

	printSale := sale
	s.tasks.Enqueue(sale.SaleNumber, "receipt-print", 3, func() error {
		return s.printer.PrintSale(printSale)
	})

	if sale.PaymentType == enum.PaymentTypeCash {
		settings, err := s.settingsRepo.Get(ctx)
		if err == nil && settings != nil && settings.AutoOpenDrawer {
			s.tasks.Enqueue(sale.SaleNumber+"-drawer", "drawer-kick", 3, func() error {
				return s.printer.OpenDrawer()
			})
		}
	}
}

// GetSale retrieves a sale with its items.
func (s *PaymentService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales lists sales with filtering.
func (s *PaymentService) ListSales(ctx context.Context, params *repository.SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// requireManager enforces the manager gate when the store has it enabled.
func (s *PaymentService) requireManager(ctx context.Context, actor *entity.User) error {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return err
	}
	if settings != nil && settings.EnableManagerAuth && !actor.IsManager() {
		return apperror.ErrManagerRequired
	}
	return nil
}

// VoidSale cancels an unsettled sale and restores its stock.
func (s *PaymentService) VoidSale(ctx context.Context, actor *entity.User, saleID uuid.UUID) error {
	if err := s.requireManager(ctx, actor); err != nil {
		return err
	}

	sale, err := s.saleRepo.GetWithItems(ctx, saleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return apperror.NewNotFoundError("Sale")
	}
	if !sale.Status.IsActive() {
		return apperror.NewConflictError("Only unsettled sales can be voided")
	}

	if err := s.restock(ctx, sale); err != nil {
		return err
	}

	if sale.TableNo != nil {
		_ = s.tableRepo.UpdateStatus(ctx, *sale.TableNo, enum.TableStatusAvailable)
	}

	return s.saleRepo.UpdateStatus(ctx, saleID, enum.SaleStatusVoided)
}

// RefundSale reverses a paid sale: stock comes back and the row is marked
// voided. The cash adjustment is a manual drawer operation.
func (s *PaymentService) RefundSale(ctx context.Context, actor *entity.User, saleID uuid.UUID) error {
	if err := s.requireManager(ctx, actor); err != nil {
		return err
	}

	sale, err := s.saleRepo.GetWithItems(ctx, saleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return apperror.NewNotFoundError("Sale")
	}
	if sale.Status != enum.SaleStatusPaid {
		return apperror.NewConflictError("Only paid sales can be refunded")
	}

	if err := s.restock(ctx, sale); err != nil {
		return err
	}

	return s.saleRepo.UpdateStatus(ctx, saleID, enum.SaleStatusVoided)
}

func (s *PaymentService) restock(ctx context.Context, sale *entity.Sale) error {
	increments := make(map[uuid.UUID]int)
	for i := range sale.Items {
		if sale.Items[i].ProductID != nil {
			increments[*sale.Items[i].ProductID] += sale.Items[i].Quantity
		}
	}
	return s.productRepo.AtomicIncrementBatch(ctx, increments)
}
