package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kedaikopi/pos-api/internal/domain/entity"
	"github.com/kedaikopi/pos-api/internal/domain/enum"
	"github.com/kedaikopi/pos-api/internal/domain/pricing"
	"github.com/kedaikopi/pos-api/internal/domain/repository"
	"github.com/kedaikopi/pos-api/pkg/apperror"
)

// KitchenNotifier receives held-order tickets. Notification is best-effort;
// a failed ticket never blocks the register.
type KitchenNotifier interface {
	NotifyHold(order *entity.HeldOrder)
}

// CartService owns the live carts and the held-order queue. Carts are
// process-local, keyed by cashier; all access goes through the service
// mutex so concurrent requests from the same terminal stay consistent.
type CartService struct {
	productRepo  repository.ProductRepository
	settingsRepo repository.SettingsRepository
	saleRepo     repository.SaleRepository
	notifier     KitchenNotifier

	mu    sync.Mutex
	carts map[uuid.UUID]*entity.Cart
	// held orders, newest last; restore pops from the end
	held map[uuid.UUID][]*entity.HeldOrder
}

// NewCartService creates a new cart service
func NewCartService(
	productRepo repository.ProductRepository,
	settingsRepo repository.SettingsRepository,
	saleRepo repository.SaleRepository,
	notifier KitchenNotifier,
) *CartService {
	return &CartService{
		productRepo:  productRepo,
		settingsRepo: settingsRepo,
		saleRepo:     saleRepo,
		notifier:     notifier,
		carts:        make(map[uuid.UUID]*entity.Cart),
		held:         make(map[uuid.UUID][]*entity.HeldOrder),
	}
}

// CartView is a cart snapshot with its derived totals.
type CartView struct {
	Cart   *entity.Cart   `json:"cart"`
	Totals pricing.Totals `json:"totals"`
}

func (s *CartService) cartOf(userID uuid.UUID) *entity.Cart {
	cart, ok := s.carts[userID]
	if !ok {
		cart = &entity.Cart{}
		s.carts[userID] = cart
	}
	return cart
}

// rates loads the store tax/service percentages. A missing settings row
// prices with zero rates rather than failing the sale.
func (s *CartService) rates(ctx context.Context) (pricing.Rates, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return pricing.Rates{}, err
	}
	if settings == nil {
		return pricing.ZeroRates, nil
	}
	return pricing.Rates{TaxRate: settings.TaxRate, ServiceRate: settings.ServiceRate}, nil
}

func (s *CartService) view(ctx context.Context, cart *entity.Cart) (*CartView, error) {
	rates, err := s.rates(ctx)
	if err != nil {
		return nil, err
	}
	return &CartView{
		Cart:   cart.Clone(),
		Totals: pricing.Compute(cart.Lines, cart.Discount, rates),
	}, nil
}

// GetCart returns the cashier's current cart with totals.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(ctx, s.cartOf(userID))
}

// AddProduct adds a catalog product to the cart. Addon-free lines for the
// same product merge by bumping quantity; any addon selection makes a new
// line with its own identity.
func (s *CartService) AddProduct(ctx context.Context, userID, productID uuid.UUID, addonIDs []uuid.UUID, quantity int) (*CartView, error) {
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	if product.Stock <= 0 {
		return nil, apperror.ErrOutOfStock
	}

	// Snapshot the selected addons; the cart never re-reads addon prices.
	var addons []entity.CartAddon
	for _, addonID := range addonIDs {
		var found *entity.Addon
		for i := range product.Addons {
			if product.Addons[i].ID == addonID {
				found = &product.Addons[i]
				break
			}
		}
		if found == nil {
			return nil, apperror.NewNotFoundError("Addon")
		}
		addons = append(addons, entity.CartAddon{
			ID:    found.ID,
			Name:  found.Name,
			Price: found.Price,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartOf(userID)

	if len(addons) == 0 {
		if line := cart.FindMergeable(productID); line != nil {
			line.Quantity += quantity
			return s.view(ctx, cart)
		}
	}

	pid := product.ID
	cart.Lines = append(cart.Lines, entity.CartLine{
		ID:        uuid.New(),
		ProductID: &pid,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  quantity,
		Addons:    addons,
	})
	return s.view(ctx, cart)
}

// AddManualItem adds a free-form priced line (off-menu item, open price).
// Manual lines never merge.
func (s *CartService) AddManualItem(ctx context.Context, userID uuid.UUID, name string, price int64, quantity int) (*CartView, error) {
	if name == "" {
		return nil, apperror.NewBadRequestError("Item name is required")
	}
	if price < 0 {
		return nil, apperror.NewBadRequestError("Item price cannot be negative")
	}
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartOf(userID)
	cart.Lines = append(cart.Lines, entity.CartLine{
		ID:        uuid.New(),
		Name:      name,
		UnitPrice: price,
		Quantity:  quantity,
		IsManual:  true,
	})
	return s.view(ctx, cart)
}

// SetQuantity sets a line's quantity. Zero or less removes the line.
func (s *CartService) SetQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) (*CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartOf(userID)

	line := cart.FindLine(lineID)
	if line == nil {
		return nil, apperror.NewNotFoundError("Cart line")
	}
	if quantity <= 0 {
		cart.RemoveLine(lineID)
	} else {
		line.Quantity = quantity
	}
	return s.view(ctx, cart)
}

// RemoveLine deletes a line from the cart.
func (s *CartService) RemoveLine(ctx context.Context, userID, lineID uuid.UUID) (*CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartOf(userID)
	if !cart.RemoveLine(lineID) {
		return nil, apperror.NewNotFoundError("Cart line")
	}
	return s.view(ctx, cart)
}

// Clear empties the cart, dropping lines, discount and order info.
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[userID] = &entity.Cart{}
	return s.view(ctx, s.carts[userID])
}

// SetOrderInfo attaches table and customer details to the cart. Assigning
// a table that already has an unsettled sale is rejected.
func (s *CartService) SetOrderInfo(ctx context.Context, userID uuid.UUID, tableNo *int, customerName, waiterName string) (*CartView, error) {
	if tableNo != nil {
		active, err := s.saleRepo.GetActiveByTable(ctx, *tableNo)
		if err != nil {
			return nil, err
		}
		if active != nil {
			return nil, apperror.ErrTableHasActiveOrder
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartOf(userID)
	cart.TableNo = tableNo
	cart.CustomerName = customerName
	cart.WaiterName = waiterName
	return s.view(ctx, cart)
}

// ApplyDiscount sets the cart discount, replacing any existing one. A
// discount needs a positive value and a stated reason.
func (s *CartService) ApplyDiscount(ctx context.Context, userID uuid.UUID, discountType enum.DiscountType, value int64, reason string) (*CartView, error) {
	if value <= 0 {
		return nil, apperror.NewUnprocessableError("Discount value must be positive")
	}
	if reason == "" {
		return nil, apperror.NewUnprocessableError("Discount reason is required")
	}
	if discountType == enum.DiscountTypePercentage && value > 100 {
		return nil, apperror.NewBadRequestError("Percentage discount cannot exceed 100")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartOf(userID)
	cart.Discount = &entity.Discount{
		Type:   discountType,
		Value:  value,
		Reason: reason,
	}
	return s.view(ctx, cart)
}

// RemoveDiscount clears the cart discount.
func (s *CartService) RemoveDiscount(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartOf(userID)
	cart.Discount = nil
	return s.view(ctx, cart)
}

// Hold suspends the current cart onto the held-order queue and starts a
// fresh cart. The kitchen is notified off the request path.
func (s *CartService) Hold(ctx context.Context, userID uuid.UUID) (*entity.HeldOrder, error) {
	rates, err := s.rates(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	cart := s.cartOf(userID)
	if cart.IsEmpty() {
		s.mu.Unlock()
		return nil, apperror.NewBadRequestError("Cannot hold an empty cart")
	}

	snapshot := cart.Clone()
	totals := pricing.Compute(snapshot.Lines, snapshot.Discount, rates)
	order := &entity.HeldOrder{
		ID:           uuid.New(),
		Lines:        snapshot.Lines,
		Discount:     snapshot.Discount,
		Total:        totals.Total,
		TableNo:      snapshot.TableNo,
		CustomerName: snapshot.CustomerName,
		CreatedAt:    time.Now(),
	}
	s.held[userID] = append(s.held[userID], order)
	s.carts[userID] = &entity.Cart{}
	s.mu.Unlock()

	if s.notifier != nil {
		go func(o *entity.HeldOrder) {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("kitchen notify panic: %v", r)
				}
			}()
			s.notifier.NotifyHold(o)
		}(order)
	}

	return order, nil
}

// ListHeld returns the cashier's held orders, newest first.
func (s *CartService) ListHeld(userID uuid.UUID) []*entity.HeldOrder {
	s.mu.Lock()
	defer s.mu.Unlock()

	queue := s.held[userID]
	out := make([]*entity.HeldOrder, 0, len(queue))
	for i := len(queue) - 1; i >= 0; i-- {
		out = append(out, queue[i])
	}
	return out
}

// Restore moves a held order back into the live cart. The cart must be
// empty first so a half-built order is never silently overwritten.
func (s *CartService) Restore(ctx context.Context, userID, orderID uuid.UUID) (*CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartOf(userID)
	if !cart.IsEmpty() {
		return nil, apperror.ErrCartNotEmpty
	}

	queue := s.held[userID]
	for i := len(queue) - 1; i >= 0; i-- {
		if queue[i].ID == orderID {
			order := queue[i]
			s.held[userID] = append(queue[:i], queue[i+1:]...)
			restored := &entity.Cart{
				Lines:        order.Lines,
				Discount:     order.Discount,
				TableNo:      order.TableNo,
				CustomerName: order.CustomerName,
			}
			s.carts[userID] = restored
			return s.view(ctx, restored)
		}
	}
	return nil, apperror.NewNotFoundError("Held order")
}

// RestoreLatest restores the most recently held order.
func (s *CartService) RestoreLatest(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	s.mu.Lock()
	queue := s.held[userID]
	if len(queue) == 0 {
		s.mu.Unlock()
		return nil, apperror.NewNotFoundError("Held order")
	}
	latest := queue[len(queue)-1].ID
	s.mu.Unlock()
	return s.Restore(ctx, userID, latest)
}

// DeleteHeld discards a held order without restoring it.
func (s *CartService) DeleteHeld(userID, orderID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	queue := s.held[userID]
	for i := range queue {
		if queue[i].ID == orderID {
			s.held[userID] = append(queue[:i], queue[i+1:]...)
			return nil
		}
	}
	return apperror.NewNotFoundError("Held order")
}

// SplitResult is the priced portion carved out of the cart for a split
// bill. Split portions carry no discount, tax or service.
type SplitResult struct {
	Lines []entity.CartLine `json:"lines"`
	Total int64             `json:"total"`
}

// PreviewSplit prices a split selection without touching the cart.
// Selections map line IDs to the quantity moving onto the split bill.
func (s *CartService) PreviewSplit(userID uuid.UUID, selections map[uuid.UUID]int) (*SplitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.splitLocked(s.cartOf(userID), selections, false)
}

// CommitSplit removes the split quantities from the cart and returns the
// priced portion. Lines fully consumed by the split are dropped.
func (s *CartService) CommitSplit(userID uuid.UUID, selections map[uuid.UUID]int) (*SplitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.splitLocked(s.cartOf(userID), selections, true)
}

func (s *CartService) splitLocked(cart *entity.Cart, selections map[uuid.UUID]int, commit bool) (*SplitResult, error) {
	if len(selections) == 0 {
		return nil, apperror.ErrEmptySplit
	}

	split := make([]entity.CartLine, 0, len(selections))
	for lineID, qty := range selections {
		if qty < 1 {
			continue
		}
		line := cart.FindLine(lineID)
		if line == nil {
			return nil, apperror.NewNotFoundError("Cart line")
		}
		if qty > line.Quantity {
			return nil, apperror.NewUnprocessableError("Split quantity exceeds line quantity")
		}
		portion := line.Clone()
		portion.Quantity = qty
		split = append(split, portion)
	}
	if len(split) == 0 {
		return nil, apperror.ErrEmptySplit
	}

	if commit {
		for _, portion := range split {
			line := cart.FindLine(portion.ID)
			line.Quantity -= portion.Quantity
			if line.Quantity <= 0 {
				cart.RemoveLine(portion.ID)
			}
		}
	}

	return &SplitResult{
		Lines: split,
		Total: pricing.Subtotal(split),
	}, nil
}

// Snapshot returns a deep copy of the cashier's cart.
func (s *CartService) Snapshot(userID uuid.UUID) *entity.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartOf(userID).Clone()
}

// Reset replaces the cashier's cart with an empty one. Used after a sale
// is committed.
func (s *CartService) Reset(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[userID] = &entity.Cart{}
}
