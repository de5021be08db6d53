package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kedaikopi/pos-api/internal/domain/entity"
	"github.com/kedaikopi/pos-api/internal/domain/enum"
	"github.com/kedaikopi/pos-api/internal/domain/repository"
	"github.com/kedaikopi/pos-api/pkg/pagination"
)

// In-memory repository fakes shared by the service tests. They implement
// the same nil-on-not-found contract as the GORM implementations.

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
	for _, p := range products {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id], nil
}

func (r *fakeProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) GetLowStock(ctx context.Context) ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, p := range r.products {
		if p.Stock <= p.StockAlert {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var failed []uuid.UUID
	for id, amount := range decrements {
		p, ok := r.products[id]
		if !ok || p.Stock < amount {
			failed = append(failed, id)
		}
	}
	if len(failed) > 0 {
		return failed, nil
	}
	for id, amount := range decrements {
		r.products[id].Stock -= amount
	}
	return nil, nil
}

func (r *fakeProductRepo) AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, amount := range increments {
		if p, ok := r.products[id]; ok {
			p.Stock += amount
		}
	}
	return nil
}

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings *entity.StoreSettings
}

func (r *fakeSettingsRepo) Get(ctx context.Context) (*entity.StoreSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settings, nil
}

func (r *fakeSettingsRepo) Create(ctx context.Context, settings *entity.StoreSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = settings
	return nil
}

func (r *fakeSettingsRepo) Update(ctx context.Context, settings *entity.StoreSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = settings
	return nil
}

type fakeSaleRepo struct {
	mu    sync.Mutex
	sales map[uuid.UUID]*entity.Sale
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[uuid.UUID]*entity.Sale)}
}

func (r *fakeSaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now()
	}
	r.sales[sale.ID] = sale
	return nil
}

func (r *fakeSaleRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sales[id], nil
}

func (r *fakeSaleRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sales[id], nil
}

func (r *fakeSaleRepo) Update(ctx context.Context, sale *entity.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sales[sale.ID] = sale
	return nil
}

func (r *fakeSaleRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.SaleStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sale, ok := r.sales[id]; ok {
		sale.Status = status
	}
	return nil
}

func (r *fakeSaleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sales, id)
	return nil
}

func (r *fakeSaleRepo) List(ctx context.Context, params *repository.SaleFilterParams) ([]entity.Sale, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Sale
	for _, s := range r.sales {
		if params.Status != nil && s.Status != *params.Status {
			continue
		}
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *fakeSaleRepo) ListActive(ctx context.Context) ([]entity.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Sale
	for _, s := range r.sales {
		if s.Status.IsActive() {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) GetActiveByTable(ctx context.Context, tableNo int) (*entity.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sales {
		if s.Status.IsActive() && s.TableNo != nil && *s.TableNo == tableNo {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSaleRepo) TotalsByPaymentType(ctx context.Context, sessionID uuid.UUID, openedAt time.Time) (repository.SessionSalesTotals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var totals repository.SessionSalesTotals
	for _, s := range r.sales {
		if s.Status != enum.SaleStatusPaid {
			continue
		}
		attributed := s.SessionID != nil && *s.SessionID == sessionID
		if s.SessionID == nil && !s.CreatedAt.Before(openedAt) {
			attributed = true
		}
		if !attributed {
			continue
		}
		switch s.PaymentType {
		case enum.PaymentTypeCash:
			totals.Cash += s.Total
		case enum.PaymentTypeCard:
			totals.Card += s.Total
		case enum.PaymentTypeQris:
			totals.Qris += s.Total
		}
		totals.Total += s.Total
	}
	return totals, nil
}

// fakeSaleItemRepo appends item snapshots onto the stored sale so
// GetWithItems sees them, mirroring the preloaded relation.
type fakeSaleItemRepo struct {
	sales *fakeSaleRepo
}

func (r *fakeSaleItemRepo) CreateBatch(ctx context.Context, items []entity.SaleItem) error {
	r.sales.mu.Lock()
	defer r.sales.mu.Unlock()
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		if sale, ok := r.sales.sales[items[i].SaleID]; ok {
			sale.Items = append(sale.Items, items[i])
		}
	}
	return nil
}

func (r *fakeSaleItemRepo) GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]entity.SaleItem, error) {
	r.sales.mu.Lock()
	defer r.sales.mu.Unlock()
	if sale, ok := r.sales.sales[saleID]; ok {
		return sale.Items, nil
	}
	return nil, nil
}

func (r *fakeSaleItemRepo) DeleteBySaleID(ctx context.Context, saleID uuid.UUID) error {
	r.sales.mu.Lock()
	defer r.sales.mu.Unlock()
	if sale, ok := r.sales.sales[saleID]; ok {
		sale.Items = nil
	}
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entity.CashierSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*entity.CashierSession)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.CashierSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	r.sessions[session.ID] = session
	return nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.CashierSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[id], nil
}

func (r *fakeSessionRepo) GetOpenByUser(ctx context.Context, userID uuid.UUID) (*entity.CashierSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.UserID == userID && s.Status == enum.SessionStatusOpen {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *entity.CashierSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
	return nil
}

func (r *fakeSessionRepo) List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.CashierSession, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.CashierSession
	for _, s := range r.sessions {
		if userID != uuid.Nil && s.UserID != userID {
			continue
		}
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

type fakeTableRepo struct {
	mu     sync.Mutex
	tables map[int]*entity.DiningTable
}

func newFakeTableRepo(tables ...*entity.DiningTable) *fakeTableRepo {
	r := &fakeTableRepo{tables: make(map[int]*entity.DiningTable)}
	for _, t := range tables {
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		r.tables[t.TableNo] = t
	}
	return r
}

func (r *fakeTableRepo) Create(ctx context.Context, table *entity.DiningTable) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if table.ID == uuid.Nil {
		table.ID = uuid.New()
	}
	r.tables[table.TableNo] = table
	return nil
}

func (r *fakeTableRepo) GetByTableNo(ctx context.Context, tableNo int) (*entity.DiningTable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tables[tableNo], nil
}

func (r *fakeTableRepo) List(ctx context.Context) ([]entity.DiningTable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.DiningTable
	for _, t := range r.tables {
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTableRepo) UpdateStatus(ctx context.Context, tableNo int, status enum.TableStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tables[tableNo]; ok {
		t.Status = status
	}
	return nil
}

// fakeReceiptPrinter records printed sales and drawer kicks.
type fakeReceiptPrinter struct {
	mu      sync.Mutex
	printed []*entity.Sale
	kicks   int
}

func (p *fakeReceiptPrinter) PrintSale(sale *entity.Sale) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printed = append(p.printed, sale)
	return nil
}

func (p *fakeReceiptPrinter) OpenDrawer() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.kicks++
	return nil
}
