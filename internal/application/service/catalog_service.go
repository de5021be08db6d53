package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/kedaikopi/pos-api/internal/domain/entity"
	"github.com/kedaikopi/pos-api/internal/domain/repository"
	"github.com/kedaikopi/pos-api/pkg/apperror"
	"github.com/kedaikopi/pos-api/pkg/pagination"
)

// CatalogService manages products, their addons, categories and payment
// methods. Catalog prices are whole Rupiah.
type CatalogService struct {
	productRepo       repository.ProductRepository
	categoryRepo      repository.CategoryRepository
	paymentMethodRepo repository.PaymentMethodRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	paymentMethodRepo repository.PaymentMethodRepository,
) *CatalogService {
	return &CatalogService{
		productRepo:       productRepo,
		categoryRepo:      categoryRepo,
		paymentMethodRepo: paymentMethodRepo,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Name       string
	Price      int64
	Stock      int
	StockAlert int
	CategoryID *uuid.UUID
	ImageURL   *string
	Addons     []AddonInput
}

// AddonInput is an addon definition attached at product creation.
type AddonInput struct {
	Name  string
	Price int64
}

// CreateProduct creates a catalog product with its addons.
func (s *CatalogService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Product name is required")
	}
	if input.Price < 0 {
		return nil, apperror.NewBadRequestError("Product price cannot be negative")
	}

	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("Category")
		}
	}

	product := &entity.Product{
		Name:       input.Name,
		Price:      input.Price,
		Stock:      input.Stock,
		StockAlert: input.StockAlert,
		CategoryID: input.CategoryID,
		ImageURL:   input.ImageURL,
	}
	for _, a := range input.Addons {
		product.Addons = append(product.Addons, entity.Addon{
			Name:  a.Name,
			Price: a.Price,
		})
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct retrieves a product with its category and addons.
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	Name       *string
	Price      *int64
	Stock      *int
	StockAlert *int
	CategoryID *uuid.UUID
	ImageURL   *string
}

// UpdateProduct applies a partial update to a product.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperror.NewBadRequestError("Product price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.StockAlert != nil {
		product.StockAlert = *input.StockAlert
	}
	if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product from the catalog.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}
	return s.productRepo.Delete(ctx, id)
}

// ListProducts lists products with filtering.
func (s *CatalogService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// GetLowStockProducts returns products at or below their alert threshold.
func (s *CatalogService) GetLowStockProducts(ctx context.Context) ([]entity.Product, error) {
	return s.productRepo.GetLowStock(ctx)
}

// CreateCategory creates a product category.
func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*entity.Category, error) {
	if name == "" {
		return nil, apperror.NewBadRequestError("Category name is required")
	}
	category := &entity.Category{Name: name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories lists all categories.
func (s *CatalogService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	return s.categoryRepo.List(ctx)
}

// DeleteCategory removes a category. Products keep a dangling reference
// cleared by the nullable foreign key.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return apperror.NewNotFoundError("Category")
	}
	return s.categoryRepo.Delete(ctx, id)
}

// ListPaymentMethods returns the active payment methods shown on the
// payment screen.
func (s *CatalogService) ListPaymentMethods(ctx context.Context) ([]entity.PaymentMethod, error) {
	return s.paymentMethodRepo.ListActive(ctx)
}
