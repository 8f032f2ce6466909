package catalog

import (
	"context"
	"errors"

	appinventory "github.com/smartinventory/backend/internal/application/inventory"
	"github.com/smartinventory/backend/internal/application/transaction"
	"github.com/smartinventory/backend/internal/domain/catalog"
	"github.com/smartinventory/backend/internal/domain/inventory"
	"github.com/smartinventory/backend/internal/domain/shared"
	"github.com/smartinventory/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

var errCategoryMissing = shared.NewValidationError("Category does not exist")

// ProductService handles product-related business operations
type ProductService struct {
	scope        transaction.Scope
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	recorder     *appinventory.Recorder
	clock        shared.Clock
}

// NewProductService creates a new ProductService
func NewProductService(
	scope transaction.Scope,
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	recorder *appinventory.Recorder,
	clock shared.Clock,
) *ProductService {
	if recorder == nil {
		recorder = appinventory.NewRecorder(nil)
	}
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &ProductService{
		scope:        scope,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		recorder:     recorder,
		clock:        clock,
	}
}

// Create adds a product. Initial stock is written to the ledger as a
// Purchase and a product that starts at or below its threshold alerts.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, catalog.ErrProductCodeExists
	}

	categoryName, err := s.categoryName(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	minLevel := catalog.DefaultMinStockLevel
	if req.MinStockLevel != nil {
		minLevel = *req.MinStockLevel
	}
	now := s.clock.Now()
	product, err := catalog.NewProduct(req.Code, catalog.ProductFields{
		Name:          req.Name,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		UnitPrice:     req.UnitPrice,
		StockQuantity: req.StockQuantity,
		MinStockLevel: minLevel,
		Unit:          req.Unit,
		ImageURL:      req.ImageURL,
	}, now)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		if err := repos.Products().Create(ctx, product); err != nil {
			return err
		}
		_, err := s.recorder.Open(ctx, repos, now, product, req.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("product created",
		zap.Int64("product_id", product.ID),
		zap.String("code", product.Code),
		zap.Int("stock", product.StockQuantity),
	)
	resp := ToProductResponse(product, categoryName)
	return &resp, nil
}

// GetByID returns a product, active or not.
func (s *ProductService) GetByID(ctx context.Context, id int64) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	categoryName, err := s.categoryName(ctx, product.CategoryID)
	if err != nil && !errors.Is(err, errCategoryMissing) {
		return nil, err
	}
	resp := ToProductResponse(product, categoryName)
	return &resp, nil
}

// List returns one page of products ordered by name unless asked otherwise.
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) (shared.Paginated[ProductResponse], error) {
	activeOnly := true
	if filter.ActiveOnly != nil {
		activeOnly = *filter.ActiveOnly
	}
	page := shared.Page{Number: filter.Page, Size: filter.PageSize}

	products, total, err := s.productRepo.List(ctx, catalog.ProductFilter{
		Search:       filter.Search,
		CategoryID:   filter.CategoryID,
		LowStockOnly: filter.LowStockOnly,
		ActiveOnly:   activeOnly,
		OrderBy:      filter.OrderBy,
		OrderDir:     filter.OrderDir,
		Page:         page,
	})
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}

	names, err := s.categoryNames(ctx)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	out := make([]ProductResponse, len(products))
	for i := range products {
		var name string
		if products[i].CategoryID != nil {
			name = names[*products[i].CategoryID]
		}
		out[i] = ToProductResponse(&products[i], name)
	}
	return shared.NewPaginated(out, total, page), nil
}

// Update replaces the product's fields. A stock change made here is written
// to the ledger as an Adjustment and runs the alert rule; the write fails
// with CONFLICT if a sale moved the stock since it was read.
func (s *ProductService) Update(ctx context.Context, id int64, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	categoryName, err := s.categoryName(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	isActive := product.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	now := s.clock.Now()
	oldStock, err := product.SetFields(catalog.ProductFields{
		Name:          req.Name,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		UnitPrice:     req.UnitPrice,
		StockQuantity: req.StockQuantity,
		MinStockLevel: req.MinStockLevel,
		Unit:          req.Unit,
		ImageURL:      req.ImageURL,
		IsActive:      isActive,
	}, now)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		if err := repos.Products().Save(ctx, product, oldStock); err != nil {
			return err
		}
		change := &catalog.StockChange{Product: product, OldStock: oldStock, NewStock: product.StockQuantity}
		_, err := s.recorder.Record(ctx, repos, now, change, appinventory.Movement{
			ProductID: product.ID,
			Type:      inventory.TransactionTypeAdjustment,
			UserID:    req.UserID,
			Notes:     "Product updated",
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("product updated",
		zap.Int64("product_id", product.ID),
		zap.Int("old_stock", oldStock),
		zap.Int("new_stock", product.StockQuantity),
	)
	resp := ToProductResponse(product, categoryName)
	return &resp, nil
}

// Deactivate soft-deletes a product. Its invoices and ledger stay intact.
func (s *ProductService) Deactivate(ctx context.Context, id int64) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !product.IsActive {
		return nil
	}
	product.Deactivate(s.clock.Now())
	if err := s.productRepo.Save(ctx, product, product.StockQuantity); err != nil {
		return err
	}
	logger.L(ctx).Info("product deactivated", zap.Int64("product_id", id))
	return nil
}

func (s *ProductService) categoryName(ctx context.Context, id *int64) (string, error) {
	if id == nil {
		return "", nil
	}
	category, err := s.categoryRepo.FindByID(ctx, *id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", errCategoryMissing
		}
		return "", err
	}
	return category.Name, nil
}

func (s *ProductService) categoryNames(ctx context.Context) (map[int64]string, error) {
	categories, err := s.categoryRepo.ListWithProductCounts(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}
