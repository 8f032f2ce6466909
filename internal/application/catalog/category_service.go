package catalog

import (
	"context"

	"github.com/smartinventory/backend/internal/domain/catalog"
	"github.com/smartinventory/backend/internal/domain/shared"
	"github.com/smartinventory/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
	clock        shared.Clock
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	categoryRepo catalog.CategoryRepository,
	productRepo catalog.ProductRepository,
	clock shared.Clock,
) *CategoryService {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		clock:        clock,
	}
}

// List returns all categories by name with their active product counts
func (s *CategoryService) List(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.ListWithProductCounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = ToCategoryResponse(&categories[i])
	}
	return out, nil
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CategoryRequest) (*CategoryResponse, error) {
	category, err := catalog.NewCategory(req.Name, req.Description, s.clock.Now())
	if err != nil {
		return nil, err
	}
	exists, err := s.categoryRepo.ExistsByName(ctx, category.Name, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, catalog.ErrCategoryNameExists
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("category created", zap.Int64("category_id", category.ID))
	resp := ToCategoryResponse(&catalog.CategorySummary{Category: *category})
	return &resp, nil
}

// Update renames a category
func (s *CategoryService) Update(ctx context.Context, id int64, req CategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := category.Update(req.Name, req.Description, s.clock.Now()); err != nil {
		return nil, err
	}
	exists, err := s.categoryRepo.ExistsByName(ctx, category.Name, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, catalog.ErrCategoryNameExists
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	count, err := s.productRepo.CountActiveByCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(&catalog.CategorySummary{Category: *category, ProductCount: count})
	return &resp, nil
}

// Delete removes a category that no active product uses
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}
	count, err := s.productRepo.CountActiveByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return catalog.ErrCategoryInUse
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.L(ctx).Info("category deleted", zap.Int64("category_id", id))
	return nil
}
