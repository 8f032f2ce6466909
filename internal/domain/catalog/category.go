package catalog

import (
	"strings"
	"time"

	"github.com/smartinventory/backend/internal/domain/shared"
)

// Category groups products for browsing.
type Category struct {
	shared.BaseEntity
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory validates and creates a category.
func NewCategory(name, description string, now time.Time) (*Category, error) {
	c := &Category{}
	if err := c.Update(name, description, now); err != nil {
		return nil, err
	}
	c.CreatedAt = now
	return c, nil
}

// Update replaces name and description.
func (c *Category) Update(name, description string, now time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("Category name is required")
	}
	if len(name) > 100 {
		return shared.NewValidationError("Category name cannot exceed 100 characters")
	}
	c.Name = name
	c.Description = description
	c.UpdatedAt = now
	return nil
}

// CategorySummary is a category with its number of active products.
type CategorySummary struct {
	Category
	ProductCount int64
}

var (
	ErrCategoryNotFound   = shared.NewNotFoundError("Category not found")
	ErrCategoryNameExists = shared.NewDomainError(shared.CodeAlreadyExists, "Category name already exists")
	ErrCategoryInUse      = shared.NewDomainError(shared.CodeConflict, "Cannot delete category with active products")
)
