package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	catalogapp "github.com/smartinventory/backend/internal/application/catalog"
	inventoryapp "github.com/smartinventory/backend/internal/application/inventory"
	"github.com/smartinventory/backend/internal/domain/shared"
	"github.com/smartinventory/backend/internal/interfaces/http/dto"
)

// ProductHandler handles product and stock endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
	stockService   *inventoryapp.StockService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService, stockService *inventoryapp.StockService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		stockService:   stockService,
	}
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Code          string          `json:"code" binding:"required,max=50"`
	Name          string          `json:"name" binding:"required,max=200"`
	Description   string          `json:"description" binding:"max=2000"`
	CategoryID    *int64          `json:"category_id" binding:"omitempty,gt=0"`
	UnitPrice     decimal.Decimal `json:"unit_price" binding:"gte=0"`
	StockQuantity int             `json:"stock_quantity" binding:"gte=0"`
	MinStockLevel *int            `json:"min_stock_level" binding:"omitempty,gte=0"`
	Unit          string          `json:"unit" binding:"max=20"`
	ImageURL      string          `json:"image_url" binding:"omitempty,url,max=500"`
}

// UpdateProductRequest replaces a product's editable fields
type UpdateProductRequest struct {
	Name          string          `json:"name" binding:"required,max=200"`
	Description   string          `json:"description" binding:"max=2000"`
	CategoryID    *int64          `json:"category_id" binding:"omitempty,gt=0"`
	UnitPrice     decimal.Decimal `json:"unit_price" binding:"gte=0"`
	StockQuantity int             `json:"stock_quantity" binding:"gte=0"`
	MinStockLevel int             `json:"min_stock_level" binding:"gte=0"`
	Unit          string          `json:"unit" binding:"max=20"`
	ImageURL      string          `json:"image_url" binding:"omitempty,url,max=500"`
	IsActive      *bool           `json:"is_active"`
}

// ProductListQuery holds product list filters
type ProductListQuery struct {
	dto.ListRequest
	CategoryID   *int64 `form:"categoryId" binding:"omitempty,gt=0"`
	LowStockOnly bool   `form:"lowStockOnly"`
	ActiveOnly   *bool  `form:"activeOnly"`
}

// AdjustStockRequest is a manual stock movement
type AdjustStockRequest struct {
	ProductID       int64  `json:"product_id" binding:"required,gt=0"`
	Quantity        int    `json:"quantity"`
	TransactionType string `json:"transaction_type" binding:"required"`
	Notes           string `json:"notes" binding:"max=500"`
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	var q ProductListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.productService.List(c.Request.Context(), catalogapp.ProductListFilter{
		Search:       q.Search,
		CategoryID:   q.CategoryID,
		LowStockOnly: q.LowStockOnly,
		ActiveOnly:   q.ActiveOnly,
		OrderBy:      q.OrderBy,
		OrderDir:     q.OrderDir,
		Page:         q.Page,
		PageSize:     q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// GetByID handles GET /products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Create handles POST /products (Admin)
func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	userID, _ := currentUserID(c)

	product, err := h.productService.Create(c.Request.Context(), catalogapp.CreateProductRequest{
		Code:          req.Code,
		Name:          req.Name,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		UnitPrice:     req.UnitPrice,
		StockQuantity: req.StockQuantity,
		MinStockLevel: req.MinStockLevel,
		Unit:          req.Unit,
		ImageURL:      req.ImageURL,
		UserID:        userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Update handles PUT /products/:id (Admin)
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	userID, _ := currentUserID(c)

	product, err := h.productService.Update(c.Request.Context(), id, catalogapp.UpdateProductRequest{
		Name:          req.Name,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		UnitPrice:     req.UnitPrice,
		StockQuantity: req.StockQuantity,
		MinStockLevel: req.MinStockLevel,
		Unit:          req.Unit,
		ImageURL:      req.ImageURL,
		IsActive:      req.IsActive,
		UserID:        userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete handles DELETE /products/:id (Admin). Products are deactivated,
// never removed.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.productService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Product deleted successfully"})
}

// AdjustStock handles POST /products/adjust-stock (Admin)
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	userID, _ := currentUserID(c)

	result, err := h.stockService.AdjustStock(c.Request.Context(), inventoryapp.AdjustStockRequest{
		ProductID:       req.ProductID,
		Quantity:        req.Quantity,
		TransactionType: req.TransactionType,
		Notes:           req.Notes,
		UserID:          userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Transactions handles GET /products/:id/transactions
func (h *ProductHandler) Transactions(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var q dto.ListRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.stockService.ListTransactions(c.Request.Context(), id, shared.Page{Number: q.Page, Size: q.PageSize})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}
