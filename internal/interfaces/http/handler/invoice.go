package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	billingapp "github.com/smartinventory/backend/internal/application/billing"
)

const dateLayout = "2006-01-02"

// InvoiceHandler handles invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *billingapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *billingapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// InvoiceItemRequest is one cart line
type InvoiceItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

// CreateInvoiceRequest represents a checkout
type CreateInvoiceRequest struct {
	CustomerID     *int64               `json:"customer_id" binding:"omitempty,gt=0"`
	Items          []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
	TaxAmount      decimal.Decimal      `json:"tax_amount" binding:"gte=0"`
	DiscountAmount decimal.Decimal      `json:"discount_amount" binding:"gte=0"`
	PaymentMethod  string               `json:"payment_method" binding:"max=50"`
	PaymentStatus  string               `json:"payment_status" binding:"max=50"`
	Notes          string               `json:"notes" binding:"max=1000"`
}

// InvoiceListQuery holds invoice list filters. Dates are local calendar days
// and both ends are inclusive.
type InvoiceListQuery struct {
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
	FromDate   string `form:"fromDate" binding:"omitempty,datetime=2006-01-02"`
	ToDate     string `form:"toDate" binding:"omitempty,datetime=2006-01-02"`
	CustomerID *int64 `form:"customerId" binding:"omitempty,gt=0"`
}

// Create handles POST /invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	userID, _ := currentUserID(c)

	items := make([]billingapp.InvoiceItemRequest, len(req.Items))
	for i, item := range req.Items {
		items[i] = billingapp.InvoiceItemRequest{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), billingapp.CreateInvoiceRequest{
		CustomerID:     req.CustomerID,
		Items:          items,
		TaxAmount:      req.TaxAmount,
		DiscountAmount: req.DiscountAmount,
		PaymentMethod:  req.PaymentMethod,
		PaymentStatus:  req.PaymentStatus,
		Notes:          req.Notes,
		UserID:         userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// List handles GET /invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	var q InvoiceListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	filter := billingapp.InvoiceListFilter{
		CustomerID: q.CustomerID,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}
	if q.FromDate != "" {
		from, _ := time.ParseInLocation(dateLayout, q.FromDate, time.Local)
		filter.From = &from
	}
	if q.ToDate != "" {
		day, _ := time.ParseInLocation(dateLayout, q.ToDate, time.Local)
		to := day.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.To = &to
	}

	page, err := h.invoiceService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// GetByID handles GET /invoices/:id
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// NextNumber handles GET /invoices/next-number. The number is a preview and
// is not reserved.
func (h *InvoiceHandler) NextNumber(c *gin.Context) {
	next, err := h.invoiceService.PreviewInvoiceNumber(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, next)
}
