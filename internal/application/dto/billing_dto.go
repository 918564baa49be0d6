package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItemRequest línea de factura. ProductID es opcional (línea de texto libre).
type InvoiceItemRequest struct {
	ProductID   *string         `json:"productId" validate:"omitempty,uuid"`
	Description string          `json:"description" validate:"required,min=1"`
	Quantity    int             `json:"quantity" validate:"gt=0"`
	UnitPrice   decimal.Decimal `json:"unitPrice" validate:"gt=0,money"`
}

// CreateInvoiceRequest body para POST /api/invoices.
type CreateInvoiceRequest struct {
	Status        string `json:"status" validate:"omitempty,invoice_status"`
	Origin        string `json:"origin" validate:"required,invoice_origin"`
	PaymentMethod string `json:"paymentMethod" validate:"required,payment_method"`

	CustomerName  string  `json:"customerName" validate:"required,min=1"`
	CustomerIDDoc string  `json:"customerIdDoc" validate:"required,min=1"`
	CustomerPhone string  `json:"customerPhone" validate:"required,min=1"`
	CustomerEmail *string `json:"customerEmail" validate:"omitempty,email"`

	City         string `json:"city" validate:"required,min=1"`
	Neighborhood string `json:"neighborhood" validate:"required,min=1"`
	Address      string `json:"address" validate:"required,min=1"`

	DeliveryDate *time.Time `json:"deliveryDate"`

	Items []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateInvoiceRequest body para PUT /api/invoices/:id. Todos los campos son opcionales;
// si Items viene, reemplaza el conjunto completo de líneas.
type UpdateInvoiceRequest struct {
	Status        *string `json:"status" validate:"omitempty,invoice_status"`
	Origin        *string `json:"origin" validate:"omitempty,invoice_origin"`
	PaymentMethod *string `json:"paymentMethod" validate:"omitempty,payment_method"`

	CustomerName  *string `json:"customerName" validate:"omitempty,min=1"`
	CustomerIDDoc *string `json:"customerIdDoc" validate:"omitempty,min=1"`
	CustomerPhone *string `json:"customerPhone" validate:"omitempty,min=1"`
	CustomerEmail *string `json:"customerEmail" validate:"omitempty,email"`

	City         *string `json:"city" validate:"omitempty,min=1"`
	Neighborhood *string `json:"neighborhood" validate:"omitempty,min=1"`
	Address      *string `json:"address" validate:"omitempty,min=1"`

	DeliveryDate *time.Time `json:"deliveryDate"`

	// nil conserva las líneas; una lista presente debe traer al menos una.
	Items []InvoiceItemRequest `json:"items" validate:"omitnil,min=1,dive"`
}

// UpdateInvoiceStatusRequest body para PATCH /api/invoices/:id/status.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,invoice_status"`
}

// ListInvoicesQuery filtros del listado de facturas.
type ListInvoicesQuery struct {
	Status        string
	Origin        string
	PaymentMethod string
	CreatedByID   string
	StartDate     *time.Time
	EndDate       *time.Time
	City          string
	Search        string
	PageRequest
}

// CreatorSummary resumen del usuario que creó la factura.
type CreatorSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// InvoiceItemResponse línea de factura con su producto (si tiene).
type InvoiceItemResponse struct {
	ID          string           `json:"id"`
	ProductID   *string          `json:"productId"`
	Product     *ProductResponse `json:"product"`
	Description string           `json:"description"`
	Quantity    int              `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unitPrice"`
	Subtotal    decimal.Decimal  `json:"subtotal"`
}

// InvoiceResponse factura expandida: líneas, productos y creador.
type InvoiceResponse struct {
	ID            string  `json:"id"`
	Status        string  `json:"status"`
	Origin        string  `json:"origin"`
	PaymentMethod string  `json:"paymentMethod"`
	CustomerName  string  `json:"customerName"`
	CustomerIDDoc string  `json:"customerIdDoc"`
	CustomerPhone string  `json:"customerPhone"`
	CustomerEmail *string `json:"customerEmail"`

	City         string `json:"city"`
	Neighborhood string `json:"neighborhood"`
	Address      string `json:"address"`

	InvoiceDate  time.Time       `json:"invoiceDate"`
	DeliveryDate *time.Time      `json:"deliveryDate"`
	Total        decimal.Decimal `json:"total"`

	CreatedByID string                `json:"createdById"`
	CreatedBy   *CreatorSummary       `json:"createdBy"`
	Items       []InvoiceItemResponse `json:"items"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// InvoiceListResponse lista paginada de facturas.
type InvoiceListResponse = PaginatedResponse[InvoiceResponse]
