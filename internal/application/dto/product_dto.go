package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Code        string          `json:"code" validate:"required,min=1,max=100"`
	Description string          `json:"description" validate:"required,min=1,max=500"`
	Price       decimal.Decimal `json:"price" validate:"gt=0,money"`
	Stock       int             `json:"stock" validate:"gte=0"`
	ImageBase64 *string         `json:"imageBase64,omitempty" validate:"omitempty,base64"`
}

// UpdateProductRequest entrada parcial para actualizar un producto (nil = no cambia).
type UpdateProductRequest struct {
	Code        *string          `json:"code" validate:"omitempty,min=1,max=100"`
	Description *string          `json:"description" validate:"omitempty,min=1,max=500"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gt=0,money"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	ImageBase64 *string          `json:"imageBase64" validate:"omitempty,base64"`
	IsActive    *bool            `json:"isActive"`
}

// ListProductsQuery filtros del listado de productos (?isActive=&search=&minPrice=&maxPrice=).
type ListProductsQuery struct {
	IsActive *bool
	Search   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	PageRequest
}

// StockChangeRequest body de los endpoints de stock directo.
type StockChangeRequest struct {
	Quantity int `json:"quantity" validate:"gt=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageBase64 *string         `json:"imageBase64"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse = PaginatedResponse[ProductResponse]
