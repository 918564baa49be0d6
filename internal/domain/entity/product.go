package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// Code es único entre todos los productos (activos o no); Stock nunca es negativo.
// Los productos no se borran: IsActive=false los retira del catálogo (soft delete).
type Product struct {
	ID          string
	Code        string
	Description string
	Price       decimal.Decimal // precio unitario de venta (> 0)
	Stock       int
	ImageBase64 string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
