package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/naste-api/internal/domain"
	"github.com/jhoicas/naste-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// StockLedger aplica entradas y salidas de stock sobre products.stock.
// Cada movimiento es una sola sentencia condicional en el store: no hay lectura-modificación-escritura,
// así que dos salidas concurrentes nunca dejan el stock negativo.
type StockLedger struct {
	products repository.ProductRepository
	log      zerolog.Logger
}

// NewStockLedger construye el ledger sobre el repositorio de productos (pool o tx).
func NewStockLedger(products repository.ProductRepository, log zerolog.Logger) *StockLedger {
	return &StockLedger{products: products, log: log}
}

// WithRepository devuelve un ledger atado a otro repositorio (típicamente el de la transacción en curso).
func (l *StockLedger) WithRepository(products repository.ProductRepository) *StockLedger {
	return &StockLedger{products: products, log: l.log}
}

// DecreaseStock descuenta quantity del producto y devuelve el stock resultante.
//
// Retorna:
//   - domain.ErrInvalidInput      si quantity <= 0.
//   - domain.ErrNotFound          si el producto no existe.
//   - domain.ErrInsufficientStock si stock < quantity (con código, disponible y solicitado).
func (l *StockLedger) DecreaseStock(ctx context.Context, productID string, quantity int) (int, error) {
	if err := validateQuantity(quantity); err != nil {
		return 0, err
	}
	newStock, ok, err := l.products.DecreaseStockIfEnough(ctx, productID, quantity)
	if err != nil {
		return 0, fmt.Errorf("descontar stock: %w", err)
	}
	if !ok {
		// La sentencia no afectó filas: distinguir inexistente de stock insuficiente.
		product, err := l.products.GetByID(ctx, productID)
		if err != nil {
			return 0, fmt.Errorf("descontar stock: %w", err)
		}
		if product == nil {
			return 0, domain.NotFound("producto")
		}
		return 0, domain.InsufficientStock(product.Code, product.Stock, quantity)
	}
	l.log.Debug().
		Str("product_id", productID).
		Int("quantity", -quantity).
		Int("stock", newStock).
		Msg("salida de stock")
	return newStock, nil
}

// IncreaseStock suma quantity al producto (sin tope, también si está inactivo) y devuelve el stock resultante.
func (l *StockLedger) IncreaseStock(ctx context.Context, productID string, quantity int) (int, error) {
	if err := validateQuantity(quantity); err != nil {
		return 0, err
	}
	newStock, found, err := l.products.IncreaseStock(ctx, productID, quantity)
	if err != nil {
		return 0, fmt.Errorf("reintegrar stock: %w", err)
	}
	if !found {
		return 0, domain.NotFound("producto")
	}
	l.log.Debug().
		Str("product_id", productID).
		Int("quantity", quantity).
		Int("stock", newStock).
		Msg("entrada de stock")
	return newStock, nil
}

func validateQuantity(quantity int) error {
	if quantity <= 0 {
		return domain.Validation("la cantidad debe ser mayor que 0",
			domain.FieldError{Field: "quantity", Message: "debe ser mayor que 0"})
	}
	return nil
}
