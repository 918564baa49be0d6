package repository

import (
	"context"
	"time"

	"github.com/jhoicas/naste-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductFilter filtros opcionales del listado de productos (nil = sin filtrar).
// Search coincide, sin distinguir mayúsculas, con code O description.
type ProductFilter struct {
	IsActive *bool
	Search   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetByCode devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// UpdateDetails escribe code, description, price, image_base64, is_active y updated_at; nunca stock.
	UpdateDetails(ctx context.Context, product *entity.Product) error
	// Deactivate marca is_active=false sin leer ni escribir stock.
	Deactivate(ctx context.Context, id string, at time.Time) error
	// SetStock fija el stock a un valor absoluto (ajuste manual). found=false si no existe.
	SetStock(ctx context.Context, id string, stock int, at time.Time) (found bool, err error)
	List(ctx context.Context, filter ProductFilter, limit, offset int) ([]*entity.Product, int, error)

	// DecreaseStockIfEnough resta quantity solo si stock >= quantity, en una sola sentencia.
	// ok=false sin error: el producto no existe o su stock no alcanza (el caller distingue).
	DecreaseStockIfEnough(ctx context.Context, id string, quantity int) (newStock int, ok bool, err error)
	// IncreaseStock suma quantity de forma atómica. found=false si el producto no existe.
	IncreaseStock(ctx context.Context, id string, quantity int) (newStock int, found bool, err error)
}
