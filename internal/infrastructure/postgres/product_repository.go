package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/naste-api/internal/domain"
	"github.com/jhoicas/naste-api/internal/domain/entity"
	"github.com/jhoicas/naste-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, code, description, price, stock, image_base64, is_active, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. Un código repetido es domain.ErrDuplicateCode.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Code, product.Description, product.Price, product.Stock,
		nullIfEmpty(product.ImageBase64), product.IsActive, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCode
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByCode obtiene un producto por código, activo o no.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE code = $1`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by code: %w", err)
	}
	return p, nil
}

// UpdateDetails actualiza los campos descriptivos. stock queda fuera: solo lo mueven las sentencias atómicas.
func (r *ProductRepo) UpdateDetails(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products
		SET code = $2, description = $3, price = $4, image_base64 = $5, is_active = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.Code, product.Description, product.Price,
		nullIfEmpty(product.ImageBase64), product.IsActive, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCode
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("producto")
	}
	return nil
}

// Deactivate hace el soft delete en una sola sentencia.
func (r *ProductRepo) Deactivate(ctx context.Context, id string, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `UPDATE products SET is_active = FALSE, updated_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("producto")
	}
	return nil
}

// SetStock fija el stock pedido explícitamente por el cliente.
func (r *ProductRepo) SetStock(ctx context.Context, id string, stock int, at time.Time) (bool, error) {
	cmd, err := r.q.Exec(ctx, `UPDATE products SET stock = $2, updated_at = $3 WHERE id = $1`, id, stock, at)
	if err != nil {
		return false, fmt.Errorf("set stock: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// List lista productos filtrados con paginación, más recientes primero. Devuelve también el total.
func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter, limit, offset int) ([]*entity.Product, int, error) {
	where, args := buildProductWhere(filter)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM products %s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		productColumns, where, len(args)+1, len(args)+2)
	rows, err := r.q.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// DecreaseStockIfEnough resta en una sola sentencia condicional; sin fila afectada devuelve ok=false.
func (r *ProductRepo) DecreaseStockIfEnough(ctx context.Context, id string, quantity int) (int, bool, error) {
	var stock int
	err := r.q.QueryRow(ctx,
		`UPDATE products SET stock = stock - $2, updated_at = now() WHERE id = $1 AND stock >= $2 RETURNING stock`,
		id, quantity,
	).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("decrease stock: %w", err)
	}
	return stock, true, nil
}

// IncreaseStock suma de forma atómica; found=false si el producto no existe.
func (r *ProductRepo) IncreaseStock(ctx context.Context, id string, quantity int) (int, bool, error) {
	var stock int
	err := r.q.QueryRow(ctx,
		`UPDATE products SET stock = stock + $2, updated_at = now() WHERE id = $1 RETURNING stock`,
		id, quantity,
	).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("increase stock: %w", err)
	}
	return stock, true, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var image *string
	if err := row.Scan(&p.ID, &p.Code, &p.Description, &p.Price, &p.Stock, &image,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if image != nil {
		p.ImageBase64 = *image
	}
	return &p, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
