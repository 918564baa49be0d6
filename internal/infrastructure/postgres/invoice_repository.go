package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/naste-api/internal/domain"
	"github.com/jhoicas/naste-api/internal/domain/entity"
	"github.com/jhoicas/naste-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceSelect = `
		SELECT i.id, i.status, i.origin, i.payment_method,
		       i.customer_name, i.customer_id_doc, i.customer_phone, i.customer_email,
		       i.city, i.neighborhood, i.address,
		       i.invoice_date, i.delivery_date, i.total, i.stock_restored,
		       i.created_by_id, u.name, u.email,
		       i.created_at, i.updated_at
		FROM invoices i
		JOIN users u ON u.id = i.created_by_id`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera y sus líneas.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, status, origin, payment_method,
		                      customer_name, customer_id_doc, customer_phone, customer_email,
		                      city, neighborhood, address,
		                      invoice_date, delivery_date, total, stock_restored,
		                      created_by_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, string(invoice.Status), string(invoice.Origin), string(invoice.PaymentMethod),
		invoice.CustomerName, invoice.CustomerIDDoc, invoice.CustomerPhone, invoice.CustomerEmail,
		invoice.City, invoice.Neighborhood, invoice.Address,
		invoice.InvoiceDate, invoice.DeliveryDate, invoice.Total, invoice.StockRestored,
		invoice.CreatedByID, invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrReferentialConflict
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return r.insertItems(ctx, invoice.ID, invoice.Items)
}

// GetByID obtiene la factura expandida: creador, líneas y producto de cada línea.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, invoiceSelect+` WHERE i.id = $1`, id)
}

// GetForUpdate como GetByID, con SELECT ... FOR UPDATE sobre la fila de la factura.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, invoiceSelect+` WHERE i.id = $1 FOR UPDATE OF i`, id)
}

func (r *InvoiceRepo) get(ctx context.Context, query, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if err := r.attachItems(ctx, []*entity.Invoice{inv}); err != nil {
		return nil, err
	}
	return inv, nil
}

// Update actualiza los campos de cabecera, el total y la marca de stock reintegrado.
func (r *InvoiceRepo) Update(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET status = $2, origin = $3, payment_method = $4,
		    customer_name = $5, customer_id_doc = $6, customer_phone = $7, customer_email = $8,
		    city = $9, neighborhood = $10, address = $11,
		    delivery_date = $12, total = $13, stock_restored = $14, updated_at = $15
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		invoice.ID, string(invoice.Status), string(invoice.Origin), string(invoice.PaymentMethod),
		invoice.CustomerName, invoice.CustomerIDDoc, invoice.CustomerPhone, invoice.CustomerEmail,
		invoice.City, invoice.Neighborhood, invoice.Address,
		invoice.DeliveryDate, invoice.Total, invoice.StockRestored, invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("factura")
	}
	return nil
}

// ReplaceItems borra las líneas de la factura e inserta las nuevas.
func (r *InvoiceRepo) ReplaceItems(ctx context.Context, invoiceID string, items []*entity.InvoiceItem) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID); err != nil {
		return fmt.Errorf("delete invoice items: %w", err)
	}
	return r.insertItems(ctx, invoiceID, items)
}

// Delete elimina la factura; invoice_items tiene ON DELETE CASCADE.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("factura")
	}
	return nil
}

// List lista facturas filtradas, por fecha de factura descendente, con el total de coincidencias.
func (r *InvoiceRepo) List(ctx context.Context, filter repository.InvoiceFilter, limit, offset int) ([]*entity.Invoice, int, error) {
	where, args := buildInvoiceWhere(filter)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices i `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	query := fmt.Sprintf(`%s %s ORDER BY i.invoice_date DESC, i.id LIMIT $%d OFFSET $%d`,
		invoiceSelect, where, len(args)+1, len(args)+2)
	rows, err := r.q.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	if err := r.attachItems(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// insertItems inserta las líneas en un solo batch, conservando su orden en position.
func (r *InvoiceRepo) insertItems(ctx context.Context, invoiceID string, items []*entity.InvoiceItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, it := range items {
		batch.Queue(`
			INSERT INTO invoice_items (id, invoice_id, product_id, position, description, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			it.ID, invoiceID, it.ProductID, i, it.Description, it.Quantity, it.UnitPrice, it.Subtotal,
		)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range items {
		if _, err := br.Exec(); err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrReferentialConflict
			}
			return fmt.Errorf("insert invoice item: %w", err)
		}
	}
	return nil
}

// attachItems carga en una sola consulta las líneas (con su producto) de todas las facturas dadas.
func (r *InvoiceRepo) attachItems(ctx context.Context, invoices []*entity.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	ids := make([]string, 0, len(invoices))
	byID := make(map[string]*entity.Invoice, len(invoices))
	for _, inv := range invoices {
		ids = append(ids, inv.ID)
		byID[inv.ID] = inv
		inv.Items = []*entity.InvoiceItem{}
	}
	query := `
		SELECT it.id, it.invoice_id, it.product_id, it.description, it.quantity, it.unit_price, it.subtotal,
		       p.code, p.description, p.price, p.stock, p.image_base64, p.is_active, p.created_at, p.updated_at
		FROM invoice_items it
		LEFT JOIN products p ON p.id = it.product_id
		WHERE it.invoice_id = ANY($1::text[]::uuid[])
		ORDER BY it.invoice_id, it.position`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.InvoiceItem
		var (
			code, description, image *string
			price                    *decimal.Decimal
			stock                    *int
			active                   *bool
			createdAt, updatedAt     *time.Time
		)
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ProductID, &it.Description, &it.Quantity, &it.UnitPrice, &it.Subtotal,
			&code, &description, &price, &stock, &image, &active, &createdAt, &updatedAt); err != nil {
			return fmt.Errorf("scan invoice item: %w", err)
		}
		if it.ProductID != nil && code != nil {
			p := &entity.Product{ID: *it.ProductID, Code: *code, Description: *description, Price: *price,
				Stock: *stock, IsActive: *active, CreatedAt: *createdAt, UpdatedAt: *updatedAt}
			if image != nil {
				p.ImageBase64 = *image
			}
			it.Product = p
		}
		if inv, ok := byID[it.InvoiceID]; ok {
			inv.Items = append(inv.Items, &it)
		}
	}
	return rows.Err()
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var status, origin, method string
	creator := &entity.UserSummary{}
	if err := row.Scan(&inv.ID, &status, &origin, &method,
		&inv.CustomerName, &inv.CustomerIDDoc, &inv.CustomerPhone, &inv.CustomerEmail,
		&inv.City, &inv.Neighborhood, &inv.Address,
		&inv.InvoiceDate, &inv.DeliveryDate, &inv.Total, &inv.StockRestored,
		&inv.CreatedByID, &creator.Name, &creator.Email,
		&inv.CreatedAt, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}
	inv.Status = entity.InvoiceStatus(status)
	inv.Origin = entity.InvoiceOrigin(origin)
	inv.PaymentMethod = entity.PaymentMethod(method)
	creator.ID = inv.CreatedByID
	inv.CreatedBy = creator
	return &inv, nil
}
