package repository

import (
	"context"
	"time"

	"github.com/jhoicas/naste-api/internal/domain/entity"
)

// InvoiceFilter filtros tipados del listado de facturas.
// StartDate/EndDate acotan InvoiceDate (inclusive). City y Search son subcadenas sin
// distinguir mayúsculas; Search combina con OR customer_name, customer_id_doc y address.
type InvoiceFilter struct {
	Status        *entity.InvoiceStatus
	Origin        *entity.InvoiceOrigin
	PaymentMethod *entity.PaymentMethod
	CreatedByID   string
	StartDate     *time.Time
	EndDate       *time.Time
	City          string
	Search        string
}

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
// Las lecturas devuelven la factura expandida: líneas con su producto y resumen del creador.
type InvoiceRepository interface {
	// Create persiste cabecera y líneas.
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetForUpdate es GetByID bloqueando la fila de la factura hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	// Update actualiza los campos escalares de la cabecera (incluye total y stock_restored).
	Update(ctx context.Context, invoice *entity.Invoice) error
	// ReplaceItems borra las líneas existentes e inserta las nuevas.
	ReplaceItems(ctx context.Context, invoiceID string, items []*entity.InvoiceItem) error
	// Delete elimina la factura; las líneas se eliminan en cascada.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter InvoiceFilter, limit, offset int) ([]*entity.Invoice, int, error)
}
