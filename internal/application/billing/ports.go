package billing

import (
	"context"

	"github.com/jhoicas/naste-api/internal/domain/entity"
	"github.com/jhoicas/naste-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn retorna error se hace rollback: ninguna factura ni movimiento de stock queda a medias.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		products repository.ProductRepository,
		invoices repository.InvoiceRepository,
	) error) error
}

// InvoicePDFGenerator genera la representación gráfica (PDF) de una factura expandida.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice) ([]byte, error)
}
