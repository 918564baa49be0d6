package memory

import (
	"context"

	"github.com/jhoicas/naste-api/internal/application/billing"
	"github.com/jhoicas/naste-api/internal/domain/repository"
)

var _ billing.TxRunner = (*TxRunner)(nil)

// TxRunner serializa las unidades de trabajo y, si fn falla, deshace las escrituras hechas por fn.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn con repos del store; cualquier error deshace todos los cambios hechos dentro de fn.
func (r *TxRunner) Run(ctx context.Context, fn func(
	products repository.ProductRepository,
	invoices repository.InvoiceRepository,
) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	log := &txLog{}
	if err := fn(r.s.txProducts(log), r.s.txInvoices(log)); err != nil {
		r.s.rollback(log)
		return err
	}
	return nil
}
