package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/naste-api/internal/domain"
	"github.com/jhoicas/naste-api/internal/domain/entity"
	"github.com/jhoicas/naste-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación en memoria de InvoiceRepository.
type InvoiceRepo struct {
	s  *Store
	tx *txLog
}

// Create persiste cabecera y líneas. Creador o productos inexistentes son ErrReferentialConflict,
// igual que las llaves foráneas de Postgres.
func (r *InvoiceRepo) Create(_ context.Context, invoice *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[invoice.CreatedByID]; !ok {
		return domain.ErrReferentialConflict
	}
	if err := r.checkProducts(invoice.Items); err != nil {
		return err
	}
	r.s.invoices[invoice.ID] = cloneInvoice(invoice)
	r.s.invoiceSeq[invoice.ID] = r.s.nextSeq()
	r.tx.record(func() {
		delete(r.s.invoices, invoice.ID)
		delete(r.s.invoiceSeq, invoice.ID)
	})
	return nil
}

// GetByID devuelve la factura expandida o (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	return r.expand(inv), nil
}

// GetForUpdate equivale a GetByID: el TxRunner en memoria ya serializa las transacciones.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

// Update reemplaza los campos de cabecera; las líneas no cambian.
func (r *InvoiceRepo) Update(_ context.Context, invoice *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.invoices[invoice.ID]
	if !ok {
		return domain.NotFound("factura")
	}
	updated := cloneInvoice(invoice)
	updated.Items = current.Items
	updated.CreatedByID = current.CreatedByID
	updated.CreatedAt = current.CreatedAt
	r.s.invoices[invoice.ID] = updated
	r.tx.record(func() {
		// conserva las líneas vigentes: ReplaceItems registra su propia inversa
		current.Items = r.s.invoices[invoice.ID].Items
		r.s.invoices[invoice.ID] = current
	})
	return nil
}

// ReplaceItems borra las líneas actuales e inserta las nuevas.
func (r *InvoiceRepo) ReplaceItems(_ context.Context, invoiceID string, items []*entity.InvoiceItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[invoiceID]
	if !ok {
		return domain.NotFound("factura")
	}
	if err := r.checkProducts(items); err != nil {
		return err
	}
	prevItems := inv.Items
	r.tx.record(func() { r.s.invoices[invoiceID].Items = prevItems })
	inv.Items = cloneItems(items)
	for _, it := range inv.Items {
		it.InvoiceID = invoiceID
	}
	return nil
}

// Delete elimina la factura junto con sus líneas.
func (r *InvoiceRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return domain.NotFound("factura")
	}
	seq := r.s.invoiceSeq[id]
	delete(r.s.invoices, id)
	delete(r.s.invoiceSeq, id)
	r.tx.record(func() {
		r.s.invoices[id] = inv
		r.s.invoiceSeq[id] = seq
	})
	return nil
}

// List filtra y pagina en memoria, por fecha de factura descendente.
func (r *InvoiceRepo) List(_ context.Context, filter repository.InvoiceFilter, limit, offset int) ([]*entity.Invoice, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	city := strings.ToLower(strings.TrimSpace(filter.City))
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	matched := make([]*entity.Invoice, 0, len(r.s.invoices))
	for _, inv := range r.s.invoices {
		if filter.Status != nil && inv.Status != *filter.Status {
			continue
		}
		if filter.Origin != nil && inv.Origin != *filter.Origin {
			continue
		}
		if filter.PaymentMethod != nil && inv.PaymentMethod != *filter.PaymentMethod {
			continue
		}
		if filter.CreatedByID != "" && inv.CreatedByID != filter.CreatedByID {
			continue
		}
		if filter.StartDate != nil && inv.InvoiceDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && inv.InvoiceDate.After(*filter.EndDate) {
			continue
		}
		if city != "" && !strings.Contains(strings.ToLower(inv.City), city) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(inv.CustomerName), search) &&
			!strings.Contains(strings.ToLower(inv.CustomerIDDoc), search) &&
			!strings.Contains(strings.ToLower(inv.Address), search) {
			continue
		}
		matched = append(matched, inv)
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.InvoiceDate.Equal(b.InvoiceDate) {
			return a.InvoiceDate.After(b.InvoiceDate)
		}
		return r.s.invoiceSeq[a.ID] > r.s.invoiceSeq[b.ID]
	})
	total := len(matched)
	page := paginate(matched, limit, offset)
	out := make([]*entity.Invoice, 0, len(page))
	for _, inv := range page {
		out = append(out, r.expand(inv))
	}
	return out, total, nil
}

// checkProducts exige que cada línea con producto apunte a un producto existente. Requiere el lock.
func (r *InvoiceRepo) checkProducts(items []*entity.InvoiceItem) error {
	for _, it := range items {
		if !it.HasProduct() {
			continue
		}
		if _, ok := r.s.products[*it.ProductID]; !ok {
			return domain.ErrReferentialConflict
		}
	}
	return nil
}

// expand copia la factura y resuelve producto por línea y resumen del creador. Requiere el lock.
func (r *InvoiceRepo) expand(inv *entity.Invoice) *entity.Invoice {
	out := cloneInvoice(inv)
	for _, it := range out.Items {
		if it.HasProduct() {
			it.Product = cloneProduct(r.s.products[*it.ProductID])
		}
	}
	if u, ok := r.s.users[out.CreatedByID]; ok {
		out.CreatedBy = u.Summary()
	}
	return out
}
