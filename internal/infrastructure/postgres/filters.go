package postgres

import (
	"fmt"
	"strings"

	"github.com/jhoicas/naste-api/internal/domain/repository"
)

// whereBuilder acumula condiciones AND con parámetros posicionales ($1, $2, ...).
type whereBuilder struct {
	conds []string
	args  []any
}

// arg registra un parámetro y devuelve su placeholder.
func (w *whereBuilder) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *whereBuilder) add(cond string) {
	w.conds = append(w.conds, cond)
}

// sql devuelve "WHERE ..." o "" si no hay condiciones.
func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.conds, " AND ")
}

// buildProductWhere traduce ProductFilter a SQL sobre la tabla products.
func buildProductWhere(f repository.ProductFilter) (string, []any) {
	w := &whereBuilder{}
	if f.IsActive != nil {
		w.add("is_active = " + w.arg(*f.IsActive))
	}
	if f.MinPrice != nil {
		w.add("price >= " + w.arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		w.add("price <= " + w.arg(*f.MaxPrice))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := w.arg(likePattern(s))
		w.add(fmt.Sprintf("(code ILIKE %s OR description ILIKE %s)", p, p))
	}
	return w.sql(), w.args
}

// buildInvoiceWhere traduce InvoiceFilter a SQL sobre invoices (alias i).
func buildInvoiceWhere(f repository.InvoiceFilter) (string, []any) {
	w := &whereBuilder{}
	if f.Status != nil {
		w.add("i.status = " + w.arg(string(*f.Status)))
	}
	if f.Origin != nil {
		w.add("i.origin = " + w.arg(string(*f.Origin)))
	}
	if f.PaymentMethod != nil {
		w.add("i.payment_method = " + w.arg(string(*f.PaymentMethod)))
	}
	if f.CreatedByID != "" {
		w.add("i.created_by_id = " + w.arg(f.CreatedByID))
	}
	if f.StartDate != nil {
		w.add("i.invoice_date >= " + w.arg(*f.StartDate))
	}
	if f.EndDate != nil {
		w.add("i.invoice_date <= " + w.arg(*f.EndDate))
	}
	if c := strings.TrimSpace(f.City); c != "" {
		w.add("i.city ILIKE " + w.arg(likePattern(c)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := w.arg(likePattern(s))
		w.add(fmt.Sprintf("(i.customer_name ILIKE %s OR i.customer_id_doc ILIKE %s OR i.address ILIKE %s)", p, p, p))
	}
	return w.sql(), w.args
}
