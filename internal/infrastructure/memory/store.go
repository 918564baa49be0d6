// Package memory implementa los puertos de persistencia en memoria.
// Apto para tests y para desarrollo local (APP_STORAGE=memory); los datos se pierden al reiniciar.
package memory

import (
	"sync"

	"github.com/jhoicas/naste-api/internal/domain/entity"
)

// Store agrupa las tablas en memoria. Los repositorios guardan y devuelven copias,
// así que un caller nunca modifica el estado interno por referencia.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	seq  int64

	products   map[string]*entity.Product
	productSeq map[string]int64
	invoices   map[string]*entity.Invoice
	invoiceSeq map[string]int64
	users      map[string]*entity.User
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		products:   make(map[string]*entity.Product),
		productSeq: make(map[string]int64),
		invoices:   make(map[string]*entity.Invoice),
		invoiceSeq: make(map[string]int64),
		users:      make(map[string]*entity.User),
	}
}

// Products devuelve el repositorio de productos sobre el store.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Invoices devuelve el repositorio de facturas sobre el store.
func (s *Store) Invoices() *InvoiceRepo { return &InvoiceRepo{s: s} }

func (s *Store) txProducts(l *txLog) *ProductRepo { return &ProductRepo{s: s, tx: l} }

func (s *Store) txInvoices(l *txLog) *InvoiceRepo { return &InvoiceRepo{s: s, tx: l} }

// Users devuelve el repositorio de usuarios sobre el store.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

// txLog acumula las operaciones inversas de las escrituras hechas dentro de una transacción.
// Deshacer aplica solo esas inversas: lo que otras peticiones escribieron mientras tanto se conserva.
type txLog struct {
	undo []func()
}

// record registra la inversa de una escritura. nil (fuera de transacción) no registra nada.
func (l *txLog) record(fn func()) {
	if l != nil {
		l.undo = append(l.undo, fn)
	}
}

// rollback aplica las inversas en orden contrario bajo el lock del store.
func (s *Store) rollback(l *txLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(l.undo) - 1; i >= 0; i-- {
		l.undo[i]()
	}
}

func cloneProduct(p *entity.Product) *entity.Product {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// cloneInvoice copia cabecera y líneas; no copia las expansiones (Product, CreatedBy).
func cloneInvoice(inv *entity.Invoice) *entity.Invoice {
	c := *inv
	c.CreatedBy = nil
	if inv.CustomerEmail != nil {
		email := *inv.CustomerEmail
		c.CustomerEmail = &email
	}
	if inv.DeliveryDate != nil {
		d := *inv.DeliveryDate
		c.DeliveryDate = &d
	}
	c.Items = cloneItems(inv.Items)
	return &c
}

func cloneItems(items []*entity.InvoiceItem) []*entity.InvoiceItem {
	out := make([]*entity.InvoiceItem, 0, len(items))
	for _, it := range items {
		c := *it
		c.Product = nil
		if it.ProductID != nil {
			id := *it.ProductID
			c.ProductID = &id
		}
		out = append(out, &c)
	}
	return out
}
