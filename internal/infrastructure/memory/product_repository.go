package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/naste-api/internal/domain"
	"github.com/jhoicas/naste-api/internal/domain/entity"
	"github.com/jhoicas/naste-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	s  *Store
	tx *txLog
}

// Create persiste un producto nuevo. El código es único entre todos los productos.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.Code == product.Code {
			return domain.ErrDuplicateCode
		}
	}
	r.s.products[product.ID] = cloneProduct(product)
	r.s.productSeq[product.ID] = r.s.nextSeq()
	r.tx.record(func() {
		delete(r.s.products, product.ID)
		delete(r.s.productSeq, product.ID)
	})
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cloneProduct(r.s.products[id]), nil
}

// GetByCode devuelve (nil, nil) si no existe.
func (r *ProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.products {
		if p.Code == code {
			return cloneProduct(p), nil
		}
	}
	return nil, nil
}

// UpdateDetails copia los campos descriptivos sobre el producto guardado; el stock guardado se conserva.
func (r *ProductRepo) UpdateDetails(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.products[product.ID]
	if !ok {
		return domain.NotFound("producto")
	}
	for id, p := range r.s.products {
		if id != product.ID && p.Code == product.Code {
			return domain.ErrDuplicateCode
		}
	}
	prev := *stored
	r.tx.record(func() {
		stored.Code, stored.Description, stored.Price = prev.Code, prev.Description, prev.Price
		stored.ImageBase64, stored.IsActive, stored.UpdatedAt = prev.ImageBase64, prev.IsActive, prev.UpdatedAt
	})
	stored.Code = product.Code
	stored.Description = product.Description
	stored.Price = product.Price
	stored.ImageBase64 = product.ImageBase64
	stored.IsActive = product.IsActive
	stored.UpdatedAt = product.UpdatedAt
	return nil
}

// Deactivate marca el producto inactivo.
func (r *ProductRepo) Deactivate(_ context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.products[id]
	if !ok {
		return domain.NotFound("producto")
	}
	wasActive, prevAt := stored.IsActive, stored.UpdatedAt
	r.tx.record(func() { stored.IsActive, stored.UpdatedAt = wasActive, prevAt })
	stored.IsActive = false
	stored.UpdatedAt = at
	return nil
}

// SetStock fija el stock. found=false si no existe.
func (r *ProductRepo) SetStock(_ context.Context, id string, stock int, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.products[id]
	if !ok {
		return false, nil
	}
	prevStock, prevAt := stored.Stock, stored.UpdatedAt
	r.tx.record(func() { stored.Stock, stored.UpdatedAt = prevStock, prevAt })
	stored.Stock = stock
	stored.UpdatedAt = at
	return true, nil
}

// List filtra y pagina en memoria, más recientes primero.
func (r *ProductRepo) List(_ context.Context, filter repository.ProductFilter, limit, offset int) ([]*entity.Product, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	matched := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		if filter.IsActive != nil && p.IsActive != *filter.IsActive {
			continue
		}
		if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Code), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return r.s.productSeq[a.ID] > r.s.productSeq[b.ID]
	})
	total := len(matched)
	page := paginate(matched, limit, offset)
	out := make([]*entity.Product, 0, len(page))
	for _, p := range page {
		out = append(out, cloneProduct(p))
	}
	return out, total, nil
}

// DecreaseStockIfEnough resta bajo el lock del store, equivalente a la sentencia condicional de Postgres.
func (r *ProductRepo) DecreaseStockIfEnough(_ context.Context, id string, quantity int) (int, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.Stock < quantity {
		return 0, false, nil
	}
	p.Stock -= quantity
	r.tx.record(func() { p.Stock += quantity })
	return p.Stock, true, nil
}

// IncreaseStock suma bajo el lock del store.
func (r *ProductRepo) IncreaseStock(_ context.Context, id string, quantity int) (int, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return 0, false, nil
	}
	p.Stock += quantity
	r.tx.record(func() { p.Stock -= quantity })
	return p.Stock, true, nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
