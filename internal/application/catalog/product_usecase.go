package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/naste-api/internal/application/dto"
	"github.com/jhoicas/naste-api/internal/application/inventory"
	"github.com/jhoicas/naste-api/internal/domain"
	"github.com/jhoicas/naste-api/internal/domain/entity"
	"github.com/jhoicas/naste-api/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo de productos.
// Los productos nunca se eliminan físicamente: Delete los desactiva.
type ProductUseCase struct {
	repo   repository.ProductRepository
	ledger *inventory.StockLedger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, ledger *inventory.StockLedger) *ProductUseCase {
	return &ProductUseCase{repo: repo, ledger: ledger}
}

// Create crea un producto activo. El código no puede existir en ningún otro producto, activo o no.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	code := strings.TrimSpace(in.Code)
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, duplicateCode(code)
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Code:        code,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Stock:       in.Stock,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Stock < 0 {
		return nil, domain.Validation("el stock no puede ser negativo",
			domain.FieldError{Field: "stock", Message: "debe ser mayor o igual a 0"})
	}
	if in.ImageBase64 != nil {
		product.ImageBase64 = *in.ImageBase64
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		if errors.Is(err, domain.ErrDuplicateCode) {
			return nil, duplicateCode(code)
		}
		return nil, err
	}
	return dto.ToProductResponse(product), nil
}

// GetByID obtiene un producto; domain.ErrNotFound si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.ToProductResponse(product), nil
}

// GetByCode obtiene un producto por código; (nil, nil) si no existe.
func (uc *ProductUseCase) GetByCode(ctx context.Context, code string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return dto.ToProductResponse(product), nil
}

// Update aplica los campos presentes. Conservar el propio código no es un duplicado.
// Los campos descriptivos se escriben sin tocar stock; un stock explícito se fija con una
// sentencia propia, así un descuento concurrente de una factura no se pierde.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Code != nil {
		code := strings.TrimSpace(*in.Code)
		if code != product.Code {
			other, err := uc.repo.GetByCode(ctx, code)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != product.ID {
				return nil, duplicateCode(code)
			}
		}
		product.Code = code
	}
	if in.Description != nil {
		product.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.ImageBase64 != nil {
		product.ImageBase64 = *in.ImageBase64
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	product.UpdatedAt = time.Now().UTC()
	if err := uc.repo.UpdateDetails(ctx, product); err != nil {
		if errors.Is(err, domain.ErrDuplicateCode) {
			return nil, duplicateCode(product.Code)
		}
		return nil, err
	}
	if in.Stock != nil {
		found, err := uc.repo.SetStock(ctx, product.ID, *in.Stock, product.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, domain.NotFound("producto")
		}
	}
	return uc.GetByID(ctx, product.ID)
}

// Delete desactiva el producto (soft delete) sin tocar su stock y devuelve la entidad actualizada.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) (*dto.ProductResponse, error) {
	if err := uc.repo.Deactivate(ctx, id, time.Now().UTC()); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// List devuelve la página pedida. Una página fuera de rango se ajusta a la última.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ListProductsQuery) (*dto.ProductListResponse, error) {
	filter := repository.ProductFilter{
		IsActive: q.IsActive,
		Search:   strings.TrimSpace(q.Search),
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
	}
	page := q.PageRequest.Normalize()
	products, total, err := uc.repo.List(ctx, filter, page.PageSize, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	pagination := dto.NewPagination(total, page.Page, page.PageSize)
	if pagination.CurrentPage != page.Page && total > 0 {
		page.Page = pagination.CurrentPage
		products, total, err = uc.repo.List(ctx, filter, page.PageSize, page.Offset())
		if err != nil {
			return nil, fmt.Errorf("listar productos: %w", err)
		}
		pagination = dto.NewPagination(total, page.Page, page.PageSize)
	}
	out := &dto.ProductListResponse{Data: make([]dto.ProductResponse, 0, len(products)), Pagination: pagination}
	for _, p := range products {
		out.Data = append(out.Data, *dto.ToProductResponse(p))
	}
	return out, nil
}

// IncreaseStock registra una entrada directa de stock y devuelve el producto actualizado.
func (uc *ProductUseCase) IncreaseStock(ctx context.Context, id string, quantity int) (*dto.ProductResponse, error) {
	if _, err := uc.ledger.IncreaseStock(ctx, id, quantity); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// DecreaseStock registra una salida directa de stock; domain.ErrInsufficientStock si no alcanza.
func (uc *ProductUseCase) DecreaseStock(ctx context.Context, id string, quantity int) (*dto.ProductResponse, error) {
	if _, err := uc.ledger.DecreaseStock(ctx, id, quantity); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

func (uc *ProductUseCase) load(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto")
	}
	return product, nil
}

func duplicateCode(code string) error {
	return &domain.Error{
		Kind:    domain.KindDuplicateCode,
		Message: fmt.Sprintf("ya existe un producto con el código %s", code),
		Meta:    map[string]any{"code": code},
	}
}
