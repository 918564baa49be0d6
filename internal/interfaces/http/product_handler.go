package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/naste-api/internal/application/catalog"
	"github.com/jhoicas/naste-api/internal/application/dto"
)

// ProductHandler maneja las peticiones HTTP del catálogo de productos (protegido).
type ProductHandler struct {
	uc       *catalog.ProductUseCase
	validate *Validator
	log      zerolog.Logger
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *catalog.ProductUseCase, validate *Validator, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{uc: uc, validate: validate, log: log}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := h.validate.bind(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        isActive  query  bool    false  "Solo activos / inactivos"
// @Param        search    query  string  false  "Código o descripción"
// @Param        minPrice  query  number  false  "Precio mínimo"
// @Param        maxPrice  query  number  false  "Precio máximo"
// @Param        page      query  int     false  "Página"     default(1)
// @Param        pageSize  query  int     false  "Tamaño"     default(10)
// @Success      200       {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	p := newQueryParser(c)
	q := dto.ListProductsQuery{
		IsActive:    p.boolean("isActive"),
		Search:      p.str("search"),
		MinPrice:    p.amount("minPrice"),
		MaxPrice:    p.amount("maxPrice"),
		PageRequest: p.page(),
	}
	if err := p.err(); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := h.validate.bind(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Desactivar producto (soft delete)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// IncreaseStock godoc
// @Summary      Entrada directa de stock
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.StockChangeRequest  true  "Cantidad"
// @Success      200   {object}  dto.ProductResponse
// @Router       /api/products/{id}/stock/increase [post]
func (h *ProductHandler) IncreaseStock(c *fiber.Ctx) error {
	var in dto.StockChangeRequest
	if err := h.validate.bind(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.IncreaseStock(c.UserContext(), c.Params("id"), in.Quantity)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// DecreaseStock godoc
// @Summary      Salida directa de stock
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.StockChangeRequest  true  "Cantidad"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock/decrease [post]
func (h *ProductHandler) DecreaseStock(c *fiber.Ctx) error {
	var in dto.StockChangeRequest
	if err := h.validate.bind(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.DecreaseStock(c.UserContext(), c.Params("id"), in.Quantity)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
