package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/naste-api/internal/application/billing"
	"github.com/jhoicas/naste-api/internal/application/dto"
)

// InvoiceHandler maneja las peticiones HTTP de facturas (protegido).
type InvoiceHandler struct {
	uc       *billing.InvoiceUseCase
	pdf      *billing.PDFUseCase
	validate *Validator
	log      zerolog.Logger
}

// NewInvoiceHandler construye el handler. pdf puede ser nil: GET /:id/pdf responde 404.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, pdf *billing.PDFUseCase, validate *Validator, log zerolog.Logger) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, pdf: pdf, validate: validate, log: log}
}

// Create godoc
// @Summary      Crear factura
// @Description  Descuenta el stock de las líneas con producto. Todo o nada.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "Factura"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := h.validate.bind(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetExternalID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener factura
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        status         query  string  false  "Estado"
// @Param        origin         query  string  false  "Origen"
// @Param        paymentMethod  query  string  false  "Medio de pago"
// @Param        createdById    query  string  false  "ID del creador"
// @Param        startDate      query  string  false  "Desde (YYYY-MM-DD o RFC3339)"
// @Param        endDate        query  string  false  "Hasta (inclusive)"
// @Param        city           query  string  false  "Ciudad"
// @Param        search         query  string  false  "Cliente, documento o dirección"
// @Param        page           query  int     false  "Página"  default(1)
// @Param        pageSize       query  int     false  "Tamaño"  default(10)
// @Success      200  {object}  dto.InvoiceListResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	p := newQueryParser(c)
	q := dto.ListInvoicesQuery{
		Status:        p.str("status"),
		Origin:        p.str("origin"),
		PaymentMethod: p.str("paymentMethod"),
		CreatedByID:   p.uuidParam("createdById"),
		StartDate:     p.date("startDate", false),
		EndDate:       p.date("endDate", true),
		City:          p.str("city"),
		Search:        p.str("search"),
		PageRequest:   p.page(),
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
// @Summary      Actualizar factura
// @Description  Si viene items, reemplaza las líneas y ajusta el stock.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la factura"
// @Param        body  body  dto.UpdateInvoiceRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [put]
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceRequest
	if err := h.validate.bind(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado de la factura
// @Description  CANCELLED reintegra el stock una sola vez.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la factura"
// @Param        body  body  dto.UpdateInvoiceStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/status [patch]
func (h *InvoiceHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceStatusRequest
	if err := h.validate.bind(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), c.Params("id"), in.Status)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar factura
// @Tags         invoices
// @Security     Bearer
// @Param        id   path  string  true  "ID de la factura"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DownloadPDF godoc
// @Summary      Descargar PDF de la factura
// @Tags         invoices
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	if h.pdf == nil {
		return writeError(c, h.log, fiber.ErrNotFound)
	}
	body, filename, err := h.pdf.DownloadInvoicePDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(body)
}
