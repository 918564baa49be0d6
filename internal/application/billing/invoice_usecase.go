package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/naste-api/internal/application/dto"
	"github.com/jhoicas/naste-api/internal/application/inventory"
	"github.com/jhoicas/naste-api/internal/domain"
	domainbilling "github.com/jhoicas/naste-api/internal/domain/billing"
	"github.com/jhoicas/naste-api/internal/domain/entity"
	"github.com/jhoicas/naste-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// InvoiceUseCase gestiona el ciclo de vida de las facturas y mantiene el stock consistente con ellas.
// Toda operación que modifica una factura corre en una sola transacción (TxRunner): si cualquier paso
// falla, ni la factura ni el stock quedan modificados.
type InvoiceUseCase struct {
	txRunner TxRunner
	invoices repository.InvoiceRepository
	users    repository.UserRepository
	ledger   *inventory.StockLedger
	log      zerolog.Logger
}

// NewInvoiceUseCase construye el caso de uso. ledger se re-ata al repositorio de cada transacción.
func NewInvoiceUseCase(
	txRunner TxRunner,
	invoices repository.InvoiceRepository,
	users repository.UserRepository,
	ledger *inventory.StockLedger,
	log zerolog.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner: txRunner,
		invoices: invoices,
		users:    users,
		ledger:   ledger,
		log:      log,
	}
}

// Create crea la factura del usuario externalID y descuenta el stock de sus líneas con producto.
//
// Orden: creador → validación de stock (agregada por producto) → totales → persistencia → descuento.
// Retorna domain.ErrUserNotFound, domain.ErrNotFound (producto) o domain.ErrInsufficientStock.
func (uc *InvoiceUseCase) Create(ctx context.Context, externalID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	creator, err := uc.users.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("buscar creador: %w", err)
	}
	if creator == nil {
		return nil, &domain.Error{Kind: domain.KindUserNotFound, Message: "usuario no encontrado"}
	}

	status := entity.InvoiceStatusPending
	if in.Status != "" {
		status = entity.InvoiceStatus(in.Status)
	}
	if err := validateEnums(status, entity.InvoiceOrigin(in.Origin), entity.PaymentMethod(in.PaymentMethod)); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		Status:        status,
		Origin:        entity.InvoiceOrigin(in.Origin),
		PaymentMethod: entity.PaymentMethod(in.PaymentMethod),
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerIDDoc: strings.TrimSpace(in.CustomerIDDoc),
		CustomerPhone: strings.TrimSpace(in.CustomerPhone),
		CustomerEmail: in.CustomerEmail,
		City:          strings.TrimSpace(in.City),
		Neighborhood:  strings.TrimSpace(in.Neighborhood),
		Address:       strings.TrimSpace(in.Address),
		InvoiceDate:   now,
		DeliveryDate:  in.DeliveryDate,
		CreatedByID:   creator.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	items, err := buildItems(inv.ID, in.Items)
	if err != nil {
		return nil, err
	}
	inv.Items = items

	var created *entity.Invoice
	err = uc.txRunner.Run(ctx, func(products repository.ProductRepository, invoices repository.InvoiceRepository) error {
		ledger := uc.ledger.WithRepository(products)
		demand := stockDemand(items)
		if err := checkStock(ctx, products, demand); err != nil {
			return err
		}
		inv.Total = domainbilling.PriceItems(items)
		if err := invoices.Create(ctx, inv); err != nil {
			return err
		}
		if err := decrementAll(ctx, ledger, demand); err != nil {
			return err
		}
		created, err = invoices.GetByID(ctx, inv.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("invoice_id", created.ID).
		Str("created_by", creator.ID).
		Str("total", created.Total.String()).
		Int("items", len(created.Items)).
		Msg("factura creada")
	return dto.ToInvoiceResponse(created), nil
}

// Update aplica los campos presentes. Si llegan líneas, reemplazan a las actuales: el stock de las
// líneas anteriores se reintegra, el nuevo conjunto se valida y después se descuenta.
// Sin líneas (items ausente) solo cambian los campos de cabecera (incluido status, sin efecto en stock);
// una lista de líneas vacía es un error de validación.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.Items != nil && len(in.Items) == 0 {
		return nil, domain.Validation("la factura debe tener al menos una línea",
			domain.FieldError{Field: "items", Message: "debe tener al menos 1 elemento"})
	}
	var updated *entity.Invoice
	err := uc.txRunner.Run(ctx, func(products repository.ProductRepository, invoices repository.InvoiceRepository) error {
		current, err := lockInvoice(ctx, invoices, id)
		if err != nil {
			return err
		}
		if err := applyScalars(current, in); err != nil {
			return err
		}

		var demand []productDemand
		if len(in.Items) > 0 {
			ledger := uc.ledger.WithRepository(products)
			if !current.StockRestored {
				if err := restoreAll(ctx, ledger, current.Items); err != nil {
					return err
				}
			}
			items, err := buildItems(current.ID, in.Items)
			if err != nil {
				return err
			}
			demand = stockDemand(items)
			if err := checkStock(ctx, products, demand); err != nil {
				return err
			}
			if err := invoices.ReplaceItems(ctx, current.ID, items); err != nil {
				return err
			}
			current.Items = items
			current.Total = domainbilling.PriceItems(items)
			current.StockRestored = false
		}

		current.UpdatedAt = time.Now().UTC()
		if err := invoices.Update(ctx, current); err != nil {
			return err
		}
		if demand != nil {
			if err := decrementAll(ctx, uc.ledger.WithRepository(products), demand); err != nil {
				return err
			}
		}
		updated, err = invoices.GetByID(ctx, current.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("invoice_id", updated.ID).
		Bool("items_replaced", len(in.Items) > 0).
		Str("total", updated.Total.String()).
		Msg("factura actualizada")
	return dto.ToInvoiceResponse(updated), nil
}

// UpdateStatus cambia el estado. Pasar a CANCELLED reintegra el stock de las líneas una sola vez;
// salir de CANCELLED no vuelve a descontarlo. Por eso CANCELLED → PENDING → CANCELLED tampoco
// reintegra de nuevo: StockRestored sigue marcado hasta que se reemplacen las líneas.
func (uc *InvoiceUseCase) UpdateStatus(ctx context.Context, id string, status string) (*dto.InvoiceResponse, error) {
	newStatus := entity.InvoiceStatus(status)
	if !newStatus.Valid() {
		return nil, invalidEnum("status", status)
	}
	var updated *entity.Invoice
	restored := false
	err := uc.txRunner.Run(ctx, func(products repository.ProductRepository, invoices repository.InvoiceRepository) error {
		current, err := lockInvoice(ctx, invoices, id)
		if err != nil {
			return err
		}
		if newStatus == entity.InvoiceStatusCancelled && !current.IsCancelled() {
			if !current.StockRestored {
				if err := restoreAll(ctx, uc.ledger.WithRepository(products), current.Items); err != nil {
					return err
				}
				restored = true
			}
			current.StockRestored = true
		}
		current.Status = newStatus
		current.UpdatedAt = time.Now().UTC()
		if err := invoices.Update(ctx, current); err != nil {
			return err
		}
		updated, err = invoices.GetByID(ctx, current.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("invoice_id", updated.ID).
		Str("status", string(updated.Status)).
		Bool("stock_restored", restored).
		Msg("estado de factura actualizado")
	return dto.ToInvoiceResponse(updated), nil
}

// Delete reintegra el stock pendiente de las líneas y elimina la factura con sus líneas.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	err := uc.txRunner.Run(ctx, func(products repository.ProductRepository, invoices repository.InvoiceRepository) error {
		current, err := lockInvoice(ctx, invoices, id)
		if err != nil {
			return err
		}
		if !current.StockRestored {
			if err := restoreAll(ctx, uc.ledger.WithRepository(products), current.Items); err != nil {
				return err
			}
		}
		return invoices.Delete(ctx, current.ID)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("invoice_id", id).Msg("factura eliminada")
	return nil
}

// Get devuelve la factura expandida; domain.ErrNotFound si no existe.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := loadInvoice(ctx, uc.invoices, id)
	if err != nil {
		return nil, err
	}
	return dto.ToInvoiceResponse(inv), nil
}

// List devuelve la página pedida de facturas, más recientes primero.
func (uc *InvoiceUseCase) List(ctx context.Context, q dto.ListInvoicesQuery) (*dto.InvoiceListResponse, error) {
	filter, err := toInvoiceFilter(q)
	if err != nil {
		return nil, err
	}
	page := q.PageRequest.Normalize()
	invoices, total, err := uc.invoices.List(ctx, filter, page.PageSize, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("listar facturas: %w", err)
	}
	pagination := dto.NewPagination(total, page.Page, page.PageSize)
	if pagination.CurrentPage != page.Page && total > 0 {
		page.Page = pagination.CurrentPage
		invoices, total, err = uc.invoices.List(ctx, filter, page.PageSize, page.Offset())
		if err != nil {
			return nil, fmt.Errorf("listar facturas: %w", err)
		}
		pagination = dto.NewPagination(total, page.Page, page.PageSize)
	}
	out := &dto.InvoiceListResponse{Data: make([]dto.InvoiceResponse, 0, len(invoices)), Pagination: pagination}
	for _, inv := range invoices {
		out.Data = append(out.Data, *dto.ToInvoiceResponse(inv))
	}
	return out, nil
}

// productDemand cantidad total pedida de un producto en una factura.
type productDemand struct {
	productID string
	quantity  int
}

// stockDemand agrupa las líneas con producto, en orden de primera aparición.
func stockDemand(items []*entity.InvoiceItem) []productDemand {
	index := make(map[string]int)
	var out []productDemand
	for _, it := range items {
		if !it.HasProduct() {
			continue
		}
		if i, ok := index[*it.ProductID]; ok {
			out[i].quantity += it.Quantity
			continue
		}
		index[*it.ProductID] = len(out)
		out = append(out, productDemand{productID: *it.ProductID, quantity: it.Quantity})
	}
	return out
}

// checkStock valida existencia y disponibilidad antes de escribir nada.
func checkStock(ctx context.Context, products repository.ProductRepository, demand []productDemand) error {
	for _, d := range demand {
		product, err := products.GetByID(ctx, d.productID)
		if err != nil {
			return fmt.Errorf("validar stock: %w", err)
		}
		if product == nil {
			return domain.NotFound("producto")
		}
		if product.Stock < d.quantity {
			return domain.InsufficientStock(product.Code, product.Stock, d.quantity)
		}
	}
	return nil
}

func decrementAll(ctx context.Context, ledger *inventory.StockLedger, demand []productDemand) error {
	for _, d := range demand {
		if _, err := ledger.DecreaseStock(ctx, d.productID, d.quantity); err != nil {
			return err
		}
	}
	return nil
}

// restoreAll reintegra la cantidad exacta de cada línea con producto.
func restoreAll(ctx context.Context, ledger *inventory.StockLedger, items []*entity.InvoiceItem) error {
	for _, it := range items {
		if !it.HasProduct() {
			continue
		}
		if _, err := ledger.IncreaseStock(ctx, *it.ProductID, it.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func buildItems(invoiceID string, in []dto.InvoiceItemRequest) ([]*entity.InvoiceItem, error) {
	if len(in) == 0 {
		return nil, domain.Validation("la factura debe tener al menos una línea",
			domain.FieldError{Field: "items", Message: "requerido"})
	}
	items := make([]*entity.InvoiceItem, 0, len(in))
	for i, r := range in {
		if r.Quantity <= 0 {
			return nil, domain.Validation("la cantidad debe ser mayor que 0",
				domain.FieldError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "debe ser mayor que 0"})
		}
		if !r.UnitPrice.IsPositive() {
			return nil, domain.Validation("el precio unitario debe ser mayor que 0",
				domain.FieldError{Field: fmt.Sprintf("items[%d].unitPrice", i), Message: "debe ser mayor que 0"})
		}
		item := &entity.InvoiceItem{
			ID:          uuid.New().String(),
			InvoiceID:   invoiceID,
			Description: strings.TrimSpace(r.Description),
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
		}
		if r.ProductID != nil && strings.TrimSpace(*r.ProductID) != "" {
			pid := strings.TrimSpace(*r.ProductID)
			item.ProductID = &pid
		}
		items = append(items, item)
	}
	return items, nil
}

func applyScalars(inv *entity.Invoice, in dto.UpdateInvoiceRequest) error {
	if in.Status != nil {
		inv.Status = entity.InvoiceStatus(*in.Status)
	}
	if in.Origin != nil {
		inv.Origin = entity.InvoiceOrigin(*in.Origin)
	}
	if in.PaymentMethod != nil {
		inv.PaymentMethod = entity.PaymentMethod(*in.PaymentMethod)
	}
	if err := validateEnums(inv.Status, inv.Origin, inv.PaymentMethod); err != nil {
		return err
	}
	setString(&inv.CustomerName, in.CustomerName)
	setString(&inv.CustomerIDDoc, in.CustomerIDDoc)
	setString(&inv.CustomerPhone, in.CustomerPhone)
	setString(&inv.City, in.City)
	setString(&inv.Neighborhood, in.Neighborhood)
	setString(&inv.Address, in.Address)
	if in.CustomerEmail != nil {
		inv.CustomerEmail = in.CustomerEmail
	}
	// deliveryDate null o ausente conserva el valor actual.
	if in.DeliveryDate != nil {
		inv.DeliveryDate = in.DeliveryDate
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func validateEnums(status entity.InvoiceStatus, origin entity.InvoiceOrigin, method entity.PaymentMethod) error {
	if !status.Valid() {
		return invalidEnum("status", string(status))
	}
	if !origin.Valid() {
		return invalidEnum("origin", string(origin))
	}
	if !method.Valid() {
		return invalidEnum("paymentMethod", string(method))
	}
	return nil
}

func invalidEnum(field, value string) error {
	return domain.Validation(fmt.Sprintf("valor inválido para %s: %q", field, value),
		domain.FieldError{Field: field, Message: "valor no permitido"})
}

func loadInvoice(ctx context.Context, invoices repository.InvoiceRepository, id string) (*entity.Invoice, error) {
	inv, err := invoices.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.NotFound("factura")
	}
	return inv, nil
}

// lockInvoice carga la factura bloqueando su fila: dos cancelaciones concurrentes no reintegran dos veces.
func lockInvoice(ctx context.Context, invoices repository.InvoiceRepository, id string) (*entity.Invoice, error) {
	inv, err := invoices.GetForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("bloquear factura: %w", err)
	}
	if inv == nil {
		return nil, domain.NotFound("factura")
	}
	return inv, nil
}

func toInvoiceFilter(q dto.ListInvoicesQuery) (repository.InvoiceFilter, error) {
	filter := repository.InvoiceFilter{
		CreatedByID: strings.TrimSpace(q.CreatedByID),
		StartDate:   q.StartDate,
		EndDate:     q.EndDate,
		City:        strings.TrimSpace(q.City),
		Search:      strings.TrimSpace(q.Search),
	}
	if q.Status != "" {
		s := entity.InvoiceStatus(q.Status)
		if !s.Valid() {
			return filter, invalidEnum("status", q.Status)
		}
		filter.Status = &s
	}
	if q.Origin != "" {
		o := entity.InvoiceOrigin(q.Origin)
		if !o.Valid() {
			return filter, invalidEnum("origin", q.Origin)
		}
		filter.Origin = &o
	}
	if q.PaymentMethod != "" {
		m := entity.PaymentMethod(q.PaymentMethod)
		if !m.Valid() {
			return filter, invalidEnum("paymentMethod", q.PaymentMethod)
		}
		filter.PaymentMethod = &m
	}
	return filter, nil
}
