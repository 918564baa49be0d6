// Package pdf genera el comprobante imprimible de una factura de venta.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Comercio            │  N° Factura + Fecha + Estado │
//	│  CLIENTE: Nombre + Documento + contacto                     │
//	│  ENTREGA: Ciudad / Barrio / Dirección + fecha de entrega    │
//	│  TABLA: Cant | Descripción | Código | P.Unit | Subtotal     │
//	│  TOTAL + medio de pago + origen                             │
//	│  FOOTER: QR con el id de la factura                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/jhoicas/naste-api/internal/application/billing"
	"github.com/jhoicas/naste-api/internal/domain/entity"
)

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 170, Green: 20, Blue: 20}
)

var statusLabels = map[entity.InvoiceStatus]string{
	entity.InvoiceStatusPending:   "PENDIENTE",
	entity.InvoiceStatusConfirmed: "CONFIRMADA",
	entity.InvoiceStatusShipped:   "ENVIADA",
	entity.InvoiceStatusDelivered: "ENTREGADA",
	entity.InvoiceStatusCancelled: "ANULADA",
}

var paymentLabels = map[entity.PaymentMethod]string{
	entity.PaymentCash:           "Efectivo",
	entity.PaymentTransfer:       "Transferencia",
	entity.PaymentCard:           "Tarjeta",
	entity.PaymentCashOnDelivery: "Contraentrega",
	entity.PaymentOther:          "Otro",
}

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	merchant string
}

// NewMarotoPDFGenerator construye el generador. merchant es el nombre que encabeza el documento.
func NewMarotoPDFGenerator(merchant string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{merchant: nonEmpty(merchant, "Naste")}
}

// GenerateInvoicePDF genera el PDF de la factura expandida (líneas y creador) y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, invoice *entity.Invoice) ([]byte, error) {
	if invoice == nil {
		return nil, fmt.Errorf("pdf: factura nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+shortID(invoice.ID), true).
		WithAuthor(g.merchant, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(invoice), deliveryRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(invoice.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(invoice))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(invoice))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *MarotoPDFGenerator) headerRow(inv *entity.Invoice) core.Row {
	statusColor := colorGray
	if inv.IsCancelled() {
		statusColor = colorDanger
	}
	return row.New(20).Add(
		col.New(7).Add(
			text.New(g.merchant, props.Text{Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1}),
			text.New("Factura de venta", props.Text{Size: 9, Top: 10, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("FACTURA N° "+strings.ToUpper(shortID(inv.ID)), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+inv.InvoiceDate.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New(statusLabel(inv.Status), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 14, Color: statusColor,
			}),
		),
	)
}

func customerRow(inv *entity.Invoice) core.Row {
	email := "—"
	if inv.CustomerEmail != nil {
		email = nonEmpty(*inv.CustomerEmail, "—")
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(inv.CustomerName, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("Documento: %s   |   Tel: %s   |   Email: %s",
				inv.CustomerIDDoc, nonEmpty(inv.CustomerPhone, "—"), email,
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func deliveryRow(inv *entity.Invoice) core.Row {
	delivery := "Por definir"
	if inv.DeliveryDate != nil {
		delivery = inv.DeliveryDate.Format("02/01/2006")
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("ENTREGA", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("%s, %s - %s", inv.Address, nonEmpty(inv.Neighborhood, "—"), inv.City), props.Text{
				Size: 9, Top: 6,
			}),
			text.New("Fecha de entrega: "+delivery, props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 5, align.Left),
		h("Código", 2, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Subtotal", 2, align.Right),
	)
}

func itemRows(items []*entity.InvoiceItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		productCode := "—"
		if it.Product != nil {
			productCode = it.Product.Code
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(it.Description, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(productCode, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1, Color: colorGray})),
			col.New(2).Add(text.New(formatMoney(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatMoney(it.Subtotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalsRow(inv *entity.Invoice) core.Row {
	origin := strings.ToLower(string(inv.Origin))
	return row.New(16).Add(
		col.New(6).Add(
			text.New("Medio de pago: "+paymentLabel(inv.PaymentMethod), props.Text{Size: 8, Top: 1, Color: colorGray}),
			text.New("Origen: "+origin, props.Text{Size: 8, Top: 6, Color: colorGray}),
		),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorPrimary, Top: 1, Right: 2,
		})),
		col.New(3).Add(text.New(formatMoney(inv.Total), props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorPrimary, Top: 1, Right: 1,
		})),
	)
}

func footerRow(inv *entity.Invoice) core.Row {
	seller := ""
	if inv.CreatedBy != nil {
		seller = "Atendido por: " + nonEmpty(inv.CreatedBy.Name, inv.CreatedBy.Email)
	}
	return row.New(34).Add(
		col.New(3).Add(code.NewQr(inv.ID, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New(seller, props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
			text.New("Gracias por su compra.", props.Text{Style: fontstyle.Bold, Size: 10, Top: 14, Left: 3, Color: colorPrimary}),
			text.New("Referencia: "+inv.ID, props.Text{Size: 6.5, Top: 24, Left: 3, Color: colorGray}),
		),
	)
}

func statusLabel(s entity.InvoiceStatus) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func paymentLabel(m entity.PaymentMethod) string {
	if l, ok := paymentLabels[m]; ok {
		return l
	}
	return string(m)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatMoney formatea con puntos de miles y coma decimal; los centavos solo se muestran si existen.
// Ej: 25000 → "$25.000", 1234567.5 → "$1.234.567,50".
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := sign + "$" + string(buf)
	if frac != "00" {
		out += "," + frac
	}
	return out
}
