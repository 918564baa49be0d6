// Package billing contiene la aritmética pura de facturación (sin efectos secundarios).
package billing

import (
	"github.com/jhoicas/naste-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ItemSubtotal = cantidad × precio unitario, en aritmética decimal exacta (sin redondeo).
func ItemSubtotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// InvoiceTotal suma los subtotales de todas las líneas.
func InvoiceTotal(items []*entity.InvoiceItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(ItemSubtotal(it.Quantity, it.UnitPrice))
	}
	return total
}

// PriceItems fija el Subtotal de cada línea y devuelve el total de la factura.
func PriceItems(items []*entity.InvoiceItem) decimal.Decimal {
	for _, it := range items {
		it.Subtotal = ItemSubtotal(it.Quantity, it.UnitPrice)
	}
	return InvoiceTotal(items)
}
