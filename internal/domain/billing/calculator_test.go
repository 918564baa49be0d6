package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/naste-api/internal/domain/billing"
	"github.com/jhoicas/naste-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestItemSubtotal_Exacto(t *testing.T) {
	assert.True(t, dec("0.30").Equal(billing.ItemSubtotal(3, dec("0.10"))),
		"3 × 0.10 debe ser exactamente 0.30 (sin deriva de punto flotante)")
	assert.True(t, dec("125000").Equal(billing.ItemSubtotal(5, dec("25000"))))
	assert.True(t, dec("19.99").Equal(billing.ItemSubtotal(1, dec("19.99"))))
}

func TestInvoiceTotal_SumaSubtotales(t *testing.T) {
	items := []*entity.InvoiceItem{
		{Quantity: 2, UnitPrice: dec("15000.50")},
		{Quantity: 1, UnitPrice: dec("0.01")},
		{Quantity: 7, UnitPrice: dec("3.33")},
	}
	assert.True(t, dec("30024.32").Equal(billing.InvoiceTotal(items)))
}

func TestInvoiceTotal_SinLineas(t *testing.T) {
	assert.True(t, decimal.Zero.Equal(billing.InvoiceTotal(nil)))
}

func TestPriceItems_FijaSubtotalYTotal(t *testing.T) {
	items := []*entity.InvoiceItem{
		{Quantity: 3, UnitPrice: dec("10.10")},
		{Quantity: 5, UnitPrice: dec("2")},
	}
	total := billing.PriceItems(items)

	assert.True(t, dec("30.30").Equal(items[0].Subtotal))
	assert.True(t, dec("10").Equal(items[1].Subtotal))
	assert.True(t, total.Equal(items[0].Subtotal.Add(items[1].Subtotal)),
		"total debe ser la suma de los subtotales")
}
