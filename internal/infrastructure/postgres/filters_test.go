package postgres

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/naste-api/internal/domain/entity"
	"github.com/jhoicas/naste-api/internal/domain/repository"
)

func TestBuildProductWhere_SinFiltros(t *testing.T) {
	where, args := buildProductWhere(repository.ProductFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestBuildProductWhere_TodosLosFiltros(t *testing.T) {
	active := true
	minP := decimal.NewFromInt(1000)
	maxP := decimal.NewFromInt(5000)
	where, args := buildProductWhere(repository.ProductFilter{
		IsActive: &active, MinPrice: &minP, MaxPrice: &maxP, Search: " cam ",
	})

	assert.Equal(t,
		"WHERE is_active = $1 AND price >= $2 AND price <= $3 AND (code ILIKE $4 OR description ILIKE $4)",
		where)
	assert.Equal(t, []any{true, minP, maxP, "%cam%"}, args)
}

func TestBuildInvoiceWhere_TodosLosFiltros(t *testing.T) {
	status := entity.InvoiceStatusCancelled
	origin := entity.OriginWebsite
	method := entity.PaymentCard
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)
	where, args := buildInvoiceWhere(repository.InvoiceFilter{
		Status: &status, Origin: &origin, PaymentMethod: &method,
		CreatedByID: "11111111-1111-1111-1111-111111111111",
		StartDate:   &start, EndDate: &end, City: "medellín", Search: "gómez",
	})

	assert.Equal(t, "WHERE i.status = $1 AND i.origin = $2 AND i.payment_method = $3 AND i.created_by_id = $4"+
		" AND i.invoice_date >= $5 AND i.invoice_date <= $6 AND i.city ILIKE $7"+
		" AND (i.customer_name ILIKE $8 OR i.customer_id_doc ILIKE $8 OR i.address ILIKE $8)", where)
	assert.Len(t, args, 8)
	assert.Equal(t, "CANCELLED", args[0])
	assert.Equal(t, "%medellín%", args[6])
	assert.Equal(t, "%gómez%", args[7])
}

func TestLikePattern_EscapaComodines(t *testing.T) {
	assert.Equal(t, `%50\%\_off%`, likePattern("50%_off"))
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
}
