package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/naste-api/internal/domain/entity"
	"github.com/jhoicas/naste-api/internal/domain/repository"
)

var errAbort = errors.New("abortar")

func newProduct(id, code string, stock int) *entity.Product {
	now := time.Now().UTC()
	return &entity.Product{
		ID: id, Code: code, Description: "Producto " + code, Price: decimal.NewFromInt(1000),
		Stock: stock, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
}

func TestTxRunner_RollbackConservaEscriturasAjenas(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Products().Create(ctx, newProduct("p0", "CAM-001", 10)))

	err := NewTxRunner(s).Run(ctx, func(products repository.ProductRepository, _ repository.InvoiceRepository) error {
		_, ok, err := products.DecreaseStockIfEnough(ctx, "p0", 4)
		require.NoError(t, err)
		require.True(t, ok)

		// otra petición, fuera de la transacción
		require.NoError(t, s.Products().Create(ctx, newProduct("p1", "GOR-001", 2)))
		_, found, err := s.Products().IncreaseStock(ctx, "p0", 5)
		require.NoError(t, err)
		require.True(t, found)
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	other, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, other, "un producto creado por otra petición no debe desaparecer")

	p0, err := s.Products().GetByID(ctx, "p0")
	require.NoError(t, err)
	assert.Equal(t, 15, p0.Stock, "solo se deshace el descuento de la transacción; el aumento ajeno queda")
}

func TestTxRunner_RollbackDeshaceFacturaYLineas(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Products().Create(ctx, newProduct("p0", "CAM-001", 10)))
	require.NoError(t, s.Users().Create(ctx, &entity.User{ID: "u1", ExternalID: "auth0|u1"}))

	pid := "p0"
	inv := &entity.Invoice{
		ID: "f1", Status: entity.InvoiceStatusPending, CreatedByID: "u1",
		Items: []*entity.InvoiceItem{{ID: "i1", ProductID: &pid, Quantity: 1, UnitPrice: decimal.NewFromInt(1000)}},
	}
	require.NoError(t, s.Invoices().Create(ctx, inv))

	err := NewTxRunner(s).Run(ctx, func(products repository.ProductRepository, invoices repository.InvoiceRepository) error {
		require.NoError(t, invoices.ReplaceItems(ctx, "f1", []*entity.InvoiceItem{
			{ID: "i2", ProductID: &pid, Quantity: 3, UnitPrice: decimal.NewFromInt(1000)},
		}))
		updated := *inv
		updated.Status = entity.InvoiceStatusCancelled
		require.NoError(t, invoices.Update(ctx, &updated))
		require.NoError(t, invoices.Create(ctx, &entity.Invoice{ID: "f2", CreatedByID: "u1"}))
		require.NoError(t, products.Deactivate(ctx, "p0", time.Now().UTC()))
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	got, err := s.Invoices().GetByID(ctx, "f1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.InvoiceStatusPending, got.Status)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "i1", got.Items[0].ID)

	created, err := s.Invoices().GetByID(ctx, "f2")
	require.NoError(t, err)
	assert.Nil(t, created, "la factura creada dentro de la transacción se deshace")

	p0, err := s.Products().GetByID(ctx, "p0")
	require.NoError(t, err)
	assert.True(t, p0.IsActive)
}

func TestProductRepo_UpdateDetailsNoTocaStock(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Products().Create(ctx, newProduct("p0", "CAM-001", 10)))

	stale, err := s.Products().GetByID(ctx, "p0")
	require.NoError(t, err)
	_, ok, err := s.Products().DecreaseStockIfEnough(ctx, "p0", 4)
	require.NoError(t, err)
	require.True(t, ok)

	stale.Description = "Camiseta estampada"
	require.NoError(t, s.Products().UpdateDetails(ctx, stale))

	got, err := s.Products().GetByID(ctx, "p0")
	require.NoError(t, err)
	assert.Equal(t, "Camiseta estampada", got.Description)
	assert.Equal(t, 6, got.Stock)
}
