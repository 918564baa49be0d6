package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/naste-api/internal/application/inventory"
	"github.com/jhoicas/naste-api/internal/domain"
	"github.com/jhoicas/naste-api/internal/domain/entity"
	"github.com/jhoicas/naste-api/internal/infrastructure/memory"
)

const productID = "aaaaaaaa-0000-0000-0000-000000000001"

func newLedger(t *testing.T, stock int, active bool) (*inventory.StockLedger, *memory.ProductRepo) {
	t.Helper()
	repo := memory.NewStore().Products()
	now := time.Now().UTC()
	require.NoError(t, repo.Create(context.Background(), &entity.Product{
		ID: productID, Code: "CAM-001", Description: "Camiseta",
		Price: decimal.NewFromInt(45000), Stock: stock, IsActive: active,
		CreatedAt: now, UpdatedAt: now,
	}))
	return inventory.NewStockLedger(repo, zerolog.Nop()), repo
}

func TestDecreaseStock_RestaYDevuelveNuevoStock(t *testing.T) {
	ledger, _ := newLedger(t, 10, true)

	got, err := ledger.DecreaseStock(context.Background(), productID, 4)
	require.NoError(t, err)
	assert.Equal(t, 6, got)
}

func TestDecreaseStock_ExactoDejaCero(t *testing.T) {
	ledger, _ := newLedger(t, 3, true)

	got, err := ledger.DecreaseStock(context.Background(), productID, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestDecreaseStock_Insuficiente(t *testing.T) {
	ledger, repo := newLedger(t, 2, true)

	_, err := ledger.DecreaseStock(context.Background(), productID, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, "stock insuficiente para el producto CAM-001. Disponible: 2, Solicitado: 3", err.Error())

	p, err := repo.GetByID(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Stock, "un descuento rechazado no modifica el stock")
}

func TestDecreaseStock_ProductoInexistente(t *testing.T) {
	ledger, _ := newLedger(t, 2, true)

	_, err := ledger.DecreaseStock(context.Background(), "bbbbbbbb-0000-0000-0000-000000000002", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockLedger_CantidadNoPositiva(t *testing.T) {
	ledger, _ := newLedger(t, 2, true)

	_, err := ledger.DecreaseStock(context.Background(), productID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = ledger.IncreaseStock(context.Background(), productID, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIncreaseStock_SinTopeYEnInactivos(t *testing.T) {
	ledger, _ := newLedger(t, 1, false)

	got, err := ledger.IncreaseStock(context.Background(), productID, 1_000_000)
	require.NoError(t, err)
	assert.Equal(t, 1_000_001, got, "la entrada aplica incluso a productos inactivos")
}

func TestIncreaseStock_ProductoInexistente(t *testing.T) {
	ledger, _ := newLedger(t, 1, true)

	_, err := ledger.IncreaseStock(context.Background(), "bbbbbbbb-0000-0000-0000-000000000002", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDecreaseStock_ConcurrenteNoQuedaNegativo(t *testing.T) {
	ledger, repo := newLedger(t, 2, true)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.DecreaseStock(context.Background(), productID, 2)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	success, insufficient := 0, 0
	for err := range results {
		if err == nil {
			success++
			continue
		}
		if assert.ErrorIs(t, err, domain.ErrInsufficientStock) {
			insufficient++
		}
	}
	assert.Equal(t, 1, success, "exactamente una salida debe aplicarse")
	assert.Equal(t, 1, insufficient)

	p, err := repo.GetByID(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
}

func TestWithRepository_UsaElRepositorioIndicado(t *testing.T) {
	ledger, _ := newLedger(t, 5, true)

	otherRepo := memory.NewStore().Products()
	now := time.Now().UTC()
	require.NoError(t, otherRepo.Create(context.Background(), &entity.Product{
		ID: productID, Code: "CAM-001", Price: decimal.NewFromInt(1), Stock: 9, IsActive: true,
		CreatedAt: now, UpdatedAt: now,
	}))

	got, err := ledger.WithRepository(otherRepo).DecreaseStock(context.Background(), productID, 1)
	require.NoError(t, err)
	assert.Equal(t, 8, got, "el ledger re-atado opera sobre su propio repositorio")
}
