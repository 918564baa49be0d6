package http_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productBody struct {
	ID          string  `json:"id"`
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Price       string  `json:"price"`
	Stock       int     `json:"stock"`
	ImageBase64 *string `json:"imageBase64"`
	IsActive    bool    `json:"isActive"`
}

type paginationBody struct {
	CurrentPage     int  `json:"currentPage"`
	PageSize        int  `json:"pageSize"`
	TotalItems      int  `json:"totalItems"`
	TotalPages      int  `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
	NextPage        *int `json:"nextPage"`
	PreviousPage    *int `json:"previousPage"`
}

type productListBody struct {
	Data       []productBody  `json:"data"`
	Pagination paginationBody `json:"pagination"`
}

func (s *testServer) createProduct(t *testing.T, code string, price, stock int) productBody {
	t.Helper()
	status, raw := s.do(t, http.MethodPost, "/api/products", map[string]any{
		"code": code, "description": "Producto " + code, "price": price, "stock": stock,
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	return decode[productBody](t, raw)
}

func TestProducts_CrearYObtener(t *testing.T) {
	s := newTestServer(t)
	created := s.createProduct(t, "CAM-01", 24500, 5)

	assert.Equal(t, "CAM-01", created.Code)
	assert.Equal(t, "24500", created.Price)
	assert.Equal(t, 5, created.Stock)
	assert.True(t, created.IsActive)
	assert.Nil(t, created.ImageBase64, "sin imagen sale null")

	status, raw := s.do(t, http.MethodGet, "/api/products/"+created.ID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, created.ID, decode[productBody](t, raw).ID)
}

func TestProducts_CodigoDuplicado(t *testing.T) {
	s := newTestServer(t)
	s.createProduct(t, "CAM-01", 24500, 5)

	status, raw := s.do(t, http.MethodPost, "/api/products", map[string]any{
		"code": "CAM-01", "description": "Otra", "price": 1000, "stock": 1,
	})
	assert.Equal(t, http.StatusConflict, status)
	body := decode[errorBody](t, raw)
	assert.Equal(t, "DUPLICATE_CODE", body.Code)
	assert.Equal(t, "ya existe un producto con el código CAM-01", body.Message)
}

func TestProducts_ValidacionDeCampos(t *testing.T) {
	s := newTestServer(t)
	status, raw := s.do(t, http.MethodPost, "/api/products", map[string]any{
		"description": "Sin código", "price": 0, "stock": -1,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	body := decode[errorBody](t, raw)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.ElementsMatch(t, []string{"code", "price", "stock"}, body.fields())
}

func TestProducts_PrecioConMasDeDosDecimales(t *testing.T) {
	s := newTestServer(t)
	status, raw := s.do(t, http.MethodPost, "/api/products", map[string]any{
		"code": "X-1", "description": "x", "price": 10.555, "stock": 1,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, []string{"price"}, decode[errorBody](t, raw).fields())
}

func TestProducts_CuerpoMalFormado(t *testing.T) {
	s := newTestServer(t)
	status, raw := s.do(t, http.MethodPost, "/api/products", "no-es-un-objeto")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", decode[errorBody](t, raw).Code)
}

func TestProducts_IDNoUUID(t *testing.T) {
	s := newTestServer(t)
	status, raw := s.do(t, http.MethodGet, "/api/products/123", nil)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, []string{"id"}, decode[errorBody](t, raw).fields())
}

func TestProducts_Inexistente(t *testing.T) {
	s := newTestServer(t)
	status, raw := s.do(t, http.MethodGet, "/api/products/00000000-0000-0000-0000-00000000dead", nil)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", decode[errorBody](t, raw).Code)
}

func TestProducts_ActualizarYDesactivar(t *testing.T) {
	s := newTestServer(t)
	p := s.createProduct(t, "CAM-01", 24500, 5)

	status, raw := s.do(t, http.MethodPut, "/api/products/"+p.ID, map[string]any{"price": "26000.50"})
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, "26000.5", decode[productBody](t, raw).Price)

	status, raw = s.do(t, http.MethodDelete, "/api/products/"+p.ID, nil)
	require.Equal(t, http.StatusOK, status)
	deleted := decode[productBody](t, raw)
	assert.False(t, deleted.IsActive)
	assert.Equal(t, 5, deleted.Stock, "el soft delete no toca el stock")
}

func TestProducts_StockDirecto(t *testing.T) {
	s := newTestServer(t)
	p := s.createProduct(t, "CAM-01", 24500, 2)

	status, raw := s.do(t, http.MethodPost, "/api/products/"+p.ID+"/stock/increase", map[string]any{"quantity": 3})
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, 5, decode[productBody](t, raw).Stock)

	status, raw = s.do(t, http.MethodPost, "/api/products/"+p.ID+"/stock/decrease", map[string]any{"quantity": 6})
	assert.Equal(t, http.StatusBadRequest, status)
	body := decode[errorBody](t, raw)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.Equal(t, "stock insuficiente para el producto CAM-01. Disponible: 5, Solicitado: 6", body.Message)
	assert.EqualValues(t, 5, body.Meta["available"])
	assert.EqualValues(t, 6, body.Meta["requested"])

	status, raw = s.do(t, http.MethodPost, "/api/products/"+p.ID+"/stock/decrease", map[string]any{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, []string{"quantity"}, decode[errorBody](t, raw).fields())
}

func TestProducts_ListarConFiltrosYPaginacion(t *testing.T) {
	s := newTestServer(t)
	for i := 1; i <= 12; i++ {
		s.createProduct(t, fmt.Sprintf("GOR-%02d", i), 1000*i, i)
	}
	s.createProduct(t, "CAM-01", 50000, 1)

	status, raw := s.do(t, http.MethodGet, "/api/products?search=gor&pageSize=5&page=3", nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	list := decode[productListBody](t, raw)
	assert.Len(t, list.Data, 2)
	assert.Equal(t, 12, list.Pagination.TotalItems)
	assert.Equal(t, 3, list.Pagination.TotalPages)
	assert.False(t, list.Pagination.HasNextPage)
	assert.Nil(t, list.Pagination.NextPage)
	require.NotNil(t, list.Pagination.PreviousPage)
	assert.Equal(t, 2, *list.Pagination.PreviousPage)

	status, raw = s.do(t, http.MethodGet, "/api/products?minPrice=5000&maxPrice=8000", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 4, decode[productListBody](t, raw).Pagination.TotalItems)

	status, raw = s.do(t, http.MethodGet, "/api/products?isActive=quizas&minPrice=abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.ElementsMatch(t, []string{"isActive", "minPrice"}, decode[errorBody](t, raw).fields())
}

func TestProducts_PaginaFueraDeRangoSeAjusta(t *testing.T) {
	s := newTestServer(t)
	for i := 1; i <= 3; i++ {
		s.createProduct(t, fmt.Sprintf("P-%d", i), 1000, 1)
	}
	status, raw := s.do(t, http.MethodGet, "/api/products?page=9&pageSize=2", nil)
	require.Equal(t, http.StatusOK, status)
	list := decode[productListBody](t, raw)
	assert.Equal(t, 2, list.Pagination.CurrentPage)
	assert.Len(t, list.Data, 1)
}
