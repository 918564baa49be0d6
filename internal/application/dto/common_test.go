package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/naste-api/internal/application/dto"
)

func TestNewPagination_PaginaIntermedia(t *testing.T) {
	p := dto.NewPagination(25, 2, 10)

	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 2, p.CurrentPage)
	assert.True(t, p.HasNextPage)
	assert.True(t, p.HasPreviousPage)
	require.NotNil(t, p.NextPage)
	require.NotNil(t, p.PreviousPage)
	assert.Equal(t, 3, *p.NextPage)
	assert.Equal(t, 1, *p.PreviousPage)
}

func TestNewPagination_PaginaMayorAlTotalSeAjusta(t *testing.T) {
	p := dto.NewPagination(25, 7, 10)

	assert.Equal(t, 3, p.CurrentPage, "la página se acota a totalPages")
	assert.False(t, p.HasNextPage)
	assert.Nil(t, p.NextPage)
}

func TestNewPagination_PaginaCeroONegativa(t *testing.T) {
	for _, page := range []int{0, -3} {
		p := dto.NewPagination(25, page, 10)
		assert.Equal(t, 1, p.CurrentPage, "page=%d debe ajustarse a 1", page)
		assert.False(t, p.HasPreviousPage)
		assert.Nil(t, p.PreviousPage)
	}
}

func TestNewPagination_SinElementos(t *testing.T) {
	p := dto.NewPagination(0, 1, 10)

	assert.Equal(t, 0, p.TotalPages)
	assert.Equal(t, 1, p.CurrentPage)
	assert.False(t, p.HasNextPage)
	assert.False(t, p.HasPreviousPage)
	assert.Nil(t, p.NextPage)
	assert.Nil(t, p.PreviousPage)
}

func TestNewPagination_TotalExacto(t *testing.T) {
	p := dto.NewPagination(20, 2, 10)
	assert.Equal(t, 2, p.TotalPages)
	assert.False(t, p.HasNextPage)
}

func TestPageRequest_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		in       dto.PageRequest
		wantPage int
		wantSize int
	}{
		{"vacío usa defaults", dto.PageRequest{}, 1, 10},
		{"pageSize negativo", dto.PageRequest{Page: 2, PageSize: -5}, 2, 10},
		{"pageSize mayor al máximo", dto.PageRequest{Page: 1, PageSize: 500}, 1, 100},
		{"valores válidos", dto.PageRequest{Page: 3, PageSize: 25}, 3, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantSize, got.PageSize)
		})
	}
}

func TestPageRequest_Offset(t *testing.T) {
	assert.Equal(t, 0, dto.PageRequest{Page: 1, PageSize: 10}.Offset())
	assert.Equal(t, 20, dto.PageRequest{Page: 3, PageSize: 10}.Offset())
	assert.Equal(t, 0, dto.PageRequest{Page: -2, PageSize: 10}.Offset())
}
