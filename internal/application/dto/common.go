package dto

import "github.com/jhoicas/naste-api/internal/domain"

// Valores por defecto de paginación.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest paginación solicitada (query ?page=&pageSize=).
type PageRequest struct {
	Page     int `query:"page"`
	PageSize int `query:"pageSize"`
}

// Normalize aplica valores por defecto: page<1 se deja para que NewPagination lo ajuste,
// pageSize<=0 usa el default y se acota a MaxPageSize.
func (p PageRequest) Normalize() PageRequest {
	if p.Page == 0 {
		p.Page = DefaultPage
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset devuelve el desplazamiento SQL para la página ya ajustada.
func (p PageRequest) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Pagination metadatos de página en respuestas de listado.
type Pagination struct {
	CurrentPage     int  `json:"currentPage"`
	PageSize        int  `json:"pageSize"`
	TotalItems      int  `json:"totalItems"`
	TotalPages      int  `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
	NextPage        *int `json:"nextPage"`
	PreviousPage    *int `json:"previousPage"`
}

// NewPagination calcula los metadatos a partir del total, la página pedida y el tamaño.
// La página se ajusta a [1, totalPages] (totalPages=0 se trata como 1).
func NewPagination(totalItems, page, pageSize int) Pagination {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	totalPages := (totalItems + pageSize - 1) / pageSize
	upper := totalPages
	if upper == 0 {
		upper = 1
	}
	current := page
	if current > upper {
		current = upper
	}
	if current < 1 {
		current = 1
	}
	p := Pagination{
		CurrentPage:     current,
		PageSize:        pageSize,
		TotalItems:      totalItems,
		TotalPages:      totalPages,
		HasNextPage:     current < totalPages,
		HasPreviousPage: current > 1,
	}
	if p.HasNextPage {
		next := current + 1
		p.NextPage = &next
	}
	if p.HasPreviousPage {
		prev := current - 1
		p.PreviousPage = &prev
	}
	return p
}

// PaginatedResponse sobre genérico de listados: { data, pagination }.
type PaginatedResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details []domain.FieldError `json:"details,omitempty"`
	Meta    map[string]any      `json:"meta,omitempty"`
}
