package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind clasifica los errores de dominio. Es estable: la capa HTTP lo expone como "code".
type Kind string

const (
	KindNotFound            Kind = "NOT_FOUND"
	KindDuplicateCode       Kind = "DUPLICATE_CODE"
	KindInsufficientStock   Kind = "INSUFFICIENT_STOCK"
	KindUserNotFound        Kind = "USER_NOT_FOUND"
	KindValidation          Kind = "VALIDATION"
	KindReferentialConflict Kind = "REFERENTIAL_CONFLICT"
	KindUnauthorized        Kind = "UNAUTHORIZED"
	KindInternal            Kind = "INTERNAL"
)

// HTTPStatus sugiere el código HTTP para el tipo de error.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound, KindUserNotFound:
		return http.StatusNotFound
	case KindDuplicateCode:
		return http.StatusConflict
	case KindInsufficientStock, KindValidation, KindReferentialConflict:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// FieldError detalle de validación sobre un campo concreto del request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error es el error de dominio: tipo estable, mensaje legible y detalle opcional.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Meta    map[string]any
}

func (e *Error) Error() string {
	return e.Message
}

// Is compara por Kind, de modo que errors.Is(err, domain.ErrNotFound) funciona
// aunque el mensaje sea específico del recurso.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Errores de dominio (sin dependencias externas). Úsense con errors.Is.
var (
	ErrNotFound            = &Error{Kind: KindNotFound, Message: "recurso no encontrado"}
	ErrDuplicateCode       = &Error{Kind: KindDuplicateCode, Message: "ya existe un producto con este código"}
	ErrInsufficientStock   = &Error{Kind: KindInsufficientStock, Message: "stock insuficiente"}
	ErrUserNotFound        = &Error{Kind: KindUserNotFound, Message: "usuario no encontrado"}
	ErrInvalidInput        = &Error{Kind: KindValidation, Message: "entrada inválida"}
	ErrReferentialConflict = &Error{Kind: KindReferentialConflict, Message: "referencia inválida"}
	ErrUnauthorized        = &Error{Kind: KindUnauthorized, Message: "no autorizado"}
)

// NotFound construye un ErrNotFound para el recurso indicado ("producto", "factura").
func NotFound(resource string) error {
	return &Error{Kind: KindNotFound, Message: resource + " no existe"}
}

// InsufficientStock construye el error con código de producto, disponible y solicitado.
func InsufficientStock(code string, available, requested int) error {
	return &Error{
		Kind:    KindInsufficientStock,
		Message: fmt.Sprintf("stock insuficiente para el producto %s. Disponible: %d, Solicitado: %d", code, available, requested),
		Meta: map[string]any{
			"code":      code,
			"available": available,
			"requested": requested,
		},
	}
}

// Validation construye un ErrInvalidInput con el detalle por campo.
func Validation(message string, fields ...FieldError) error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// KindOf devuelve el Kind de err, o KindInternal si no es un error de dominio.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
