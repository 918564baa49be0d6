package entity

import "time"

// User representa un usuario provisionado desde el proveedor de identidad.
// ExternalID es el "sub" del token; ID es el identificador interno (createdById de facturas).
type User struct {
	ID         string
	ExternalID string
	Email      string
	Name       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// UserSummary resumen del creador que acompaña a cada factura.
type UserSummary struct {
	ID    string
	Name  string
	Email string
}

// Summary devuelve el resumen público del usuario.
func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}
