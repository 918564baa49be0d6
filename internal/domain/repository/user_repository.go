package repository

import (
	"context"

	"github.com/jhoicas/naste-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get devuelven (nil, nil) si no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
}
