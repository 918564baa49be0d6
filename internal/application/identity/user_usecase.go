package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/naste-api/internal/application/dto"
	"github.com/jhoicas/naste-api/internal/domain"
	"github.com/jhoicas/naste-api/internal/domain/entity"
	"github.com/jhoicas/naste-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// UserUseCase provisiona los usuarios que llegan autenticados desde el proveedor de identidad.
type UserUseCase struct {
	repo repository.UserRepository
	log  zerolog.Logger
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, log zerolog.Logger) *UserUseCase {
	return &UserUseCase{repo: repo, log: log}
}

// GetOrCreate devuelve el usuario de externalID, creándolo si es la primera vez que se ve.
// Si email o nombre cambiaron en el proveedor, se sincronizan.
func (uc *UserUseCase) GetOrCreate(ctx context.Context, externalID, email, name string) (*entity.User, error) {
	if strings.TrimSpace(externalID) == "" {
		return nil, domain.ErrUnauthorized
	}
	if name == "" {
		name = email
	}
	user, err := uc.repo.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	now := time.Now().UTC()
	if user != nil {
		if (email != "" && email != user.Email) || (name != "" && name != user.Name) {
			if email != "" {
				user.Email = email
			}
			if name != "" {
				user.Name = name
			}
			user.UpdatedAt = now
			if err := uc.repo.Update(ctx, user); err != nil {
				return nil, fmt.Errorf("actualizar usuario: %w", err)
			}
		}
		return user, nil
	}

	user = &entity.User{
		ID:         uuid.New().String(),
		ExternalID: externalID,
		Email:      email,
		Name:       name,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		// Otra petición concurrente pudo crearlo primero.
		existing, getErr := uc.repo.GetByExternalID(ctx, externalID)
		if getErr == nil && existing != nil {
			return existing, nil
		}
		return nil, fmt.Errorf("crear usuario: %w", err)
	}
	uc.log.Info().Str("user_id", user.ID).Str("external_id", externalID).Msg("usuario provisionado")
	return user, nil
}

// GetByExternalID devuelve domain.ErrUserNotFound si el usuario no existe.
func (uc *UserUseCase) GetByExternalID(ctx context.Context, externalID string) (*dto.UserResponse, error) {
	user, err := uc.Find(ctx, externalID)
	if err != nil {
		return nil, err
	}
	return dto.ToUserResponse(user), nil
}

// Find devuelve la entidad del usuario por identidad externa.
func (uc *UserUseCase) Find(ctx context.Context, externalID string) (*entity.User, error) {
	user, err := uc.repo.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &domain.Error{Kind: domain.KindUserNotFound, Message: "usuario no encontrado"}
	}
	return user, nil
}

