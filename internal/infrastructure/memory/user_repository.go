package memory

import (
	"context"

	"github.com/jhoicas/naste-api/internal/domain"
	"github.com/jhoicas/naste-api/internal/domain/entity"
	"github.com/jhoicas/naste-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct {
	s *Store
}

// Create persiste un usuario. external_id es único.
func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.ExternalID == user.ExternalID {
			return &domain.Error{Kind: domain.KindReferentialConflict, Message: "external_id ya registrado"}
		}
	}
	c := *user
	r.s.users[user.ID] = &c
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *UserRepo) GetByExternalID(_ context.Context, externalID string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.ExternalID == externalID {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

// Update reemplaza email y nombre del usuario.
func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	current.Email = user.Email
	current.Name = user.Name
	current.UpdatedAt = user.UpdatedAt
	return nil
}
