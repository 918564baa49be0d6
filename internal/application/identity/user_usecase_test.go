package identity_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/naste-api/internal/application/identity"
	"github.com/jhoicas/naste-api/internal/domain"
	"github.com/jhoicas/naste-api/internal/infrastructure/memory"
)

func TestGetOrCreate_ProvisionaUnaSolaVez(t *testing.T) {
	uc := identity.NewUserUseCase(memory.NewStore().Users(), zerolog.Nop())

	first, err := uc.GetOrCreate(context.Background(), "auth0|abc", "ana@naste.co", "Ana")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	second, err := uc.GetOrCreate(context.Background(), "auth0|abc", "ana@naste.co", "Ana")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "la misma identidad externa devuelve el mismo usuario")
}

func TestGetOrCreate_SincronizaPerfil(t *testing.T) {
	uc := identity.NewUserUseCase(memory.NewStore().Users(), zerolog.Nop())
	_, err := uc.GetOrCreate(context.Background(), "auth0|abc", "ana@naste.co", "Ana")
	require.NoError(t, err)

	updated, err := uc.GetOrCreate(context.Background(), "auth0|abc", "ana.r@naste.co", "Ana R.")
	require.NoError(t, err)
	assert.Equal(t, "ana.r@naste.co", updated.Email)

	out, err := uc.GetByExternalID(context.Background(), "auth0|abc")
	require.NoError(t, err)
	assert.Equal(t, "Ana R.", out.Name)
}

func TestGetOrCreate_SinNombreUsaEmail(t *testing.T) {
	uc := identity.NewUserUseCase(memory.NewStore().Users(), zerolog.Nop())
	u, err := uc.GetOrCreate(context.Background(), "auth0|xyz", "luis@naste.co", "")
	require.NoError(t, err)
	assert.Equal(t, "luis@naste.co", u.Name)
}

func TestGetOrCreate_SinIdentidad(t *testing.T) {
	uc := identity.NewUserUseCase(memory.NewStore().Users(), zerolog.Nop())
	_, err := uc.GetOrCreate(context.Background(), " ", "x@naste.co", "X")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestGetByExternalID_Inexistente(t *testing.T) {
	uc := identity.NewUserUseCase(memory.NewStore().Users(), zerolog.Nop())
	_, err := uc.GetByExternalID(context.Background(), "auth0|nadie")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
