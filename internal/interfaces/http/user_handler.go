package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/naste-api/internal/application/identity"
)

// UserHandler expone el perfil del usuario autenticado.
type UserHandler struct {
	uc  *identity.UserUseCase
	log zerolog.Logger
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *identity.UserUseCase, log zerolog.Logger) *UserHandler {
	return &UserHandler{uc: uc, log: log}
}

// Me godoc
// @Summary      Usuario autenticado
// @Tags         user
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/user [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.GetByExternalID(c.UserContext(), GetExternalID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
