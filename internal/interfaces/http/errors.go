package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/naste-api/internal/application/dto"
	"github.com/jhoicas/naste-api/internal/domain"
)

// writeError traduce err al cuerpo dto.ErrorResponse con el status de su Kind.
// Los errores que no son de dominio se registran y se responden como 500 sin exponer el detalle.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return c.Status(de.Kind.HTTPStatus()).JSON(dto.ErrorResponse{
			Code:    string(de.Kind),
			Message: de.Message,
			Details: de.Fields,
			Meta:    de.Meta,
		})
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: fiberCode(fe.Code), Message: fe.Message})
	}

	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Code:    string(domain.KindInternal),
		Message: "error interno del servidor",
	})
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return string(domain.KindNotFound)
	case fiber.StatusUnauthorized:
		return string(domain.KindUnauthorized)
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	default:
		if status >= 500 {
			return string(domain.KindInternal)
		}
		return string(domain.KindValidation)
	}
}

// ErrorHandler manejador global de fiber: cualquier error no respondido por un handler pasa por writeError.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return writeError(c, log, err)
	}
}
