package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/naste-api/internal/application/identity"
	"github.com/jhoicas/naste-api/internal/domain"
	"github.com/jhoicas/naste-api/internal/domain/entity"
	"github.com/jhoicas/naste-api/pkg/jwt"
)

// Locals keys del usuario autenticado en Fiber.
const (
	LocalExternalID = "external_id"
	LocalUserID     = "user_id"
	LocalUser       = "user"
)

// AuthConfig parámetros de verificación del token de identidad.
type AuthConfig struct {
	Secret string
	Issuer string
}

// AuthMiddleware valida el Bearer Token, aprovisiona el usuario (GetOrCreate) y lo deja en c.Locals.
func AuthMiddleware(cfg AuthConfig, users *identity.UserUseCase, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "Authorization header requerido")
		}
		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return unauthorized(c, "formato: Bearer <token>")
		}
		token = strings.TrimSpace(token)
		if token == "" {
			return unauthorized(c, "token vacío")
		}
		ident, err := jwt.Parse(cfg.Secret, cfg.Issuer, token)
		if err != nil {
			log.Debug().Err(err).Msg("token rechazado")
			return unauthorized(c, "token inválido o expirado")
		}
		user, err := users.GetOrCreate(c.UserContext(), ident.ExternalID, ident.Email, ident.Name)
		if err != nil {
			return writeError(c, log, err)
		}
		c.Locals(LocalExternalID, ident.ExternalID)
		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalUser, user)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return writeError(c, zerolog.Nop(), &domain.Error{Kind: domain.KindUnauthorized, Message: msg})
}

// GetExternalID devuelve el sub del token (después del middleware de auth).
func GetExternalID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalExternalID).(string)
	return s
}

// GetUserID devuelve el id interno del usuario autenticado.
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetUser devuelve el usuario autenticado, o nil.
func GetUser(c *fiber.Ctx) *entity.User {
	u, _ := c.Locals(LocalUser).(*entity.User)
	return u
}

// RequireUUIDParams rechaza con VALIDATION las rutas cuyos parámetros no son UUID.
func RequireUUIDParams(names ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var fields []domain.FieldError
		for _, name := range names {
			if _, err := uuid.Parse(c.Params(name)); err != nil {
				fields = append(fields, domain.FieldError{Field: name, Message: "debe ser un UUID"})
			}
		}
		if len(fields) > 0 {
			return writeError(c, zerolog.Nop(), domain.Validation("parámetro de ruta inválido", fields...))
		}
		return c.Next()
	}
}

// RequestLogger registra cada petición con método, ruta, status, latencia y request id.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// el ErrorHandler fija el status final
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()

		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		default:
			ev = log.Info()
		}
		rid, _ := c.Locals("requestid").(string)
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", rid).
			Msg("http")
		return nil
	}
}
