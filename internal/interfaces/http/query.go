package http

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/naste-api/internal/application/dto"
	"github.com/jhoicas/naste-api/internal/domain"
)

// queryParser acumula los errores de parseo de query params para devolverlos todos juntos.
type queryParser struct {
	c      *fiber.Ctx
	fields []domain.FieldError
}

func newQueryParser(c *fiber.Ctx) *queryParser {
	return &queryParser{c: c}
}

func (p *queryParser) fail(name, msg string) {
	p.fields = append(p.fields, domain.FieldError{Field: name, Message: msg})
}

func (p *queryParser) str(name string) string {
	return strings.TrimSpace(p.c.Query(name))
}

func (p *queryParser) integer(name string, def int) int {
	raw := p.str(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(name, "debe ser un entero")
		return def
	}
	return n
}

func (p *queryParser) boolean(name string) *bool {
	raw := p.str(name)
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(name, "debe ser true o false")
		return nil
	}
	return &b
}

func (p *queryParser) amount(name string) *decimal.Decimal {
	raw := p.str(name)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		p.fail(name, "debe ser un número")
		return nil
	}
	return &d
}

func (p *queryParser) uuidParam(name string) string {
	raw := p.str(name)
	if raw == "" {
		return ""
	}
	if _, err := uuid.Parse(raw); err != nil {
		p.fail(name, "debe ser un UUID")
		return ""
	}
	return raw
}

// date acepta RFC3339 o YYYY-MM-DD. Con endOfDay una fecha sin hora cubre el día completo.
func (p *queryParser) date(name string, endOfDay bool) *time.Time {
	raw := p.str(name)
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		p.fail(name, "fecha inválida (YYYY-MM-DD o RFC3339)")
		return nil
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t
}

func (p *queryParser) page() dto.PageRequest {
	return dto.PageRequest{
		Page:     p.integer("page", dto.DefaultPage),
		PageSize: p.integer("pageSize", dto.DefaultPageSize),
	}
}

// err devuelve un domain.Validation con todos los parámetros inválidos, o nil.
func (p *queryParser) err() error {
	if len(p.fields) == 0 {
		return nil
	}
	return domain.Validation("parámetros de consulta inválidos", p.fields...)
}
