package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/naste-api/internal/domain"
	"github.com/jhoicas/naste-api/internal/domain/entity"
)

// maxMoney límite de NUMERIC(14,2).
const maxMoney = 1e12

// Validator envuelve validator/v10 con las reglas propias de la API.
type Validator struct {
	v *validator.Validate
}

// NewValidator registra el tipo decimal, los nombres JSON de campo y las etiquetas
// money, invoice_status, invoice_origin y payment_method.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		if f >= maxMoney {
			return false
		}
		return decimal.NewFromFloat(f).Exponent() >= -2
	})
	_ = v.RegisterValidation("invoice_status", func(fl validator.FieldLevel) bool {
		return entity.InvoiceStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("invoice_origin", func(fl validator.FieldLevel) bool {
		return entity.InvoiceOrigin(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		return entity.PaymentMethod(fl.Field().String()).Valid()
	})

	return &Validator{v: v}
}

// Struct valida s y traduce los fallos a domain.Validation con detalle por campo.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domain.FieldError{Field: fieldPath(fe), Message: validationMessage(fe)})
	}
	return domain.Validation("datos inválidos", fields...)
}

// bind parsea el body JSON en out y lo valida.
func (val *Validator) bind(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return domain.Validation("cuerpo inválido", domain.FieldError{Field: "body", Message: "JSON mal formado"})
	}
	return val.Struct(out)
}

// fieldPath quita el nombre del struct raíz: "CreateInvoiceRequest.items[0].quantity" → "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo obligatorio"
	case "email":
		return "email inválido"
	case "uuid":
		return "debe ser un UUID"
	case "base64":
		return "debe estar codificado en base64"
	case "min":
		if fe.Kind() == reflect.Slice {
			return "debe tener al menos " + fe.Param() + " elemento(s)"
		}
		return "debe tener al menos " + fe.Param() + " caracter(es)"
	case "max":
		return "debe tener como máximo " + fe.Param() + " caracteres"
	case "gt":
		return "debe ser mayor que " + fe.Param()
	case "gte":
		return "debe ser mayor o igual que " + fe.Param()
	case "money":
		return "monto inválido (máximo 2 decimales)"
	case "invoice_status":
		return "estado inválido: " + joinValues(entity.InvoiceStatuses)
	case "invoice_origin":
		return "origen inválido: " + joinValues(entity.InvoiceOrigins)
	case "payment_method":
		return "medio de pago inválido: " + joinValues(entity.PaymentMethods)
	default:
		return "valor inválido"
	}
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
