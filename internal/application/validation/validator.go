// Package validation implementa la capa de esquemas declarativos: cada DTO declara sus
// restricciones con tags `validate:` y este paquete las evalúa y produce errores por campo.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Acquisitions-api/internal/domain"
)

const (
	// MoneyPlaces decimales con los que se guardan precios e importes (NUMERIC(14,2)).
	MoneyPlaces = 2
	// MaxPasswordBytes límite de bcrypt.
	MaxPasswordBytes = 72
)

// FieldError error de validación de un campo (nombre según el tag json).
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error agrupa los errores por campo. errors.Is(err, domain.ErrInvalidInput) es true.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validación fallida: " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error { return domain.ErrInvalidInput }

// NewError construye un Error con un único campo (validaciones fuera de los tags).
func NewError(field, message string) *Error {
	return &Error{Fields: []FieldError{{Field: field, Message: message}}}
}

// AsError extrae el *Error de una cadena de errores.
func AsError(err error) (*Error, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Validator envuelve validator.Validate con los tipos propios del dominio registrados.
type Validator struct {
	v *validator.Validate
}

// New construye el validador. Es seguro para uso concurrente; crear uno por proceso.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// decimal.Decimal se valida como float64 para poder usar gt/gte/lt en precios. Se redondea
	// a 2 decimales antes, igual que al persistir: 0.001 se valida como 0.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Round(MoneyPlaces).Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// bcrypt solo admite 72 bytes; max=72 cuenta runas y deja pasar contraseñas no ASCII.
	_ = v.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	})

	return &Validator{v: v}
}

// Struct valida s y devuelve *Error con un mensaje por campo inválido.
func (val *Validator) Struct(s interface{}) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validar: %w", err)
	}
	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "email":
		return "debe ser un email válido"
	case "uuid", "uuid4":
		return "debe ser un UUID válido"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("debe tener al menos %s caracteres", fe.Param())
		}
		return fmt.Sprintf("debe ser mayor o igual a %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("debe tener como máximo %s caracteres", fe.Param())
		}
		return fmt.Sprintf("debe ser menor o igual a %s", fe.Param())
	case "gt":
		return fmt.Sprintf("debe ser mayor que %s", fe.Param())
	case "gte":
		return fmt.Sprintf("debe ser mayor o igual a %s", fe.Param())
	case "lt":
		return fmt.Sprintf("debe ser menor que %s", fe.Param())
	case "bcryptlen":
		return fmt.Sprintf("debe ocupar como máximo %d bytes", MaxPasswordBytes)
	case "oneof":
		return fmt.Sprintf("debe ser uno de: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return "valor inválido"
	}
}
