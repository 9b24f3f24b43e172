package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Acquisitions-api/internal/application/dto"
	"github.com/jhoicas/Acquisitions-api/internal/application/validation"
	"github.com/jhoicas/Acquisitions-api/internal/domain"
	"github.com/jhoicas/Acquisitions-api/pkg/logger"
)

// errInvalidBody JSON ilegible o con tipos incorrectos.
var errInvalidBody = errors.New("cuerpo inválido")

// apiError estado HTTP, código estable y mensaje para el cliente.
type apiError struct {
	status  int
	code    string
	message string
	details []validation.FieldError
}

// mapError traduce un error de dominio a la respuesta HTTP. ok=false significa error interno.
func mapError(err error) (apiError, bool) {
	if verr, ok := validation.AsError(err); ok {
		return apiError{fiber.StatusBadRequest, "VALIDATION", "datos inválidos", verr.Fields}, true
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return apiError{status: fe.Code, code: fiberCode(fe.Code), message: fe.Message}, true
	}

	switch {
	case errors.Is(err, errInvalidBody):
		return apiError{status: fiber.StatusBadRequest, code: "INVALID_BODY", message: err.Error()}, true
	case errors.Is(err, domain.ErrInvalidInput):
		return apiError{status: fiber.StatusBadRequest, code: "INVALID_INPUT", message: err.Error()}, true
	case errors.Is(err, domain.ErrUnauthorized):
		return apiError{status: fiber.StatusUnauthorized, code: "UNAUTHORIZED", message: "no autorizado"}, true
	case errors.Is(err, domain.ErrOwnListing):
		return apiError{status: fiber.StatusForbidden, code: "OWN_LISTING", message: err.Error()}, true
	case domain.IsForbidden(err):
		return apiError{status: fiber.StatusForbidden, code: "FORBIDDEN", message: "acceso denegado"}, true
	case domain.IsNotFound(err):
		return apiError{status: fiber.StatusNotFound, code: "NOT_FOUND", message: err.Error()}, true
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return apiError{status: fiber.StatusConflict, code: "EMAIL_EXISTS", message: err.Error()}, true
	case errors.Is(err, domain.ErrListingNotActive):
		return apiError{status: fiber.StatusConflict, code: "LISTING_NOT_ACTIVE", message: err.Error()}, true
	case errors.Is(err, domain.ErrListingSold):
		return apiError{status: fiber.StatusConflict, code: "LISTING_SOLD", message: err.Error()}, true
	case errors.Is(err, domain.ErrDealResolved):
		return apiError{status: fiber.StatusConflict, code: "DEAL_RESOLVED", message: err.Error()}, true
	case domain.IsConflict(err):
		return apiError{status: fiber.StatusConflict, code: "CONFLICT", message: err.Error()}, true
	}
	return apiError{}, false
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	case fiber.StatusTooManyRequests:
		return "RATE_LIMITED"
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return "INVALID_BODY"
	}
	if status >= fiber.StatusInternalServerError {
		return "INTERNAL"
	}
	return "ERROR"
}

// NewErrorHandler centraliza la respuesta de errores que devuelven los handlers (y los
// pánicos recuperados). Los internos se registran completos y al cliente solo le llega
// un mensaje genérico.
func NewErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if mapped, ok := mapError(err); ok && mapped.status < fiber.StatusInternalServerError {
			return c.Status(mapped.status).JSON(dto.ErrorResponse{
				Error:   mapped.message,
				Code:    mapped.code,
				Details: mapped.details,
			})
		}
		log.Error().
			Err(err).
			Str("request_id", GetRequestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("user_id", GetUserID(c)).
			Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "error interno",
			Code:  "INTERNAL",
		})
	}
}
