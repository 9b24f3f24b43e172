package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Acquisitions-api/internal/application/dto"
	"github.com/jhoicas/Acquisitions-api/internal/application/validation"
	"github.com/jhoicas/Acquisitions-api/internal/domain"
)

// bindJSON decodifica el cuerpo y valida las etiquetas `validate`.
func bindJSON(c *fiber.Ctx, v *validation.Validator, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return v.Struct(out)
}

// queryPage lee limit/offset; un limit ausente toma el valor por defecto.
func queryPage(c *fiber.Ctx) (dto.PageRequest, error) {
	page := dto.PageRequest{Limit: dto.DefaultLimit}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return page, validation.NewError("limit", "debe ser un entero")
		}
		page.Limit = n
	}
	if raw := c.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return page, validation.NewError("offset", "debe ser un entero")
		}
		page.Offset = n
	}
	return page, nil
}

// queryDecimal lee un importe opcional de la query string.
func queryDecimal(c *fiber.Ctx, key string) (*decimal.Decimal, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, validation.NewError(key, "debe ser un número")
	}
	return &d, nil
}

// paramID lee el :id de la ruta. Un id que no es UUID no puede existir: 404.
func paramID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", domain.ErrNotFound
	}
	return id, nil
}
