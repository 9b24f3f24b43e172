package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Acquisitions-api/internal/application/dto"
	"github.com/jhoicas/Acquisitions-api/internal/application/usecase"
	"github.com/jhoicas/Acquisitions-api/internal/application/validation"
)

// ListingHandler maneja las publicaciones de negocios en venta.
type ListingHandler struct {
	uc  *usecase.ListingUseCase
	val *validation.Validator
}

// NewListingHandler construye el handler.
func NewListingHandler(uc *usecase.ListingUseCase, val *validation.Validator) *ListingHandler {
	return &ListingHandler{uc: uc, val: val}
}

// List godoc
// @Summary      Listar publicaciones
// @Description  Sin rol admin solo se ven publicaciones activas y el filtro status se ignora.
// @Tags         listings
// @Produce      json
// @Param        q          query  string  false  "texto en título o descripción"
// @Param        owner_id   query  string  false  "UUID del dueño"
// @Param        status     query  string  false  "active | sold | withdrawn (solo admin)"
// @Param        min_price  query  number  false  "precio mínimo"
// @Param        max_price  query  number  false  "precio máximo"
// @Param        limit      query  int     false  "1..100 (default 20)"
// @Param        offset     query  int     false  ">= 0"
// @Success      200  {object}  dto.ListingListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/listings [get]
func (h *ListingHandler) List(c *fiber.Ctx) error {
	q := dto.ListListingsQuery{
		Q:       c.Query("q"),
		OwnerID: c.Query("owner_id"),
		Status:  c.Query("status"),
	}
	var err error
	if q.MinPrice, err = queryDecimal(c, "min_price"); err != nil {
		return err
	}
	if q.MaxPrice, err = queryDecimal(c, "max_price"); err != nil {
		return err
	}
	if q.Page, err = queryPage(c); err != nil {
		return err
	}
	if err := h.val.Struct(q); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetActor(c), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener publicación
// @Tags         listings
// @Produce      json
// @Param        id   path  string  true  "Listing ID"
// @Success      200  {object}  dto.ListingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/listings/{id} [get]
func (h *ListingHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.GetByID(c.UserContext(), GetActor(c), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Publicar negocio
// @Tags         listings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateListingRequest  true  "title, description, price"
// @Success      201  {object}  dto.ListingResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/listings [post]
func (h *ListingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateListingRequest
	if err := bindJSON(c, h.val, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Modificar publicación
// @Description  Solo dueño o admin. Una publicación vendida no se modifica (409).
// @Tags         listings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                    true  "Listing ID"
// @Param        body  body  dto.UpdateListingRequest  true  "campos a modificar"
// @Success      200  {object}  dto.ListingResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/listings/{id} [patch]
func (h *ListingHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var in dto.UpdateListingRequest
	if err := bindJSON(c, h.val, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar publicación
// @Tags         listings
// @Security     BearerAuth
// @Param        id   path  string  true  "Listing ID"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/listings/{id} [delete]
func (h *ListingHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), GetActor(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
